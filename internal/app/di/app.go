package di

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"sibtech_backend/internal/app/config"
	"sibtech_backend/internal/app/router"
	authadapters "sibtech_backend/internal/feature/auth/adapters"
	authentity "sibtech_backend/internal/feature/auth/domain/entity"
	authhandler "sibtech_backend/internal/feature/auth/transport/handler"
	authusecase "sibtech_backend/internal/feature/auth/usecase"
	dashboardhandler "sibtech_backend/internal/feature/dashboard/transport/handler"
	dashboardusecase "sibtech_backend/internal/feature/dashboard/usecase"
	demohandler "sibtech_backend/internal/feature/demo/transport/handler"
	demousecase "sibtech_backend/internal/feature/demo/usecase"
	noteadapters "sibtech_backend/internal/feature/diseasenote/adapters"
	notehandler "sibtech_backend/internal/feature/diseasenote/transport/handler"
	noteusecase "sibtech_backend/internal/feature/diseasenote/usecase"
	"sibtech_backend/internal/feature/health/adapters/prediction"
	healthhandler "sibtech_backend/internal/feature/health/transport/handler"
	healthusecase "sibtech_backend/internal/feature/health/usecase"
	reportadapters "sibtech_backend/internal/feature/report/adapters"
	"sibtech_backend/internal/feature/report/domain/table"
	reporthandler "sibtech_backend/internal/feature/report/transport/handler"
	reportusecase "sibtech_backend/internal/feature/report/usecase"
	scheduleadapters "sibtech_backend/internal/feature/schedule/adapters"
	schedulehandler "sibtech_backend/internal/feature/schedule/transport/handler"
	scheduleusecase "sibtech_backend/internal/feature/schedule/usecase"
	trackinghandler "sibtech_backend/internal/feature/tracking/transport/handler"
	trackingusecase "sibtech_backend/internal/feature/tracking/usecase"
	jwtmw "sibtech_backend/internal/platform/jwt"
	"sibtech_backend/internal/shared/identity"
)

// Sweeper drops expired in-memory state. Only the memory demo store implements it.
type Sweeper interface {
	Sweep() int
}

// App is the wired application: the HTTP handlers plus what the daily job needs.
type App struct {
	Handlers router.Handlers
	Options  router.Options

	Auth     interface{ PurgeExpiredSessions(ctx context.Context) (int64, error) }
	Schedule interface {
		PendingCounts(ctx context.Context, day time.Time) (map[uint]int, error)
	}
	Report interface {
		Export(ctx context.Context, sess identity.SessionContext, format reportusecase.Format, kind table.Kind) (*reportusecase.File, error)
	}
	Users interface {
		FindByUsername(ctx context.Context, username string) (*authentity.User, error)
	}
	Demo Sweeper // nil when demos live in Redis
}

// Build wires every feature on top of db, the optional Redis client and the classifier.
func Build(cfg config.Config, db *gorm.DB, rdb *redis.Client, classifier healthusecase.HealthClassifier) *App {
	// Repository
	userRepo := authadapters.NewUserRepository(db)
	sessionRepo := NewSessionRepository(rdb, db)
	measurementRepo := NewMeasurementRepository(rdb, db, cfg.MeasurementCacheTTL)
	taskRepo := scheduleadapters.NewTaskRepository(db)
	predictionRepo := prediction.NewPredictionRepository(db)
	noteRepo := noteadapters.NewNoteRepository(db)
	demoStore := NewDemoStore(rdb, cfg.DemoTTL)

	// Usecase
	authUC := authusecase.NewAuthUsecase(userRepo, sessionRepo, jwtmw.NewGenerator(cfg.JWTSecret, cfg.TokenTTL), cfg.TokenTTL)
	trackingUC := trackingusecase.NewTrackingUsecase(measurementRepo)
	scheduleUC := scheduleusecase.NewScheduleUsecase(taskRepo)
	healthUC := healthusecase.NewHealthUsecase(classifier, predictionRepo)
	noteUC := noteusecase.NewNoteUsecase(noteRepo)
	demoUC := demousecase.NewDemoUsecase(demoStore, healthUC)
	reportUC := reportusecase.NewReportUsecase(reportusecase.Sources{
		Measurements: trackingUC,
		Tasks:        scheduleUC,
		Predictions:  healthUC,
		Notes:        noteUC,
	}, reportadapters.NewCSVEncoder(), reportadapters.NewXLSXEncoder())
	dashboardUC := dashboardusecase.NewDashboardUsecase(trackingUC, healthUC, scheduleUC)

	app := &App{
		Handlers: router.Handlers{
			Auth:        authhandler.NewAuthHandler(authUC),
			Dashboard:   dashboardhandler.NewDashboardHandler(dashboardUC, cfg.Location),
			Measurement: trackinghandler.NewMeasurementHandler(trackingUC),
			Schedule:    schedulehandler.NewScheduleHandler(scheduleUC, cfg.Location),
			Prediction:  healthhandler.NewPredictionHandler(healthUC),
			Note:        notehandler.NewNoteHandler(noteUC),
			Export:      reporthandler.NewExportHandler(reportUC),
			Demo:        demohandler.NewDemoHandler(demoUC),
		},
		Options: router.Options{
			JWTSecret:    cfg.JWTSecret,
			Sessions:     authUC,
			AllowOrigins: cfg.CORSAllowOrigins,
		},
		Auth:     authUC,
		Schedule: scheduleUC,
		Report:   reportUC,
		Users:    userRepo,
	}
	if s, ok := demoStore.(Sweeper); ok {
		app.Demo = s
	}
	return app
}
