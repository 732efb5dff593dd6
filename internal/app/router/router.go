package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	authhandler "sibtech_backend/internal/feature/auth/transport/handler"
	dashboardhandler "sibtech_backend/internal/feature/dashboard/transport/handler"
	demohandler "sibtech_backend/internal/feature/demo/transport/handler"
	notehandler "sibtech_backend/internal/feature/diseasenote/transport/handler"
	healthhandler "sibtech_backend/internal/feature/health/transport/handler"
	reporthandler "sibtech_backend/internal/feature/report/transport/handler"
	schedulehandler "sibtech_backend/internal/feature/schedule/transport/handler"
	trackinghandler "sibtech_backend/internal/feature/tracking/transport/handler"
	"sibtech_backend/internal/platform/http/handler"
	jwtmw "sibtech_backend/internal/platform/jwt"
)

// Handlers はルーターがマウントする各フィーチャーのハンドラーです。
type Handlers struct {
	Auth        *authhandler.AuthHandler
	Dashboard   *dashboardhandler.DashboardHandler
	Measurement *trackinghandler.MeasurementHandler
	Schedule    *schedulehandler.ScheduleHandler
	Prediction  *healthhandler.PredictionHandler
	Note        *notehandler.NoteHandler
	Export      *reporthandler.ExportHandler
	Demo        *demohandler.DemoHandler
}

// Options は認証と CORS の設定です。
type Options struct {
	JWTSecret    string
	Sessions     jwtmw.SessionChecker
	AllowOrigins []string // 空なら CORS 無効
}

func NewRouter(h Handlers, opt Options) *gin.Engine {
	r := gin.Default()

	if len(opt.AllowOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     opt.AllowOrigins,
			AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			ExposeHeaders:    []string{"Content-Disposition"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	// 認証不要
	// 導通確認用
	r.Any("/healthz", handler.Health)
	// 新規ユーザー登録
	r.POST("/signup", h.Auth.Signup)
	// ログイン（JWT 発行）
	r.POST("/login", h.Auth.Login)

	// デモモード（アカウント不要、DB へは書き込まない）
	demo := r.Group("/demo")
	{
		demo.POST("", h.Demo.Start)
		demo.POST("/:id/predict", h.Demo.Predict)
		demo.GET("/:id/history", h.Demo.History)
		demo.DELETE("/:id", h.Demo.Exit)
	}

	// 認証必須のルート
	auth := r.Group("/")
	auth.Use(jwtmw.AuthRequired(opt.JWTSecret, opt.Sessions))
	{
		auth.POST("/logout", h.Auth.Logout)
		auth.GET("/dashboard", h.Dashboard.Get)

		auth.POST("/measurements", h.Measurement.Add)
		auth.GET("/measurements", h.Measurement.List)
		auth.GET("/forecast", h.Measurement.Forecast)

		auth.POST("/schedule", h.Schedule.Add)
		auth.GET("/schedule", h.Schedule.List)
		auth.POST("/schedule/generate", h.Schedule.Generate)
		auth.GET("/schedule/today", h.Schedule.Today)
		auth.PATCH("/schedule/:id", h.Schedule.Toggle)

		auth.POST("/predictions", h.Prediction.Create)
		auth.GET("/predictions", h.Prediction.List)

		auth.POST("/disease-notes", h.Note.Add)
		auth.GET("/disease-notes", h.Note.List)

		auth.GET("/export", h.Export.Export)
	}

	return r
}
