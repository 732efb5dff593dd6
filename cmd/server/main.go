package main

import (
	"context"
	"log"
	"log/slog"

	redisv9 "github.com/redis/go-redis/v9"

	"sibtech_backend/internal/app/config"
	"sibtech_backend/internal/app/di"
	"sibtech_backend/internal/app/reminder"
	"sibtech_backend/internal/app/router"
	"sibtech_backend/internal/platform/db"
	platformredis "sibtech_backend/internal/platform/redis"
	"sibtech_backend/internal/platform/scheduler"
)

func main() {
	// .envを読み込む
	config.LoadDotEnv(".env")
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	// db
	gdb, err := db.OpenDB(db.LoadConfigFromEnv(), di.Models()...)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}

	// Redis（任意）
	var rdb *redisv9.Client
	if tmp, err := platformredis.NewRedisClient(platformredis.LoadConfig()); err != nil {
		slog.Warn("redis unavailable, running without cache", "error", err)
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				slog.Error("failed to close redis client", "error", err)
			}
		}()
	}

	// 判定バックエンド（起動時に一度だけ疎通確認）
	classifier, closeClassifier := di.NewClassifier(context.Background(), cfg)
	defer func() {
		if err := closeClassifier(); err != nil {
			slog.Error("failed to close classifier", "error", err)
		}
	}()

	app := di.Build(cfg, gdb, rdb, classifier)

	// 毎日のリマインダー
	job := reminder.NewJob(app.Schedule, app.Auth, app.Demo, cfg.Location)
	sched := scheduler.New(cfg.Location)
	if _, err := sched.ScheduleDaily(cfg.ReminderTime, func() { job.Run(context.Background()) }); err != nil {
		log.Fatalf("failed to schedule reminder: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// ルータ生成
	r := router.NewRouter(app.Handlers, app.Options)

	// JWT_SECRETチェック（開発中の注意喚起）
	if cfg.JWTSecret == "" {
		slog.Warn("JWT_SECRET is not set. Set a strong secret in production.")
	}

	slog.Info("server starting", "port", cfg.Port, "classifier", cfg.ClassifierBackend, "redis", rdb != nil)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
