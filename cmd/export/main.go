package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"sibtech_backend/internal/app/config"
	"sibtech_backend/internal/app/di"
	"sibtech_backend/internal/feature/health/adapters/heuristic"
	"sibtech_backend/internal/feature/report/domain/table"
	reportusecase "sibtech_backend/internal/feature/report/usecase"
	"sibtech_backend/internal/platform/db"
	"sibtech_backend/internal/shared/identity"
)

func main() {
	username := flag.String("user", "", "username whose data is exported")
	format := flag.String("format", "csv", "csv or xlsx")
	kind := flag.String("kind", string(table.All), "measurements, schedule, predictions, disease or all")
	out := flag.String("out", ".", "output directory")
	flag.Parse()

	if *username == "" {
		log.Fatal("-user is required")
	}
	f, err := reportusecase.ParseFormat(*format)
	if err != nil {
		log.Fatal(err)
	}
	k, err := table.ParseKind(*kind)
	if err != nil {
		log.Fatal(err)
	}

	config.LoadDotEnv(".env")
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	gdb, err := db.OpenDB(db.LoadConfigFromEnv(), di.Models()...)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	// エクスポートは判定を行わないので heuristic で十分
	app := di.Build(cfg, gdb, nil, heuristic.New())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	u, err := app.Users.FindByUsername(ctx, *username)
	if err != nil {
		log.Fatalf("failed to load user %q: %v", *username, err)
	}
	sess := identity.SessionContext{UserID: u.ID, Username: u.Username}

	// CSV は種別ごとに別ファイルで書き出す（zip にまとめない）
	kinds := []table.Kind{k}
	if f == reportusecase.CSV && k == table.All {
		kinds = table.Kinds
	}

	if err := os.MkdirAll(*out, 0o755); err != nil {
		log.Fatal(err)
	}
	for _, kk := range kinds {
		file, err := app.Report.Export(ctx, sess, f, kk)
		if err != nil {
			log.Fatalf("export %s failed: %v", kk, err)
		}
		path := filepath.Join(*out, file.Name)
		if err := os.WriteFile(path, file.Data, 0o644); err != nil {
			log.Fatal(err)
		}
		slog.Info("exported", "user", u.Username, "kind", kk, "path", path, "bytes", len(file.Data))
	}
	log.Println("export ok")
}
