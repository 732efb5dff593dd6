// Package db opens the relational store behind every repository.
package db

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	gmysql "gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	// DriverSQLite is the default single-file store.
	DriverSQLite = "sqlite"
	// DriverMySQL connects over TCP or a Cloud SQL unix socket.
	DriverMySQL = "mysql"
	// DriverPostgres connects over TCP or a Cloud SQL unix socket.
	DriverPostgres = "postgres"

	// DefaultSQLitePath is the database file used when DB_PATH is not set.
	DefaultSQLitePath = "users_data.db"

	retryInterval = 3 * time.Second
)

// Config holds the connection settings for the relational store.
type Config struct {
	Driver        string
	Path          string // SQLite file path
	User          string
	Password      string
	Name          string
	Host          string
	Port          string
	InstanceName  string // Cloud SQL instance connection name
	RunMigrations bool
	ConnectWait   time.Duration
}

// Opener opens a gorm connection for a DSN. It is swapped out in tests.
type Opener func(dsn string) (*gorm.DB, error)

// LoadConfigFromEnv reads database settings from environment variables.
func LoadConfigFromEnv() Config {
	driver := strings.ToLower(os.Getenv("DB_DRIVER"))
	if driver == "" {
		driver = DriverSQLite
	}
	path := os.Getenv("DB_PATH")
	if path == "" {
		path = DefaultSQLitePath
	}
	return Config{
		Driver:        driver,
		Path:          path,
		User:          os.Getenv("DB_USER"),
		Password:      os.Getenv("DB_PASSWORD"),
		Name:          os.Getenv("DB_NAME"),
		Host:          os.Getenv("DB_HOST"),
		Port:          os.Getenv("DB_PORT"),
		InstanceName:  os.Getenv("INSTANCE_CONNECTION_NAME"),
		RunMigrations: driver == DriverSQLite || os.Getenv("RUN_MIGRATIONS") == "true",
		ConnectWait:   60 * time.Second,
	}
}

// BuildDSN renders the driver-specific connection string.
// For MySQL and Postgres a Cloud SQL instance name takes precedence over host/port.
func BuildDSN(cfg Config) string {
	switch cfg.Driver {
	case DriverSQLite:
		// SQLite enforces foreign keys only when enabled per connection
		if strings.Contains(cfg.Path, "?") {
			return cfg.Path + "&_foreign_keys=on"
		}
		return cfg.Path + "?_foreign_keys=on"
	case DriverPostgres:
		host := cfg.Host
		port := cfg.Port
		if cfg.InstanceName != "" {
			host = "/cloudsql/" + cfg.InstanceName
			port = "5432"
		}
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
			host, cfg.User, cfg.Password, cfg.Name, port)
	default:
		if cfg.InstanceName != "" {
			return fmt.Sprintf("%s:%s@unix(/cloudsql/%s)/%s?charset=utf8mb4&parseTime=true&loc=Local",
				cfg.User, cfg.Password, cfg.InstanceName, cfg.Name)
		}
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=Local",
			cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Name)
	}
}

// ConnectWithRetry calls open until it succeeds or timeout elapses.
func ConnectWithRetry(dsn string, timeout time.Duration, open Opener) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := open(dsn)
		if err == nil {
			return db, nil
		}
		if !time.Now().Before(deadline) {
			return nil, fmt.Errorf("db connect failed after %s: %w", timeout, err)
		}
		slog.Warn("db connect failed, retrying", "error", err, "retry_in", retryInterval)
		time.Sleep(retryInterval)
	}
}

// OpenDB connects to the configured store and migrates models when enabled.
func OpenDB(cfg Config, models ...any) (*gorm.DB, error) {
	if cfg.Driver == DriverSQLite {
		if err := ensureDirForSQLite(cfg.Path); err != nil {
			return nil, err
		}
	}

	opener, err := openerFor(cfg.Driver)
	if err != nil {
		return nil, err
	}

	wait := cfg.ConnectWait
	if wait <= 0 {
		wait = 60 * time.Second
	}
	db, err := ConnectWithRetry(BuildDSN(cfg), wait, opener)
	if err != nil {
		return nil, err
	}

	if cfg.RunMigrations && len(models) > 0 {
		if err := db.AutoMigrate(models...); err != nil {
			return nil, fmt.Errorf("migrate db: %w", err)
		}
	}
	slog.Info("database ready", "driver", cfg.Driver)
	return db, nil
}

// gormConfig translates driver errors (duplicate keys) into gorm sentinels.
func gormConfig() *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		Logger: logger.New(
			log.New(os.Stdout, "", log.LstdFlags),
			logger.Config{
				SlowThreshold:             time.Second,
				LogLevel:                  logger.Warn,
				IgnoreRecordNotFoundError: true,
				Colorful:                  false,
			},
		),
	}
}

func openerFor(driver string) (Opener, error) {
	switch driver {
	case DriverSQLite:
		return func(dsn string) (*gorm.DB, error) { return gorm.Open(sqlite.Open(dsn), gormConfig()) }, nil
	case DriverMySQL:
		return func(dsn string) (*gorm.DB, error) { return gorm.Open(gmysql.Open(dsn), gormConfig()) }, nil
	case DriverPostgres:
		return func(dsn string) (*gorm.DB, error) { return gorm.Open(postgres.Open(dsn), gormConfig()) }, nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}
}

// ensureDirForSQLite creates the parent directory of a SQLite file if needed.
func ensureDirForSQLite(dsn string) error {
	if strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory") {
		return nil
	}
	clean := strings.TrimPrefix(dsn, "file:")
	clean = strings.Split(clean, "?")[0]
	dir := filepath.Dir(clean)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create db dir %q: %w", dir, err)
	}
	return nil
}

// OpenSQLiteMemory opens a private in-memory SQLite store for adapter tests.
// The pool is pinned to one connection because every new :memory: connection is a fresh database.
func OpenSQLiteMemory(models ...any) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true, Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	if len(models) > 0 {
		if err := db.AutoMigrate(models...); err != nil {
			return nil, err
		}
	}
	return db, nil
}
