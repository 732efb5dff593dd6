package di

import (
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	authadapters "sibtech_backend/internal/feature/auth/adapters"
	authentity "sibtech_backend/internal/feature/auth/domain/entity"
	demoadapters "sibtech_backend/internal/feature/demo/adapters"
	demousecase "sibtech_backend/internal/feature/demo/usecase"
	noteadapters "sibtech_backend/internal/feature/diseasenote/adapters"
	"sibtech_backend/internal/feature/health/adapters/prediction"
	scheduleadapters "sibtech_backend/internal/feature/schedule/adapters"
	trackingadapters "sibtech_backend/internal/feature/tracking/adapters"
	trackingusecase "sibtech_backend/internal/feature/tracking/usecase"
	"sibtech_backend/internal/platform/cache"
)

// Models lists every table for AutoMigrate.
func Models() []any {
	return []any{
		&authentity.User{},
		&authadapters.SessionModel{},
		&trackingadapters.MeasurementModel{},
		&scheduleadapters.TaskModel{},
		&prediction.PredictionModel{},
		&noteadapters.NoteModel{},
	}
}

// NewMeasurementRepository wraps the relational repository with the Redis read cache.
// With rdb == nil the cache is a pass-through.
func NewMeasurementRepository(rdb *redis.Client, db *gorm.DB, ttl time.Duration) trackingusecase.MeasurementRepository {
	return cache.NewCachingMeasurementRepository(rdb, ttl, trackingadapters.NewMeasurementRepository(db), "measurements")
}

// NewDemoStore keeps demo history in Redis when available, else in process memory.
func NewDemoStore(rdb *redis.Client, ttl time.Duration) demousecase.Store {
	if rdb != nil {
		return demoadapters.NewRedisStore(rdb, "demo", ttl)
	}
	return demoadapters.NewMemoryStore(ttl)
}
