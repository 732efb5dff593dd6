// Package adapters provides the relational measurement repository.
package adapters

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	authentity "sibtech_backend/internal/feature/auth/domain/entity"
	"sibtech_backend/internal/feature/tracking/domain/entity"
	"sibtech_backend/internal/feature/tracking/usecase"
	"sibtech_backend/internal/shared/sortorder"
)

type measurementGorm struct {
	db *gorm.DB
}

var _ usecase.MeasurementRepository = (*measurementGorm)(nil)

func NewMeasurementRepository(db *gorm.DB) *measurementGorm {
	return &measurementGorm{db: db}
}

// MeasurementModel is the measurements table. user_id references users.id.
type MeasurementModel struct {
	ID          uint      `gorm:"primaryKey"`
	UserID      uint      `gorm:"not null;index:idx_measurements_user_date,priority:1"`
	Date        time.Time `gorm:"not null;index:idx_measurements_user_date,priority:2"`
	Height      float64   `gorm:"not null"`
	Leaves      int       `gorm:"not null;default:0"`
	Notes       string    `gorm:"type:text"`
	PruneNeeded bool      `gorm:"not null;default:false"`

	User authentity.User `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

func (MeasurementModel) TableName() string {
	return "measurements"
}

func toModel(e *entity.Measurement) MeasurementModel {
	return MeasurementModel{
		ID:          e.ID,
		UserID:      e.UserID,
		Date:        e.Date,
		Height:      e.Height,
		Leaves:      e.Leaves,
		Notes:       e.Notes,
		PruneNeeded: e.PruneNeeded,
	}
}

func (m MeasurementModel) toEntity() entity.Measurement {
	return entity.Measurement{
		ID:          m.ID,
		UserID:      m.UserID,
		Date:        m.Date.UTC(),
		Height:      m.Height,
		Leaves:      m.Leaves,
		Notes:       m.Notes,
		PruneNeeded: m.PruneNeeded,
	}
}

func (r *measurementGorm) Create(ctx context.Context, m *entity.Measurement) error {
	row := toModel(m)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return err
	}
	m.ID = row.ID
	return nil
}

func (r *measurementGorm) ListByUser(ctx context.Context, userID uint, order sortorder.Order) ([]entity.Measurement, error) {
	var rows []MeasurementModel
	dir := order.SQL()
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order(fmt.Sprintf("date %s, id %s", dir, dir)).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]entity.Measurement, 0, len(rows))
	for _, m := range rows {
		out = append(out, m.toEntity())
	}
	return out, nil
}
