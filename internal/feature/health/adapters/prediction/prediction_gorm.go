// Package prediction stores classification history in the predictions table.
package prediction

import (
	"context"
	"time"

	"gorm.io/gorm"

	authentity "sibtech_backend/internal/feature/auth/domain/entity"
	"sibtech_backend/internal/feature/health/domain/entity"
	"sibtech_backend/internal/feature/health/usecase"
)

type predictionGorm struct {
	db *gorm.DB
}

var _ usecase.PredictionRepository = (*predictionGorm)(nil)

func NewPredictionRepository(db *gorm.DB) *predictionGorm {
	return &predictionGorm{db: db}
}

// PredictionModel is the predictions table.
type PredictionModel struct {
	ID          uint      `gorm:"primaryKey"`
	UserID      uint      `gorm:"not null;index"`
	FileName    string    `gorm:"size:255;not null"`
	ResultLabel string    `gorm:"size:100;not null"`
	Confidence  string    `gorm:"size:8;not null"`
	Date        time.Time `gorm:"not null"`

	User authentity.User `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

func (PredictionModel) TableName() string {
	return "predictions"
}

func (r *predictionGorm) Create(ctx context.Context, p *entity.PredictionRecord) error {
	row := PredictionModel{
		UserID:      p.UserID,
		FileName:    p.FileName,
		ResultLabel: p.ResultLabel,
		Confidence:  p.Confidence,
		Date:        p.Date,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return err
	}
	p.ID = row.ID
	return nil
}

func (r *predictionGorm) ListByUser(ctx context.Context, userID uint) ([]entity.PredictionRecord, error) {
	var rows []PredictionModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date desc, id desc").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]entity.PredictionRecord, 0, len(rows))
	for _, m := range rows {
		out = append(out, entity.PredictionRecord{
			ID:          m.ID,
			UserID:      m.UserID,
			FileName:    m.FileName,
			ResultLabel: m.ResultLabel,
			Confidence:  m.Confidence,
			Date:        m.Date,
		})
	}
	return out, nil
}
