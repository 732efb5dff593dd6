// Package adapters provides the relational disease note repository.
package adapters

import (
	"context"
	"time"

	"gorm.io/gorm"

	authentity "sibtech_backend/internal/feature/auth/domain/entity"
	"sibtech_backend/internal/feature/diseasenote/domain/entity"
	"sibtech_backend/internal/feature/diseasenote/usecase"
)

type noteGorm struct {
	db *gorm.DB
}

var _ usecase.NoteRepository = (*noteGorm)(nil)

func NewNoteRepository(db *gorm.DB) *noteGorm {
	return &noteGorm{db: db}
}

// NoteModel is the disease table.
type NoteModel struct {
	ID     uint      `gorm:"primaryKey"`
	UserID uint      `gorm:"not null;index"`
	Note   string    `gorm:"type:text;not null"`
	Date   time.Time `gorm:"not null"`

	User authentity.User `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

func (NoteModel) TableName() string {
	return "disease"
}

func (r *noteGorm) Create(ctx context.Context, n *entity.Note) error {
	row := NoteModel{UserID: n.UserID, Note: n.Note, Date: n.Date}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return err
	}
	n.ID = row.ID
	return nil
}

func (r *noteGorm) ListByUser(ctx context.Context, userID uint) ([]entity.Note, error) {
	var rows []NoteModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date desc, id desc").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]entity.Note, 0, len(rows))
	for _, m := range rows {
		out = append(out, entity.Note{ID: m.ID, UserID: m.UserID, Note: m.Note, Date: m.Date})
	}
	return out, nil
}
