// Package adapters provides the relational schedule repository.
package adapters

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	authentity "sibtech_backend/internal/feature/auth/domain/entity"
	"sibtech_backend/internal/feature/schedule/domain/entity"
	"sibtech_backend/internal/feature/schedule/usecase"
	"sibtech_backend/internal/shared/sortorder"
)

// batchSize keeps a generated year (79 rows) in one statement.
const batchSize = 500

type taskGorm struct {
	db *gorm.DB
}

var _ usecase.TaskRepository = (*taskGorm)(nil)

func NewTaskRepository(db *gorm.DB) *taskGorm {
	return &taskGorm{db: db}
}

// TaskModel is the schedule table.
type TaskModel struct {
	ID       uint      `gorm:"primaryKey"`
	UserID   uint      `gorm:"not null;index:idx_schedule_user_date,priority:1"`
	TaskName string    `gorm:"size:200;not null"`
	Date     time.Time `gorm:"not null;index:idx_schedule_user_date,priority:2"`
	Notes    string    `gorm:"type:text"`
	Done     bool      `gorm:"not null;default:false;index"`

	User authentity.User `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

func (TaskModel) TableName() string {
	return "schedule"
}

func toModel(e *entity.Task) TaskModel {
	return TaskModel{
		ID:       e.ID,
		UserID:   e.UserID,
		TaskName: e.TaskName,
		Date:     e.Date,
		Notes:    e.Notes,
		Done:     e.Done,
	}
}

func (m TaskModel) toEntity() entity.Task {
	return entity.Task{
		ID:       m.ID,
		UserID:   m.UserID,
		TaskName: m.TaskName,
		Date:     m.Date.UTC(),
		Notes:    m.Notes,
		Done:     m.Done,
	}
}

func toEntities(rows []TaskModel) []entity.Task {
	out := make([]entity.Task, 0, len(rows))
	for _, m := range rows {
		out = append(out, m.toEntity())
	}
	return out
}

func (r *taskGorm) Create(ctx context.Context, t *entity.Task) error {
	row := toModel(t)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return err
	}
	t.ID = row.ID
	return nil
}

func (r *taskGorm) CreateBatch(ctx context.Context, ts []entity.Task) error {
	if len(ts) == 0 {
		return nil
	}
	rows := make([]TaskModel, 0, len(ts))
	for i := range ts {
		rows = append(rows, toModel(&ts[i]))
	}
	if err := r.db.WithContext(ctx).CreateInBatches(&rows, batchSize).Error; err != nil {
		return err
	}
	for i := range rows {
		ts[i].ID = rows[i].ID
	}
	return nil
}

func (r *taskGorm) FindForUser(ctx context.Context, userID, taskID uint) (*entity.Task, error) {
	var row TaskModel
	if err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", taskID, userID).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrTaskNotFound
		}
		return nil, err
	}
	t := row.toEntity()
	return &t, nil
}

func (r *taskGorm) SetDone(ctx context.Context, taskID uint, done bool) error {
	return r.db.WithContext(ctx).Model(&TaskModel{}).Where("id = ?", taskID).Update("done", done).Error
}

func (r *taskGorm) ListByUser(ctx context.Context, userID uint, order sortorder.Order) ([]entity.Task, error) {
	var rows []TaskModel
	dir := order.SQL()
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order(fmt.Sprintf("date %s, id %s", dir, dir)).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toEntities(rows), nil
}

func (r *taskGorm) ListPendingOn(ctx context.Context, userID uint, day time.Time) ([]entity.Task, error) {
	var rows []TaskModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND date = ? AND done = ?", userID, day, false).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toEntities(rows), nil
}

func (r *taskGorm) CountPendingOn(ctx context.Context, day time.Time) (map[uint]int, error) {
	var rows []struct {
		UserID uint
		N      int
	}
	if err := r.db.WithContext(ctx).
		Model(&TaskModel{}).
		Select("user_id, COUNT(*) AS n").
		Where("date = ? AND done = ?", day, false).
		Group("user_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[uint]int, len(rows))
	for _, r := range rows {
		out[r.UserID] = r.N
	}
	return out, nil
}
