package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"sibtech_backend/internal/feature/schedule/domain/entity"
	"sibtech_backend/internal/feature/schedule/domain/generator"
	"sibtech_backend/internal/shared/calendar"
	"sibtech_backend/internal/shared/identity"
	"sibtech_backend/internal/shared/sortorder"
)

// MaxWeeks bounds GenerateDefaultSchedule.
const MaxWeeks = 104

// TaskRepository persists care tasks.
type TaskRepository interface {
	Create(ctx context.Context, t *entity.Task) error
	// CreateBatch stores all tasks in one insert and sets their IDs.
	CreateBatch(ctx context.Context, ts []entity.Task) error
	// FindForUser returns the task only if it belongs to userID, else ErrTaskNotFound.
	FindForUser(ctx context.Context, userID, taskID uint) (*entity.Task, error)
	SetDone(ctx context.Context, taskID uint, done bool) error
	ListByUser(ctx context.Context, userID uint, order sortorder.Order) ([]entity.Task, error)
	// ListPendingOn returns the user's tasks dated day and not done.
	ListPendingOn(ctx context.Context, userID uint, day time.Time) ([]entity.Task, error)
	// CountPendingOn counts tasks dated day and not done, per user. Users with none are absent.
	CountPendingOn(ctx context.Context, day time.Time) (map[uint]int, error)
}

// NewTask is the input of AddTask.
type NewTask struct {
	TaskName string
	Date     time.Time
	Notes    string
}

type scheduleUsecase struct {
	repo TaskRepository
}

// NewScheduleUsecase wires the schedule usecase.
func NewScheduleUsecase(repo TaskRepository) *scheduleUsecase {
	return &scheduleUsecase{repo: repo}
}

// AddTask stores a user-entered task, pending.
func (u *scheduleUsecase) AddTask(ctx context.Context, sess identity.SessionContext, in NewTask) (*entity.Task, error) {
	name := strings.TrimSpace(in.TaskName)
	if name == "" {
		return nil, ErrInvalidTask
	}
	if in.Date.IsZero() {
		return nil, ErrInvalidDate
	}
	t := &entity.Task{
		UserID:   sess.UserID,
		TaskName: name,
		Date:     calendar.Day(in.Date),
		Notes:    in.Notes,
	}
	if err := u.repo.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to store task: %w", err)
	}
	return t, nil
}

// ToggleDone sets the done flag. Setting it to its current value is a no-op.
// Tasks of other users are reported as ErrTaskNotFound.
func (u *scheduleUsecase) ToggleDone(ctx context.Context, sess identity.SessionContext, taskID uint, done bool) (*entity.Task, error) {
	t, err := u.repo.FindForUser(ctx, sess.UserID, taskID)
	if err != nil {
		return nil, err
	}
	if t.Done == done {
		return t, nil
	}
	if err := u.repo.SetDone(ctx, taskID, done); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	t.Done = done
	return t, nil
}

// GenerateDefaultSchedule persists the default plan for the user and returns it.
func (u *scheduleUsecase) GenerateDefaultSchedule(ctx context.Context, sess identity.SessionContext, start time.Time, weeks int) ([]entity.Task, error) {
	if start.IsZero() {
		return nil, ErrInvalidDate
	}
	if weeks < 1 || weeks > MaxWeeks {
		return nil, ErrInvalidWeeks
	}
	tasks := generator.GenerateDefault(start, weeks)
	for i := range tasks {
		tasks[i].UserID = sess.UserID
	}
	if err := u.repo.CreateBatch(ctx, tasks); err != nil {
		return nil, fmt.Errorf("failed to store schedule: %w", err)
	}
	return tasks, nil
}

// ListTasks returns the user's tasks ordered by date then id. Never nil.
func (u *scheduleUsecase) ListTasks(ctx context.Context, sess identity.SessionContext, order sortorder.Order) ([]entity.Task, error) {
	ts, err := u.repo.ListByUser(ctx, sess.UserID, order)
	if err != nil {
		return nil, err
	}
	if ts == nil {
		ts = []entity.Task{}
	}
	return ts, nil
}

// TodaysPendingTasks returns tasks dated today that are not done. Never nil.
func (u *scheduleUsecase) TodaysPendingTasks(ctx context.Context, sess identity.SessionContext, today time.Time) ([]entity.Task, error) {
	ts, err := u.repo.ListPendingOn(ctx, sess.UserID, calendar.Day(today))
	if err != nil {
		return nil, err
	}
	if ts == nil {
		ts = []entity.Task{}
	}
	return ts, nil
}

// PendingCounts reports, for every user with pending tasks on day, how many there are.
func (u *scheduleUsecase) PendingCounts(ctx context.Context, day time.Time) (map[uint]int, error) {
	return u.repo.CountPendingOn(ctx, calendar.Day(day))
}
