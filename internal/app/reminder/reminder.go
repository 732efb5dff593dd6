// Package reminder is the daily housekeeping job: due-task reminders and session cleanup.
package reminder

import (
	"context"
	"log/slog"
	"time"

	"sibtech_backend/internal/shared/calendar"
)

type PendingCounter interface {
	PendingCounts(ctx context.Context, day time.Time) (map[uint]int, error)
}

type SessionPurger interface {
	PurgeExpiredSessions(ctx context.Context) (int64, error)
}

type Sweeper interface {
	Sweep() int
}

// Job runs once per day. Each step logs its own failure and the others still run.
type Job struct {
	tasks    PendingCounter
	sessions SessionPurger
	demos    Sweeper // optional
	loc      *time.Location
	now      func() time.Time
}

func NewJob(tasks PendingCounter, sessions SessionPurger, demos Sweeper, loc *time.Location) *Job {
	if loc == nil {
		loc = time.UTC
	}
	return &Job{tasks: tasks, sessions: sessions, demos: demos, loc: loc, now: time.Now}
}

// Report holds what a run did.
type Report struct {
	Day            time.Time
	UsersReminded  int
	TasksDue       int
	SessionsPurged int64
	DemosSwept     int
}

// Run performs one pass.
func (j *Job) Run(ctx context.Context) Report {
	r := Report{Day: calendar.Day(j.now().In(j.loc))}

	counts, err := j.tasks.PendingCounts(ctx, r.Day)
	if err != nil {
		slog.Error("daily reminder: count pending tasks failed", "error", err)
	}
	for userID, n := range counts {
		slog.Info("care tasks due today", "user_id", userID, "pending", n, "date", calendar.Format(r.Day))
		r.UsersReminded++
		r.TasksDue += n
	}

	if r.SessionsPurged, err = j.sessions.PurgeExpiredSessions(ctx); err != nil {
		slog.Error("daily reminder: purge sessions failed", "error", err)
	}
	if j.demos != nil {
		r.DemosSwept = j.demos.Sweep()
	}

	slog.Info("daily job finished",
		"date", calendar.Format(r.Day),
		"users_reminded", r.UsersReminded,
		"tasks_due", r.TasksDue,
		"sessions_purged", r.SessionsPurged,
		"demos_swept", r.DemosSwept,
	)
	return r
}
