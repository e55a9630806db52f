package tui

import (
	"context"
	"time"

	"homebase/internal/domain"
	"homebase/internal/logging"
)

// TaskStore is where the to-do list is persisted.
type TaskStore interface {
	ListTasks(ctx context.Context) (domain.TaskList, error)
	AddTask(ctx context.Context, text, due string) (domain.Task, error)
	ToggleTask(ctx context.Context, id int64) (domain.Task, bool, error)
	DeleteTask(ctx context.Context, id int64) error
}

type Deps struct {
	Store         TaskStore
	Today         func() domain.Date
	OverdueMarker string
	// Timeout bounds each storage call.
	Timeout time.Duration
	Log     *logging.Logger
}
