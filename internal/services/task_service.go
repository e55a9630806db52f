package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"homebase/internal/domain"
	"homebase/internal/errors"
	"homebase/internal/repository/sqlite"
	"homebase/internal/validation"
)

// taskServiceImpl implements the TaskService interface. mu serializes the
// read-modify-write of every mutation: new IDs come from the loaded list.
type taskServiceImpl struct {
	mu            sync.Mutex
	repo          sqlite.Repository
	mapper        *domain.TaskMapper
	taskValidator *validation.TaskValidator
	now           func() time.Time
}

// NewTaskService creates a new TaskService instance
func NewTaskService(repo sqlite.Repository, validator *validation.Validator) TaskService {
	return &taskServiceImpl{
		repo:          repo,
		mapper:        domain.NewTaskMapper(),
		taskValidator: validation.NewTaskValidator(validator),
		now:           time.Now,
	}
}

// ListTasks restores the persisted list. The next ID continues after the
// highest ID ever assigned, so deleted IDs are not reused.
func (t *taskServiceImpl) ListTasks(ctx context.Context) (domain.TaskList, error) {
	rows, err := t.repo.ListTasks(ctx)
	if err != nil {
		return domain.TaskList{}, err
	}
	lastID, err := t.repo.LastTaskID(ctx)
	if err != nil {
		return domain.TaskList{}, err
	}
	return domain.RestoreTaskList(t.mapper.FromDatabaseSlice(rows), lastID), nil
}

// AddTask validates the input, appends the task and stores it
func (t *taskServiceImpl) AddTask(ctx context.Context, text, due string) (domain.Task, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	trimmed, dueDate, err := t.taskValidator.ValidateTaskForCreation(text, due)
	if err != nil {
		return domain.Task{}, err
	}

	list, err := t.ListTasks(ctx)
	if err != nil {
		return domain.Task{}, err
	}

	_, task, ok := list.Add(trimmed, dueDate)
	if !ok {
		return domain.Task{}, errors.NewValidationError("task text is required", nil)
	}

	// Stored at second precision, so stamp it that way to match reloads.
	task.CreatedAt = t.now().UTC().Truncate(time.Second)
	row := t.mapper.ToDatabase(task)
	if err := t.repo.CreateTask(ctx, &row); err != nil {
		return domain.Task{}, err
	}
	return task, nil
}

// ToggleTask flips completion. An absent ID is not an error; found reports
// whether anything changed.
func (t *taskServiceImpl) ToggleTask(ctx context.Context, id int64) (domain.Task, bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	list, err := t.ListTasks(ctx)
	if err != nil {
		return domain.Task{}, false, err
	}

	task, found := list.Toggle(id).Get(id)
	if !found {
		return domain.Task{}, false, nil
	}
	if err := t.save(ctx, task); err != nil {
		return domain.Task{}, false, err
	}
	return task, true, nil
}

// UpdateTask replaces the text and due date of an existing task
func (t *taskServiceImpl) UpdateTask(ctx context.Context, id int64, text, due string) (domain.Task, error) {
	if err := t.taskValidator.ValidateTaskID(id); err != nil {
		return domain.Task{}, err
	}
	trimmed, dueDate, err := t.taskValidator.ValidateTaskForCreation(text, due)
	if err != nil {
		return domain.Task{}, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	list, err := t.ListTasks(ctx)
	if err != nil {
		return domain.Task{}, err
	}

	list, ok := list.Edit(id, trimmed, dueDate)
	if !ok {
		return domain.Task{}, errors.NewNotFoundError("task", fmt.Sprintf("%d", id))
	}
	task, _ := list.Get(id)
	if err := t.save(ctx, task); err != nil {
		return domain.Task{}, err
	}
	return task, nil
}

// DeleteTask removes a task. Deleting an absent ID is a no-op.
func (t *taskServiceImpl) DeleteTask(ctx context.Context, id int64) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	list, err := t.ListTasks(ctx)
	if err != nil {
		return err
	}
	if _, found := list.Get(id); !found {
		return nil
	}
	err = t.repo.DeleteTask(ctx, id)
	if errors.IsErrorType(err, errors.ErrorTypeNotFound) {
		return nil
	}
	return err
}

// ClearCompleted removes every completed task and reports how many went
func (t *taskServiceImpl) ClearCompleted(ctx context.Context) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	n, err := t.repo.DeleteCompletedTasks(ctx)
	return int(n), err
}

// Stats counts the list against today's date
func (t *taskServiceImpl) Stats(ctx context.Context, today domain.Date) (TaskStats, error) {
	list, err := t.ListTasks(ctx)
	if err != nil {
		return TaskStats{}, err
	}
	return TaskStats{
		Total:     list.Len(),
		Remaining: list.RemainingCount(),
		Completed: list.CompletedCount(),
		Overdue:   len(list.Overdue(today)),
		Progress:  list.Progress(),
	}, nil
}

func (t *taskServiceImpl) save(ctx context.Context, task domain.Task) error {
	row := t.mapper.ToDatabase(task)
	return t.repo.UpdateTask(ctx, &row)
}
