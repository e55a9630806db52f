package domain

import "time"

// Task is a to-do item. CreatedAt is stamped by the store; the list
// reducers leave it zero.
type Task struct {
	ID        int64     `json:"id"`
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
	Due       *Date     `json:"due,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// HasDue reports whether the task carries a due date.
func (t Task) HasDue() bool {
	return t.Due != nil
}

// IsOverdue reports whether the task is due strictly before today and still open.
func (t Task) IsOverdue(today Date) bool {
	return IsOverdue(t, today)
}

// IsOverdue is true iff the task has a due date strictly before today and is not completed.
func IsOverdue(task Task, today Date) bool {
	if task.Completed || task.Due == nil {
		return false
	}
	return task.Due.Before(today)
}

// String returns the task text for display purposes.
func (t Task) String() string {
	return t.Text
}
