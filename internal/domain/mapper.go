package domain

import (
	"homebase/internal/repository/sqlite"
)

// TaskMapper handles conversion between domain and database Task models.
type TaskMapper struct{}

// NewTaskMapper creates a new TaskMapper instance.
func NewTaskMapper() *TaskMapper {
	return &TaskMapper{}
}

// ToDatabase converts a domain Task to a database Task.
func (m *TaskMapper) ToDatabase(t Task) sqlite.Task {
	row := sqlite.Task{
		ID:        t.ID,
		Text:      t.Text,
		Completed: t.Completed,
		CreatedAt: t.CreatedAt,
	}
	if t.Due != nil {
		s := t.Due.String()
		row.DueDate = &s
	}
	return row
}

// FromDatabase converts a database Task to a domain Task. A due date that
// no longer parses is dropped rather than failing the whole list.
func (m *TaskMapper) FromDatabase(row sqlite.Task) Task {
	t := Task{
		ID:        row.ID,
		Text:      row.Text,
		Completed: row.Completed,
		CreatedAt: row.CreatedAt,
	}
	if row.DueDate != nil {
		if d, err := ParseDate(*row.DueDate); err == nil {
			t.Due = &d
		}
	}
	return t
}

// FromDatabaseSlice converts database Tasks to domain Tasks.
func (m *TaskMapper) FromDatabaseSlice(rows []*sqlite.Task) []Task {
	out := make([]Task, len(rows))
	for i, row := range rows {
		out[i] = m.FromDatabase(*row)
	}
	return out
}

// ExpenseMapper handles conversion between domain and database Expense models.
type ExpenseMapper struct{}

func NewExpenseMapper() *ExpenseMapper {
	return &ExpenseMapper{}
}

func (m *ExpenseMapper) ToDatabase(e Expense) sqlite.Expense {
	return sqlite.Expense{
		ID:          e.ID,
		Name:        e.Name,
		AmountCents: int64(e.Amount),
		CreatedAt:   e.CreatedAt,
	}
}

func (m *ExpenseMapper) FromDatabase(row sqlite.Expense) Expense {
	return Expense{
		ID:        row.ID,
		Name:      row.Name,
		Amount:    Money(row.AmountCents),
		CreatedAt: row.CreatedAt,
	}
}

func (m *ExpenseMapper) FromDatabaseSlice(rows []*sqlite.Expense) []Expense {
	out := make([]Expense, len(rows))
	for i, row := range rows {
		out[i] = m.FromDatabase(*row)
	}
	return out
}

// CartMapper converts stored cart lines into a Cart.
type CartMapper struct{}

func NewCartMapper() *CartMapper {
	return &CartMapper{}
}

func (m *CartMapper) FromDatabaseSlice(rows []*sqlite.CartItem) Cart {
	items := make([]CartItem, len(rows))
	for i, row := range rows {
		items[i] = CartItem{ProductID: row.ProductID, Quantity: row.Quantity}
	}
	return NewCart(items)
}

// FeedbackMapper handles conversion between domain and database Feedback models.
type FeedbackMapper struct{}

func NewFeedbackMapper() *FeedbackMapper {
	return &FeedbackMapper{}
}

func (m *FeedbackMapper) ToDatabase(f Feedback) sqlite.Feedback {
	return sqlite.Feedback{
		ID:        f.ID,
		Name:      f.Name,
		Message:   f.Message,
		Rating:    f.Rating,
		CreatedAt: f.CreatedAt,
	}
}

func (m *FeedbackMapper) FromDatabase(row sqlite.Feedback) Feedback {
	return Feedback{
		ID:        row.ID,
		Name:      row.Name,
		Message:   row.Message,
		Rating:    row.Rating,
		CreatedAt: row.CreatedAt,
	}
}

func (m *FeedbackMapper) FromDatabaseSlice(rows []*sqlite.Feedback) []Feedback {
	out := make([]Feedback, len(rows))
	for i, row := range rows {
		out[i] = m.FromDatabase(*row)
	}
	return out
}
