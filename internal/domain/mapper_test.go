package domain

import (
	"testing"
	"time"

	"homebase/internal/repository/sqlite"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskMapper(t *testing.T) {
	m := NewTaskMapper()
	created := time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC)
	task := Task{ID: 4, Text: "Pay rent", Completed: true, Due: datePtr(2024, 1, 1), CreatedAt: created}

	row := m.ToDatabase(task)
	require.NotNil(t, row.DueDate)
	assert.Equal(t, "2024-01-01", *row.DueDate)
	assert.Equal(t, created, row.CreatedAt)
	assert.Equal(t, task, m.FromDatabase(row))

	bad := "someday"
	got := m.FromDatabase(sqlite.Task{ID: 1, Text: "x", DueDate: &bad})
	assert.Nil(t, got.Due)
}

func TestExpenseAndFeedbackMappers(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	e := Expense{ID: "a", Name: "Coffee", Amount: 750, CreatedAt: now}
	assert.Equal(t, e, NewExpenseMapper().FromDatabase(NewExpenseMapper().ToDatabase(e)))

	f := Feedback{ID: "f", Name: "Ana", Message: "hi", Rating: 4, CreatedAt: now}
	assert.Equal(t, f, NewFeedbackMapper().FromDatabase(NewFeedbackMapper().ToDatabase(f)))

	cart := NewCartMapper().FromDatabaseSlice([]*sqlite.CartItem{{ProductID: "p1", Quantity: 2}})
	assert.Equal(t, 2, cart.Count())
}
