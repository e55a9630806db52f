package sqlite

import (
	"database/sql"
)

// Scanner interface defines the common scanning behavior for both sql.Row and sql.Rows
type Scanner interface {
	Scan(dest ...interface{}) error
}

// Rows interface defines the common behavior for sql.Rows
type Rows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

// ScanTask scans a single task from a database row
func ScanTask(scanner Scanner) (*Task, error) {
	task := &Task{}
	var completed int
	var due sql.NullString
	var createdAt string

	if err := scanner.Scan(&task.ID, &task.Text, &completed, &due, &createdAt); err != nil {
		return nil, err
	}

	parsed, err := ParseTimeFromDB(createdAt)
	if err != nil {
		return nil, err
	}
	task.Completed = completed != 0
	task.DueDate = NullStringPtr(due)
	task.CreatedAt = parsed
	return task, nil
}

// ScanTasks scans multiple tasks from database rows
func ScanTasks(rows Rows) ([]*Task, error) {
	return scanAll(rows, ScanTask)
}

// ScanExpense scans a single expense from a database row
func ScanExpense(scanner Scanner) (*Expense, error) {
	e := &Expense{}
	var createdAt string
	if err := scanner.Scan(&e.ID, &e.Name, &e.AmountCents, &createdAt); err != nil {
		return nil, err
	}
	parsed, err := ParseTimeFromDB(createdAt)
	if err != nil {
		return nil, err
	}
	e.CreatedAt = parsed
	return e, nil
}

func ScanExpenses(rows Rows) ([]*Expense, error) {
	return scanAll(rows, ScanExpense)
}

// ScanCartItem scans a single cart line from a database row
func ScanCartItem(scanner Scanner) (*CartItem, error) {
	item := &CartItem{}
	var updatedAt string
	if err := scanner.Scan(&item.ProductID, &item.Quantity, &updatedAt); err != nil {
		return nil, err
	}
	parsed, err := ParseTimeFromDB(updatedAt)
	if err != nil {
		return nil, err
	}
	item.UpdatedAt = parsed
	return item, nil
}

func ScanCartItems(rows Rows) ([]*CartItem, error) {
	return scanAll(rows, ScanCartItem)
}

// ScanFeedback scans a single feedback entry from a database row
func ScanFeedback(scanner Scanner) (*Feedback, error) {
	f := &Feedback{}
	var createdAt string
	if err := scanner.Scan(&f.ID, &f.Name, &f.Message, &f.Rating, &createdAt); err != nil {
		return nil, err
	}
	parsed, err := ParseTimeFromDB(createdAt)
	if err != nil {
		return nil, err
	}
	f.CreatedAt = parsed
	return f, nil
}

func ScanFeedbackList(rows Rows) ([]*Feedback, error) {
	return scanAll(rows, ScanFeedback)
}

func scanAll[T any](rows Rows, scan func(Scanner) (*T, error)) ([]*T, error) {
	var out []*T
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return out, nil
}
