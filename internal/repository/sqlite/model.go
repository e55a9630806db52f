package sqlite

import "time"

// Task is a row of the tasks table. DueDate holds a YYYY-MM-DD string.
type Task struct {
	ID        int64
	Text      string
	Completed bool
	DueDate   *string
	CreatedAt time.Time
}

// Expense is a row of the expenses table. Amounts are stored in cents.
type Expense struct {
	ID          string
	Name        string
	AmountCents int64
	CreatedAt   time.Time
}

// CartItem is a product line of the cart_items table.
type CartItem struct {
	ProductID string
	Quantity  int
	UpdatedAt time.Time
}

// Feedback is a row of the feedback table.
type Feedback struct {
	ID        string
	Name      string
	Message   string
	Rating    int
	CreatedAt time.Time
}
