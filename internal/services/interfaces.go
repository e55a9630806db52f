package services

import (
	"context"

	"homebase/internal/domain"
)

// TaskStats summarises the to-do list for the stats views
type TaskStats struct {
	Total     int     `json:"total"`
	Remaining int     `json:"remaining"`
	Completed int     `json:"completed"`
	Overdue   int     `json:"overdue"`
	Progress  float64 `json:"progress"`
}

// CartLine is a cart item joined with its catalog product
type CartLine struct {
	Product   domain.Product `json:"product"`
	Quantity  int            `json:"quantity"`
	LineTotal int64          `json:"line_total"`
}

// CartView is the priced cart shown to the shopper
type CartView struct {
	Lines    []CartLine `json:"lines"`
	Count    int        `json:"count"`
	Subtotal int64      `json:"subtotal"`
}

// TaskService handles the to-do list. Every mutation runs through the
// domain reducer and is then mirrored to storage.
type TaskService interface {
	ListTasks(ctx context.Context) (domain.TaskList, error)
	AddTask(ctx context.Context, text, due string) (domain.Task, error)
	ToggleTask(ctx context.Context, id int64) (domain.Task, bool, error)
	UpdateTask(ctx context.Context, id int64, text, due string) (domain.Task, error)
	DeleteTask(ctx context.Context, id int64) error
	ClearCompleted(ctx context.Context) (int, error)
	Stats(ctx context.Context, today domain.Date) (TaskStats, error)
}

// ExpenseService handles the expenses ledger
type ExpenseService interface {
	AddExpense(ctx context.Context, name, amount string) (domain.Expense, error)
	Ledger(ctx context.Context) (domain.Ledger, error)
	DeleteExpense(ctx context.Context, id string) error
	ClearExpenses(ctx context.Context) (int64, error)
}

// CartService handles the shopping cart over the fixed catalog
type CartService interface {
	Catalog() domain.Catalog
	Product(id string) (domain.Product, error)
	Cart(ctx context.Context) (CartView, error)
	AddProduct(ctx context.Context, productID string) (CartView, error)
	UpdateQuantity(ctx context.Context, productID string, qty int) (CartView, error)
	ClearCart(ctx context.Context) error
}

// FeedbackService handles the feedback wall
type FeedbackService interface {
	Submit(ctx context.Context, name, message string, rating int) (domain.Feedback, error)
	Recent(ctx context.Context, limit int) ([]domain.Feedback, error)
	Watch(ctx context.Context, limit int, fn func([]domain.Feedback)) error
}

// ServiceContainer manages all services and their dependencies
type ServiceContainer struct {
	TaskService     TaskService
	ExpenseService  ExpenseService
	CartService     CartService
	FeedbackService FeedbackService
}
