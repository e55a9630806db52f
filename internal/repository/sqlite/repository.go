package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"homebase/internal/errors"
	"homebase/internal/repository/sqlite/migrations"

	_ "modernc.org/sqlite"
)

// Repository defines the interface for database operations
type Repository interface {
	// Tasks
	CreateTask(ctx context.Context, task *Task) error
	GetTask(ctx context.Context, id int64) (*Task, error)
	ListTasks(ctx context.Context) ([]*Task, error)
	UpdateTask(ctx context.Context, task *Task) error
	DeleteTask(ctx context.Context, id int64) error
	DeleteCompletedTasks(ctx context.Context) (int64, error)
	LastTaskID(ctx context.Context) (int64, error)

	// Expenses
	CreateExpense(ctx context.Context, expense *Expense) error
	ListExpenses(ctx context.Context) ([]*Expense, error)
	DeleteExpense(ctx context.Context, id string) error
	ClearExpenses(ctx context.Context) (int64, error)

	// Cart
	ListCartItems(ctx context.Context) ([]*CartItem, error)
	SaveCartItem(ctx context.Context, item *CartItem) error
	DeleteCartItem(ctx context.Context, productID string) error
	ClearCart(ctx context.Context) (int64, error)

	// Feedback
	CreateFeedback(ctx context.Context, feedback *Feedback) error
	ListRecentFeedback(ctx context.Context, limit int) ([]*Feedback, error)

	// Utility
	Close() error
}

// SQLiteRepository implements the Repository interface
type SQLiteRepository struct {
	db *sql.DB
}

// New creates a new SQLite repository instance and brings its schema up to date
func New(dbPath string) (*SQLiteRepository, error) {
	return NewWithContext(context.Background(), dbPath)
}

// NewWithContext is New with a caller supplied context for the migration run
func NewWithContext(ctx context.Context, dbPath string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.NewDatabaseError("open database", err)
	}
	// A single connection keeps ":memory:" databases coherent and serializes writers.
	db.SetMaxOpenConns(1)

	if err := migrations.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, errors.NewDatabaseError("run migrations", err)
	}

	return &SQLiteRepository{db: db}, nil
}

// Close closes the database connection
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// CreateTask inserts a task. A positive ID is kept as given, otherwise the
// database assigns the next one.
func (r *SQLiteRepository) CreateTask(ctx context.Context, task *Task) error {
	if task.ID > 0 {
		query := `
		INSERT INTO tasks (id, text, completed, due_date, created_at)
		VALUES (?, ?, ?, ?, ?)`
		_, err := insert(ctx, r.db, query, task.ID, task.Text, BoolToInt(task.Completed), FormatStringPtrForDB(task.DueDate), FormatTimeForDB(task.CreatedAt))
		return err
	}

	query := `
	INSERT INTO tasks (text, completed, due_date, created_at)
	VALUES (?, ?, ?, ?)`

	id, err := insert(ctx, r.db, query, task.Text, BoolToInt(task.Completed), FormatStringPtrForDB(task.DueDate), FormatTimeForDB(task.CreatedAt))
	if err != nil {
		return err
	}

	task.ID = id
	return nil
}

// GetTask retrieves a task by ID
func (r *SQLiteRepository) GetTask(ctx context.Context, id int64) (*Task, error) {
	query := `
	SELECT id, text, completed, due_date, created_at
	FROM tasks
	WHERE id = ?`

	return queryOne(ctx, r.db, ref{"task", fmt.Sprint(id)}, ScanTask, query, id)
}

// ListTasks retrieves all tasks in insertion order
func (r *SQLiteRepository) ListTasks(ctx context.Context) ([]*Task, error) {
	query := `
	SELECT id, text, completed, due_date, created_at
	FROM tasks
	ORDER BY id ASC`

	return queryAll(ctx, r.db, "tasks", ScanTasks, query)
}

// UpdateTask updates an existing task
func (r *SQLiteRepository) UpdateTask(ctx context.Context, task *Task) error {
	query := `
	UPDATE tasks
	SET text = ?, completed = ?, due_date = ?
	WHERE id = ?`

	return execOne(ctx, r.db, ref{"task", fmt.Sprint(task.ID)}, query, task.Text, BoolToInt(task.Completed), FormatStringPtrForDB(task.DueDate), task.ID)
}

// DeleteTask deletes a task by ID
func (r *SQLiteRepository) DeleteTask(ctx context.Context, id int64) error {
	query := `DELETE FROM tasks WHERE id = ?`
	return execOne(ctx, r.db, ref{"task", fmt.Sprint(id)}, query, id)
}

// DeleteCompletedTasks removes every completed task
func (r *SQLiteRepository) DeleteCompletedTasks(ctx context.Context) (int64, error) {
	return execCount(ctx, r.db, "delete completed tasks", `DELETE FROM tasks WHERE completed = 1`)
}

// LastTaskID returns the highest task ID ever assigned, including deleted tasks
func (r *SQLiteRepository) LastTaskID(ctx context.Context) (int64, error) {
	query := `SELECT COALESCE((SELECT seq FROM sqlite_sequence WHERE name = 'tasks'), 0)`

	var id int64
	if err := r.db.QueryRowContext(ctx, query).Scan(&id); err != nil {
		return 0, dbError("read task sequence", err)
	}
	return id, nil
}

// CreateExpense inserts an expense
func (r *SQLiteRepository) CreateExpense(ctx context.Context, expense *Expense) error {
	query := `
	INSERT INTO expenses (id, name, amount_cents, created_at)
	VALUES (?, ?, ?, ?)`

	_, err := insert(ctx, r.db, query, expense.ID, expense.Name, expense.AmountCents, FormatTimeForDB(expense.CreatedAt))
	return err
}

// ListExpenses returns expenses newest first
func (r *SQLiteRepository) ListExpenses(ctx context.Context) ([]*Expense, error) {
	query := `
	SELECT id, name, amount_cents, created_at
	FROM expenses
	ORDER BY created_at DESC, rowid DESC`

	return queryAll(ctx, r.db, "expenses", ScanExpenses, query)
}

// DeleteExpense deletes an expense by ID
func (r *SQLiteRepository) DeleteExpense(ctx context.Context, id string) error {
	return execOne(ctx, r.db, ref{"expense", id}, `DELETE FROM expenses WHERE id = ?`, id)
}

// ClearExpenses deletes every expense
func (r *SQLiteRepository) ClearExpenses(ctx context.Context) (int64, error) {
	return execCount(ctx, r.db, "clear expenses", `DELETE FROM expenses`)
}

// ListCartItems returns cart lines in the order they were first added
func (r *SQLiteRepository) ListCartItems(ctx context.Context) ([]*CartItem, error) {
	query := `
	SELECT product_id, quantity, updated_at
	FROM cart_items
	ORDER BY id ASC`

	return queryAll(ctx, r.db, "cart items", ScanCartItems, query)
}

// SaveCartItem inserts a cart line or updates the quantity of an existing one
func (r *SQLiteRepository) SaveCartItem(ctx context.Context, item *CartItem) error {
	query := `
	INSERT INTO cart_items (product_id, quantity, updated_at)
	VALUES (?, ?, ?)
	ON CONFLICT(product_id) DO UPDATE SET
		quantity = excluded.quantity,
		updated_at = excluded.updated_at`

	_, err := insert(ctx, r.db, query, item.ProductID, item.Quantity, FormatTimeForDB(item.UpdatedAt))
	return err
}

// DeleteCartItem removes the line for a product
func (r *SQLiteRepository) DeleteCartItem(ctx context.Context, productID string) error {
	return execOne(ctx, r.db, ref{"cart item", productID}, `DELETE FROM cart_items WHERE product_id = ?`, productID)
}

// ClearCart removes every cart line
func (r *SQLiteRepository) ClearCart(ctx context.Context) (int64, error) {
	return execCount(ctx, r.db, "clear cart", `DELETE FROM cart_items`)
}

// CreateFeedback appends a feedback entry
func (r *SQLiteRepository) CreateFeedback(ctx context.Context, feedback *Feedback) error {
	query := `
	INSERT INTO feedback (id, name, message, rating, created_at)
	VALUES (?, ?, ?, ?, ?)`

	_, err := insert(ctx, r.db, query, feedback.ID, feedback.Name, feedback.Message, feedback.Rating, FormatTimeForDB(feedback.CreatedAt))
	return err
}

// ListRecentFeedback returns at most limit entries, newest first
func (r *SQLiteRepository) ListRecentFeedback(ctx context.Context, limit int) ([]*Feedback, error) {
	query := `
	SELECT id, name, message, rating, created_at
	FROM feedback
	ORDER BY created_at DESC, rowid DESC
	LIMIT ?`

	return queryAll(ctx, r.db, "feedback", ScanFeedbackList, query, limit)
}
