package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"homebase/internal/domain"
	"homebase/internal/errors"
	"homebase/internal/repository/sqlite"
	"homebase/internal/validation"
)

type expenseServiceImpl struct {
	repo      sqlite.Repository
	mapper    *domain.ExpenseMapper
	validator *validation.ExpenseValidator
	now       func() time.Time
	newID     func() string
}

// NewExpenseService creates a new ExpenseService instance
func NewExpenseService(repo sqlite.Repository, validator *validation.Validator) ExpenseService {
	return &expenseServiceImpl{
		repo:      repo,
		mapper:    domain.NewExpenseMapper(),
		validator: validation.NewExpenseValidator(validator),
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// AddExpense validates the form values and records the expense
func (e *expenseServiceImpl) AddExpense(ctx context.Context, name, amount string) (domain.Expense, error) {
	cleanName, money, err := e.validator.ValidateExpense(name, amount)
	if err != nil {
		return domain.Expense{}, err
	}

	expense := domain.Expense{
		ID:        e.newID(),
		Name:      cleanName,
		Amount:    money,
		CreatedAt: e.now().UTC().Truncate(time.Second),
	}
	row := e.mapper.ToDatabase(expense)
	if err := e.repo.CreateExpense(ctx, &row); err != nil {
		return domain.Expense{}, err
	}
	return expense, nil
}

// Ledger loads every expense, newest first
func (e *expenseServiceImpl) Ledger(ctx context.Context) (domain.Ledger, error) {
	rows, err := e.repo.ListExpenses(ctx)
	if err != nil {
		return domain.Ledger{}, err
	}
	return domain.NewLedger(e.mapper.FromDatabaseSlice(rows)), nil
}

// DeleteExpense removes an expense. An unknown ID is a no-op.
func (e *expenseServiceImpl) DeleteExpense(ctx context.Context, id string) error {
	err := e.repo.DeleteExpense(ctx, id)
	if errors.IsErrorType(err, errors.ErrorTypeNotFound) {
		return nil
	}
	return err
}

func (e *expenseServiceImpl) ClearExpenses(ctx context.Context) (int64, error) {
	return e.repo.ClearExpenses(ctx)
}
