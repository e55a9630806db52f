package cli

import (
	"context"

	"homebase/internal/api"
	"homebase/internal/errors"
)

// ExpenseAddCommand handles "expense add <name> <amount>"
type ExpenseAddCommand struct {
	businessAPI  api.BusinessAPI
	errorHandler *ErrorHandler
	out          writer
}

// NewExpenseAddCommand creates a new expense add command handler
func NewExpenseAddCommand(app *App) *ExpenseAddCommand {
	return &ExpenseAddCommand{businessAPI: app.businessAPI, errorHandler: NewErrorHandler(), out: writer{app.out}}
}

// Execute runs the expense add command
func (c *ExpenseAddCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errors.NewInvalidInputError("command", "expense add", "usage: hb expense add <name> <amount>")
	}
	expense, err := c.businessAPI.AddExpense(ctx, args[0], args[1])
	if err != nil {
		return c.errorHandler.Handle("add expense", err)
	}
	c.out.printf("Added expense %s: %s\n", expense.Name, expense.Amount)
	return nil
}

// ExpenseListCommand prints the ledger newest first
type ExpenseListCommand struct {
	businessAPI  api.BusinessAPI
	errorHandler *ErrorHandler
	out          writer
}

// NewExpenseListCommand creates a new expense list command handler
func NewExpenseListCommand(app *App) *ExpenseListCommand {
	return &ExpenseListCommand{businessAPI: app.businessAPI, errorHandler: NewErrorHandler(), out: writer{app.out}}
}

// Execute runs the expense list command
func (c *ExpenseListCommand) Execute(ctx context.Context, args []string) error {
	ledger, err := c.businessAPI.Ledger(ctx)
	if err != nil {
		return c.errorHandler.Handle("list expenses", err)
	}
	if ledger.Len() == 0 {
		c.out.println("No expenses recorded")
		return nil
	}
	for _, e := range ledger.Expenses() {
		c.out.printf("%s  %-20s %10s  (%s)\n", e.CreatedAt.Format("2006-01-02 15:04"), e.Name, e.Amount, e.ID)
	}
	c.out.printf("Total: %s\n", ledger.Total())
	return nil
}

// ExpenseRemoveCommand deletes one expense by id
type ExpenseRemoveCommand struct {
	businessAPI  api.BusinessAPI
	errorHandler *ErrorHandler
	out          writer
}

// NewExpenseRemoveCommand creates a new expense rm command handler
func NewExpenseRemoveCommand(app *App) *ExpenseRemoveCommand {
	return &ExpenseRemoveCommand{businessAPI: app.businessAPI, errorHandler: NewErrorHandler(), out: writer{app.out}}
}

// Execute runs the expense rm command
func (c *ExpenseRemoveCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.NewInvalidInputError("command", "expense rm", "usage: hb expense rm <id>")
	}
	if err := c.businessAPI.DeleteExpense(ctx, args[0]); err != nil {
		return c.errorHandler.Handle("delete expense", err)
	}
	c.out.printf("Deleted expense %s\n", args[0])
	return nil
}

// ExpenseClearCommand empties the ledger
type ExpenseClearCommand struct {
	businessAPI  api.BusinessAPI
	errorHandler *ErrorHandler
	out          writer
}

// NewExpenseClearCommand creates a new expense clear command handler
func NewExpenseClearCommand(app *App) *ExpenseClearCommand {
	return &ExpenseClearCommand{businessAPI: app.businessAPI, errorHandler: NewErrorHandler(), out: writer{app.out}}
}

// Execute runs the expense clear command
func (c *ExpenseClearCommand) Execute(ctx context.Context, args []string) error {
	n, err := c.businessAPI.ClearExpenses(ctx)
	if err != nil {
		return c.errorHandler.Handle("clear expenses", err)
	}
	c.out.printf("Removed %d expense(s)\n", n)
	return nil
}

// ExpenseTotalCommand prints the ledger total
type ExpenseTotalCommand struct {
	businessAPI  api.BusinessAPI
	errorHandler *ErrorHandler
	out          writer
}

// NewExpenseTotalCommand creates a new expense total command handler
func NewExpenseTotalCommand(app *App) *ExpenseTotalCommand {
	return &ExpenseTotalCommand{businessAPI: app.businessAPI, errorHandler: NewErrorHandler(), out: writer{app.out}}
}

// Execute runs the expense total command
func (c *ExpenseTotalCommand) Execute(ctx context.Context, args []string) error {
	ledger, err := c.businessAPI.Ledger(ctx)
	if err != nil {
		return c.errorHandler.Handle("load expenses", err)
	}
	c.out.println(ledger.Total().String())
	return nil
}
