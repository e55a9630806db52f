package cli

import (
	"context"
	"strconv"

	"homebase/internal/api"
	"homebase/internal/domain"
	"homebase/internal/errors"
	"homebase/internal/services"
)

// CatalogCommand handles "cart catalog [category]"
type CatalogCommand struct {
	businessAPI api.BusinessAPI
	out         writer
}

// NewCatalogCommand creates a new catalog command handler
func NewCatalogCommand(app *App) *CatalogCommand {
	return &CatalogCommand{businessAPI: app.businessAPI, out: writer{app.out}}
}

// Execute runs the catalog command
func (c *CatalogCommand) Execute(ctx context.Context, args []string) error {
	if len(args) > 1 {
		return errors.NewInvalidInputError("command", "cart catalog", "usage: hb cart catalog [category]")
	}
	category := ""
	if len(args) == 1 {
		category = args[0]
	}

	products := c.businessAPI.Products(category)
	if len(products) == 0 {
		c.out.printf("No products in category %q. Categories: %v\n", category, c.businessAPI.Categories())
		return nil
	}
	for _, p := range products {
		c.out.printf("%-10s %-28s %-12s %8s\n", p.ID, p.Name, p.Category, domain.FormatRupees(p.Price))
	}
	return nil
}

// CartAddCommand puts one unit of a product in the cart
type CartAddCommand struct {
	businessAPI  api.BusinessAPI
	errorHandler *ErrorHandler
	out          writer
}

// NewCartAddCommand creates a new cart add command handler
func NewCartAddCommand(app *App) *CartAddCommand {
	return &CartAddCommand{businessAPI: app.businessAPI, errorHandler: NewErrorHandler(), out: writer{app.out}}
}

// Execute runs the cart add command
func (c *CartAddCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.NewInvalidInputError("command", "cart add", "usage: hb cart add <product-id>")
	}
	view, err := c.businessAPI.AddToCart(ctx, args[0])
	if err != nil {
		return c.errorHandler.Handle("add to cart", err)
	}
	printCart(c.out, view)
	return nil
}

// CartSetCommand sets the quantity of a cart line; 0 removes it
type CartSetCommand struct {
	businessAPI  api.BusinessAPI
	errorHandler *ErrorHandler
	out          writer
}

// NewCartSetCommand creates a new cart set command handler
func NewCartSetCommand(app *App) *CartSetCommand {
	return &CartSetCommand{businessAPI: app.businessAPI, errorHandler: NewErrorHandler(), out: writer{app.out}}
}

// Execute runs the cart set command
func (c *CartSetCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errors.NewInvalidInputError("command", "cart set", "usage: hb cart set <product-id> <qty>")
	}
	qty, err := strconv.Atoi(args[1])
	if err != nil {
		return c.errorHandler.Handle("update cart", errors.NewInvalidInputError("quantity", args[1], "must be a whole number"))
	}
	view, err := c.businessAPI.SetCartQuantity(ctx, args[0], qty)
	if err != nil {
		return c.errorHandler.Handle("update cart", err)
	}
	printCart(c.out, view)
	return nil
}

// CartShowCommand prints the priced cart
type CartShowCommand struct {
	businessAPI  api.BusinessAPI
	errorHandler *ErrorHandler
	out          writer
}

// NewCartShowCommand creates a new cart show command handler
func NewCartShowCommand(app *App) *CartShowCommand {
	return &CartShowCommand{businessAPI: app.businessAPI, errorHandler: NewErrorHandler(), out: writer{app.out}}
}

// Execute runs the cart show command
func (c *CartShowCommand) Execute(ctx context.Context, args []string) error {
	view, err := c.businessAPI.Cart(ctx)
	if err != nil {
		return c.errorHandler.Handle("load cart", err)
	}
	printCart(c.out, view)
	return nil
}

// CartClearCommand empties the cart
type CartClearCommand struct {
	businessAPI  api.BusinessAPI
	errorHandler *ErrorHandler
	out          writer
}

// NewCartClearCommand creates a new cart clear command handler
func NewCartClearCommand(app *App) *CartClearCommand {
	return &CartClearCommand{businessAPI: app.businessAPI, errorHandler: NewErrorHandler(), out: writer{app.out}}
}

// Execute runs the cart clear command
func (c *CartClearCommand) Execute(ctx context.Context, args []string) error {
	if err := c.businessAPI.ClearCart(ctx); err != nil {
		return c.errorHandler.Handle("clear cart", err)
	}
	c.out.println("Cart is empty")
	return nil
}

func printCart(out writer, view services.CartView) {
	if len(view.Lines) == 0 {
		out.println("Cart is empty")
		return
	}
	for _, line := range view.Lines {
		out.printf("%-28s x%-3d %8s\n", line.Product.Name, line.Quantity, domain.FormatRupees(line.LineTotal))
	}
	out.printf("%d item(s), subtotal %s\n", view.Count, domain.FormatRupees(view.Subtotal))
}
