package services

import (
	"context"
	"sync"
	"time"

	"homebase/internal/domain"
	"homebase/internal/errors"
	"homebase/internal/repository/sqlite"
	"homebase/internal/validation"
)

// cartServiceImpl holds mu across load-then-save so concurrent adds never
// lose an increment.
type cartServiceImpl struct {
	mu        sync.Mutex
	repo      sqlite.Repository
	catalog   domain.Catalog
	mapper    *domain.CartMapper
	validator *validation.CartValidator
	now       func() time.Time
}

// NewCartService creates a CartService over the given catalog
func NewCartService(repo sqlite.Repository, catalog domain.Catalog, validator *validation.Validator) CartService {
	return &cartServiceImpl{
		repo:      repo,
		catalog:   catalog,
		mapper:    domain.NewCartMapper(),
		validator: validation.NewCartValidator(validator),
		now:       time.Now,
	}
}

func (c *cartServiceImpl) Catalog() domain.Catalog {
	return c.catalog
}

// Product looks a product up in the catalog
func (c *cartServiceImpl) Product(id string) (domain.Product, error) {
	p, ok := c.catalog.Get(id)
	if !ok {
		return domain.Product{}, errors.NewNotFoundError("product", id)
	}
	return p, nil
}

// Cart returns the priced cart
func (c *cartServiceImpl) Cart(ctx context.Context) (CartView, error) {
	cart, err := c.load(ctx)
	if err != nil {
		return CartView{}, err
	}
	return c.view(cart), nil
}

// AddProduct puts one more unit of a catalog product in the cart
func (c *cartServiceImpl) AddProduct(ctx context.Context, productID string) (CartView, error) {
	if err := c.validator.ValidateProductID(productID); err != nil {
		return CartView{}, err
	}
	if _, err := c.Product(productID); err != nil {
		return CartView{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	cart, err := c.load(ctx)
	if err != nil {
		return CartView{}, err
	}
	cart = cart.Add(productID)

	item := &sqlite.CartItem{ProductID: productID, Quantity: cart.Quantity(productID), UpdatedAt: c.now()}
	if err := c.repo.SaveCartItem(ctx, item); err != nil {
		return CartView{}, err
	}
	return c.view(cart), nil
}

// UpdateQuantity sets a line's quantity. Zero or less removes the line and a
// product that is not in the cart is left alone.
func (c *cartServiceImpl) UpdateQuantity(ctx context.Context, productID string, qty int) (CartView, error) {
	if err := c.validator.ValidateProductID(productID); err != nil {
		return CartView{}, err
	}
	if err := c.validator.ValidateQuantity(qty); err != nil {
		return CartView{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	cart, err := c.load(ctx)
	if err != nil {
		return CartView{}, err
	}
	if cart.Quantity(productID) == 0 {
		return c.view(cart), nil
	}

	cart = cart.UpdateQuantity(productID, qty)
	if qty > 0 {
		err = c.repo.SaveCartItem(ctx, &sqlite.CartItem{ProductID: productID, Quantity: qty, UpdatedAt: c.now()})
	} else {
		err = c.repo.DeleteCartItem(ctx, productID)
	}
	if err != nil {
		return CartView{}, err
	}
	return c.view(cart), nil
}

func (c *cartServiceImpl) ClearCart(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := c.repo.ClearCart(ctx)
	return err
}

func (c *cartServiceImpl) load(ctx context.Context) (domain.Cart, error) {
	rows, err := c.repo.ListCartItems(ctx)
	if err != nil {
		return domain.Cart{}, err
	}
	return c.mapper.FromDatabaseSlice(rows), nil
}

func (c *cartServiceImpl) view(cart domain.Cart) CartView {
	v := CartView{
		Lines:    []CartLine{},
		Count:    cart.Count(),
		Subtotal: cart.Subtotal(c.catalog),
	}
	for _, it := range cart.Items() {
		p, ok := c.catalog.Get(it.ProductID)
		if !ok {
			continue
		}
		v.Lines = append(v.Lines, CartLine{Product: p, Quantity: it.Quantity, LineTotal: p.Price * int64(it.Quantity)})
	}
	return v
}
