package domain

import "fmt"

// Product is a catalog entry. Prices are whole rupees.
type Product struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Price       int64  `json:"price"`
	Description string `json:"description"`
}

// Catalog is a fixed, ordered set of products.
type Catalog struct {
	products []Product
}

// NewCatalog builds a catalog in the given order.
func NewCatalog(products []Product) Catalog {
	out := make([]Product, len(products))
	copy(out, products)
	return Catalog{products: out}
}

// DefaultCatalog returns the store's product range.
func DefaultCatalog() Catalog {
	return NewCatalog([]Product{
		{ID: "p1", Name: "Air Wireless Headphones", Category: "Electronics", Price: 4999,
			Description: "Comfort-first wireless headphones with deep bass and 30h battery."},
		{ID: "p2", Name: "Minimal Leather Backpack", Category: "Bags", Price: 3499,
			Description: "Handsome everyday carry backpack made with durable fabric."},
		{ID: "p3", Name: "Classic Running Shoes", Category: "Footwear", Price: 2999,
			Description: "Lightweight shoes built for comfort and long runs."},
		{ID: "p4", Name: "Smartwatch Series X", Category: "Wearables", Price: 7999,
			Description: "Your health companion with workouts, sleep and notifications."},
		{ID: "p5", Name: "Ceramic Mug (Set of 2)", Category: "Home", Price: 699,
			Description: "Elegant stoneware mugs for your morning ritual."},
	})
}

func (c Catalog) Products() []Product {
	out := make([]Product, len(c.products))
	copy(out, c.products)
	return out
}

func (c Catalog) Get(id string) (Product, bool) {
	for _, p := range c.products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

// ByCategory filters products by category. An empty category returns everything.
func (c Catalog) ByCategory(category string) []Product {
	if category == "" {
		return c.Products()
	}
	var out []Product
	for _, p := range c.products {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out
}

// Categories lists each category once, in first-seen order.
func (c Catalog) Categories() []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range c.products {
		if !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	return out
}

// CartItem is a product line in the cart.
type CartItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// Cart holds product lines in the order they were first added.
type Cart struct {
	items []CartItem
}

// NewCart restores a cart. Lines with a non-positive quantity are dropped.
func NewCart(items []CartItem) Cart {
	out := make([]CartItem, 0, len(items))
	for _, it := range items {
		if it.Quantity > 0 {
			out = append(out, it)
		}
	}
	return Cart{items: out}
}

// Add increments the line for productID, creating it with quantity 1 if absent.
func (c Cart) Add(productID string) Cart {
	items := c.Items()
	for i := range items {
		if items[i].ProductID == productID {
			items[i].Quantity++
			return Cart{items: items}
		}
	}
	return Cart{items: append(items, CartItem{ProductID: productID, Quantity: 1})}
}

// UpdateQuantity sets the quantity of an existing line. A quantity of zero
// or less removes the line. Unknown products are ignored.
func (c Cart) UpdateQuantity(productID string, qty int) Cart {
	items := make([]CartItem, 0, len(c.items))
	found := false
	for _, it := range c.items {
		if it.ProductID != productID {
			items = append(items, it)
			continue
		}
		found = true
		if qty > 0 {
			it.Quantity = qty
			items = append(items, it)
		}
	}
	if !found {
		return c
	}
	return Cart{items: items}
}

func (c Cart) Clear() Cart {
	return Cart{}
}

func (c Cart) Items() []CartItem {
	out := make([]CartItem, len(c.items))
	copy(out, c.items)
	return out
}

// Quantity returns the quantity held for productID, 0 if absent.
func (c Cart) Quantity(productID string) int {
	for _, it := range c.items {
		if it.ProductID == productID {
			return it.Quantity
		}
	}
	return 0
}

// Count is the total number of units in the cart.
func (c Cart) Count() int {
	n := 0
	for _, it := range c.items {
		n += it.Quantity
	}
	return n
}

// Subtotal prices the cart against the catalog. Lines whose product is no
// longer in the catalog contribute nothing.
func (c Cart) Subtotal(catalog Catalog) int64 {
	var total int64
	for _, it := range c.items {
		if p, ok := catalog.Get(it.ProductID); ok {
			total += p.Price * int64(it.Quantity)
		}
	}
	return total
}

// FormatRupees formats a whole-rupee amount, e.g. "₹4999".
func FormatRupees(amount int64) string {
	return fmt.Sprintf("₹%d", amount)
}
