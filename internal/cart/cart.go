package cart

import (
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/safar/storefront/internal/models"
	"github.com/shopspring/decimal"
)

var (
	ErrOutOfStock    = errors.New("out of stock")
	ErrItemNotFound  = errors.New("cart item not found")
	ErrNoSuchVariant = errors.New("variation not found")
)

type Item struct {
	Product   models.Product    `json:"product"`
	Variation *models.Variation `json:"variation,omitempty"`
	Quantity  int               `json:"quantity"`
	// Price is the unit price captured when the item was added.
	Price decimal.Decimal `json:"price"`
}

func (i Item) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

func (i Item) sameLine(productID uuid.UUID, v *models.Variation) bool {
	if i.Product.ID != productID {
		return false
	}
	if i.Variation == nil || v == nil {
		return i.Variation == nil && v == nil
	}
	return i.Variation.ID == v.ID
}

// StockNotice reports that a requested quantity was reduced to what is in
// stock.
type StockNotice struct {
	Requested int `json:"requested"`
	Available int `json:"available"`
}

func (n *StockNotice) String() string {
	return fmt.Sprintf("Only %d item(s) available in stock.", n.Available)
}

type Cart struct {
	items []Item
}

func New() *Cart {
	return &Cart{}
}

// Add puts qty of product (as variation v when non-nil) in the cart, merging
// with an existing line for the same product and variation. The resulting
// quantity is clamped to available stock.
func (c *Cart) Add(product models.Product, v *models.Variation, qty int) (*StockNotice, error) {
	if qty < 1 {
		qty = 1
	}

	available := product.AvailableStock(v)
	if available <= 0 {
		return nil, fmt.Errorf("add %s: %w", product.Name, ErrOutOfStock)
	}

	for i := range c.items {
		if c.items[i].sameLine(product.ID, v) {
			existing := c.items[i].Quantity
			// Compare against the remaining room so the sum is never formed
			// when it could overflow.
			if qty > available-existing {
				c.items[i].Quantity = available
				return &StockNotice{Requested: addSaturating(existing, qty), Available: available}, nil
			}
			c.items[i].Quantity = existing + qty
			return nil, nil
		}
	}

	item := Item{
		Product:  product,
		Quantity: clamp(qty, available),
		Price:    product.EffectivePrice(v),
	}
	if v != nil {
		variation := *v
		item.Variation = &variation
	}
	c.items = append(c.items, item)

	return noticeFor(qty, available), nil
}

// AddByVariationID resolves variationID against product before adding. A nil
// id adds the product itself.
func (c *Cart) AddByVariationID(product models.Product, variationID *uuid.UUID, qty int) (*StockNotice, error) {
	if variationID == nil {
		return c.Add(product, nil, qty)
	}
	v, ok := product.Variation(*variationID)
	if !ok {
		return nil, fmt.Errorf("add %s: %w", product.Name, ErrNoSuchVariant)
	}
	return c.Add(product, v, qty)
}

// UpdateQuantity sets the quantity of the item at index. A quantity below one
// removes the item.
func (c *Cart) UpdateQuantity(index, qty int) (*StockNotice, error) {
	if index < 0 || index >= len(c.items) {
		return nil, ErrItemNotFound
	}
	if qty < 1 {
		return nil, c.Remove(index)
	}

	item := &c.items[index]
	available := item.Product.AvailableStock(item.Variation)
	item.Quantity = clamp(qty, available)
	if item.Quantity < 1 {
		return nil, c.Remove(index)
	}
	return noticeFor(qty, available), nil
}

func (c *Cart) Remove(index int) error {
	if index < 0 || index >= len(c.items) {
		return ErrItemNotFound
	}
	c.items = append(c.items[:index], c.items[index+1:]...)
	return nil
}

func (c *Cart) Clear() {
	c.items = nil
}

func (c *Cart) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Cart) Len() int {
	return len(c.items)
}

func (c *Cart) TotalItems() int {
	total := 0
	for _, item := range c.items {
		total += item.Quantity
	}
	return total
}

func (c *Cart) Subtotal() decimal.Decimal {
	return Subtotal(c.items)
}

func Subtotal(items []Item) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.LineTotal())
	}
	return total
}

func clamp(qty, available int) int {
	if qty > available {
		return available
	}
	return qty
}

func addSaturating(a, b int) int {
	if b > math.MaxInt-a {
		return math.MaxInt
	}
	return a + b
}

func noticeFor(requested, available int) *StockNotice {
	if requested <= available {
		return nil
	}
	return &StockNotice{Requested: requested, Available: available}
}
