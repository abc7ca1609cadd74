package quote

import (
	"fmt"
	"slices"

	"github.com/shopspring/decimal"
)

// PositionStep is the gap between consecutive line positions.
const PositionStep = 10

// Cart holds the line items of the quote being assembled.
type Cart struct {
	items []LineItem
}

func NewCart() *Cart {
	return &Cart{}
}

// Add appends item at the next free position (highest position + 10) and
// returns the stored copy.
func (c *Cart) Add(item LineItem) LineItem {
	next := PositionStep
	for _, it := range c.items {
		if it.Position+PositionStep > next {
			next = it.Position + PositionStep
		}
	}

	item.Position = next
	item.SKU = NormalizeSKU(item.SKU)
	if item.Kind == "" {
		item.Kind = KindOther
	}

	c.items = append(c.items, item)

	return item
}

// Items returns a copy of the cart sorted by position.
func (c *Cart) Items() []LineItem {
	out := slices.Clone(c.items)
	slices.SortStableFunc(out, func(a, b LineItem) int { return a.Position - b.Position })

	return out
}

// Snapshot returns an independent copy of the items for persistence.
func (c *Cart) Snapshot() []LineItem {
	return c.Items()
}

func (c *Cart) Len() int {
	return len(c.items)
}

// Update replaces the item at position. The replacement may move to another
// position as long as that position is free.
func (c *Cart) Update(position int, item LineItem) error {
	idx := c.index(position)
	if idx < 0 {
		return fmt.Errorf("update position %d: %w", position, ErrItemNotFound)
	}

	if item.Position <= 0 {
		item.Position = position
	}

	if item.Position != position && c.index(item.Position) >= 0 {
		return fmt.Errorf("%w: position %d already taken", ErrInvalid, item.Position)
	}

	item.SKU = NormalizeSKU(item.SKU)
	c.items[idx] = item

	return nil
}

func (c *Cart) Remove(position int) error {
	idx := c.index(position)
	if idx < 0 {
		return fmt.Errorf("remove position %d: %w", position, ErrItemNotFound)
	}

	c.items = slices.Delete(c.items, idx, idx+1)

	return nil
}

func (c *Cart) Clear() {
	c.items = nil
}

// ApplyDiscount sets the same discount percentage on every line.
func (c *Cart) ApplyDiscount(percent decimal.Decimal) {
	for i := range c.items {
		c.items[i].DiscountPercent = percent
	}
}

// Renumber sorts the items by position and reassigns 10, 20, 30...
func (c *Cart) Renumber() {
	c.items = c.Items()
	for i := range c.items {
		c.items[i].Position = (i + 1) * PositionStep
	}
}

// Totals prices the current cart.
func (c *Cart) Totals(p Params) Totals {
	return Calculate(c.items, p)
}

func (c *Cart) index(position int) int {
	return slices.IndexFunc(c.items, func(it LineItem) bool { return it.Position == position })
}
