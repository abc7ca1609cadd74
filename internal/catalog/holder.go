package catalog

import "sync"

// Holder shares the loaded catalog between request handlers. Replacing a
// list swaps in a new Catalog value; a *Catalog returned by Current is never
// mutated afterwards.
type Holder struct {
	mu      sync.RWMutex
	current *Catalog
}

func NewHolder(c *Catalog) *Holder {
	if c == nil {
		c = &Catalog{}
	}

	return &Holder{current: c}
}

func (h *Holder) Current() *Catalog {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return h.current
}

func (h *Holder) ReplaceEquipment(products []Product) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.current = &Catalog{Equipment: products, Accessories: h.current.Accessories}
}

func (h *Holder) ReplaceAccessories(products []Product) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.current = &Catalog{Equipment: h.current.Equipment, Accessories: products}
}
