package register

import (
	"github.com/checklane/register-backend/internal/catalog"
)

// Cart is the ordered list of scanned items for the current transaction.
// Duplicates are allowed: the same UPC scanned twice is two line items, and
// insertion order drives the order of receipt-detail inserts.
type Cart struct {
	items []catalog.Item
}

// Add appends an item to the cart.
func (c *Cart) Add(item catalog.Item) {
	c.items = append(c.items, item)
}

// Items returns a copy of the cart contents in scan order.
func (c *Cart) Items() []catalog.Item {
	out := make([]catalog.Item, len(c.items))
	copy(out, c.items)
	return out
}

// Len reports the number of line items.
func (c *Cart) Len() int {
	return len(c.items)
}

// Clear discards all items.
func (c *Cart) Clear() {
	c.items = nil
}
