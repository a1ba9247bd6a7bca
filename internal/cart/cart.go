// Package cart holds the pre-checkout item selection. A cart is scoped to a
// single branch and lives only as long as the checkout flow that owns it;
// nothing here touches the database.
package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Item is the slice of the menu a cart line needs: identity, display name,
// and the unit price at the time the item was picked.
type Item struct {
	ID        uuid.UUID
	Name      string
	UnitPrice decimal.Decimal
}

// Line is one consolidated cart entry. Quantity is always >= 1; a line
// driven to zero or below is removed from the cart entirely.
type Line struct {
	Item     Item
	Quantity int32
}

// Cart consolidates selections per item ID and preserves insertion order.
type Cart struct {
	branchID uuid.UUID
	lines    []Line
}

func New(branchID uuid.UUID) *Cart {
	return &Cart{branchID: branchID}
}

func (c *Cart) BranchID() uuid.UUID {
	return c.branchID
}

// SetBranch switches the cart to another branch. Carts never mix items from
// different branches, so switching to a new branch drops all lines.
func (c *Cart) SetBranch(branchID uuid.UUID) {
	if branchID == c.branchID {
		return
	}
	c.branchID = branchID
	c.lines = nil
}

// Add increments the line for item.ID, appending a new line with quantity 1
// when none exists.
func (c *Cart) Add(item Item) {
	for i := range c.lines {
		if c.lines[i].Item.ID == item.ID {
			c.lines[i].Quantity++
			return
		}
	}
	c.lines = append(c.lines, Line{Item: item, Quantity: 1})
}

// ChangeQuantity applies a signed delta to the matching line. A resulting
// quantity <= 0 removes the line. Unknown item IDs are a no-op.
func (c *Cart) ChangeQuantity(itemID uuid.UUID, delta int32) {
	for i := range c.lines {
		if c.lines[i].Item.ID != itemID {
			continue
		}
		c.lines[i].Quantity += delta
		if c.lines[i].Quantity <= 0 {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
		}
		return
	}
}

// Total is the sum over all lines of unit price times quantity.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(l.Item.UnitPrice.Mul(decimal.NewFromInt32(l.Quantity)))
	}
	return total
}

// Count is the sum of all quantities, not the number of distinct lines.
func (c *Cart) Count() int32 {
	var n int32
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

// Lines returns the consolidated lines in insertion order. The returned
// slice is a copy; mutating it does not affect the cart.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}
