package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartLine is one (item, quantity) pairing inside a cart. Quantity is always >= 1.
type CartLine struct {
	ItemID   string `json:"itemId" bson:"item_id"`
	Quantity int    `json:"quantity" bson:"quantity"`
}

// Cart is the per-user cart document. Lines keep insertion order and hold
// at most one entry per ItemID.
type Cart struct {
	ID        string     `json:"id" db:"id" bson:"_id"`
	UserID    string     `json:"userId" db:"user_id" bson:"user_id"`
	Lines     []CartLine `json:"items" db:"items" bson:"items"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at" bson:"created_at"`
	UpdatedAt time.Time  `json:"updatedAt" db:"updated_at" bson:"updated_at"`
}

func (c *Cart) lineIndex(itemID string) int {
	for i := range c.Lines {
		if c.Lines[i].ItemID == itemID {
			return i
		}
	}
	return -1
}

// Line returns the line for itemID, if any.
func (c *Cart) Line(itemID string) (CartLine, bool) {
	if i := c.lineIndex(itemID); i >= 0 {
		return c.Lines[i], true
	}
	return CartLine{}, false
}

// AddLine merges quantity into an existing line or appends a new one.
// Callers must pass quantity >= 1.
func (c *Cart) AddLine(itemID string, quantity int, now time.Time) {
	if i := c.lineIndex(itemID); i >= 0 {
		c.Lines[i].Quantity += quantity
	} else {
		c.Lines = append(c.Lines, CartLine{ItemID: itemID, Quantity: quantity})
	}
	c.UpdatedAt = now
}

// SetQuantity overwrites a line's quantity; quantity <= 0 removes the line.
// It reports false when the cart has no line for itemID.
func (c *Cart) SetQuantity(itemID string, quantity int, now time.Time) bool {
	i := c.lineIndex(itemID)
	if i < 0 {
		return false
	}
	if quantity <= 0 {
		c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
	} else {
		c.Lines[i].Quantity = quantity
	}
	c.UpdatedAt = now
	return true
}

// RemoveLine drops the line for itemID and reports whether anything changed.
func (c *Cart) RemoveLine(itemID string, now time.Time) bool {
	i := c.lineIndex(itemID)
	if i < 0 {
		return false
	}
	c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
	c.UpdatedAt = now
	return true
}

// ItemIDs lists the referenced item ids in line order.
func (c *Cart) ItemIDs() []string {
	ids := make([]string, 0, len(c.Lines))
	for _, l := range c.Lines {
		ids = append(ids, l.ItemID)
	}
	return ids
}

// CartViewLine is a cart line joined with its catalog item at read time.
type CartViewLine struct {
	Quantity  int     `json:"quantity"`
	Product   Item    `json:"product"`
	LineTotal float64 `json:"lineTotal"`
}

// CartView is the response shape of GET /api/cart.
type CartView struct {
	Items []CartViewLine `json:"items"`
	Total float64        `json:"total"`
	// Lines whose item no longer exists in the catalog; they are left out of Items and Total.
	Unavailable int `json:"unavailable"`
}

// BuildCartView joins cart lines with the catalog. Lines whose item is missing
// from catalog are skipped and counted in Unavailable.
func BuildCartView(c *Cart, catalog map[string]Item) CartView {
	view := CartView{Items: make([]CartViewLine, 0, len(c.Lines))}
	for _, l := range c.Lines {
		item, ok := catalog[l.ItemID]
		if !ok {
			view.Unavailable++
			continue
		}
		view.Items = append(view.Items, CartViewLine{
			Quantity:  l.Quantity,
			Product:   item,
			LineTotal: lineTotal(item.Price, l.Quantity).InexactFloat64(),
		})
	}
	view.Total = ComputeTotal(view.Items)
	return view
}

// ComputeTotal sums price x quantity over resolved lines, rounded to cents.
func ComputeTotal(lines []CartViewLine) float64 {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(lineTotal(l.Product.Price, l.Quantity))
	}
	return total.Round(2).InexactFloat64()
}

func lineTotal(price float64, quantity int) decimal.Decimal {
	return decimal.NewFromFloat(price).Mul(decimal.NewFromInt(int64(quantity))).Round(2)
}
