package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrLineNotFound = errors.New("cart line not found")

// ProductView is the display snapshot carried on a line for rendering.
// UnitPrice on the line, not ProductView.Price, is what the cart charges.
type ProductView struct {
	ID       string
	Name     string
	Price    decimal.Decimal
	ImageURL string
}

type Line struct {
	ID        string
	ProductID string
	Quantity  int
	UnitPrice decimal.Decimal
	Product   ProductView
}

// Cart is the per-user aggregate. TotalItems and TotalPrice are cached and
// recomputed on every mutation; they are never allowed to drift from Lines.
// Version backs the optimistic lost-update check in the repository.
type Cart struct {
	ID         string
	OwnerID    string
	Lines      []Line
	TotalItems int
	TotalPrice decimal.Decimal
	Version    int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func NewCart(ownerID string) Cart {
	now := time.Now().UTC()
	return Cart{
		ID:         uuid.NewString(),
		OwnerID:    ownerID,
		TotalPrice: decimal.Zero,
		Version:    1,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Totals sums quantity and quantity×unitPrice over a line set with exact
// decimal arithmetic. Round-half-even is applied once, at the final sum.
// The result does not depend on line order.
func Totals(lines []Line) (int, decimal.Decimal) {
	items := 0
	price := decimal.Zero
	for _, l := range lines {
		items += l.Quantity
		price = price.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return items, price.RoundBank(2)
}

func (c *Cart) recalculate() {
	c.TotalItems, c.TotalPrice = Totals(c.Lines)
	c.UpdatedAt = time.Now().UTC()
}

// MergeLine adds quantity to an existing line for the product, or creates a
// new line capturing the product's current price. A merge never refreshes the
// unit price already captured on the line.
func (c *Cart) MergeLine(p ProductView, quantity int) {
	for i := range c.Lines {
		if c.Lines[i].ProductID == p.ID {
			c.Lines[i].Quantity += quantity
			c.recalculate()
			return
		}
	}
	c.Lines = append(c.Lines, Line{
		ID:        uuid.NewString(),
		ProductID: p.ID,
		Quantity:  quantity,
		UnitPrice: p.Price,
		Product:   p,
	})
	c.recalculate()
}

func (c *Cart) RemoveLine(lineID string) error {
	for i := range c.Lines {
		if c.Lines[i].ID == lineID {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			c.recalculate()
			return nil
		}
	}
	return ErrLineNotFound
}

func (c *Cart) Clear() {
	c.Lines = nil
	c.recalculate()
}

func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}
