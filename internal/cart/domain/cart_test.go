package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func price(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func productA() ProductView {
	return ProductView{ID: "prod-a", Name: "Keyboard", Price: price("10.00"), ImageURL: "/img/a.png"}
}

func productB() ProductView {
	return ProductView{ID: "prod-b", Name: "Mouse", Price: price("5.00"), ImageURL: "/img/b.png"}
}

func TestTotals(t *testing.T) {
	lines := []Line{
		{ProductID: "prod-a", Quantity: 2, UnitPrice: price("10.00")},
		{ProductID: "prod-b", Quantity: 1, UnitPrice: price("5.00")},
	}
	items, total := Totals(lines)
	if items != 3 {
		t.Fatalf("items = %d, want 3", items)
	}
	if !total.Equal(price("25.00")) {
		t.Fatalf("total = %s, want 25.00", total)
	}
}

func TestTotalsEmpty(t *testing.T) {
	items, total := Totals(nil)
	if items != 0 || !total.Equal(decimal.Zero) {
		t.Fatalf("empty totals = %d/%s, want 0/0", items, total)
	}
}

func TestTotalsOrderIndependent(t *testing.T) {
	lines := []Line{
		{ProductID: "a", Quantity: 3, UnitPrice: price("1.10")},
		{ProductID: "b", Quantity: 7, UnitPrice: price("2.35")},
		{ProductID: "c", Quantity: 1, UnitPrice: price("99.99")},
	}
	reversed := []Line{lines[2], lines[1], lines[0]}

	i1, p1 := Totals(lines)
	i2, p2 := Totals(reversed)
	if i1 != i2 || !p1.Equal(p2) {
		t.Fatalf("totals depend on line order: %d/%s vs %d/%s", i1, p1, i2, p2)
	}
}

func TestTotalsRoundsHalfEvenAtFinalSum(t *testing.T) {
	// Sub-cent prices only occur transiently (e.g. promotional math); the
	// calculator must bank-round once at the end, never per line.
	cases := []struct {
		unit string
		want string
	}{
		{"1.005", "1.00"}, // half rounds to even neighbour 0
		{"1.015", "1.02"}, // half rounds to even neighbour 2
		{"1.025", "1.02"},
	}
	for _, tc := range cases {
		_, total := Totals([]Line{{ProductID: "x", Quantity: 1, UnitPrice: price(tc.unit)}})
		if !total.Equal(price(tc.want)) {
			t.Errorf("Totals(%s) = %s, want %s", tc.unit, total, tc.want)
		}
	}
}

func TestMergeLineIncrementsExisting(t *testing.T) {
	c := NewCart("user-1")
	c.MergeLine(productA(), 2)
	c.MergeLine(productA(), 3)

	if len(c.Lines) != 1 {
		t.Fatalf("len(lines) = %d, want 1 (merge must not duplicate)", len(c.Lines))
	}
	if c.Lines[0].Quantity != 5 {
		t.Fatalf("quantity = %d, want 5", c.Lines[0].Quantity)
	}
	if c.TotalItems != 5 || !c.TotalPrice.Equal(price("50.00")) {
		t.Fatalf("totals = %d/%s, want 5/50.00", c.TotalItems, c.TotalPrice)
	}
}

func TestMergeLineKeepsCapturedPrice(t *testing.T) {
	c := NewCart("user-1")
	c.MergeLine(productA(), 1)

	repriced := productA()
	repriced.Price = price("99.00")
	c.MergeLine(repriced, 1)

	if !c.Lines[0].UnitPrice.Equal(price("10.00")) {
		t.Fatalf("unit price = %s, want the originally captured 10.00", c.Lines[0].UnitPrice)
	}
	if !c.TotalPrice.Equal(price("20.00")) {
		t.Fatalf("total = %s, want 20.00", c.TotalPrice)
	}
}

func TestMergeLineNewProduct(t *testing.T) {
	c := NewCart("user-1")
	c.MergeLine(productA(), 2)
	c.MergeLine(productB(), 1)

	if len(c.Lines) != 2 {
		t.Fatalf("len(lines) = %d, want 2", len(c.Lines))
	}
	if c.TotalItems != 3 || !c.TotalPrice.Equal(price("25.00")) {
		t.Fatalf("totals = %d/%s, want 3/25.00", c.TotalItems, c.TotalPrice)
	}
}

func TestRemoveLine(t *testing.T) {
	c := NewCart("user-1")
	c.MergeLine(productA(), 2)
	c.MergeLine(productB(), 1)

	if err := c.RemoveLine(c.Lines[0].ID); err != nil {
		t.Fatalf("RemoveLine: %v", err)
	}
	if len(c.Lines) != 1 || c.Lines[0].ProductID != "prod-b" {
		t.Fatalf("unexpected lines after remove: %+v", c.Lines)
	}
	if c.TotalItems != 1 || !c.TotalPrice.Equal(price("5.00")) {
		t.Fatalf("totals = %d/%s, want 1/5.00", c.TotalItems, c.TotalPrice)
	}
}

func TestRemoveLineMissing(t *testing.T) {
	c := NewCart("user-1")
	c.MergeLine(productA(), 2)
	before := c.TotalPrice

	if err := c.RemoveLine("no-such-line"); err != ErrLineNotFound {
		t.Fatalf("err = %v, want ErrLineNotFound", err)
	}
	if c.TotalItems != 2 || !c.TotalPrice.Equal(before) {
		t.Fatalf("totals changed on failed remove: %d/%s", c.TotalItems, c.TotalPrice)
	}
}

func TestClear(t *testing.T) {
	c := NewCart("user-1")
	c.MergeLine(productA(), 2)
	c.Clear()

	if !c.IsEmpty() || c.TotalItems != 0 || !c.TotalPrice.Equal(decimal.Zero) {
		t.Fatalf("cart not emptied: %d lines, totals %d/%s", len(c.Lines), c.TotalItems, c.TotalPrice)
	}
	// clearing an already-empty cart is a no-op
	c.Clear()
	if !c.IsEmpty() {
		t.Fatal("second clear changed state")
	}
}

func TestTotalsAlwaysConsistent(t *testing.T) {
	c := NewCart("user-1")
	check := func(step string) {
		items, total := Totals(c.Lines)
		if c.TotalItems != items || !c.TotalPrice.Equal(total) {
			t.Fatalf("%s: cached totals %d/%s drifted from lines %d/%s",
				step, c.TotalItems, c.TotalPrice, items, total)
		}
	}
	c.MergeLine(productA(), 2)
	check("merge new")
	c.MergeLine(productA(), 3)
	check("merge existing")
	c.MergeLine(productB(), 1)
	check("second product")
	_ = c.RemoveLine(c.Lines[0].ID)
	check("remove")
	c.Clear()
	check("clear")
}
