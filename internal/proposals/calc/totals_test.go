package calc

import (
	"math"
	"testing"

	"github.com/proposalcraft/proposalcraft-backend/internal/proposals/domain"
	"github.com/stretchr/testify/assert"
)

func TestComputeTotals(t *testing.T) {
	t.Run("two items with ten percent tax", func(t *testing.T) {
		items := []domain.LineItem{
			{ID: "a", Quantity: 1, Rate: 5000},
			{ID: "b", Quantity: 1, Rate: 2500},
		}

		got := ComputeTotals(items, 10, 0)
		assert.InDelta(t, 7500, got.Subtotal, 1e-9)
		assert.InDelta(t, 750, got.TaxAmount, 1e-9)
		assert.InDelta(t, 8250, got.GrandTotal, 1e-9)
	})

	t.Run("discount is applied before tax", func(t *testing.T) {
		items := []domain.LineItem{{ID: "a", Quantity: 4, Rate: 250}}

		got := ComputeTotals(items, 20, 100)
		assert.InDelta(t, 1000, got.Subtotal, 1e-9)
		assert.InDelta(t, 180, got.TaxAmount, 1e-9)
		assert.InDelta(t, 1080, got.GrandTotal, 1e-9)
	})

	t.Run("no items", func(t *testing.T) {
		got := ComputeTotals(nil, 10, 0)
		assert.Equal(t, Totals{}, got)
	})

	t.Run("negative inputs are not validated", func(t *testing.T) {
		items := []domain.LineItem{{ID: "a", Quantity: 1, Rate: 100}}

		got := ComputeTotals(items, -10, 200)
		assert.InDelta(t, 100, got.Subtotal, 1e-9)
		assert.InDelta(t, 10, got.TaxAmount, 1e-9)
		assert.InDelta(t, -90, got.GrandTotal, 1e-9)
	})

	t.Run("fractional values are not rounded", func(t *testing.T) {
		items := []domain.LineItem{{ID: "a", Quantity: 3, Rate: 0.333}}

		got := ComputeTotals(items, 7.5, 0)
		assert.InDelta(t, 0.999, got.Subtotal, 1e-12)
		assert.InDelta(t, 0.0749250, got.TaxAmount, 1e-12)
	})
}

func TestComputeTotals_Invariants(t *testing.T) {
	cases := []struct {
		name     string
		items    []domain.LineItem
		taxRate  float64
		discount float64
	}{
		{"single", []domain.LineItem{{Quantity: 2, Rate: 19.99}}, 8.25, 0},
		{"many", []domain.LineItem{{Quantity: 1, Rate: 10}, {Quantity: 3, Rate: 7.5}, {Quantity: 0.5, Rate: 120}}, 15, 12.5},
		{"zero tax", []domain.LineItem{{Quantity: 10, Rate: 10}}, 0, 5},
		{"discount above subtotal", []domain.LineItem{{Quantity: 1, Rate: 10}}, 10, 50},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ComputeTotals(tc.items, tc.taxRate, tc.discount)

			var sum float64
			for _, it := range tc.items {
				sum += it.Quantity * it.Rate
			}
			assert.InDelta(t, sum, got.Subtotal, 1e-9)
			assert.InDelta(t, (got.Subtotal-tc.discount)*tc.taxRate/100, got.TaxAmount, 1e-9)
			assert.InDelta(t, got.Subtotal-tc.discount+got.TaxAmount, got.GrandTotal, 1e-9)
		})
	}
}

func TestComputeTotals_OrderIndependent(t *testing.T) {
	a := []domain.LineItem{{Quantity: 1, Rate: 5000}, {Quantity: 2, Rate: 125}, {Quantity: 3, Rate: 40}}
	b := []domain.LineItem{a[2], a[0], a[1]}

	assert.InDelta(t, ComputeTotals(a, 10, 0).GrandTotal, ComputeTotals(b, 10, 0).GrandTotal, 1e-9)
}

func TestForDocument(t *testing.T) {
	assert.Equal(t, Totals{}, ForDocument(nil))

	doc := &domain.Document{
		Items:          []domain.LineItem{{Quantity: 2, Rate: 50}},
		TaxRate:        10,
		DiscountAmount: 10,
	}
	got := ForDocument(doc)
	assert.InDelta(t, 100, got.Subtotal, 1e-9)
	assert.InDelta(t, 9, got.TaxAmount, 1e-9)
	assert.InDelta(t, 99, got.GrandTotal, 1e-9)
}

func TestCheckFinite(t *testing.T) {
	base := func() *domain.Document {
		return &domain.Document{Items: []domain.LineItem{{ID: "a", Quantity: 2, Rate: 100}}, TaxRate: 10}
	}

	assert.NoError(t, CheckFinite(base()))
	assert.NoError(t, CheckFinite(nil))

	cases := map[string]func(d *domain.Document){
		"item total overflows": func(d *domain.Document) { d.Items[0].Quantity = 1e308; d.Items[0].Rate = 10 },
		"nan rate":             func(d *domain.Document) { d.Items[0].Rate = math.NaN() },
		"infinite tax rate":    func(d *domain.Document) { d.TaxRate = math.Inf(1) },
		"tax amount overflows": func(d *domain.Document) { d.Items[0].Quantity = 1e306; d.TaxRate = 1e5 },
		"infinite discount":    func(d *domain.Document) { d.DiscountAmount = math.Inf(-1) },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			d := base()
			mutate(d)
			assert.ErrorIs(t, CheckFinite(d), domain.ErrNonFiniteAmount)
		})
	}
}
