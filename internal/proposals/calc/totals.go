// Package calc derives the financial totals of a proposal.
//
// It is the only place totals are computed; the live session, the preview
// and the PDF exporter all call ComputeTotals. Values are never rounded here,
// rounding belongs to presentation.
package calc

import (
	"fmt"
	"math"

	"github.com/proposalcraft/proposalcraft-backend/internal/proposals/domain"
)

// Totals are the derived, never persisted, financial figures of a document.
type Totals struct {
	Subtotal   float64 `json:"subtotal"`
	TaxAmount  float64 `json:"taxAmount"`
	GrandTotal float64 `json:"grandTotal"`
}

// ComputeTotals sums quantity × rate over items and applies the discount
// before tax. Negative rates and discounts are accepted as given.
func ComputeTotals(items []domain.LineItem, taxRate, discountAmount float64) Totals {
	var subtotal float64
	for _, item := range items {
		subtotal += item.Total()
	}

	taxable := subtotal - discountAmount
	taxAmount := taxable * (taxRate / 100)

	return Totals{
		Subtotal:   subtotal,
		TaxAmount:  taxAmount,
		GrandTotal: taxable + taxAmount,
	}
}

// ForDocument computes the totals of doc.
func ForDocument(doc *domain.Document) Totals {
	if doc == nil {
		return Totals{}
	}
	return ComputeTotals(doc.Items, doc.TaxRate, doc.DiscountAmount)
}

// CheckFinite returns domain.ErrNonFiniteAmount when an amount of doc, or a
// figure derived from it, is NaN or infinite. Such values cannot be sent as
// JSON or formatted for export.
func CheckFinite(doc *domain.Document) error {
	if doc == nil {
		return nil
	}
	for _, item := range doc.Items {
		if !finite(item.Quantity, item.Rate, item.Total()) {
			return fmt.Errorf("line item %q: %w", item.ID, domain.ErrNonFiniteAmount)
		}
	}
	if !finite(doc.TaxRate, doc.DiscountAmount) {
		return fmt.Errorf("tax rate or discount: %w", domain.ErrNonFiniteAmount)
	}
	t := ForDocument(doc)
	if !finite(t.Subtotal, t.TaxAmount, t.GrandTotal) {
		return fmt.Errorf("totals: %w", domain.ErrNonFiniteAmount)
	}
	return nil
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
