package builder

import (
	"fmt"
	"math"
	"strconv"

	"github.com/matzehuels/bikebuilder/pkg/catalog"
)

// Totals summarizes the selection.
type Totals struct {
	Weight   float64 `json:"weight"` // grams
	Price    float64 `json:"price"`
	Currency string  `json:"currency,omitempty"`
}

// ComputeTotals sums the present weights and prices of the selection. Parts
// are visited in stacking order; the currency is taken from the first part
// with both a price and a currency and is never overwritten.
func ComputeTotals(sel *Selection) Totals {
	var t Totals
	for _, e := range stacked(sel) {
		if w, ok := e.Part.Weight.Get(); ok {
			t.Weight += w
		}
		if p, ok := e.Part.Price.Get(); ok {
			t.Price += p
			if t.Currency == "" && e.Part.Currency != "" {
				t.Currency = e.Part.Currency
			}
		}
	}
	return t
}

// WeightText formats the total weight, e.g. "1500 g".
func (t Totals) WeightText() string {
	return strconv.FormatFloat(t.Weight, 'f', -1, 64) + " g"
}

// PriceText formats the total price rounded to whole units, with the currency
// when one is known.
func (t Totals) PriceText() string {
	return wholeUnits(t.Price) + currencySuffix(t.Currency)
}

// FormatWeight formats a part weight, or "–" when unknown.
func FormatWeight(m catalog.Measure) string {
	w, ok := m.Get()
	if !ok {
		return "–"
	}
	return strconv.FormatFloat(w, 'f', -1, 64) + " g"
}

// FormatPrice formats a part price, or "–" when unknown.
func FormatPrice(p catalog.Part) string {
	v, ok := p.Price.Get()
	if !ok {
		return "–"
	}
	return wholeUnits(v) + currencySuffix(p.Currency)
}

func wholeUnits(v float64) string {
	return fmt.Sprintf("%.0f", math.Round(v))
}

func currencySuffix(c string) string {
	if c == "" {
		return ""
	}
	return " " + c
}
