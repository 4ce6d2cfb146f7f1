// Package cart holds the pure cart math: line totals, subtotals and the
// identity key that decides whether two lines merge.
package cart

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

type Addon struct {
	AddonID  string  `json:"addon_id"`
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

type Line struct {
	MenuItemID          string  `json:"menu_item_id"`
	Name                string  `json:"menu_item_name"`
	Quantity            int     `json:"quantity"`
	UnitPrice           float64 `json:"unit_price"`
	VariantID           string  `json:"variant_id,omitempty"`
	VariantName         string  `json:"variant_name,omitempty"`
	SpecialInstructions string  `json:"special_instructions,omitempty"`
	Addons              []Addon `json:"addons,omitempty"`
}

// MergeKey identifies a line for merge purposes: menu item, variant and
// the sorted addon-id set. Special instructions are deliberately not
// part of the key, so a later add with different instructions merges
// into the existing line and keeps the first line's instructions.
func MergeKey(l Line) string {
	addonIDs := make([]string, 0, len(l.Addons))
	for _, a := range l.Addons {
		addonIDs = append(addonIDs, a.AddonID)
	}
	sort.Strings(addonIDs)

	return l.MenuItemID + "|" + l.VariantID + "|" + strings.Join(addonIDs, ",")
}

// LineTotal is unit price times quantity plus every addon's price times
// its quantity.
func LineTotal(l Line) decimal.Decimal {
	total := decimal.NewFromFloat(l.UnitPrice).Mul(decimal.NewFromInt(int64(l.Quantity)))
	for _, a := range l.Addons {
		addonTotal := decimal.NewFromFloat(a.Price).Mul(decimal.NewFromInt(int64(a.Quantity)))
		total = total.Add(addonTotal)
	}
	return total
}

func Subtotal(lines []Line) decimal.Decimal {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(LineTotal(l))
	}
	return subtotal
}

// Add merges the line into an existing entry with the same merge key by
// summing quantities, or appends it. The input slice is not mutated.
func Add(lines []Line, l Line) []Line {
	key := MergeKey(l)
	next := make([]Line, len(lines))
	copy(next, lines)

	for i := range next {
		if MergeKey(next[i]) == key {
			next[i].Quantity += l.Quantity
			return next
		}
	}
	return append(next, l)
}
