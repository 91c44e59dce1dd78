// Package cart owns the guest's cart: an ordered sequence of lines plus
// derived totals, persisted to the session scope after every mutation.
package cart

import "strings"

// Line is one distinguishable cart entry. ID is the generated instance id;
// CatalogID references the menu item the line was built from.
type Line struct {
	ID        string   `json:"id"`
	CatalogID string   `json:"_id"`
	Name      string   `json:"name"`
	ImageURL  string   `json:"imageUrl"`
	Quantity  int      `json:"quantity"`
	Price     float64  `json:"price"`
	Variant   string   `json:"variant"`
	Options   []string `json:"options"`
	Note      string   `json:"note"`
}

// Key returns the line identity: catalog id, variant, options joined in the
// order given, and note. Option lists differing only in order are distinct
// lines on purpose — the console treats "ice,lemon" and "lemon,ice" as
// different preparations.
func (l Line) Key() string {
	return strings.Join([]string{l.CatalogID, l.Variant, strings.Join(l.Options, ","), l.Note}, "|")
}

// State is the cart's root value. TotalQuantity and TotalPrice are derived
// from Items and recomputed after every mutation; readers never observe a
// stale-total window.
type State struct {
	Items         []Line  `json:"items"`
	TotalQuantity int     `json:"totalQuantity"`
	TotalPrice    float64 `json:"totalPrice"`
}

// recompute performs a full reduction over all lines. Carts hold tens of
// lines, so correctness wins over incremental bookkeeping.
func recompute(state State) State {
	var quantity int
	var price float64
	for _, line := range state.Items {
		quantity += line.Quantity
		price += float64(line.Quantity) * line.Price
	}
	state.TotalQuantity = quantity
	state.TotalPrice = price
	return state
}

// cloneLines copies the line slice so updates never mutate a snapshot a
// subscriber may still hold.
func cloneLines(lines []Line) []Line {
	if lines == nil {
		return nil
	}
	clone := make([]Line, len(lines))
	copy(clone, lines)
	return clone
}
