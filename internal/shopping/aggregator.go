// Package shopping merges the ingredient line items of a user's cart recipes
// into a single shopping list and renders it as plain text.
package shopping

import (
	"fmt"
	"io"
	"strings"
)

// LineItem is one ingredient quantity attached to a recipe
type LineItem struct {
	Name   string
	Unit   string
	Amount int
}

// Recipe exposes the line items of a recipe in storage order
type Recipe interface {
	LineItems() []LineItem
}

// Total is the aggregated amount for one ingredient name
type Total struct {
	Name   string
	Unit   string
	Amount int
}

// Totals maps ingredient name to its aggregated total.
// Iteration order is the order in which each name was first seen.
type Totals struct {
	index   map[string]int
	entries []Total
}

func newTotals() *Totals {
	return &Totals{index: make(map[string]int)}
}

// Len returns the number of distinct ingredient names
func (t *Totals) Len() int {
	return len(t.entries)
}

// Get returns the total for a name
func (t *Totals) Get(name string) (Total, bool) {
	i, ok := t.index[name]
	if !ok {
		return Total{}, false
	}
	return t.entries[i], true
}

// Entries returns a copy of the totals in first-occurrence order
func (t *Totals) Entries() []Total {
	out := make([]Total, len(t.entries))
	copy(out, t.entries)
	return out
}

func (t *Totals) add(item LineItem) {
	if i, ok := t.index[item.Name]; ok {
		// the first unit wins; mismatched units are summed anyway
		t.entries[i].Amount += item.Amount
		return
	}
	t.index[item.Name] = len(t.entries)
	t.entries = append(t.entries, Total{Name: item.Name, Unit: item.Unit, Amount: item.Amount})
}

// Aggregate sums line item amounts across recipes, keyed by ingredient name.
// The unit reported for a name is the unit of its first occurrence.
func Aggregate(recipes []Recipe) *Totals {
	totals := newTotals()
	for _, recipe := range recipes {
		for _, item := range recipe.LineItems() {
			totals.add(item)
		}
	}
	return totals
}

// Render writes one "{name} ({unit}) - {amount}" line per total
func Render(w io.Writer, t *Totals) error {
	for _, e := range t.entries {
		if _, err := fmt.Fprintf(w, "%s (%s) - %d\n", e.Name, e.Unit, e.Amount); err != nil {
			return fmt.Errorf("failed to write shopping list line: %w", err)
		}
	}
	return nil
}

// String renders the totals as the downloadable text body
func (t *Totals) String() string {
	var b strings.Builder
	_ = Render(&b, t)
	return b.String()
}
