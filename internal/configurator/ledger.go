package configurator

import (
	"errors"

	"github.com/casegear/configurator/internal/catalog"
)

// ErrUnavailable is returned when an out-of-stock item is selected.
var ErrUnavailable = errors.New("item unavailable")

// Line is one selected purchasable variant with a quantity. Title, price and
// image are snapshotted at selection time so the line stays renderable even
// if the catalog is refreshed underneath it.
type Line struct {
	VariantID      string `json:"variantId"`
	Role           string `json:"role"`
	Title          string `json:"title"`
	ProductTitle   string `json:"productTitle,omitempty"`
	UnitPriceMinor int64  `json:"unitPriceMinor"`
	Image          string `json:"image,omitempty"`
	Available      bool   `json:"available"`
	Quantity       int    `json:"quantity"`
}

// Ledger holds the currently selected lines keyed by variant id, plus the
// boolean-selected standalone add-ons. A line exists iff its quantity >= 1.
type Ledger struct {
	lines      map[string]*Line
	order      []string
	standalone map[string]bool
}

// NewLedger constructs an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{
		lines:      make(map[string]*Line),
		standalone: make(map[string]bool),
	}
}

// AddOrIncrement adds a line for the variant or bumps its quantity by one.
// An unavailable variant with no existing line is rejected and the ledger is
// left untouched.
func (l *Ledger) AddOrIncrement(v catalog.Variant, role string) error {
	if line, ok := l.lines[v.ID]; ok {
		line.Quantity++
		return nil
	}
	if !v.Available {
		return ErrUnavailable
	}
	l.lines[v.ID] = &Line{
		VariantID:      v.ID,
		Role:           role,
		Title:          v.Title,
		ProductTitle:   v.ProductTitle,
		UnitPriceMinor: v.UnitPriceMinor,
		Image:          v.Image,
		Available:      v.Available,
		Quantity:       1,
	}
	l.order = append(l.order, v.ID)
	return nil
}

// ChangeQuantity adjusts an existing line by delta. Missing lines are a
// no-op; a resulting quantity <= 0 deletes the line.
func (l *Ledger) ChangeQuantity(variantID string, delta int) {
	line, ok := l.lines[variantID]
	if !ok {
		return
	}
	line.Quantity += delta
	if line.Quantity <= 0 {
		l.Remove(variantID)
	}
}

// Remove deletes a line unconditionally if present.
func (l *Ledger) Remove(variantID string) {
	if _, ok := l.lines[variantID]; !ok {
		return
	}
	delete(l.lines, variantID)
	for i, id := range l.order {
		if id == variantID {
			l.order = append(l.order[:i], l.order[i+1:]...)
			break
		}
	}
}

// ToggleStandalone flips the selected state of a standalone add-on.
// Selecting an unavailable item is rejected; deselecting always succeeds.
func (l *Ledger) ToggleStandalone(item catalog.StandaloneItem) error {
	if l.standalone[item.ID] {
		delete(l.standalone, item.ID)
		return nil
	}
	if !item.Available {
		return ErrUnavailable
	}
	l.standalone[item.ID] = true
	return nil
}

// StandaloneSelected reports whether the add-on is currently selected.
func (l *Ledger) StandaloneSelected(itemID string) bool {
	return l.standalone[itemID]
}

// Lines returns value copies of all lines in selection order.
func (l *Ledger) Lines() []Line {
	out := make([]Line, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, *l.lines[id])
	}
	return out
}

// Line returns a copy of the line for the variant id, if present.
func (l *Ledger) Line(variantID string) (Line, bool) {
	line, ok := l.lines[variantID]
	if !ok {
		return Line{}, false
	}
	return *line, true
}

// Len returns the number of distinct lines.
func (l *Ledger) Len() int {
	return len(l.lines)
}

// Clear drops all lines and standalone selections.
func (l *Ledger) Clear() {
	l.lines = make(map[string]*Line)
	l.order = nil
	l.standalone = make(map[string]bool)
}
