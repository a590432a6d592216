package configurator

import "github.com/casegear/configurator/internal/catalog"

// roleOrder is the canonical presentation order for variant roles. Lines for
// unknown roles sort after the known ones, standalone add-ons last.
var roleOrder = []string{"ring-mount", "mag-ring", "adapter", "phone-case"}

// SummaryLine is one rendering-ready row of the aggregate.
type SummaryLine struct {
	ID             string `json:"id"`
	Role           string `json:"role,omitempty"`
	Title          string `json:"title"`
	ProductTitle   string `json:"productTitle,omitempty"`
	UnitPriceMinor int64  `json:"unitPriceMinor"`
	Quantity       int    `json:"quantity"`
	SubtotalMinor  int64  `json:"subtotalMinor"`
	Image          string `json:"image,omitempty"`
	Standalone     bool   `json:"standalone,omitempty"`
}

// Summary is the derived aggregate over the ledger and standalone
// selections. It is recomputed from scratch on every read; nothing is
// incrementally maintained.
type Summary struct {
	Lines      []SummaryLine `json:"lines"`
	ItemCount  int           `json:"itemCount"`
	TotalMinor int64         `json:"totalMinor"`
	Empty      bool          `json:"empty"`
	NonEmpty   bool          `json:"nonEmpty"`
}

// Project derives the summary. Ledger lines are grouped by canonical role
// order (selection order within a role), followed by selected standalone
// add-ons in catalog order. Standalone items count as one each.
func Project(ledger *Ledger, standalone []catalog.StandaloneItem) Summary {
	lines := ledger.Lines()
	known := make(map[string]bool, len(roleOrder))
	for _, role := range roleOrder {
		known[role] = true
	}

	out := Summary{Lines: []SummaryLine{}}
	appendLine := func(l Line) {
		subtotal := l.UnitPriceMinor * int64(l.Quantity)
		out.Lines = append(out.Lines, SummaryLine{
			ID:             l.VariantID,
			Role:           l.Role,
			Title:          l.Title,
			ProductTitle:   l.ProductTitle,
			UnitPriceMinor: l.UnitPriceMinor,
			Quantity:       l.Quantity,
			SubtotalMinor:  subtotal,
			Image:          l.Image,
		})
		out.ItemCount += l.Quantity
		out.TotalMinor += subtotal
	}

	for _, role := range roleOrder {
		for _, l := range lines {
			if l.Role == role {
				appendLine(l)
			}
		}
	}
	for _, l := range lines {
		if !known[l.Role] {
			appendLine(l)
		}
	}
	for _, item := range standalone {
		if !ledger.StandaloneSelected(item.ID) {
			continue
		}
		out.Lines = append(out.Lines, SummaryLine{
			ID:             item.ID,
			Title:          item.Title,
			UnitPriceMinor: item.UnitPriceMinor,
			Quantity:       1,
			SubtotalMinor:  item.UnitPriceMinor,
			Image:          item.Image,
			Standalone:     true,
		})
		out.ItemCount++
		out.TotalMinor += item.UnitPriceMinor
	}

	out.Empty = len(out.Lines) == 0
	out.NonEmpty = !out.Empty
	return out
}
