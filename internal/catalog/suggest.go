package catalog

import (
	"sort"

	"github.com/shopspring/decimal"

	"caja-backend/internal/models"
)

type SuggestedLine struct {
	Denomination models.Denomination `json:"denomination"`
	Quantity     int64               `json:"quantity"`
}

// Suggestion is a greedy breakdown of an amount into denominations.
type Suggestion struct {
	Lines     []SuggestedLine `json:"lines"`
	Remainder decimal.Decimal `json:"remainder"` // en küçük birimle karşılanamayan kısım
}

// SuggestBreakdown splits amount over the active denominations, largest first. It is
// only a starting point for the physical count.
func SuggestBreakdown(amount decimal.Decimal, denoms []models.Denomination) Suggestion {
	active := make([]models.Denomination, 0, len(denoms))
	for _, d := range denoms {
		if d.IsActive && d.Value.IsPositive() {
			active = append(active, d)
		}
	}
	sort.SliceStable(active, func(i, j int) bool {
		return active[i].Value.GreaterThan(active[j].Value)
	})

	rest := amount
	if rest.IsNegative() {
		rest = decimal.Zero
	}
	lines := make([]SuggestedLine, 0, len(active))
	for _, d := range active {
		qty := rest.Div(d.Value).Floor()
		if qty.IsPositive() {
			rest = rest.Sub(d.Value.Mul(qty))
		}
		lines = append(lines, SuggestedLine{Denomination: d, Quantity: qty.IntPart()})
	}
	return Suggestion{Lines: lines, Remainder: rest}
}
