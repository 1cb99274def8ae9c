// Package counting validates physical denomination counts taken at open and close.
package counting

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"caja-backend/internal/catalog"
	"caja-backend/internal/ledgererr"
	"caja-backend/internal/models"
	"caja-backend/internal/money"
)

// LineInput is one counted denomination as submitted by the operator.
type LineInput struct {
	DenominationID uint `json:"denomination_id"`
	Quantity       int  `json:"quantity"`
}

// Tally is a validated count: subtotals are recomputed from face values.
type Tally struct {
	Lines []models.DenominationCountLine
	Total decimal.Decimal
}

// Compute validates inputs against the active denominations. Repeated denominations
// are merged and zero quantities dropped.
func Compute(inputs []LineInput, active []models.Denomination) (Tally, error) {
	byID := make(map[uint]models.Denomination, len(active))
	for _, d := range active {
		if d.IsActive {
			byID[d.ID] = d
		}
	}

	qty := make(map[uint]int, len(inputs))
	for _, in := range inputs {
		if in.Quantity < 0 {
			return Tally{}, ledgererr.New(ledgererr.ErrInvalidAmount, "quantity",
				"negative quantity %d for denomination %d", in.Quantity, in.DenominationID)
		}
		if _, ok := byID[in.DenominationID]; !ok {
			return Tally{}, ledgererr.New(ledgererr.ErrUnknownDenomination, "denomination_id",
				"denomination %d is unknown or inactive", in.DenominationID)
		}
		qty[in.DenominationID] += in.Quantity
	}

	t := Tally{Total: decimal.Zero}
	for id, q := range qty {
		if q == 0 {
			continue
		}
		d := byID[id]
		sub := d.Value.Mul(decimal.NewFromInt(int64(q)))
		t.Lines = append(t.Lines, models.DenominationCountLine{
			DenominationID: id,
			Denomination:   d,
			Quantity:       q,
			Subtotal:       sub,
		})
		t.Total = t.Total.Add(sub)
	}
	sort.Slice(t.Lines, func(i, j int) bool {
		return t.Lines[i].Denomination.Value.GreaterThan(t.Lines[j].Denomination.Value)
	})
	return t, nil
}

// Verify fails with ErrDenominationMismatch unless the tally equals expected within epsilon.
func (t Tally) Verify(expected decimal.Decimal) error {
	if !money.Equal(t.Total, expected) {
		return ledgererr.New(ledgererr.ErrDenominationMismatch, "breakdown",
			"counted %s, expected %s", t.Total.StringFixed(2), expected.StringFixed(2))
	}
	return nil
}

// Verify recomputes every line of a stored count and checks the stored total.
func Verify(count models.DenominationCount) error {
	total := decimal.Zero
	for _, l := range count.Lines {
		if l.Quantity < 0 {
			return ledgererr.New(ledgererr.ErrInvalidAmount, "quantity", "negative quantity on line %d", l.ID)
		}
		total = total.Add(l.Denomination.Value.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return Tally{Total: total}.Verify(count.Total)
}

// Load validates inputs against the active denominations visible to tx.
func Load(tx *gorm.DB, inputs []LineInput) (Tally, error) {
	active, err := catalog.ActiveDenominations(tx)
	if err != nil {
		return Tally{}, err
	}
	return Compute(inputs, active)
}

// Save stores the count header and its lines inside tx.
func Save(tx *gorm.DB, sessionID uint, purpose models.CountPurpose, operator, notes string, t Tally) (*models.DenominationCount, error) {
	count := models.DenominationCount{
		SessionID:  sessionID,
		Purpose:    purpose,
		OperatorID: operator,
		Total:      t.Total,
		Notes:      notes,
	}
	if err := tx.Omit(clause.Associations).Create(&count).Error; err != nil {
		return nil, fmt.Errorf("saving %s count: %w", purpose, err)
	}
	for i := range t.Lines {
		line := t.Lines[i]
		line.CountID = count.ID
		if err := tx.Omit(clause.Associations).Create(&line).Error; err != nil {
			return nil, fmt.Errorf("saving count line: %w", err)
		}
		count.Lines = append(count.Lines, line)
	}
	return &count, nil
}
