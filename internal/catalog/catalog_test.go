package catalog_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"caja-backend/internal/catalog"
	"caja-backend/internal/database/databasetest"
	"caja-backend/internal/ledgererr"
	"caja-backend/internal/models"
)

func TestUsableType(t *testing.T) {
	db := databasetest.New(t)

	mt, err := catalog.UsableType(db, "SALE", models.DirectionIngress)
	require.NoError(t, err)
	assert.Equal(t, models.BaseIncome, mt.Base)

	tests := []struct {
		name string
		code string
		dir  models.Direction
	}{
		{"unknown", "NOPE", models.DirectionIngress},
		{"system", models.CodeOpening, models.DirectionIngress},
		{"income as egress", "SALE", models.DirectionEgress},
		{"expense as ingress", "PAYROLL", models.DirectionIngress},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := catalog.UsableType(db, tt.code, tt.dir)
			assert.ErrorIs(t, err, ledgererr.ErrInvalidMovementType)
		})
	}

	require.NoError(t, db.Model(&models.MovementType{}).Where("code = ?", "CHANGE").Update("is_active", false).Error)
	_, err = catalog.UsableType(db, "CHANGE", models.DirectionEgress)
	assert.ErrorIs(t, err, ledgererr.ErrInvalidMovementType)
}

func TestMovementTypesByDirection(t *testing.T) {
	db := databasetest.New(t)
	c := catalog.New(db)

	egress, err := c.MovementTypes(context.Background(), models.DirectionEgress)
	require.NoError(t, err)
	require.NotEmpty(t, egress)
	for _, mt := range egress {
		assert.NotEqual(t, models.BaseIncome, mt.Base, mt.Code)
		assert.False(t, mt.System, mt.Code)
	}

	all, err := c.MovementTypes(context.Background(), "")
	require.NoError(t, err)
	assert.Greater(t, len(all), len(egress))
}

func TestAccountLookups(t *testing.T) {
	db := databasetest.New(t)

	bank, err := catalog.ActiveAccount(db, models.AccountKindBank)
	require.NoError(t, err)
	assert.Equal(t, "Banco Principal", bank.Name)

	reserve, err := catalog.ActiveAccount(db, models.AccountKindReserve)
	require.NoError(t, err)
	assert.False(t, reserve.Tracking)

	tracking, err := catalog.TrackingAccount(db)
	require.NoError(t, err)
	assert.True(t, tracking.Tracking)
	assert.Equal(t, models.AccountKindReserve, tracking.Kind)

	require.NoError(t, db.Model(bank).Update("is_active", false).Error)
	_, err = catalog.ActiveAccount(db, models.AccountKindBank)
	assert.ErrorIs(t, err, ledgererr.ErrAccountNotFound)

	listed, err := catalog.New(db).Accounts(context.Background())
	require.NoError(t, err)
	assert.Len(t, listed, 2)
}

func TestActiveDenominationsOrder(t *testing.T) {
	db := databasetest.New(t)

	denoms, err := catalog.ActiveDenominations(db)
	require.NoError(t, err)
	require.Len(t, denoms, 11)
	assert.True(t, denoms[0].Value.Equal(decimal.NewFromInt(100000)))
	assert.True(t, denoms[len(denoms)-1].Value.Equal(decimal.NewFromInt(50)))
}

func TestSuggestBreakdown(t *testing.T) {
	s := catalog.SuggestBreakdown(decimal.NewFromInt(187650), catalog.DefaultDenominations())

	got := map[string]int64{}
	for _, l := range s.Lines {
		if l.Quantity > 0 {
			got[l.Denomination.Value.String()] = l.Quantity
		}
	}
	assert.Equal(t, map[string]int64{
		"100000": 1,
		"50000":  1,
		"20000":  1,
		"10000":  1,
		"5000":   1,
		"2000":   1,
		"500":    1,
		"100":    1,
		"50":     1,
	}, got)
	assert.True(t, s.Remainder.IsZero())
}

func TestSuggestBreakdownRemainder(t *testing.T) {
	s := catalog.SuggestBreakdown(decimal.RequireFromString("1075.50"), catalog.DefaultDenominations())
	assert.Equal(t, "25.5", s.Remainder.String())

	s = catalog.SuggestBreakdown(decimal.NewFromInt(-10), catalog.DefaultDenominations())
	assert.True(t, s.Remainder.IsZero())
	for _, l := range s.Lines {
		assert.Zero(t, l.Quantity)
	}
}
