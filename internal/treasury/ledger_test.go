package treasury_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"caja-backend/internal/catalog"
	"caja-backend/internal/database/databasetest"
	"caja-backend/internal/ledgererr"
	"caja-backend/internal/models"
	"caja-backend/internal/reconcile"
	"caja-backend/internal/treasury"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type fixture struct {
	db       *gorm.DB
	ledger   *treasury.Ledger
	bank     *models.Account
	reserve  *models.Account
	tracking *models.Account
}

func setup(t *testing.T) fixture {
	t.Helper()
	db := databasetest.New(t)
	bank, err := catalog.ActiveAccount(db, models.AccountKindBank)
	require.NoError(t, err)
	reserve, err := catalog.ActiveAccount(db, models.AccountKindReserve)
	require.NoError(t, err)
	tracking, err := catalog.TrackingAccount(db)
	require.NoError(t, err)
	return fixture{
		db:       db,
		ledger:   treasury.NewLedger(db, zap.NewNop(), nil, "COP"),
		bank:     bank,
		reserve:  reserve,
		tracking: tracking,
	}
}

func (f fixture) movement(t *testing.T, code string, dir models.Direction, dest models.Destination, amount string) models.TillMovement {
	t.Helper()
	var session models.CashSession
	err := f.db.Where("status = ?", models.SessionOpen).First(&session).Error
	if err != nil {
		session = models.CashSession{OperatorID: "u1", OpenedAt: time.Now(), Status: models.SessionOpen, OpeningAmount: decimal.Zero}
		require.NoError(t, f.db.Create(&session).Error)
	}
	var mt models.MovementType
	require.NoError(t, f.db.Where("code = ?", code).First(&mt).Error)
	m := models.TillMovement{
		SessionID:      session.ID,
		MovementTypeID: mt.ID,
		Direction:      dir,
		Destination:    dest,
		Amount:         dec(amount),
		OperatorID:     "u1",
	}
	require.NoError(t, f.db.Omit(clause.Associations).Create(&m).Error)
	return m
}

func (f fixture) balance(t *testing.T, acc *models.Account) decimal.Decimal {
	t.Helper()
	bal, err := reconcile.AccountBalance(f.db, *acc)
	require.NoError(t, err)
	return bal
}

func (f fixture) cached(t *testing.T, acc *models.Account) decimal.Decimal {
	t.Helper()
	var fresh models.Account
	require.NoError(t, f.db.First(&fresh, acc.ID).Error)
	return fresh.CachedBalance
}

func TestPost(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	in, err := f.ledger.Post(ctx, treasury.PostParams{
		AccountID: f.reserve.ID, Direction: models.DirectionIngress, Amount: dec("100000"),
		TypeCode: "OTHER_INCOME", OperatorID: "sup",
	})
	require.NoError(t, err)
	assert.Equal(t, models.SourceManual, in.Source)

	_, err = f.ledger.Post(ctx, treasury.PostParams{
		AccountID: f.reserve.ID, Direction: models.DirectionEgress, Amount: dec("30000"),
		TypeCode: "SUPPLIES", OperatorID: "sup",
	})
	require.NoError(t, err)

	assert.Equal(t, "70000", f.balance(t, f.reserve).String())
	assert.True(t, f.cached(t, f.reserve).Equal(dec("70000")))

	_, err = f.ledger.Post(ctx, treasury.PostParams{
		AccountID: f.reserve.ID, Direction: models.DirectionEgress, Amount: dec("70000.02"),
		TypeCode: "SUPPLIES", OperatorID: "sup",
	})
	assert.ErrorIs(t, err, ledgererr.ErrInsufficientFunds)

	// epsilon içinde kalan fark kabul edilir
	_, err = f.ledger.Post(ctx, treasury.PostParams{
		AccountID: f.reserve.ID, Direction: models.DirectionEgress, Amount: dec("70000.01"),
		TypeCode: "SUPPLIES", OperatorID: "sup",
	})
	assert.NoError(t, err)
}

func TestPostRejects(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	base := treasury.PostParams{
		AccountID: f.bank.ID, Direction: models.DirectionIngress, Amount: dec("10"),
		TypeCode: "OTHER_INCOME", OperatorID: "sup",
	}

	tests := []struct {
		name   string
		mutate func(*treasury.PostParams)
		want   error
	}{
		{"transfer direction", func(p *treasury.PostParams) { p.Direction = models.DirectionTransfer }, ledgererr.ErrInvalidDestination},
		{"zero amount", func(p *treasury.PostParams) { p.Amount = decimal.Zero }, ledgererr.ErrInvalidAmount},
		{"negative amount", func(p *treasury.PostParams) { p.Amount = dec("-5") }, ledgererr.ErrInvalidAmount},
		{"system type", func(p *treasury.PostParams) { p.TypeCode = models.CodeTransfer }, ledgererr.ErrInvalidMovementType},
		{"type direction", func(p *treasury.PostParams) { p.TypeCode = "PAYROLL" }, ledgererr.ErrInvalidMovementType},
		{"tracking account", func(p *treasury.PostParams) { p.AccountID = f.tracking.ID }, ledgererr.ErrAccountNotFound},
		{"missing account", func(p *treasury.PostParams) { p.AccountID = 999 }, ledgererr.ErrAccountNotFound},
		{"bank overdraft", func(p *treasury.PostParams) {
			p.Direction = models.DirectionEgress
			p.TypeCode = "EXPENSE"
		}, ledgererr.ErrInsufficientFunds},
		{"one cent over empty balance", func(p *treasury.PostParams) {
			p.Direction = models.DirectionEgress
			p.TypeCode = "EXPENSE"
			p.Amount = dec("0.01")
		}, ledgererr.ErrInsufficientFunds},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := base
			tt.mutate(&p)
			_, err := f.ledger.Post(ctx, p)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	var n int64
	require.NoError(t, f.db.Model(&models.TreasuryTransaction{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestTransfer(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.ledger.Post(ctx, treasury.PostParams{
		AccountID: f.reserve.ID, Direction: models.DirectionIngress, Amount: dec("100000"),
		TypeCode: "OTHER_INCOME", OperatorID: "sup",
	})
	require.NoError(t, err)

	res, err := f.ledger.Transfer(ctx, treasury.TransferParams{
		FromAccountID: f.reserve.ID, ToAccountID: f.bank.ID, Amount: dec("40000"),
		Description: "consignación", OperatorID: "sup",
	})
	require.NoError(t, err)
	require.NotNil(t, res.Out.TransferGroup)
	require.NotNil(t, res.In.TransferGroup)
	assert.Equal(t, *res.Out.TransferGroup, *res.In.TransferGroup)
	assert.Equal(t, models.DirectionEgress, res.Out.Direction)
	assert.Equal(t, models.DirectionIngress, res.In.Direction)
	assert.Equal(t, "Transferencia hacia Banco Principal: consignación", res.Out.Description)

	assert.Equal(t, "60000", f.balance(t, f.reserve).String())
	assert.Equal(t, "40000", f.balance(t, f.bank).String())
	assert.True(t, f.cached(t, f.bank).Equal(dec("40000")))

	_, err = f.ledger.Transfer(ctx, treasury.TransferParams{
		FromAccountID: f.bank.ID, ToAccountID: f.reserve.ID, Amount: dec("40001"), OperatorID: "sup",
	})
	assert.ErrorIs(t, err, ledgererr.ErrInsufficientFunds)

	_, err = f.ledger.Transfer(ctx, treasury.TransferParams{
		FromAccountID: f.bank.ID, ToAccountID: f.reserve.ID, Amount: dec("40000.01"), OperatorID: "sup",
	})
	assert.ErrorIs(t, err, ledgererr.ErrInsufficientFunds)

	_, err = f.ledger.Transfer(ctx, treasury.TransferParams{
		FromAccountID: f.bank.ID, ToAccountID: f.bank.ID, Amount: dec("1"), OperatorID: "sup",
	})
	assert.ErrorIs(t, err, ledgererr.ErrInvalidDestination)

	_, err = f.ledger.Transfer(ctx, treasury.TransferParams{
		FromAccountID: f.bank.ID, ToAccountID: f.tracking.ID, Amount: dec("1"), OperatorID: "sup",
	})
	assert.ErrorIs(t, err, ledgererr.ErrAccountNotFound)

	var n int64
	require.NoError(t, f.db.Model(&models.TreasuryTransaction{}).Where("source = ?", models.SourceTransfer).Count(&n).Error)
	assert.EqualValues(t, 2, n)
}

func TestTransferWholeBalance(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.ledger.Post(ctx, treasury.PostParams{
		AccountID: f.reserve.ID, Direction: models.DirectionIngress, Amount: dec("40000"),
		TypeCode: "OTHER_INCOME", OperatorID: "sup",
	})
	require.NoError(t, err)

	_, err = f.ledger.Transfer(ctx, treasury.TransferParams{
		FromAccountID: f.reserve.ID, ToAccountID: f.bank.ID, Amount: dec("40000.01"), OperatorID: "sup",
	})
	require.ErrorIs(t, err, ledgererr.ErrInsufficientFunds)

	_, err = f.ledger.Transfer(ctx, treasury.TransferParams{
		FromAccountID: f.reserve.ID, ToAccountID: f.bank.ID, Amount: dec("40000"), OperatorID: "sup",
	})
	require.NoError(t, err)
	assert.True(t, f.balance(t, f.reserve).IsZero())

	_, err = f.ledger.Post(ctx, treasury.PostParams{
		AccountID: f.reserve.ID, Direction: models.DirectionEgress, Amount: dec("0.01"),
		TypeCode: "EXPENSE", OperatorID: "sup",
	})
	assert.ErrorIs(t, err, ledgererr.ErrInsufficientFunds)
}

func TestSyncIsIdempotent(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	m := f.movement(t, "SALE", models.DirectionIngress, models.DestinationTill, "50000")

	first, err := f.ledger.Sync(ctx, m.ID)
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, f.tracking.ID, first.AccountID)
	assert.Equal(t, models.SourceTillSync, first.Source)

	second, err := f.ledger.Sync(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var n int64
	require.NoError(t, f.db.Model(&models.TreasuryTransaction{}).Where("till_movement_id = ?", m.ID).Count(&n).Error)
	assert.EqualValues(t, 1, n)

	var linked models.TillMovement
	require.NoError(t, f.db.First(&linked, m.ID).Error)
	require.NotNil(t, linked.TreasuryTransactionID)
	assert.Equal(t, first.ID, *linked.TreasuryTransactionID)
}

func TestSyncBankDeposit(t *testing.T) {
	f := setup(t)
	m := f.movement(t, "SALE", models.DirectionIngress, models.DestinationBank, "30000")

	mirror, err := f.ledger.Sync(context.Background(), m.ID)
	require.NoError(t, err)
	assert.Equal(t, f.bank.ID, mirror.AccountID)

	// ayna kaydı ve kasa hareketi iki kez sayılmaz
	assert.Equal(t, "30000", f.balance(t, f.bank).String())
	assert.True(t, f.cached(t, f.bank).Equal(dec("30000")))
}

func TestSyncSkipsOpening(t *testing.T) {
	f := setup(t)
	m := f.movement(t, models.CodeOpening, models.DirectionIngress, models.DestinationTill, "100000")

	mirror, err := f.ledger.Sync(context.Background(), m.ID)
	require.NoError(t, err)
	assert.Nil(t, mirror)
}

func TestUnsynced(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.movement(t, models.CodeOpening, models.DirectionIngress, models.DestinationTill, "100000")
	sale := f.movement(t, "SALE", models.DirectionIngress, models.DestinationTill, "50000")
	internal := f.movement(t, "EXPENSE", models.DirectionEgress, models.DestinationTill, "2000")
	require.NoError(t, f.db.Model(&models.TillMovement{}).Where("id = ?", internal.ID).Update("till_internal", true).Error)
	deposit := f.movement(t, "SALE", models.DirectionIngress, models.DestinationBank, "30000")

	ids, err := f.ledger.Unsynced(ctx)
	require.NoError(t, err)
	assert.Equal(t, []uint{sale.ID, deposit.ID}, ids)

	_, err = f.ledger.Sync(ctx, sale.ID)
	require.NoError(t, err)
	ids, err = f.ledger.Unsynced(ctx)
	require.NoError(t, err)
	assert.Equal(t, []uint{deposit.ID}, ids)
}

func TestAccountsAndTransactions(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	_, err := f.ledger.Post(ctx, treasury.PostParams{
		AccountID: f.bank.ID, Direction: models.DirectionIngress, Amount: dec("2500.5"),
		TypeCode: "COLLECTION", OperatorID: "sup",
	})
	require.NoError(t, err)

	views, err := f.ledger.Accounts(ctx)
	require.NoError(t, err)
	require.Len(t, views, 2)
	for _, v := range views {
		assert.False(t, v.Tracking)
		if v.ID == f.bank.ID {
			assert.Equal(t, "2500.5", v.Balance.String())
		}
	}

	txs, err := f.ledger.Transactions(ctx, f.bank.ID, 0)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "COLLECTION", txs[0].MovementType.Code)

	_, err = f.ledger.Transactions(ctx, 999, 0)
	assert.ErrorIs(t, err, ledgererr.ErrAccountNotFound)
}
