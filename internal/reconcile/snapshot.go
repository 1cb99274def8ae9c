package reconcile

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"caja-backend/internal/models"
)

// Balances is the state returned by GetCurrentState.
type Balances struct {
	TillBalance    decimal.Decimal     `json:"till_balance"`
	BankBalance    decimal.Decimal     `json:"bank_balance"`
	ReserveBalance decimal.Decimal     `json:"reserve_balance"`
	TotalAvailable decimal.Decimal     `json:"total_available"`
	OpenSession    *models.CashSession `json:"open_session"`
}

// Snapshot loads the ledgers without locking and derives every balance.
func Snapshot(ctx context.Context, db *gorm.DB) (Balances, error) {
	db = db.WithContext(ctx)

	till, open, err := CurrentTill(db)
	if err != nil {
		return Balances{}, err
	}
	bank, err := BankBalanceOf(db)
	if err != nil {
		return Balances{}, err
	}
	reserve, err := ReserveBalanceOf(db)
	if err != nil {
		return Balances{}, err
	}
	return Balances{
		TillBalance:    till,
		BankBalance:    bank,
		ReserveBalance: reserve,
		TotalAvailable: Total(till, bank, reserve),
		OpenSession:    open,
	}, nil
}

// CurrentTill returns the open session's live balance, or the last closed session's
// retained amount when nothing is open.
func CurrentTill(db *gorm.DB) (decimal.Decimal, *models.CashSession, error) {
	var open models.CashSession
	err := db.Where("status = ?", models.SessionOpen).First(&open).Error
	switch {
	case err == nil:
		movements, err := SessionMovements(db, open.ID)
		if err != nil {
			return decimal.Zero, nil, err
		}
		return SessionTillBalance(open, movements), &open, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return decimal.Zero, nil, fmt.Errorf("loading open session: %w", err)
	}

	var last models.CashSession
	err = db.Where("status = ?", models.SessionClosed).Order("closed_at DESC, id DESC").First(&last).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return decimal.Zero, nil, nil
	}
	if err != nil {
		return decimal.Zero, nil, fmt.Errorf("loading last session: %w", err)
	}
	return SessionTillBalance(last, nil), nil, nil
}

func SessionMovements(db *gorm.DB, sessionID uint) ([]models.TillMovement, error) {
	var movements []models.TillMovement
	if err := db.Where("session_id = ?", sessionID).Order("id ASC").Find(&movements).Error; err != nil {
		return nil, fmt.Errorf("loading movements of session %d: %w", sessionID, err)
	}
	return movements, nil
}

func BankBalanceOf(db *gorm.DB) (decimal.Decimal, error) {
	var deposits []models.TillMovement
	if err := db.Where("direction = ? AND destination = ?", models.DirectionIngress, models.DestinationBank).
		Find(&deposits).Error; err != nil {
		return decimal.Zero, fmt.Errorf("loading bank deposits: %w", err)
	}
	txs, err := activeAccountTransactions(db, models.AccountKindBank)
	if err != nil {
		return decimal.Zero, err
	}
	return BankBalance(deposits, txs), nil
}

func ReserveBalanceOf(db *gorm.DB) (decimal.Decimal, error) {
	var closed []models.CashSession
	if err := db.Where("status = ?", models.SessionClosed).Find(&closed).Error; err != nil {
		return decimal.Zero, fmt.Errorf("loading closed sessions: %w", err)
	}
	txs, err := activeAccountTransactions(db, models.AccountKindReserve)
	if err != nil {
		return decimal.Zero, err
	}
	return ReserveBalance(closed, txs), nil
}

// AccountBalance derives the balance of a postable account. The ledgers are kept per
// kind against the active account, so inactive and tracking accounts report zero.
func AccountBalance(db *gorm.DB, a models.Account) (decimal.Decimal, error) {
	if !a.Postable() {
		return decimal.Zero, nil
	}
	switch a.Kind {
	case models.AccountKindBank:
		return BankBalanceOf(db)
	case models.AccountKindReserve:
		return ReserveBalanceOf(db)
	}
	return decimal.Zero, fmt.Errorf("unknown account kind %q", a.Kind)
}

// activeAccountTransactions returns nil when no active account of the kind exists.
func activeAccountTransactions(db *gorm.DB, kind models.AccountKind) ([]models.TreasuryTransaction, error) {
	var acc models.Account
	err := db.Where("kind = ? AND is_active = ? AND tracking = ?", kind, true, false).First(&acc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading %s account: %w", kind, err)
	}
	var txs []models.TreasuryTransaction
	if err := db.Where("account_id = ?", acc.ID).Find(&txs).Error; err != nil {
		return nil, fmt.Errorf("loading %s transactions: %w", kind, err)
	}
	return txs, nil
}
