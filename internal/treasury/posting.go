package treasury

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"caja-backend/internal/catalog"
	"caja-backend/internal/ledgererr"
	"caja-backend/internal/models"
	"caja-backend/internal/money"
	"caja-backend/internal/reconcile"
)

// The functions below run inside a transaction owned by the caller.

// SyncMovement mirrors mov onto the BANK account (bank-destined ingress) or onto the
// tracking account (everything else). OPENING and till-internal movements are not
// mirrored and yield nil.
func SyncMovement(tx *gorm.DB, mov *models.TillMovement) (*models.TreasuryTransaction, error) {
	if mov.TreasuryTransactionID != nil {
		var existing models.TreasuryTransaction
		if err := tx.First(&existing, *mov.TreasuryTransactionID).Error; err != nil {
			return nil, fmt.Errorf("loading linked transaction: %w", err)
		}
		return &existing, nil
	}
	if mov.TillInternal {
		return nil, nil
	}

	mt := mov.MovementType
	if mt.ID == 0 {
		if err := tx.First(&mt, mov.MovementTypeID).Error; err != nil {
			return nil, fmt.Errorf("loading movement type: %w", err)
		}
	}
	if mt.Code == models.CodeOpening {
		return nil, nil
	}

	var (
		target *models.Account
		err    error
	)
	if mov.BankDestined() {
		target, err = catalog.ActiveAccount(tx, models.AccountKindBank)
	} else {
		target, err = catalog.TrackingAccount(tx)
	}
	if err != nil {
		return nil, err
	}

	// eski bir ayna kaydı bağlantısız kaldıysa onu bağla
	var mirror models.TreasuryTransaction
	err = tx.Where("till_movement_id = ?", mov.ID).First(&mirror).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		sessionID, movID := mov.SessionID, mov.ID
		mirror = models.TreasuryTransaction{
			AccountID:      target.ID,
			Direction:      mov.Direction,
			Amount:         mov.Amount,
			MovementTypeID: mt.ID,
			Source:         models.SourceTillSync,
			OperatorID:     mov.OperatorID,
			Description:    mov.Description,
			Reference:      mov.Reference,
			TillMovementID: &movID,
			SessionID:      &sessionID,
		}
		if err := tx.Omit(clause.Associations).Create(&mirror).Error; err != nil {
			return nil, fmt.Errorf("creating mirror transaction: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("looking up mirror transaction: %w", err)
	}

	res := tx.Model(&models.TillMovement{}).
		Where("id = ? AND treasury_transaction_id IS NULL", mov.ID).
		Update("treasury_transaction_id", mirror.ID)
	if res.Error != nil {
		return nil, fmt.Errorf("linking movement %d: %w", mov.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("movement %d was linked concurrently", mov.ID)
	}
	mov.TreasuryTransactionID = &mirror.ID

	if err := refreshCache(tx, *target); err != nil {
		return nil, err
	}
	return &mirror, nil
}

// DepositReserve posts the cash moved to the reserve when a session closes.
func DepositReserve(tx *gorm.DB, session models.CashSession, amount decimal.Decimal, operator string) (*models.TreasuryTransaction, error) {
	acc, err := catalog.ActiveAccount(tx, models.AccountKindReserve)
	if err != nil {
		return nil, err
	}
	mt, err := catalog.SystemType(tx, models.CodeReserveDeposit)
	if err != nil {
		return nil, err
	}
	sessionID := session.ID
	t := models.TreasuryTransaction{
		AccountID:      acc.ID,
		Direction:      models.DirectionIngress,
		Amount:         amount,
		MovementTypeID: mt.ID,
		Source:         models.SourceSessionClose,
		OperatorID:     operator,
		Description:    fmt.Sprintf("Guardado en reserva al cierre de caja #%d", session.ID),
		SessionID:      &sessionID,
	}
	if err := tx.Omit(clause.Associations).Create(&t).Error; err != nil {
		return nil, fmt.Errorf("creating reserve deposit: %w", err)
	}
	if err := refreshCache(tx, *acc); err != nil {
		return nil, err
	}
	return &t, nil
}

func lockAccount(tx *gorm.DB, id uint) (*models.Account, error) {
	var acc models.Account
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&acc, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ledgererr.New(ledgererr.ErrAccountNotFound, "account_id", "account %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("locking account %d: %w", id, err)
	}
	if !acc.Postable() {
		return nil, ledgererr.New(ledgererr.ErrAccountNotFound, "account_id", "account %q does not accept postings", acc.Name)
	}
	return &acc, nil
}

func ensureFunds(tx *gorm.DB, acc models.Account, amount decimal.Decimal) error {
	available, err := reconcile.AccountBalance(tx, acc)
	if err != nil {
		return err
	}
	if money.Exceeds(amount, available) {
		return ledgererr.New(ledgererr.ErrInsufficientFunds, "amount",
			"%s has %s available, requested %s", acc.Name, available.StringFixed(2), amount.StringFixed(2))
	}
	return nil
}

// refreshCache rewrites the advisory cached balance from the ledgers. Tracking accounts
// carry no balance.
func refreshCache(tx *gorm.DB, acc models.Account) error {
	if acc.Tracking {
		return nil
	}
	bal, err := reconcile.AccountBalance(tx, acc)
	if err != nil {
		return err
	}
	if err := tx.Model(&models.Account{}).Where("id = ?", acc.ID).Update("cached_balance", bal).Error; err != nil {
		return fmt.Errorf("refreshing cached balance of %s: %w", acc.Name, err)
	}
	return nil
}
