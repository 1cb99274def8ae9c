// Package treasury posts transactions against BANK and RESERVE accounts and mirrors
// till movements into the treasury ledger.
package treasury

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"caja-backend/internal/audit"
	"caja-backend/internal/catalog"
	"caja-backend/internal/ledgererr"
	"caja-backend/internal/models"
	"caja-backend/internal/money"
	"caja-backend/internal/reconcile"
)

type Ledger struct {
	db       *gorm.DB
	log      *zap.Logger
	txOpts   *sql.TxOptions
	currency string
}

func NewLedger(db *gorm.DB, log *zap.Logger, txOpts *sql.TxOptions, currency string) *Ledger {
	return &Ledger{db: db, log: log, txOpts: txOpts, currency: currency}
}

type PostParams struct {
	AccountID   uint
	Direction   models.Direction
	Amount      decimal.Decimal
	TypeCode    string
	Description string
	Reference   string
	OperatorID  string
}

// Post records a treasury ingress or egress that did not go through the till.
func (l *Ledger) Post(ctx context.Context, p PostParams) (*models.TreasuryTransaction, error) {
	if p.Direction == models.DirectionTransfer {
		return nil, ledgererr.New(ledgererr.ErrInvalidDestination, "direction", "use a transfer to move money between accounts")
	}
	if !p.Direction.Valid() {
		return nil, ledgererr.New(ledgererr.ErrInvalidDestination, "direction", "unknown direction %q", p.Direction)
	}
	amount := p.Amount.Round(2)
	if !money.Positive(amount) {
		return nil, ledgererr.New(ledgererr.ErrInvalidAmount, "amount", "amount must be positive, got %s", p.Amount)
	}

	var out models.TreasuryTransaction
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		acc, err := lockAccount(tx, p.AccountID)
		if err != nil {
			return err
		}
		mt, err := catalog.UsableType(tx, p.TypeCode, p.Direction)
		if err != nil {
			return err
		}
		if p.Direction == models.DirectionEgress {
			if err := ensureFunds(tx, *acc, amount); err != nil {
				return err
			}
		}

		out = models.TreasuryTransaction{
			AccountID:      acc.ID,
			Direction:      p.Direction,
			Amount:         amount,
			MovementTypeID: mt.ID,
			Source:         models.SourceManual,
			OperatorID:     p.OperatorID,
			Description:    p.Description,
			Reference:      p.Reference,
		}
		if err := tx.Omit(clause.Associations).Create(&out).Error; err != nil {
			return fmt.Errorf("creating treasury transaction: %w", err)
		}
		out.MovementType = *mt

		if err := refreshCache(tx, *acc); err != nil {
			return err
		}
		return audit.Write(tx, audit.LogOptions{
			OperatorID:  p.OperatorID,
			EntityType:  "treasury_transaction",
			EntityID:    out.ID,
			Action:      models.AuditActionPost,
			Description: fmt.Sprintf("%s %s %s", acc.Name, p.Direction, money.Format(amount, l.currency)),
			After:       out,
		})
	}, l.txOpts)
	if err != nil {
		return nil, err
	}

	l.log.Info("treasury posting",
		zap.Uint("transaction_id", out.ID),
		zap.Uint("account_id", out.AccountID),
		zap.String("direction", string(out.Direction)),
		zap.String("amount", out.Amount.StringFixed(2)),
		zap.String("operator", p.OperatorID),
	)
	return &out, nil
}

type TransferParams struct {
	FromAccountID uint
	ToAccountID   uint
	Amount        decimal.Decimal
	Description   string
	OperatorID    string
}

type TransferResult struct {
	Group string                     `json:"group"`
	Out   models.TreasuryTransaction `json:"out"`
	In    models.TreasuryTransaction `json:"in"`
}

// Transfer moves money between two postable accounts as a pair of linked legs.
func (l *Ledger) Transfer(ctx context.Context, p TransferParams) (*TransferResult, error) {
	if p.FromAccountID == p.ToAccountID {
		return nil, ledgererr.New(ledgererr.ErrInvalidDestination, "to_account_id", "source and destination accounts are the same")
	}
	amount := p.Amount.Round(2)
	if !money.Positive(amount) {
		return nil, ledgererr.New(ledgererr.ErrInvalidAmount, "amount", "amount must be positive, got %s", p.Amount)
	}

	var res TransferResult
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// deadlock olmaması için hesaplar her zaman ID sırasıyla kilitlenir
		first, second := p.FromAccountID, p.ToAccountID
		if first > second {
			first, second = second, first
		}
		a1, err := lockAccount(tx, first)
		if err != nil {
			return err
		}
		a2, err := lockAccount(tx, second)
		if err != nil {
			return err
		}
		from, to := a1, a2
		if from.ID != p.FromAccountID {
			from, to = a2, a1
		}

		if err := ensureFunds(tx, *from, amount); err != nil {
			return err
		}
		mt, err := catalog.SystemType(tx, models.CodeTransfer)
		if err != nil {
			return err
		}

		group := uuid.NewString()
		leg := func(acc *models.Account, dir models.Direction, desc string) models.TreasuryTransaction {
			return models.TreasuryTransaction{
				AccountID:      acc.ID,
				Direction:      dir,
				Amount:         amount,
				MovementTypeID: mt.ID,
				Source:         models.SourceTransfer,
				OperatorID:     p.OperatorID,
				Description:    desc,
				TransferGroup:  &group,
			}
		}
		res.Group = group
		res.Out = leg(from, models.DirectionEgress, withNote("Transferencia hacia "+to.Name, p.Description))
		res.In = leg(to, models.DirectionIngress, withNote("Transferencia desde "+from.Name, p.Description))
		if err := tx.Omit(clause.Associations).Create(&res.Out).Error; err != nil {
			return fmt.Errorf("creating transfer leg: %w", err)
		}
		if err := tx.Omit(clause.Associations).Create(&res.In).Error; err != nil {
			return fmt.Errorf("creating transfer leg: %w", err)
		}
		res.Out.MovementType, res.In.MovementType = *mt, *mt

		if err := refreshCache(tx, *from); err != nil {
			return err
		}
		if err := refreshCache(tx, *to); err != nil {
			return err
		}
		return audit.Write(tx, audit.LogOptions{
			OperatorID:  p.OperatorID,
			EntityType:  "treasury_transaction",
			EntityID:    res.Out.ID,
			Action:      models.AuditActionTransfer,
			Description: fmt.Sprintf("%s -> %s %s", from.Name, to.Name, money.Format(amount, l.currency)),
			After:       res,
		})
	}, l.txOpts)
	if err != nil {
		return nil, err
	}

	l.log.Info("treasury transfer",
		zap.String("group", res.Group),
		zap.Uint("from", p.FromAccountID),
		zap.Uint("to", p.ToAccountID),
		zap.String("amount", amount.StringFixed(2)),
	)
	return &res, nil
}

// Sync mirrors one till movement into the treasury ledger. Calling it again for a
// linked movement returns the existing transaction.
func (l *Ledger) Sync(ctx context.Context, movementID uint) (*models.TreasuryTransaction, error) {
	var out *models.TreasuryTransaction
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var mov models.TillMovement
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&mov, movementID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("till movement %d: %w", movementID, err)
		}
		if err != nil {
			return err
		}
		out, err = SyncMovement(tx, &mov)
		return err
	}, l.txOpts)
	return out, err
}

// Unsynced returns the ids of till movements that should carry a treasury mirror but
// are not linked yet, oldest first.
func (l *Ledger) Unsynced(ctx context.Context) ([]uint, error) {
	var ids []uint
	err := l.db.WithContext(ctx).Model(&models.TillMovement{}).
		Joins("JOIN movement_types ON movement_types.id = till_movements.movement_type_id").
		Where("till_movements.treasury_transaction_id IS NULL").
		Where("till_movements.till_internal = ?", false).
		Where("movement_types.code <> ?", models.CodeOpening).
		Order("till_movements.id ASC").
		Pluck("till_movements.id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("listing unsynced movements: %w", err)
	}
	return ids, nil
}

// AccountView is an account with its derived balance.
type AccountView struct {
	models.Account
	Balance decimal.Decimal `json:"balance"`
}

func (l *Ledger) Accounts(ctx context.Context) ([]AccountView, error) {
	db := l.db.WithContext(ctx)
	accounts, err := catalog.New(l.db).Accounts(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]AccountView, 0, len(accounts))
	for _, a := range accounts {
		v := AccountView{Account: a, Balance: decimal.Zero}
		if a.IsActive {
			if v.Balance, err = reconcile.AccountBalance(db, a); err != nil {
				return nil, err
			}
		}
		out = append(out, v)
	}
	return out, nil
}

// FundsCheck is the answer to "could this account pay amount now".
type FundsCheck struct {
	AccountID  uint            `json:"account_id"`
	Account    string          `json:"account"`
	Requested  decimal.Decimal `json:"requested"`
	Available  decimal.Decimal `json:"available"`
	Display    string          `json:"available_display"`
	Sufficient bool            `json:"sufficient"`
}

// CheckFunds reads the derived balance without locks. Post and Transfer check again
// under the account lock.
func (l *Ledger) CheckFunds(ctx context.Context, accountID uint, amount decimal.Decimal) (*FundsCheck, error) {
	if amount.IsNegative() {
		return nil, ledgererr.New(ledgererr.ErrInvalidAmount, "amount", "amount cannot be negative, got %s", amount)
	}
	amount = amount.Round(2)

	db := l.db.WithContext(ctx)
	var acc models.Account
	err := db.First(&acc, accountID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ledgererr.New(ledgererr.ErrAccountNotFound, "account_id", "account %d not found", accountID)
	}
	if err != nil {
		return nil, fmt.Errorf("loading account %d: %w", accountID, err)
	}
	if !acc.Postable() {
		return nil, ledgererr.New(ledgererr.ErrAccountNotFound, "account_id", "account %q does not accept postings", acc.Name)
	}

	available, err := reconcile.AccountBalance(db, acc)
	if err != nil {
		return nil, err
	}
	return &FundsCheck{
		AccountID:  acc.ID,
		Account:    acc.Name,
		Requested:  amount,
		Available:  available,
		Display:    money.Format(available, l.currency),
		Sufficient: !money.Exceeds(amount, available),
	}, nil
}

// Transactions lists the newest postings of an account.
func (l *Ledger) Transactions(ctx context.Context, accountID uint, limit int) ([]models.TreasuryTransaction, error) {
	db := l.db.WithContext(ctx)
	var acc models.Account
	if err := db.First(&acc, accountID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ledgererr.New(ledgererr.ErrAccountNotFound, "account_id", "account %d not found", accountID)
		}
		return nil, err
	}
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var txs []models.TreasuryTransaction
	if err := db.Preload("MovementType").
		Where("account_id = ?", accountID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&txs).Error; err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	return txs, nil
}

func withNote(prefix, note string) string {
	if note == "" {
		return prefix
	}
	return prefix + ": " + note
}
