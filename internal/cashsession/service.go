// Package cashsession runs the till lifecycle: open, record movements, close and reconcile.
package cashsession

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"caja-backend/internal/audit"
	"caja-backend/internal/catalog"
	"caja-backend/internal/counting"
	"caja-backend/internal/database"
	"caja-backend/internal/ledgererr"
	"caja-backend/internal/models"
	"caja-backend/internal/money"
	"caja-backend/internal/reconcile"
	"caja-backend/internal/treasury"
)

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	txOpts   *sql.TxOptions
	currency string
	now      func() time.Time
}

func NewService(db *gorm.DB, log *zap.Logger, txOpts *sql.TxOptions, currency string) *Service {
	return &Service{db: db, log: log, txOpts: txOpts, currency: currency, now: time.Now}
}

type OpenParams struct {
	OperatorID string
	// OpeningAmount may be nil when Breakdown is given; the counted total is used.
	OpeningAmount *decimal.Decimal
	Breakdown     []counting.LineInput
	Notes         string
}

// Open starts a session. Only one session may be open at a time.
func (s *Service) Open(ctx context.Context, p OpenParams) (*models.CashSession, error) {
	if p.OpeningAmount == nil && len(p.Breakdown) == 0 {
		return nil, ledgererr.New(ledgererr.ErrInvalidAmount, "opening_amount", "opening amount or denomination breakdown is required")
	}
	if p.OpeningAmount != nil && p.OpeningAmount.IsNegative() {
		return nil, ledgererr.New(ledgererr.ErrInvalidAmount, "opening_amount", "opening amount cannot be negative")
	}

	var session models.CashSession
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var open int64
		if err := tx.Model(&models.CashSession{}).Where("status = ?", models.SessionOpen).Count(&open).Error; err != nil {
			return fmt.Errorf("checking open session: %w", err)
		}
		if open > 0 {
			return ledgererr.New(ledgererr.ErrSessionAlreadyOpen, "", "close the current session first")
		}

		var (
			tally    counting.Tally
			hasCount = len(p.Breakdown) > 0
		)
		if hasCount {
			var err error
			if tally, err = counting.Load(tx, p.Breakdown); err != nil {
				return err
			}
		}
		amount := tally.Total
		if p.OpeningAmount != nil {
			amount = *p.OpeningAmount
			if hasCount {
				if err := tally.Verify(amount); err != nil {
					return err
				}
			}
		}
		amount = amount.Round(2)

		session = models.CashSession{
			OperatorID:    p.OperatorID,
			OpenedAt:      s.now(),
			Status:        models.SessionOpen,
			OpeningAmount: amount,
			OpeningNotes:  p.Notes,
		}
		if err := tx.Create(&session).Error; err != nil {
			if database.IsUniqueViolation(err) {
				return ledgererr.New(ledgererr.ErrSessionAlreadyOpen, "", "another session was opened concurrently")
			}
			return fmt.Errorf("creating session: %w", err)
		}

		opening, err := catalog.SystemType(tx, models.CodeOpening)
		if err != nil {
			return err
		}
		mov := models.TillMovement{
			SessionID:      session.ID,
			MovementTypeID: opening.ID,
			Direction:      models.DirectionIngress,
			Destination:    models.DestinationTill,
			Amount:         amount,
			Description:    "Apertura de caja",
			OperatorID:     p.OperatorID,
		}
		if err := tx.Omit(clause.Associations).Create(&mov).Error; err != nil {
			return fmt.Errorf("creating opening movement: %w", err)
		}

		if hasCount {
			if _, err := counting.Save(tx, session.ID, models.CountOpen, p.OperatorID, p.Notes, tally); err != nil {
				return err
			}
		}

		return audit.Write(tx, audit.LogOptions{
			OperatorID:  p.OperatorID,
			EntityType:  "cash_session",
			EntityID:    session.ID,
			Action:      models.AuditActionCreate,
			Description: "Apertura de caja con " + money.Format(amount, s.currency),
			After:       session,
		})
	}, s.txOpts)
	if err != nil {
		return nil, err
	}

	s.log.Info("cash session opened",
		zap.Uint("session_id", session.ID),
		zap.String("operator", session.OperatorID),
		zap.String("opening_amount", session.OpeningAmount.StringFixed(2)),
	)
	return &session, nil
}

type MovementParams struct {
	SessionID   uint
	TypeCode    string
	Direction   models.Direction
	Destination models.Destination // boşsa TILL
	Amount      decimal.Decimal
	Description string
	Reference   string
	OperatorID  string
	// TillInternal movements stay in the till ledger and get no treasury mirror.
	TillInternal bool
}

// AddMovement appends a movement to an open session and mirrors it into the treasury
// ledger in the same transaction.
func (s *Service) AddMovement(ctx context.Context, p MovementParams) (*models.TillMovement, error) {
	if p.Destination == "" {
		p.Destination = models.DestinationTill
	}

	var mov models.TillMovement
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := lockOpenSession(tx, p.SessionID); err != nil {
			return err
		}

		amount := p.Amount.Round(2)
		if !money.Positive(amount) {
			return ledgererr.New(ledgererr.ErrInvalidAmount, "amount", "amount must be positive, got %s", p.Amount)
		}
		if err := checkRouting(p); err != nil {
			return err
		}
		mt, err := catalog.UsableType(tx, p.TypeCode, p.Direction)
		if err != nil {
			return err
		}

		mov = models.TillMovement{
			SessionID:      p.SessionID,
			MovementTypeID: mt.ID,
			Direction:      p.Direction,
			Destination:    p.Destination,
			TillInternal:   p.TillInternal,
			Amount:         amount,
			Description:    p.Description,
			Reference:      p.Reference,
			OperatorID:     p.OperatorID,
		}
		if err := tx.Omit(clause.Associations).Create(&mov).Error; err != nil {
			return fmt.Errorf("creating movement: %w", err)
		}
		mov.MovementType = *mt

		if _, err := treasury.SyncMovement(tx, &mov); err != nil {
			return err
		}

		return audit.Write(tx, audit.LogOptions{
			OperatorID:  p.OperatorID,
			EntityType:  "till_movement",
			EntityID:    mov.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("%s %s %s", mt.Name, p.Direction, money.Format(amount, s.currency)),
			After:       mov,
		})
	}, s.txOpts)
	if err != nil {
		return nil, err
	}

	s.log.Info("till movement recorded",
		zap.Uint("session_id", mov.SessionID),
		zap.Uint("movement_id", mov.ID),
		zap.String("type", mov.MovementType.Code),
		zap.String("direction", string(mov.Direction)),
		zap.String("destination", string(mov.Destination)),
		zap.String("amount", mov.Amount.StringFixed(2)),
	)
	return &mov, nil
}

func checkRouting(p MovementParams) error {
	if !p.Direction.Valid() {
		return ledgererr.New(ledgererr.ErrInvalidDestination, "direction", "direction must be INGRESS or EGRESS, got %q", p.Direction)
	}
	if !p.Destination.Valid() {
		return ledgererr.New(ledgererr.ErrInvalidDestination, "destination", "unknown destination %q", p.Destination)
	}
	if p.Destination == models.DestinationBank {
		if p.Direction != models.DirectionIngress {
			return ledgererr.New(ledgererr.ErrInvalidDestination, "destination", "only ingress can go straight to the bank")
		}
		if p.TillInternal {
			return ledgererr.New(ledgererr.ErrInvalidDestination, "till_internal", "bank deposits are always mirrored")
		}
	}
	return nil
}

type CloseParams struct {
	SessionID      uint
	DeclaredAmount decimal.Decimal
	TillRetained   decimal.Decimal
	ReserveMoved   decimal.Decimal
	// Breakdown counts the retained portion only.
	Breakdown  []counting.LineInput
	Notes      string
	OperatorID string
}

type CloseResult struct {
	Session        models.CashSession          `json:"session"`
	ComputedAmount decimal.Decimal             `json:"computed_amount"`
	Difference     decimal.Decimal             `json:"difference"`
	ReserveDeposit *models.TreasuryTransaction `json:"reserve_deposit,omitempty"`
	Count          *models.DenominationCount   `json:"count,omitempty"`
}

// Close reconciles the declared count against the movements and ends the session.
func (s *Service) Close(ctx context.Context, p CloseParams) (*CloseResult, error) {
	declared := p.DeclaredAmount.Round(2)
	retained := p.TillRetained.Round(2)
	moved := p.ReserveMoved.Round(2)

	var res CloseResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		session, err := lockOpenSession(tx, p.SessionID)
		if err != nil {
			return err
		}

		for field, v := range map[string]decimal.Decimal{
			"declared_amount": declared,
			"till_retained":   retained,
			"reserve_moved":   moved,
		} {
			if v.IsNegative() {
				return ledgererr.New(ledgererr.ErrInvalidAmount, field, "amount cannot be negative")
			}
		}
		if !money.Equal(retained.Add(moved), declared) {
			return ledgererr.New(ledgererr.ErrDistributionMismatch, "reserve_moved",
				"%s retained + %s moved != %s declared",
				retained.StringFixed(2), moved.StringFixed(2), declared.StringFixed(2))
		}

		var tally *counting.Tally
		if len(p.Breakdown) > 0 {
			t, err := counting.Load(tx, p.Breakdown)
			if err != nil {
				return err
			}
			if err := t.Verify(retained); err != nil {
				return err
			}
			tally = &t
		}

		movements, err := reconcile.SessionMovements(tx, session.ID)
		if err != nil {
			return err
		}
		computed := reconcile.ComputedAmount(movements)
		diff := declared.Sub(computed)
		closedAt := s.now()

		upd := tx.Model(&models.CashSession{}).
			Where("id = ? AND status = ?", session.ID, models.SessionOpen).
			Updates(map[string]any{
				"status":          models.SessionClosed,
				"closed_at":       closedAt,
				"declared_amount": decimal.NewNullDecimal(declared),
				"computed_amount": decimal.NewNullDecimal(computed),
				"difference":      decimal.NewNullDecimal(diff),
				"till_retained":   decimal.NewNullDecimal(retained),
				"reserve_moved":   decimal.NewNullDecimal(moved),
				"closing_notes":   p.Notes,
			})
		if upd.Error != nil {
			return fmt.Errorf("closing session: %w", upd.Error)
		}
		if upd.RowsAffected == 0 {
			return ledgererr.New(ledgererr.ErrNoOpenSession, "session_id", "session %d was closed concurrently", session.ID)
		}

		session.Status = models.SessionClosed
		session.ClosedAt = &closedAt
		session.DeclaredAmount = decimal.NewNullDecimal(declared)
		session.ComputedAmount = decimal.NewNullDecimal(computed)
		session.Difference = decimal.NewNullDecimal(diff)
		session.TillRetained = decimal.NewNullDecimal(retained)
		session.ReserveMoved = decimal.NewNullDecimal(moved)
		session.ClosingNotes = p.Notes

		if tally != nil {
			if res.Count, err = counting.Save(tx, session.ID, models.CountClose, p.OperatorID, p.Notes, *tally); err != nil {
				return err
			}
		}
		if money.Positive(moved) {
			if res.ReserveDeposit, err = treasury.DepositReserve(tx, *session, moved, p.OperatorID); err != nil {
				return err
			}
		}

		res.Session = *session
		res.ComputedAmount = computed
		res.Difference = diff

		return audit.Write(tx, audit.LogOptions{
			OperatorID: p.OperatorID,
			EntityType: "cash_session",
			EntityID:   session.ID,
			Action:     models.AuditActionClose,
			Description: fmt.Sprintf("Cierre de caja: declarado %s, sistema %s, diferencia %s",
				money.Format(declared, s.currency), money.Format(computed, s.currency), money.Format(diff, s.currency)),
			After: session,
		})
	}, s.txOpts)
	if err != nil {
		return nil, err
	}

	fields := []zap.Field{
		zap.Uint("session_id", res.Session.ID),
		zap.String("declared", declared.StringFixed(2)),
		zap.String("computed", res.ComputedAmount.StringFixed(2)),
		zap.String("difference", res.Difference.StringFixed(2)),
		zap.String("reserve_moved", moved.StringFixed(2)),
		zap.Duration("open_for", res.Session.OpenFor(time.Now())),
	}
	if money.Equal(res.Difference, decimal.Zero) {
		s.log.Info("cash session closed", fields...)
	} else {
		s.log.Warn("cash session closed with difference", fields...)
	}
	return &res, nil
}

// lockOpenSession locks the session row for the rest of the transaction.
func lockOpenSession(tx *gorm.DB, id uint) (*models.CashSession, error) {
	var session models.CashSession
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&session, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ledgererr.New(ledgererr.ErrNoOpenSession, "session_id", "session %d does not exist", id)
	}
	if err != nil {
		return nil, fmt.Errorf("locking session %d: %w", id, err)
	}
	if !session.IsOpen() {
		return nil, ledgererr.New(ledgererr.ErrNoOpenSession, "session_id", "session %d is closed", id)
	}
	return &session, nil
}
