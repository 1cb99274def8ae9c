package cashsession

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"caja-backend/internal/catalog"
	"caja-backend/internal/counting"
	"caja-backend/internal/ledgererr"
	"caja-backend/internal/models"
	"caja-backend/internal/reconcile"
)

// CurrentState returns every derived balance. Reads take no locks.
func (s *Service) CurrentState(ctx context.Context) (reconcile.Balances, error) {
	return reconcile.Snapshot(ctx, s.db)
}

// SessionView is a session with its movements and till balance.
type SessionView struct {
	Session     models.CashSession         `json:"session"`
	TillBalance decimal.Decimal            `json:"till_balance"`
	Movements   []models.TillMovement      `json:"movements"`
	Counts      []models.DenominationCount `json:"counts"`
	CountIssues []string                   `json:"count_issues,omitempty"` // sayım satırları toplamı tutmuyor
}

// Current returns the open session, or gorm.ErrRecordNotFound when none is open.
func (s *Service) Current(ctx context.Context) (*SessionView, error) {
	var session models.CashSession
	if err := s.db.WithContext(ctx).Where("status = ?", models.SessionOpen).First(&session).Error; err != nil {
		return nil, err
	}
	return s.view(ctx, session)
}

func (s *Service) Get(ctx context.Context, id uint) (*SessionView, error) {
	var session models.CashSession
	if err := s.db.WithContext(ctx).First(&session, id).Error; err != nil {
		return nil, err
	}
	return s.view(ctx, session)
}

func (s *Service) view(ctx context.Context, session models.CashSession) (*SessionView, error) {
	movements, err := s.Movements(ctx, session.ID)
	if err != nil {
		return nil, err
	}
	var counts []models.DenominationCount
	if err := s.db.WithContext(ctx).
		Preload("Lines.Denomination").
		Where("session_id = ?", session.ID).
		Order("id ASC").
		Find(&counts).Error; err != nil {
		return nil, fmt.Errorf("loading counts: %w", err)
	}
	var issues []string
	for _, c := range counts {
		if err := counting.Verify(c); err != nil {
			issues = append(issues, fmt.Sprintf("count %d (%s): %v", c.ID, c.Purpose, err))
			s.log.Warn("stored count does not add up",
				zap.Uint("session_id", session.ID),
				zap.Uint("count_id", c.ID),
				zap.Error(err),
			)
		}
	}
	return &SessionView{
		Session:     session,
		TillBalance: reconcile.SessionTillBalance(session, movements),
		Movements:   movements,
		Counts:      counts,
		CountIssues: issues,
	}, nil
}

// ListSessions returns the newest sessions first.
func (s *Service) ListSessions(ctx context.Context, limit int) ([]models.CashSession, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var sessions []models.CashSession
	if err := s.db.WithContext(ctx).Order("opened_at DESC, id DESC").Limit(limit).Find(&sessions).Error; err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	return sessions, nil
}

func (s *Service) Movements(ctx context.Context, sessionID uint) ([]models.TillMovement, error) {
	db := s.db.WithContext(ctx)
	var exists int64
	if err := db.Model(&models.CashSession{}).Where("id = ?", sessionID).Count(&exists).Error; err != nil {
		return nil, err
	}
	if exists == 0 {
		return nil, fmt.Errorf("session %d: %w", sessionID, gorm.ErrRecordNotFound)
	}
	var movements []models.TillMovement
	if err := db.Preload("MovementType").
		Where("session_id = ?", sessionID).
		Order("id ASC").
		Find(&movements).Error; err != nil {
		return nil, fmt.Errorf("listing movements: %w", err)
	}
	return movements, nil
}

// SuggestClosingCount proposes a denomination breakdown for the open session's till balance.
func (s *Service) SuggestClosingCount(ctx context.Context) (catalog.Suggestion, decimal.Decimal, error) {
	db := s.db.WithContext(ctx)
	till, open, err := reconcile.CurrentTill(db)
	if err != nil {
		return catalog.Suggestion{}, decimal.Zero, err
	}
	if open == nil {
		return catalog.Suggestion{}, decimal.Zero, ledgererr.New(ledgererr.ErrNoOpenSession, "", "open a session to count the till")
	}
	denoms, err := catalog.ActiveDenominations(db)
	if err != nil {
		return catalog.Suggestion{}, decimal.Zero, err
	}
	return catalog.SuggestBreakdown(till, denoms), till, nil
}

// PreviewCount validates and totals a denomination count without storing it.
func (s *Service) PreviewCount(ctx context.Context, inputs []counting.LineInput) (counting.Tally, error) {
	return counting.Load(s.db.WithContext(ctx), inputs)
}
