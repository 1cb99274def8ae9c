package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type SessionStatus string

const (
	SessionOpen   SessionStatus = "OPEN"
	SessionClosed SessionStatus = "CLOSED"
)

// CashSession: bir kasa açılış-kapanış döngüsü. Aynı anda yalnızca bir OPEN kayıt olabilir
// (ux_cash_sessions_one_open, bkz. database.Migrate).
type CashSession struct {
	ID             uint                `gorm:"primaryKey" json:"id"`
	OperatorID     string              `gorm:"size:100;not null" json:"operator_id"`
	OpenedAt       time.Time           `gorm:"index;not null" json:"opened_at"`
	ClosedAt       *time.Time          `json:"closed_at"`
	Status         SessionStatus       `gorm:"size:10;not null" json:"status"`
	OpeningAmount  decimal.Decimal     `gorm:"type:decimal(14,2);not null" json:"opening_amount"`
	DeclaredAmount decimal.NullDecimal `gorm:"type:decimal(14,2)" json:"declared_amount"` // elle sayılan
	ComputedAmount decimal.NullDecimal `gorm:"type:decimal(14,2)" json:"computed_amount"` // hareketlerden
	Difference     decimal.NullDecimal `gorm:"type:decimal(14,2)" json:"difference"`      // declared - computed
	TillRetained   decimal.NullDecimal `gorm:"type:decimal(14,2)" json:"till_retained"`
	ReserveMoved   decimal.NullDecimal `gorm:"type:decimal(14,2)" json:"reserve_moved"`
	OpeningNotes   string              `gorm:"type:text" json:"opening_notes"`
	ClosingNotes   string              `gorm:"type:text" json:"closing_notes"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

func (s CashSession) IsOpen() bool {
	return s.Status == SessionOpen
}

// OpenFor returns how long the session has been (or was) open.
func (s CashSession) OpenFor(now time.Time) time.Duration {
	if s.ClosedAt != nil {
		return s.ClosedAt.Sub(s.OpenedAt)
	}
	return now.Sub(s.OpenedAt)
}
