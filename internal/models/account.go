package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type AccountKind string

const (
	AccountKindBank    AccountKind = "BANK"    // banka hesabı
	AccountKindReserve AccountKind = "RESERVE" // kasa dışı rezerv (kasa/kiralık kasa)
)

func (k AccountKind) Valid() bool {
	return k == AccountKindBank || k == AccountKindReserve
}

// Account: tesoreri hesabı. Tür başına en fazla bir aktif, takip dışı hesap olabilir
// (ux_accounts_one_active_per_kind).
//
// CachedBalance yalnızca gösterim önbelleğidir; her kayıtta aynı transaction içinde
// yenilenir, karar verirken asla okunmaz. Bakiyeler reconcile paketinden türetilir.
type Account struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	Name          string          `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Kind          AccountKind     `gorm:"size:10;not null" json:"kind"`
	Tracking      bool            `gorm:"not null" json:"tracking"` // kasa hareketlerinin iz kaydı
	IsActive      bool            `gorm:"not null" json:"is_active"`
	CachedBalance decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"cached_balance"`
	Description   string          `gorm:"size:255" json:"description"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// Postable reports whether operators may post to the account directly.
func (a Account) Postable() bool {
	return a.IsActive && !a.Tracking
}
