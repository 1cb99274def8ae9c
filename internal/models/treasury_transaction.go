package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionSource string

const (
	SourceManual       TransactionSource = "MANUAL"        // doğrudan tesoreriden
	SourceTillSync     TransactionSource = "TILL_SYNC"     // kasa hareketinin yansıması
	SourceSessionClose TransactionSource = "SESSION_CLOSE" // kapanışta rezerve aktarılan
	SourceTransfer     TransactionSource = "TRANSFER"      // hesaplar arası transfer bacağı
)

// TreasuryTransaction: bir hesaba yapılan değiştirilemez kayıt. Düzeltmeler ters kayıtla yapılır.
type TreasuryTransaction struct {
	ID             uint              `gorm:"primaryKey" json:"id"`
	AccountID      uint              `gorm:"index;not null" json:"account_id"`
	Account        Account           `json:"-"`
	Direction      Direction         `gorm:"size:10;not null" json:"direction"`
	Amount         decimal.Decimal   `gorm:"type:decimal(14,2);not null" json:"amount"`
	MovementTypeID uint              `gorm:"index;not null" json:"movement_type_id"`
	MovementType   MovementType      `json:"movement_type"`
	Source         TransactionSource `gorm:"size:20;not null" json:"source"`
	OperatorID     string            `gorm:"size:100;not null" json:"operator_id"`
	Description    string            `gorm:"size:255" json:"description"`
	Reference      string            `gorm:"size:100" json:"reference"`
	TillMovementID *uint             `gorm:"uniqueIndex" json:"till_movement_id"`
	SessionID      *uint             `gorm:"index" json:"session_id"`
	TransferGroup  *string           `gorm:"size:36;index" json:"transfer_group"`
	CreatedAt      time.Time         `gorm:"index" json:"created_at"`
}

// MirrorsTillMovement reports whether the posting is the ledger copy of a till movement.
func (t TreasuryTransaction) MirrorsTillMovement() bool {
	return t.TillMovementID != nil
}
