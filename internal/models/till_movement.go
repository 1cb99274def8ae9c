package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Direction string

const (
	DirectionIngress Direction = "INGRESS" // giriş
	DirectionEgress  Direction = "EGRESS"  // çıkış
	// DirectionTransfer yalnızca hesaplar arası transferi ifade eder; transfer bacakları
	// INGRESS/EGRESS olarak yazılır, bu değerle doğrudan kayıt açılamaz.
	DirectionTransfer Direction = "TRANSFER"
)

func (d Direction) Valid() bool {
	return d == DirectionIngress || d == DirectionEgress
}

// Destination: paranın fiziksel olarak gittiği yer. "[BANCO]" gibi açıklama
// işaretlerinin yerine açık bir alan.
type Destination string

const (
	DestinationTill Destination = "TILL"
	DestinationBank Destination = "BANK"
)

func (d Destination) Valid() bool {
	return d == DestinationTill || d == DestinationBank
}

// TillMovement: bir oturuma ait kasa hareketi. Oluşturulduktan sonra yalnızca
// TreasuryTransactionID bir kez set edilebilir.
type TillMovement struct {
	ID                    uint            `gorm:"primaryKey" json:"id"`
	SessionID             uint            `gorm:"index;not null" json:"session_id"`
	MovementTypeID        uint            `gorm:"index;not null" json:"movement_type_id"`
	MovementType          MovementType    `json:"movement_type"`
	Direction             Direction       `gorm:"size:10;not null" json:"direction"`
	Destination           Destination     `gorm:"size:10;not null" json:"destination"`
	TillInternal          bool            `gorm:"not null" json:"till_internal"` // tesoreriye yansıtılmaz
	Amount                decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"amount"`
	Description           string          `gorm:"size:255" json:"description"`
	Reference             string          `gorm:"size:100" json:"reference"`
	OperatorID            string          `gorm:"size:100;not null" json:"operator_id"`
	TreasuryTransactionID *uint           `gorm:"uniqueIndex" json:"treasury_transaction_id"`
	CreatedAt             time.Time       `gorm:"index" json:"created_at"`
}

// BankDestined reports whether the cash went straight to the bank instead of the drawer.
func (m TillMovement) BankDestined() bool {
	return m.Direction == DirectionIngress && m.Destination == DestinationBank
}
