package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type DenominationKind string

const (
	DenominationNote DenominationKind = "NOTE" // banknot
	DenominationCoin DenominationKind = "COIN" // madeni para
)

type Denomination struct {
	ID        uint             `gorm:"primaryKey" json:"id"`
	Value     decimal.Decimal  `gorm:"type:decimal(14,2);not null;uniqueIndex" json:"value"`
	Kind      DenominationKind `gorm:"size:10;not null" json:"kind"`
	IsActive  bool             `gorm:"not null" json:"is_active"`
	SortOrder int              `gorm:"not null" json:"sort_order"`
	CreatedAt time.Time        `json:"-"`
	UpdatedAt time.Time        `json:"-"`
}

type CountPurpose string

const (
	CountOpen  CountPurpose = "OPEN"
	CountClose CountPurpose = "CLOSE"
)

// DenominationCount: açılış veya kapanışta fiziksel sayım.
type DenominationCount struct {
	ID         uint                    `gorm:"primaryKey" json:"id"`
	SessionID  uint                    `gorm:"index;not null" json:"session_id"`
	Purpose    CountPurpose            `gorm:"size:10;not null" json:"purpose"`
	OperatorID string                  `gorm:"size:100;not null" json:"operator_id"`
	Total      decimal.Decimal         `gorm:"type:decimal(14,2);not null" json:"total"`
	Notes      string                  `gorm:"type:text" json:"notes"`
	Lines      []DenominationCountLine `gorm:"foreignKey:CountID" json:"lines"`
	CreatedAt  time.Time               `json:"created_at"`
}

type DenominationCountLine struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	CountID        uint            `gorm:"not null;uniqueIndex:ux_count_line_denomination" json:"count_id"`
	DenominationID uint            `gorm:"not null;uniqueIndex:ux_count_line_denomination" json:"denomination_id"`
	Denomination   Denomination    `json:"denomination"`
	Quantity       int             `gorm:"not null" json:"quantity"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"subtotal"`
}
