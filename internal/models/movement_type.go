package models

import "time"

// BaseClass: hareket türünün muhasebe sınıfı.
type BaseClass string

const (
	BaseIncome        BaseClass = "INCOME"
	BaseExpense       BaseClass = "EXPENSE"
	BaseCapitalOutlay BaseClass = "CAPITAL_OUTLAY"
	BaseInternal      BaseClass = "INTERNAL"
)

// Sistem kodları; reconcile ve treasury bunlara dayanır, silinemez.
const (
	CodeOpening        = "OPENING"
	CodeTransfer       = "TRANSFER"
	CodeReserveDeposit = "RESERVE_DEPOSIT"
)

type MovementType struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Code        string    `gorm:"size:30;not null;uniqueIndex" json:"code"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Base        BaseClass `gorm:"size:20;not null" json:"base"`
	IsActive    bool      `gorm:"not null" json:"is_active"`
	System      bool      `gorm:"not null" json:"system"`
	Description string    `gorm:"size:255" json:"description"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
}

// Allows reports whether a movement of this type may flow in direction d.
func (t MovementType) Allows(d Direction) bool {
	switch t.Base {
	case BaseIncome:
		return d == DirectionIngress
	case BaseExpense, BaseCapitalOutlay:
		return d == DirectionEgress
	case BaseInternal:
		return d == DirectionIngress || d == DirectionEgress
	}
	return false
}
