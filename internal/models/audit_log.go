package models

import "time"

type AuditAction string

const (
	AuditActionCreate   AuditAction = "create"
	AuditActionClose    AuditAction = "close"
	AuditActionPost     AuditAction = "post"
	AuditActionTransfer AuditAction = "transfer"
)

type AuditLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`

	// Kim?
	OperatorID string `gorm:"size:100;index" json:"operator_id"`

	// Hangi entity? (ör: "cash_session", "till_movement", "treasury_transaction")
	EntityType string `gorm:"size:50;index" json:"entity_type"`
	EntityID   uint   `gorm:"index" json:"entity_id"`

	Action AuditAction `gorm:"size:20" json:"action"`

	// Kısa özet
	Description string `gorm:"size:255" json:"description"`

	// Sonraki hal (JSON)
	AfterData string `gorm:"type:jsonb" json:"after_data"`
}
