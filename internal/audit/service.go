// Package audit records who changed what, inside the same transaction as the change.
package audit

import (
	"encoding/json"
	"fmt"

	"gorm.io/gorm"

	"caja-backend/internal/models"
)

type LogOptions struct {
	OperatorID  string
	EntityType  string
	EntityID    uint
	Action      models.AuditAction
	Description string
	After       any
}

// Write stores the entry with tx so it rolls back with the change it describes.
func Write(tx *gorm.DB, opts LogOptions) error {
	// jsonb için boş string yerine "null"
	afterStr := "null"
	if opts.After != nil {
		b, err := json.Marshal(opts.After)
		if err != nil {
			return fmt.Errorf("audit verisi serileştirilemedi: %w", err)
		}
		afterStr = string(b)
	}

	entry := models.AuditLog{
		OperatorID:  opts.OperatorID,
		EntityType:  opts.EntityType,
		EntityID:    opts.EntityID,
		Action:      opts.Action,
		Description: truncate(opts.Description, 255),
		AfterData:   afterStr,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return fmt.Errorf("audit log kaydedilemedi: %w", err)
	}
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// ListOptions filters List; zero values match everything.
type ListOptions struct {
	OperatorID string
	EntityType string
	EntityID   uint
	Limit      int
}

func List(db *gorm.DB, opts ListOptions) ([]models.AuditLog, error) {
	q := db.Model(&models.AuditLog{})
	if opts.OperatorID != "" {
		q = q.Where("operator_id = ?", opts.OperatorID)
	}
	if opts.EntityType != "" {
		q = q.Where("entity_type = ?", opts.EntityType)
	}
	if opts.EntityID > 0 {
		q = q.Where("entity_id = ?", opts.EntityID)
	}
	limit := opts.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	var logs []models.AuditLog
	if err := q.Order("created_at DESC, id DESC").Limit(limit).Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("loglar listelenemedi: %w", err)
	}
	return logs, nil
}
