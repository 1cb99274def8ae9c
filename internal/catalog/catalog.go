// Package catalog reads the reference data the ledger depends on: denominations,
// movement types and the account registry.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"caja-backend/internal/ledgererr"
	"caja-backend/internal/models"
)

// Catalog serves read-only listings outside of ledger transactions.
type Catalog struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Catalog {
	return &Catalog{db: db}
}

// Denominations returns active denominations, largest first.
func (c *Catalog) Denominations(ctx context.Context) ([]models.Denomination, error) {
	return ActiveDenominations(c.db.WithContext(ctx))
}

// MovementTypes lists active, non-system types usable for direction d.
// An empty direction lists all of them.
func (c *Catalog) MovementTypes(ctx context.Context, d models.Direction) ([]models.MovementType, error) {
	var types []models.MovementType
	if err := c.db.WithContext(ctx).
		Where("is_active = ? AND system = ?", true, false).
		Order("name ASC").
		Find(&types).Error; err != nil {
		return nil, fmt.Errorf("listing movement types: %w", err)
	}
	if d == "" {
		return types, nil
	}
	out := types[:0]
	for _, t := range types {
		if t.Allows(d) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (c *Catalog) Accounts(ctx context.Context) ([]models.Account, error) {
	var accounts []models.Account
	if err := c.db.WithContext(ctx).
		Where("tracking = ?", false).
		Order("kind ASC, name ASC").
		Find(&accounts).Error; err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}
	return accounts, nil
}

// ActiveDenominations works on any handle, inside a transaction or not.
func ActiveDenominations(db *gorm.DB) ([]models.Denomination, error) {
	var denoms []models.Denomination
	if err := db.Where("is_active = ?", true).Order("value DESC").Find(&denoms).Error; err != nil {
		return nil, fmt.Errorf("listing denominations: %w", err)
	}
	return denoms, nil
}

// UsableType resolves an operator-selectable movement type for direction d.
func UsableType(db *gorm.DB, code string, d models.Direction) (*models.MovementType, error) {
	var t models.MovementType
	err := db.Where("code = ?", code).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ledgererr.New(ledgererr.ErrInvalidMovementType, "type", "unknown movement type %q", code)
	}
	if err != nil {
		return nil, fmt.Errorf("loading movement type %q: %w", code, err)
	}
	switch {
	case !t.IsActive:
		return nil, ledgererr.New(ledgererr.ErrInvalidMovementType, "type", "movement type %q is inactive", code)
	case t.System:
		return nil, ledgererr.New(ledgererr.ErrInvalidMovementType, "type", "movement type %q is reserved", code)
	case d != "" && !t.Allows(d):
		return nil, ledgererr.New(ledgererr.ErrInvalidMovementType, "type", "movement type %q (%s) cannot be used for %s", code, t.Base, d)
	}
	return &t, nil
}

// SystemType loads one of the reserved types (OPENING, TRANSFER, RESERVE_DEPOSIT).
// Missing system types mean the catalog was never seeded.
func SystemType(db *gorm.DB, code string) (*models.MovementType, error) {
	var t models.MovementType
	if err := db.Where("code = ? AND system = ?", code, true).First(&t).Error; err != nil {
		return nil, fmt.Errorf("loading system movement type %q: %w", code, err)
	}
	return &t, nil
}

// ActiveAccount returns the operating account of the given kind.
func ActiveAccount(db *gorm.DB, kind models.AccountKind) (*models.Account, error) {
	var a models.Account
	err := db.Where("kind = ? AND is_active = ? AND tracking = ?", kind, true, false).First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ledgererr.New(ledgererr.ErrAccountNotFound, "kind", "no active %s account", kind)
	}
	if err != nil {
		return nil, fmt.Errorf("loading %s account: %w", kind, err)
	}
	return &a, nil
}

// TrackingAccount returns the RESERVE-kind account holding mirrors of till movements.
func TrackingAccount(db *gorm.DB) (*models.Account, error) {
	var a models.Account
	err := db.Where("tracking = ? AND is_active = ?", true, true).First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ledgererr.New(ledgererr.ErrAccountNotFound, "tracking", "no tracking account")
	}
	if err != nil {
		return nil, fmt.Errorf("loading tracking account: %w", err)
	}
	return &a, nil
}
