package catalog

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// SeedResult counts the rows Seed created.
type SeedResult struct {
	Denominations int
	MovementTypes int
	Accounts      int
}

// Seed inserts the default reference data. Existing rows (matched by value, code or
// name) are left untouched, so Seed can run on every start.
func Seed(ctx context.Context, db *gorm.DB) (SeedResult, error) {
	var res SeedResult
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, d := range DefaultDenominations() {
			created, err := createIfMissing(tx, &d, "value = ?", d.Value)
			if err != nil {
				return fmt.Errorf("seeding denomination %s: %w", d.Value, err)
			}
			if created {
				res.Denominations++
			}
		}
		for _, t := range DefaultMovementTypes() {
			created, err := createIfMissing(tx, &t, "code = ?", t.Code)
			if err != nil {
				return fmt.Errorf("seeding movement type %s: %w", t.Code, err)
			}
			if created {
				res.MovementTypes++
			}
		}
		for _, a := range DefaultAccounts() {
			created, err := createIfMissing(tx, &a, "name = ?", a.Name)
			if err != nil {
				return fmt.Errorf("seeding account %s: %w", a.Name, err)
			}
			if created {
				res.Accounts++
			}
		}
		return nil
	})
	return res, err
}

func createIfMissing[T any](tx *gorm.DB, row *T, query string, arg any) (bool, error) {
	var cnt int64
	if err := tx.Model(new(T)).Where(query, arg).Count(&cnt).Error; err != nil {
		return false, err
	}
	if cnt > 0 {
		return false, nil
	}
	if err := tx.Create(row).Error; err != nil {
		return false, err
	}
	return true, nil
}
