// Package databasetest provides a migrated and seeded sqlite database for package tests.
package databasetest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"caja-backend/internal/config"
	"caja-backend/internal/database"
)

// New returns a fresh database in t.TempDir() with the default catalog loaded.
func New(t testing.TB) *gorm.DB {
	t.Helper()

	cfg := config.Default()
	cfg.DatabaseDriver = config.DriverSQLite
	cfg.DatabaseDSN = filepath.Join(t.TempDir(), "caja.db")

	db, err := database.Open(cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	ctx := context.Background()
	require.NoError(t, database.Migrate(ctx, db, zap.NewNop()))
	require.NoError(t, database.Seed(ctx, db, zap.NewNop()))
	return db
}
