// Package database opens the gorm connection and owns the schema.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"caja-backend/internal/catalog"
	"caja-backend/internal/config"
	"caja-backend/internal/models"
)

// Open connects with the configured driver. sqlite connections are limited to a single
// writer so row locking degrades to database-level serialization.
func Open(cfg *config.Config) (*gorm.DB, error) {
	gcfg := &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	}

	var dialector gorm.Dialector
	switch cfg.DatabaseDriver {
	case config.DriverPostgres:
		dialector = postgres.Open(cfg.DatabaseDSN)
	case config.DriverSQLite:
		dialector = sqlite.Open(sqliteDSN(cfg.DatabaseDSN))
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DatabaseDriver)
	}

	db, err := gorm.Open(dialector, gcfg)
	if err != nil {
		return nil, fmt.Errorf("veritabanına bağlanılamadı: %w", err)
	}

	if cfg.DatabaseDriver == config.DriverSQLite {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return db, nil
}

func sqliteDSN(path string) string {
	if path == "" {
		path = "caja.db"
	}
	return path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

// TxOptions returns the options every ledger write passes to gorm's Transaction.
// nil means the driver default.
func TxOptions(cfg *config.Config) (*sql.TxOptions, error) {
	if cfg.DatabaseDriver == config.DriverSQLite {
		return nil, nil
	}
	level, err := cfg.Isolation()
	if err != nil {
		return nil, err
	}
	if level == sql.LevelDefault {
		return nil, nil
	}
	return &sql.TxOptions{Isolation: level}, nil
}

var schema = []any{
	&models.Denomination{},
	&models.MovementType{},
	&models.Account{},
	&models.CashSession{},
	&models.TillMovement{},
	&models.TreasuryTransaction{},
	&models.DenominationCount{},
	&models.DenominationCountLine{},
	&models.AuditLog{},
}

// Partial indexes AutoMigrate cannot express. Both postgres and sqlite accept this syntax.
var constraints = []string{
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_cash_sessions_one_open ON cash_sessions (status) WHERE status = 'OPEN'`,
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_accounts_one_active_per_kind ON accounts (kind) WHERE is_active = true AND tracking = false`,
}

func Migrate(ctx context.Context, db *gorm.DB, log *zap.Logger) error {
	db = db.WithContext(ctx)
	if err := db.AutoMigrate(schema...); err != nil {
		return fmt.Errorf("AutoMigrate hatası: %w", err)
	}
	for _, stmt := range constraints {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("creating constraint: %w", err)
		}
	}
	log.Info("migration tamamlandı", zap.Int("tables", len(schema)))
	return nil
}

// Seed loads default reference data; safe to run repeatedly.
func Seed(ctx context.Context, db *gorm.DB, log *zap.Logger) error {
	res, err := catalog.Seed(ctx, db)
	if err != nil {
		return err
	}
	log.Info("seed tamamlandı",
		zap.Int("denominations", res.Denominations),
		zap.Int("movement_types", res.MovementTypes),
		zap.Int("accounts", res.Accounts),
	)
	return nil
}

// IsUniqueViolation reports whether err came from a unique index. TranslateError covers
// postgres; the message check covers sqlite builds without a translator.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "duplicate key")
}
