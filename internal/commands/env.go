package commands

import (
	"context"
	"database/sql"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"caja-backend/internal/config"
	"caja-backend/internal/database"
	"caja-backend/internal/logging"
)

// env is what every command needs: configuration, a logger and the database.
type env struct {
	cfg    *config.Config
	log    *zap.Logger
	db     *gorm.DB
	txOpts *sql.TxOptions
}

func loadEnv(ctx context.Context, migrate bool) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log, err := logging.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	for _, w := range cfg.Warnings() {
		log.Warn(w)
	}

	db, err := database.Open(cfg)
	if err != nil {
		return nil, err
	}
	txOpts, err := database.TxOptions(cfg)
	if err != nil {
		return nil, err
	}
	if migrate {
		if err := database.Migrate(ctx, db, log); err != nil {
			return nil, err
		}
	}
	return &env{cfg: cfg, log: log, db: db, txOpts: txOpts}, nil
}

func (e *env) close() {
	_ = e.log.Sync()
	if sqlDB, err := e.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
