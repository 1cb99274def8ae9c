package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"caja-backend/internal/cashsession"
	"caja-backend/internal/catalog"
	"caja-backend/internal/database"
	"caja-backend/internal/server"
	"caja-backend/internal/treasury"
)

func newServeCommand() *cobra.Command {
	var skipSeed bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Migrate the schema and start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			e, err := loadEnv(ctx, true)
			if err != nil {
				return err
			}
			defer e.close()

			if !skipSeed {
				if err := database.Seed(ctx, e.db, e.log); err != nil {
					return err
				}
			}

			app := server.New(server.Deps{
				Config:   e.cfg,
				Log:      e.log,
				DB:       e.db,
				Sessions: cashsession.NewService(e.db, e.log, e.txOpts, e.cfg.Currency),
				Ledger:   treasury.NewLedger(e.db, e.log, e.txOpts, e.cfg.Currency),
				Catalog:  catalog.New(e.db),
			})

			errc := make(chan error, 1)
			go func() {
				e.log.Info("server starting", zap.String("port", e.cfg.HTTPPort), zap.String("env", e.cfg.Environment))
				errc <- app.Listen(":" + e.cfg.HTTPPort)
			}()

			select {
			case err := <-errc:
				return err
			case <-ctx.Done():
				e.log.Info("shutting down")
				return app.ShutdownWithContext(context.Background())
			}
		},
	}
	cmd.Flags().BoolVar(&skipSeed, "skip-seed", false, "do not load default reference data")
	return cmd
}
