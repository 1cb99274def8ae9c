package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"caja-backend/internal/treasury"
)

func newSyncCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sync [movement-id...]",
		Short: "Mirror till movements into the treasury ledger",
		Long: `Mirror the given till movements into the treasury ledger.
Without arguments every movement that is still missing its mirror is synced.
Movements that are already linked are left as they are.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]uint, 0, len(args))
			for _, a := range args {
				id, err := strconv.ParseUint(a, 10, 64)
				if err != nil || id == 0 {
					return fmt.Errorf("invalid movement id %q", a)
				}
				ids = append(ids, uint(id))
			}

			e, err := loadEnv(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer e.close()

			ledger := treasury.NewLedger(e.db, e.log, e.txOpts, e.cfg.Currency)
			if len(ids) == 0 {
				if ids, err = ledger.Unsynced(cmd.Context()); err != nil {
					return err
				}
			}
			if len(ids) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "nothing to sync")
				return nil
			}

			out := cmd.OutOrStdout()
			for _, id := range ids {
				mirror, err := ledger.Sync(cmd.Context(), id)
				if err != nil {
					return fmt.Errorf("syncing movement %d: %w", id, err)
				}
				if mirror == nil {
					fmt.Fprintf(out, "movement %d: not mirrored\n", id)
					continue
				}
				fmt.Fprintf(out, "movement %d -> transaction %d (account %d)\n", id, mirror.ID, mirror.AccountID)
			}
			return nil
		},
	}
}
