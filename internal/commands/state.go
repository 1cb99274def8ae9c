package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"caja-backend/internal/money"
	"caja-backend/internal/reconcile"
)

func newStateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "state",
		Short: "Print the derived till, bank and reserve balances",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer e.close()

			b, err := reconcile.Snapshot(cmd.Context(), e.db)
			if err != nil {
				return err
			}
			printState(cmd.OutOrStdout(), b, e.cfg.Currency)
			return nil
		},
	}
}

func printState(w io.Writer, b reconcile.Balances, currency string) {
	if b.OpenSession != nil {
		fmt.Fprintf(w, "Open session:     #%d by %s since %s\n",
			b.OpenSession.ID, b.OpenSession.OperatorID, b.OpenSession.OpenedAt.Format("2006-01-02 15:04"))
	} else {
		fmt.Fprintln(w, "Open session:     none")
	}
	fmt.Fprintf(w, "Till:             %s\n", money.Format(b.TillBalance, currency))
	fmt.Fprintf(w, "Bank:             %s\n", money.Format(b.BankBalance, currency))
	fmt.Fprintf(w, "Reserve:          %s\n", money.Format(b.ReserveBalance, currency))
	fmt.Fprintf(w, "Total available:  %s\n", money.Format(b.TotalAvailable, currency))
}
