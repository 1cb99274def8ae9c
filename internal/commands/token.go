package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"caja-backend/internal/auth"
	"caja-backend/internal/config"
)

// Identity lives outside this service; the token command is for local use and tests.
func newTokenCommand() *cobra.Command {
	var (
		name string
		role string
	)
	cmd := &cobra.Command{
		Use:   "token <operator-id>",
		Short: "Issue a signed operator token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			tok, err := auth.GenerateToken(cfg.JWTSecret, cfg.JWTTTL, auth.Operator{
				ID:   args[0],
				Name: name,
				Role: auth.Role(role),
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&role, "role", string(auth.RoleCashier), "cashier or supervisor")
	return cmd
}
