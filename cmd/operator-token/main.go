// Command operator-token mints a JWT for the diagnostics routes, signed with
// OPERATOR_JWT_SECRET.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"treasuremap-backend/internal/config"
	"treasuremap-backend/internal/middleware"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "operator-token <subject>",
		Short: "Print an operator token for the diagnostics feed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if cfg.OperatorJWTSecret == "" {
				return fmt.Errorf("OPERATOR_JWT_SECRET is not set")
			}

			token, err := middleware.NewJWTAuth(cfg.OperatorJWTSecret).GenerateOperatorToken(args[0], ttl)
			if err != nil {
				return fmt.Errorf("failed to sign token: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().DurationVar(&ttl, "ttl", 12*time.Hour, "token lifetime")

	return cmd
}
