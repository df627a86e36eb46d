package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/BeeNag/tiy-front-end-final-project-back-end/internal/config"
	"github.com/BeeNag/tiy-front-end-final-project-back-end/internal/entrypoint"
)

func newTokenCmd(load func() *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Inspect and revoke access tokens",
	}

	cmd.AddCommand(newTokenVerifyCmd(load))
	cmd.AddCommand(newTokenRevokeCmd(load))

	return cmd
}

func newTokenVerifyCmd(load func() *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "verify <token>",
		Short: "Check a token's signature, expiry and revocation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCore(cmd.Context(), load(), func(ctx context.Context, core *entrypoint.Core) error {
				claims, err := core.Tokens.Verify(ctx, args[0])
				if err != nil {
					return fmt.Errorf("token rejected: %w", err)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Email:   %s\n", claims.Email)
				fmt.Fprintf(out, "ID:      %s\n", claims.ID)
				fmt.Fprintf(out, "Expires: %s\n", claims.ExpiresAt.Time.Format(time.RFC3339))
				return nil
			})
		},
	}
}

func newTokenRevokeCmd(load func() *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "revoke <token>",
		Short: "Revoke a token until it expires (needs REDIS_URL)",
		Long: `Revoke a token. Without REDIS_URL the denylist lives inside the server
process, so a revocation made here would not reach it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := load()
			if cfg.Redis.URL == "" {
				return fmt.Errorf("REDIS_URL is not set, revocation would not reach the server")
			}
			return withCore(cmd.Context(), cfg, func(ctx context.Context, core *entrypoint.Core) error {
				claims, err := core.Tokens.Verify(ctx, args[0])
				if err != nil {
					return fmt.Errorf("token rejected: %w", err)
				}
				if err := core.Tokens.Revoke(ctx, claims); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Revoked token %s of %s\n", claims.ID, claims.Email)
				return nil
			})
		},
	}
}
