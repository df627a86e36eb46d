package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/BeeNag/tiy-front-end-final-project-back-end/internal/config"
	"github.com/BeeNag/tiy-front-end-final-project-back-end/internal/entrypoint"
)

// BuildInfo is stamped into the binary at build time via ldflags.
type BuildInfo struct {
	Version string
	Commit  string
}

// NewRootCmd creates the root command. Without a subcommand it serves HTTP.
func NewRootCmd(build BuildInfo) *cobra.Command {
	var cfg *config.Config

	rootCmd := &cobra.Command{
		Use:   "freearch",
		Short: "FreeArch account and listings API",
		Long: `freearch serves the FreeArch API for archaeologists, companies and
excavation listings, and offers a few admin commands that work directly
against the configured database.

All settings are read from the environment (DATABASE_PATH, TOKEN_SECRET, ...).`,
		Version: build.Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg = config.NewConfig()
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			entrypoint.Run(cfg, build.Version, build.Commit)
			return nil
		},
		SilenceUsage: true,
	}

	load := func() *config.Config { return cfg }

	rootCmd.AddCommand(newServeCmd(load, build))
	rootCmd.AddCommand(newAccountCmd(load))
	rootCmd.AddCommand(newTokenCmd(load))
	rootCmd.AddCommand(newMaintenanceCmd(load))

	return rootCmd
}

// Execute runs the root command
func Execute(build BuildInfo) {
	if err := NewRootCmd(build).Execute(); err != nil {
		os.Exit(1)
	}
}

// withCore opens the database and token issuer for the duration of fn.
func withCore(ctx context.Context, cfg *config.Config, fn func(ctx context.Context, core *entrypoint.Core) error) error {
	core, err := entrypoint.NewCore(cfg)
	if err != nil {
		return err
	}
	defer core.Close()
	return fn(ctx, core)
}
