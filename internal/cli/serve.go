package cli

import (
	"github.com/spf13/cobra"

	"github.com/BeeNag/tiy-front-end-final-project-back-end/internal/config"
	"github.com/BeeNag/tiy-front-end-final-project-back-end/internal/entrypoint"
)

func newServeCmd(load func() *config.Config, build BuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server (default if no command given)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entrypoint.Run(load(), build.Version, build.Commit)
			return nil
		},
	}
}
