package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/BeeNag/tiy-front-end-final-project-back-end/internal/audit"
	"github.com/BeeNag/tiy-front-end-final-project-back-end/internal/config"
	auditrepo "github.com/BeeNag/tiy-front-end-final-project-back-end/internal/database/audit"
	"github.com/BeeNag/tiy-front-end-final-project-back-end/internal/database/thumbnails"
	"github.com/BeeNag/tiy-front-end-final-project-back-end/internal/entrypoint"
	"github.com/BeeNag/tiy-front-end-final-project-back-end/internal/storage"
	"github.com/BeeNag/tiy-front-end-final-project-back-end/internal/tasks"
)

func newMaintenanceCmd(load func() *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "maintenance",
		Short: "Housekeeping normally run by the scheduler",
	}

	cmd.AddCommand(newMaintenanceRunCmd(load))

	return cmd
}

func newMaintenanceRunCmd(load func() *config.Config) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Prune old audit events and orphaned thumbnails now",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := load()
			taskCfg := tasks.ConfigFrom(cfg.Tasks, cfg.Audit)
			retention := time.Duration(taskCfg.AuditRetentionDays) * 24 * time.Hour

			if dryRun {
				fmt.Fprintf(cmd.OutOrStdout(), "Would delete audit events older than %s\n", retention)
				fmt.Fprintf(cmd.OutOrStdout(), "Would remove up to %d thumbnails unreferenced for %s\n", taskCfg.OrphanBatch, taskCfg.OrphanGrace)
				return nil
			}

			return withCore(cmd.Context(), cfg, func(ctx context.Context, core *entrypoint.Core) error {
				events, err := audit.NewService(auditrepo.NewRepository(core.DB.DB)).DeleteOldEvents(ctx, retention)
				if err != nil {
					return fmt.Errorf("audit cleanup: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d audit events\n", events)

				blobs, err := storage.New(ctx, cfg.Storage)
				if err != nil {
					return err
				}
				uploads := storage.NewUploader(blobs, thumbnails.NewRepository(core.DB.DB), cfg.Storage.UploadMaxBytes)
				removed, err := uploads.RemoveOrphans(ctx, time.Now().Add(-taskCfg.OrphanGrace), taskCfg.OrphanBatch)
				if err != nil {
					return fmt.Errorf("thumbnail cleanup: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d orphaned thumbnails\n", removed)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would be cleaned without changing anything")

	return cmd
}
