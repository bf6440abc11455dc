package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scoutops/mbc-pipeline/internal/config"
	"github.com/scoutops/mbc-pipeline/internal/drive"
	"github.com/scoutops/mbc-pipeline/internal/logger"
	"github.com/scoutops/mbc-pipeline/internal/storage"
)

var flagDryRun bool

func newSyncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Upload the newest report directory to Google Drive",
		Long: `Finds the newest report run, strips run timestamps from file names so
website links stay stable, and uploads to the configured Drive folder,
replacing the previous run's files.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, store, err := setup()
			if err != nil {
				return err
			}
			return stageSync(cmd.Context(), cfg, store, flagDryRun)
		},
	}
	cmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Print the upload plan without uploading")
	return cmd
}

func stageSync(ctx context.Context, cfg *config.Config, store *storage.Store, dryRun bool) error {
	plan, err := drive.BuildPlan(store.ReportsDir())
	if err != nil {
		return fmt.Errorf("building upload plan: %w", err)
	}

	var uploader drive.Uploader
	if dryRun {
		uploader = drive.NewDryRunUploader()
	} else {
		if cfg.DriveFolderID == "" || cfg.DriveCredentials == "" {
			return fmt.Errorf("drive sync needs drive_folder_id and drive_credentials configured")
		}
		uploader, err = drive.NewDriveUploader(ctx, cfg.DriveCredentials, cfg.DriveFolderID, plan.RemoteFolder())
		if err != nil {
			return fmt.Errorf("initializing Drive uploader: %w", err)
		}
	}

	if err := uploader.Upload(ctx, plan); err != nil {
		return fmt.Errorf("uploading reports: %w", err)
	}

	logger.Info("report sync complete", logger.Fields{
		"dir":     plan.Dir,
		"files":   len(plan.Files),
		"dry_run": dryRun,
	})
	return nil
}
