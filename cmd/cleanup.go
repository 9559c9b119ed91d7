package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"verbena/core/config"
	"verbena/core/database"
	"verbena/core/logger"
	"verbena/feature/events"
	eventmodels "verbena/feature/events/models"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	cleanupDryRun bool
	cleanupYes    bool
)

// cleanupCmd is the parent command for housekeeping operations.
var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Housekeeping for the event database",
}

// cleanupDeletionsCmd purges deletion records past the retention window.
var cleanupDeletionsCmd = &cobra.Command{
	Use:   "deletions",
	Short: "Purge deletion records past the retention window",
	Long: `Deletes deletion-history rows older than the configured retention
window (400 days by default). Records inside the window are kept for
re-add detection.

Examples:
  # Report what would be purged
  cleanup deletions --dry-run

  # Purge with interactive confirmation
  cleanup deletions

  # Purge non-interactively
  cleanup deletions --yes`,
	RunE: runCleanupDeletions,
}

func init() {
	cleanupDeletionsCmd.Flags().BoolVar(&cleanupDryRun, "dry-run", false, "Report only, do not delete anything")
	cleanupDeletionsCmd.Flags().BoolVar(&cleanupYes, "yes", false, "Auto-confirm the purge (non-interactive)")
	cleanupCmd.AddCommand(cleanupDeletionsCmd)
	RootCmd.AddCommand(cleanupCmd)
}

func runCleanupDeletions(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	now := time.Now().UTC()
	cutoff := now.AddDate(0, 0, -cfg.Reconcile.RetentionDays)

	var candidates int64
	if err := db.WithContext(ctx).Model(&eventmodels.DeletionRecord{}).
		Where("deleted_at < ?", cutoff).Count(&candidates).Error; err != nil {
		return fmt.Errorf("failed to count expired deletions: %w", err)
	}

	l.Info("Expired deletion records",
		zap.Int64("count", candidates),
		zap.Time("cutoff", cutoff),
	)

	if candidates == 0 {
		l.Info("Nothing to purge")
		return nil
	}

	if cleanupDryRun {
		l.Info("Dry-run mode: No changes were made.")
		return nil
	}

	if !confirmPurge() {
		l.Warn("Operation cancelled by user. No changes were made.")
		return nil
	}

	purged, err := events.PurgeExpiredDeletions(ctx, db, now, cfg.Reconcile.RetentionDays)
	if err != nil {
		return err
	}

	l.Info("Purged expired deletion records", zap.Int64("count", purged))
	return nil
}

// confirmPurge prompts the user for confirmation or uses the --yes flag.
func confirmPurge() bool {
	if cleanupYes {
		fmt.Println("\n✓ Auto-confirmed via --yes flag")
		return true
	}

	fmt.Print("\n⚠️  Type 'yes' to confirm the purge: ")
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	return strings.TrimSpace(response) == "yes"
}
