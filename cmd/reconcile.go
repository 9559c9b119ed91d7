package cmd

import (
	"context"
	"fmt"

	"verbena/core/archive"
	"verbena/core/config"
	"verbena/core/database"
	"verbena/core/logger"
	"verbena/core/reconcile"
	"verbena/core/storage"
	"verbena/feature/events"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// reconcileCmd performs a one-shot reconciliation pass and reports the
// merged view and activity feed.
var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Run one reconciliation pass and print a report",
	Long: `Runs the reconciliation engine once over the current database and
archive contents and reports the merged event set and the
recent-activity feed. Useful to inspect re-add detection without
starting the server.`,
	RunE: runReconcile,
}

func init() {
	RootCmd.AddCommand(reconcileCmd)
}

func runReconcile(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	l.Info("Starting reconciliation pass")

	db, err := database.Connect(cfg.Database)
	if err != nil {
		l.Warn("Database unavailable, reconciling archive only", zap.Error(err))
		db = nil
	}

	var cache *archive.Cache
	if store, err := storage.NewClient(cfg.Storage); err != nil {
		l.Warn("Storage unavailable, reconciling live data only", zap.Error(err))
	} else {
		cache = archive.NewCache(store, cfg.Storage.Bucket, cfg.Archive)
	}

	tracker := reconcile.NewTracker(cfg.Reconcile, nil)
	svc := events.NewService(db, l, tracker, cache, cfg.Reconcile)

	if err := svc.LoadArchive(ctx); err != nil {
		l.Warn("Archive load failed", zap.Error(err))
	}
	if err := svc.RefreshSnapshots(ctx); err != nil {
		return fmt.Errorf("failed to load live snapshots: %w", err)
	}

	result, _ := tracker.Snapshot()
	printReconcileReport(l, result)
	return nil
}

// printReconcileReport prints a formatted reconciliation report using logger.
func printReconcileReport(l *zap.Logger, result reconcile.Result) {
	counts := map[reconcile.ActivityType]int{}
	for _, it := range result.RecentActivity {
		counts[it.Type]++
	}

	l.Info("Reconciliation report",
		zap.Int("events", len(result.Events)),
		zap.Int("feed_items", len(result.RecentActivity)),
		zap.Int("adds", counts[reconcile.ActivityAdd]),
		zap.Int("edits", counts[reconcile.ActivityEdit]),
		zap.Int("deletes", counts[reconcile.ActivityDelete]),
		zap.Int("readds", counts[reconcile.ActivityReadd]),
	)

	for _, it := range result.RecentActivity {
		l.Info("Activity",
			zap.String("type", string(it.Type)),
			zap.String("id", it.Event.ID),
			zap.String("day", it.Event.Day),
			zap.String("municipio", it.Event.Municipio),
			zap.String("orquesta", it.Event.Orquesta),
		)
	}
}
