package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"verbena/core/archive"
	"verbena/core/config"
	"verbena/core/database"
	"verbena/core/logger"
	"verbena/core/reconcile"
	"verbena/core/storage"
	eventmodels "verbena/feature/events/models"
	"verbena/feature/stats"

	"github.com/minio/minio-go/v7"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var forceArchive bool

// archiveCmd is the parent command for archive operations.
var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Manage the historical event archive",
}

// archiveGenerateCmd aggregates past years from the live database and
// uploads the archive objects.
var archiveGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the historical archive from the live database",
	Long: `Aggregates all non-cancelled events from years before the current one
into the archive snapshot and uploads it to object storage, together
with a standalone file for the previous year.

When the previous year is already archived the command is a no-op
unless --force is given.`,
	RunE: runArchiveGenerate,
}

func init() {
	archiveGenerateCmd.Flags().BoolVar(&forceArchive, "force", false, "Regenerate even if the previous year is already archived")
	archiveCmd.AddCommand(archiveGenerateCmd)
	RootCmd.AddCommand(archiveCmd)
}

func runArchiveGenerate(cmd *cobra.Command, args []string) error {
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

	store, err := storage.NewClient(cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to connect to storage: %w", err)
	}

	currentYear := time.Now().Year()
	prevYear := currentYear - 1

	// Skip when the previous year is already covered
	cache := archive.NewCache(store, cfg.Storage.Bucket, cfg.Archive)
	existing, err := cache.Load(ctx)
	if err != nil {
		l.Warn("Could not read existing archive, regenerating", zap.Error(err))
	} else if existing.HasYear(prevYear) && !forceArchive {
		l.Info("Previous year already archived, nothing to do", zap.Int("year", prevYear))
		return nil
	}

	var evRecs []eventmodels.EventRecord
	if err := db.WithContext(ctx).Find(&evRecs).Error; err != nil {
		return fmt.Errorf("failed to load events: %w", err)
	}
	all := make([]reconcile.Event, 0, len(evRecs))
	for _, r := range evRecs {
		all = append(all, r.ToEvent())
	}

	snap := stats.AggregateHistorical(all, currentYear)
	l.Info("Aggregated historical archive",
		zap.Int("events", len(snap.Events)),
		zap.Int("years", len(snap.Years)),
	)

	if err := ensureBucket(ctx, store, cfg.Storage.Bucket, cfg.Storage.Region); err != nil {
		return err
	}

	if err := putJSON(ctx, store, cfg.Storage.Bucket, cfg.Archive.ObjectName, snap); err != nil {
		return err
	}

	// Standalone previous-year file for the rollover overlap window
	prevEvents := make([]reconcile.Event, 0)
	for _, ev := range snap.Events {
		if d, ok := reconcile.ParseDay(ev.Day); ok && d.Year() == prevYear {
			prevEvents = append(prevEvents, ev)
		}
	}
	yearObject := cfg.Archive.YearPrefix + strconv.Itoa(prevYear) + ".json"
	if err := putJSON(ctx, store, cfg.Storage.Bucket, yearObject, archive.YearArchive{Year: prevYear, Events: prevEvents}); err != nil {
		return err
	}

	l.Info("Archive uploaded",
		zap.String("object", cfg.Archive.ObjectName),
		zap.String("year_object", yearObject),
	)
	return nil
}

func ensureBucket(ctx context.Context, store storage.Client, bucket, region string) error {
	exists, err := store.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket: %w", err)
	}
	if exists {
		return nil
	}
	if err := store.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: region}); err != nil {
		return fmt.Errorf("failed to create bucket: %w", err)
	}
	return nil
}

func putJSON(ctx context.Context, store storage.Client, bucket, objectName string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", objectName, err)
	}
	_, err = store.PutObject(ctx, bucket, objectName, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", objectName, err)
	}
	return nil
}
