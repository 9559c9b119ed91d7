package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"verbena/core/archive"
	"verbena/core/config"
	"verbena/core/database"
	"verbena/core/loader"
	"verbena/core/logger"
	"verbena/core/middleware/rayid"
	"verbena/core/reconcile"
	"verbena/core/storage"

	"verbena/feature/events"
	"verbena/feature/stats"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "verbena/docs/swagger"
)

// @title Verbena API
// @version 1.0
// @description API for the verbena event schedule tracker.
// @host localhost:8080
// @BasePath /

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the schedule tracker server",
	Long:  `Starts the HTTP server, the snapshot refresh and purge schedules, and loads all enabled features.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
		if err := cfg.Server.Validate(); err != nil {
			log.Fatalf("Invalid schedule configuration: %v", err)
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// 3. Connect to Database (Optional)
		// Without it the service degrades to the archived view.
		var db *gorm.DB
		if conn, err := database.Connect(cfg.Database); err != nil {
			logg.Warn("Optional database connection failed", zap.Error(err))
		} else {
			db = conn
			logg.Info("Connected to event database")
		}

		// 4. Initialize Storage + Archive Cache
		var cache *archive.Cache
		if store, err := storage.NewClient(cfg.Storage); err != nil {
			logg.Warn("Optional storage client failed", zap.Error(err))
		} else {
			cache = archive.NewCache(store, cfg.Storage.Bucket, cfg.Archive)
		}

		// 5. Reconciliation Tracker
		tracker := reconcile.NewTracker(cfg.Reconcile, nil)

		// 6. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We log our own startup message
		})

		// 7. Feature Loader
		mgr := loader.NewManager()
		eventsFeature := events.NewFeature(db, logg, tracker, cache, cfg.Reconcile)
		mgr.Register(eventsFeature)
		mgr.Register(stats.NewFeature(tracker, cache, logg))

		// Middleware Registration
		// RayID first so every request is traceable
		app.Use(rayid.New())

		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// Swagger Documentation
		app.Get("/swagger/*", swagger.HandlerDefault)

		// 8. Load Features
		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 9. Initial snapshots: archive once, live immediately
		svc := eventsFeature.Service()
		go func() {
			if err := svc.LoadArchive(context.Background()); err != nil {
				logg.Warn("Archive load failed", zap.Error(err))
			}
			if err := svc.RefreshSnapshots(context.Background()); err != nil {
				logg.Warn("Initial snapshot refresh failed", zap.Error(err))
			}
		}()

		// 10. Background schedules
		scheduler := cron.New()
		if db != nil {
			_, _ = scheduler.AddFunc(cfg.Server.RefreshSpec, func() {
				if err := svc.RefreshSnapshots(context.Background()); err != nil {
					logg.Warn("Snapshot refresh failed", zap.Error(err))
				}
			})
			_, _ = scheduler.AddFunc(cfg.Server.PurgeSpec, func() {
				purged, err := svc.PurgeExpired(context.Background())
				if err != nil {
					logg.Warn("Deletion purge failed", zap.Error(err))
					return
				}
				if purged > 0 {
					logg.Info("Purged expired deletion records", zap.Int64("count", purged))
				}
			})
		}
		scheduler.Start()
		defer scheduler.Stop()

		// 11. Start Server
		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(":" + cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 12. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
