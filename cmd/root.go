package cmd

import (
	"fmt"
	"os"

	"verbena/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "verbena",
	Short: "Verbena Schedule Tracker",
	Long: `Verbena tracks the community event schedule: it reconciles the live
event and deletion collections with the historical archive, detects
delete-then-re-add patterns, and serves the merged view over HTTP.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Console format with debug level so a CLI user gets readable
		// ISO8601 timestamps instead of production epoch encoding
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			// Absolute fallback if logger creation fails (rare)
			fmt.Println(err)
		}
		os.Exit(1)
	}
}
