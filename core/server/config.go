package server

import "github.com/robfig/cron/v3"

// Config holds configuration for the HTTP server and its background
// schedules.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// RefreshSpec is the cron spec for reloading the live event and
	// deletion snapshots from the database.
	RefreshSpec string `mapstructure:"refresh_spec" default:"@every 1m"`
	// PurgeSpec is the cron spec for purging expired deletion records.
	PurgeSpec string `mapstructure:"purge_spec" default:"@daily"`
}

// Validate checks that the configured cron specs parse.
func (c Config) Validate() error {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	if _, err := parser.Parse(c.RefreshSpec); err != nil {
		return err
	}
	_, err := parser.Parse(c.PurgeSpec)
	return err
}
