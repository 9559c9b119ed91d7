package archive

// Config holds configuration for the historical archive objects.
type Config struct {
	// ObjectName is the object key of the aggregated archive JSON.
	ObjectName string `mapstructure:"object_name" default:"archive/events.json"`
	// YearPrefix is the object key prefix for per-year archive files.
	YearPrefix string `mapstructure:"year_prefix" default:"archive/years/"`
}

// DefaultConfig returns the standard object layout. Tests and one-shot
// commands use this instead of going through the config loader.
func DefaultConfig() Config {
	return Config{
		ObjectName: "archive/events.json",
		YearPrefix: "archive/years/",
	}
}
