package reconcile

// Config holds the tuned constants of the reconciliation engine. The
// default values are empirically chosen and load-bearing: tightening the
// similarity threshold silently breaks re-add detection, loosening it
// causes false merges of distinct coincidental events.
type Config struct {
	// SimilarityThreshold is the minimum number of field conditions (out
	// of five) that must hold for two events to be considered the same
	// logical event.
	SimilarityThreshold int `mapstructure:"similarity_threshold" default:"4"`

	// TimeToleranceMinutes is the allowed difference between two event
	// times when comparing the hora field.
	TimeToleranceMinutes int `mapstructure:"time_tolerance_minutes" default:"15"`

	// ReaddWindowHours is the window around a deletion within which a new
	// event can be correlated as a re-add.
	ReaddWindowHours int `mapstructure:"readd_window_hours" default:"12"`

	// RetentionDays is how long deletion records are kept before the
	// housekeeping purge removes them.
	RetentionDays int `mapstructure:"retention_days" default:"400"`

	// ActivityFeedSize caps the recent-activity feed.
	ActivityFeedSize int `mapstructure:"activity_feed_size" default:"5"`
}

// DefaultConfig returns the engine defaults. Tests and one-shot commands
// use this instead of going through the config loader.
func DefaultConfig() Config {
	return Config{
		SimilarityThreshold:  4,
		TimeToleranceMinutes: 15,
		ReaddWindowHours:     12,
		RetentionDays:        400,
		ActivityFeedSize:     5,
	}
}
