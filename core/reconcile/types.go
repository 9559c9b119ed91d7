package reconcile

import "time"

// Event represents one scheduled performance.
// JSON field names mirror the stored document format so that archive
// objects and API payloads stay interchangeable.
type Event struct {
	// ID is the unique identifier. It is stable across edits and only
	// changes on a true delete followed by a re-creation.
	ID string `json:"id"`

	// Day is the calendar date of the performance (YYYY-MM-DD, free text
	// from data entry, may be malformed).
	Day string `json:"day"`

	// Hora is the time of day (HH:MM, free text, may be malformed).
	Hora string `json:"hora"`

	// Tipo is the category tag (baile, verbena, concierto...).
	Tipo string `json:"tipo"`

	// Municipio is the locality. Required.
	Municipio string `json:"municipio"`

	// Lugar is the optional venue name.
	Lugar string `json:"lugar,omitempty"`

	// Orquesta is a comma-separated list of performer names. The value
	// "DJ" is a sentinel meaning no named performer.
	Orquesta string `json:"orquesta"`

	// Cancelado is the soft-delete flag.
	Cancelado bool `json:"cancelado,omitempty"`

	// FechaAgregado is the creation timestamp, set once.
	FechaAgregado time.Time `json:"FechaAgregado"`

	// FechaEditado is the last-modification timestamp, updated on every
	// write including cancellation.
	FechaEditado time.Time `json:"FechaEditado"`

	// ReAgregado marks a record as a detected re-creation of a deleted
	// event.
	ReAgregado bool `json:"reAgregado,omitempty"`

	// OriginalEventID is a lookup key into the deletion history: the id
	// of the deletion this record was matched against. It is never
	// dereferenced implicitly.
	OriginalEventID string `json:"originalEventId,omitempty"`

	// CancelTimestamp is a copy of the matched deletion's timestamp.
	CancelTimestamp time.Time `json:"cancelTimestamp,omitempty"`
}

// Deletion represents a cancellation/removal record. It has its own
// lifecycle independent from the event it references: written exactly
// once at cancellation time, never mutated, purged after the retention
// window.
type Deletion struct {
	// EventID is the id of the event at time of deletion.
	EventID string `json:"eventId"`

	// DeletedBy is the actor that performed the cancellation.
	DeletedBy string `json:"deletedBy"`

	// DeletedAt is the cancellation timestamp.
	DeletedAt time.Time `json:"deletedAt"`

	// EventData is the full snapshot of the event as it was immediately
	// before deletion, with Cancelado forced false.
	EventData Event `json:"eventData"`
}

// ActivityType classifies one observed change.
type ActivityType string

const (
	// ActivityAdd is a genuine new event.
	ActivityAdd ActivityType = "add"
	// ActivityEdit is a modification of an existing event.
	ActivityEdit ActivityType = "edit"
	// ActivityDelete is a cancellation.
	ActivityDelete ActivityType = "delete"
	// ActivityReadd is a detected delete-then-re-create pattern,
	// collapsed into a single logical edit.
	ActivityReadd ActivityType = "reagregado"
)

// ActivityItem is one entry of the recent-activity feed. The feed is
// recomputed from scratch on every pass and replaced atomically.
type ActivityItem struct {
	Type  ActivityType `json:"type"`
	Event Event        `json:"event"`
}

// Input carries the three externally-supplied snapshots for one
// reconciliation pass. Now is injected so that year windowing stays
// testable.
type Input struct {
	Now time.Time

	// Live is the full current snapshot of the live event collection,
	// not a diff.
	Live []Event

	// Deletions is the snapshot of the deletion collection, already
	// filtered by the retention window and the previous-calendar-year
	// relevance cutoff.
	Deletions []Deletion

	// Archive is the static prior-year event list, trusted and never
	// re-matched against deletions.
	Archive []Event

	// ArchiveHasPreviousYear reports whether the archive covers the
	// previous calendar year. When false the engine admits the full
	// previous year from the live collection to avoid a blackout right
	// after year rollover.
	ArchiveHasPreviousYear bool
}

// Result is the output of one reconciliation pass.
type Result struct {
	// Events is the deduplicated display set: one entry per id,
	// cancelled events excluded.
	Events []Event `json:"events"`

	// RecentActivity is the ranked feed, newest first, capped at the
	// configured size.
	RecentActivity []ActivityItem `json:"recentActivity"`
}

// lastTouched returns the later of the edit and creation timestamps,
// falling back to the zero time when both are absent.
func lastTouched(e Event) time.Time {
	if e.FechaEditado.After(e.FechaAgregado) {
		return e.FechaEditado
	}
	return e.FechaAgregado
}

// ParseDay parses the free-text Day field. The second return value is
// false for malformed dates; callers must treat that as "unknown", not
// as an error.
func ParseDay(day string) (time.Time, bool) {
	day = trimmed(day)
	if day == "" {
		return time.Time{}, false
	}
	if d, err := time.Parse("2006-01-02", day); err == nil {
		return d, true
	}
	if d, err := time.Parse(time.RFC3339, day); err == nil {
		return d, true
	}
	return time.Time{}, false
}
