package archive

import (
	"strconv"

	"verbena/core/reconcile"
)

// YearStats aggregates one archived year. Month keys are Spanish month
// names, matching the stored archive format.
type YearStats struct {
	// OrquestaCount counts appearances per performer, DJ sentinel
	// excluded.
	OrquestaCount map[string]int `json:"orquestaCount"`
	// MonthlyOrquestaCount counts appearances per performer per month.
	MonthlyOrquestaCount map[string]map[string]int `json:"monthlyOrquestaCount"`
	// MonthlyEventCount counts events per month.
	MonthlyEventCount map[string]int `json:"monthlyEventCount"`
}

// Snapshot is the aggregated archive object: per-year statistics plus
// the full list of archived events for detailed analysis. It is treated
// as append-only and trusted; archived events are never re-matched
// against deletions.
type Snapshot struct {
	Years  map[string]YearStats `json:"years"`
	Events []reconcile.Event    `json:"events"`
}

// HasYear reports whether the snapshot covers the given year. The
// reconciliation engine widens its live-data window when the previous
// year is not covered.
func (s *Snapshot) HasYear(year int) bool {
	if s == nil {
		return false
	}
	_, ok := s.Years[strconv.Itoa(year)]
	return ok
}

// YearArchive is a per-year archive object.
type YearArchive struct {
	Year   int               `json:"year"`
	Events []reconcile.Event `json:"events"`
}
