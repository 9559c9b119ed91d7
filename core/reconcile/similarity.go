package reconcile

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// placeTerms strips generic venue words before comparing lugar values.
// Longest phrases first so "plaza del ayuntamiento" is removed as a
// whole rather than leaving "del ayuntamiento" behind.
var placeTerms = regexp.MustCompile(`\b(plaza del ayuntamiento|plaza mayor|casco|centro|plaza)\b`)

// Similar reports whether an event and a deletion snapshot describe the
// same logical event. Exact id equality short-circuits true. Otherwise
// five field conditions are evaluated and at least
// cfg.SimilarityThreshold of them must hold: organizers routinely retype
// venue names when re-entering a corrected event, so exact equality is
// too strict. The predicate is symmetric.
func Similar(a, b Event, cfg Config) bool {
	if a.ID != "" && a.ID == b.ID {
		return true
	}

	matches := 0
	if trimmed(a.Orquesta) == trimmed(b.Orquesta) {
		matches++
	}
	if trimmed(a.Municipio) == trimmed(b.Municipio) {
		matches++
	}
	if trimmed(a.Tipo) == trimmed(b.Tipo) {
		matches++
	}
	if horaWithin(a.Hora, b.Hora, cfg.TimeToleranceMinutes) {
		matches++
	}
	if normalizePlace(a.Lugar) == normalizePlace(b.Lugar) {
		matches++
	}

	return matches >= cfg.SimilarityThreshold
}

// WithinReaddWindow reports whether two timestamps lie within the
// configured re-add correlation window (symmetric, absolute difference).
func WithinReaddWindow(t1, t2 time.Time, cfg Config) bool {
	diff := t1.Sub(t2)
	if diff < 0 {
		diff = -diff
	}
	return diff <= time.Duration(cfg.ReaddWindowHours)*time.Hour
}

func trimmed(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// normalizePlace lowercases the venue name, strips generic venue terms
// and collapses the remaining whitespace.
func normalizePlace(place string) string {
	if place == "" {
		return ""
	}
	stripped := placeTerms.ReplaceAllString(strings.ToLower(place), "")
	return strings.Join(strings.Fields(stripped), " ")
}

// horaWithin compares two HH:MM strings as minutes since midnight.
// Malformed values never match and never fail the pass.
func horaWithin(h1, h2 string, toleranceMinutes int) bool {
	m1, ok := timeOfDayMinutes(h1)
	if !ok {
		return false
	}
	m2, ok := timeOfDayMinutes(h2)
	if !ok {
		return false
	}
	diff := m1 - m2
	if diff < 0 {
		diff = -diff
	}
	return diff <= toleranceMinutes
}

func timeOfDayMinutes(s string) (int, bool) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, false
	}
	minutes := 0
	if len(parts) == 2 {
		// A malformed minute component degrades to :00, matching the
		// tolerance of the rest of the pipeline.
		if v, err := strconv.Atoi(strings.TrimSpace(parts[1])); err == nil {
			minutes = v
		}
	}
	return hours*60 + minutes, true
}
