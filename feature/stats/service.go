package stats

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"verbena/core/archive"
	"verbena/core/reconcile"

	"go.uber.org/zap"
)

// monthNames maps time.Month to the Spanish names used by the archive
// format.
var monthNames = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

// Service aggregates performer and event statistics over the reconciled
// view and the historical archive.
type Service struct {
	tracker *reconcile.Tracker
	archive *archive.Cache
	logger  *zap.Logger
}

// NewService creates a new stats service.
func NewService(tracker *reconcile.Tracker, cache *archive.Cache, logger *zap.Logger) *Service {
	return &Service{tracker: tracker, archive: cache, logger: logger}
}

// Overview is the combined stats payload.
type Overview struct {
	// Current aggregates the reconciled display set.
	Current archive.YearStats `json:"current"`
	// Years holds the archived per-year statistics.
	Years map[string]archive.YearStats `json:"years"`
}

// Overview returns current and historical statistics.
func (s *Service) Overview(ctx context.Context) (Overview, error) {
	result, _ := s.tracker.Snapshot()
	ov := Overview{
		Current: Aggregate(result.Events),
		Years:   map[string]archive.YearStats{},
	}

	if s.archive != nil {
		snap, err := s.archive.Load(ctx)
		if err != nil {
			return ov, fmt.Errorf("failed to load historical stats: %w", err)
		}
		ov.Years = snap.Years
	}

	return ov, nil
}

// OrquestaCounts counts performer appearances over the reconciled
// display set.
func (s *Service) OrquestaCounts() map[string]int {
	result, _ := s.tracker.Snapshot()
	return Aggregate(result.Events).OrquestaCount
}

// SplitOrquestas splits a comma-separated performer list, trimming
// entries and dropping the "DJ" sentinel, which marks an event without a
// named performer and must never appear in performer aggregations.
func SplitOrquestas(orquesta string) []string {
	parts := strings.Split(orquesta, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" || p == "DJ" {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Aggregate builds YearStats over a set of events. Events with an
// unparseable day are skipped: without a month bucket there is nothing
// to count them into.
func Aggregate(events []reconcile.Event) archive.YearStats {
	stats := archive.YearStats{
		OrquestaCount:        map[string]int{},
		MonthlyOrquestaCount: map[string]map[string]int{},
		MonthlyEventCount:    map[string]int{},
	}

	for _, ev := range events {
		d, ok := reconcile.ParseDay(ev.Day)
		if !ok {
			continue
		}
		month := monthNames[d.Month()-1]
		stats.MonthlyEventCount[month]++

		for _, orq := range SplitOrquestas(ev.Orquesta) {
			stats.OrquestaCount[orq]++
			if stats.MonthlyOrquestaCount[month] == nil {
				stats.MonthlyOrquestaCount[month] = map[string]int{}
			}
			stats.MonthlyOrquestaCount[month][orq]++
		}
	}

	return stats
}

// AggregateHistorical builds the archive snapshot payload from the full
// event list: non-cancelled events with a parseable day before
// cutoffYear, grouped per year. This is the aggregation the `archive
// generate` command uploads.
func AggregateHistorical(events []reconcile.Event, cutoffYear int) *archive.Snapshot {
	snap := &archive.Snapshot{Years: map[string]archive.YearStats{}}

	perYear := map[string][]reconcile.Event{}
	for _, ev := range events {
		if ev.Cancelado {
			continue
		}
		d, ok := reconcile.ParseDay(ev.Day)
		if !ok || d.Year() >= cutoffYear {
			continue
		}
		year := strconv.Itoa(d.Year())
		perYear[year] = append(perYear[year], ev)
		snap.Events = append(snap.Events, ev)
	}

	for year, evs := range perYear {
		snap.Years[year] = Aggregate(evs)
	}

	return snap
}
