package reconcile

import (
	"sort"
	"time"
)

// Reconcile merges the live, deletion and archive snapshots into one
// deduplicated event set and a ranked recent-activity feed. It is a pure
// function over its inputs: running it twice on the same Input yields
// the same Result, and it never fails. Malformed records degrade to
// non-matching instead of aborting the pass.
func Reconcile(in Input, cfg Config) Result {
	currentYear := in.Now.Year()

	admitted := make([]Event, 0, len(in.Live))
	for _, ev := range in.Live {
		if admitLive(ev, currentYear, in.ArchiveHasPreviousYear) {
			admitted = append(admitted, ev)
		}
	}

	merged, order := mergeByID(in.Archive, admitted)

	display := make([]Event, 0, len(order))
	for _, id := range order {
		if ev := merged[id]; !ev.Cancelado {
			display = append(display, ev)
		}
	}

	items := classify(admitted, in.Deletions, cfg)

	// Year floor: the feed is bounded to recent seasons. Unparseable
	// dates fail open and stay in the feed.
	kept := items[:0]
	for _, it := range items {
		if d, ok := ParseDay(it.Event.Day); ok && d.Year() < currentYear-1 {
			continue
		}
		kept = append(kept, it)
	}
	items = kept

	sort.SliceStable(items, func(i, j int) bool {
		return lastTouched(items[i].Event).After(lastTouched(items[j].Event))
	})
	if cfg.ActivityFeedSize > 0 && len(items) > cfg.ActivityFeedSize {
		items = items[:cfg.ActivityFeedSize]
	}

	return Result{Events: display, RecentActivity: items}
}

// admitLive decides whether a live record takes part in the pass.
// Current-or-future years always pass. The previous year is admitted in
// full while no archive covers it, and its December is admitted even
// once archived so the feed does not black out right after rollover.
func admitLive(ev Event, currentYear int, archiveHasPreviousYear bool) bool {
	d, ok := ParseDay(ev.Day)
	if !ok {
		// A record with an unparseable day keeps its id and stays
		// displayable.
		return true
	}
	switch year := d.Year(); {
	case year >= currentYear:
		return true
	case year == currentYear-1 && !archiveHasPreviousYear:
		return true
	case year == currentYear-1 && d.Month() == time.December:
		return true
	}
	return false
}

// mergeByID builds the id-keyed union of the archive and the admitted
// live records. Later sources overwrite earlier ones on id collision, so
// live always wins over archive. First-seen order is preserved to keep
// the output deterministic.
func mergeByID(sources ...[]Event) (map[string]Event, []string) {
	merged := make(map[string]Event)
	order := make([]string, 0)
	for _, src := range sources {
		for _, ev := range src {
			if ev.ID == "" {
				continue
			}
			if _, seen := merged[ev.ID]; !seen {
				order = append(order, ev.ID)
			}
			merged[ev.ID] = ev
		}
	}
	return merged, order
}

// classify turns the admitted live records and the deletion snapshot
// into provisional activity items, correlating adds against deletions to
// detect delete-then-re-add patterns.
func classify(admitted []Event, deletions []Deletion, cfg Config) []ActivityItem {
	consumed := make([]bool, len(deletions))
	items := make([]ActivityItem, 0, len(admitted)+len(deletions))

	for _, ev := range admitted {
		switch {
		case ev.Cancelado:
			items = append(items, ActivityItem{Type: ActivityDelete, Event: ev})
		case ev.ReAgregado:
			// Flagged upstream at write time.
			items = append(items, ActivityItem{Type: ActivityReadd, Event: ev})
		case ev.FechaAgregado.Equal(ev.FechaEditado):
			// Never edited since creation: a provisional add. Search the
			// deletion set for a similar snapshot within the correlation
			// window; first found wins and each deletion is consumed at
			// most once.
			if idx, ok := matchDeletion(ev, deletions, consumed, cfg); ok {
				d := deletions[idx]
				consumed[idx] = true
				ev.ReAgregado = true
				ev.OriginalEventID = d.EventID
				ev.FechaEditado = d.DeletedAt
				ev.CancelTimestamp = d.DeletedAt
				items = append(items, ActivityItem{Type: ActivityReadd, Event: ev})
			} else {
				items = append(items, ActivityItem{Type: ActivityAdd, Event: ev})
			}
		default:
			items = append(items, ActivityItem{Type: ActivityEdit, Event: ev})
		}
	}

	// Deletions nothing re-added against surface as standalone delete
	// entries built from the pre-deletion snapshot.
	for i, d := range deletions {
		if consumed[i] {
			continue
		}
		ev := d.EventData
		if ev.ID == "" {
			ev.ID = d.EventID
		}
		ev.FechaEditado = d.DeletedAt
		ev.CancelTimestamp = d.DeletedAt
		items = append(items, ActivityItem{Type: ActivityDelete, Event: ev})
	}

	return items
}

func matchDeletion(ev Event, deletions []Deletion, consumed []bool, cfg Config) (int, bool) {
	for i, d := range deletions {
		if consumed[i] {
			continue
		}
		if Similar(ev, d.EventData, cfg) && WithinReaddWindow(ev.FechaAgregado, d.DeletedAt, cfg) {
			return i, true
		}
	}
	return 0, false
}
