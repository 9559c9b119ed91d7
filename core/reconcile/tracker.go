package reconcile

import (
	"sync"
	"time"
)

// Tracker is the dual-stream reducer around the engine. It holds the
// latest snapshots of the live event stream, the deletion stream and the
// archive, and recomputes the reconciled result whenever any of them is
// replaced. A recomputation triggered by one stream always uses the most
// recently received snapshot of the other.
//
// All updates and the match-and-remove step inside the pass run under
// one mutex, so two overlapping recomputations can never both claim the
// same deletion.
type Tracker struct {
	mu  sync.Mutex
	cfg Config
	now func() time.Time

	live               []Event
	deletions          []Deletion
	archive            []Event
	archiveHasPrevYear bool

	ready  bool
	result Result
}

// NewTracker creates a tracker. now may be nil, in which case wall-clock
// time is used; tests inject a fixed clock.
func NewTracker(cfg Config, now func() time.Time) *Tracker {
	if now == nil {
		now = time.Now
	}
	return &Tracker{cfg: cfg, now: now, result: Result{
		Events:         []Event{},
		RecentActivity: []ActivityItem{},
	}}
}

// SetEvents replaces the live event snapshot and recomputes.
func (t *Tracker) SetEvents(live []Event) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.live = append([]Event(nil), live...)
	t.recompute()
	t.ready = true
}

// SetDeletions replaces the deletion snapshot and recomputes.
func (t *Tracker) SetDeletions(deletions []Deletion) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.deletions = append([]Deletion(nil), deletions...)
	t.recompute()
	t.ready = true
}

// SetArchive installs the archive snapshot. The archive loads at most
// once per process, but installing it still recomputes so an
// archive-only view is served while the live streams are still
// connecting. It does not end the loading state on its own.
func (t *Tracker) SetArchive(events []Event, hasPreviousYear bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.archive = append([]Event(nil), events...)
	t.archiveHasPrevYear = hasPreviousYear
	t.recompute()
}

// Snapshot returns the latest reconciled result and whether the tracker
// is still loading (no live stream snapshot processed yet). The returned
// slices are replaced atomically on every pass and never mutated.
func (t *Tracker) Snapshot() (Result, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.result, !t.ready
}

func (t *Tracker) recompute() {
	t.result = Reconcile(Input{
		Now:                    t.now(),
		Live:                   t.live,
		Deletions:              t.deletions,
		Archive:                t.archive,
		ArchiveHasPreviousYear: t.archiveHasPrevYear,
	}, t.cfg)
}
