package reconcile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var testNow = time.Date(2025, time.July, 10, 12, 0, 0, 0, time.UTC)

func liveEvent(id string, created time.Time) Event {
	return Event{
		ID:            id,
		Day:           "2025-07-19",
		Hora:          "21:00",
		Tipo:          "verbena",
		Municipio:     "La Laguna",
		Lugar:         "Plaza del Cristo",
		Orquesta:      "Los Melodicos",
		FechaAgregado: created,
		FechaEditado:  created,
	}
}

func deletionOf(ev Event, at time.Time) Deletion {
	snapshot := ev
	snapshot.Cancelado = false
	return Deletion{
		EventID:   ev.ID,
		DeletedBy: "admin",
		DeletedAt: at,
		EventData: snapshot,
	}
}

// A deleted event re-entered under a new id with a reworded venue is collapsed
// into a single re-add entry instead of a delete plus an add.
func TestReconcileDetectsReadd(t *testing.T) {
	deletedAt := testNow.Add(-2 * time.Hour)

	old := liveEvent("ev-1", testNow.Add(-48*time.Hour))
	old.Lugar = "Plaza del Ayuntamiento"

	readded := liveEvent("ev-2", testNow.Add(-1*time.Hour))
	readded.Lugar = "Ayuntamiento"

	res := Reconcile(Input{
		Now:       testNow,
		Live:      []Event{readded},
		Deletions: []Deletion{deletionOf(old, deletedAt)},
	}, DefaultConfig())

	assert.Len(t, res.RecentActivity, 1)
	item := res.RecentActivity[0]
	assert.Equal(t, ActivityReadd, item.Type)
	assert.Equal(t, "ev-2", item.Event.ID)
	assert.Equal(t, "ev-1", item.Event.OriginalEventID)
	assert.True(t, item.Event.ReAgregado)
	assert.True(t, item.Event.FechaEditado.Equal(deletedAt))
	assert.True(t, item.Event.CancelTimestamp.Equal(deletedAt))
}

// A similar re-entry outside the correlation window is a plain add, and the
// unmatched deletion surfaces on its own.
func TestReconcileReaddWindowExpired(t *testing.T) {
	deletedAt := testNow.Add(-20 * time.Hour)

	old := liveEvent("ev-1", testNow.Add(-72*time.Hour))
	readded := liveEvent("ev-2", testNow.Add(-1*time.Hour))

	res := Reconcile(Input{
		Now:       testNow,
		Live:      []Event{readded},
		Deletions: []Deletion{deletionOf(old, deletedAt)},
	}, DefaultConfig())

	assert.Len(t, res.RecentActivity, 2)
	assert.Equal(t, ActivityAdd, res.RecentActivity[0].Type)
	assert.Equal(t, "ev-2", res.RecentActivity[0].Event.ID)
	assert.Equal(t, ActivityDelete, res.RecentActivity[1].Type)
	assert.Equal(t, "ev-1", res.RecentActivity[1].Event.ID)
}

// Two adds competing for one deletion: only the first candidate consumes it,
// the other stays a plain add.
func TestReconcileDeletionConsumedAtMostOnce(t *testing.T) {
	deletedAt := testNow.Add(-2 * time.Hour)
	old := liveEvent("ev-1", testNow.Add(-48*time.Hour))

	first := liveEvent("ev-2", testNow.Add(-90*time.Minute))
	second := liveEvent("ev-3", testNow.Add(-30*time.Minute))

	res := Reconcile(Input{
		Now:       testNow,
		Live:      []Event{first, second},
		Deletions: []Deletion{deletionOf(old, deletedAt)},
	}, DefaultConfig())

	readds := 0
	adds := 0
	for _, it := range res.RecentActivity {
		switch it.Type {
		case ActivityReadd:
			readds++
			assert.Equal(t, "ev-2", it.Event.ID)
		case ActivityAdd:
			adds++
			assert.Equal(t, "ev-3", it.Event.ID)
		}
	}
	assert.Equal(t, 1, readds)
	assert.Equal(t, 1, adds)
}

// An event edited since creation classifies as an edit and is never matched
// against the deletion set.
func TestReconcileEditNeverCorrelates(t *testing.T) {
	deletedAt := testNow.Add(-2 * time.Hour)
	old := liveEvent("ev-1", testNow.Add(-48*time.Hour))

	edited := liveEvent("ev-2", testNow.Add(-24*time.Hour))
	edited.FechaEditado = testNow.Add(-1 * time.Hour)

	res := Reconcile(Input{
		Now:       testNow,
		Live:      []Event{edited},
		Deletions: []Deletion{deletionOf(old, deletedAt)},
	}, DefaultConfig())

	assert.Len(t, res.RecentActivity, 2)
	assert.Equal(t, ActivityEdit, res.RecentActivity[0].Type)
	assert.Equal(t, ActivityDelete, res.RecentActivity[1].Type)
}

// Cancelled records classify as deletes and are excluded from the display set.
func TestReconcileCancelledExcludedFromDisplay(t *testing.T) {
	cancelled := liveEvent("ev-1", testNow.Add(-48*time.Hour))
	cancelled.Cancelado = true
	cancelled.FechaEditado = testNow.Add(-1 * time.Hour)

	alive := liveEvent("ev-2", testNow.Add(-24*time.Hour))

	res := Reconcile(Input{
		Now:  testNow,
		Live: []Event{cancelled, alive},
	}, DefaultConfig())

	assert.Len(t, res.Events, 1)
	assert.Equal(t, "ev-2", res.Events[0].ID)

	types := map[string]ActivityType{}
	for _, it := range res.RecentActivity {
		types[it.Event.ID] = it.Type
	}
	assert.Equal(t, ActivityDelete, types["ev-1"])
	assert.Equal(t, ActivityAdd, types["ev-2"])
}

// Live records win over the archive on id collision, and archive-only records
// survive the merge.
func TestReconcileMergeLiveWinsOverArchive(t *testing.T) {
	archived := liveEvent("ev-1", testNow.Add(-400*24*time.Hour))
	archived.Day = "2024-08-15"
	archived.Orquesta = "Version Vieja"

	updated := liveEvent("ev-1", testNow.Add(-1*time.Hour))
	updated.Orquesta = "Version Nueva"

	onlyArchived := liveEvent("ev-9", testNow.Add(-400*24*time.Hour))
	onlyArchived.Day = "2024-08-16"

	res := Reconcile(Input{
		Now:                    testNow,
		Live:                   []Event{updated},
		Archive:                []Event{archived, onlyArchived},
		ArchiveHasPreviousYear: true,
	}, DefaultConfig())

	assert.Len(t, res.Events, 2)
	byID := map[string]Event{}
	for _, ev := range res.Events {
		byID[ev.ID] = ev
	}
	assert.Equal(t, "Version Nueva", byID["ev-1"].Orquesta)
	assert.Equal(t, "2024-08-16", byID["ev-9"].Day)
}

// Previous-year live records are admitted only while the archive does not
// cover that year, except December which always stays.
func TestReconcilePreviousYearWindowing(t *testing.T) {
	prevSummer := liveEvent("ev-1", testNow.Add(-340*24*time.Hour))
	prevSummer.Day = "2024-08-15"
	prevDecember := liveEvent("ev-2", testNow.Add(-200*24*time.Hour))
	prevDecember.Day = "2024-12-28"
	ancient := liveEvent("ev-3", testNow.Add(-700*24*time.Hour))
	ancient.Day = "2023-08-15"

	tests := []struct {
		name        string
		hasPrevYear bool
		wantIDs     []string
	}{
		{"no archive for previous year", false, []string{"ev-1", "ev-2"}},
		{"archive covers previous year", true, []string{"ev-2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Reconcile(Input{
				Now:                    testNow,
				Live:                   []Event{prevSummer, prevDecember, ancient},
				ArchiveHasPreviousYear: tt.hasPrevYear,
			}, DefaultConfig())

			ids := make([]string, 0, len(res.Events))
			for _, ev := range res.Events {
				ids = append(ids, ev.ID)
			}
			assert.ElementsMatch(t, tt.wantIDs, ids)
		})
	}
}

// A record with an unparseable day is admitted and kept in the feed.
func TestReconcileMalformedDayFailsOpen(t *testing.T) {
	broken := liveEvent("ev-1", testNow.Add(-1*time.Hour))
	broken.Day = "proximamente"

	res := Reconcile(Input{Now: testNow, Live: []Event{broken}}, DefaultConfig())

	assert.Len(t, res.Events, 1)
	assert.Len(t, res.RecentActivity, 1)
	assert.Equal(t, ActivityAdd, res.RecentActivity[0].Type)
}

// Feed entries older than the previous calendar year are dropped.
func TestReconcileYearFloor(t *testing.T) {
	ancient := liveEvent("ev-1", testNow.Add(-1*time.Hour))
	ancient.Day = "2022-08-15"

	res := Reconcile(Input{Now: testNow, Archive: []Event{ancient}, Live: []Event{}, Deletions: []Deletion{
		deletionOf(ancient, testNow.Add(-2*time.Hour)),
	}}, DefaultConfig())

	assert.Empty(t, res.RecentActivity)
}

// The feed is sorted newest first and capped at the configured size.
func TestReconcileFeedOrderAndCap(t *testing.T) {
	live := make([]Event, 0, 8)
	for i := 0; i < 8; i++ {
		ev := liveEvent(string(rune('a'+i)), testNow.Add(-time.Duration(i+1)*time.Hour))
		live = append(live, ev)
	}

	res := Reconcile(Input{Now: testNow, Live: live}, DefaultConfig())

	assert.Len(t, res.RecentActivity, 5)
	for i := 0; i < len(res.RecentActivity)-1; i++ {
		a := lastTouched(res.RecentActivity[i].Event)
		b := lastTouched(res.RecentActivity[i+1].Event)
		assert.False(t, a.Before(b))
	}
	assert.Equal(t, "a", res.RecentActivity[0].Event.ID)
}

// One id appears at most once in the display set.
func TestReconcileDisplaySetUniqueIDs(t *testing.T) {
	a := liveEvent("ev-1", testNow.Add(-3*time.Hour))
	b := liveEvent("ev-1", testNow.Add(-1*time.Hour))
	b.Orquesta = "Ultima Version"

	res := Reconcile(Input{Now: testNow, Live: []Event{a, b}}, DefaultConfig())

	assert.Len(t, res.Events, 1)
	assert.Equal(t, "Ultima Version", res.Events[0].Orquesta)
}

// Running the same pass twice yields identical results.
func TestReconcileIdempotent(t *testing.T) {
	old := liveEvent("ev-1", testNow.Add(-48*time.Hour))
	in := Input{
		Now:       testNow,
		Live:      []Event{liveEvent("ev-2", testNow.Add(-1 * time.Hour))},
		Deletions: []Deletion{deletionOf(old, testNow.Add(-2 * time.Hour))},
		Archive:   []Event{liveEvent("ev-0", testNow.Add(-300 * 24 * time.Hour))},
	}
	cfg := DefaultConfig()

	first := Reconcile(in, cfg)
	second := Reconcile(in, cfg)

	assert.Equal(t, first, second)
}

// Unmatched deletions with an empty snapshot still carry the deleted id.
func TestReconcileDeletionSnapshotIDFallback(t *testing.T) {
	d := Deletion{
		EventID:   "ev-gone",
		DeletedBy: "admin",
		DeletedAt: testNow.Add(-1 * time.Hour),
		EventData: Event{Day: "2025-07-19", Municipio: "Adeje"},
	}

	res := Reconcile(Input{Now: testNow, Deletions: []Deletion{d}}, DefaultConfig())

	assert.Len(t, res.RecentActivity, 1)
	assert.Equal(t, ActivityDelete, res.RecentActivity[0].Type)
	assert.Equal(t, "ev-gone", res.RecentActivity[0].Event.ID)
	assert.True(t, res.RecentActivity[0].Event.FechaEditado.Equal(d.DeletedAt))
}
