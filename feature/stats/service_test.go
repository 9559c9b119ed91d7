package stats

import (
	"context"
	"testing"
	"time"

	"verbena/core/reconcile"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// The DJ sentinel and empty entries never reach performer aggregations.
func TestSplitOrquestas(t *testing.T) {
	tests := []struct {
		name     string
		orquesta string
		want     []string
	}{
		{"single performer", "Los Melodicos", []string{"Los Melodicos"}},
		{"comma separated", "Los Melodicos, Banda Sonora", []string{"Los Melodicos", "Banda Sonora"}},
		{"dj sentinel dropped", "DJ", []string{}},
		{"dj among performers", "Los Melodicos, DJ", []string{"Los Melodicos"}},
		{"dj prefix kept", "DJ Paco", []string{"DJ Paco"}},
		{"empty entries dropped", "Los Melodicos, , ", []string{"Los Melodicos"}},
		{"empty string", "", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitOrquestas(tt.orquesta))
		})
	}
}

// Aggregate buckets events by Spanish month name and counts performers.
func TestAggregate(t *testing.T) {
	events := []reconcile.Event{
		{Day: "2025-07-19", Orquesta: "Los Melodicos, Banda Sonora"},
		{Day: "2025-07-26", Orquesta: "Los Melodicos"},
		{Day: "2025-08-02", Orquesta: "DJ"},
		{Day: "sin fecha", Orquesta: "Fantasma"},
	}

	stats := Aggregate(events)

	assert.Equal(t, 2, stats.MonthlyEventCount["julio"])
	assert.Equal(t, 1, stats.MonthlyEventCount["agosto"])
	assert.Equal(t, 2, stats.OrquestaCount["Los Melodicos"])
	assert.Equal(t, 1, stats.OrquestaCount["Banda Sonora"])
	assert.NotContains(t, stats.OrquestaCount, "DJ")
	assert.NotContains(t, stats.OrquestaCount, "Fantasma")
	assert.Equal(t, 2, stats.MonthlyOrquestaCount["julio"]["Los Melodicos"])
}

// Historical aggregation groups per year, skipping cancelled events and
// anything at or past the cutoff year.
func TestAggregateHistorical(t *testing.T) {
	events := []reconcile.Event{
		{ID: "ev-1", Day: "2024-08-15", Orquesta: "Los Melodicos"},
		{ID: "ev-2", Day: "2023-07-19", Orquesta: "Banda Sonora"},
		{ID: "ev-3", Day: "2024-08-16", Orquesta: "Los Melodicos", Cancelado: true},
		{ID: "ev-4", Day: "2025-07-19", Orquesta: "Actual"},
		{ID: "ev-5", Day: "invalid", Orquesta: "Fantasma"},
	}

	snap := AggregateHistorical(events, 2025)

	assert.Len(t, snap.Events, 2)
	assert.True(t, snap.HasYear(2024))
	assert.True(t, snap.HasYear(2023))
	assert.False(t, snap.HasYear(2025))
	assert.Equal(t, 1, snap.Years["2024"].OrquestaCount["Los Melodicos"])
	assert.Equal(t, 1, snap.Years["2023"].MonthlyEventCount["julio"])
}

// Overview without an archive serves current stats only.
func TestOverviewWithoutArchive(t *testing.T) {
	now := time.Date(2025, time.July, 10, 12, 0, 0, 0, time.UTC)
	tracker := reconcile.NewTracker(reconcile.DefaultConfig(), func() time.Time { return now })
	created := now.Add(-time.Hour)
	tracker.SetEvents([]reconcile.Event{{
		ID:            "ev-1",
		Day:           "2025-07-19",
		Municipio:     "La Laguna",
		Orquesta:      "Los Melodicos",
		FechaAgregado: created,
		FechaEditado:  created,
	}})

	svc := NewService(tracker, nil, zap.NewNop())

	ov, err := svc.Overview(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 1, ov.Current.OrquestaCount["Los Melodicos"])
	assert.Empty(t, ov.Years)

	assert.Equal(t, map[string]int{"Los Melodicos": 1}, svc.OrquestaCounts())
}
