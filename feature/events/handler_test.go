package events_test

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"verbena/core/reconcile"
	"verbena/feature/events"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newTestApp(tracker *reconcile.Tracker) *fiber.App {
	logger := zap.NewNop()
	svc := events.NewService(nil, logger, tracker, nil, reconcile.DefaultConfig())
	h := events.NewHandler(svc, logger)

	app := fiber.New()
	h.RegisterRoutes(app)
	return app
}

func TestHandleListEvents(t *testing.T) {
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

	app := newTestApp(tracker)

	req := httptest.NewRequest("GET", "/events/", nil)
	resp, err := app.Test(req, 2000)
	assert.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body events.ListResult
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.False(t, body.Loading)
	assert.Len(t, body.Events, 1)
	assert.Equal(t, "ev-1", body.Events[0].ID)
	assert.Len(t, body.RecentActivity, 1)
	assert.Equal(t, reconcile.ActivityAdd, body.RecentActivity[0].Type)
}

func TestHandleRecentActivity(t *testing.T) {
	tracker := reconcile.NewTracker(reconcile.DefaultConfig(), nil)
	app := newTestApp(tracker)

	req := httptest.NewRequest("GET", "/events/activity", nil)
	resp, err := app.Test(req, 2000)
	assert.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var feed []reconcile.ActivityItem
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&feed))
	assert.Empty(t, feed)
}

func TestHandleCreateEventInvalidPayload(t *testing.T) {
	tracker := reconcile.NewTracker(reconcile.DefaultConfig(), nil)
	app := newTestApp(tracker)

	req := httptest.NewRequest("POST", "/events/", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, 2000)
	assert.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}
