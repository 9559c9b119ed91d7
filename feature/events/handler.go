package events

import (
	"errors"

	"verbena/core/logger"
	"verbena/core/reconcile"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Handler handles HTTP requests for events.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes registers the event routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/events")
	group.Get("/", h.HandleListEvents)
	group.Get("/activity", h.HandleRecentActivity)
	group.Post("/", h.HandleCreateEvent)
	group.Put("/:id", h.HandleUpdateEvent)
	group.Post("/:id/cancel", h.HandleCancelEvent)
}

// HandleListEvents returns the reconciled event view.
// @Summary List events
// @Description Returns the deduplicated event set, the recent-activity feed and the loading state.
// @Tags events
// @Produce json
// @Success 200 {object} events.ListResult "Reconciled view"
// @Router /events [get]
func (h *Handler) HandleListEvents(c *fiber.Ctx) error {
	return c.JSON(h.service.ListEvents())
}

// HandleRecentActivity returns only the recent-activity feed.
// @Summary Recent activity
// @Description Returns the ranked recent-activity feed (at most the configured feed size).
// @Tags events
// @Produce json
// @Success 200 {array} reconcile.ActivityItem "Activity feed"
// @Router /events/activity [get]
func (h *Handler) HandleRecentActivity(c *fiber.Ctx) error {
	return c.JSON(h.service.ListEvents().RecentActivity)
}

// HandleCreateEvent creates a new event.
// @Summary Create event
// @Description Creates an event. Re-add detection against recent deletions runs automatically.
// @Tags events
// @Accept json
// @Produce json
// @Param event body reconcile.Event true "Event"
// @Success 201 {object} reconcile.Event "Stored event"
// @Failure 400 {object} map[string]string "Invalid payload"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /events [post]
func (h *Handler) HandleCreateEvent(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	var ev reconcile.Event
	if err := c.BodyParser(&ev); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid event payload"})
	}

	saved, err := h.service.SaveEvent(c.Context(), ev, false)
	if err != nil {
		if errors.Is(err, ErrMissingMunicipio) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		l.Error("Event create failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(saved)
}

// HandleUpdateEvent updates an existing event.
// @Summary Update event
// @Description Updates an event. FechaAgregado is preserved; re-add flags are cleared.
// @Tags events
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param event body reconcile.Event true "Event"
// @Success 200 {object} reconcile.Event "Stored event"
// @Failure 400 {object} map[string]string "Invalid payload"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /events/{id} [put]
func (h *Handler) HandleUpdateEvent(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	var ev reconcile.Event
	if err := c.BodyParser(&ev); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid event payload"})
	}
	ev.ID = c.Params("id")

	saved, err := h.service.SaveEvent(c.Context(), ev, true)
	if err != nil {
		if errors.Is(err, ErrMissingMunicipio) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		l.Error("Event update failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(saved)
}

type cancelRequest struct {
	DeletedBy string `json:"deletedBy"`
}

// HandleCancelEvent soft-deletes an event and records the deletion.
// @Summary Cancel event
// @Description Marks the event cancelled and writes a deletion record with the pre-deletion snapshot.
// @Tags events
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param body body cancelRequest true "Cancellation"
// @Success 204 "Cancelled"
// @Failure 404 {object} map[string]string "Unknown event"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /events/{id}/cancel [post]
func (h *Handler) HandleCancelEvent(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	var req cancelRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}

	if err := h.service.CancelEvent(c.Context(), c.Params("id"), req.DeletedBy); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "event not found"})
		}
		l.Error("Event cancel failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.SendStatus(fiber.StatusNoContent)
}
