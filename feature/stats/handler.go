package stats

import (
	"verbena/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for statistics.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes registers the stats routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/stats")
	group.Get("/", h.HandleOverview)
	group.Get("/orquestas", h.HandleOrquestaCounts)
}

// HandleOverview returns current and historical statistics.
// @Summary Statistics overview
// @Description Returns aggregated statistics for the reconciled view plus the archived years.
// @Tags stats
// @Produce json
// @Success 200 {object} stats.Overview "Statistics"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /stats [get]
func (h *Handler) HandleOverview(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	ov, err := h.service.Overview(c.Context())
	if err != nil {
		l.Error("Stats overview failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(ov)
}

// HandleOrquestaCounts returns performer appearance counts.
// @Summary Performer counts
// @Description Returns appearance counts per performer over the reconciled view, DJ sentinel excluded.
// @Tags stats
// @Produce json
// @Success 200 {object} map[string]int "Counts"
// @Router /stats/orquestas [get]
func (h *Handler) HandleOrquestaCounts(c *fiber.Ctx) error {
	return c.JSON(h.service.OrquestaCounts())
}
