package handler

import (
	"errors"

	"courier-stats/internal/features/stats/domain"
	"courier-stats/internal/features/stats/service"

	"github.com/gofiber/fiber/v2"
)

// StatsHandler handles HTTP requests for customer delivery stats.
type StatsHandler struct {
	statsService *service.StatsService
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(statsService *service.StatsService) *StatsHandler {
	return &StatsHandler{
		statsService: statsService,
	}
}

// ErrorResponse represents an error response with Ray ID.
type ErrorResponse struct {
	// Message is the error description.
	Message string `json:"message"`
	// RayID is the unique request identifier for tracing.
	RayID string `json:"ray_id,omitempty"`
}

// GetAllStats godoc
// @Summary Get delivery stats from every courier
// @Description Looks up the customer on Pathao, Steadfast and RedX. A courier that fails is reported with zeroed stats and an error message.
// @Tags stats
// @Produce json
// @Param phone path string true "Customer phone number (01XXXXXXXXX, +88 prefix and separators are accepted)"
// @Success 200 {object} map[string]domain.ProviderResult
// @Failure 400 {object} ErrorResponse
// @Router /stats/{phone} [get]
func (h *StatsHandler) GetAllStats(c *fiber.Ctx) error {
	phone, err := domain.FormatPhone(c.Params("phone"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: err.Error(),
			RayID:   rayID(c),
		})
	}

	return c.JSON(h.statsService.CheckAll(c.UserContext(), phone))
}

// GetProviderStats godoc
// @Summary Get delivery stats from one courier
// @Description Looks up the customer on a single courier. Failures are returned as errors instead of zeroed stats.
// @Tags stats
// @Produce json
// @Param phone path string true "Customer phone number"
// @Param provider path string true "Courier name (pathao, steadfast, redx)"
// @Success 200 {object} domain.DeliveryStats
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /stats/{phone}/{provider} [get]
func (h *StatsHandler) GetProviderStats(c *fiber.Ctx) error {
	provider, ok := domain.ParseProvider(c.Params("provider"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Message: "provider not supported",
			RayID:   rayID(c),
		})
	}

	phone, err := domain.FormatPhone(c.Params("phone"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: err.Error(),
			RayID:   rayID(c),
		})
	}

	stats, err := h.statsService.CheckOne(c.UserContext(), provider, phone)
	if err != nil {
		return c.Status(statusFor(err)).JSON(ErrorResponse{
			Message: err.Error(),
			RayID:   rayID(c),
		})
	}

	return c.JSON(stats)
}

// statusFor maps the error taxonomy onto HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, service.ErrProviderNotSupported):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrAuth), errors.Is(err, domain.ErrAPI):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

func rayID(c *fiber.Ctx) string {
	id, _ := c.Locals("requestid").(string)
	return id
}
