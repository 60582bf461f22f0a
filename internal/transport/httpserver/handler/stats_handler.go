package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"media-fetch-bot/internal/app/service"
	"media-fetch-bot/internal/transport/httpserver/dto"
	"media-fetch-bot/internal/validator"
)

// UsageReporter builds usage reports.
type UsageReporter interface {
	Report(ctx context.Context, window time.Duration) (*service.UsageReport, error)
}

// StatsHandler handles usage statistics requests.
type StatsHandler struct {
	usage     UsageReporter
	window    time.Duration
	validator *validator.Validator
	logger    *zap.Logger
}

// NewStatsHandler creates a new StatsHandler. window is used when the
// request does not name one.
func NewStatsHandler(usage UsageReporter, window time.Duration, v *validator.Validator, logger *zap.Logger) *StatsHandler {
	return &StatsHandler{
		usage:     usage,
		window:    window,
		validator: v,
		logger:    logger,
	}
}

// Stats handles GET /api/v1/stats
func (h *StatsHandler) Stats(c *fiber.Ctx) error {
	var req dto.StatsRequest
	if err := c.QueryParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "invalid query parameters",
			Code:  "INVALID_PARAMS",
		})
	}

	if err := h.validator.Validate(&req); err != nil {
		return validationFailed(c, err)
	}

	window := req.WindowOr(h.window)
	report, err := h.usage.Report(c.Context(), window)
	if err != nil {
		h.logger.Error("usage report failed", zap.Error(err))

		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: "failed to build usage report",
			Code:  "INTERNAL_ERROR",
		})
	}

	return c.JSON(dto.FromUsageReport(report, window))
}
