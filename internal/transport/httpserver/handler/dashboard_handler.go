package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"media-fetch-bot/internal/domain"
	"media-fetch-bot/internal/transport/httpserver/dto"
)

const recentLimit = 20

// RecentRequests lists the latest successful resolutions.
type RecentRequests interface {
	Recent(ctx context.Context, limit int) ([]domain.RequestLogEntry, error)
}

// CacheCounter counts stored cache entries.
type CacheCounter interface {
	Count(ctx context.Context) (int64, error)
}

// DashboardHandler handles dashboard-related HTTP requests.
type DashboardHandler struct {
	usage  UsageReporter
	recent RecentRequests
	cache  CacheCounter
	window time.Duration
	logger *zap.Logger
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(
	usage UsageReporter,
	recent RecentRequests,
	cache CacheCounter,
	window time.Duration,
	logger *zap.Logger,
) *DashboardHandler {
	return &DashboardHandler{
		usage:  usage,
		recent: recent,
		cache:  cache,
		window: window,
		logger: logger,
	}
}

// Render handles GET /dashboard
// Recent requests and the cache size are best effort; the usage report is not.
func (h *DashboardHandler) Render(c *fiber.Ctx) error {
	ctx := c.Context()

	report, err := h.usage.Report(ctx, h.window)
	if err != nil {
		h.logger.Error("dashboard usage report failed", zap.Error(err))
		return fiber.NewError(fiber.StatusInternalServerError, "failed to load usage")
	}

	recent, err := h.recent.Recent(ctx, recentLimit)
	if err != nil {
		h.logger.Warn("dashboard recent requests failed", zap.Error(err))
	}

	cached, err := h.cache.Count(ctx)
	if err != nil {
		h.logger.Warn("dashboard cache count failed", zap.Error(err))
	}

	return c.Render("pages/dashboard", fiber.Map{
		"Title":      "Media Fetch Dashboard",
		"Stats":      dto.FromUsageReport(report, h.window),
		"Recent":     recent,
		"CacheCount": cached,
	}, "layouts/base")
}
