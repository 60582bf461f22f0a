package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"media-fetch-bot/internal/infra/provider/registry"
	"media-fetch-bot/internal/infra/sysinfo"
	"media-fetch-bot/internal/transport/httpserver/dto"
)

// ProviderLister reports the provider descriptors.
type ProviderLister interface {
	Status() []registry.ProviderStatus
}

// SystemCollector takes host snapshots.
type SystemCollector interface {
	Collect(ctx context.Context) *sysinfo.Snapshot
}

// AdminHandler handles admin-related HTTP requests.
type AdminHandler struct {
	providers ProviderLister
	system    SystemCollector
	logger    *zap.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(providers ProviderLister, system SystemCollector, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		providers: providers,
		system:    system,
		logger:    logger,
	}
}

// GetProviders handles GET /api/v1/admin/providers
func (h *AdminHandler) GetProviders(c *fiber.Ctx) error {
	return c.JSON(dto.FromProviderStatus(h.providers.Status()))
}

// GetSystem handles GET /api/v1/admin/system
func (h *AdminHandler) GetSystem(c *fiber.Ctx) error {
	snapshot := h.system.Collect(c.Context())
	h.logger.Debug("system snapshot collected",
		zap.Float64("cpu_percent", snapshot.CPUPercent),
		zap.Float64("mem_percent", snapshot.MemPercent),
	)

	return c.JSON(dto.FromSnapshot(snapshot))
}
