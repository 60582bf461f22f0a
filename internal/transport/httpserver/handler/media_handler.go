// Package handler provides HTTP handlers for the API.
package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"media-fetch-bot/internal/app/service"
	"media-fetch-bot/internal/domain"
	"media-fetch-bot/internal/transport/httpserver/dto"
	"media-fetch-bot/internal/validator"
)

// MediaFetcher serves media cache-first.
type MediaFetcher interface {
	Fetch(ctx context.Context, rawURL string) (*service.FetchResult, error)
	Cached(ctx context.Context, rawURL string) (*domain.CacheEntry, error)
}

// MediaHandler handles media resolution requests.
type MediaHandler struct {
	service   MediaFetcher
	validator *validator.Validator
	logger    *zap.Logger
}

// NewMediaHandler creates a new MediaHandler.
func NewMediaHandler(svc MediaFetcher, v *validator.Validator, logger *zap.Logger) *MediaHandler {
	return &MediaHandler{
		service:   svc,
		validator: v,
		logger:    logger,
	}
}

// Resolve handles POST /api/v1/media/resolve
func (h *MediaHandler) Resolve(c *fiber.Ctx) error {
	var req dto.ResolveRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_BODY",
		})
	}

	if err := h.validator.Validate(&req); err != nil {
		return validationFailed(c, err)
	}

	result, err := h.service.Fetch(c.Context(), req.URL)
	if err != nil {
		return h.fail(c, req.URL, err)
	}

	return c.JSON(dto.FromFetchResult(result))
}

// Cached handles GET /api/v1/media/cache?url=
func (h *MediaHandler) Cached(c *fiber.Ctx) error {
	var req dto.CacheRequest
	if err := c.QueryParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "invalid query parameters",
			Code:  "INVALID_PARAMS",
		})
	}

	if err := h.validator.Validate(&req); err != nil {
		return validationFailed(c, err)
	}

	entry, err := h.service.Cached(c.Context(), req.URL)
	if err != nil {
		h.logger.Error("cache lookup failed", zap.String("url", req.URL), zap.Error(err))

		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: "cache lookup failed",
			Code:  "INTERNAL_ERROR",
		})
	}

	if entry == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: "url not cached",
			Code:  "NOT_FOUND",
		})
	}

	return c.JSON(dto.FromCacheEntry(entry, true))
}

func (h *MediaHandler) fail(c *fiber.Ctx, rawURL string, err error) error {
	kind := domain.KindOf(err)
	status := StatusForKind(kind)

	if status >= fiber.StatusInternalServerError {
		h.logger.Error("resolve failed",
			zap.String("url", rawURL),
			zap.String("kind", string(kind)),
			zap.Error(err),
		)
	} else {
		h.logger.Info("resolve rejected",
			zap.String("url", rawURL),
			zap.String("kind", string(kind)),
			zap.Error(err),
		)
	}

	msg := err.Error()
	if kind == domain.KindInternal {
		msg = "internal server error"
	}

	return c.Status(status).JSON(dto.ErrorResponse{
		Error: msg,
		Code:  CodeForKind(kind),
	})
}
