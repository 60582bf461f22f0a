package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"media-fetch-bot/internal/domain"
	"media-fetch-bot/internal/transport/httpserver/dto"
)

// StatusForKind maps a terminal error kind to an HTTP status.
func StatusForKind(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindNone:
		return fiber.StatusOK
	case domain.KindUnsupportedContent, domain.KindUnrecognizedLink, domain.KindInvalidLink:
		return fiber.StatusUnprocessableEntity
	case domain.KindAccessDenied:
		return fiber.StatusForbidden
	case domain.KindRateLimited:
		return fiber.StatusTooManyRequests
	case domain.KindNoProvider:
		return fiber.StatusServiceUnavailable
	case domain.KindUpstreamOverloaded, domain.KindAllProvidersFailed:
		return fiber.StatusBadGateway
	case domain.KindTimeout:
		return fiber.StatusGatewayTimeout
	default:
		return fiber.StatusInternalServerError
	}
}

// CodeForKind returns the stable error code of kind, e.g. RATE_LIMITED.
func CodeForKind(kind domain.ErrorKind) string {
	if kind == domain.KindNone {
		return ""
	}

	return strings.ToUpper(string(kind))
}

func validationFailed(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Error:   "validation failed",
		Code:    "VALIDATION_ERROR",
		Details: err,
	})
}
