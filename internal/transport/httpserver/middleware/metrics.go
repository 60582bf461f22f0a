package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"media-fetch-bot/internal/metrics"
)

// Metrics counts HTTP responses by status code.
func Metrics(m *metrics.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		m.IncHTTPRequests(statusOf(c, err))
		return err
	}
}

// statusOf returns the status the error handler will write for err, or the
// response status when the chain succeeded.
func statusOf(c *fiber.Ctx, err error) int {
	if err == nil {
		return c.Response().StatusCode()
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}

	return fiber.StatusInternalServerError
}
