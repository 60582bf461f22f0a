package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"media-fetch-bot/internal/metrics"
)

func status(t *testing.T, app *fiber.App, path string) int {
	t.Helper()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	return resp.StatusCode
}

func TestHealthCheck(t *testing.T) {
	var dbErr error
	app := fiber.New()
	app.Use(NewHealthCheck(zap.NewNop(),
		ReadinessCheck{Name: "postgres", Check: func(context.Context) error { return dbErr }},
		ReadinessCheck{Name: "redis", Check: func(context.Context) error { return nil }},
	))

	assert.Equal(t, http.StatusOK, status(t, app, "/livez"))
	assert.Equal(t, http.StatusOK, status(t, app, "/readyz"))

	dbErr = errors.New("connection refused")
	assert.Equal(t, http.StatusOK, status(t, app, "/livez"))
	assert.Equal(t, http.StatusServiceUnavailable, status(t, app, "/readyz"))
}

func TestRecover(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	app := fiber.New()
	app.Use(Recover(zap.New(core)))
	app.Get("/panic", func(*fiber.Ctx) error { panic("boom") })

	assert.Equal(t, http.StatusInternalServerError, status(t, app, "/panic"))
	require.Equal(t, 1, logs.FilterMessage("panic recovered").Len())
}

func TestMetrics(t *testing.T) {
	m := metrics.New()
	app := fiber.New()
	app.Use(Metrics(m))
	app.Get("/ok", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/gone", func(*fiber.Ctx) error { return fiber.ErrNotFound })
	app.Get("/broken", func(*fiber.Ctx) error { return errors.New("broken") })

	status(t, app, "/ok")
	status(t, app, "/ok")
	status(t, app, "/gone")
	status(t, app, "/broken")

	expected := `
# HELP mediafetch_http_requests_total Total number of HTTP requests received
# TYPE mediafetch_http_requests_total counter
mediafetch_http_requests_total{status="200"} 2
mediafetch_http_requests_total{status="404"} 1
mediafetch_http_requests_total{status="500"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "mediafetch_http_requests_total"))
}

func TestLogger_LevelByStatus(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	app := fiber.New()
	app.Use(Logger(zap.New(core)))
	app.Get("/ok", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/bad", func(c *fiber.Ctx) error { return c.SendStatus(http.StatusBadRequest) })
	app.Get("/err", func(*fiber.Ctx) error { return errors.New("broken") })

	status(t, app, "/ok")
	status(t, app, "/bad")
	status(t, app, "/err")

	assert.Equal(t, 1, logs.FilterMessage("request completed").Len())
	assert.Equal(t, 1, logs.FilterMessage("request error").Len())
	assert.Equal(t, 1, logs.FilterMessage("request failed").Len())
}
