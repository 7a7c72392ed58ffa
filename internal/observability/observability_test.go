package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/deliverlabs/food-ordering-service/internal/config"
)

func TestMetricsSnapshot(t *testing.T) {
	m := NewMetrics()
	m.RecordRequest("/api/orders", "GET", 200, 10*time.Millisecond)
	m.RecordRequest("/api/orders", "GET", 200, 30*time.Millisecond)
	m.RecordError("/api/orders", "GET", "FORBIDDEN")
	m.RecordBroadcast("staff", 3, 1)
	m.RecordBroadcast("staff", 2, 0)

	snap := m.Snapshot()
	assert.Equal(t, int64(2), snap.TotalRequests)
	assert.Equal(t, int64(2), snap.Requests["/api/orders|GET|200"])
	assert.Equal(t, int64(1), snap.Errors["/api/orders|GET|FORBIDDEN"])
	assert.Equal(t, int64(5), snap.Broadcasts["staff"])
	assert.Equal(t, int64(1), snap.DroppedPeers["staff"])
	assert.InDelta(t, 20.0, snap.AvgLatencyMS, 0.001)

	snap.Requests["/api/orders|GET|200"] = 99
	assert.Equal(t, int64(2), m.Snapshot().Requests["/api/orders|GET|200"], "snapshots are copies")
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordRequest("/", "GET", 200, time.Millisecond)
		m.RecordError("/", "GET", "X")
		m.RecordBroadcast("staff", 1, 0)
	})
	assert.Equal(t, Snapshot{}, m.Snapshot())
}

func TestRequestLoggerRecordsRoutePattern(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	metrics := NewMetrics()

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(RequestLogger(zap.New(core), metrics))
	app.Get("/orders/:id", func(c *fiber.Ctx) error { return c.SendStatus(http.StatusNoContent) })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/orders/42", nil), -1)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, int64(1), metrics.Snapshot().Requests["/orders/:id|GET|204"])
	entries := logs.FilterMessage("request").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "/orders/42", fields["path"])
	assert.Equal(t, int64(http.StatusNoContent), fields["status"])
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger(config.AppConfig{Name: "food-ordering", Version: "test", Env: "development"}, config.LoggerConfig{Level: "DEBUG"})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zap.DebugLevel))

	logger, err = NewLogger(config.AppConfig{Name: "food-ordering"}, config.LoggerConfig{Level: "loud"})
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zap.DebugLevel))
	assert.True(t, logger.Core().Enabled(zap.InfoLevel))
}
