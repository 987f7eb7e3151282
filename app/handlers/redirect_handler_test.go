package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	businessflow "github.com/kompihq/kompi-links/business_flow"
)

type stubVisitFlow struct {
	mu          sync.Mutex
	target      string
	err         error
	code        string
	hadDeadline bool
	remaining   time.Duration
}

func (s *stubVisitFlow) Visit(ctx context.Context, code string, referer, userAgent *string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.code = code
	if deadline, ok := ctx.Deadline(); ok {
		s.hadDeadline = true
		s.remaining = time.Until(deadline)
	}
	return s.target, s.err
}

func newRedirectApp(flow businessflow.VisitFlow, timeout time.Duration) *fiber.App {
	app := fiber.New()
	handler := NewRedirectHandler(flow, timeout)
	app.Get("/r/:code", handler.Visit)
	return app
}

func TestRedirectHandlerVisit(t *testing.T) {
	flow := &stubVisitFlow{target: "https://example.com/landing"}
	app := newRedirectApp(flow, 2*time.Second)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/r/abc123", nil))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "https://example.com/landing", resp.Header.Get("Location"))
	assert.Equal(t, "abc123", flow.code)
}

func TestRedirectHandlerVisitUnknownCode(t *testing.T) {
	flow := &stubVisitFlow{err: businessflow.ErrLinkNotFound}
	app := newRedirectApp(flow, 2*time.Second)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/r/nosuch", nil))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

// The lookup deadline comes from configuration, not the general API
// default.
func TestRedirectHandlerVisitUsesConfiguredTimeout(t *testing.T) {
	flow := &stubVisitFlow{target: "https://example.com/landing"}
	app := newRedirectApp(flow, 2*time.Second)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/r/abc123", nil))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	require.True(t, flow.hadDeadline)
	assert.Greater(t, flow.remaining, time.Second)
	assert.LessOrEqual(t, flow.remaining, 2*time.Second)
}

func TestRedirectHandlerZeroTimeoutFallsBack(t *testing.T) {
	flow := &stubVisitFlow{target: "https://example.com/landing"}
	app := newRedirectApp(flow, 0)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/r/abc123", nil))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	require.True(t, flow.hadDeadline)
	assert.Greater(t, flow.remaining, 4*time.Second)
	assert.LessOrEqual(t, flow.remaining, 5*time.Second)
}
