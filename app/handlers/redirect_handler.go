package handlers

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v3"
	businessflow "github.com/kompihq/kompi-links/business_flow"
)

// RedirectHandlerInterface defines the contract for public short code resolution
type RedirectHandlerInterface interface {
	Visit(c fiber.Ctx) error
}

type RedirectHandler struct {
	flow businessflow.VisitFlow
	// lookupTimeout bounds the hot-path resolution, tighter than the
	// default API deadline.
	lookupTimeout time.Duration
}

func NewRedirectHandler(flow businessflow.VisitFlow, lookupTimeout time.Duration) RedirectHandlerInterface {
	if lookupTimeout <= 0 {
		lookupTimeout = 5 * time.Second
	}
	return &RedirectHandler{flow: flow, lookupTimeout: lookupTimeout}
}

// Visit resolves a short code and redirects to its target. Errors stay
// plain text on purpose: the caller is a browser mid-navigation, not an
// API client. Missing, inactive, and malformed codes all answer the
// same 404 so the code space cannot be enumerated.
func (h *RedirectHandler) Visit(c fiber.Ctx) error {
	code := c.Params("code")
	if code == "" {
		return c.Status(fiber.StatusNotFound).SendString("not found")
	}

	var referer, userAgent *string
	if v := c.Get("Referer"); v != "" {
		referer = &v
	}
	if v := c.Get("User-Agent"); v != "" {
		userAgent = &v
	}

	target, err := h.flow.Visit(createRequestContextWithTimeout(c, "/r/"+code, h.lookupTimeout), code, referer, userAgent)
	if err != nil {
		if businessflow.IsLinkNotFound(err) {
			return c.Status(fiber.StatusNotFound).SendString("not found")
		}
		log.Println("Short code visit failed", err)
		return c.Status(fiber.StatusInternalServerError).SendString("internal error")
	}
	return c.Redirect().Status(fiber.StatusFound).To(target)
}
