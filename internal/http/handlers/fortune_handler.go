// Fortune HTTP handlers.
//
// This file exposes the public endpoints of the service:
//   - POST /fortune/today   (generate or replay a fortune)
//   - POST /fortune/local   (offline generator, one pick per day)
//   - GET  /remote-config   (static client configuration)
//
// Handlers are transport-thin: they bind input, call the fortune service,
// and translate results into HTTP responses. Device identity travels in the
// X-Device-ID header; responses carry X-Cache: HIT|MISS so clients and logs
// can tell replays from fresh generations.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-fortune-backend/internal/domain"
	"github.com/tbourn/go-fortune-backend/internal/local"
	"github.com/tbourn/go-fortune-backend/internal/services"
)

// HeaderDeviceID is the request header carrying the caller's device identity.
const HeaderDeviceID = "X-Device-ID"

// headerCache reports the cache disposition of the response.
const headerCache = "X-Cache"

// FortuneService defines the orchestration operations consumed by the HTTP
// handlers. Implementations must be safe for concurrent use and honor the
// provided context for cancellation and timeouts.
type FortuneService interface {
	// Fortune runs validate → cache → generate → shape for one request.
	Fortune(ctx context.Context, req domain.FortuneRequest, deviceID string) (*services.Result, error)
	// LocalFortune serves the offline generator directly.
	LocalFortune(ctx context.Context, req domain.FortuneRequest, deviceID string) (*services.Result, error)
}

// Handlers groups the HTTP endpoints of the fortune API.
type Handlers struct {
	svc FortuneService
}

// New constructs a Handlers instance bound to the given service.
func New(svc FortuneService) *Handlers {
	return &Handlers{svc: svc}
}

// deviceID extracts the caller's device identity, defaulting to "anon" for
// clients that do not send one.
func deviceID(c *gin.Context) string {
	if v := strings.TrimSpace(c.GetHeader(HeaderDeviceID)); v != "" {
		return v
	}
	return "anon"
}

// Fortune handles POST /fortune/today.
//
// A malformed JSON body or a missing required attribute is the only client
// error; everything else resolves to a 200 with a usable fortune payload.
// Cache hits replay the stored body byte-identical.
func (h *Handlers) Fortune(c *gin.Context) {
	var req domain.FortuneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	res, err := h.svc.Fortune(c.Request.Context(), req, deviceID(c))
	if err != nil {
		h.failGenerate(c, err)
		return
	}
	writePayload(c, res)
}

// LocalFortune handles POST /fortune/local: the deterministic offline
// generator, limited to one pick per device, category, and calendar day.
func (h *Handlers) LocalFortune(c *gin.Context) {
	var req domain.FortuneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	res, err := h.svc.LocalFortune(c.Request.Context(), req, deviceID(c))
	if err != nil {
		h.failGenerate(c, err)
		return
	}
	writePayload(c, res)
}

// failGenerate maps service errors to HTTP responses.
func (h *Handlers) failGenerate(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrBirthdateRequired),
		errors.Is(err, services.ErrCoupleBirthdateRequired),
		errors.Is(err, services.ErrNameRequired),
		errors.Is(err, services.ErrUnknownCategory):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
	case errors.Is(err, local.ErrDailyLimit):
		fail(c, http.StatusTooManyRequests, ErrCodeDailyLimit, local.DailyLimitMessage)
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "fortune generation failed")
	}
}

// writePayload emits the pre-serialized payload with its cache disposition.
func writePayload(c *gin.Context, res *services.Result) {
	if res.CacheHit {
		c.Header(headerCache, "HIT")
	} else {
		c.Header(headerCache, "MISS")
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", res.Body)
}

// RemoteConfig is the static client configuration payload served by
// GET /remote-config.
type RemoteConfig struct {
	AdUnitID        string   `json:"adUnitId"        example:"test-banner-001"`
	AdFrequency     string   `json:"adFrequency"     example:"medium"`
	Categories      []string `json:"categories"`
	ExperimentGroup string   `json:"experimentGroup" example:"A"`
	Version         string   `json:"version"         example:"1.0.0"`
}

// GetRemoteConfig handles GET /remote-config.
func (h *Handlers) GetRemoteConfig(c *gin.Context) {
	ok(c, http.StatusOK, RemoteConfig{
		AdUnitID:        "test-banner-001",
		AdFrequency:     "medium",
		Categories:      []string{domain.CategoryLove, domain.CategoryMoney, domain.CategoryHealth},
		ExperimentGroup: "A",
		Version:         "1.0.0",
	})
}
