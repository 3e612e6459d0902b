// Package services – FortuneService
//
// This file implements the fortune orchestrator: per request it validates
// the category-specific input rules, derives the cache key, consults the
// response cache, generates on a miss (remote cascade, or the local
// generator in offline-first deployments), shapes the outward payload, and
// schedules the cache write.
//
// Degradation contract: the caller always receives a complete payload with
// a non-empty fortune text. Provider failures, missing credentials, and
// cache outages are absorbed here; only input validation may end a request
// early.
//
// Concurrency note: duplicate concurrent requests for the same cache key may
// both miss and both generate; there is no single-flight
// guarantee. The second writer wins the (identical-TTL) cache slot, which is
// harmless. In offline-first mode local picks are never cached: the
// generator's own per-day serving record is the replay suppressor there, so
// a repeat same-day request surfaces the daily limit instead of a replay.
// Cache writes happen on a tracked background goroutine so the
// response never waits on the store; Drain blocks until in-flight writes
// finish and is called during server shutdown.
package services

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/go-fortune-backend/internal/cache"
	"github.com/tbourn/go-fortune-backend/internal/domain"
	"github.com/tbourn/go-fortune-backend/internal/gemini"
	"github.com/tbourn/go-fortune-backend/internal/local"
	"github.com/tbourn/go-fortune-backend/internal/prompt"
)

// PromptVersion tags every payload with the prompt revision that produced it.
const PromptVersion = "v3-gemini"

// cacheWriteTimeout bounds each detached cache write.
const cacheWriteTimeout = 5 * time.Second

// RemoteClient is the generation cascade contract consumed by the service.
type RemoteClient interface {
	Generate(ctx context.Context, p prompt.Prompt) (gemini.Result, error)
}

// LocalGenerator is the offline generator contract consumed by the service.
type LocalGenerator interface {
	Generate(ctx context.Context, req domain.FortuneRequest, deviceID string) (*local.Pick, error)
}

// FortuneService coordinates cache, remote cascade, and local generation.
type FortuneService struct {
	Cache  cache.ResponseCache
	Remote RemoteClient
	Local  LocalGenerator

	CacheTTL        time.Duration
	DefaultTimezone string
	Debug           bool
	// OfflineFirst routes the main endpoint through the local generator
	// instead of the remote cascade (availability over freshness).
	OfflineFirst bool

	// Now is the clock seam; defaults to time.Now when nil.
	Now func() time.Time

	writes sync.WaitGroup
}

// Result carries the serialized payload and cache disposition of one request.
type Result struct {
	// Body is the exact JSON response body. Cache hits replay the stored
	// bytes unchanged.
	Body []byte
	// CacheHit is true when Body came from the response cache.
	CacheHit bool
}

// Fortune runs the full request state machine:
// validate → cache lookup → generate → shape → (conditionally) cache write.
func (s *FortuneService) Fortune(ctx context.Context, req domain.FortuneRequest, deviceID string) (*Result, error) {
	tr := otel.Tracer("services/FortuneService")
	ctx, span := tr.Start(ctx, "Fortune",
		attributeOption(req.Category, deviceID),
	)
	defer span.End()

	req = s.normalize(req)
	if err := Validate(req); err != nil {
		return nil, err
	}

	day := s.dayStamp(req.Timezone)
	key := cache.Key(deviceID, day, req.Category, req)

	if body, ok := s.Cache.Get(ctx, key); ok {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return &Result{Body: []byte(body), CacheHit: true}, nil
	}

	var (
		text      string
		debugErr  string
		cacheable bool
	)

	if s.OfflineFirst && s.Local != nil {
		pick, err := s.Local.Generate(ctx, req, deviceID)
		if err != nil {
			// Daily limit propagates; anything else falls back to the safe text.
			if err == local.ErrDailyLimit {
				return nil, err
			}
			log.Error().Err(err).Msg("local generation failed")
			text, debugErr = gemini.FallbackText, err.Error()
		} else {
			text = pick.Text
		}
	} else {
		res, err := s.Remote.Generate(ctx, prompt.Build(req, day))
		switch {
		case err != nil:
			// Zero configured credentials: a deployment fault, absorbed here
			// so the user still gets the safe text.
			log.Error().Err(err).Msg("remote generation unavailable")
			text, debugErr = gemini.FallbackText, err.Error()
		case res.UsedFallback:
			text = res.Text
			if res.LastErr != nil {
				debugErr = res.LastErr.Error()
			}
		default:
			text, cacheable = res.Text, true
		}
	}

	body, err := json.Marshal(s.shape(req, day, text, debugErr))
	if err != nil {
		return nil, err
	}

	// Only genuine successes are cached: a cached fallback would replay the
	// safe text for the rest of the TTL window even after the provider
	// recovers.
	if cacheable {
		s.scheduleWrite(key, string(body))
	}
	span.SetAttributes(attribute.Bool("cache.hit", false))
	return &Result{Body: body}, nil
}

// LocalFortune serves the offline generator directly (thin clients that do
// not run the selection algorithm on-device). Returns local.ErrDailyLimit
// when the device already consumed today's pick for the category.
func (s *FortuneService) LocalFortune(ctx context.Context, req domain.FortuneRequest, deviceID string) (*Result, error) {
	tr := otel.Tracer("services/FortuneService")
	ctx, span := tr.Start(ctx, "LocalFortune",
		attributeOption(req.Category, deviceID),
	)
	defer span.End()

	req = s.normalize(req)
	if err := Validate(req); err != nil {
		return nil, err
	}

	pick, err := s.Local.Generate(ctx, req, deviceID)
	if err != nil {
		return nil, err
	}
	body, err := json.Marshal(s.shape(req, pick.Date, pick.Text, ""))
	if err != nil {
		return nil, err
	}
	return &Result{Body: body}, nil
}

// Drain waits for scheduled cache writes to complete. Call on shutdown.
func (s *FortuneService) Drain() { s.writes.Wait() }

// scheduleWrite stores the payload on a tracked background goroutine with
// its own context, so the write survives the request lifecycle without
// delaying the response.
func (s *FortuneService) scheduleWrite(key, body string) {
	s.writes.Add(1)
	go func() {
		defer s.writes.Done()
		ctx, cancel := context.WithTimeout(context.Background(), cacheWriteTimeout)
		defer cancel()
		s.Cache.Set(ctx, key, body, s.CacheTTL)
	}()
}

// normalize applies category and timezone defaults and trims the attributes
// that participate in validation.
func (s *FortuneService) normalize(req domain.FortuneRequest) domain.FortuneRequest {
	if strings.TrimSpace(req.Category) == "" {
		req.Category = domain.CategoryToday
	}
	if strings.TrimSpace(req.Timezone) == "" {
		req.Timezone = s.DefaultTimezone
	}
	return req
}

// Validate enforces the per-category input rules: birthdate for the
// date-dependent categories (per side for compat), name for the name
// category. Violations are terminal client errors; no generation happens.
func Validate(req domain.FortuneRequest) error {
	switch req.Category {
	case domain.CategoryCompat:
		if req.Couple == nil ||
			strings.TrimSpace(req.Couple.A.Birthdate) == "" ||
			strings.TrimSpace(req.Couple.B.Birthdate) == "" {
			return ErrCoupleBirthdateRequired
		}
	case domain.CategoryToday, domain.CategorySaju:
		if strings.TrimSpace(req.Birthdate) == "" {
			return ErrBirthdateRequired
		}
	case domain.CategoryName:
		if strings.TrimSpace(req.Name) == "" {
			return ErrNameRequired
		}
	default:
		if _, ok := domain.KnownCategories[req.Category]; !ok {
			return ErrUnknownCategory
		}
	}
	return nil
}

// shape assembles the outward payload. The debug error is attached only
// when the service runs with Debug enabled.
func (s *FortuneService) shape(req domain.FortuneRequest, day, text, debugErr string) domain.FortuneResponse {
	resp := domain.FortuneResponse{
		Date:          day,
		Category:      req.Category,
		Name:          req.Name,
		Birthdate:     req.Birthdate,
		Calendar:      req.Calendar,
		BirthTime:     req.BirthTime,
		Gender:        req.Gender,
		Couple:        req.Couple,
		Timezone:      req.Timezone,
		Fortune:       text,
		PromptVersion: PromptVersion,
	}
	if s.Debug && debugErr != "" {
		resp.Error = debugErr
	}
	return resp
}

// dayStamp returns today's YYYY-MM-DD in the request timezone, falling back
// to UTC when the zone is unknown.
func (s *FortuneService) dayStamp(tz string) string {
	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		loc = time.UTC
	}
	return now.In(loc).Format("2006-01-02")
}

func attributeOption(category, deviceID string) trace.SpanStartOption {
	return trace.WithAttributes(
		attribute.String("fortune.category", category),
		attribute.String("device.id", deviceID),
	)
}
