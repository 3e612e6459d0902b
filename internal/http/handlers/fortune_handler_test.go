package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-fortune-backend/internal/domain"
	"github.com/tbourn/go-fortune-backend/internal/local"
	"github.com/tbourn/go-fortune-backend/internal/services"
)

var errAny = errors.New("backend exploded")

// fakeFortuneService scripts the orchestrator outcome and records arguments.
type fakeFortuneService struct {
	res *services.Result
	err error

	gotReq    domain.FortuneRequest
	gotDevice string
	calls     int
}

func (f *fakeFortuneService) Fortune(_ context.Context, req domain.FortuneRequest, deviceID string) (*services.Result, error) {
	f.calls++
	f.gotReq = req
	f.gotDevice = deviceID
	return f.res, f.err
}

func (f *fakeFortuneService) LocalFortune(_ context.Context, req domain.FortuneRequest, deviceID string) (*services.Result, error) {
	f.calls++
	f.gotReq = req
	f.gotDevice = deviceID
	return f.res, f.err
}

func newTestRouter(svc FortuneService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := New(svc)
	r.POST("/fortune/today", h.Fortune)
	r.POST("/fortune/local", h.LocalFortune)
	r.GET("/remote-config", h.GetRemoteConfig)
	return r
}

func TestFortune_InvalidJSON(t *testing.T) {
	svc := &fakeFortuneService{}
	r := newTestRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/fortune/today", strings.NewReader("{not json"))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	var body ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid error body: %v", err)
	}
	if body.Code != ErrCodeBadRequest {
		t.Fatalf("code = %q, want %q", body.Code, ErrCodeBadRequest)
	}
	if svc.calls != 0 {
		t.Fatal("malformed body must not reach the service")
	}
}

func TestFortune_ValidationErrorIs400(t *testing.T) {
	svc := &fakeFortuneService{err: services.ErrBirthdateRequired}
	r := newTestRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/fortune/today", strings.NewReader(`{"category":"today"}`))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	var body ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid error body: %v", err)
	}
	if body.Code != ErrCodeBadRequest || !strings.Contains(body.Message, "birthdate") {
		t.Fatalf("unexpected error body: %+v", body)
	}
}

func TestFortune_MissAndHitHeaders(t *testing.T) {
	payload := []byte(`{"fortune":"맑음"}`)

	svc := &fakeFortuneService{res: &services.Result{Body: payload}}
	r := newTestRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/fortune/today", strings.NewReader(`{"category":"today","birthdate":"1990-01-01"}`))
	req.Header.Set(HeaderDeviceID, "dev-42")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if got := w.Header().Get("X-Cache"); got != "MISS" {
		t.Fatalf("X-Cache = %q, want MISS", got)
	}
	if w.Body.String() != string(payload) {
		t.Fatalf("body = %q, want the service payload verbatim", w.Body.String())
	}
	if svc.gotDevice != "dev-42" {
		t.Fatalf("device = %q, want dev-42", svc.gotDevice)
	}
	if svc.gotReq.Birthdate != "1990-01-01" {
		t.Fatalf("bound request = %+v", svc.gotReq)
	}

	svc.res = &services.Result{Body: payload, CacheHit: true}
	w2 := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodPost, "/fortune/today", strings.NewReader(`{"category":"today","birthdate":"1990-01-01"}`))
	r.ServeHTTP(w2, req2)
	if got := w2.Header().Get("X-Cache"); got != "HIT" {
		t.Fatalf("X-Cache = %q, want HIT", got)
	}
}

func TestFortune_MissingDeviceDefaultsToAnon(t *testing.T) {
	svc := &fakeFortuneService{res: &services.Result{Body: []byte(`{}`)}}
	r := newTestRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/fortune/today", strings.NewReader(`{"category":"today","birthdate":"1990-01-01"}`))
	r.ServeHTTP(w, req)

	if svc.gotDevice != "anon" {
		t.Fatalf("device = %q, want anon", svc.gotDevice)
	}
}

func TestLocalFortune_DailyLimitIs429(t *testing.T) {
	svc := &fakeFortuneService{err: local.ErrDailyLimit}
	r := newTestRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/fortune/local", strings.NewReader(`{"category":"today","birthdate":"1990-01-01"}`))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", w.Code)
	}
	var body ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid error body: %v", err)
	}
	if body.Code != ErrCodeDailyLimit {
		t.Fatalf("code = %q, want %q", body.Code, ErrCodeDailyLimit)
	}
	if body.Message != local.DailyLimitMessage {
		t.Fatalf("message = %q", body.Message)
	}
}

func TestFortune_UnexpectedErrorIs500(t *testing.T) {
	svc := &fakeFortuneService{err: errAny}
	r := newTestRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/fortune/today", strings.NewReader(`{"category":"today","birthdate":"1990-01-01"}`))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	var body ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid error body: %v", err)
	}
	if body.Code != ErrCodeInternal {
		t.Fatalf("code = %q, want %q", body.Code, ErrCodeInternal)
	}
}

func TestGetRemoteConfig(t *testing.T) {
	r := newTestRouter(&fakeFortuneService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/remote-config", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var cfg RemoteConfig
	if err := json.Unmarshal(w.Body.Bytes(), &cfg); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if cfg.AdUnitID != "test-banner-001" || cfg.ExperimentGroup != "A" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if len(cfg.Categories) != 3 {
		t.Fatalf("categories = %v", cfg.Categories)
	}
}
