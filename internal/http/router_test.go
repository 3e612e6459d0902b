package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-fortune-backend/internal/cache"
	"github.com/tbourn/go-fortune-backend/internal/config"
	"github.com/tbourn/go-fortune-backend/internal/domain"
)

func newTestEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := filepath.Join(t.TempDir(), fmt.Sprintf("router_test_%d.db", time.Now().UnixNano()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	if err := db.AutoMigrate(&domain.DeviceSelection{}, &domain.DeviceDaily{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}

	cfg := config.Config{
		GinMode:         "test",
		APIBasePath:     "/",
		CacheTTL:        time.Hour,
		DefaultTimezone: "Asia/Seoul",
		RateRPS:         1000,
		RateBurst:       1000,
		Gemini: config.GeminiConfig{
			// No credentials: the remote path degrades to the fallback text.
			BaseURL: "http://127.0.0.1:0",
			Timeout: time.Second,
		},
	}

	r := gin.New()
	RegisterRoutes(r, db, cache.Noop{}, cfg)
	return r
}

func TestRouter_Health(t *testing.T) {
	r := newTestEngine(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if body["status"] != "ok" {
		t.Fatalf("body = %v", body)
	}
}

func TestRouter_UnknownRouteIs404Envelope(t *testing.T) {
	r := newTestEngine(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if body["code"] != "not_found" {
		t.Fatalf("code = %v", body["code"])
	}
}

func TestRouter_WrongMethodIs405(t *testing.T) {
	r := newTestEngine(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/fortune/today", nil))
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", w.Code)
	}
}

func TestRouter_FortuneToday_MissingBirthdateIs400(t *testing.T) {
	r := newTestEngine(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/fortune/today", strings.NewReader(`{"category":"today"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400; body=%s", w.Code, w.Body.String())
	}
}

func TestRouter_FortuneToday_DegradesWithoutCredentials(t *testing.T) {
	r := newTestEngine(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/fortune/today", strings.NewReader(`{"category":"today","birthdate":"1990-01-01"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Device-ID", "dev-router")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body=%s", w.Code, w.Body.String())
	}
	if got := w.Header().Get("X-Cache"); got != "MISS" {
		t.Fatalf("X-Cache = %q, want MISS", got)
	}
	var payload domain.FortuneResponse
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("invalid payload: %v", err)
	}
	if payload.Fortune == "" {
		t.Fatal("payload must carry a non-empty fortune even without credentials")
	}
	if payload.PromptVersion != "v3-gemini" {
		t.Fatalf("promptVersion = %q", payload.PromptVersion)
	}
}

func TestRouter_FortuneLocal_SecondCallSameDayIs429(t *testing.T) {
	r := newTestEngine(t)
	body := `{"category":"today","birthdate":"1990-01-01","name":"민지"}`

	do := func() *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/fortune/local", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Device-ID", "dev-local")
		r.ServeHTTP(w, req)
		return w
	}

	w1 := do()
	if w1.Code != http.StatusOK {
		t.Fatalf("first pick status = %d; body=%s", w1.Code, w1.Body.String())
	}
	var payload domain.FortuneResponse
	if err := json.Unmarshal(w1.Body.Bytes(), &payload); err != nil {
		t.Fatalf("invalid payload: %v", err)
	}
	if payload.Fortune == "" {
		t.Fatal("expected a rendered local fortune")
	}

	w2 := do()
	if w2.Code != http.StatusTooManyRequests {
		t.Fatalf("second pick status = %d, want 429; body=%s", w2.Code, w2.Body.String())
	}
	var errBody map[string]any
	if err := json.Unmarshal(w2.Body.Bytes(), &errBody); err != nil {
		t.Fatalf("invalid error body: %v", err)
	}
	if errBody["code"] != "daily_limit" {
		t.Fatalf("code = %v, want daily_limit", errBody["code"])
	}
}

func TestRouter_MetricsEndpoint(t *testing.T) {
	r := newTestEngine(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}

func TestRouter_CORSDefaultAllowsAll(t *testing.T) {
	r := newTestEngine(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("ACAO = %q, want *", got)
	}
}
