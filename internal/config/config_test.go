package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	// Make sure ambient env doesn't leak into the assertions below.
	for _, k := range []string{
		"PORT", "LOG_LEVEL", "GIN_MODE", "DB_PATH", "CACHE_TTL",
		"DEFAULT_TIMEZONE", "REDIS_URL", "UPSTASH_REDIS_URL",
		"GEMINI_MODEL", "GEMINI_BASE_URL",
	} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port default = %q, want 8080", cfg.Port)
	}
	if cfg.GinMode != "release" {
		t.Errorf("GinMode default = %q, want release", cfg.GinMode)
	}
	if cfg.CacheTTL != 24*time.Hour {
		t.Errorf("CacheTTL default = %v, want 24h", cfg.CacheTTL)
	}
	if cfg.DefaultTimezone != "Asia/Seoul" {
		t.Errorf("DefaultTimezone default = %q, want Asia/Seoul", cfg.DefaultTimezone)
	}
	if cfg.Gemini.BaseURL != "https://generativelanguage.googleapis.com" {
		t.Errorf("Gemini.BaseURL default = %q", cfg.Gemini.BaseURL)
	}
	if cfg.Gemini.Timeout != 30*time.Second {
		t.Errorf("Gemini.Timeout default = %v, want 30s", cfg.Gemini.Timeout)
	}
	if cfg.RedisURL != "" {
		t.Errorf("RedisURL default = %q, want empty", cfg.RedisURL)
	}
}

func TestLoad_NormalizesWarningAndGinMode(t *testing.T) {
	t.Setenv("LOG_LEVEL", "WARNING")
	t.Setenv("GIN_MODE", "bogus")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want warn", cfg.LogLevel)
	}
	if cfg.GinMode != "release" {
		t.Errorf("GinMode = %q, want release (coerced)", cfg.GinMode)
	}
}

func TestLoad_RedisURLPrefersUpstash(t *testing.T) {
	t.Setenv("UPSTASH_REDIS_URL", "redis://upstash:6379")
	t.Setenv("REDIS_URL", "redis://other:6379")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.RedisURL != "redis://upstash:6379" {
		t.Errorf("RedisURL = %q, want the Upstash value", cfg.RedisURL)
	}
}

func TestLoad_ValidationErrors(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"bad log level", map[string]string{"LOG_LEVEL": "verbose"}, "LOG_LEVEL"},
		{"bad timezone", map[string]string{"DEFAULT_TIMEZONE": "Mars/Olympus"}, "DEFAULT_TIMEZONE"},
		{"zero burst", map[string]string{"RATE_BURST": "0"}, "RATE_BURST"},
		{"negative rps", map[string]string{"RATE_RPS": "-1"}, "RATE_RPS"},
		{"bad sample ratio", map[string]string{"OTEL_TRACES_SAMPLER_ARG": "2"}, "OTEL_TRACES_SAMPLER_ARG"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			if err == nil {
				t.Fatalf("expected error mentioning %s", tc.want)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error %q should mention %s", err, tc.want)
			}
		})
	}
}

func TestCollectGeminiKeys(t *testing.T) {
	environ := []string{
		"PATH=/usr/bin",
		"GEMINI_API_KEY_2=key-two",
		"GEMINI_API_KEY=key-primary",
		"GEMINI_API_KEY_1=key-one",
		"GEMINI_API_KEY_EMPTY=",
		"GEMINI_API=not-a-key-var=oops",
	}
	got := CollectGeminiKeys(environ)
	want := []string{"key-primary", "key-one", "key-two"}
	if len(got) != len(want) {
		t.Fatalf("got %d keys %v, want %d", len(got), got, len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("keys[%d] = %q, want %q (lexicographic by var name)", i, got[i], want[i])
		}
	}
}

func TestCollectGeminiKeys_Empty(t *testing.T) {
	if got := CollectGeminiKeys([]string{"HOME=/root"}); len(got) != 0 {
		t.Fatalf("expected no keys, got %v", got)
	}
}

func TestNormalizeBasePath(t *testing.T) {
	cases := map[string]string{
		"":        "/",
		"/":       "/",
		"api":     "/api",
		"/api/":   "/api",
		"/api/v1": "/api/v1",
	}
	for in, want := range cases {
		if got := normalizeBasePath(in); got != want {
			t.Errorf("normalizeBasePath(%q) = %q, want %q", in, got, want)
		}
	}
}
