// Package config provides application configuration loaded from environment
// variables with defaults and validation. It centralizes application settings
// such as server timeouts, logging, Gemini credentials, cache TTLs, rate
// limiting, and observability.
package config

import (
	"errors"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"
)

// CORSConfig defines Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string
}

// SecurityConfig defines security-related settings such as HSTS.
type SecurityConfig struct {
	EnableHSTS bool
	HSTSMaxAge time.Duration
}

// OTELConfig defines OpenTelemetry observability settings.
type OTELConfig struct {
	Enabled     bool    // OTEL_ENABLED
	Endpoint    string  // OTEL_EXPORTER_OTLP_ENDPOINT (e.g. "otel:4317")
	Insecure    bool    // OTEL_EXPORTER_OTLP_INSECURE (true if no TLS)
	ServiceName string  // OTEL_SERVICE_NAME (e.g. "go-fortune-backend")
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// GeminiConfig holds credentials and call parameters for the remote
// generation provider.
type GeminiConfig struct {
	// APIKeys is the ordered credential pool. Keys are collected from
	// GEMINI_API_KEY and GEMINI_API_KEY_* and sorted lexicographically by
	// variable name so the cascade attempt order is stable across restarts.
	APIKeys []string
	// PreferredModel (GEMINI_MODEL) is tried before the built-in candidates.
	PreferredModel string
	// BaseURL overrides the provider endpoint, mainly for tests.
	BaseURL string
	// Timeout bounds each individual generation attempt.
	Timeout time.Duration
}

// Config holds all configuration values for the application.
type Config struct {
	// Server
	Port              string        // just the number
	ReadTimeout       time.Duration // e.g. 15s
	ReadHeaderTimeout time.Duration // e.g. 10s
	WriteTimeout      time.Duration // e.g. 20s
	IdleTimeout       time.Duration // e.g. 60s
	MaxHeaderBytes    int           // bytes
	GinMode           string        // debug|release|test

	// Logging
	LogLevel    string // debug|info|warn|error|fatal|panic
	LogPretty   bool   // pretty console logs in dev
	APIBasePath string // base path for API routes

	// App
	DBPath          string        // SQLite path for device selection state
	RedisURL        string        // response cache store; empty = no-op cache
	CacheTTL        time.Duration // response cache TTL
	DefaultTimezone string        // IANA name applied when requests omit one
	Debug           bool          // surface generation errors in payloads
	OfflineFirst    bool          // prefer the local generator over Gemini

	// Gemini
	Gemini GeminiConfig

	// Rate limiting
	RateRPS   float64 // tokens per second (>= 0)
	RateBurst int     // bucket size (>= 1)

	// Web protection
	CORS     CORSConfig
	Security SecurityConfig

	// Observability
	OTEL OTELConfig
}

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads configuration from environment variables,
// applies defaults, normalizes values, and validates the result.
func Load() (Config, error) {
	cfg := Config{
		// Server
		Port:              getenv("PORT", "8080"),
		ReadTimeout:       getdur("READ_TIMEOUT", 15*time.Second),
		ReadHeaderTimeout: getdur("READ_HEADER_TIMEOUT", 10*time.Second),
		WriteTimeout:      getdur("WRITE_TIMEOUT", 20*time.Second),
		IdleTimeout:       getdur("IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes:    getint("MAX_HEADER_BYTES", 1<<20),
		GinMode:           strings.ToLower(getenv("GIN_MODE", "release")),

		// Logging
		LogLevel:    strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogPretty:   getbool("LOG_PRETTY", false),
		APIBasePath: normalizeBasePath(getenv("API_BASE_PATH", "/")),

		// App
		DBPath:          getenv("DB_PATH", "app.db"),
		RedisURL:        firstEnv("UPSTASH_REDIS_URL", "REDIS_URL"),
		CacheTTL:        getdur("CACHE_TTL", 24*time.Hour),
		DefaultTimezone: getenv("DEFAULT_TIMEZONE", "Asia/Seoul"),
		Debug:           getbool("DEBUG", false),
		OfflineFirst:    getbool("OFFLINE_FIRST", false),

		// Gemini
		Gemini: GeminiConfig{
			APIKeys:        CollectGeminiKeys(os.Environ()),
			PreferredModel: getenv("GEMINI_MODEL", ""),
			BaseURL:        getenv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"),
			Timeout:        getdur("GEMINI_TIMEOUT", 30*time.Second),
		},

		// Rate limiting
		RateRPS:   getfloat("RATE_RPS", 5.0),
		RateBurst: getint("RATE_BURST", 10),

		// Web protection
		CORS: CORSConfig{
			AllowedOrigins: splitCSV(getenv("CORS_ALLOWED_ORIGINS", "")),
		},
		Security: SecurityConfig{
			EnableHSTS: getbool("ENABLE_HSTS", false),
			HSTSMaxAge: getdur("HSTS_MAX_AGE", 180*24*time.Hour),
		},

		// Observability (OpenTelemetry)
		OTEL: OTELConfig{
			Enabled:     getbool("OTEL_ENABLED", false),
			Endpoint:    getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    getbool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: getenv("OTEL_SERVICE_NAME", "go-fortune-backend"),
			SampleRatio: getfloat("OTEL_TRACES_SAMPLER_ARG", 1.0),
		},
	}

	// --- normalization ---
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}
	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		cfg.GinMode = "release"
	}

	// --- validation ---
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return cfg, errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic")
	}
	if strings.TrimSpace(cfg.Port) == "" {
		return cfg, errors.New("PORT must not be empty")
	}
	if cfg.ReadTimeout <= 0 || cfg.ReadHeaderTimeout <= 0 || cfg.WriteTimeout <= 0 || cfg.IdleTimeout <= 0 {
		return cfg, errors.New("timeouts must be positive durations")
	}
	if cfg.MaxHeaderBytes <= 0 {
		return cfg, errors.New("MAX_HEADER_BYTES must be > 0")
	}
	if strings.TrimSpace(cfg.DBPath) == "" {
		return cfg, errors.New("DB_PATH must not be empty")
	}
	if cfg.CacheTTL <= 0 {
		return cfg, errors.New("CACHE_TTL must be > 0")
	}
	if _, err := time.LoadLocation(cfg.DefaultTimezone); err != nil {
		return cfg, errors.New("DEFAULT_TIMEZONE must be a valid IANA timezone name")
	}
	if cfg.Gemini.Timeout <= 0 {
		return cfg, errors.New("GEMINI_TIMEOUT must be > 0")
	}
	if cfg.RateRPS < 0 {
		return cfg, errors.New("RATE_RPS must be >= 0")
	}
	if cfg.RateBurst < 1 {
		return cfg, errors.New("RATE_BURST must be >= 1")
	}
	if cfg.Security.HSTSMaxAge < 0 {
		return cfg, errors.New("HSTS_MAX_AGE must be >= 0")
	}
	if cfg.OTEL.SampleRatio < 0 || cfg.OTEL.SampleRatio > 1 {
		return cfg, errors.New("OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	}

	return cfg, nil
}

// CollectGeminiKeys extracts credential values from an environment list in
// the form returned by os.Environ(). It accepts GEMINI_API_KEY plus any
// GEMINI_API_KEY_* variant, sorts the matches lexicographically by variable
// name, and drops empty values. The resulting order is the credential
// attempt order of the generation cascade.
func CollectGeminiKeys(environ []string) []string {
	type kv struct{ name, value string }
	var matches []kv
	for _, e := range environ {
		i := strings.IndexByte(e, '=')
		if i < 0 {
			continue
		}
		name, value := e[:i], e[i+1:]
		if name != "GEMINI_API_KEY" && !strings.HasPrefix(name, "GEMINI_API_KEY_") {
			continue
		}
		if strings.TrimSpace(value) == "" {
			continue
		}
		matches = append(matches, kv{name, value})
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].name < matches[j].name })
	keys := make([]string, 0, len(matches))
	for _, m := range matches {
		keys = append(keys, m.value)
	}
	return keys
}

// ---- helpers (no external deps) ----

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		return v
	}
	return def
}

// firstEnv returns the first non-empty value among the named variables.
func firstEnv(names ...string) string {
	for _, k := range names {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v
		}
	}
	return ""
}

func getfloat(k string, def float64) float64 {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getint(k string, def int) int {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// normalizeBasePath ensures leading '/' and strips trailing '/' (except root).
func normalizeBasePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 && strings.HasSuffix(p, "/") {
		p = strings.TrimRight(p, "/")
	}
	return p
}
