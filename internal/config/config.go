// Package config provides application configuration loaded from environment
// variables with defaults and validation. It centralizes server timeouts,
// logging, storage paths, search tunables, the reply generator, rate limiting
// and observability.
package config

import (
	"errors"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/scripture-study/internal/search"
)

// CORSConfig lists the origins allowed to call the API from a browser.
type CORSConfig struct {
	AllowedOrigins []string
}

// SecurityConfig controls Strict-Transport-Security.
type SecurityConfig struct {
	EnableHSTS bool
	HSTSMaxAge time.Duration
}

// OTELConfig configures trace export over OTLP/gRPC.
type OTELConfig struct {
	Enabled     bool    // OTEL_ENABLED
	Endpoint    string  // OTEL_EXPORTER_OTLP_ENDPOINT, host:port
	Insecure    bool    // OTEL_EXPORTER_OTLP_INSECURE, plaintext gRPC
	ServiceName string  // OTEL_SERVICE_NAME
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG, 0..1
}

// SearchConfig holds the search engine tunables.
type SearchConfig struct {
	MinQuery      int           // SEARCH_MIN_QUERY, significant runes
	Threshold     float64       // SEARCH_THRESHOLD, share of query terms in (0,1]
	ContextWindow int           // SEARCH_CONTEXT_WINDOW, runes each side
	Debounce      time.Duration // SEARCH_DEBOUNCE, advisory for clients
	MaxResults    int           // SEARCH_MAX_RESULTS, 0 = unlimited
}

// ChatConfig selects and tunes the reply generator.
type ChatConfig struct {
	Generator    string        // GENERATOR: ollama|scripture
	OllamaURL    string        // OLLAMA_URL
	Model        string        // MODEL
	MaxNewTokens int           // MAX_NEW_TOKENS
	Timeout      time.Duration // GENERATE_TIMEOUT
	HistoryTurns int           // CHAT_HISTORY_TURNS
}

// Config is the full runtime configuration.
type Config struct {
	Port              string
	ReadTimeout       time.Duration
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	MaxHeaderBytes    int
	GinMode           string // debug|release|test

	LogLevel       string
	LogPretty      bool
	SwaggerEnabled bool
	APIBasePath    string

	DBPath     string // SQLite file
	CorpusPath string // .json or .json.xz; empty selects the bundled sample

	Search SearchConfig
	Chat   ChatConfig

	RateRPS   float64 // per-client tokens per second; 0 disables limiting
	RateBurst int

	CORS     CORSConfig
	Security SecurityConfig
	OTEL     OTELConfig
}

// MustLoad is Load for main packages; it panics on invalid input.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load builds a Config from the environment. Unset or unparsable variables
// take their defaults; values that parse but make no sense are errors.
func Load() (Config, error) {
	cfg := Config{
		Port:              getenv("PORT", "8000"),
		ReadTimeout:       getdur("READ_TIMEOUT", 15*time.Second),
		ReadHeaderTimeout: getdur("READ_HEADER_TIMEOUT", 10*time.Second),
		WriteTimeout:      getdur("WRITE_TIMEOUT", 60*time.Second),
		IdleTimeout:       getdur("IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes:    getint("MAX_HEADER_BYTES", 1<<20),
		GinMode:           strings.ToLower(getenv("GIN_MODE", gin.ReleaseMode)),

		LogLevel:       strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogPretty:      getbool("LOG_PRETTY", false),
		SwaggerEnabled: getbool("SWAGGER_ENABLED", false),
		APIBasePath:    normalizeBasePath(getenv("API_BASE_PATH", "/api/v1")),

		DBPath:     getenv("DB_PATH", "study.db"),
		CorpusPath: getenv("CORPUS_PATH", ""),

		Search: SearchConfig{
			MinQuery:      getint("SEARCH_MIN_QUERY", search.MinQueryLength),
			Threshold:     getfloat("SEARCH_THRESHOLD", search.DefaultThreshold),
			ContextWindow: getint("SEARCH_CONTEXT_WINDOW", search.DefaultContextWindow),
			Debounce:      getdur("SEARCH_DEBOUNCE", search.DefaultDebounce),
			MaxResults:    getint("SEARCH_MAX_RESULTS", 100),
		},
		Chat: ChatConfig{
			Generator:    strings.ToLower(getenv("GENERATOR", "scripture")),
			OllamaURL:    strings.TrimRight(getenv("OLLAMA_URL", "http://localhost:11434"), "/"),
			Model:        getenv("MODEL", "llama3.2"),
			MaxNewTokens: getint("MAX_NEW_TOKENS", 150),
			Timeout:      getdur("GENERATE_TIMEOUT", 45*time.Second),
			HistoryTurns: getint("CHAT_HISTORY_TURNS", 6),
		},

		RateRPS:   getfloat("RATE_RPS", 10),
		RateBurst: getint("RATE_BURST", 20),

		CORS: CORSConfig{AllowedOrigins: splitCSV(getenv("CORS_ALLOWED_ORIGINS", ""))},
		Security: SecurityConfig{
			EnableHSTS: getbool("ENABLE_HSTS", false),
			HSTSMaxAge: getdur("HSTS_MAX_AGE", 180*24*time.Hour),
		},
		OTEL: OTELConfig{
			Enabled:     getbool("OTEL_ENABLED", false),
			Endpoint:    getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    getbool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: getenv("OTEL_SERVICE_NAME", "scripture-study"),
			SampleRatio: getfloat("OTEL_TRACES_SAMPLER_ARG", 1),
		},
	}

	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}
	if !oneOf(cfg.GinMode, gin.DebugMode, gin.ReleaseMode, gin.TestMode) {
		cfg.GinMode = gin.ReleaseMode
	}
	return cfg, cfg.validate()
}

// validate reports the first rule cfg breaks.
func (cfg Config) validate() error {
	rules := []struct {
		ok  bool
		msg string
	}{
		{oneOf(cfg.LogLevel, "debug", "info", "warn", "error", "fatal", "panic"),
			"LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic"},
		{cfg.Port != "", "PORT must not be empty"},
		{cfg.ReadTimeout > 0 && cfg.ReadHeaderTimeout > 0 && cfg.WriteTimeout > 0 && cfg.IdleTimeout > 0,
			"timeouts must be positive durations"},
		{cfg.MaxHeaderBytes > 0, "MAX_HEADER_BYTES must be > 0"},
		{cfg.DBPath != "", "DB_PATH must not be empty"},

		{cfg.Search.MinQuery >= 1, "SEARCH_MIN_QUERY must be >= 1"},
		{cfg.Search.Threshold > 0 && cfg.Search.Threshold <= 1, "SEARCH_THRESHOLD must be in (0,1]"},
		{cfg.Search.ContextWindow >= 1, "SEARCH_CONTEXT_WINDOW must be >= 1"},
		{cfg.Search.Debounce >= 0, "SEARCH_DEBOUNCE must be >= 0"},
		{cfg.Search.MaxResults >= 0, "SEARCH_MAX_RESULTS must be >= 0"},

		{oneOf(cfg.Chat.Generator, "ollama", "scripture"), "GENERATOR must be one of: ollama, scripture"},
		{cfg.Chat.MaxNewTokens >= 1, "MAX_NEW_TOKENS must be >= 1"},
		{cfg.Chat.Timeout > 0, "GENERATE_TIMEOUT must be > 0"},
		{cfg.Chat.HistoryTurns >= 0, "CHAT_HISTORY_TURNS must be >= 0"},

		{cfg.RateRPS >= 0, "RATE_RPS must be >= 0"},
		{cfg.RateBurst >= 1, "RATE_BURST must be >= 1"},
		{cfg.Security.HSTSMaxAge >= 0, "HSTS_MAX_AGE must be >= 0"},
		{cfg.OTEL.SampleRatio >= 0 && cfg.OTEL.SampleRatio <= 1, "OTEL_TRACES_SAMPLER_ARG must be in [0,1]"},
	}
	for _, r := range rules {
		if !r.ok {
			return errors.New(r.msg)
		}
	}
	return nil
}

func oneOf(v string, allowed ...string) bool {
	return slices.Contains(allowed, v)
}

// lookup returns the parsed value of env var k, or def when k is unset,
// empty or unparsable.
func lookup[T any](k string, def T, parse func(string) (T, error)) T {
	v, ok := os.LookupEnv(k)
	if !ok || v == "" {
		return def
	}
	if out, err := parse(strings.TrimSpace(v)); err == nil {
		return out
	}
	return def
}

func getenv(k, def string) string {
	return lookup(k, def, func(v string) (string, error) { return v, nil })
}

func getint(k string, def int) int { return lookup(k, def, strconv.Atoi) }

func getdur(k string, def time.Duration) time.Duration { return lookup(k, def, time.ParseDuration) }

func getfloat(k string, def float64) float64 {
	return lookup(k, def, func(v string) (float64, error) { return strconv.ParseFloat(v, 64) })
}

func getbool(k string, def bool) bool {
	return lookup(k, def, func(v string) (bool, error) {
		switch strings.ToLower(v) {
		case "1", "true", "yes", "y", "on":
			return true, nil
		case "0", "false", "no", "n", "off":
			return false, nil
		}
		return false, errors.New("not a boolean")
	})
}

// splitCSV splits a comma list, dropping blanks. Empty input is nil.
func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// normalizeBasePath returns p with exactly one leading slash and no trailing
// slash; blank input is the root.
func normalizeBasePath(p string) string {
	p = strings.Trim(strings.TrimSpace(p), "/")
	return "/" + p
}
