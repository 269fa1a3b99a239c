// Package config loads the tracker's settings from environment variables.
//
// A local .env file (ENV_FILE, default ".env") is merged first when present,
// so operators can keep TELEGRAM_BOT_TOKEN next to the binary. Variables that
// are already set in the process environment always win.
//
// Unset or empty variables take their defaults. A variable that is set but
// cannot be parsed is an error, reported together with every failed
// validation rule.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
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
	ServiceName string  // OTEL_SERVICE_NAME (e.g. "power-status-tracker")
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// TelegramConfig holds the bot gateway settings.
type TelegramConfig struct {
	BotToken  string        // TELEGRAM_BOT_TOKEN; empty disables notifications
	APIBase   string        // TELEGRAM_API_BASE, without the /bot<token> suffix
	Timeout   time.Duration // TELEGRAM_TIMEOUT, per request
	ParseMode string        // TELEGRAM_PARSE_MODE: "", "HTML" or "Markdown"

	// DeactivationPhrases are matched case-insensitively against gateway
	// error descriptions to decide whether a subscriber is unreachable.
	DeactivationPhrases []string
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

	// Logging / Docs
	LogLevel       string // debug|info|warn|error|fatal|panic
	LogPretty      bool   // pretty console logs in dev
	SwaggerEnabled bool   // enable Swagger UI route
	APIBasePath    string // base path for API routes

	// App
	DBPath   string // SQLite path
	TimeZone string // IANA name used for displayed timestamps

	// Gateway
	Telegram TelegramConfig

	// AdminToken guards the admin API. Empty disables admin routes.
	AdminToken string

	// Rate limiting
	RateRPS   float64 // tokens per second (>= 0)
	RateBurst int     // bucket size (>= 1)

	// Web protection
	CORS     CORSConfig
	Security SecurityConfig

	// Observability
	OTEL OTELConfig
}

// DefaultDeactivationPhrases are the Telegram error fragments that mean the
// recipient can no longer be reached.
var DefaultDeactivationPhrases = []string{"chat not found", "blocked", "user deactivated"}

// parseModes are the Telegram parse modes safe for the notification text.
// MarkdownV2 is excluded: the timestamp's '-' would need escaping.
var parseModes = map[string]bool{"": true, "HTML": true, "Markdown": true}

// Load merges the optional .env file, reads the environment, applies
// defaults and validates the result. The returned error joins every problem
// found.
func Load() (Config, error) {
	if err := loadDotEnv(getenv("ENV_FILE", ".env")); err != nil {
		return Config{}, fmt.Errorf("ENV_FILE: %w", err)
	}

	var e envReader
	cfg := Config{
		Port:              e.str("PORT", "8080"),
		ReadTimeout:       e.duration("READ_TIMEOUT", 15*time.Second),
		ReadHeaderTimeout: e.duration("READ_HEADER_TIMEOUT", 10*time.Second),
		WriteTimeout:      e.duration("WRITE_TIMEOUT", 20*time.Second),
		IdleTimeout:       e.duration("IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes:    e.integer("MAX_HEADER_BYTES", 1<<20),
		GinMode:           strings.ToLower(e.str("GIN_MODE", "release")),

		LogLevel:       strings.ToLower(e.str("LOG_LEVEL", "info")),
		LogPretty:      e.boolean("LOG_PRETTY", false),
		SwaggerEnabled: e.boolean("SWAGGER_ENABLED", false),
		APIBasePath:    normalizeBasePath(e.str("API_BASE_PATH", "/api/v1")),

		DBPath:   e.str("DB_PATH", "power.db"),
		TimeZone: e.str("TIME_ZONE", "UTC"),

		Telegram: TelegramConfig{
			BotToken:            strings.TrimSpace(e.str("TELEGRAM_BOT_TOKEN", "")),
			APIBase:             strings.TrimRight(e.str("TELEGRAM_API_BASE", "https://api.telegram.org"), "/"),
			Timeout:             e.duration("TELEGRAM_TIMEOUT", 10*time.Second),
			ParseMode:           e.str("TELEGRAM_PARSE_MODE", "HTML"),
			DeactivationPhrases: splitCSV(e.str("DEACTIVATION_PHRASES", strings.Join(DefaultDeactivationPhrases, ","))),
		},

		AdminToken: strings.TrimSpace(e.str("ADMIN_TOKEN", "")),

		RateRPS:   e.number("RATE_RPS", 5.0),
		RateBurst: e.integer("RATE_BURST", 10),

		CORS: CORSConfig{
			AllowedOrigins: splitCSV(e.str("CORS_ALLOWED_ORIGINS", "")),
		},
		Security: SecurityConfig{
			EnableHSTS: e.boolean("ENABLE_HSTS", false),
			HSTSMaxAge: e.duration("HSTS_MAX_AGE", 180*24*time.Hour),
		},

		OTEL: OTELConfig{
			Enabled:     e.boolean("OTEL_ENABLED", false),
			Endpoint:    e.str("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    e.boolean("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: e.str("OTEL_SERVICE_NAME", "power-status-tracker"),
			SampleRatio: e.number("OTEL_TRACES_SAMPLER_ARG", 1.0),
		},
	}

	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}
	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		cfg.GinMode = "release"
	}

	errs := append(e.errs, cfg.validate()...)
	return cfg, errors.Join(errs...)
}

func (c Config) validate() []error {
	var errs []error
	check := func(ok bool, msg string) {
		if !ok {
			errs = append(errs, errors.New(msg))
		}
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		errs = append(errs, errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic"))
	}
	check(strings.TrimSpace(c.Port) != "", "PORT must not be empty")
	check(c.ReadTimeout > 0 && c.ReadHeaderTimeout > 0 && c.WriteTimeout > 0 && c.IdleTimeout > 0,
		"timeouts must be positive durations")
	check(c.MaxHeaderBytes > 0, "MAX_HEADER_BYTES must be > 0")
	check(strings.TrimSpace(c.DBPath) != "", "DB_PATH must not be empty")
	if _, err := time.LoadLocation(c.TimeZone); err != nil {
		errs = append(errs, fmt.Errorf("TIME_ZONE must be a valid IANA time zone: %w", err))
	}

	if u, err := url.Parse(c.Telegram.APIBase); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, errors.New("TELEGRAM_API_BASE must be an absolute http(s) URL"))
	}
	check(c.Telegram.Timeout > 0, "TELEGRAM_TIMEOUT must be > 0")
	check(parseModes[c.Telegram.ParseMode], `TELEGRAM_PARSE_MODE must be "HTML", "Markdown" or empty`)
	check(len(c.Telegram.DeactivationPhrases) > 0, "DEACTIVATION_PHRASES must list at least one phrase")

	check(c.RateRPS >= 0, "RATE_RPS must be >= 0")
	check(c.RateBurst >= 1, "RATE_BURST must be >= 1")
	check(c.Security.HSTSMaxAge >= 0, "HSTS_MAX_AGE must be >= 0")
	check(c.OTEL.SampleRatio >= 0 && c.OTEL.SampleRatio <= 1, "OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	return errs
}

// Location resolves TimeZone, falling back to UTC.
func (c Config) Location() *time.Location {
	if loc, err := time.LoadLocation(c.TimeZone); err == nil {
		return loc
	}
	return time.UTC
}

// HasBotToken reports whether the Telegram gateway is configured.
func (c Config) HasBotToken() bool { return c.Telegram.BotToken != "" }

// loadDotEnv merges a .env file into the process environment without
// overriding variables that are already set. A missing file is not an error.
func loadDotEnv(path string) error {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return godotenv.Load(path)
}

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		return v
	}
	return def
}

// envReader reads typed variables and records the ones that fail to parse.
type envReader struct {
	errs []error
}

func (e *envReader) lookup(k string) (string, bool) {
	v, ok := os.LookupEnv(k)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func (e *envReader) fail(k, v, kind string) {
	e.errs = append(e.errs, fmt.Errorf("%s: %q is not a valid %s", k, v, kind))
}

func (e *envReader) str(k, def string) string { return getenv(k, def) }

func (e *envReader) integer(k string, def int) int {
	v, ok := e.lookup(k)
	if !ok {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		e.fail(k, v, "integer")
		return def
	}
	return i
}

func (e *envReader) number(k string, def float64) float64 {
	v, ok := e.lookup(k)
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		e.fail(k, v, "number")
		return def
	}
	return f
}

func (e *envReader) duration(k string, def time.Duration) time.Duration {
	v, ok := e.lookup(k)
	if !ok {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		e.fail(k, v, "duration")
		return def
	}
	return d
}

func (e *envReader) boolean(k string, def bool) bool {
	v, ok := e.lookup(k)
	if !ok {
		return def
	}
	switch strings.ToLower(v) {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	}
	e.fail(k, v, "boolean")
	return def
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// normalizeBasePath ensures a leading '/' and strips trailing ones, except
// for the root.
func normalizeBasePath(p string) string {
	p = strings.TrimSpace(p)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
		if p == "" {
			p = "/"
		}
	}
	return p
}
