package middleware

import (
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/trace"
)

// RedactOptions configures RedactingLogger.
type RedactOptions struct {
	// MaskHeaders are replaced with "[REDACTED]" in addition to
	// Authorization, Cookie, Set-Cookie and X-Admin-Token.
	MaskHeaders []string
	// QuietPaths are routes (e.g. "/health", "/metrics") whose successful
	// requests are logged at debug level instead of info.
	QuietPaths []string
}

// Patterns are applied in order: bot tokens and UUIDs first so the loose
// phone pattern cannot eat their digit runs.
var (
	// Bot API tokens look like "<bot id>:<35 char secret>".
	botTokenRE = regexp.MustCompile(`\b\d{5,}:[A-Za-z0-9_\-]{30,}`)
	uuidRE     = regexp.MustCompile(`(?i)\b[0-9a-f]{8}\-[0-9a-f]{4}\-[1-5][0-9a-f]{3}\-[89ab][0-9a-f]{3}\-[0-9a-f]{12}\b`)
	emailRE    = regexp.MustCompile(`(?i)\b[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}\b`)
	phoneRE    = regexp.MustCompile(`\b(?:\+?\d{1,3}[ .-]?)?(?:\(?\d{2,4}\)?[ .-]?)?\d{3,4}[ .-]?\d{4}\b`)
)

// redactString scrubs bot tokens and obvious identifiers from s.
func redactString(s string) string {
	if s == "" {
		return s
	}
	s = botTokenRE.ReplaceAllString(s, "[REDACTED:token]")
	s = uuidRE.ReplaceAllString(s, "[REDACTED:id]")
	s = emailRE.ReplaceAllString(s, "[REDACTED:email]")
	return phoneRE.ReplaceAllString(s, "[REDACTED:phone]")
}

// headerScrubber masks or redacts request header values.
type headerScrubber map[string]struct{}

func newHeaderScrubber(extra []string) headerScrubber {
	hs := headerScrubber{
		"authorization":                   {},
		"cookie":                          {},
		"set-cookie":                      {},
		strings.ToLower(HeaderAdminToken): {},
	}
	for _, h := range extra {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			hs[h] = struct{}{}
		}
	}
	return hs
}

func (hs headerScrubber) scrub(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k, vv := range h {
		if _, ok := hs[strings.ToLower(k)]; ok {
			out[k] = "[REDACTED]"
			continue
		}
		out[k] = redactString(strings.Join(vv, ", "))
	}
	return out
}

// RedactingLogger attaches a request-scoped logger (request_id, method, route
// and, when tracing is on, trace_id) for LoggerFrom and writes one access log
// line per request. Bodies are never logged; the query string and header
// values go through redaction and sensitive headers are masked.
//
// The access line is info for 2xx/3xx, warn for 4xx and error for 5xx.
func RedactingLogger(opts RedactOptions) gin.HandlerFunc {
	headers := newHeaderScrubber(opts.MaskHeaders)
	quiet := make(map[string]struct{}, len(opts.QuietPaths))
	for _, p := range opts.QuietPaths {
		quiet[p] = struct{}{}
	}

	return func(c *gin.Context) {
		start := time.Now()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		lc := log.With().
			Str("request_id", RequestIDFrom(c)).
			Str("method", c.Request.Method).
			Str("path", path)
		if sc := trace.SpanContextFromContext(c.Request.Context()); sc.HasTraceID() {
			lc = lc.Str("trace_id", sc.TraceID().String())
		}
		scoped := lc.Logger()
		c.Set(loggerKey, &scoped)

		c.Next()

		status := c.Writer.Status()
		var ev *zerolog.Event
		switch _, isQuiet := quiet[path]; {
		case status >= 500:
			ev = scoped.Error()
		case status >= 400:
			ev = scoped.Warn()
		case isQuiet:
			ev = scoped.Debug()
		default:
			ev = scoped.Info()
		}

		ev.
			Str("query", truncate(redactString(c.Request.URL.RawQuery), maxQueryLogLength)).
			Int("status", status).
			Int("bytes", c.Writer.Size()).
			Dur("latency", time.Since(start)).
			Str("principal", Principal(c)).
			Interface("headers", headers.scrub(c.Request.Header)).
			Msg("http_request")
	}
}
