// Package middleware holds the Gin middleware shared by the HTTP layer.
//
// Recommended order:
//
//	RequestID() → Identity() → Logger(opts) → Recovery()
//
// so that access logs, panics and error envelopes all carry the request and
// user identifiers. The request-scoped logger lives under the "logger" key.
package middleware

import (
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	requestIDKey = "requestID"

	// HeaderRequestID carries the request id in both directions.
	HeaderRequestID = "X-Request-ID"

	// UserIDKey is the Gin context key holding the caller's identity.
	UserIDKey    = "userID"
	userIDHeader = "X-User-ID"

	loggerKey         = "logger"
	maxQueryLogLength = 2048
	maxUserIDLength   = 128
)

// RequestID reuses an incoming X-Request-ID or mints a UUID, and echoes it on
// the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := strings.TrimSpace(c.GetHeader(HeaderRequestID))
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set(requestIDKey, rid)
		c.Writer.Header().Set(HeaderRequestID, rid)
		c.Next()
	}
}

// Identity copies the demo X-User-ID header into the context so the limiter
// and the access log can key on it. Oversized values are ignored.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if uid := strings.TrimSpace(c.GetHeader(userIDHeader)); uid != "" && len(uid) <= maxUserIDLength {
			c.Set(UserIDKey, uid)
		}
		c.Next()
	}
}

// LogOptions tunes Logger.
type LogOptions struct {
	// Redact scrubs the query string and header values; nil logs neither
	// headers nor an unscrubbed query.
	Redact *Redactor
	// SkipPaths are routes that produce no access log (e.g. /metrics).
	SkipPaths []string
}

// Logger attaches a request-scoped logger and writes one access log line
// per request: info for success, warn for 4xx, error for 5xx or when
// handlers recorded errors with c.Error.
func Logger(opts LogOptions) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(opts.SkipPaths))
	for _, p := range opts.SkipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		start := time.Now()
		path := routeOf(c)

		query := ""
		if opts.Redact != nil {
			query = opts.Redact.Scrub(truncate(c.Request.URL.RawQuery, maxQueryLogLength))
		}

		l := log.With().
			Str("request_id", c.GetString(requestIDKey)).
			Str("user_id", c.GetString(UserIDKey)).
			Str("method", c.Request.Method).
			Str("path", path).
			Str("remote_ip", c.ClientIP()).
			Logger()
		c.Set(loggerKey, &l)

		c.Next()

		if _, ok := skip[path]; ok {
			return
		}

		status := c.Writer.Status()
		var ev *zerolog.Event
		switch {
		case len(c.Errors) > 0:
			ev = l.Error().Str("errors", c.Errors.String())
		case status >= http.StatusInternalServerError:
			ev = l.Error()
		case status >= http.StatusBadRequest:
			ev = l.Warn()
		default:
			ev = l.Info()
		}
		ev = ev.
			Int("status", status).
			Dur("latency", time.Since(start)).
			Int("bytes_out", c.Writer.Size()).
			Str("user_agent", c.Request.UserAgent())
		if query != "" {
			ev = ev.Str("query", query)
		}
		if opts.Redact != nil {
			ev = ev.Interface("headers", opts.Redact.Headers(c.Request.Header))
		}
		ev.Msg("request")
	}
}

// Recovery turns a panic into a JSON 500 carrying the request id and logs the
// stack.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			rid := c.GetString(requestIDKey)
			LoggerFrom(c).Error().
				Interface("panic", rec).
				Bytes("stack", debug.Stack()).
				Msg("panic recovered")

			if c.Writer.Written() {
				c.AbortWithStatus(http.StatusInternalServerError)
				return
			}
			c.Header(HeaderRequestID, rid)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"request_id": rid,
				"code":       "internal_error",
				"message":    "internal server error",
			})
		}()
		c.Next()
	}
}

// LoggerFrom returns the request-scoped logger, or the global logger when
// Logger is not installed.
func LoggerFrom(c *gin.Context) *zerolog.Logger {
	if v, ok := c.Get(loggerKey); ok {
		if lg, ok := v.(*zerolog.Logger); ok {
			return lg
		}
	}
	l := log.Logger
	return &l
}

// routeOf prefers the registered route so that ids stay out of labels and
// logs; unmatched requests fall back to the raw path.
func routeOf(c *gin.Context) string {
	if p := c.FullPath(); p != "" {
		return p
	}
	return c.Request.URL.Path
}

// truncate cuts s to n bytes. n <= 0 disables truncation.
func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	return s[:n] + "…"
}
