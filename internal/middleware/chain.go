// Package middleware holds the HTTP middleware stack of the docs server.
package middleware

import (
	"bufio"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/protoworx/rippledocs/internal/config"
	"github.com/protoworx/rippledocs/internal/logging"
)

// Middleware represents a single middleware function
type Middleware func(http.Handler) http.Handler

// Chain manages the HTTP middleware stack.
//
// Middlewares run in the order they were added: the first one added is the
// outermost wrapper and sees the request first.
type Chain struct {
	middlewares []Middleware
	rateLimiter *RateLimiter
}

// Dependencies contains everything the standard stack is built from.
type Dependencies struct {
	Config *config.Config
	Logger logging.Logger
}

// NewChain builds the standard stack: request logging, security headers and,
// when enabled, per-IP rate limiting.
func NewChain(deps Dependencies) *Chain {
	if deps.Config == nil {
		panic("middleware: config cannot be nil")
	}
	logger := deps.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	c := &Chain{}
	c.Add(Logging(logger.WithComponent("http")))
	c.Add(SecurityHeaders(deps.Config.Server.Environment))

	if rl := deps.Config.Server.RateLimit; rl.Enabled {
		c.rateLimiter = NewRateLimiter(RateLimit{
			RequestsPerMinute: rl.RequestsPerMinute,
			BurstLimit:        rl.Burst,
		})
		c.Add(c.rateLimiter.RateLimit())
	}

	return c
}

// Add appends a middleware inside the ones already added.
func (c *Chain) Add(m Middleware) {
	c.middlewares = append(c.middlewares, m)
}

// Apply wraps handler with every middleware of the chain.
func (c *Chain) Apply(handler http.Handler) http.Handler {
	for i := len(c.middlewares) - 1; i >= 0; i-- {
		handler = c.middlewares[i](handler)
	}
	return handler
}

// Len returns the number of middlewares in the chain.
func (c *Chain) Len() int {
	return len(c.middlewares)
}

// Stop releases background resources held by the chain.
func (c *Chain) Stop() {
	if c.rateLimiter != nil {
		c.rateLimiter.Stop()
	}
}

// Logging logs one line per request with its status and duration.
func Logging(logger logging.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			fields := []interface{}{
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"duration", time.Since(start),
				"ip", ClientIP(r),
			}
			if rec.status >= http.StatusInternalServerError {
				logger.Warn(r.Context(), nil, "Request failed", fields...)
				return
			}
			logger.Debug(r.Context(), "Request served", fields...)
		})
	}
}

// statusRecorder remembers the status code written by a handler. It keeps
// hijacking available for WebSocket upgrades.
type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (r *statusRecorder) WriteHeader(status int) {
	if !r.wroteHeader {
		r.status = status
		r.wroteHeader = true
	}
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Write(p []byte) (int, error) {
	r.wroteHeader = true
	return r.ResponseWriter.Write(p)
}

func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("middleware: response writer does not support hijacking")
	}
	r.status = http.StatusSwitchingProtocols
	return hj.Hijack()
}

func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}
