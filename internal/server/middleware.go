package server

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/tysonmwilliams-source/lineageweaver-sub002/pkg/errors"
	"github.com/tysonmwilliams-source/lineageweaver-sub002/pkg/observability"
)

// statusWriter records the status code written by a handler.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	return w.ResponseWriter.Write(b)
}

// requestLog logs every request with its status and duration.
func (s *Server) requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		observability.HTTP().OnRequest(r.Context(), r.Method, r.URL.Path)

		sw := &statusWriter{ResponseWriter: w}
		next.ServeHTTP(sw, r)

		elapsed := time.Since(start)
		if sw.status == 0 {
			sw.status = http.StatusOK
		}
		observability.HTTP().OnResponse(r.Context(), r.Method, r.URL.Path, sw.status, elapsed)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", sw.status,
			"elapsed", elapsed,
		)
	})
}

// clientLimiter hands out one token bucket per client address. A rate of
// zero disables limiting entirely.
type clientLimiter struct {
	mu      sync.Mutex
	clients map[string]*rate.Limiter
	limit   rate.Limit
	burst   int
}

func newClientLimiter(perSecond float64, burst int) *clientLimiter {
	if burst < 1 {
		burst = 1
	}
	return &clientLimiter{
		clients: make(map[string]*rate.Limiter),
		limit:   rate.Limit(perSecond),
		burst:   burst,
	}
}

func (c *clientLimiter) allow(addr string) bool {
	if c.limit <= 0 {
		return true
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	lim, ok := c.clients[addr]
	if !ok {
		lim = rate.NewLimiter(c.limit, c.burst)
		c.clients[addr] = lim
	}
	return lim.Allow()
}

// rateLimit rejects clients that exceed the configured request rate.
func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		addr := r.RemoteAddr
		if host, _, err := net.SplitHostPort(addr); err == nil {
			addr = host
		}
		if !s.limiter.allow(addr) {
			writeError(w, &errors.RateLimitedError{RetryAfter: 1, Message: "too many requests"})
			return
		}
		next.ServeHTTP(w, r)
	})
}
