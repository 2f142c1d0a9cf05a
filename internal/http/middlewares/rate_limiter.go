package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
)

type window struct {
	count int
	start time.Time
}

type ipLimiter struct {
	mu      sync.Mutex
	windows map[string]*window
	limit   int
	span    time.Duration
}

func (l *ipLimiter) allow(ip string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[ip]
	if !ok || now.Sub(w.start) > l.span {
		w = &window{start: now}
		l.windows[ip] = w
	}

	if w.count >= l.limit {
		return false
	}
	w.count++

	// keep the map from growing unboundedly with one-off clients
	if len(l.windows) > 10_000 {
		for ip, w := range l.windows {
			if now.Sub(w.start) > l.span {
				delete(l.windows, ip)
			}
		}
	}
	return true
}

// RateLimiter caps requests per client IP, fixed-window counting.
func RateLimiter(limit int, span time.Duration) echo.MiddlewareFunc {
	l := &ipLimiter{
		windows: make(map[string]*window),
		limit:   limit,
		span:    span,
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !l.allow(c.RealIP(), time.Now()) {
				return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
			}
			return next(c)
		}
	}
}
