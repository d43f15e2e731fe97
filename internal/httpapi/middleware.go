package httpapi

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/alexanderramin/rebound/internal/auth"
	"github.com/alexanderramin/rebound/internal/contract"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const userIDKey = "rebound_user_id"

func userID(c *gin.Context) string {
	return c.GetString(userIDKey)
}

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// requireUser resolves the bearer token to a user id.
func requireUser(tokens *auth.Tokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokens == nil {
			writeBody(c, http.StatusUnauthorized, contract.ErrUnauthorized, "authentication is not configured")
			return
		}
		id, err := tokens.Verify(bearerToken(c))
		if err != nil {
			msg := "invalid token"
			if errors.Is(err, auth.ErrMissingToken) {
				msg = "missing bearer token"
			}
			writeBody(c, http.StatusUnauthorized, contract.ErrUnauthorized, msg)
			return
		}
		c.Set(userIDKey, id)
		c.Next()
	}
}

// limiterIdle is how long an unused limiter is kept. A limiter idle for a
// full minute has refilled its burst, so dropping it changes nothing.
const limiterIdle = time.Minute

type limiterEntry struct {
	lim  *rate.Limiter
	seen time.Time
}

type userLimiters struct {
	mu        sync.Mutex
	perMin    int
	now       func() time.Time
	entries   map[string]*limiterEntry
	lastSweep time.Time
}

func newUserLimiters(perMin int, now func() time.Time) *userLimiters {
	return &userLimiters{
		perMin:    perMin,
		now:       now,
		entries:   make(map[string]*limiterEntry),
		lastSweep: now(),
	}
}

// allow spends one token from id's limiter, evicting idle limiters at most
// once per limiterIdle.
func (l *userLimiters) allow(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	if now.Sub(l.lastSweep) >= limiterIdle {
		for k, e := range l.entries {
			if now.Sub(e.seen) >= limiterIdle {
				delete(l.entries, k)
			}
		}
		l.lastSweep = now
	}
	e, ok := l.entries[id]
	if !ok {
		e = &limiterEntry{lim: rate.NewLimiter(rate.Every(time.Minute/time.Duration(l.perMin)), l.perMin)}
		l.entries[id] = e
	}
	e.seen = now
	return e.lim.AllowN(now, 1)
}

// rateLimit allows perMinute requests per user with a full-minute burst.
func rateLimit(perMinute int) gin.HandlerFunc {
	if perMinute <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	limiters := newUserLimiters(perMinute, time.Now)
	return func(c *gin.Context) {
		if !limiters.allow(userID(c)) {
			c.Header("Retry-After", "60")
			writeBody(c, http.StatusTooManyRequests, contract.ErrRateLimited, "too many requests")
			return
		}
		c.Next()
	}
}

func accessLog(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.InfoContext(c.Request.Context(), "http_request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"user_id", userID(c),
		)
	}
}

func recoverPanics(logger *slog.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered any) {
		logger.ErrorContext(c.Request.Context(), "http_panic", "path", c.Request.URL.Path, "panic", recovered)
		writeBody(c, http.StatusInternalServerError, contract.ErrInternal, "internal error")
	})
}
