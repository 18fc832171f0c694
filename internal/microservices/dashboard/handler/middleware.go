package handler

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"restaurant-dashboard/internal/common/logger"
	"restaurant-dashboard/internal/session"
)

const (
	// CookieName carries the session token for browser clients.
	CookieName      = "auth_token"
	requestIDHeader = "X-Request-Id"
	loggerKey       = "logger"
)

// requestLog tags the request with an id and logs its outcome.
func (h *Handler) requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(requestIDHeader, id)
		log := h.log.WithRequest(id)
		c.Set(loggerKey, log)

		started := time.Now()
		c.Next()

		fields := map[string]any{
			"method":      c.Request.Method,
			"path":        c.FullPath(),
			"status":      c.Writer.Status(),
			"duration_ms": time.Since(started).Milliseconds(),
		}
		if c.Writer.Status() >= http.StatusInternalServerError {
			log.Warn("http_request", fields)
			return
		}
		log.Debug("http_request", fields)
	}
}

func requestLogger(c *gin.Context, fallback *logger.Logger) *logger.Logger {
	if v, ok := c.Get(loggerKey); ok {
		if l, ok := v.(*logger.Logger); ok {
			return l
		}
	}
	return fallback
}

// authenticate resolves the session from the cookie or a bearer token and
// puts it on the request context.
func (h *Handler) authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		tok := tokenOf(c)
		s, ok := h.auth.Authenticate(tok)
		if !ok {
			writeProblem(c, http.StatusUnauthorized, "unauthenticated", "log in to continue")
			return
		}
		c.Request = c.Request.WithContext(session.WithContext(c.Request.Context(), s))
		c.Next()
	}
}

func tokenOf(c *gin.Context) string {
	if v := c.GetHeader("Authorization"); v != "" {
		if tok, ok := strings.CutPrefix(v, "Bearer "); ok {
			return strings.TrimSpace(tok)
		}
	}
	if tok, err := c.Cookie(CookieName); err == nil {
		return tok
	}
	return ""
}

// allow rejects callers whose role lacks the capability.
func allow(can func(session.Session) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := session.FromContext(c.Request.Context())
		if !ok || !can(s) {
			writeProblem(c, http.StatusForbidden, "forbidden", "your role cannot do this")
			return
		}
		c.Next()
	}
}

// rateLimit builds a per-client-IP limiter; an empty rate disables it.
func rateLimit(formatted string, st limiter.Store) (gin.HandlerFunc, error) {
	if formatted == "" {
		return func(c *gin.Context) { c.Next() }, nil
	}
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		return nil, fmt.Errorf("login rate %q: %w", formatted, err)
	}
	if st == nil {
		st = memory.NewStore()
	}
	lim := limiter.New(st, rate)
	return mgin.NewMiddleware(lim, mgin.WithLimitReachedHandler(func(c *gin.Context) {
		writeProblem(c, http.StatusTooManyRequests, "rate_limited", "too many login attempts, try again later")
	})), nil
}
