package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"centraldoconsumidor/backend/internal/logging"
)

const rateLimitPrefix = "ratelimit:"

// CounterStore counts hits per key in fixed windows that start with the
// first hit.
type CounterStore interface {
	IncrementWindow(ctx context.Context, key string, window time.Duration) (int64, error)
}

// RateLimit allows limit requests per client IP and window. Store errors
// let the request through.
func RateLimit(store CounterStore, limit int, window time.Duration, loc Localizer) gin.HandlerFunc {
	log := logging.New("ratelimit")
	return func(c *gin.Context) {
		count, err := store.IncrementWindow(c.Request.Context(), rateLimitPrefix+c.ClientIP(), window)
		if err != nil {
			log.Warn("rate limit store unavailable", "error", err)
			c.Next()
			return
		}
		if count > int64(limit) {
			c.Header("Retry-After", strconv.Itoa(int(window.Seconds())))
			AbortWithError(c, loc, http.StatusTooManyRequests, "error.rate_limited")
			return
		}
		c.Next()
	}
}
