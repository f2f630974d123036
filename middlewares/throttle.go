package middlewares

import (
	"fmt"
	"net/http"

	"github.com/PabloUrbano2000/little-lemon-api/pkg/resp"
	"github.com/PabloUrbano2000/little-lemon-api/pkg/throttle"

	"github.com/gin-gonic/gin"
)

// Throttle limits requests per window: per user id when authenticated,
// per client IP otherwise. A limiter failure lets the request through.
func Throttle(l throttle.Limiter, anonLimit, userLimit int) gin.HandlerFunc {
	if l == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		caller := CallerFrom(c)
		key, limit := "anon:"+c.ClientIP(), anonLimit
		if caller.Authenticated {
			key, limit = fmt.Sprintf("user:%d", caller.ID), userLimit
		}
		if limit <= 0 {
			c.Next()
			return
		}

		ok, err := l.Allow(c.Request.Context(), key, limit)
		if err != nil {
			LoggerFrom(c).Warn("throttle check failed", "key", key, "err", err)
			c.Next()
			return
		}
		if !ok {
			c.Header("Retry-After", "60")
			resp.Abort(c, http.StatusTooManyRequests, "request was throttled")
			return
		}
		c.Next()
	}
}
