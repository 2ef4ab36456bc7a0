package middleware

import (
	"math"
	"net/http"
	"strconv"

	"clientback/internal/ratelimit"
	"clientback/pkg/utils"

	"github.com/gin-gonic/gin"
)

// KeyFunc derives the rate limit key of a request.
type KeyFunc func(c *gin.Context) string

// ClientIPKey limits per client address, namespaced by route.
func ClientIPKey(c *gin.Context) string {
	return c.FullPath() + "|" + c.ClientIP()
}

// RateLimit rejects requests over the limiter's budget with 429. Limiter failures
// let the request through.
func RateLimit(limiter ratelimit.Limiter, key KeyFunc, onReject func(c *gin.Context)) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := limiter.Allow(c.Request.Context(), key(c))
		if err != nil {
			utils.LogWarn("Rate limiter unavailable, allowing request", map[string]interface{}{
				"error":      err.Error(),
				"request_id": c.GetString(utils.RequestIDKey),
			})
			c.Next()
			return
		}

		c.Header("X-RateLimit-Remaining", strconv.FormatInt(res.Remaining, 10))
		if !res.Allowed {
			retry := int(math.Ceil(res.RetryAfter.Seconds()))
			if retry < 1 {
				retry = 1
			}
			c.Header("Retry-After", strconv.Itoa(retry))
			if onReject != nil {
				onReject(c)
			}
			utils.RespondWithError(c, utils.NewAPIError(http.StatusTooManyRequests, utils.ErrCodeTooManyRequests, "Too many requests", "Retry after "+strconv.Itoa(retry)+"s"))
			return
		}
		c.Next()
	}
}
