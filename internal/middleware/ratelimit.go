package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taskmanager/internal/pkg/rate"
	"taskmanager/internal/pkg/response"
)

// RateLimit rejects requests over the limiter's per-window budget, keyed
// by route name plus client IP.
func RateLimit(limiter *rate.Limiter, route string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow(route + "|" + c.ClientIP()) {
			response.AbortError(c, http.StatusTooManyRequests, response.KindRateLimited, "Too many requests, try again later")
			return
		}
		c.Next()
	}
}
