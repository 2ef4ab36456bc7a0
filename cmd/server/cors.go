package main

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// corsConfig allows every origin when the list is empty or contains "*"; credentials
// are only allowed for explicit origins.
func corsConfig(origins []string) cors.Config {
	config := cors.DefaultConfig()
	config.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "X-Request-ID"}
	config.ExposeHeaders = []string{"X-Request-ID", "Retry-After"}
	config.MaxAge = 12 * time.Hour

	if len(origins) == 0 {
		config.AllowAllOrigins = true
		return config
	}
	for _, o := range origins {
		if o == "*" {
			config.AllowAllOrigins = true
			return config
		}
	}
	config.AllowOrigins = origins
	config.AllowCredentials = true
	return config
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	return cors.New(corsConfig(origins))
}
