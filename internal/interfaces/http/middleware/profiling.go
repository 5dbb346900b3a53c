package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/pethotel/backend/internal/infrastructure/telemetry"
)

// Profiling runs the remaining chain under Pyroscope labels for the matched
// route, the method and the tenant. Unmatched routes and skipPaths are not
// labelled.
func Profiling(enabled bool, skipPaths ...string) gin.HandlerFunc {
	if !enabled {
		return func(c *gin.Context) { c.Next() }
	}
	skip := make(map[string]bool, len(skipPaths))
	for _, p := range skipPaths {
		skip[p] = true
	}

	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" || skip[route] {
			c.Next()
			return
		}
		labels := telemetry.HTTPRequestLabels(route, c.Request.Method, c.GetString(TenantIDKey))
		telemetry.WithProfilingLabels(c.Request.Context(), labels, func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}
