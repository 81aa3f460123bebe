package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/huyteo/Server-danentang-GK/pkg/logger"
)

// Checker reports whether a dependency is usable.
type Checker func(ctx context.Context) error

// Dependency is one named entry of the readiness report.
type Dependency struct {
	Name  string
	Check Checker
}

var startTime = time.Now()

// RegisterHealth mounts /health (liveness) and /ready. /ready answers 503
// with the per-dependency map when any check fails.
func RegisterHealth(r gin.IRouter, deps ...Dependency) {
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})

	r.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		ready := true
		status := map[string]bool{}
		for _, d := range deps {
			err := d.Check(ctx)
			status[d.Name] = err == nil
			if err != nil {
				ready = false
				logger.Warnf("readiness: %s unavailable: %v", d.Name, err)
			}
		}

		uptime := time.Since(startTime).Round(time.Second).String()
		if !ready {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "deps": status, "uptime": uptime})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready", "deps": status, "uptime": uptime})
	})
}
