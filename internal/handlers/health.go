package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Pinger reports whether a backing store is reachable
type Pinger interface {
	Ping() error
}

// Root describes the service
func Root(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"message": "PaperSwipe API",
		"version": "1.0.0",
		"docs":    "/health",
	})
}

// HealthCheck reports liveness, including database reachability
func HealthCheck(db Pinger) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := db.Ping(); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{
				"status":   "unhealthy",
				"database": err.Error(),
			})
		}
		return c.JSON(http.StatusOK, map[string]string{
			"status":   "healthy",
			"service":  "paperswipe-api",
			"database": "ok",
		})
	}
}
