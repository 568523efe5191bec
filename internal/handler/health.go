package handler

import (
	"github.com/labstack/echo/v4"
)

// GET /health
func HealthCheck(svc WhatsAppService) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(200, map[string]interface{}{
			"status":    "ok",
			"connected": svc.Connected(),
		})
	}
}
