package handler

import (
	"github.com/labstack/echo/v4"
)

func ErrorResponse(c echo.Context, code int, message, errCode, detail string) error {
	return c.JSON(code, map[string]interface{}{
		"success": false,
		"message": message,
		"error": map[string]string{
			"code":   errCode,
			"detail": detail,
		},
	})
}
