package handler

import (
	"context"
	"errors"

	"gowa-bridge/internal/helper"
	"gowa-bridge/internal/transport"

	"github.com/labstack/echo/v4"
	"go.mau.fi/whatsmeow/types"
)

// WhatsAppService adalah operasi transport yang dibutuhkan front door.
type WhatsAppService interface {
	Connected() bool
	SendText(ctx context.Context, to types.JID, text string) error
}

// Request body untuk push-reply endpoint
type SendRequest struct {
	Recipient string `json:"recipient"`
	Message   string `json:"message"`
}

// POST /api/send
func SendMessage(svc WhatsAppService) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req SendRequest
		if err := c.Bind(&req); err != nil {
			return ErrorResponse(c, 400, "Invalid request body", "INVALID_REQUEST", err.Error())
		}

		if req.Recipient == "" || req.Message == "" {
			return ErrorResponse(c, 400, "Field 'recipient' and 'message' are required", "VALIDATION_ERROR", "")
		}

		to, err := helper.ParseRecipient(req.Recipient)
		if err != nil {
			return ErrorResponse(c, 400, "Invalid recipient", "INVALID_RECIPIENT", err.Error())
		}

		if err := svc.SendText(c.Request().Context(), to, req.Message); err != nil {
			if errors.Is(err, transport.ErrNotConnected) {
				return ErrorResponse(c, 503, "WhatsApp session is not connected", "NOT_CONNECTED", "Please check /health and pair the device first")
			}
			return ErrorResponse(c, 500, "Failed to send message", "SEND_FAILED", err.Error())
		}

		return c.JSON(200, map[string]interface{}{
			"status":    "sent",
			"recipient": req.Recipient,
		})
	}
}
