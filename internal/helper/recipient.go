package helper

import (
	"fmt"
	"regexp"
	"strings"

	"go.mau.fi/whatsmeow/types"
)

var (
	phoneChars = regexp.MustCompile(`^[\d\s\+\-\(\)]+$`)
	nonDigits  = regexp.MustCompile(`[^\d]`)
)

// ParseRecipient menerima JID lengkap ("123@g.us", "628xx@s.whatsapp.net")
// atau nomor telepon internasional dan mengembalikan JID tujuan.
func ParseRecipient(raw string) (types.JID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return types.JID{}, fmt.Errorf("recipient is empty")
	}

	if strings.Contains(raw, "@") {
		jid, err := types.ParseJID(raw)
		if err != nil {
			return types.JID{}, fmt.Errorf("invalid JID: %w", err)
		}
		if jid.User == "" || jid.Server == "" {
			return types.JID{}, fmt.Errorf("invalid JID: missing user or server")
		}
		return jid, nil
	}

	// Nomor telepon: hanya terima digit, +, -, (, ), spasi
	if !phoneChars.MatchString(raw) {
		return types.JID{}, fmt.Errorf("invalid phone number format: contains invalid characters")
	}

	cleaned := nonDigits.ReplaceAllString(raw, "")
	if len(cleaned) < 8 || len(cleaned) > 15 {
		return types.JID{}, fmt.Errorf("invalid phone number length")
	}

	return types.NewJID(cleaned, types.DefaultUserServer), nil
}
