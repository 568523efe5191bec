package helper

import (
	"os"
	"strconv"
)

// GetEnvAsInt membaca env var integer dengan fallback default.
func GetEnvAsInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
