package config

import (
	"os"
	"strconv"
	"strings"
)

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

// envBoolOr accepts strconv.ParseBool values as well as the Y/N convention
// used by the configuration file.
func envBoolOr(key string, fallback bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	switch v {
	case "":
		return fallback
	case "Y", "y":
		return true
	case "N", "n":
		return false
	}
	if b, err := strconv.ParseBool(v); err == nil {
		return b
	}
	return fallback
}
