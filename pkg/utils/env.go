package utils

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Getenv retrieves the value of the environment variable named by the key.
// If the variable is not present or its value is empty, Getenv returns the fallback string.
func Getenv(key, fallback string) string {
	value := os.Getenv(key)
	if len(value) == 0 {
		return fallback
	}
	return value
}

// GetenvInt is Getenv for integers; unparsable values are logged and fall back.
func GetenvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		warnUnparsable(key, value, fallback, err)
		return fallback
	}
	return n
}

// GetenvBool accepts the strconv.ParseBool spellings ("1", "true", "false", ...).
func GetenvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	b, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		warnUnparsable(key, value, fallback, err)
		return fallback
	}
	return b
}

// GetenvDuration parses values such as "15m" or "72h".
func GetenvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		warnUnparsable(key, value, fallback, err)
		return fallback
	}
	return d
}

// GetenvCSV splits a comma separated variable, dropping empty items.
func GetenvCSV(key string, fallback []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

func warnUnparsable(key, value string, fallback interface{}, err error) {
	log.Warn().
		Str("key", key).
		Str("value", value).
		Interface("fallback", fallback).
		Err(err).
		Msg("Ignoring unparsable environment variable")
}
