package utils

import (
	"os"
)

// GetEnv reads an environment variable, falling back when it is unset or
// empty. Used for the handful of switches that live outside the config
// struct, like RESET_DB.
func GetEnv(key, fallback string) string {
	value := os.Getenv(key)
	if len(value) == 0 {
		return fallback
	}
	return value
}
