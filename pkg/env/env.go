package env

import "os"

// Get reads an environment variable, treating empty as unset so platform
// injected blanks fall back to the configured default.
func Get(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
