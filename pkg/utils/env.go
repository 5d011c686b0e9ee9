package utils

import "os"

// Getenv reads an environment variable, falling back to the given
// default when it is unset or empty. Server and database settings in
// config all resolve through here so an empty export never leaks an
// empty string into the configuration.
func Getenv(key, fallback string) string {
	value := os.Getenv(key)
	if len(value) == 0 {
		return fallback
	}
	return value
}
