// Package env loads configuration from environment variables, the same
// shape the controller and entity binaries both use: every endpoint this
// system needs is mandatory, so Required is the only helper this package
// exports. Add typed optional lookups here if a future binary needs them.
package env

import (
	"fmt"
	"os"
)

// Required returns the environment variable value, or an error naming the
// missing variable.
func Required(key string) (string, error) {
	v := os.Getenv(key)
	if v == "" {
		return "", fmt.Errorf("missing required environment variable %s", key)
	}
	return v, nil
}
