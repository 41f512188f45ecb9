package main

import (
	"io"
	"os"
	"time"

	"github.com/hashicorp/go-hclog"
)

// newLogger creates the CLI logger. JSON output is selected with STEGCRYPT_JSON_LOG=1.
func newLogger(level string, output io.Writer) hclog.Logger {
	if output == nil {
		output = os.Stderr
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:       "stegcrypt",
		Level:      hclog.LevelFromString(level),
		JSONFormat: os.Getenv("STEGCRYPT_JSON_LOG") == "1",
		Output:     output,
		TimeFormat: "2006-01-02T15:04:05Z",
		TimeFn: func() time.Time {
			return time.Now().UTC()
		},
	})
}

// getEnv returns the environment value for key, or defaultVal when unset
func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
