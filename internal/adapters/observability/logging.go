package observability

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger returns a zerolog Logger tagged with the emitting component
// ("pipeline" or "api"), so both binaries' output can be split downstream.
// APP_ENV=dev (or development) uses a human-friendly console writer.
func NewLogger(env, component string) zerolog.Logger {
	l := zerolog.New(os.Stdout).With().Timestamp().Str("component", component).Logger()
	if env == "dev" || env == "development" {
		l = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
			With().Timestamp().Str("component", component).Logger()
	}
	return l
}
