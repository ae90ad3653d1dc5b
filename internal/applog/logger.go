// Package applog configures the process-wide zerolog logger and a small
// helper for turning an app.Event into a structured log line.
package applog

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup configures zerolog's global logger. pretty selects a human-friendly
// console writer (for local runs); otherwise newline-delimited JSON is
// written to stdout, suited to container log collection.
func Setup(pretty bool, level string) {
	zerolog.TimeFieldFormat = time.RFC3339
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	if pretty {
		cw := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
		log.Logger = log.Output(cw)
		return
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
