package applog

import (
	"github.com/rs/zerolog/log"

	"losiento/internal/app"
)

// LogEvent writes an app.Event as a structured log line.
func LogEvent(e app.Event) {
	log.Info().
		Str("kind", string(e.Kind)).
		Str("gameId", e.GameID).
		Int("seat", e.SeatIndex).
		Str("card", string(e.Card)).
		Str("detail", e.Detail).
		Msg("game event")
}
