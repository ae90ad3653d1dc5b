package app

import "losiento/internal/domain"

// EventKind identifies a notable state transition for structured logging
// and metrics; there is no real-time push transport (clients poll).
type EventKind string

const (
	EventGameHosted   EventKind = "game_hosted"
	EventPlayerJoined EventKind = "player_joined"
	EventPlayerLeft   EventKind = "player_left"
	EventSeatKicked   EventKind = "seat_kicked"
	EventGameStarted  EventKind = "game_started"
	EventMovePlayed   EventKind = "move_played"
	EventNoLegalMoves EventKind = "no_legal_moves"
	EventBotStepped   EventKind = "bot_stepped"
	EventGameWon      EventKind = "game_won"
	EventGameAborted  EventKind = "game_aborted"
)

// Event is a point-in-time record of something a Session or Turn operation
// did, intended for the structured logger and for audit/metrics, not for
// client delivery.
type Event struct {
	Kind      EventKind
	GameID    string
	SeatIndex int
	Card      domain.Card
	Detail    string
}
