// Package httpapi maps the JSON HTTP surface of §6 onto the Session
// Manager, Turn Coordinator, and Projection.
package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"losiento/internal/app"
	"losiento/internal/domain"
	"losiento/internal/selector"
	"losiento/internal/store"
)

// Handler wires HTTP handlers against the core app operations.
type Handler struct {
	Session *app.Session
	Turn    *app.Turn
}

// NewHandler constructs a Handler.
func NewHandler(session *app.Session, turn *app.Turn) *Handler {
	return &Handler{Session: session, Turn: turn}
}

// userID extracts the caller identity the transport is responsible for
// authenticating; this server trusts the X-User-Id header, since
// authentication itself is out of scope for the core.
func userID(c *gin.Context) (string, bool) {
	uid := c.GetHeader("X-User-Id")
	if uid == "" {
		return "", false
	}
	return uid, true
}

func requireUser(c *gin.Context) (string, bool) {
	uid, ok := userID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing X-User-Id header"})
	}
	return uid, ok
}

// writeError maps an app.Error, a selector.SelectError, a store error, or
// a plain error to an HTTP status and a stable error-kind body.
func writeError(c *gin.Context, err error) {
	var appErr *app.Error
	if errors.As(err, &appErr) {
		c.JSON(statusForKind(string(appErr.Kind)), gin.H{"error": appErr.Kind, "message": appErr.Message})
		return
	}

	var selErr selector.SelectError
	if errors.As(err, &selErr) {
		c.JSON(statusForKind(string(selErr)), gin.H{"error": string(selErr), "message": selErr.Error()})
		return
	}

	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
		return
	}
	if errors.Is(err, store.ErrConflict) {
		c.JSON(http.StatusConflict, gin.H{"error": "conflict"})
		return
	}

	var ruleErr domain.RuleError
	if errors.As(err, &ruleErr) {
		c.JSON(statusForKind(string(ruleErr)), gin.H{"error": ruleErr})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
}

func statusForKind(kind string) int {
	switch kind {
	case "not_found":
		return http.StatusNotFound
	case "conflict":
		return http.StatusConflict
	case "not_host", "not_your_turn", "not_in_game":
		return http.StatusForbidden
	case "already_in_game", "seat_not_open", "invalid_seat", "cannot_toggle_host_seat",
		"insufficient_players", "no_humans", "lobby_only", "active_only",
		"move_selection_required", "invalid_move_selection_no_match", "invalid_move_selection_ambiguous",
		"illegal_move":
		return http.StatusBadRequest
	case "no_active_game", "game_not_started":
		return http.StatusNotFound
	case "game_over":
		return http.StatusConflict
	case "operation_in_progress":
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}
