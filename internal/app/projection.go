package app

import (
	"losiento/internal/domain"
	"losiento/internal/selector"
)

// GameView is the client-facing projection of a Game: it omits deck
// contents and deck ordering, carrying only the deck's size.
type GameView struct {
	GameID         string            `json:"gameId"`
	Phase          domain.Phase      `json:"phase"`
	HostID         string            `json:"hostId"`
	HostName       string            `json:"hostName"`
	Seats          []SeatView        `json:"seats"`
	State          *GameStateView    `json:"state,omitempty"`
	ViewerSeat     *int              `json:"viewerSeatIndex,omitempty"`
}

// SeatView omits PreviousPlayerID/PreviousName, which are server-internal
// rejoin bookkeeping, not part of the public projection.
type SeatView struct {
	Index int             `json:"index"`
	Color string          `json:"color"`
	Kind  domain.SeatKind `json:"kind"`
	Name  string          `json:"name,omitempty"`
	Pawns []domain.Pawn   `json:"pawns,omitempty"`
}

// GameStateView mirrors domain.GameState but reveals deck size, not contents.
type GameStateView struct {
	TurnNumber       int           `json:"turnNumber"`
	CurrentSeatIndex int           `json:"currentSeatIndex"`
	DeckSize         int           `json:"deckSize"`
	DiscardPile      []domain.Card `json:"discardPile"`
	Board            []domain.Pawn `json:"board"`
	WinnerSeatIndex  *int          `json:"winnerSeatIndex,omitempty"`
	Result           domain.Result `json:"result"`
}

// ToClient projects g for viewerUserID, who may or may not hold a seat.
func ToClient(g *domain.Game, viewerUserID string) GameView {
	view := GameView{
		GameID:   g.GameID,
		Phase:    g.Phase,
		HostID:   g.HostID,
		HostName: g.HostName,
		Seats:    make([]SeatView, len(g.Seats)),
	}
	for i, s := range g.Seats {
		view.Seats[i] = SeatView{Index: s.Index, Color: s.Color, Kind: s.Kind, Name: s.Name, Pawns: g.PawnsForSeat(s.Index)}
	}
	if g.State != nil {
		view.State = &GameStateView{
			TurnNumber:       g.State.TurnNumber,
			CurrentSeatIndex: g.State.CurrentSeatIndex,
			DeckSize:         len(g.State.Deck),
			DiscardPile:      g.State.DiscardPile,
			Board:            g.State.Board,
			WinnerSeatIndex:  g.State.WinnerSeatIndex,
			Result:           g.State.ResultState,
		}
	}
	if idx := g.SeatForPlayer(viewerUserID); idx >= 0 {
		view.ViewerSeat = &idx
	}
	return view
}

// LegalMoversView is the response shape for legalMoversPreview.
type LegalMoversView struct {
	GameID  string        `json:"gameId"`
	Card    domain.Card   `json:"card"`
	PawnIDs []int         `json:"pawnIds"`
	Moves   []domain.Move `json:"moves"`
}

// LegalMoversPreview is a non-mutating preview of the current seat's next
// draw: it clones state, takes the top card of a copy of the deck, and
// enumerates legal moves for it. No randomness is consumed, so it is
// deterministic for a fixed (gameId, turnNumber, |discardPile|). When the
// deck is empty it returns a game_not_started error rather than previewing
// the rebuild that the next real draw performs.
func LegalMoversPreview(g *domain.Game) (LegalMoversView, error) {
	if g.State == nil || len(g.State.Deck) == 0 {
		return LegalMoversView{}, newErr(ErrGameNotStarted, "no deck to preview")
	}
	clone := *g.State
	clone.Deck = append([]domain.Card{}, g.State.Deck...)
	clone.Board = append([]domain.Pawn{}, g.State.Board...)

	card := clone.Deck[len(clone.Deck)-1]
	clone.Deck = clone.Deck[:len(clone.Deck)-1]

	moves := domain.LegalMoves(&clone, clone.CurrentSeatIndex, card)

	seen := map[int]bool{}
	var pawnIDs []int
	for _, m := range moves {
		if !seen[m.PawnID] {
			seen[m.PawnID] = true
			pawnIDs = append(pawnIDs, m.PawnID)
		}
	}
	return LegalMoversView{GameID: g.GameID, Card: card, PawnIDs: pawnIDs, Moves: moves}, nil
}

// PartialMoveFromMove builds a selector.PartialMove from m's selectable
// fields, for replaying a previewed move. It re-selects m only when no other
// legal move shares those fields: destinations and target seats are not
// carried, so the two outcomes of a walk that may divert into Safety, or
// targets in different seats with the same pawn index, stay ambiguous.
func PartialMoveFromMove(m domain.Move) selector.PartialMove {
	pawnID := m.PawnID
	dir := m.Direction
	steps := m.Steps
	pm := selector.PartialMove{PawnID: &pawnID, Direction: &dir, Steps: &steps}
	if m.HasTarget {
		t := m.TargetPawnID
		pm.TargetPawnID = &t
	}
	if m.HasSecondary {
		s := m.SecondaryPawnID
		sd := m.SecondaryDirection
		ss := m.SecondarySteps
		pm.SecondaryPawnID = &s
		pm.SecondaryDirection = &sd
		pm.SecondarySteps = &ss
	}
	return pm
}
