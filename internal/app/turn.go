package app

import (
	"context"
	"math/rand"
	"strconv"
	"time"

	"losiento/internal/domain"
	"losiento/internal/metrics"
	"losiento/internal/selector"
	"losiento/internal/store"
)

// botVisibilityDelay is the minimum elapsed time since a game's last update
// before a bot occupying the current seat may take its turn, keeping bot
// turns visible to a polling client rather than chaining instantly.
const botVisibilityDelay = time.Second

// Turn is the Turn Coordinator: applies a single seat's card draw and move
// for both human and bot-driven turns.
type Turn struct {
	store   store.Store
	rng     *rand.Rand
	now     Clock
	onEvent func(Event)
}

// NewTurn wires a Turn Coordinator against a Store.
func NewTurn(s store.Store, rng *rand.Rand, now Clock) *Turn {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if now == nil {
		now = time.Now
	}
	return &Turn{store: s, rng: rng, now: now, onEvent: func(Event) {}}
}

// OnEvent installs a callback invoked after each committed draw/move.
func (t *Turn) OnEvent(fn func(Event)) { t.onEvent = fn }

// PlayHuman draws for userID's seat in gameId and applies payload's
// selection against the resulting legal moves.
func (t *Turn) PlayHuman(ctx context.Context, userID, gameID string, payload selector.Payload, follow *selector.Payload) (*domain.Game, error) {
	start := time.Now()
	defer func() { metrics.OperationDuration.WithLabelValues("play_human").Observe(time.Since(start).Seconds()) }()

	var rec domain.MoveRecord
	g, err := t.store.UpdateGame(ctx, gameID, func(g *domain.Game) (*domain.Game, error) {
		if g.Phase != domain.PhaseActive || g.State == nil || g.State.ResultState != domain.ResultActive {
			return nil, newErr(ErrGameNotStarted, "game is not active")
		}
		seatIdx := g.State.CurrentSeatIndex
		seat := g.Seats[seatIdx]
		if seat.Kind != domain.SeatHuman || seat.PlayerID != userID {
			return nil, newErr(ErrNotYourTurn, "it is not this user's turn")
		}
		turnIndex := g.State.TurnNumber

		card := domain.DrawCard(g.State, t.rng)
		legal := domain.LegalMoves(g.State, seatIdx, card)

		chosen, selErr := selector.Select(legal, payload)
		if selErr != nil {
			if selErr == selector.ErrNoLegalMoves {
				g.State.DiscardPile = append(g.State.DiscardPile, card)
				g.State.CurrentSeatIndex = (seatIdx + 1) % len(g.Seats)
				g.State.TurnNumber++
				g.UpdatedAt = t.now()
				rec = moveRecord(turnIndex, seatIdx, userID, card, domain.Move{Card: card, Seat: seatIdx}, t.now())
				return g, nil
			}
			metrics.SelectorRejections.WithLabelValues(selErr.Error()).Inc()
			return nil, selErr
		}

		next, err := domain.ApplyMove(g.State, chosen, len(g.Seats))
		if err != nil {
			return nil, err
		}
		g.State = next

		if card == domain.Card2 && g.State.ResultState == domain.ResultActive {
			g.State.CurrentSeatIndex = seatIdx
			if err := t.drawAndApplySecond(g.State, seatIdx, len(g.Seats), seatFollow(follow)); err != nil {
				return nil, err
			}
			// The card-2 follow-up is part of the same turn: one
			// move-history entry and one turnNumber increment cover both
			// draws, so the second ApplyMove's own increment is undone here.
			g.State.TurnNumber = turnIndex + 1
		}
		g.UpdatedAt = t.now()
		rec = moveRecord(turnIndex, seatIdx, userID, card, chosen, t.now())
		return g, nil
	})
	if err != nil {
		return nil, err
	}
	if err := t.store.AppendMove(ctx, gameID, rec); err != nil {
		return nil, err
	}
	t.emitTurnOutcome(g)
	return g, nil
}

// moveRecord builds the move-history entry appended on every committed or
// forfeited turn (spec §4.6 step 6).
func moveRecord(turnIndex, seatIdx int, playerID string, card domain.Card, move domain.Move, now time.Time) domain.MoveRecord {
	return domain.MoveRecord{
		Index:     turnIndex,
		SeatIndex: seatIdx,
		PlayerID:  playerID,
		Card:      card,
		Move:      move,
		CreatedAt: now,
	}
}

func seatFollow(p *selector.Payload) selector.Payload {
	if p == nil {
		return selector.Payload{}
	}
	return *p
}

// drawAndApplySecond draws and applies the extra card-2 second draw,
// mutating state in place. Ambiguity in selection is resolved per §4.6:
// a payload wins if present, else exactly one legal option is required,
// else the second card is committed to discard with no move applied.
// The caller is responsible for the turn's single turnNumber increment;
// this only advances CurrentSeatIndex.
func (t *Turn) drawAndApplySecond(state *domain.GameState, seatIdx, maxSeats int, payload selector.Payload) error {
	card := domain.DrawCard(state, t.rng)
	legal := domain.LegalMoves(state, seatIdx, card)

	var chosen domain.Move
	var have bool
	if payload.MoveIndex != nil || payload.Move != nil {
		m, err := selector.Select(legal, payload)
		if err == nil {
			chosen, have = m, true
		} else if err != selector.ErrNoLegalMoves {
			state.DiscardPile = append(state.DiscardPile, card)
			state.CurrentSeatIndex = (seatIdx + 1) % maxSeats
			return nil
		}
	} else if len(legal) == 1 {
		chosen, have = legal[0], true
	}

	if !have {
		state.DiscardPile = append(state.DiscardPile, card)
		state.CurrentSeatIndex = (seatIdx + 1) % maxSeats
		return nil
	}

	next, err := domain.ApplyMove(state, chosen, maxSeats)
	if err != nil {
		return err
	}
	*state = *next
	return nil
}

// BotStep draws and plays one uniformly-random move for gameId's current
// seat, which must be bot-controlled. It refuses to run if the game was
// updated more recently than botVisibilityDelay ago.
func (t *Turn) BotStep(ctx context.Context, gameID string) (*domain.Game, error) {
	start := time.Now()
	defer func() { metrics.OperationDuration.WithLabelValues("bot_step").Observe(time.Since(start).Seconds()) }()

	if locker, ok := t.store.(store.Locker); ok {
		token, err := locker.TryLock(ctx, gameID)
		if err != nil {
			if err == store.ErrLockHeld {
				return nil, newErr(ErrOperationInProgress, "a turn is already in flight for this game")
			}
			return nil, err
		}
		defer func() { _ = locker.Unlock(ctx, gameID, token) }()
	}

	var rec domain.MoveRecord
	g, err := t.store.UpdateGame(ctx, gameID, func(g *domain.Game) (*domain.Game, error) {
		if g.Phase != domain.PhaseActive || g.State == nil || g.State.ResultState != domain.ResultActive {
			return nil, newErr(ErrGameNotStarted, "game is not active")
		}
		seatIdx := g.State.CurrentSeatIndex
		if g.Seats[seatIdx].Kind != domain.SeatBot {
			return nil, newErr(ErrNotYourTurn, "current seat is not a bot")
		}
		if t.now().Sub(g.UpdatedAt) < botVisibilityDelay {
			return nil, newErr(ErrNotYourTurn, "bot step is rate-limited")
		}
		turnIndex := g.State.TurnNumber
		playerID := g.Seats[seatIdx].PreviousPlayerID

		card := domain.DrawCard(g.State, t.rng)
		legal := domain.LegalMoves(g.State, seatIdx, card)

		if len(legal) == 0 {
			g.State.DiscardPile = append(g.State.DiscardPile, card)
			g.State.CurrentSeatIndex = (seatIdx + 1) % len(g.Seats)
			g.State.TurnNumber++
			g.UpdatedAt = t.now()
			rec = moveRecord(turnIndex, seatIdx, playerID, card, domain.Move{Card: card, Seat: seatIdx}, t.now())
			return g, nil
		}

		chosen := legal[t.rng.Intn(len(legal))]
		next, err := domain.ApplyMove(g.State, chosen, len(g.Seats))
		if err != nil {
			return nil, err
		}
		g.State = next

		if card == domain.Card2 && g.State.ResultState == domain.ResultActive {
			g.State.CurrentSeatIndex = seatIdx
			if err := t.botDrawSecond(g.State, seatIdx, len(g.Seats)); err != nil {
				return nil, err
			}
			g.State.TurnNumber = turnIndex + 1
		}
		g.UpdatedAt = t.now()
		rec = moveRecord(turnIndex, seatIdx, playerID, card, chosen, t.now())
		return g, nil
	})
	if err != nil {
		return nil, err
	}
	if err := t.store.AppendMove(ctx, gameID, rec); err != nil {
		return nil, err
	}
	metrics.BotSteps.Inc()
	t.emit(Event{Kind: EventBotStepped, GameID: gameID})
	t.emitTurnOutcome(g)
	return g, nil
}

// emitTurnOutcome counts a just-committed turn and logs its outcome:
// game_won for a winning turn, move_played otherwise (a turn forfeited for
// lack of legal moves is also logged as move_played).
func (t *Turn) emitTurnOutcome(g *domain.Game) {
	if g.State == nil {
		return
	}
	if len(g.State.DiscardPile) > 0 {
		last := g.State.DiscardPile[len(g.State.DiscardPile)-1]
		// A turn that did not win has already advanced the seat by one.
		acting := g.State.CurrentSeatIndex
		if g.State.ResultState != domain.ResultWin {
			acting = (acting + len(g.Seats) - 1) % len(g.Seats)
		}
		bot := strconv.FormatBool(g.Seats[acting].Kind == domain.SeatBot)
		metrics.TurnsPlayed.WithLabelValues(string(last), bot).Inc()
	}
	if g.State.ResultState == domain.ResultWin {
		t.emit(Event{Kind: EventGameWon, GameID: g.GameID, SeatIndex: *g.State.WinnerSeatIndex})
		return
	}
	t.emit(Event{Kind: EventMovePlayed, GameID: g.GameID})
}

func (t *Turn) emit(e Event) { t.onEvent(e) }

// botDrawSecond draws and plays the bot's card-2 follow-up. Like
// drawAndApplySecond, it leaves the turn's single turnNumber increment to
// the caller.
func (t *Turn) botDrawSecond(state *domain.GameState, seatIdx, maxSeats int) error {
	card := domain.DrawCard(state, t.rng)
	legal := domain.LegalMoves(state, seatIdx, card)
	if len(legal) == 0 {
		state.DiscardPile = append(state.DiscardPile, card)
		state.CurrentSeatIndex = (seatIdx + 1) % maxSeats
		return nil
	}
	chosen := legal[t.rng.Intn(len(legal))]
	next, err := domain.ApplyMove(state, chosen, maxSeats)
	if err != nil {
		return err
	}
	*state = *next
	return nil
}
