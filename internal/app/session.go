// Package app implements the Session Manager and Turn Coordinator: the
// transactional operations a transport layer calls into, each wrapped
// around a single Store.UpdateGame (or a read) so that per-gameId
// mutations are linearized at the persistence boundary.
package app

import (
	"context"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"losiento/internal/app/onboarding"
	"losiento/internal/domain"
	"losiento/internal/store"
)

// Clock lets tests substitute a deterministic time source.
type Clock func() time.Time

// MinPlayersToStartGame is the minimum number of occupied seats required to
// start a game.
const MinPlayersToStartGame = 2

// defaultAutoFillDelay is how long a lobby must sit with exactly one human
// occupant before AutoFillCheck fills the remaining seats with bots.
const defaultAutoFillDelay = 5 * time.Second

// Session is the Session Manager: lobby lifecycle and seat management.
type Session struct {
	store         store.Store
	rng           *rand.Rand
	now           Clock
	names         *onboarding.Service
	onEvent       func(Event)
	autoFillDelay time.Duration
}

// NewSession wires a Session Manager against a Store. rng may be nil to
// default to a time-seeded source; now may be nil to default to time.Now.
func NewSession(s store.Store, rng *rand.Rand, now Clock) *Session {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if now == nil {
		now = time.Now
	}
	return &Session{
		store:         s,
		rng:           rng,
		now:           now,
		names:         onboarding.NewService(rng),
		onEvent:       func(Event) {},
		autoFillDelay: defaultAutoFillDelay,
	}
}

// OnEvent installs a callback invoked after Host, Join, Kick, Leave or Start
// commits. ConfigureSeat, AutoFillCheck and Rejoin emit no event.
func (s *Session) OnEvent(fn func(Event)) { s.onEvent = fn }

// SetAutoFillDelay overrides the idle-lobby delay AutoFillCheck waits out
// before converting open seats to bots. d <= 0 is ignored.
func (s *Session) SetAutoFillDelay(d time.Duration) {
	if d > 0 {
		s.autoFillDelay = d
	}
}

// Store exposes the underlying Store for read-only transport-layer queries
// (fetching state for projection, previewing legal movers) that don't
// belong to the Session Manager's own operation set.
func (s *Session) Store() store.Store { return s.store }

func (s *Session) emit(e Event) { s.onEvent(e) }

// Host creates a new lobby with userID seated as host at seat 0.
func (s *Session) Host(ctx context.Context, userID, displayName string, maxSeats int) (*domain.Game, error) {
	if active, err := s.store.GetActiveGame(ctx, userID); err != nil {
		return nil, err
	} else if active != nil {
		return nil, newErr(ErrAlreadyInGame, "user already has an active game")
	}
	if maxSeats < 2 || maxSeats > domain.NumSeats {
		return nil, newErr(ErrInvalidSeat, "maxSeats must be between 2 and 4")
	}
	if displayName == "" {
		displayName = s.names.GenerateName()
	}

	g := domain.NewGame(uuid.NewString(), userID, displayName, domain.GameSettings{MaxSeats: maxSeats}, s.now())
	if err := s.store.CreateGame(ctx, g); err != nil {
		return nil, err
	}
	if err := s.store.SetActiveGame(ctx, userID, &g.GameID); err != nil {
		return nil, err
	}
	s.emit(Event{Kind: EventGameHosted, GameID: g.GameID, Detail: userID})
	return g, nil
}

// ListJoinable returns every lobby-phase game with at least one open seat.
func (s *Session) ListJoinable(ctx context.Context) ([]*domain.Game, error) {
	return s.store.ListJoinable(ctx)
}

// Join claims the lowest-index open seat of gameId for userID.
func (s *Session) Join(ctx context.Context, userID, gameID, displayName string) (*domain.Game, error) {
	if active, err := s.store.GetActiveGame(ctx, userID); err != nil {
		return nil, err
	} else if active != nil {
		return nil, newErr(ErrAlreadyInGame, "user already has an active game")
	}
	if displayName == "" {
		displayName = s.names.GenerateName()
	}

	updated, err := s.store.UpdateGame(ctx, gameID, func(g *domain.Game) (*domain.Game, error) {
		if g.Phase != domain.PhaseLobby {
			return nil, newErr(ErrLobbyOnly, "game is not in lobby")
		}
		idx := domain.LowestAvailableSeat(g.Seats)
		if idx < 0 {
			return nil, newErr(ErrSeatNotOpen, "no open seat")
		}
		g.Seats[idx].Kind = domain.SeatHuman
		g.Seats[idx].PlayerID = userID
		g.Seats[idx].Name = displayName
		return g, nil
	})
	if err != nil {
		return nil, err
	}
	if err := s.store.SetActiveGame(ctx, userID, &updated.GameID); err != nil {
		return nil, err
	}
	s.emit(Event{Kind: EventPlayerJoined, GameID: gameID, Detail: userID})
	return updated, nil
}

// ConfigureSeat toggles a seat between human-open and bot. Host-only,
// lobby-only, and seat 0 (the host's own seat) may never be retargeted.
func (s *Session) ConfigureSeat(ctx context.Context, userID, gameID string, seatIndex int, isBot bool) (*domain.Game, error) {
	var clearedPlayerID string
	updated, err := s.store.UpdateGame(ctx, gameID, func(g *domain.Game) (*domain.Game, error) {
		if g.HostID != userID {
			return nil, newErr(ErrNotHost, "only the host may configure seats")
		}
		if g.Phase != domain.PhaseLobby {
			return nil, newErr(ErrLobbyOnly, "seats may only be configured in lobby")
		}
		if seatIndex < 0 || seatIndex >= len(g.Seats) {
			return nil, newErr(ErrInvalidSeat, "seat index out of range")
		}
		if seatIndex == 0 {
			return nil, newErr(ErrCannotToggleHostSeat, "the host's own seat cannot be reconfigured")
		}
		seat := &g.Seats[seatIndex]
		if isBot {
			if seat.Kind == domain.SeatHuman {
				clearedPlayerID = seat.PlayerID
				seat.PreviousPlayerID = seat.PlayerID
				seat.PreviousName = seat.Name
			}
			seat.Kind = domain.SeatBot
			seat.PlayerID = ""
			seat.Name = "Bot " + seat.Color
		} else {
			if seat.Kind == domain.SeatHuman {
				clearedPlayerID = seat.PlayerID
			}
			seat.Kind = domain.SeatEmpty
			seat.PlayerID = ""
			seat.Name = ""
			seat.PreviousPlayerID = ""
			seat.PreviousName = ""
		}
		return g, nil
	})
	if err != nil {
		return nil, err
	}
	if clearedPlayerID != "" {
		_ = s.store.SetActiveGame(ctx, clearedPlayerID, nil)
	}
	return updated, nil
}

// Kick converts seatIndex to a bot, host-only, allowed in lobby and active.
func (s *Session) Kick(ctx context.Context, userID, gameID string, seatIndex int) (*domain.Game, error) {
	var clearedPlayerID string
	updated, err := s.store.UpdateGame(ctx, gameID, func(g *domain.Game) (*domain.Game, error) {
		if g.HostID != userID {
			return nil, newErr(ErrNotHost, "only the host may kick")
		}
		if seatIndex < 0 || seatIndex >= len(g.Seats) {
			return nil, newErr(ErrInvalidSeat, "seat index out of range")
		}
		seat := &g.Seats[seatIndex]
		if seat.Kind == domain.SeatHuman {
			clearedPlayerID = seat.PlayerID
			seat.PreviousPlayerID = seat.PlayerID
			seat.PreviousName = seat.Name
		}
		seat.Kind = domain.SeatBot
		seat.PlayerID = ""
		seat.Name = "Bot " + seat.Color
		return g, nil
	})
	if err != nil {
		return nil, err
	}
	if clearedPlayerID != "" {
		_ = s.store.SetActiveGame(ctx, clearedPlayerID, nil)
	}
	s.emit(Event{Kind: EventSeatKicked, GameID: gameID, SeatIndex: seatIndex, Detail: userID})
	return updated, nil
}

// Leave removes userID from gameId. A host leaving an active game aborts
// it; a host leaving a lobby disposes it. A non-host leaving becomes a bot.
func (s *Session) Leave(ctx context.Context, userID, gameID string) (*domain.Game, error) {
	var clearedPlayerIDs []string
	updated, err := s.store.UpdateGame(ctx, gameID, func(g *domain.Game) (*domain.Game, error) {
		if g.HostID == userID {
			for i := range g.Seats {
				if g.Seats[i].Kind == domain.SeatHuman {
					clearedPlayerIDs = append(clearedPlayerIDs, g.Seats[i].PlayerID)
				}
			}
			if g.Phase == domain.PhaseActive {
				g.Phase = domain.PhaseAborted
				g.AbortedReason = "host left"
				if g.State != nil {
					g.State.ResultState = domain.ResultAborted
				}
			} else if g.Phase == domain.PhaseLobby {
				g.Phase = domain.PhaseAborted
				g.AbortedReason = "host disposed lobby"
			}
			return g, nil
		}

		idx := g.SeatForPlayer(userID)
		if idx < 0 {
			return nil, newErr(ErrNotInGame, "user is not seated in this game")
		}
		clearedPlayerIDs = append(clearedPlayerIDs, userID)
		g.Seats[idx].PreviousPlayerID = userID
		g.Seats[idx].PreviousName = g.Seats[idx].Name
		g.Seats[idx].Kind = domain.SeatBot
		g.Seats[idx].PlayerID = ""
		return g, nil
	})
	if err != nil {
		return nil, err
	}
	for _, id := range clearedPlayerIDs {
		_ = s.store.SetActiveGame(ctx, id, nil)
	}
	if updated.Phase == domain.PhaseAborted {
		s.emit(Event{Kind: EventGameAborted, GameID: gameID, Detail: updated.AbortedReason})
	} else {
		s.emit(Event{Kind: EventPlayerLeft, GameID: gameID, Detail: userID})
	}
	return updated, nil
}

// Start transitions a lobby to active: pawns in Start, a fresh shuffled
// deck, seat 0 to move first.
func (s *Session) Start(ctx context.Context, userID, gameID string) (*domain.Game, error) {
	g, err := s.store.UpdateGame(ctx, gameID, func(g *domain.Game) (*domain.Game, error) {
		if g.HostID != userID {
			return nil, newErr(ErrNotHost, "only the host may start the game")
		}
		if g.Phase != domain.PhaseLobby {
			return nil, newErr(ErrLobbyOnly, "game already started")
		}
		if g.OccupiedSeats() < MinPlayersToStartGame {
			return nil, newErr(ErrInsufficientPlayers, "need at least 2 occupied seats")
		}
		if g.HumanSeats() < 1 {
			return nil, newErr(ErrNoHumans, "need at least 1 human player")
		}

		var board []domain.Pawn
		for _, seat := range g.Seats {
			if seat.Occupied() {
				board = append(board, domain.NewSeatPawns(seat.Index)...)
			}
		}
		deckRNG := s.rng
		if g.Settings.DeckSeed != 0 {
			deckRNG = rand.New(rand.NewSource(g.Settings.DeckSeed))
		}
		g.State = &domain.GameState{
			TurnNumber:       0,
			CurrentSeatIndex: 0,
			Deck:             domain.ShuffledDeck(deckRNG),
			Board:            board,
			ResultState:      domain.ResultActive,
		}
		g.Phase = domain.PhaseActive
		return g, nil
	})
	if err != nil {
		return nil, err
	}
	s.emit(Event{Kind: EventGameStarted, GameID: gameID})
	return g, nil
}

// AutoFillCheck converts every open seat to a bot once gameId's lobby has
// held exactly one human occupant for at least the auto-fill delay, so a
// lone player isn't stuck waiting for opponents who never arrive. Like
// BotStep, it is invoked explicitly by a client or ticker rather than a
// background goroutine, and it is idempotent: seats already bot or joined
// are untouched.
func (s *Session) AutoFillCheck(ctx context.Context, gameID string) (*domain.Game, error) {
	return s.store.UpdateGame(ctx, gameID, func(g *domain.Game) (*domain.Game, error) {
		if g.Phase != domain.PhaseLobby {
			return nil, newErr(ErrLobbyOnly, "auto-fill only applies in lobby")
		}
		if g.HumanSeats() != 1 {
			g.LastSinglePlayerAt = nil
			return g, nil
		}
		now := s.now()
		if g.LastSinglePlayerAt == nil {
			g.LastSinglePlayerAt = &now
			return g, nil
		}
		if now.Sub(*g.LastSinglePlayerAt) < s.autoFillDelay {
			return g, nil
		}
		for i := range g.Seats {
			if g.Seats[i].Kind == domain.SeatEmpty {
				g.Seats[i].Kind = domain.SeatBot
				g.Seats[i].Name = "Bot " + g.Seats[i].Color
			}
		}
		return g, nil
	})
}

// Rejoin rebinds userID to the seat it was kicked from or left behind,
// if its activeGameId still points at an active game and that seat is
// now a bot with no claimant.
func (s *Session) Rejoin(ctx context.Context, userID string) (*domain.Game, error) {
	gameID, err := s.store.GetActiveGame(ctx, userID)
	if err != nil {
		return nil, err
	}
	if gameID == nil {
		return nil, newErr(ErrNoActiveGame, "no active game for user")
	}
	return s.store.UpdateGame(ctx, *gameID, func(g *domain.Game) (*domain.Game, error) {
		if g.Phase != domain.PhaseActive {
			return nil, newErr(ErrActiveOnly, "game is not active")
		}
		for i := range g.Seats {
			seat := &g.Seats[i]
			if seat.Kind == domain.SeatBot && seat.PreviousPlayerID == userID {
				seat.Kind = domain.SeatHuman
				seat.PlayerID = userID
				seat.Name = seat.PreviousName
				seat.PreviousPlayerID = ""
				seat.PreviousName = ""
				return g, nil
			}
		}
		return nil, newErr(ErrNotInGame, "no bot seat recorded for rejoin")
	})
}
