package app

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"losiento/internal/domain"
	"losiento/internal/store"
)

func newTestSession() *Session {
	rng := rand.New(rand.NewSource(1))
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return NewSession(store.NewMemoryStore(), rng, func() time.Time { return now })
}

func TestHostCreatesLobbyWithHostSeated(t *testing.T) {
	s := newTestSession()
	g, err := s.Host(context.Background(), "u1", "Alice", 4)
	if err != nil {
		t.Fatalf("Host: %v", err)
	}
	if g.Phase != domain.PhaseLobby {
		t.Fatalf("phase = %v, want lobby", g.Phase)
	}
	if g.Seats[0].Kind != domain.SeatHuman || g.Seats[0].PlayerID != "u1" {
		t.Fatalf("seat 0 = %+v, want u1 seated", g.Seats[0])
	}
}

func TestHostRejectsSecondActiveGame(t *testing.T) {
	s := newTestSession()
	ctx := context.Background()
	if _, err := s.Host(ctx, "u1", "Alice", 4); err != nil {
		t.Fatalf("Host: %v", err)
	}
	_, err := s.Host(ctx, "u1", "Alice", 4)
	if appErr, ok := err.(*Error); !ok || appErr.Kind != ErrAlreadyInGame {
		t.Fatalf("err = %v, want ErrAlreadyInGame", err)
	}
}

func TestJoinClaimsLowestOpenSeat(t *testing.T) {
	s := newTestSession()
	ctx := context.Background()
	g, err := s.Host(ctx, "host", "Host", 4)
	if err != nil {
		t.Fatalf("Host: %v", err)
	}
	g, err = s.Join(ctx, "u2", g.GameID, "Bob")
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	if g.Seats[1].PlayerID != "u2" {
		t.Fatalf("seat 1 = %+v, want u2", g.Seats[1])
	}
}

func TestJoinRejectsFullLobby(t *testing.T) {
	s := newTestSession()
	ctx := context.Background()
	g, _ := s.Host(ctx, "host", "Host", 2)
	g, err := s.Join(ctx, "u2", g.GameID, "Bob")
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	_, err = s.Join(ctx, "u3", g.GameID, "Carol")
	if appErr, ok := err.(*Error); !ok || appErr.Kind != ErrSeatNotOpen {
		t.Fatalf("err = %v, want ErrSeatNotOpen", err)
	}
}

func TestConfigureSeatCannotToggleHost(t *testing.T) {
	s := newTestSession()
	ctx := context.Background()
	g, _ := s.Host(ctx, "host", "Host", 4)
	_, err := s.ConfigureSeat(ctx, "host", g.GameID, 0, true)
	if appErr, ok := err.(*Error); !ok || appErr.Kind != ErrCannotToggleHostSeat {
		t.Fatalf("err = %v, want ErrCannotToggleHostSeat", err)
	}
}

func TestConfigureSeatOpenClearsHumanActiveGame(t *testing.T) {
	s := newTestSession()
	ctx := context.Background()
	g, _ := s.Host(ctx, "host", "Host", 4)
	g, _ = s.Join(ctx, "u2", g.GameID, "Bob")

	_, err := s.ConfigureSeat(ctx, "host", g.GameID, 1, false)
	if err != nil {
		t.Fatalf("ConfigureSeat: %v", err)
	}
	if active, err := s.Store().GetActiveGame(ctx, "u2"); err != nil || active != nil {
		t.Fatalf("u2's active game = %v, %v, want cleared", active, err)
	}
}

func TestKickRetainsIdentityForRejoin(t *testing.T) {
	s := newTestSession()
	ctx := context.Background()
	g, _ := s.Host(ctx, "host", "Host", 4)
	g, _ = s.Join(ctx, "u2", g.GameID, "Bob")

	g, err := s.Kick(ctx, "host", g.GameID, 1)
	if err != nil {
		t.Fatalf("Kick: %v", err)
	}
	if g.Seats[1].Kind != domain.SeatBot {
		t.Fatalf("seat 1 kind = %v, want bot", g.Seats[1].Kind)
	}
	if g.Seats[1].PreviousPlayerID != "u2" {
		t.Fatalf("seat 1 PreviousPlayerID = %q, want u2", g.Seats[1].PreviousPlayerID)
	}
}

func TestStartRequiresMinimumPlayers(t *testing.T) {
	s := newTestSession()
	ctx := context.Background()
	g, _ := s.Host(ctx, "host", "Host", 4)
	_, err := s.Start(ctx, "host", g.GameID)
	if appErr, ok := err.(*Error); !ok || appErr.Kind != ErrInsufficientPlayers {
		t.Fatalf("err = %v, want ErrInsufficientPlayers", err)
	}
}

func TestStartDealsBoardAndActivatesGame(t *testing.T) {
	s := newTestSession()
	ctx := context.Background()
	g, _ := s.Host(ctx, "host", "Host", 4)
	g, _ = s.Join(ctx, "u2", g.GameID, "Bob")

	g, err := s.Start(ctx, "host", g.GameID)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if g.Phase != domain.PhaseActive {
		t.Fatalf("phase = %v, want active", g.Phase)
	}
	if g.State == nil || len(g.State.Deck) != domain.DeckSize {
		t.Fatalf("state deck = %v, want full deck", g.State)
	}
	if len(g.State.Board) != 2*domain.PawnsPerSeat {
		t.Fatalf("board len = %d, want %d", len(g.State.Board), 2*domain.PawnsPerSeat)
	}
}

func TestRejoinRebindsKickedSeat(t *testing.T) {
	s := newTestSession()
	ctx := context.Background()
	g, _ := s.Host(ctx, "host", "Host", 4)
	g, _ = s.Join(ctx, "u2", g.GameID, "Bob")
	g, _ = s.Start(ctx, "host", g.GameID)
	g, err := s.Kick(ctx, "host", g.GameID, 1)
	if err != nil {
		t.Fatalf("Kick: %v", err)
	}

	g, err = s.Rejoin(ctx, "u2")
	if err != nil {
		t.Fatalf("Rejoin: %v", err)
	}
	if g.Seats[1].Kind != domain.SeatHuman || g.Seats[1].PlayerID != "u2" {
		t.Fatalf("seat 1 = %+v, want u2 rebound", g.Seats[1])
	}
}

func TestRejoinWithoutActiveGame(t *testing.T) {
	s := newTestSession()
	_, err := s.Rejoin(context.Background(), "ghost")
	if appErr, ok := err.(*Error); !ok || appErr.Kind != ErrNoActiveGame {
		t.Fatalf("err = %v, want ErrNoActiveGame", err)
	}
}

func TestAutoFillCheckWaitsOutDelayThenFillsOpenSeats(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cur := now
	s := NewSession(store.NewMemoryStore(), rand.New(rand.NewSource(1)), func() time.Time { return cur })
	s.SetAutoFillDelay(5 * time.Second)
	ctx := context.Background()
	g, _ := s.Host(ctx, "host", "Host", 4)

	g, err := s.AutoFillCheck(ctx, g.GameID)
	if err != nil {
		t.Fatalf("AutoFillCheck: %v", err)
	}
	for i := 1; i < len(g.Seats); i++ {
		if g.Seats[i].Kind != domain.SeatEmpty {
			t.Fatalf("seat %d = %v, want still open before the delay elapses", i, g.Seats[i].Kind)
		}
	}

	cur = cur.Add(5 * time.Second)
	g, err = s.AutoFillCheck(ctx, g.GameID)
	if err != nil {
		t.Fatalf("AutoFillCheck: %v", err)
	}
	for i := 1; i < len(g.Seats); i++ {
		if g.Seats[i].Kind != domain.SeatBot {
			t.Fatalf("seat %d = %v, want bot-filled after the delay", i, g.Seats[i].Kind)
		}
	}
}

func TestLeaveByHostAbortsActiveGame(t *testing.T) {
	s := newTestSession()
	ctx := context.Background()
	g, _ := s.Host(ctx, "host", "Host", 4)
	g, _ = s.Join(ctx, "u2", g.GameID, "Bob")
	g, _ = s.Start(ctx, "host", g.GameID)

	g, err := s.Leave(ctx, "host", g.GameID)
	if err != nil {
		t.Fatalf("Leave: %v", err)
	}
	if g.Phase != domain.PhaseAborted || g.State.ResultState != domain.ResultAborted {
		t.Fatalf("game = %+v, want aborted", g)
	}
}
