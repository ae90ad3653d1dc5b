package domain

import "testing"

func newTestState(seats int) *GameState {
	var board []Pawn
	for s := 0; s < seats; s++ {
		board = append(board, NewSeatPawns(s)...)
	}
	return &GameState{Board: board, ResultState: ResultActive}
}

// Scenario: leave Start with 1 (spec §8.2).
func TestLeaveStartWithOne(t *testing.T) {
	state := newTestState(4)
	moves := LegalMoves(state, 0, Card1)
	if len(moves) != PawnsPerSeat {
		t.Fatalf("len(moves) = %d, want %d", len(moves), PawnsPerSeat)
	}
	for _, m := range moves {
		if m.DestType != PosTrack || m.DestIndex != StartExitIndex(0) {
			t.Errorf("move dest = %+v, want Track(%d)", m.Dest(), StartExitIndex(0))
		}
	}

	next, err := ApplyMove(state, moves[0], 4)
	if err != nil {
		t.Fatalf("ApplyMove error: %v", err)
	}
	p, _ := findPawn(next.Board, 0, moves[0].PawnID)
	if p.Position != Track(StartExitIndex(0)) {
		t.Fatalf("pawn position = %+v, want Track(%d)", p.Position, StartExitIndex(0))
	}
}

// Scenario: slide bump (spec §8.3) — seat 0 lands on seat 1's first-slide
// start and rides to the slide end, bumping any pawn on the slide segment.
func TestSlideBump(t *testing.T) {
	state := newTestState(4)
	slideStart := FirstSlideIndices(1)[0]
	setPawnPosition(state.Board, 0, 0, Track(normalizeTrack(slideStart-1)))
	setPawnPosition(state.Board, 1, 0, Track(FirstSlideIndices(1)[2])) // on the slide segment

	moves := LegalMoves(state, 0, Card1)
	var chosen Move
	found := false
	for _, m := range moves {
		if m.PawnID == 0 {
			chosen = m
			found = true
			break
		}
	}
	if !found {
		t.Fatalf("no move found for pawn 0")
	}

	wantEnd := SlideEndFromStart(slideStart)
	if chosen.DestType != PosTrack || chosen.DestIndex != wantEnd {
		t.Fatalf("dest = %+v, want Track(%d)", chosen.Dest(), wantEnd)
	}

	next, err := ApplyMove(state, chosen, 4)
	if err != nil {
		t.Fatalf("ApplyMove error: %v", err)
	}
	acting, _ := findPawn(next.Board, 0, 0)
	if acting.Position != Track(wantEnd) {
		t.Fatalf("acting pawn = %+v, want Track(%d)", acting.Position, wantEnd)
	}
	bumped, _ := findPawn(next.Board, 1, 0)
	if !bumped.InStart() {
		t.Fatalf("opponent pawn on slide segment should be bumped to Start, got %+v", bumped.Position)
	}
}

// Scenario: slide into safety (spec §8.4) — landing on a seat's own first
// slide diverts straight to that seat's Safety[0].
func TestSlideIntoSafety(t *testing.T) {
	state := newTestState(4)
	slideStart := FirstSlideIndices(0)[0]
	setPawnPosition(state.Board, 0, 0, Track(normalizeTrack(slideStart-1)))

	moves := LegalMoves(state, 0, Card1)
	var chosen Move
	for _, m := range moves {
		if m.PawnID == 0 {
			chosen = m
		}
	}
	if chosen.DestType != PosSafety || chosen.DestIndex != 0 {
		t.Fatalf("dest = %+v, want Safety(0)", chosen.Dest())
	}

	next, err := ApplyMove(state, chosen, 4)
	if err != nil {
		t.Fatalf("ApplyMove error: %v", err)
	}
	acting, _ := findPawn(next.Board, 0, 0)
	if acting.Position != Safety(0) {
		t.Fatalf("acting pawn = %+v, want Safety(0)", acting.Position)
	}
}

// Scenario: 7-split to Home (spec §8.5).
func TestSevenSplitToHome(t *testing.T) {
	state := newTestState(4)
	setPawnPosition(state.Board, 0, 0, Safety(2)) // needs 3 to reach Home
	setPawnPosition(state.Board, 0, 1, Track(normalizeTrack(SafetyEntryIndex(0)-10)))

	moves := LegalMoves(state, 0, Card7)
	var split Move
	found := false
	for _, m := range moves {
		if m.HasSecondary && m.PawnID == 0 && m.Steps == 3 && m.SecondaryPawnID == 1 && m.SecondarySteps == 4 {
			split = m
			found = true
			break
		}
	}
	if !found {
		t.Fatalf("expected a 3/4 split for pawn 0 -> Home, pawn 1 -> +4; moves=%+v", moves)
	}
	if split.DestType != PosHome {
		t.Fatalf("primary leg dest = %+v, want Home", split.Dest())
	}

	next, err := ApplyMove(state, split, 4)
	if err != nil {
		t.Fatalf("ApplyMove error: %v", err)
	}
	a, _ := findPawn(next.Board, 0, 0)
	if !a.AtHome() {
		t.Fatalf("pawn 0 = %+v, want Home", a.Position)
	}
}

// Scenario: win detection (spec §8.6).
func TestWinDetection(t *testing.T) {
	state := newTestState(4)
	setPawnPosition(state.Board, 0, 0, Home())
	setPawnPosition(state.Board, 0, 1, Home())
	setPawnPosition(state.Board, 0, 2, Home())
	setPawnPosition(state.Board, 0, 3, Safety(3))

	moves := LegalMoves(state, 0, Card2)
	var winMove Move
	found := false
	for _, m := range moves {
		if m.PawnID == 3 && m.DestType == PosHome {
			winMove = m
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a winning move landing pawn 3 in Home; moves=%+v", moves)
	}

	next, err := ApplyMove(state, winMove, 4)
	if err != nil {
		t.Fatalf("ApplyMove error: %v", err)
	}
	if next.ResultState != ResultWin {
		t.Fatalf("result = %v, want win", next.ResultState)
	}
	if next.WinnerSeatIndex == nil || *next.WinnerSeatIndex != 0 {
		t.Fatalf("winnerSeatIndex = %v, want 0", next.WinnerSeatIndex)
	}
}

func TestExactHomeEntryIsIllegal(t *testing.T) {
	state := newTestState(4)
	setPawnPosition(state.Board, 0, 0, Safety(4))
	moves := LegalMoves(state, 0, Card3)
	for _, m := range moves {
		if m.PawnID == 0 {
			t.Fatalf("forward 3 from Safety(4) should overshoot Home and be illegal, got %+v", m)
		}
	}
}

func TestSelfBumpProhibited(t *testing.T) {
	state := newTestState(4)
	setPawnPosition(state.Board, 0, 0, Track(10))
	setPawnPosition(state.Board, 0, 1, Track(13))
	moves := LegalMoves(state, 0, Card3)
	for _, m := range moves {
		if m.PawnID == 0 && m.DestType == PosTrack && m.DestIndex == 13 {
			t.Fatalf("move landing on own pawn should be filtered out: %+v", m)
		}
	}
}

func TestSorryRequiresStartAndTarget(t *testing.T) {
	state := newTestState(4)
	if moves := LegalMoves(state, 0, CardSorry); len(moves) != 0 {
		t.Fatalf("expected no_legal_moves when no opponent is on track, got %+v", moves)
	}

	setPawnPosition(state.Board, 1, 0, Track(30))
	moves := LegalMoves(state, 0, CardSorry)
	if len(moves) != PawnsPerSeat {
		t.Fatalf("len(moves) = %d, want %d", len(moves), PawnsPerSeat)
	}

	next, err := ApplyMove(state, moves[0], 4)
	if err != nil {
		t.Fatalf("ApplyMove error: %v", err)
	}
	bumped, _ := findPawn(next.Board, 1, 0)
	if !bumped.InStart() {
		t.Fatalf("sorry target should be bumped to Start, got %+v", bumped.Position)
	}
	actor, _ := findPawn(next.Board, 0, moves[0].PawnID)
	if actor.Position != Track(30) {
		t.Fatalf("actor should land on target's old space, got %+v", actor.Position)
	}
}

func TestElevenSwitch(t *testing.T) {
	state := newTestState(4)
	setPawnPosition(state.Board, 0, 0, Track(10))
	setPawnPosition(state.Board, 1, 0, Track(40))

	moves := LegalMoves(state, 0, Card11)
	var sw Move
	found := false
	for _, m := range moves {
		if m.HasTarget && m.PawnID == 0 {
			sw = m
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a switch move, got %+v", moves)
	}

	next, err := ApplyMove(state, sw, 4)
	if err != nil {
		t.Fatalf("ApplyMove error: %v", err)
	}
	a, _ := findPawn(next.Board, 0, 0)
	b, _ := findPawn(next.Board, 1, 0)
	if a.Position != Track(40) || b.Position != Track(10) {
		t.Fatalf("switch positions = %+v / %+v, want swapped", a.Position, b.Position)
	}
}

func TestTenFallbackOnlyWhenNoForward(t *testing.T) {
	state := newTestState(4)
	setPawnPosition(state.Board, 0, 0, Safety(0)) // forward 10 overshoots Home

	moves := LegalMoves(state, 0, Card10)
	for _, m := range moves {
		if m.Direction != DirBackward {
			t.Fatalf("expected only backward fallback moves, got %+v", m)
		}
	}
	if len(moves) == 0 {
		t.Fatalf("expected a backward-1 fallback move")
	}
}
