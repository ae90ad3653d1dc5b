package domain

import "testing"

func TestStartExitIndex(t *testing.T) {
	// Worked example from the rules document: seat 0 leaving Start lands
	// on Track[5].
	if got := StartExitIndex(0); got != 5 {
		t.Fatalf("StartExitIndex(0) = %d, want 5", got)
	}
	for seat := 0; seat < NumSeats; seat++ {
		want := normalizeTrack(15*seat + 5)
		if got := StartExitIndex(seat); got != want {
			t.Errorf("StartExitIndex(%d) = %d, want %d", seat, got, want)
		}
	}
}

func TestSafetyEntryIndex(t *testing.T) {
	for seat := 0; seat < NumSeats; seat++ {
		want := normalizeTrack(15*seat + 2)
		if got := SafetyEntryIndex(seat); got != want {
			t.Errorf("SafetyEntryIndex(%d) = %d, want %d", seat, got, want)
		}
	}
}

func TestFirstSlideIndices(t *testing.T) {
	fs := FirstSlideIndices(1)
	want := [FirstSlideLen]int{16, 17, 18, 19}
	if fs != want {
		t.Fatalf("FirstSlideIndices(1) = %v, want %v", fs, want)
	}
}

func TestForwardFromStart(t *testing.T) {
	outcomes := Forward(0, Start(), 1)
	if len(outcomes) != 1 {
		t.Fatalf("len(outcomes) = %d, want 1", len(outcomes))
	}
	if outcomes[0].Position != Track(5) {
		t.Fatalf("got %+v, want Track(5)", outcomes[0].Position)
	}
}

func TestForwardExactHomeEntry(t *testing.T) {
	// Safety[4] + 1 step reaches Home; +2 overshoots.
	if o := Forward(0, Safety(4), 1); len(o) != 1 || o[0].Position != Home() {
		t.Fatalf("Safety(4)+1 = %+v, want Home", o)
	}
	if o := Forward(0, Safety(4), 2); len(o) != 1 || !o[0].Illegal {
		t.Fatalf("Safety(4)+2 should be illegal, got %+v", o)
	}
}

func TestForwardDualOutcomeNearOwnEntry(t *testing.T) {
	// A pawn sitting exactly on its own seat's safety entry, moving forward,
	// may divert into Safety or continue on the shared track.
	outcomes := Forward(0, Track(SafetyEntryIndex(0)), 3)
	if len(outcomes) != 2 {
		t.Fatalf("len(outcomes) = %d, want 2: %+v", len(outcomes), outcomes)
	}
	sawDiverted, sawTrack := false, false
	for _, o := range outcomes {
		if o.Illegal {
			continue
		}
		if o.Diverted {
			sawDiverted = true
		} else {
			sawTrack = true
		}
	}
	if !sawDiverted || !sawTrack {
		t.Fatalf("expected both diverted and track outcomes, got %+v", outcomes)
	}
}

func TestIsSlideStart(t *testing.T) {
	if seat, ok := IsSlideStart(FirstSlideIndices(2)[0]); !ok || seat != 2 {
		t.Fatalf("IsSlideStart(firstSlide(2)) = (%d, %v), want (2, true)", seat, ok)
	}
	if _, ok := IsSlideStart(SafetyEntryIndex(0) + 10); ok {
		t.Fatalf("expected non-slide index to report ok=false")
	}
}

func TestBackwardFromSafetyExitsToTrack(t *testing.T) {
	o := Backward(0, Safety(1), 3)
	if o.Illegal {
		t.Fatalf("unexpected illegal: %+v", o)
	}
	if o.Position.Kind != PosTrack {
		t.Fatalf("expected track position, got %+v", o.Position)
	}
}

func TestBackwardFromStartIllegal(t *testing.T) {
	if o := Backward(0, Start(), 1); !o.Illegal {
		t.Fatalf("expected illegal backward move from Start")
	}
}
