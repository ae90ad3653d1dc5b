package app

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"losiento/internal/store"
)

func TestToClientHidesDeckRevealsSize(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	st := store.NewMemoryStore()
	session := NewSession(st, rand.New(rand.NewSource(1)), func() time.Time { return now })
	ctx := context.Background()
	g, _ := session.Host(ctx, "host", "Host", 2)
	g, _ = session.Join(ctx, "u2", g.GameID, "Bob")
	g, _ = session.Start(ctx, "host", g.GameID)

	view := ToClient(g, "host")
	if view.State == nil || view.State.DeckSize != len(g.State.Deck) {
		t.Fatalf("view state = %+v, want DeckSize %d", view.State, len(g.State.Deck))
	}
	if view.ViewerSeat == nil || *view.ViewerSeat != 0 {
		t.Fatalf("viewer seat = %v, want 0", view.ViewerSeat)
	}
}

func TestToClientViewerNotSeated(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	st := store.NewMemoryStore()
	session := NewSession(st, rand.New(rand.NewSource(1)), func() time.Time { return now })
	ctx := context.Background()
	g, _ := session.Host(ctx, "host", "Host", 4)

	view := ToClient(g, "stranger")
	if view.ViewerSeat != nil {
		t.Fatalf("viewer seat = %v, want nil", view.ViewerSeat)
	}
}

func TestLegalMoversPreviewIsDeterministicAndNonMutating(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	st := store.NewMemoryStore()
	session := NewSession(st, rand.New(rand.NewSource(1)), func() time.Time { return now })
	ctx := context.Background()
	g, _ := session.Host(ctx, "host", "Host", 2)
	g, _ = session.Join(ctx, "u2", g.GameID, "Bob")
	g, _ = session.Start(ctx, "host", g.GameID)

	before := len(g.State.Deck)
	view1, err := LegalMoversPreview(g)
	if err != nil {
		t.Fatalf("LegalMoversPreview: %v", err)
	}
	view2, err := LegalMoversPreview(g)
	if err != nil {
		t.Fatalf("LegalMoversPreview: %v", err)
	}
	if len(g.State.Deck) != before {
		t.Fatalf("deck mutated by preview: before=%d after=%d", before, len(g.State.Deck))
	}
	if view1.Card != view2.Card || len(view1.Moves) != len(view2.Moves) {
		t.Fatalf("preview not deterministic: %+v vs %+v", view1, view2)
	}
}
