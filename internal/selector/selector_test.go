package selector

import (
	"errors"
	"testing"

	"losiento/internal/domain"
)

func moves(n int) []domain.Move {
	out := make([]domain.Move, n)
	for i := range out {
		out[i] = domain.Move{PawnID: i, Steps: i + 1}
	}
	return out
}

func TestSelectEmptySet(t *testing.T) {
	_, err := Select(nil, Payload{})
	if !errors.Is(err, ErrNoLegalMoves) {
		t.Fatalf("err = %v, want ErrNoLegalMoves", err)
	}
}

func TestSelectImplicitSingle(t *testing.T) {
	m, err := Select(moves(1), Payload{})
	if err != nil || m.PawnID != 0 {
		t.Fatalf("got (%+v, %v), want (pawn 0, nil)", m, err)
	}
}

func TestSelectByIndex(t *testing.T) {
	idx := 2
	m, err := Select(moves(4), Payload{MoveIndex: &idx})
	if err != nil || m.PawnID != 2 {
		t.Fatalf("got (%+v, %v), want (pawn 2, nil)", m, err)
	}
}

func TestSelectByIndexOutOfRange(t *testing.T) {
	idx := 99
	_, err := Select(moves(2), Payload{MoveIndex: &idx})
	if !errors.Is(err, ErrInvalidSelectionNoMatch) {
		t.Fatalf("err = %v, want ErrInvalidSelectionNoMatch", err)
	}
}

func TestSelectByFieldMatch(t *testing.T) {
	pawnID := 1
	m, err := Select(moves(4), Payload{Move: &PartialMove{PawnID: &pawnID}})
	if err != nil || m.PawnID != 1 {
		t.Fatalf("got (%+v, %v), want (pawn 1, nil)", m, err)
	}
}

func TestSelectByFieldMatchAmbiguous(t *testing.T) {
	ms := []domain.Move{
		{PawnID: 0, Steps: 1},
		{PawnID: 0, Steps: 2},
	}
	pawnID := 0
	_, err := Select(ms, Payload{Move: &PartialMove{PawnID: &pawnID}})
	if !errors.Is(err, ErrInvalidSelectionAmbiguous) {
		t.Fatalf("err = %v, want ErrInvalidSelectionAmbiguous", err)
	}
}

func TestSelectByFieldMatchNoMatch(t *testing.T) {
	pawnID := 99
	_, err := Select(moves(2), Payload{Move: &PartialMove{PawnID: &pawnID}})
	if !errors.Is(err, ErrInvalidSelectionNoMatch) {
		t.Fatalf("err = %v, want ErrInvalidSelectionNoMatch", err)
	}
}

func TestSelectRequiredWhenAmbiguousAndEmptyPayload(t *testing.T) {
	_, err := Select(moves(3), Payload{})
	if !errors.Is(err, ErrMoveSelectionRequired) {
		t.Fatalf("err = %v, want ErrMoveSelectionRequired", err)
	}
}
