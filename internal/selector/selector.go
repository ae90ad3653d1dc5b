// Package selector resolves a client's move payload against the set of
// legal moves a Turn Coordinator computed, picking exactly one or
// rejecting with a typed error.
package selector

import (
	"losiento/internal/domain"
)

// SelectError is a typed rejection from Select.
type SelectError string

const (
	ErrNoLegalMoves              SelectError = "no_legal_moves"
	ErrMoveSelectionRequired      SelectError = "move_selection_required"
	ErrInvalidSelectionNoMatch    SelectError = "invalid_move_selection_no_match"
	ErrInvalidSelectionAmbiguous  SelectError = "invalid_move_selection_ambiguous"
)

func (e SelectError) Error() string { return string(e) }

// Payload is the client's wire-level move selection.
type Payload struct {
	MoveIndex *int          `json:"moveIndex,omitempty"`
	Move      *PartialMove  `json:"move,omitempty"`
}

// PartialMove carries whichever fields of a domain.Move the client knows;
// only present fields participate in matching.
type PartialMove struct {
	PawnID             *int              `json:"pawnId,omitempty"`
	TargetPawnID       *int              `json:"targetPawnId,omitempty"`
	SecondaryPawnID    *int              `json:"secondaryPawnId,omitempty"`
	Direction          *domain.Direction `json:"direction,omitempty"`
	Steps              *int              `json:"steps,omitempty"`
	SecondaryDirection *domain.Direction `json:"secondaryDirection,omitempty"`
	SecondarySteps     *int              `json:"secondarySteps,omitempty"`
}

func (p PartialMove) matches(m domain.Move) bool {
	if p.PawnID != nil && *p.PawnID != m.PawnID {
		return false
	}
	if p.TargetPawnID != nil && (!m.HasTarget || *p.TargetPawnID != m.TargetPawnID) {
		return false
	}
	if p.SecondaryPawnID != nil && (!m.HasSecondary || *p.SecondaryPawnID != m.SecondaryPawnID) {
		return false
	}
	if p.Direction != nil && *p.Direction != m.Direction {
		return false
	}
	if p.Steps != nil && *p.Steps != m.Steps {
		return false
	}
	if p.SecondaryDirection != nil && (!m.HasSecondary || *p.SecondaryDirection != m.SecondaryDirection) {
		return false
	}
	if p.SecondarySteps != nil && (!m.HasSecondary || *p.SecondarySteps != m.SecondarySteps) {
		return false
	}
	return true
}

// Select resolves payload against moves, following the five ordered rules:
// empty set, implicit single choice, index, structured-field matching,
// or an explicit selection-required rejection.
func Select(moves []domain.Move, payload Payload) (domain.Move, error) {
	if len(moves) == 0 {
		return domain.Move{}, ErrNoLegalMoves
	}

	empty := payload.MoveIndex == nil && payload.Move == nil
	if empty && len(moves) == 1 {
		return moves[0], nil
	}

	if payload.MoveIndex != nil {
		idx := *payload.MoveIndex
		if idx < 0 || idx >= len(moves) {
			return domain.Move{}, ErrInvalidSelectionNoMatch
		}
		return moves[idx], nil
	}

	if payload.Move != nil {
		var matched []domain.Move
		for _, m := range moves {
			if payload.Move.matches(m) {
				matched = append(matched, m)
			}
		}
		switch len(matched) {
		case 0:
			return domain.Move{}, ErrInvalidSelectionNoMatch
		case 1:
			return matched[0], nil
		default:
			return domain.Move{}, ErrInvalidSelectionAmbiguous
		}
	}

	if len(moves) > 1 {
		return domain.Move{}, ErrMoveSelectionRequired
	}
	return moves[0], nil
}
