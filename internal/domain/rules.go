package domain

// cardSteps gives the forward/backward distance encoded by cards that move
// a single pawn a fixed number of spaces. Cards not listed here (1, 2, 7,
// 10, 11, Sorry!) have bespoke enumeration logic below.
var cardSteps = map[Card]int{
	Card3:  3,
	Card4:  4,
	Card5:  5,
	Card8:  8,
	Card12: 12,
}

// LegalMoves enumerates every distinct move the acting seat may make with
// card against the given state. The returned moves are fully resolved:
// destinations already account for slides, safety diversion, and win-lane
// exact count.
func LegalMoves(state *GameState, seat int, card Card) []Move {
	switch card {
	case Card1:
		return legalSimpleForward(state, seat, card, 1, true)
	case Card2:
		return legalSimpleForward(state, seat, card, 2, true)
	case Card3, Card5, Card8, Card12:
		return legalSimpleForward(state, seat, card, cardSteps[card], false)
	case Card4:
		return legalBackward(state, seat, card, 4)
	case Card10:
		return legalTen(state, seat)
	case Card11:
		return legalEleven(state, seat)
	case Card7:
		return legalSeven(state, seat)
	case CardSorry:
		return legalSorry(state, seat)
	default:
		return nil
	}
}

func pawnsOfSeat(board []Pawn, seat int) []Pawn {
	out := make([]Pawn, 0, PawnsPerSeat)
	for _, p := range board {
		if p.Seat == seat {
			out = append(out, p)
		}
	}
	return out
}

// occupiedByOwn reports whether pos is held by seat's own pawn other than
// the one being moved (pawnID). Only Track and Safety positions can ever
// collide; Start and Home hold multiple pawns freely.
func occupiedByOwn(board []Pawn, seat, movingPawnID int, pos Position) bool {
	if pos.Kind != PosTrack && pos.Kind != PosSafety {
		return false
	}
	for _, p := range board {
		if p.Seat != seat || p.Index == movingPawnID {
			continue
		}
		if p.Position.Kind == pos.Kind && p.Position.Index == pos.Index {
			return true
		}
	}
	return false
}

func findPawn(board []Pawn, seat, pawnID int) (Pawn, bool) {
	for _, p := range board {
		if p.Seat == seat && p.Index == pawnID {
			return p, true
		}
	}
	return Pawn{}, false
}

// pawnAtTrack returns the pawn (of any seat) occupying a track index, if any.
func pawnAtTrack(board []Pawn, index int) (Pawn, bool) {
	for _, p := range board {
		if p.Position.Kind == PosTrack && p.Position.Index == index {
			return p, true
		}
	}
	return Pawn{}, false
}

func legalSimpleForward(state *GameState, seat int, card Card, steps int, allowLeaveStart bool) []Move {
	var moves []Move
	for _, p := range pawnsOfSeat(state.Board, seat) {
		if p.Position.Kind == PosStart {
			if !allowLeaveStart {
				continue
			}
			outcomes := Forward(seat, Start(), 1)
			appendForwardMoves(&moves, card, seat, p.Index, DirForward, steps, outcomes, state.Board)
			continue
		}
		if p.Position.Kind == PosHome {
			continue
		}
		outcomes := Forward(seat, p.Position, steps)
		appendForwardMoves(&moves, card, seat, p.Index, DirForward, steps, outcomes, state.Board)
	}
	return moves
}

func appendForwardMoves(moves *[]Move, card Card, seat, pawnID int, dir Direction, steps int, outcomes []ForwardOutcome, board []Pawn) {
	for _, o := range outcomes {
		if o.Illegal {
			continue
		}
		if occupiedByOwn(board, seat, pawnID, o.Position) {
			continue
		}
		*moves = append(*moves, Move{
			Card: card, Seat: seat, PawnID: pawnID,
			Direction: dir, Steps: steps,
			DestType: o.Position.Kind, DestIndex: o.Position.Index,
		})
	}
}

func legalBackward(state *GameState, seat int, card Card, steps int) []Move {
	var moves []Move
	for _, p := range pawnsOfSeat(state.Board, seat) {
		if p.Position.Kind == PosStart || p.Position.Kind == PosHome {
			continue
		}
		o := Backward(seat, p.Position, steps)
		if o.Illegal {
			continue
		}
		if occupiedByOwn(state.Board, seat, p.Index, o.Position) {
			continue
		}
		moves = append(moves, Move{
			Card: card, Seat: seat, PawnID: p.Index,
			Direction: DirBackward, Steps: steps,
			DestType: o.Position.Kind, DestIndex: o.Position.Index,
		})
	}
	return moves
}

func legalTen(state *GameState, seat int) []Move {
	forwardMoves := legalSimpleForward(state, seat, Card10, 10, false)
	if len(forwardMoves) > 0 {
		return forwardMoves
	}
	return legalBackward(state, seat, Card10, 1)
}

func legalEleven(state *GameState, seat int) []Move {
	moves := legalSimpleForward(state, seat, Card11, 11, false)

	for _, p := range pawnsOfSeat(state.Board, seat) {
		if p.Position.Kind != PosTrack {
			continue
		}
		for _, q := range state.Board {
			if q.Seat == seat || q.Position.Kind != PosTrack {
				continue
			}
			moves = append(moves, Move{
				Card: Card11, Seat: seat, PawnID: p.Index,
				Direction: DirForward, Steps: 0,
				DestType: PosTrack, DestIndex: q.Position.Index,
				HasTarget: true, TargetSeat: q.Seat, TargetPawnID: q.Index,
			})
		}
	}
	return moves
}

func legalSorry(state *GameState, seat int) []Move {
	var moves []Move
	startPawns := []Pawn{}
	for _, p := range pawnsOfSeat(state.Board, seat) {
		if p.Position.Kind == PosStart {
			startPawns = append(startPawns, p)
		}
	}
	if len(startPawns) == 0 {
		return nil
	}
	for _, p := range startPawns {
		for _, q := range state.Board {
			if q.Seat == seat || q.Position.Kind != PosTrack {
				continue
			}
			moves = append(moves, Move{
				Card: CardSorry, Seat: seat, PawnID: p.Index,
				Direction: DirForward, Steps: 0,
				DestType: PosTrack, DestIndex: q.Position.Index,
				HasTarget: true, TargetSeat: q.Seat, TargetPawnID: q.Index,
			})
		}
	}
	return moves
}

func legalSeven(state *GameState, seat int) []Move {
	moves := legalSimpleForward(state, seat, Card7, 7, false)

	pawns := pawnsOfSeat(state.Board, seat)
	for _, p := range pawns {
		if p.Position.Kind == PosStart || p.Position.Kind == PosHome {
			continue
		}
		for _, q := range pawns {
			if q.Index == p.Index || q.Position.Kind == PosStart || q.Position.Kind == PosHome {
				continue
			}
			for a := 1; a <= 6; a++ {
				b := 7 - a
				pOutcomes := Forward(seat, p.Position, a)
				for _, po := range pOutcomes {
					if po.Illegal || occupiedByOwn(state.Board, seat, p.Index, po.Position) {
						continue
					}
					hypothetical := cloneBoardWithPosition(state.Board, seat, p.Index, po.Position)
					qOutcomes := Forward(seat, q.Position, b)
					for _, qo := range qOutcomes {
						if qo.Illegal {
							continue
						}
						if occupiedByOwn(hypothetical, seat, q.Index, qo.Position) {
							continue
						}
						moves = append(moves, Move{
							Card: Card7, Seat: seat, PawnID: p.Index,
							Direction: DirForward, Steps: a,
							DestType: po.Position.Kind, DestIndex: po.Position.Index,
							SecondaryPawnID: q.Index, SecondaryDirection: DirForward, SecondarySteps: b,
							SecondaryDestType: qo.Position.Kind, SecondaryDestIndex: qo.Position.Index,
							HasSecondary: true,
						})
					}
				}
			}
		}
	}
	return dedupeSevens(moves)
}

func cloneBoardWithPosition(board []Pawn, seat, pawnID int, pos Position) []Pawn {
	out := make([]Pawn, len(board))
	copy(out, board)
	for i := range out {
		if out[i].Seat == seat && out[i].Index == pawnID {
			out[i].Position = pos
		}
	}
	return out
}

func dedupeSevens(moves []Move) []Move {
	seen := make(map[[4]int]bool, len(moves))
	out := make([]Move, 0, len(moves))
	for _, m := range moves {
		if m.Card != Card7 || !m.HasSecondary {
			out = append(out, m)
			continue
		}
		key := [4]int{m.PawnID, m.Steps, m.SecondaryPawnID, m.SecondarySteps}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, m)
	}
	return out
}

// ApplyMove applies move to state and returns the resulting state. The
// destination fields on move are not trusted: positions, bumps, and win
// detection are all recomputed from scratch against the current board.
func ApplyMove(state *GameState, move Move, maxSeats int) (*GameState, error) {
	next := &GameState{
		TurnNumber:       state.TurnNumber,
		CurrentSeatIndex: state.CurrentSeatIndex,
		Deck:             state.Deck,
		DiscardPile:      append([]Card{}, state.DiscardPile...),
		Board:            append([]Pawn{}, state.Board...),
		ResultState:      ResultActive,
	}
	next.DiscardPile = append(next.DiscardPile, move.Card)

	mover, ok := findPawn(next.Board, move.Seat, move.PawnID)
	if !ok {
		return nil, ErrInvalidState
	}

	if move.HasTarget && move.Direction == DirForward && move.Steps == 0 {
		// Sorry! or 11-switch: the target's current position decides the
		// landing square, not the move's stored DestIndex.
		target, ok := findPawn(next.Board, move.TargetSeat, move.TargetPawnID)
		if !ok || target.Position.Kind != PosTrack {
			return nil, ErrIllegalMove
		}
		if move.Card == Card11 {
			setPawnPosition(next.Board, move.Seat, move.PawnID, target.Position)
			setPawnPosition(next.Board, move.TargetSeat, move.TargetPawnID, mover.Position)
		} else {
			setPawnPosition(next.Board, move.TargetSeat, move.TargetPawnID, Start())
			setPawnPosition(next.Board, move.Seat, move.PawnID, target.Position)
		}
	} else {
		wantDest := Position{Kind: move.DestType, Index: move.DestIndex}
		dest, err := resolveAndBump(next, move.Seat, move.PawnID, mover.Position, move.Direction, move.Steps, wantDest)
		if err != nil {
			return nil, err
		}
		setPawnPosition(next.Board, move.Seat, move.PawnID, dest)

		if move.HasSecondary {
			secondMover, ok := findPawn(next.Board, move.Seat, move.SecondaryPawnID)
			if !ok {
				return nil, ErrInvalidState
			}
			wantSecondDest := Position{Kind: move.SecondaryDestType, Index: move.SecondaryDestIndex}
			secondDest, err := resolveAndBump(next, move.Seat, move.SecondaryPawnID, secondMover.Position, move.SecondaryDirection, move.SecondarySteps, wantSecondDest)
			if err != nil {
				return nil, err
			}
			setPawnPosition(next.Board, move.Seat, move.SecondaryPawnID, secondDest)
		}
	}

	if AllHome(pawnsOfSeat(next.Board, move.Seat)) {
		winner := move.Seat
		next.WinnerSeatIndex = &winner
		next.ResultState = ResultWin
		return next, nil
	}

	next.CurrentSeatIndex = (move.Seat + 1) % maxSeats
	next.TurnNumber++
	return next, nil
}

// resolveAndBump walks pos by steps in dir for seat against board (mutated
// in place for bumps) and returns the landing position. wantDest pins which
// alternative to take when the walk could legally diverge (the Move
// Selector already chose one among the enumerated alternatives).
func resolveAndBump(state *GameState, seat, movingPawnID int, pos Position, dir Direction, steps int, wantDest Position) (Position, error) {
	var outcome ForwardOutcome
	if dir == DirForward {
		if pos.Kind == PosStart {
			outcome = Forward(seat, Start(), 1)[0]
		} else {
			outcomes := Forward(seat, pos, steps)
			outcome = pickOutcome(outcomes, wantDest)
		}
	} else {
		outcome = Backward(seat, pos, steps)
	}
	if outcome.Illegal {
		return Position{}, ErrIllegalMove
	}
	if occupiedByOwn(state.Board, seat, movingPawnID, outcome.Position) {
		return Position{}, ErrIllegalMove
	}

	for _, slideSpace := range outcome.SlideHit {
		for i := range state.Board {
			if state.Board[i].Position.Kind == PosTrack && state.Board[i].Position.Index == slideSpace {
				state.Board[i].Position = Start()
			}
		}
	}

	if outcome.Position.Kind == PosTrack {
		if occupant, ok := pawnAtTrack(state.Board, outcome.Position.Index); ok && occupant.Seat != seat {
			setPawnPosition(state.Board, occupant.Seat, occupant.Index, Start())
		}
	}

	return outcome.Position, nil
}

// pickOutcome selects the outcome matching wantDest among a forward walk's
// alternatives. Moves built by LegalMoves always carry a matching
// destination; for a descriptor whose destination matches none of them, it
// falls back to the first legal diverted alternative, then to the first
// legal one.
func pickOutcome(outcomes []ForwardOutcome, wantDest Position) ForwardOutcome {
	for _, o := range outcomes {
		if !o.Illegal && o.Position == wantDest {
			return o
		}
	}
	for _, o := range outcomes {
		if o.Diverted && !o.Illegal {
			return o
		}
	}
	for _, o := range outcomes {
		if !o.Illegal {
			return o
		}
	}
	return ForwardOutcome{Illegal: true}
}

func setPawnPosition(board []Pawn, seat, pawnID int, pos Position) {
	for i := range board {
		if board[i].Seat == seat && board[i].Index == pawnID {
			board[i].Position = pos
			return
		}
	}
}
