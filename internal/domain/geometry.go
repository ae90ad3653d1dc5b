package domain

// Board geometry constants (see spec §4.1). Four color segments of 15 spaces
// each make up the 60-space track; each segment carries a 4-space first
// slide and a 5-space second slide.
const (
	NumSeats       = 4
	SegmentLen     = 15
	TrackLen       = NumSeats * SegmentLen // 60
	FirstSlideLen  = 4
	SecondSlideLen = 5
	SafetyLen      = 5
)

// Colors gives the fixed color for each seat index.
var Colors = [NumSeats]string{"red", "blue", "yellow", "green"}

// ColorFor returns the fixed color for a seat index.
func ColorFor(seat int) string {
	return Colors[seat%NumSeats]
}

// segmentOffset is the starting track index of a seat's color segment.
func segmentOffset(seat int) int {
	return normalizeTrack((seat % NumSeats) * SegmentLen)
}

// FirstSlideIndices returns the 4 consecutive track indices of seat's first slide.
func FirstSlideIndices(seat int) [FirstSlideLen]int {
	var out [FirstSlideLen]int
	start := normalizeTrack(segmentOffset(seat) + 1)
	for i := 0; i < FirstSlideLen; i++ {
		out[i] = normalizeTrack(start + i)
	}
	return out
}

// SecondSlideIndices returns the 5 consecutive track indices of seat's second slide.
func SecondSlideIndices(seat int) [SecondSlideLen]int {
	fs := FirstSlideIndices(seat)
	start := normalizeTrack(fs[FirstSlideLen-1] + 1 + 5)
	var out [SecondSlideLen]int
	for i := 0; i < SecondSlideLen; i++ {
		out[i] = normalizeTrack(start + i)
	}
	return out
}

// SafetyEntryIndex is the track index where a forward move may divert into
// seat's Safety Zone: the second space of seat's first slide.
func SafetyEntryIndex(seat int) int {
	return FirstSlideIndices(seat)[1]
}

// StartExitIndex is the track space a pawn occupies when it leaves Start:
// the space immediately after the end of seat's first slide.
func StartExitIndex(seat int) int {
	fs := FirstSlideIndices(seat)
	return normalizeTrack(fs[FirstSlideLen-1] + 1)
}

// slideInfo describes one slide segment keyed by its start index.
type slideInfo struct {
	ownerSeat    int
	indices      []int
	isFirstSlide bool // true for the 4-space slide nearest the owner's Safety entry
}

var slidesByStart = buildSlides()

func buildSlides() map[int]slideInfo {
	slides := make(map[int]slideInfo, NumSeats*2)
	for seat := 0; seat < NumSeats; seat++ {
		fs := FirstSlideIndices(seat)
		ss := SecondSlideIndices(seat)
		slides[fs[0]] = slideInfo{ownerSeat: seat, indices: fs[:], isFirstSlide: true}
		slides[ss[0]] = slideInfo{ownerSeat: seat, indices: ss[:], isFirstSlide: false}
	}
	return slides
}

// IsSlideStart reports whether index is the first space of some seat's slide,
// returning that seat's index.
func IsSlideStart(index int) (seat int, ok bool) {
	s, present := slidesByStart[normalizeTrack(index)]
	if !present {
		return 0, false
	}
	return s.ownerSeat, true
}

// SlideEndFromStart returns the last track space of the slide starting at index.
// Panics if index is not a slide start; callers should check IsSlideStart first.
func SlideEndFromStart(index int) int {
	s := slidesByStart[normalizeTrack(index)]
	return s.indices[len(s.indices)-1]
}

// SpacesOnSlide returns every track space occupied by the slide starting at index.
func SpacesOnSlide(slideStart int) []int {
	s := slidesByStart[normalizeTrack(slideStart)]
	out := make([]int, len(s.indices))
	copy(out, s.indices)
	return out
}

// IsSafetyEntrySlideEnd reports whether the slide starting at slideStart is
// seat's own first slide: landing on it diverts straight into seat's
// Safety[0] instead of riding to the slide's end (the slide-into-safety house
// rule, spec §4.1/§4.3.1).
func IsSafetyEntrySlideEnd(seat, slideStart int) bool {
	s, ok := slidesByStart[normalizeTrack(slideStart)]
	return ok && s.isFirstSlide && s.ownerSeat == seat
}

// slideLanding resolves the terminal track/safety position and the bumped
// slide spaces (if any) for a pawn whose walk lands on trackIndex. Only a
// forward walk rides slides or diverts into Safety; with forward false the
// pawn stays on trackIndex and nothing is bumped.
func slideLanding(seat, trackIndex int, forward bool) (Position, []int) {
	if !forward {
		return Track(trackIndex), nil
	}
	var spaces []int
	if owner, ok := IsSlideStart(trackIndex); ok {
		spaces = SpacesOnSlide(trackIndex)
		if forward && IsSafetyEntrySlideEnd(seat, trackIndex) && owner == seat {
			return Safety(0), spaces
		}
		trackIndex = SlideEndFromStart(trackIndex)
	}
	if forward && trackIndex == SafetyEntryIndex(seat) {
		return Safety(0), nil
	}
	return Track(trackIndex), spaces
}

// ForwardOutcome is one candidate destination produced by a forward walk.
// Diverted is true when this outcome enters the acting seat's Safety Zone
// (or continues inside it); false means the pawn stayed on the shared track.
type ForwardOutcome struct {
	Position  Position
	SlideHit  []int
	Diverted  bool
	Illegal   bool
}

// Forward walks a pawn at pos forward by steps spaces for seat, returning
// every distinct legal outcome. A pawn on the track that has not yet passed
// its own Safety entry this lap may either divert into Safety or continue
// around the shared track past the entry without diverting; both outcomes
// are returned when that choice exists (spec §4.1). Overshooting Home is
// reported as a single Illegal outcome.
func Forward(seat int, pos Position, steps int) []ForwardOutcome {
	if steps < 1 {
		return []ForwardOutcome{{Illegal: true}}
	}
	switch pos.Kind {
	case PosHome:
		return []ForwardOutcome{{Illegal: true}}
	case PosStart:
		exit := StartExitIndex(seat)
		trackIndex := normalizeTrack(exit + (steps - 1))
		finalPos, slide := slideLanding(seat, trackIndex, true)
		return []ForwardOutcome{{Position: finalPos, SlideHit: slide, Diverted: finalPos.Kind != PosTrack}}
	case PosSafety:
		newIndex := pos.Index + steps
		switch {
		case newIndex < SafetyLen:
			return []ForwardOutcome{{Position: Safety(newIndex), Diverted: true}}
		case newIndex == SafetyLen:
			return []ForwardOutcome{{Position: Home(), Diverted: true}}
		default:
			return []ForwardOutcome{{Illegal: true}}
		}
	case PosTrack:
		entry := SafetyEntryIndex(seat)
		distToEntry := normalizeTrack(entry - pos.Index)
		straight := normalizeTrack(pos.Index + steps)

		if distToEntry >= steps {
			// Walk does not reach the Safety entry this move: no choice.
			finalPos, slide := slideLanding(seat, straight, true)
			return []ForwardOutcome{{Position: finalPos, SlideHit: slide, Diverted: finalPos.Kind != PosTrack}}
		}

		outcomes := make([]ForwardOutcome, 0, 2)

		// Diversion outcome: count the remaining steps inside the Safety lane.
		stepsIntoSafety := steps - distToEntry
		remaining := stepsIntoSafety - 1
		switch {
		case remaining >= 0 && remaining < SafetyLen:
			outcomes = append(outcomes, ForwardOutcome{Position: Safety(remaining), Diverted: true})
		case remaining == SafetyLen:
			outcomes = append(outcomes, ForwardOutcome{Position: Home(), Diverted: true})
		default:
			outcomes = append(outcomes, ForwardOutcome{Illegal: true})
		}

		// Stay-on-track outcome: ignore the entry and keep circling the loop,
		// still subject to slide resolution at the new landing square.
		finalPos, slide := slideLanding(seat, straight, true)
		outcomes = append(outcomes, ForwardOutcome{Position: finalPos, SlideHit: slide, Diverted: finalPos.Kind != PosTrack})

		return outcomes
	default:
		return []ForwardOutcome{{Illegal: true}}
	}
}

// Backward walks a pawn at pos backward by steps spaces for seat.
func Backward(seat int, pos Position, steps int) ForwardOutcome {
	if steps < 1 {
		return ForwardOutcome{Illegal: true}
	}
	switch pos.Kind {
	case PosStart, PosHome:
		return ForwardOutcome{Illegal: true}
	case PosTrack:
		trackIndex := normalizeTrack(pos.Index - steps)
		finalPos, slide := slideLanding(seat, trackIndex, false)
		return ForwardOutcome{Position: finalPos, SlideHit: slide}
	case PosSafety:
		if steps <= pos.Index {
			return ForwardOutcome{Position: Safety(pos.Index - steps)}
		}
		remaining := steps - (pos.Index + 1)
		exitPoint := SafetyEntryIndex(seat) - 1
		trackIndex := normalizeTrack(exitPoint - remaining)
		finalPos, slide := slideLanding(seat, trackIndex, false)
		return ForwardOutcome{Position: finalPos, SlideHit: slide}
	default:
		return ForwardOutcome{Illegal: true}
	}
}
