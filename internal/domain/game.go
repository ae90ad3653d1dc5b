package domain

import "time"

// Phase is the lifecycle stage of a Game record.
type Phase string

const (
	PhaseLobby    Phase = "lobby"
	PhaseActive   Phase = "active"
	PhaseFinished Phase = "finished"
	PhaseAborted  Phase = "aborted"
)

// Result is the outcome tag carried by GameState.
type Result string

const (
	ResultActive  Result = "active"
	ResultWin     Result = "win"
	ResultAborted Result = "aborted"
)

// GameSettings are the host-chosen parameters fixed at creation time.
type GameSettings struct {
	MaxSeats int   `json:"maxSeats"`
	DeckSeed int64 `json:"deckSeed,omitempty"`
}

// GameState exists only while a Game is active, finished, or aborted.
type GameState struct {
	TurnNumber       int      `json:"turnNumber"`
	CurrentSeatIndex int      `json:"currentSeatIndex"`
	Deck             []Card   `json:"-"`
	DiscardPile      []Card   `json:"discardPile"`
	Board            []Pawn   `json:"board"`
	WinnerSeatIndex  *int     `json:"winnerSeatIndex,omitempty"`
	ResultState      Result   `json:"result"`
}

// Game is the persisted record for one lobby/match.
type Game struct {
	GameID        string       `json:"gameId"`
	HostID        string       `json:"hostId"`
	HostName      string       `json:"hostName"`
	CreatedAt     time.Time    `json:"createdAt"`
	UpdatedAt     time.Time    `json:"updatedAt"`
	Phase         Phase        `json:"phase"`
	Settings      GameSettings `json:"settings"`
	Seats         []Seat       `json:"seats"`
	State         *GameState   `json:"state,omitempty"`
	AbortedReason string       `json:"abortedReason,omitempty"`
	Version       int64        `json:"-"`

	// LastSinglePlayerAt marks when the lobby last had exactly one human
	// occupant, for the auto-fill idle timer. AutoFillCheck sets it and
	// resets it to nil when it finds a human count other than one.
	LastSinglePlayerAt *time.Time `json:"lastSinglePlayerAt,omitempty"`
}

// MoveRecord is one appended entry in a game's move history.
type MoveRecord struct {
	Index     int       `json:"index"`
	SeatIndex int       `json:"seatIndex"`
	PlayerID  string    `json:"playerId"`
	Card      Card      `json:"card"`
	Move      Move      `json:"move"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewGame builds a lobby-phase game with seat 0 occupied by the host.
func NewGame(gameID, hostID, hostName string, settings GameSettings, now time.Time) *Game {
	seats := make([]Seat, settings.MaxSeats)
	for i := range seats {
		seats[i] = NewSeat(i)
	}
	seats[0].Kind = SeatHuman
	seats[0].PlayerID = hostID
	seats[0].Name = hostName

	return &Game{
		GameID:    gameID,
		HostID:    hostID,
		HostName:  hostName,
		CreatedAt: now,
		UpdatedAt: now,
		Phase:     PhaseLobby,
		Settings:  settings,
		Seats:     seats,
	}
}

// OccupiedSeats counts seats that are not empty.
func (g *Game) OccupiedSeats() int {
	n := 0
	for _, s := range g.Seats {
		if s.Occupied() {
			n++
		}
	}
	return n
}

// HumanSeats counts seats held by a connected human.
func (g *Game) HumanSeats() int {
	return CountHumans(g.Seats)
}

// SeatForPlayer returns the index of the seat claimed by playerID, or -1.
func (g *Game) SeatForPlayer(playerID string) int {
	for _, s := range g.Seats {
		if s.Kind == SeatHuman && s.PlayerID == playerID {
			return s.Index
		}
	}
	return -1
}

// PawnsForSeat returns the slice of the active state's board belonging to seat.
func (g *Game) PawnsForSeat(seat int) []Pawn {
	if g.State == nil {
		return nil
	}
	out := make([]Pawn, 0, PawnsPerSeat)
	for _, p := range g.State.Board {
		if p.Seat == seat {
			out = append(out, p)
		}
	}
	return out
}
