package domain

// Card is one face of the Lo Siento deck.
type Card string

const (
	Card1     Card = "1"
	Card2     Card = "2"
	Card3     Card = "3"
	Card4     Card = "4"
	Card5     Card = "5"
	Card7     Card = "7"
	Card8     Card = "8"
	Card10    Card = "10"
	Card11    Card = "11"
	Card12    Card = "12"
	CardSorry Card = "Sorry!"
)

// deckComposition lists how many of each card a fresh 45-card deck holds.
var deckComposition = []struct {
	card  Card
	count int
}{
	{Card1, 5},
	{CardSorry, 4},
	{Card2, 4},
	{Card3, 4},
	{Card4, 4},
	{Card5, 4},
	{Card7, 4},
	{Card8, 4},
	{Card10, 4},
	{Card11, 4},
	{Card12, 4},
}

// DeckSize is the total number of cards in a freshly built deck.
const DeckSize = 45
