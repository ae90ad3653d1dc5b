// Package onboarding generates a default display name for users who host
// or join a game without supplying one.
package onboarding

import (
	"fmt"
	"math/rand"
	"time"
)

// Service hands out friendly display names from a fixed adjective/noun pool.
type Service struct {
	rng *rand.Rand
}

// NewService constructs a naming service. rng may be nil to default to a
// time-seeded source.
func NewService(rng *rand.Rand) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{rng: rng}
}

var adjectives = []string{"Happy", "Shiny", "Brave", "Clever", "Swift", "Calm", "Mighty", "Witty", "Sly", "Wild"}
var nouns = []string{"Panda", "Tiger", "Eagle", "Dolphin", "Wolf", "Otter", "Falcon", "Bear", "Fox", "Lion"}

// GenerateName returns a random "AdjectiveNoun####" display name.
func (s *Service) GenerateName() string {
	adj := adjectives[s.rng.Intn(len(adjectives))]
	noun := nouns[s.rng.Intn(len(nouns))]
	num := s.rng.Intn(9000) + 1000
	return fmt.Sprintf("%s%s%d", adj, noun, num)
}
