package onboarding

import (
	"math/rand"
	"testing"
)

func TestGenerateNameIsNonEmpty(t *testing.T) {
	s := NewService(rand.New(rand.NewSource(1)))
	if name := s.GenerateName(); name == "" {
		t.Fatal("GenerateName returned empty string")
	}
}

func TestGenerateNameIsDeterministicForASeed(t *testing.T) {
	s1 := NewService(rand.New(rand.NewSource(42)))
	s2 := NewService(rand.New(rand.NewSource(42)))
	if got, want := s1.GenerateName(), s2.GenerateName(); got != want {
		t.Fatalf("same seed produced %q then %q, want identical", got, want)
	}
}

func TestGenerateNameDefaultsRNGWhenNil(t *testing.T) {
	s := NewService(nil)
	if name := s.GenerateName(); name == "" {
		t.Fatal("GenerateName with nil rng returned empty string")
	}
}
