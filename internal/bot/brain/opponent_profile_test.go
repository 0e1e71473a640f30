package brain

import (
	"math/rand"
	"testing"

	"gesturecards/internal/domain"
)

func TestOpponentProfile_RecordPlay(t *testing.T) {
	p := NewOpponentProfile([]domain.Gesture{domain.Rock, domain.Rock, domain.Paper, domain.NoGesture})

	if p.PlayedStats[domain.Rock] != 2 {
		t.Errorf("Expected 2 rocks played, got %d", p.PlayedStats[domain.Rock])
	}
	if p.Total != 3 {
		t.Errorf("Expected invalid ids to be ignored, total = %d", p.Total)
	}
}

func TestOpponentProfile_Predict(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	if _, ok := NewOpponentProfile(nil).Predict(rng); ok {
		t.Fatal("empty profile must not predict")
	}

	p := NewOpponentProfile([]domain.Gesture{domain.Gun, domain.Sun, domain.Gun})
	for i := 0; i < 10; i++ {
		if g, ok := p.Predict(rng); !ok || g != domain.Gun {
			t.Fatalf("Predict = %v, %v; want gun", g, ok)
		}
	}

	tied := NewOpponentProfile([]domain.Gesture{domain.Sun, domain.Devil})
	if fav := tied.Favourites(); len(fav) != 2 || fav[0] != domain.Sun || fav[1] != domain.Devil {
		t.Fatalf("Favourites = %v", fav)
	}
}
