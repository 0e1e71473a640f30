package bot

import (
	"math/rand"
	"testing"

	"gesturecards/internal/domain"
)

func TestSmartBot_CountersFavourite(t *testing.T) {
	bot := &SmartBot{rng: rand.New(rand.NewSource(3))}
	view := domain.TableView{History: []domain.Gesture{domain.Rock, domain.Sun, domain.Rock}}

	for i := 0; i < 20; i++ {
		g, err := bot.ChooseGesture(view)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if g != domain.Paper {
			t.Fatalf("SmartBot played %s against a rock-heavy player, want paper", g)
		}
	}
}

func TestSmartBot_RandomWithoutHistory(t *testing.T) {
	bot := &SmartBot{rng: rand.New(rand.NewSource(3))}
	seen := map[domain.Gesture]bool{}
	for i := 0; i < 200; i++ {
		g, err := bot.ChooseGesture(domain.TableView{})
		if err != nil || !g.Valid() {
			t.Fatalf("ChooseGesture = %v, %v", g, err)
		}
		seen[g] = true
	}
	if len(seen) != domain.GestureCount {
		t.Fatalf("random fallback only produced %d gestures", len(seen))
	}
}

func TestRandomBot_StaysInCatalog(t *testing.T) {
	bot := &RandomBot{rng: rand.New(rand.NewSource(9))}
	for i := 0; i < 100; i++ {
		if g, _ := bot.ChooseGesture(domain.TableView{}); !g.Valid() {
			t.Fatalf("RandomBot played %d", g)
		}
	}
}
