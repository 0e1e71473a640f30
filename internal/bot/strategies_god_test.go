package bot

import (
	"errors"
	"math/rand"
	"testing"

	"gesturecards/internal/domain"
)

func viewWith(player, opponent [3]domain.Gesture) domain.TableView {
	return domain.TableView{Gestures: [2][domain.SlotsPerSide]domain.Gesture{player, opponent}}
}

func TestGodBot_CountersSameRow(t *testing.T) {
	none := domain.NoGesture
	bot := &GodBot{rng: rand.New(rand.NewSource(1))}

	view := viewWith([3]domain.Gesture{domain.Rock, domain.Scissors, none}, [3]domain.Gesture{domain.Paper, none, none})
	g, err := bot.ChooseGesture(view)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := domain.BestCounters(domain.Scissors); !contains(want, g) {
		t.Fatalf("GodBot played %s, want one of %v", g, want)
	}
	if domain.Damage(g, domain.Scissors) <= domain.Damage(domain.Scissors, g) {
		t.Fatalf("%s does not beat scissors", g)
	}
}

func TestGodBot_NoFreeSlot(t *testing.T) {
	bot := &GodBot{rng: rand.New(rand.NewSource(1))}
	full := [3]domain.Gesture{domain.Rock, domain.Rock, domain.Rock}
	if _, err := bot.ChooseGesture(viewWith(full, full)); !errors.Is(err, ErrNoFreeSlot) {
		t.Fatalf("expected ErrNoFreeSlot, got %v", err)
	}
}

func contains(gs []domain.Gesture, g domain.Gesture) bool {
	for _, x := range gs {
		if x == g {
			return true
		}
	}
	return false
}
