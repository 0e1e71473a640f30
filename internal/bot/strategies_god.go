package bot

import (
	"math/rand"

	"gesturecards/internal/domain"
)

// GodBot reads the human card in the row it is about to fill and counters
// it. Cards can still be reordered afterwards, so it is strong, not perfect.
type GodBot struct {
	rng *rand.Rand
}

func (b *GodBot) ChooseGesture(view domain.TableView) (domain.Gesture, error) {
	idx := view.NextIndex(domain.SideOpponent)
	if idx < 0 {
		return domain.NoGesture, ErrNoFreeSlot
	}
	target := view.Gestures[domain.SidePlayer][idx]
	if !target.Valid() {
		return domain.Gesture(b.rng.Intn(domain.GestureCount)), nil
	}
	return pickCounter(b.rng, target), nil
}
