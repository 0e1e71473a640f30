package bot

import (
	"math/rand"

	"gesturecards/internal/domain"
)

// RandomBot plays a uniformly random gesture.
type RandomBot struct {
	rng *rand.Rand
}

func (b *RandomBot) ChooseGesture(domain.TableView) (domain.Gesture, error) {
	return domain.Gesture(b.rng.Intn(domain.GestureCount)), nil
}

// pickCounter chooses one of the best answers to target.
func pickCounter(rng *rand.Rand, target domain.Gesture) domain.Gesture {
	counters := domain.BestCounters(target)
	return counters[rng.Intn(len(counters))]
}
