package bot

import (
	"math/rand"

	"gesturecards/internal/bot/brain"
	"gesturecards/internal/domain"
)

// SmartBot counters the gesture the human has shown most often this match.
// With no history it plays randomly.
type SmartBot struct {
	rng *rand.Rand
}

func (b *SmartBot) ChooseGesture(view domain.TableView) (domain.Gesture, error) {
	predicted, ok := brain.NewOpponentProfile(view.History).Predict(b.rng)
	if !ok {
		return domain.Gesture(b.rng.Intn(domain.GestureCount)), nil
	}
	return pickCounter(b.rng, predicted), nil
}
