package brain

import (
	"math/rand"

	"gesturecards/internal/domain"
)

// OpponentProfile tracks which gestures the human tends to show.
type OpponentProfile struct {
	PlayedStats [domain.GestureCount]int
	Total       int
}

// NewOpponentProfile builds a profile from a gesture history.
func NewOpponentProfile(history []domain.Gesture) *OpponentProfile {
	p := &OpponentProfile{}
	for _, g := range history {
		p.RecordPlay(g)
	}
	return p
}

// RecordPlay logs one observed gesture. Invalid ids are ignored.
func (p *OpponentProfile) RecordPlay(g domain.Gesture) {
	if !g.Valid() {
		return
	}
	p.PlayedStats[g]++
	p.Total++
}

// Favourites returns the most played gestures, in id order.
func (p *OpponentProfile) Favourites() []domain.Gesture {
	if p.Total == 0 {
		return nil
	}
	best := 0
	var out []domain.Gesture
	for _, g := range domain.Gestures() {
		n := p.PlayedStats[g]
		switch {
		case n > best:
			best = n
			out = []domain.Gesture{g}
		case n == best && n > 0:
			out = append(out, g)
		}
	}
	return out
}

// Predict guesses the human's next gesture. ok is false with no history.
func (p *OpponentProfile) Predict(rng *rand.Rand) (domain.Gesture, bool) {
	fav := p.Favourites()
	if len(fav) == 0 {
		return domain.NoGesture, false
	}
	return fav[rng.Intn(len(fav))], true
}
