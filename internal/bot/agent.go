package bot

import (
	"math/rand"

	"gesturecards/internal/domain"
)

// Agent represents an autonomous bot player.
type Agent struct {
	ID       string
	Name     string
	Strategy Brain
}

// NewAgent builds an agent for the given level, named after the identity
// pool entry at index.
func NewAgent(index int, level BotLevel, script string, rng *rand.Rand) (*Agent, error) {
	strategy, err := NewBrain(level, script, rng)
	if err != nil {
		return nil, err
	}
	identity := GetBotIdentity(index)
	name := identity.DisplayName
	if name == "" {
		name = identity.Username
	}
	id := identity.UserID
	if id == "" {
		id = identity.Username
	}
	return &Agent{ID: id, Name: name, Strategy: strategy}, nil
}

// NextGesture asks the strategy for the opponent's next gesture.
func (a *Agent) NextGesture(view domain.TableView) (domain.Gesture, error) {
	return a.Strategy.ChooseGesture(view)
}

// Close releases strategy resources, if any.
func (a *Agent) Close() {
	if c, ok := a.Strategy.(interface{ Close() }); ok {
		c.Close()
	}
}
