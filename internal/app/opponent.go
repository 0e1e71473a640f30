package app

import "gesturecards/internal/domain"

// Opponent picks the AI side's next gesture.
type Opponent interface {
	NextGesture(view domain.TableView) (domain.Gesture, error)
}

// OpponentFunc adapts a plain function to Opponent.
type OpponentFunc func(view domain.TableView) (domain.Gesture, error)

func (f OpponentFunc) NextGesture(view domain.TableView) (domain.Gesture, error) {
	return f(view)
}
