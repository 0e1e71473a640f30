package app

import "gesturecards/internal/domain"

// CardView is a card as seen by presentation.
type CardView struct {
	ID        string `json:"id"`
	Gesture   string `json:"gesture"`
	GestureID int    `json:"gesture_id"`
}

// Snapshot is a detached copy of session state, safe to hand to other
// goroutines.
type Snapshot struct {
	Round       int                               `json:"round"`
	Phase       domain.Phase                      `json:"phase"`
	ReorderLeft float64                           `json:"reorder_left"`
	Received    int                               `json:"received"`
	Board       [2][domain.SlotsPerSide]*CardView `json:"board"`
	Health      [2]int                            `json:"health"`
	Wins        [2]int                            `json:"wins"`
	MaxHealth   int                               `json:"max_health"`
	RoundsToWin int                               `json:"rounds_to_win"`
	Finished    bool                              `json:"finished"`
	Winner      string                            `json:"winner,omitempty"`
	Connected   bool                              `json:"connected"`
	Paused      bool                              `json:"paused"`
}

// Snapshot copies the current state.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		Round:       s.round.Round,
		Phase:       s.round.Phase,
		ReorderLeft: s.round.ReorderLeft.Seconds(),
		Received:    s.round.Received,
		Health:      s.match.Health,
		Wins:        s.match.Wins,
		MaxHealth:   s.match.MaxHealth,
		RoundsToWin: s.match.RoundsToWin,
		Finished:    s.match.Finished,
		Connected:   s.connected,
		Paused:      s.paused,
	}
	if s.match.Finished {
		snap.Winner = s.match.Winner.String()
	}
	for _, p := range s.board.Placements() {
		snap.Board[p.Side][p.Index] = &CardView{
			ID:        p.Card.ID.String(),
			Gesture:   p.Card.Gesture.String(),
			GestureID: int(p.Card.Gesture),
		}
	}
	return snap
}

// Round returns a copy of the round state.
func (s *Session) Round() domain.RoundState {
	return s.round
}

// Match returns a copy of the match score.
func (s *Session) Match() domain.MatchState {
	return s.match
}
