package domain

// TableView is the read-only projection handed to AI opponents.
type TableView struct {
	Round     int
	Phase     Phase
	Gestures  [2][SlotsPerSide]Gesture
	Health    [2]int
	Wins      [2]int
	MaxHealth int
	// History lists every gesture the human has shown this match, oldest first.
	History []Gesture
}

// NextIndex returns the index the given side will fill next, or -1.
func (v TableView) NextIndex(side Side) int {
	rs := RoundState{Gestures: v.Gestures}
	return rs.FirstEmptyIndex(side)
}

// LabelPayload produces the values needed for match label advertisement.
type LabelPayload struct {
	Open  bool   `json:"open"`
	Game  string `json:"game"`
	Phase string `json:"phase"`
	Round int    `json:"round"`
}

// ComputeLabel derives the advertised label from round state. A match is open
// only while it waits for its single human.
func ComputeLabel(rs RoundState, humans int) LabelPayload {
	return LabelPayload{
		Open:  humans == 0 && rs.Phase == PhaseWaiting,
		Game:  "gesturecards",
		Phase: string(rs.Phase),
		Round: rs.Round,
	}
}
