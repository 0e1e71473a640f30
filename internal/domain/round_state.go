package domain

import "time"

// Phase represents the lifecycle stage of a round.
type Phase string

const (
	// PhaseWaiting is the idle state before the recognizer first connects.
	PhaseWaiting Phase = "waiting"
	// PhaseStarting covers table cleanup and the pre-round countdown.
	PhaseStarting       Phase = "starting"
	PhaseSelection      Phase = "selection"
	PhasePrepareReorder Phase = "prepare_reorder"
	PhaseReordering     Phase = "reordering"
	PhasePrepareFight   Phase = "prepare_fight"
	PhaseFight          Phase = "fight"
	PhaseSummary        Phase = "summary"
	// PhaseGameOver is terminal until a reset.
	PhaseGameOver Phase = "game_over"
)

// RoundState tracks the gestures submitted during one round.
type RoundState struct {
	Round       int
	Phase       Phase
	ReorderLeft time.Duration
	Gestures    [2][SlotsPerSide]Gesture
	Received    int
}

// NewRoundState returns an empty round with every gesture slot unset.
func NewRoundState(round int) RoundState {
	rs := RoundState{Round: round, Phase: PhaseStarting}
	for s := range rs.Gestures {
		for i := range rs.Gestures[s] {
			rs.Gestures[s][i] = NoGesture
		}
	}
	return rs
}

// FirstEmptyIndex returns the lowest unset index for side, or -1 when full.
func (rs *RoundState) FirstEmptyIndex(side Side) int {
	if !side.Valid() {
		return -1
	}
	for i, g := range rs.Gestures[side] {
		if g == NoGesture {
			return i
		}
	}
	return -1
}

// Record stores g in side's first empty index. It reports false when the
// side is already full.
func (rs *RoundState) Record(side Side, g Gesture) (int, bool) {
	idx := rs.FirstEmptyIndex(side)
	if idx < 0 {
		return -1, false
	}
	rs.Gestures[side][idx] = g
	rs.Received++
	return idx, true
}

// Complete reports whether all six gestures have arrived.
func (rs *RoundState) Complete() bool {
	return rs.Received >= CardsPerRound
}
