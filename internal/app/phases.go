package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/looplab/fsm"

	"gesturecards/internal/domain"
)

// Phase machine events.
const (
	evBeginRound    = "begin_round"
	evOpenSelection = "open_selection"
	evCollected     = "collected"
	evStartReorder  = "start_reorder"
	evLockIn        = "lock_in"
	evStartFight    = "start_fight"
	evSummarize     = "summarize"
	evFinishMatch   = "finish_match"
)

var allPhases = []string{
	string(domain.PhaseWaiting),
	string(domain.PhaseStarting),
	string(domain.PhaseSelection),
	string(domain.PhasePrepareReorder),
	string(domain.PhaseReordering),
	string(domain.PhasePrepareFight),
	string(domain.PhaseFight),
	string(domain.PhaseSummary),
	string(domain.PhaseGameOver),
}

// ErrIllegalTransition wraps phase machine refusals.
var ErrIllegalTransition = errors.New("illegal phase transition")

func newPhaseMachine(onEnter func(from, to domain.Phase)) *fsm.FSM {
	return fsm.NewFSM(
		string(domain.PhaseWaiting),
		fsm.Events{
			// A reset may restart the round from any phase.
			{Name: evBeginRound, Src: allPhases, Dst: string(domain.PhaseStarting)},
			{Name: evOpenSelection, Src: []string{string(domain.PhaseStarting)}, Dst: string(domain.PhaseSelection)},
			{Name: evCollected, Src: []string{string(domain.PhaseSelection)}, Dst: string(domain.PhasePrepareReorder)},
			{Name: evStartReorder, Src: []string{string(domain.PhasePrepareReorder)}, Dst: string(domain.PhaseReordering)},
			{Name: evLockIn, Src: []string{string(domain.PhaseReordering)}, Dst: string(domain.PhasePrepareFight)},
			{Name: evStartFight, Src: []string{string(domain.PhasePrepareFight)}, Dst: string(domain.PhaseFight)},
			{Name: evSummarize, Src: []string{string(domain.PhaseFight)}, Dst: string(domain.PhaseSummary)},
			{Name: evFinishMatch, Src: []string{string(domain.PhaseSummary)}, Dst: string(domain.PhaseGameOver)},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				onEnter(domain.Phase(e.Src), domain.Phase(e.Dst))
			},
		},
	)
}

// fire runs a phase machine event. Re-entering the current phase is not an
// error; anything else the table refuses is.
func fire(m *fsm.FSM, event string) error {
	err := m.Event(context.Background(), event)
	if err == nil {
		return nil
	}
	var same fsm.NoTransitionError
	if errors.As(err, &same) {
		return nil
	}
	return fmt.Errorf("%w: %s from %s: %v", ErrIllegalTransition, event, m.Current(), err)
}
