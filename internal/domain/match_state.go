package domain

// Outcome is the result of comparing the two sides after a fight.
type Outcome int

const (
	OutcomeDraw Outcome = iota
	OutcomePlayerWins
	OutcomeOpponentWins
)

func (o Outcome) String() string {
	switch o {
	case OutcomePlayerWins:
		return "player_wins"
	case OutcomeOpponentWins:
		return "opponent_wins"
	default:
		return "draw"
	}
}

// Winner maps an outcome to the winning side. ok is false on a draw.
func (o Outcome) Winner() (Side, bool) {
	switch o {
	case OutcomePlayerWins:
		return SidePlayer, true
	case OutcomeOpponentWins:
		return SideOpponent, true
	default:
		return SidePlayer, false
	}
}

// RoundResult summarises a finished round.
type RoundResult struct {
	Outcome   Outcome
	Health    [2]int
	Survivors [2]int
	Wins      [2]int
	// MatchOver is set when this round's point ended the match.
	MatchOver bool
}

// MatchState carries health and round wins across a match.
type MatchState struct {
	Health      [2]int
	Wins        [2]int
	MaxHealth   int
	RoundsToWin int
	Finished    bool
	Winner      Side
}

// NewMatchState returns a match with both sides at full health.
func NewMatchState(maxHealth, roundsToWin int) MatchState {
	if maxHealth <= 0 {
		maxHealth = DefaultMaxHealth
	}
	if roundsToWin <= 0 {
		roundsToWin = DefaultRoundsToWin
	}
	ms := MatchState{MaxHealth: maxHealth, RoundsToWin: roundsToWin}
	ms.ResetHealth()
	return ms
}

// ApplyDamage subtracts amount from side's health, clamped to [0, MaxHealth].
func (ms *MatchState) ApplyDamage(side Side, amount int) int {
	if !side.Valid() {
		return 0
	}
	h := ms.Health[side] - amount
	if h < 0 {
		h = 0
	}
	if h > ms.MaxHealth {
		h = ms.MaxHealth
	}
	ms.Health[side] = h
	return h
}

// ResetHealth restores both sides to MaxHealth.
func (ms *MatchState) ResetHealth() {
	ms.Health = [2]int{ms.MaxHealth, ms.MaxHealth}
}

// Reset starts a fresh match with the same limits.
func (ms *MatchState) Reset() {
	ms.Wins = [2]int{}
	ms.Finished = false
	ms.Winner = SidePlayer
	ms.ResetHealth()
}

// DecideRound compares health first, then surviving cards.
func (ms *MatchState) DecideRound(board *Board) RoundResult {
	res := RoundResult{
		Health:    ms.Health,
		Survivors: [2]int{board.Occupied(SidePlayer), board.Occupied(SideOpponent)},
		Wins:      ms.Wins,
	}
	switch {
	case res.Health[SidePlayer] > res.Health[SideOpponent]:
		res.Outcome = OutcomePlayerWins
	case res.Health[SideOpponent] > res.Health[SidePlayer]:
		res.Outcome = OutcomeOpponentWins
	case res.Survivors[SidePlayer] > res.Survivors[SideOpponent]:
		res.Outcome = OutcomePlayerWins
	case res.Survivors[SideOpponent] > res.Survivors[SidePlayer]:
		res.Outcome = OutcomeOpponentWins
	default:
		res.Outcome = OutcomeDraw
	}
	return res
}

// Award credits the round winner with a point. The side that reaches
// RoundsToWin wins the match; nothing changes once the match is finished.
func (ms *MatchState) Award(res RoundResult) RoundResult {
	side, ok := res.Outcome.Winner()
	if !ok || ms.Finished {
		res.Wins = ms.Wins
		return res
	}
	ms.Wins[side]++
	if ms.Wins[side] >= ms.RoundsToWin {
		ms.Finished = true
		ms.Winner = side
		res.MatchOver = true
	}
	res.Wins = ms.Wins
	return res
}
