package domain

// RowOutcome describes the clash in a single row.
type RowOutcome struct {
	Row              int
	Skipped          bool
	PlayerGesture    Gesture
	OpponentGesture  Gesture
	DamageToPlayer   int
	DamageToOpponent int
	PlayerRemoved    *Card
	OpponentRemoved  *Card
}

// Removed reports whether the clash destroyed at least one card.
func (o RowOutcome) Removed() bool {
	return o.PlayerRemoved != nil || o.OpponentRemoved != nil
}

// ResolveRow clashes the two cards in row. Rows with an empty slot are
// skipped. A card is destroyed when the damage directed at it is positive.
// Health is not touched; callers apply the returned damage.
func ResolveRow(board *Board, row int) RowOutcome {
	out := RowOutcome{Row: row, PlayerGesture: NoGesture, OpponentGesture: NoGesture}
	p := board.Card(SidePlayer, row)
	o := board.Card(SideOpponent, row)
	if p == nil || o == nil {
		out.Skipped = true
		return out
	}
	out.PlayerGesture = p.Gesture
	out.OpponentGesture = o.Gesture
	out.DamageToOpponent = Damage(p.Gesture, o.Gesture)
	out.DamageToPlayer = Damage(o.Gesture, p.Gesture)
	if out.DamageToOpponent > 0 {
		out.OpponentRemoved = board.Remove(SideOpponent, row)
	}
	if out.DamageToPlayer > 0 {
		out.PlayerRemoved = board.Remove(SidePlayer, row)
	}
	return out
}
