package domain

const (
	// SlotsPerSide is the number of board slots each side owns.
	SlotsPerSide = 3
	// CardsPerRound is the total number of gestures collected before reordering.
	CardsPerRound = SlotsPerSide * 2

	DefaultMaxHealth   = 9
	DefaultRoundsToWin = 3
)
