package domain

import (
	"errors"
	"math"

	"github.com/google/uuid"
)

// Side identifies one half of the table.
type Side int

const (
	SidePlayer Side = iota
	SideOpponent
)

// Valid reports whether s is one of the two table sides.
func (s Side) Valid() bool {
	return s == SidePlayer || s == SideOpponent
}

func (s Side) String() string {
	switch s {
	case SidePlayer:
		return "player"
	case SideOpponent:
		return "opponent"
	default:
		return "unknown"
	}
}

// Card is a gesture instance placed on the board.
type Card struct {
	ID      uuid.UUID
	Gesture Gesture
}

// NewCard creates a card with a fresh identity.
func NewCard(g Gesture) *Card {
	return &Card{ID: uuid.New(), Gesture: g}
}

var (
	ErrSlotOutOfRange = errors.New("slot index out of range")
	ErrSlotOccupied   = errors.New("slot already occupied")
	ErrInvalidSide    = errors.New("invalid side")
)

// Placement pairs a card with the slot it was found in.
type Placement struct {
	Side  Side
	Index int
	Card  *Card
}

// Board holds at most one card per slot. A card is owned by exactly one slot.
type Board struct {
	slots [2][SlotsPerSide]*Card
}

func checkSlot(side Side, idx int) error {
	if !side.Valid() {
		return ErrInvalidSide
	}
	if idx < 0 || idx >= SlotsPerSide {
		return ErrSlotOutOfRange
	}
	return nil
}

// Place attaches card to an empty slot.
func (b *Board) Place(side Side, idx int, card *Card) error {
	if err := checkSlot(side, idx); err != nil {
		return err
	}
	if b.slots[side][idx] != nil {
		return ErrSlotOccupied
	}
	b.slots[side][idx] = card
	return nil
}

// Card returns the card in a slot, or nil.
func (b *Board) Card(side Side, idx int) *Card {
	if checkSlot(side, idx) != nil {
		return nil
	}
	return b.slots[side][idx]
}

// Remove detaches and returns the card in a slot.
func (b *Board) Remove(side Side, idx int) *Card {
	if checkSlot(side, idx) != nil {
		return nil
	}
	c := b.slots[side][idx]
	b.slots[side][idx] = nil
	return c
}

// Swap exchanges the contents of two slots on the same side. Either slot may
// be empty, in which case the card simply moves.
func (b *Board) Swap(side Side, from, to int) error {
	if err := checkSlot(side, from); err != nil {
		return err
	}
	if err := checkSlot(side, to); err != nil {
		return err
	}
	b.slots[side][from], b.slots[side][to] = b.slots[side][to], b.slots[side][from]
	return nil
}

// Occupied counts the cards on one side.
func (b *Board) Occupied(side Side) int {
	if !side.Valid() {
		return 0
	}
	n := 0
	for _, c := range b.slots[side] {
		if c != nil {
			n++
		}
	}
	return n
}

// Clear empties the board and returns what it held, row by row with the
// player's card first.
func (b *Board) Clear() []Placement {
	var removed []Placement
	for i := 0; i < SlotsPerSide; i++ {
		for _, side := range []Side{SidePlayer, SideOpponent} {
			if c := b.slots[side][i]; c != nil {
				removed = append(removed, Placement{Side: side, Index: i, Card: c})
				b.slots[side][i] = nil
			}
		}
	}
	return removed
}

// Placements lists every occupied slot in the same order as Clear.
func (b *Board) Placements() []Placement {
	var out []Placement
	for i := 0; i < SlotsPerSide; i++ {
		for _, side := range []Side{SidePlayer, SideOpponent} {
			if c := b.slots[side][i]; c != nil {
				out = append(out, Placement{Side: side, Index: i, Card: c})
			}
		}
	}
	return out
}

// SnapTarget returns the slot whose centre is nearest to dropX, provided it
// lies within radius. Slot i is centred at i*spacing.
func SnapTarget(dropX, spacing, radius float64) (int, bool) {
	best, bestDist := -1, math.Inf(1)
	for i := 0; i < SlotsPerSide; i++ {
		d := math.Abs(dropX - float64(i)*spacing)
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 || bestDist > radius {
		return -1, false
	}
	return best, true
}
