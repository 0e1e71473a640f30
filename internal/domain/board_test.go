package domain

import (
	"errors"
	"testing"
)

func TestBoardPlaceAndRemove(t *testing.T) {
	var b Board
	c := NewCard(Rock)
	if err := b.Place(SidePlayer, 1, c); err != nil {
		t.Fatalf("place: %v", err)
	}
	if err := b.Place(SidePlayer, 1, NewCard(Sun)); !errors.Is(err, ErrSlotOccupied) {
		t.Fatalf("expected ErrSlotOccupied, got %v", err)
	}
	if err := b.Place(SideOpponent, 3, NewCard(Sun)); !errors.Is(err, ErrSlotOutOfRange) {
		t.Fatalf("expected ErrSlotOutOfRange, got %v", err)
	}
	if got := b.Remove(SidePlayer, 1); got != c {
		t.Fatalf("remove returned %v, want %v", got, c)
	}
	if b.Occupied(SidePlayer) != 0 {
		t.Fatal("slot should be empty after remove")
	}
}

func TestBoardSwapKeepsSingleOwnership(t *testing.T) {
	var b Board
	a, c := NewCard(Rock), NewCard(Paper)
	_ = b.Place(SidePlayer, 0, a)
	_ = b.Place(SidePlayer, 2, c)

	if err := b.Swap(SidePlayer, 0, 2); err != nil {
		t.Fatalf("swap: %v", err)
	}
	if b.Card(SidePlayer, 0) != c || b.Card(SidePlayer, 2) != a {
		t.Fatal("cards were not exchanged")
	}

	if err := b.Swap(SidePlayer, 2, 1); err != nil {
		t.Fatalf("swap into empty: %v", err)
	}
	if b.Card(SidePlayer, 1) != a || b.Card(SidePlayer, 2) != nil {
		t.Fatal("card should move into the empty slot")
	}
	if b.Occupied(SidePlayer) != 2 {
		t.Fatalf("occupied = %d, want 2", b.Occupied(SidePlayer))
	}
}

func TestBoardClearOrder(t *testing.T) {
	var b Board
	_ = b.Place(SideOpponent, 0, NewCard(Sun))
	_ = b.Place(SidePlayer, 0, NewCard(Rock))
	_ = b.Place(SidePlayer, 2, NewCard(Gun))

	removed := b.Clear()
	if len(removed) != 3 {
		t.Fatalf("removed %d cards, want 3", len(removed))
	}
	if removed[0].Side != SidePlayer || removed[1].Side != SideOpponent || removed[2].Index != 2 {
		t.Fatalf("unexpected clear order: %+v", removed)
	}
	if b.Occupied(SidePlayer)+b.Occupied(SideOpponent) != 0 {
		t.Fatal("board should be empty")
	}
}

func TestSnapTarget(t *testing.T) {
	tests := []struct {
		name  string
		dropX float64
		want  int
		ok    bool
	}{
		{"on slot", 2.0, 1, true},
		{"near last", 4.9, 2, true},
		{"too far", 9.0, -1, false},
		{"left edge", -1.4, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SnapTarget(tt.dropX, 2.0, 1.5)
			if got != tt.want || ok != tt.ok {
				t.Fatalf("SnapTarget(%v) = (%d, %v), want (%d, %v)", tt.dropX, got, ok, tt.want, tt.ok)
			}
		})
	}
}
