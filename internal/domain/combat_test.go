package domain

import "testing"

func TestResolveRowRemovesLoser(t *testing.T) {
	var b Board
	rock := NewCard(Rock)
	_ = b.Place(SidePlayer, 0, rock)
	_ = b.Place(SideOpponent, 0, NewCard(Scissors))

	out := ResolveRow(&b, 0)
	if out.DamageToOpponent != 3 || out.DamageToPlayer != 0 {
		t.Fatalf("damage = %d/%d, want 3/0", out.DamageToOpponent, out.DamageToPlayer)
	}
	if b.Card(SideOpponent, 0) != nil {
		t.Fatal("opponent card should be destroyed")
	}
	if b.Card(SidePlayer, 0) != rock {
		t.Fatal("player card should survive")
	}
}

func TestResolveRowTieDestroysBoth(t *testing.T) {
	var b Board
	_ = b.Place(SidePlayer, 1, NewCard(Snake))
	_ = b.Place(SideOpponent, 1, NewCard(Snake))

	out := ResolveRow(&b, 1)
	if out.PlayerRemoved == nil || out.OpponentRemoved == nil {
		t.Fatal("tie should remove both cards")
	}
	if out.DamageToPlayer != 1 || out.DamageToOpponent != 1 {
		t.Fatalf("tie damage = %d/%d, want 1/1", out.DamageToPlayer, out.DamageToOpponent)
	}
}

func TestResolveRowSkipsEmpty(t *testing.T) {
	var b Board
	_ = b.Place(SidePlayer, 2, NewCard(Gun))
	out := ResolveRow(&b, 2)
	if !out.Skipped || out.Removed() {
		t.Fatalf("expected skipped row, got %+v", out)
	}
	if b.Card(SidePlayer, 2) == nil {
		t.Fatal("lone card must stay on the board")
	}
}

func TestResolveRowNeutralPairSurvives(t *testing.T) {
	var b Board
	_ = b.Place(SidePlayer, 0, NewCard(Rock))
	_ = b.Place(SideOpponent, 0, NewCard(Sun))
	out := ResolveRow(&b, 0)
	if out.Removed() || out.DamageToPlayer != 0 || out.DamageToOpponent != 0 {
		t.Fatalf("rock vs sun should be neutral, got %+v", out)
	}
}
