package domain

import "testing"

func TestDamageDirectional(t *testing.T) {
	tests := []struct {
		name     string
		attacker Gesture
		defender Gesture
		want     int
	}{
		{"rock crushes scissors", Rock, Scissors, 3},
		{"scissors vs rock", Scissors, Rock, 0},
		{"paper covers rock", Paper, Rock, 3},
		{"devil vs rock", Devil, Rock, 2},
		{"rock vs devil", Rock, Devil, 0},
		{"sun burns devil", Sun, Devil, 3},
		{"tie deals one", Gun, Gun, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Damage(tt.attacker, tt.defender); got != tt.want {
				t.Fatalf("Damage(%s, %s) = %d, want %d", tt.attacker, tt.defender, got, tt.want)
			}
		})
	}
}

func TestDamageDiagonalIsOne(t *testing.T) {
	for _, g := range Gestures() {
		if d := Damage(g, g); d != 1 {
			t.Fatalf("Damage(%s, %s) = %d, want 1", g, g, d)
		}
	}
}

func TestDamagePanicsOnInvalidID(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for invalid gesture id")
		}
	}()
	Damage(Rock, Gesture(9))
}

func TestBestCounters(t *testing.T) {
	got := BestCounters(Rock)
	if len(got) != 1 || got[0] != Paper {
		t.Fatalf("BestCounters(rock) = %v, want [paper]", got)
	}
}
