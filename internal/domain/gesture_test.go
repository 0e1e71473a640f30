package domain

import "testing"

func TestParseGesture(t *testing.T) {
	tests := []struct {
		token string
		want  Gesture
		ok    bool
	}{
		{"rock", Rock, true},
		{"SUN", Sun, true},
		{"  snake\n", Snake, true},
		{"Gun", Gun, true},
		{"scissors", Scissors, true},
		{"devil", Devil, true},
		{"paper", Paper, true},
		{"lizard", NoGesture, false},
		{"", NoGesture, false},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			got, ok := ParseGesture(tt.token)
			if got != tt.want || ok != tt.ok {
				t.Fatalf("ParseGesture(%q) = (%v, %v), want (%v, %v)", tt.token, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestCatalogIsDenseAndOrdered(t *testing.T) {
	for i, g := range Gestures() {
		if int(g) != i {
			t.Fatalf("gesture at %d has id %d", i, g)
		}
		if back, _ := ParseGesture(g.String()); back != g {
			t.Fatalf("round trip of %s gave %v", g, back)
		}
	}
	if NoGesture.Valid() || Gesture(GestureCount).Valid() {
		t.Fatal("out-of-catalog ids must be invalid")
	}
}
