package domain

import "fmt"

// damageTable[attacker][defender] is the damage the attacker deals.
var damageTable = [GestureCount][GestureCount]int{
	{1, 0, 2, 0, 3, 0, 0},
	{0, 1, 0, 0, 0, 3, 2},
	{0, 0, 1, 3, 2, 0, 0},
	{0, 3, 0, 1, 0, 2, 0},
	{0, 2, 0, 0, 1, 0, 3},
	{2, 0, 3, 0, 0, 1, 0},
	{3, 0, 0, 2, 0, 0, 1},
}

// Damage returns the damage attacker deals to defender. It panics when either
// id is outside the catalog.
func Damage(attacker, defender Gesture) int {
	if !attacker.Valid() || !defender.Valid() {
		panic(fmt.Sprintf("domain: damage lookup with invalid gesture (%d vs %d)", attacker, defender))
	}
	return damageTable[attacker][defender]
}

// BestCounters lists the gestures with the highest net damage (dealt minus
// taken) against target, in id order.
func BestCounters(target Gesture) []Gesture {
	best := -1 << 31
	var out []Gesture
	for _, g := range Gestures() {
		net := Damage(g, target) - Damage(target, g)
		switch {
		case net > best:
			best = net
			out = []Gesture{g}
		case net == best:
			out = append(out, g)
		}
	}
	return out
}
