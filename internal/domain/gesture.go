package domain

import "strings"

// Gesture identifies one of the seven hand signs a card can carry.
type Gesture int

const (
	Rock Gesture = iota
	Sun
	Snake
	Gun
	Scissors
	Devil
	Paper
)

// NoGesture marks an unfilled entry in a round's gesture arrays.
const NoGesture Gesture = -1

// GestureCount is the size of the catalog.
const GestureCount = 7

// GestureInfo describes a catalog entry.
type GestureInfo struct {
	ID   Gesture
	Name string
}

var catalog = [GestureCount]GestureInfo{
	{ID: Rock, Name: "rock"},
	{ID: Sun, Name: "sun"},
	{ID: Snake, Name: "snake"},
	{ID: Gun, Name: "gun"},
	{ID: Scissors, Name: "scissors"},
	{ID: Devil, Name: "devil"},
	{ID: Paper, Name: "paper"},
}

var byName = func() map[string]Gesture {
	m := make(map[string]Gesture, GestureCount)
	for _, info := range catalog {
		m[info.Name] = info.ID
	}
	return m
}()

// Valid reports whether g is inside the catalog.
func (g Gesture) Valid() bool {
	return g >= 0 && int(g) < GestureCount
}

func (g Gesture) String() string {
	if !g.Valid() {
		return "none"
	}
	return catalog[g].Name
}

// ParseGesture maps a recognizer token to a gesture id. Matching ignores case
// and surrounding whitespace.
func ParseGesture(token string) (Gesture, bool) {
	g, ok := byName[strings.ToLower(strings.TrimSpace(token))]
	if !ok {
		return NoGesture, false
	}
	return g, true
}

// Gestures returns every catalog gesture in id order.
func Gestures() []Gesture {
	out := make([]Gesture, GestureCount)
	for i := range catalog {
		out[i] = catalog[i].ID
	}
	return out
}
