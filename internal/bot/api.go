package bot

import (
	"fmt"
	"strings"

	"gesturecards/internal/domain"
)

// Brain is the interface that all bot strategies must implement.
type Brain interface {
	ChooseGesture(view domain.TableView) (domain.Gesture, error)
}

// BotLevel selects a strategy.
type BotLevel int

const (
	BotLevelRandom BotLevel = iota
	BotLevelSmart
	BotLevelGod
	BotLevelScript
)

func (l BotLevel) String() string {
	switch l {
	case BotLevelRandom:
		return "random"
	case BotLevelSmart:
		return "smart"
	case BotLevelGod:
		return "god"
	case BotLevelScript:
		return "script"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// ParseLevel maps a config string to a level. Empty means random.
func ParseLevel(s string) (BotLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "random":
		return BotLevelRandom, nil
	case "smart":
		return BotLevelSmart, nil
	case "god":
		return BotLevelGod, nil
	case "script":
		return BotLevelScript, nil
	default:
		return BotLevelRandom, fmt.Errorf("unknown bot level: %q", s)
	}
}
