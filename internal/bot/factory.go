package bot

import (
	"fmt"
	"math/rand"
	"time"
)

// NewBrain creates a new AI brain based on the specified level. script is
// the Lua source path used by BotLevelScript.
func NewBrain(level BotLevel, script string, rng *rand.Rand) (Brain, error) {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	switch level {
	case BotLevelRandom:
		return &RandomBot{rng: rng}, nil
	case BotLevelSmart:
		return &SmartBot{rng: rng}, nil
	case BotLevelGod:
		return &GodBot{rng: rng}, nil
	case BotLevelScript:
		if script == "" {
			return nil, fmt.Errorf("bot level script needs a script path")
		}
		return LoadScriptBot(script)
	default:
		return nil, fmt.Errorf("unknown bot level: %d", level)
	}
}
