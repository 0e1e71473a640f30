package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix namespaces every environment override.
const EnvPrefix = "GESTURECARDS_"

// GameConfig holds the tunable rules and timings of a match. Every duration
// is expressed in seconds.
type GameConfig struct {
	ReorderSeconds float64 `json:"reorder_seconds" env:"REORDER_SECONDS"`
	MaxHealth      int     `json:"max_health" env:"MAX_HEALTH"`
	RoundsToWin    int     `json:"rounds_to_win" env:"ROUNDS_TO_WIN"`

	AIDelaySeconds       float64 `json:"ai_delay_seconds" env:"AI_DELAY_SECONDS"`
	AnnounceSeconds      float64 `json:"announce_seconds" env:"ANNOUNCE_SECONDS"`
	CountdownStepSeconds float64 `json:"countdown_step_seconds" env:"COUNTDOWN_STEP_SECONDS"`
	StrikeSeconds        float64 `json:"strike_seconds" env:"STRIKE_SECONDS"`
	RecoverSeconds       float64 `json:"recover_seconds" env:"RECOVER_SECONDS"`
	DissolveSeconds      float64 `json:"dissolve_seconds" env:"DISSOLVE_SECONDS"`
	RematchSeconds       float64 `json:"rematch_seconds" env:"REMATCH_SECONDS"`
	NextRoundSeconds     float64 `json:"next_round_seconds" env:"NEXT_ROUND_SECONDS"`
	ConnectSeconds       float64 `json:"connect_seconds" env:"CONNECT_SECONDS"`
	ResumeSeconds        float64 `json:"resume_seconds" env:"RESUME_SECONDS"`
	QuitGraceSeconds     float64 `json:"quit_grace_seconds" env:"QUIT_GRACE_SECONDS"`
	IngestRetrySeconds   float64 `json:"ingest_retry_seconds" env:"INGEST_RETRY_SECONDS"`

	IngestAddr string `json:"ingest_addr" env:"INGEST_ADDR"`
	ViewAddr   string `json:"view_addr" env:"VIEW_ADDR"`
	TickRate   int    `json:"tick_rate" env:"TICK_RATE"`

	BotLevel      string `json:"bot_level" env:"BOT_LEVEL"`
	BotScript     string `json:"bot_script" env:"BOT_SCRIPT"`
	BotIdentities string `json:"bot_identities" env:"BOT_IDENTITIES"`

	// LinkSecret enables ticket checks on the recognizer link when set.
	LinkSecret string `json:"link_secret" env:"LINK_SECRET"`
	LinkIssuer string `json:"link_issuer" env:"LINK_ISSUER"`

	LogLevel string `json:"log_level" env:"LOG_LEVEL"`

	SlotSpacing float64 `json:"slot_spacing" env:"SLOT_SPACING"`
	SnapRadius  float64 `json:"snap_radius" env:"SNAP_RADIUS"`
}

// Default returns the stock rules: 10s reordering, 9 health, first to 3.
func Default() GameConfig {
	return GameConfig{
		ReorderSeconds:       10,
		MaxHealth:            9,
		RoundsToWin:          3,
		AIDelaySeconds:       0.5,
		AnnounceSeconds:      1,
		CountdownStepSeconds: 0.6,
		StrikeSeconds:        0.9,
		RecoverSeconds:       0.6,
		DissolveSeconds:      1,
		RematchSeconds:       2,
		NextRoundSeconds:     3,
		ConnectSeconds:       1.5,
		ResumeSeconds:        1.5,
		QuitGraceSeconds:     5,
		IngestRetrySeconds:   1,
		IngestAddr:           "127.0.0.1:5005",
		ViewAddr:             "127.0.0.1:8080",
		TickRate:             30,
		BotLevel:             "random",
		LinkIssuer:           "gesturecards",
		LogLevel:             "info",
		SlotSpacing:          2,
		SnapRadius:           1.5,
	}
}

var ErrInvalidConfig = errors.New("invalid game config")

// Load builds a config from defaults, an optional JSON file and the process
// environment, in that order of precedence.
func Load(path string) (GameConfig, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read game config: %w", err)
		}
		if err := json.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to unmarshal game config: %w", err)
		}
	}
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	return cfg, cfg.Validate()
}

// FromEnvMap applies overrides from a runtime-provided environment map, such
// as the one Nakama exposes to modules. Keys are matched case-insensitively.
func FromEnvMap(vars map[string]string) (GameConfig, error) {
	cfg := Default()
	normalized := make(map[string]string, len(vars))
	for k, v := range vars {
		normalized[strings.ToUpper(k)] = v
	}
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix, Environment: normalized}); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate rejects values the session cannot run with.
func (c GameConfig) Validate() error {
	switch {
	case c.ReorderSeconds <= 0:
		return fmt.Errorf("%w: reorder_seconds must be positive", ErrInvalidConfig)
	case c.MaxHealth <= 0:
		return fmt.Errorf("%w: max_health must be positive", ErrInvalidConfig)
	case c.RoundsToWin <= 0:
		return fmt.Errorf("%w: rounds_to_win must be positive", ErrInvalidConfig)
	case c.TickRate < 1 || c.TickRate > 60:
		return fmt.Errorf("%w: tick_rate must be within 1..60", ErrInvalidConfig)
	case c.SnapRadius < 0 || c.SlotSpacing <= 0:
		return fmt.Errorf("%w: slot geometry must be positive", ErrInvalidConfig)
	}
	for name, v := range map[string]float64{
		"ai_delay_seconds":       c.AIDelaySeconds,
		"announce_seconds":       c.AnnounceSeconds,
		"countdown_step_seconds": c.CountdownStepSeconds,
		"strike_seconds":         c.StrikeSeconds,
		"recover_seconds":        c.RecoverSeconds,
		"dissolve_seconds":       c.DissolveSeconds,
		"rematch_seconds":        c.RematchSeconds,
		"next_round_seconds":     c.NextRoundSeconds,
		"connect_seconds":        c.ConnectSeconds,
		"resume_seconds":         c.ResumeSeconds,
		"quit_grace_seconds":     c.QuitGraceSeconds,
		"ingest_retry_seconds":   c.IngestRetrySeconds,
	} {
		if v < 0 {
			return fmt.Errorf("%w: %s must not be negative", ErrInvalidConfig, name)
		}
	}
	return nil
}

// Seconds converts a config value to a duration.
func Seconds(v float64) time.Duration {
	return time.Duration(v * float64(time.Second))
}

// TickInterval is the wall-clock period of one logic tick.
func (c GameConfig) TickInterval() time.Duration {
	return time.Second / time.Duration(c.TickRate)
}
