package bot

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/heroiclabs/nakama-common/runtime"
)

// BotIdentity is a named opponent persona.
type BotIdentity struct {
	DeviceID    string `json:"device_id"`
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Level       string `json:"level"` // "random", "smart", "god", "script"
	AvatarIndex int    `json:"avatar_index"`
}

// Roster is a pool of opponent identities.
type Roster struct {
	mu         sync.RWMutex
	identities []BotIdentity
	byID       map[string]BotIdentity
}

// LoadRoster reads identities from a JSON array file.
func LoadRoster(path string) (*Roster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read bot identities: %w", err)
	}
	var identities []BotIdentity
	if err := json.Unmarshal(data, &identities); err != nil {
		return nil, fmt.Errorf("failed to unmarshal bot identities: %w", err)
	}
	r := &Roster{}
	r.set(identities)
	return r, nil
}

func (r *Roster) set(identities []BotIdentity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.identities = identities
	r.byID = make(map[string]BotIdentity, len(identities))
	for _, identity := range identities {
		if identity.UserID != "" {
			r.byID[identity.UserID] = identity
		}
	}
}

// Identity returns an identity by index (mod pool size), or a generated one
// when the pool is empty.
func (r *Roster) Identity(index int) BotIdentity {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.identities) == 0 {
		return BotIdentity{
			UserID:      fmt.Sprintf("bot-%d", index),
			DisplayName: fmt.Sprintf("AI Player %d", index),
		}
	}
	if index < 0 {
		index = -index
	}
	return r.identities[index%len(r.identities)]
}

// IsBot reports whether the user id belongs to the pool.
func (r *Roster) IsBot(userID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byID[userID]
	return ok
}

// Provision ensures each identity with a device id has a Nakama account
// flagged as a bot, and records the resulting user ids.
func (r *Roster) Provision(ctx context.Context, nk runtime.NakamaModule, logger runtime.Logger) {
	r.mu.RLock()
	identities := append([]BotIdentity(nil), r.identities...)
	r.mu.RUnlock()

	for i := range identities {
		identity := &identities[i]
		if identity.DeviceID == "" {
			continue
		}
		userID, username, _, err := nk.AuthenticateDevice(ctx, identity.DeviceID, identity.Username, true)
		if err != nil {
			logger.Error("ProvisionBots: Failed to authenticate bot %s: %v", identity.Username, err)
			continue
		}
		identity.UserID = userID
		identity.Username = username

		metadata := map[string]interface{}{
			"is_bot":       true,
			"level":        identity.Level,
			"avatar_index": identity.AvatarIndex,
		}
		if err := nk.AccountUpdateId(ctx, userID, identity.Username, metadata, identity.DisplayName, "", "", "", ""); err != nil {
			logger.Warn("ProvisionBots: Failed to update bot account %s: %v", userID, err)
		}
		logger.Info("ProvisionBots: Bot %s (%s) is ready. Level: %s", identity.DisplayName, userID, identity.Level)
	}
	r.set(identities)
}

var defaultRoster = &Roster{}

// LoadIdentities replaces the process-wide roster from path.
func LoadIdentities(path string) error {
	r, err := LoadRoster(path)
	if err != nil {
		return err
	}
	defaultRoster.set(r.identities)
	return nil
}

// DefaultRoster returns the process-wide roster.
func DefaultRoster() *Roster {
	return defaultRoster
}

// GetBotIdentity returns an identity from the process-wide roster.
func GetBotIdentity(index int) BotIdentity {
	return defaultRoster.Identity(index)
}
