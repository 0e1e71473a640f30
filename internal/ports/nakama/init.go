package nakama

import (
	"context"
	"database/sql"

	"github.com/heroiclabs/nakama-common/runtime"

	"gesturecards/internal/bot"
)

// BotIdentitiesPath is read at module load when no override is configured.
const BotIdentitiesPath = "data/bot_identities.json"

// InitModule wires RPCs and match handlers for Nakama runtime.
func InitModule(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, initializer runtime.Initializer) error {
	cfg := configFromContext(ctx, logger)
	path := cfg.BotIdentities
	if path == "" {
		path = BotIdentitiesPath
	}
	if err := bot.LoadIdentities(path); err != nil {
		logger.Warn("InitModule: Could not load bot identities: %v", err)
	} else {
		bot.DefaultRoster().Provision(ctx, nk, logger)
	}

	if err := RegisterRPCs(initializer); err != nil {
		return err
	}

	if err := initializer.RegisterMatch(MatchNameGestureCards, NewMatch); err != nil {
		return err
	}

	logger.Info("GestureCards Go module loaded.")
	return nil
}
