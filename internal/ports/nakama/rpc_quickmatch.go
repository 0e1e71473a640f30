package nakama

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/heroiclabs/nakama-common/runtime"
)

// QuickMatchResponse is the payload returned to clients asking for a table.
type QuickMatchResponse struct {
	MatchID string `json:"match_id"`
	IsNew   bool   `json:"is_new"`
}

// RegisterRPCs registers Nakama RPC endpoints.
func RegisterRPCs(initializer runtime.Initializer) error {
	return initializer.RegisterRpc(RpcQuickMatch, rpcQuickMatch)
}

func rpcQuickMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)

	// A table is single-seat, so only empty matches still waiting for their
	// human are candidates.
	query := "+label.open:T +label.game:gesturecards +label.phase:waiting"
	limit := 10
	authoritative := true
	minSize := 0
	maxSize := 0

	matches, err := nk.MatchList(ctx, limit, authoritative, "", &minSize, &maxSize, query)
	if err != nil {
		logger.Error("QuickMatch [User:%s]: MatchList error: %v", userID, err)
		return "", err
	}

	if len(matches) > 0 {
		logger.Info("QuickMatch [User:%s]: Reusing match %s", userID, matches[0].MatchId)
		b, _ := json.Marshal(QuickMatchResponse{MatchID: matches[0].MatchId, IsNew: false})
		return string(b), nil
	}

	matchID, err := nk.MatchCreate(ctx, MatchNameGestureCards, map[string]interface{}{})
	if err != nil {
		logger.Error("QuickMatch [User:%s]: MatchCreate error: %v", userID, err)
		return "", err
	}

	logger.Info("QuickMatch [User:%s]: Created match %s", userID, matchID)
	b, _ := json.Marshal(QuickMatchResponse{MatchID: matchID, IsNew: true})
	return string(b), nil
}
