package main

import (
	"context"
	"database/sql"

	"gesturecards/internal/ports/nakama"

	"github.com/heroiclabs/nakama-common/runtime"
)

// InitModule proxies Nakama initialization to the nakama adapter package.
func InitModule(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, initializer runtime.Initializer) error {
	return nakama.InitModule(ctx, logger, db, nk, initializer)
}

// main is unused when built with -buildmode=plugin; it lets `go build ./...` succeed.
func main() {}
