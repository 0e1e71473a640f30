package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"gesturecards/internal/app"
	"gesturecards/internal/bot"
	"gesturecards/internal/config"
	"gesturecards/internal/logging"
	"gesturecards/internal/ports"
	"gesturecards/internal/ports/httpview"
	"gesturecards/internal/ports/ingest"
	"gesturecards/internal/ports/local"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var noView bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Listen for the recognizer and run the game loop",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, !noView)
		},
	}
	cmd.Flags().BoolVar(&noView, "no-view", false, "do not start the HTTP view")
	return cmd
}

func serve(ctx context.Context, cfg config.GameConfig, withView bool) error {
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.BotIdentities != "" {
		if err := bot.LoadIdentities(cfg.BotIdentities); err != nil {
			logger.Warn("serve: Could not load bot identities: %v", err)
		}
	}
	level, err := bot.ParseLevel(cfg.BotLevel)
	if err != nil {
		return err
	}
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	agent, err := bot.NewAgent(0, level, cfg.BotScript, rng)
	if err != nil {
		return fmt.Errorf("create opponent: %w", err)
	}
	defer agent.Close()
	logger.Info("serve: Opponent is %s (%s)", agent.Name, level)

	session := app.NewSession(cfg, agent, rng)
	views := ports.MultiView{ports.LogView{Logger: logger}}
	runner := local.NewRunner(session, nil, logger, cfg.TickInterval())

	var view *httpview.Server
	if withView {
		view = httpview.NewServer(runner.Snapshot, runner.Commands, logger.WithField("component", "view"))
		views = append(views, view)
	}
	runner.View = views

	listener := &ingest.Listener{
		Addr:    cfg.IngestAddr,
		Retry:   config.Seconds(cfg.IngestRetrySeconds),
		Queue:   runner.Inbox,
		Logger:  logger.WithField("component", "ingest"),
		Tickets: app.NewLinkTicketService(cfg.LinkSecret, cfg.LinkIssuer),
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return listener.Run(ctx) })
	g.Go(func() error { return runner.Run(ctx) })
	if view != nil {
		g.Go(func() error { return view.Run(ctx, cfg.ViewAddr) })
	}
	logger.Info("serve: Waiting for the recognizer on %s", cfg.IngestAddr)
	return g.Wait()
}
