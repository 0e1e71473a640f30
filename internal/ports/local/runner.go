// Package local hosts a session on a single logic goroutine for the
// standalone server.
package local

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/heroiclabs/nakama-common/runtime"

	"gesturecards/internal/app"
	"gesturecards/internal/domain"
	"gesturecards/internal/ports"
	"gesturecards/internal/ports/ingest"
)

// CommandKind identifies a presentation request.
type CommandKind int

const (
	CommandMove CommandKind = iota
	CommandDrop
	CommandFinishReorder
	CommandReset
)

// Command is a request from presentation, applied between ticks.
type Command struct {
	Kind  CommandKind
	From  app.Slot
	To    app.Slot
	DropX float64
}

// Runner owns the session. Only Run (or Step) may touch it.
type Runner struct {
	Session  *app.Session
	Inbox    *ports.Queue[ingest.Message]
	Commands *ports.Queue[Command]
	View     ports.ViewPort
	Logger   runtime.Logger
	Interval time.Duration

	snapshot atomic.Pointer[app.Snapshot]
}

// NewRunner wires a runner with fresh queues.
func NewRunner(session *app.Session, view ports.ViewPort, logger runtime.Logger, interval time.Duration) *Runner {
	r := &Runner{
		Session:  session,
		Inbox:    ports.NewQueue[ingest.Message](),
		Commands: ports.NewQueue[Command](),
		View:     view,
		Logger:   logger,
		Interval: interval,
	}
	snap := session.Snapshot()
	r.snapshot.Store(&snap)
	return r
}

// Run ticks until ctx is cancelled, feeding the measured wall-clock delta
// to the session.
func (r *Runner) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.Interval)
	defer ticker.Stop()
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			r.Step(now.Sub(last))
			last = now
		}
	}
}

// Step drains both queues in arrival order, advances the session by dt and
// dispatches everything it emitted.
func (r *Runner) Step(dt time.Duration) []app.Event {
	var events []app.Event
	for _, msg := range r.Inbox.Drain() {
		switch msg.Kind {
		case ingest.MessageConnected:
			events = append(events, r.Session.Connect()...)
		case ingest.MessageDisconnected:
			events = append(events, r.Session.Disconnect()...)
		case ingest.MessageToken:
			g, ok := domain.ParseGesture(msg.Token)
			if !ok {
				r.Logger.Debug("Step: dropping unknown token %q", msg.Token)
				continue
			}
			events = append(events, r.Session.SubmitGesture(domain.SidePlayer, g)...)
		}
	}
	for _, cmd := range r.Commands.Drain() {
		events = append(events, r.apply(cmd)...)
	}
	events = append(events, r.Session.Tick(dt)...)

	for _, ev := range events {
		if p, ok := ev.Payload.(app.GestureRejectedPayload); ok {
			r.Logger.Debug("Step: %s gesture %s ignored (%s)", p.Side, p.Gesture, p.Reason)
		}
	}
	if r.View != nil {
		ports.Dispatch(r.View, events)
	}
	snap := r.Session.Snapshot()
	r.snapshot.Store(&snap)
	return events
}

func (r *Runner) apply(cmd Command) []app.Event {
	switch cmd.Kind {
	case CommandMove:
		return r.Session.MoveCard(cmd.From, cmd.To)
	case CommandDrop:
		return r.Session.DropCard(cmd.From, cmd.DropX)
	case CommandFinishReorder:
		return r.Session.FinishReorder()
	case CommandReset:
		return r.Session.Reset()
	default:
		r.Logger.Warn("apply: unknown command %d", cmd.Kind)
		return nil
	}
}

// Snapshot returns the state published after the latest step. It is safe to
// call from any goroutine.
func (r *Runner) Snapshot() app.Snapshot {
	return *r.snapshot.Load()
}
