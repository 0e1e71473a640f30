// Package ingest receives gesture tokens from the external recognizer over
// a local TCP link.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/heroiclabs/nakama-common/runtime"

	"gesturecards/internal/domain"
	"gesturecards/internal/ports"
)

// MessageKind tags what arrived on the link.
type MessageKind int

const (
	MessageToken MessageKind = iota
	MessageConnected
	MessageDisconnected
)

// Message is one item handed to the logic goroutine.
type Message struct {
	Kind  MessageKind
	Token string
}

// TicketVerifier checks the ticket a helper presents as its first token.
type TicketVerifier interface {
	Enabled() bool
	Verify(ticket string) (string, error)
}

const (
	readBufferSize = 1024
	maxTokenSize   = 64 * 1024
)

// Listener accepts one recognizer at a time and pushes its tokens, in
// arrival order, onto Queue. It never touches game state.
type Listener struct {
	Addr    string
	Retry   time.Duration
	Queue   *ports.Queue[Message]
	Logger  runtime.Logger
	Tickets TicketVerifier

	// OnListen, when set, is called with the bound address each time the
	// listener (re)opens.
	OnListen func(addr net.Addr)
}

// Run listens until ctx is cancelled, reopening the socket after any error.
func (l *Listener) Run(ctx context.Context) error {
	retry := l.Retry
	if retry <= 0 {
		retry = time.Second
	}
	for {
		err := l.serve(ctx)
		if ctx.Err() != nil {
			return nil
		}
		l.Logger.Warn("Ingest: listener error, retrying in %v: %v", retry, err)
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(retry):
		}
	}
}

func (l *Listener) serve(ctx context.Context) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", l.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", l.Addr, err)
	}
	stop := context.AfterFunc(ctx, func() { ln.Close() })
	defer stop()
	defer ln.Close()

	l.Logger.Info("Ingest: waiting for recognizer on %s", ln.Addr())
	if l.OnListen != nil {
		l.OnListen(ln.Addr())
	}
	for {
		conn, err := ln.Accept()
		if err != nil {
			return fmt.Errorf("accept: %w", err)
		}
		l.handle(ctx, conn)
	}
}

func (l *Listener) handle(ctx context.Context, conn net.Conn) {
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()
	defer conn.Close()

	remote := conn.RemoteAddr().String()
	authed := l.Tickets == nil || !l.Tickets.Enabled()
	if authed {
		l.connected(remote)
	}

	split := &splitter{complete: func(token string) bool {
		if !authed {
			return false
		}
		_, ok := domain.ParseGesture(token)
		return ok
	}}
	deliver := func(tokens []string) bool {
		for _, token := range tokens {
			if !authed {
				helper, err := l.Tickets.Verify(token)
				if err != nil {
					l.Logger.Warn("Ingest: rejecting %s: %v", remote, err)
					return false
				}
				authed = true
				l.Logger.Info("Ingest: helper %s authenticated", helper)
				l.connected(remote)
				continue
			}
			l.Queue.Push(Message{Kind: MessageToken, Token: token})
		}
		return true
	}

	buf := make([]byte, readBufferSize)
	for {
		n, err := conn.Read(buf)
		if n > 0 && !deliver(split.feed(string(buf[:n]))) {
			return
		}
		if err != nil {
			if !deliver(split.flush()) {
				return
			}
			if authed {
				l.Queue.Push(Message{Kind: MessageDisconnected})
			}
			if !errors.Is(err, net.ErrClosed) {
				l.Logger.Info("Ingest: recognizer %s disconnected: %v", remote, err)
			}
			return
		}
	}
}

func (l *Listener) connected(remote string) {
	l.Logger.Info("Ingest: recognizer connected from %s", remote)
	l.Queue.Push(Message{Kind: MessageConnected})
}

// Send dials addr and writes tokens, one per line. It is the client side of
// the link, used by tooling and tests.
func Send(ctx context.Context, addr string, tokens ...string) error {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	defer conn.Close()
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetWriteDeadline(deadline)
	}
	for _, t := range tokens {
		if _, err := conn.Write([]byte(t + "\n")); err != nil {
			return fmt.Errorf("write %q: %w", t, err)
		}
	}
	return nil
}
