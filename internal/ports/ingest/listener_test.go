package ingest

import (
	"context"
	"errors"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/heroiclabs/nakama-common/runtime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gesturecards/internal/ports"
)

type noopLogger struct{}

func (noopLogger) Debug(string, ...interface{}) {}
func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}
func (noopLogger) WithField(string, interface{}) runtime.Logger {
	return noopLogger{}
}
func (noopLogger) WithFields(map[string]interface{}) runtime.Logger {
	return noopLogger{}
}
func (noopLogger) Fields() map[string]interface{} {
	return nil
}

type stubTickets struct{}

func (stubTickets) Enabled() bool { return true }
func (stubTickets) Verify(ticket string) (string, error) {
	if ticket != "good-ticket" {
		return "", errors.New("bad ticket")
	}
	return "helper", nil
}

type collector struct {
	mu   sync.Mutex
	q    *ports.Queue[Message]
	seen []Message
}

func (c *collector) all() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seen = append(c.seen, c.q.Drain()...)
	return append([]Message(nil), c.seen...)
}

func startListener(t *testing.T, addr string, tickets TicketVerifier) (*collector, <-chan net.Addr) {
	t.Helper()
	q := ports.NewQueue[Message]()
	bound := make(chan net.Addr, 4)
	l := &Listener{
		Addr:     addr,
		Retry:    20 * time.Millisecond,
		Queue:    q,
		Logger:   noopLogger{},
		Tickets:  tickets,
		OnListen: func(a net.Addr) { bound <- a },
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Error("listener did not stop")
		}
	})
	return &collector{q: q}, bound
}

func waitBound(t *testing.T, bound <-chan net.Addr) string {
	t.Helper()
	select {
	case a := <-bound:
		return a.String()
	case <-time.After(2 * time.Second):
		t.Fatal("listener never bound")
		return ""
	}
}

func sendCtx(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestListenerQueuesTokensInOrder(t *testing.T) {
	c, bound := startListener(t, "127.0.0.1:0", nil)
	addr := waitBound(t, bound)

	require.NoError(t, Send(sendCtx(t), addr, "rock", "PAPER", "lizard"))

	require.Eventually(t, func() bool {
		msgs := c.all()
		return len(msgs) > 0 && msgs[len(msgs)-1].Kind == MessageDisconnected
	}, 2*time.Second, 10*time.Millisecond)

	msgs := c.all()
	require.Len(t, msgs, 5)
	assert.Equal(t, MessageConnected, msgs[0].Kind)
	assert.Equal(t, []string{"rock", "PAPER", "lizard"}, []string{msgs[1].Token, msgs[2].Token, msgs[3].Token})
	assert.Equal(t, MessageDisconnected, msgs[4].Kind)
}

func TestListenerJoinsTokensSplitAcrossWrites(t *testing.T) {
	c, bound := startListener(t, "127.0.0.1:0", nil)
	addr := waitBound(t, bound)

	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	tokens := func() []string {
		var out []string
		for _, m := range c.all() {
			if m.Kind == MessageToken {
				out = append(out, m.Token)
			}
		}
		return out
	}
	write := func(s string) {
		_, err := conn.Write([]byte(s))
		require.NoError(t, err)
	}

	// Bare tokens with no delimiter, each landing in its own read.
	write("rock")
	require.Eventually(t, func() bool { return len(tokens()) == 1 }, 2*time.Second, 10*time.Millisecond)
	write("paper")
	require.Eventually(t, func() bool { return len(tokens()) == 2 }, 2*time.Second, 10*time.Millisecond)

	// A token cut between two reads is held until the rest arrives.
	write("sciss")
	time.Sleep(30 * time.Millisecond)
	assert.Len(t, tokens(), 2)
	write("ors\n")
	require.NoError(t, conn.Close())

	require.Eventually(t, func() bool {
		msgs := c.all()
		return len(msgs) > 0 && msgs[len(msgs)-1].Kind == MessageDisconnected
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{"rock", "paper", "scissors"}, tokens())
}

func TestListenerAcceptsNextClientAfterDisconnect(t *testing.T) {
	c, bound := startListener(t, "127.0.0.1:0", nil)
	addr := waitBound(t, bound)

	require.NoError(t, Send(sendCtx(t), addr, "sun"))
	require.NoError(t, Send(sendCtx(t), addr, "gun"))

	require.Eventually(t, func() bool { return len(c.all()) == 6 }, 2*time.Second, 10*time.Millisecond)
	msgs := c.all()
	assert.Equal(t, "sun", msgs[1].Token)
	assert.Equal(t, MessageConnected, msgs[3].Kind)
	assert.Equal(t, "gun", msgs[4].Token)
}

func TestListenerRequiresTicket(t *testing.T) {
	c, bound := startListener(t, "127.0.0.1:0", stubTickets{})
	addr := waitBound(t, bound)

	require.NoError(t, Send(sendCtx(t), addr, "forged rock"))
	time.Sleep(100 * time.Millisecond)
	assert.Empty(t, c.all(), "unauthenticated helper must not reach the queue")

	require.NoError(t, Send(sendCtx(t), addr, "good-ticket", "rock"))
	require.Eventually(t, func() bool { return len(c.all()) == 3 }, 2*time.Second, 10*time.Millisecond)
	msgs := c.all()
	assert.Equal(t, MessageConnected, msgs[0].Kind)
	assert.Equal(t, Message{Kind: MessageToken, Token: "rock"}, msgs[1])
	assert.Equal(t, MessageDisconnected, msgs[2].Kind)
}

func TestListenerRetriesUntilAddressFrees(t *testing.T) {
	blocker, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := blocker.Addr().String()

	_, bound := startListener(t, addr, nil)
	select {
	case <-bound:
		t.Fatal("listener bound a busy address")
	case <-time.After(100 * time.Millisecond):
	}

	require.NoError(t, blocker.Close())
	assert.Equal(t, addr, waitBound(t, bound))
}
