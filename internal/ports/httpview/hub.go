package httpview

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/heroiclabs/nakama-common/runtime"
	"nhooyr.io/websocket"

	"gesturecards/internal/domain"
)

const (
	pingInterval = 15 * time.Second
	sendBuffer   = 64
)

// Msg is the envelope used in both directions on /ws.
type Msg struct {
	T string         `json:"t"`
	M map[string]any `json:"m,omitempty"`
}

type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

// Hub fans presentation calls out to every websocket client. It implements
// ports.ViewPort, so the logic goroutine drives it directly.
type Hub struct {
	logger runtime.Logger

	mu      sync.RWMutex
	clients map[*client]struct{}
}

func NewHub(logger runtime.Logger) *Hub {
	return &Hub{logger: logger, clients: map[*client]struct{}{}}
}

// Clients reports how many sockets are attached.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// closeAll drops every socket, used on shutdown since hijacked connections
// are not tracked by http.Server.
func (h *Hub) closeAll() {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		_ = c.conn.Close(websocket.StatusGoingAway, "server shutting down")
	}
}

func (h *Hub) broadcast(t string, m map[string]any) {
	data, err := json.Marshal(Msg{T: t, M: m})
	if err != nil {
		h.logger.Error("broadcast: marshal %s: %v", t, err)
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			h.logger.Warn("broadcast: client %s is behind, dropping %s", c.id, t)
		}
	}
}

// serve runs one websocket until the peer leaves. hello is written before the
// client starts receiving broadcasts; onMsg handles inbound envelopes.
func (h *Hub) serve(w http.ResponseWriter, r *http.Request, hello Msg, onMsg func(Msg)) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
	if err != nil {
		h.logger.Warn("serve: accept failed: %v", err)
		return
	}
	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	c := &client{id: uuid.NewString(), conn: conn, send: make(chan []byte, sendBuffer)}
	if data, err := json.Marshal(hello); err == nil {
		c.send <- data
	}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	h.logger.Info("serve: client %s connected", c.id)

	defer func() {
		h.mu.Lock()
		delete(h.clients, c)
		h.mu.Unlock()
		h.logger.Info("serve: client %s left", c.id)
	}()

	go func() {
		ping := time.NewTicker(pingInterval)
		defer ping.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case msg := <-c.send:
				if err := conn.Write(ctx, websocket.MessageText, msg); err != nil {
					cancel()
					return
				}
			case <-ping.C:
				_ = conn.Ping(ctx)
			}
		}
	}()

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			break
		}
		var m Msg
		if err := json.Unmarshal(data, &m); err != nil {
			h.logger.Debug("serve: bad message from %s: %v", c.id, err)
			continue
		}
		onMsg(m)
	}
	_ = conn.Close(websocket.StatusNormalClosure, "bye")
}

func (h *Hub) OnPhaseChanged(phase domain.Phase, round int) {
	h.broadcast("phase", map[string]any{"phase": phase, "round": round})
}

func (h *Hub) OnCardSpawned(side domain.Side, slot int, g domain.Gesture) {
	h.broadcast("card_spawned", map[string]any{"side": side.String(), "slot": slot, "gesture": g.String(), "gesture_id": int(g)})
}

func (h *Hub) OnCardRemoved(side domain.Side, slot int) {
	h.broadcast("card_removed", map[string]any{"side": side.String(), "slot": slot})
}

func (h *Hub) OnCardMoved(side domain.Side, from, to int) {
	h.broadcast("card_moved", map[string]any{"side": side.String(), "from": from, "to": to})
}

func (h *Hub) OnCardSnappedBack(side domain.Side, slot int) {
	h.broadcast("card_snapped_back", map[string]any{"side": side.String(), "slot": slot})
}

func (h *Hub) OnDamage(side domain.Side, amount, health int) {
	h.broadcast("damage", map[string]any{"side": side.String(), "amount": amount, "health": health})
}

func (h *Hub) OnHealthReset(health [2]int) {
	h.broadcast("health_reset", map[string]any{"health": health})
}

func (h *Hub) OnTimerTick(remaining int) {
	h.broadcast("timer", map[string]any{"remaining": remaining})
}

func (h *Hub) OnAnnouncement(text string) {
	h.broadcast("announce", map[string]any{"text": text})
}

func (h *Hub) OnRoundEnd(winner domain.Side, draw bool) {
	m := map[string]any{"draw": draw}
	if !draw {
		m["winner"] = winner.String()
	}
	h.broadcast("round_end", m)
}

func (h *Hub) OnMatchEnd(winner domain.Side) {
	h.broadcast("match_end", map[string]any{"winner": winner.String()})
}

func (h *Hub) OnConnectionChanged(connected, paused bool) {
	h.broadcast("link", map[string]any{"connected": connected, "paused": paused})
}

func (h *Hub) OnQuitOffered() {
	h.broadcast("quit_offered", nil)
}
