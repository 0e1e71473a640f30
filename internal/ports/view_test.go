package ports

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"gesturecards/internal/app"
	"gesturecards/internal/domain"
)

// callLog records each presentation call as a short string.
type callLog struct {
	calls []string
}

func (c *callLog) add(format string, args ...any) {
	c.calls = append(c.calls, fmt.Sprintf(format, args...))
}

func (c *callLog) OnPhaseChanged(p domain.Phase, round int) { c.add("phase %s %d", p, round) }
func (c *callLog) OnCardSpawned(side domain.Side, slot int, g domain.Gesture) {
	c.add("spawn %s %d %s", side, slot, g)
}
func (c *callLog) OnCardRemoved(side domain.Side, slot int)   { c.add("remove %s %d", side, slot) }
func (c *callLog) OnCardMoved(side domain.Side, from, to int) { c.add("move %s %d %d", side, from, to) }
func (c *callLog) OnCardSnappedBack(side domain.Side, slot int) {
	c.add("snap %s %d", side, slot)
}
func (c *callLog) OnDamage(side domain.Side, amount, health int) {
	c.add("damage %s %d %d", side, amount, health)
}
func (c *callLog) OnHealthReset(health [2]int)      { c.add("health %v", health) }
func (c *callLog) OnTimerTick(remaining int)        { c.add("timer %d", remaining) }
func (c *callLog) OnAnnouncement(text string)       { c.add("say %s", text) }
func (c *callLog) OnRoundEnd(w domain.Side, d bool) { c.add("round %s %v", w, d) }
func (c *callLog) OnMatchEnd(w domain.Side)         { c.add("match %s", w) }
func (c *callLog) OnConnectionChanged(conn, p bool) { c.add("link %v %v", conn, p) }
func (c *callLog) OnQuitOffered()                   { c.add("quit") }

func TestDispatchPreservesOrder(t *testing.T) {
	events := []app.Event{
		{Kind: app.EventPhaseChanged, Payload: app.PhaseChangedPayload{From: domain.PhaseStarting, Phase: domain.PhaseSelection, Round: 1}},
		{Kind: app.EventCountdown, Payload: app.CountdownPayload{Text: "3"}},
		{Kind: app.EventCardSpawned, Payload: app.CardSpawnedPayload{Side: domain.SidePlayer, Slot: 0, Gesture: domain.Rock}},
		{Kind: app.EventDamage, Payload: app.DamagePayload{Side: domain.SideOpponent, Amount: 3, Health: 6}},
		{Kind: app.EventCardRemoved, Payload: app.CardRemovedPayload{Side: domain.SideOpponent, Slot: 0}},
		{Kind: app.EventTimerTick, Payload: app.TimerTickPayload{Remaining: 4}},
		{Kind: app.EventRoundEnded, Payload: app.RoundEndedPayload{Winner: domain.SidePlayer}},
		{Kind: app.EventQuitOffered, Payload: app.QuitOfferedPayload{Offline: 5}},
	}
	log := &callLog{}
	Dispatch(log, events)

	assert.Equal(t, []string{
		"phase selection 1",
		"say 3",
		"spawn player 0 rock",
		"damage opponent 3 6",
		"remove opponent 0",
		"timer 4",
		"round player false",
		"quit",
	}, log.calls)
}

func TestDispatchIgnoresDiagnostics(t *testing.T) {
	log := &callLog{}
	Dispatch(log, []app.Event{{Kind: app.EventGestureRejected, Payload: app.GestureRejectedPayload{Reason: app.RejectWrongPhase}}})
	assert.Empty(t, log.calls)
}

func TestMultiViewFansOut(t *testing.T) {
	a, b := &callLog{}, &callLog{}
	view := MultiView{a, b}
	view.OnCardMoved(domain.SidePlayer, 0, 2)
	view.OnMatchEnd(domain.SideOpponent)

	want := []string{"move player 0 2", "match opponent"}
	assert.Equal(t, want, a.calls)
	assert.Equal(t, want, b.calls)
}

func TestQueueDrainsInOrder(t *testing.T) {
	q := NewQueue[int]()
	for i := 0; i < 5; i++ {
		q.Push(i)
	}
	assert.Equal(t, 5, q.Len())
	assert.Equal(t, []int{0, 1, 2, 3, 4}, q.Drain())
	assert.Zero(t, q.Len())
	assert.Empty(t, q.Drain())
}
