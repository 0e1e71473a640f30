package ports

import (
	"gesturecards/internal/app"
	"gesturecards/internal/domain"

	"github.com/heroiclabs/nakama-common/runtime"
)

// ViewPort is the presentation contract: everything a renderer needs to
// mirror the table.
type ViewPort interface {
	OnPhaseChanged(phase domain.Phase, round int)
	OnCardSpawned(side domain.Side, slot int, g domain.Gesture)
	OnCardRemoved(side domain.Side, slot int)
	OnCardMoved(side domain.Side, from, to int)
	OnCardSnappedBack(side domain.Side, slot int)
	OnDamage(side domain.Side, amount, health int)
	OnHealthReset(health [2]int)
	OnTimerTick(remaining int)
	OnAnnouncement(text string)
	OnRoundEnd(winner domain.Side, draw bool)
	OnMatchEnd(winner domain.Side)
	OnConnectionChanged(connected, paused bool)
	OnQuitOffered()
}

// Dispatch replays events on view in order.
func Dispatch(view ViewPort, events []app.Event) {
	for _, ev := range events {
		switch p := ev.Payload.(type) {
		case app.PhaseChangedPayload:
			view.OnPhaseChanged(p.Phase, p.Round)
		case app.CardSpawnedPayload:
			view.OnCardSpawned(p.Side, p.Slot, p.Gesture)
		case app.CardRemovedPayload:
			view.OnCardRemoved(p.Side, p.Slot)
		case app.CardMovedPayload:
			view.OnCardMoved(p.Side, p.From, p.To)
		case app.CardSnappedBackPayload:
			view.OnCardSnappedBack(p.Side, p.Slot)
		case app.DamagePayload:
			view.OnDamage(p.Side, p.Amount, p.Health)
		case app.HealthResetPayload:
			view.OnHealthReset(p.Health)
		case app.TimerTickPayload:
			view.OnTimerTick(p.Remaining)
		case app.CountdownPayload:
			view.OnAnnouncement(p.Text)
		case app.AnnouncementPayload:
			view.OnAnnouncement(p.Text)
		case app.RoundEndedPayload:
			view.OnRoundEnd(p.Winner, p.Draw)
		case app.MatchEndedPayload:
			view.OnMatchEnd(p.Winner)
		case app.ConnectionChangedPayload:
			view.OnConnectionChanged(p.Connected, p.Paused)
		case app.QuitOfferedPayload:
			view.OnQuitOffered()
		}
	}
}

// MultiView fans every call out to each view in order.
type MultiView []ViewPort

func (m MultiView) OnPhaseChanged(phase domain.Phase, round int) {
	for _, v := range m {
		v.OnPhaseChanged(phase, round)
	}
}

func (m MultiView) OnCardSpawned(side domain.Side, slot int, g domain.Gesture) {
	for _, v := range m {
		v.OnCardSpawned(side, slot, g)
	}
}

func (m MultiView) OnCardRemoved(side domain.Side, slot int) {
	for _, v := range m {
		v.OnCardRemoved(side, slot)
	}
}

func (m MultiView) OnCardMoved(side domain.Side, from, to int) {
	for _, v := range m {
		v.OnCardMoved(side, from, to)
	}
}

func (m MultiView) OnCardSnappedBack(side domain.Side, slot int) {
	for _, v := range m {
		v.OnCardSnappedBack(side, slot)
	}
}

func (m MultiView) OnDamage(side domain.Side, amount, health int) {
	for _, v := range m {
		v.OnDamage(side, amount, health)
	}
}

func (m MultiView) OnHealthReset(health [2]int) {
	for _, v := range m {
		v.OnHealthReset(health)
	}
}

func (m MultiView) OnTimerTick(remaining int) {
	for _, v := range m {
		v.OnTimerTick(remaining)
	}
}

func (m MultiView) OnAnnouncement(text string) {
	for _, v := range m {
		v.OnAnnouncement(text)
	}
}

func (m MultiView) OnRoundEnd(winner domain.Side, draw bool) {
	for _, v := range m {
		v.OnRoundEnd(winner, draw)
	}
}

func (m MultiView) OnMatchEnd(winner domain.Side) {
	for _, v := range m {
		v.OnMatchEnd(winner)
	}
}

func (m MultiView) OnConnectionChanged(connected, paused bool) {
	for _, v := range m {
		v.OnConnectionChanged(connected, paused)
	}
}

func (m MultiView) OnQuitOffered() {
	for _, v := range m {
		v.OnQuitOffered()
	}
}

// LogView writes a line per presentation call.
type LogView struct {
	Logger runtime.Logger
}

func (l LogView) OnPhaseChanged(phase domain.Phase, round int) {
	l.Logger.Info("Phase: %s (round %d)", phase, round)
}

func (l LogView) OnCardSpawned(side domain.Side, slot int, g domain.Gesture) {
	l.Logger.Debug("Card: %s placed %s in slot %d", side, g, slot)
}

func (l LogView) OnCardRemoved(side domain.Side, slot int) {
	l.Logger.Debug("Card: %s slot %d cleared", side, slot)
}

func (l LogView) OnCardMoved(side domain.Side, from, to int) {
	l.Logger.Debug("Card: %s moved slot %d -> %d", side, from, to)
}

func (l LogView) OnCardSnappedBack(side domain.Side, slot int) {
	l.Logger.Debug("Card: %s slot %d snapped back", side, slot)
}

func (l LogView) OnDamage(side domain.Side, amount, health int) {
	l.Logger.Info("Damage: %s took %d (health %d)", side, amount, health)
}

func (l LogView) OnHealthReset(health [2]int) {
	l.Logger.Debug("Health: reset to %v", health)
}

func (l LogView) OnTimerTick(remaining int) {
	l.Logger.Debug("Timer: %ds left", remaining)
}

func (l LogView) OnAnnouncement(text string) {
	l.Logger.Info("Announce: %s", text)
}

func (l LogView) OnRoundEnd(winner domain.Side, draw bool) {
	if draw {
		l.Logger.Info("Round: draw")
		return
	}
	l.Logger.Info("Round: %s wins", winner)
}

func (l LogView) OnMatchEnd(winner domain.Side) {
	l.Logger.Info("Match: %s wins", winner)
}

func (l LogView) OnConnectionChanged(connected, paused bool) {
	l.Logger.Info("Link: connected=%v paused=%v", connected, paused)
}

func (l LogView) OnQuitOffered() {
	l.Logger.Warn("Link: still waiting for the recognizer, quit is available")
}
