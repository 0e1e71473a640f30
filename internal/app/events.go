package app

import "gesturecards/internal/domain"

// EventKind identifies emitted session events for presentation dispatch.
type EventKind string

const (
	EventPhaseChanged      EventKind = "phase_changed"
	EventCountdown         EventKind = "countdown"
	EventAnnouncement      EventKind = "announcement"
	EventTimerTick         EventKind = "timer_tick"
	EventCardSpawned       EventKind = "card_spawned"
	EventCardRemoved       EventKind = "card_removed"
	EventCardMoved         EventKind = "card_moved"
	EventCardSnappedBack   EventKind = "card_snapped_back"
	EventDamage            EventKind = "damage"
	EventHealthReset       EventKind = "health_reset"
	EventRoundEnded        EventKind = "round_ended"
	EventMatchEnded        EventKind = "match_ended"
	EventConnectionChanged EventKind = "connection_changed"
	EventQuitOffered       EventKind = "quit_offered"
	EventGestureRejected   EventKind = "gesture_rejected"
)

// Event is a session event. Payload holds the matching *Payload struct.
type Event struct {
	Kind    EventKind
	Payload any
}

type PhaseChangedPayload struct {
	From  domain.Phase
	Phase domain.Phase
	Round int
}

type CountdownPayload struct {
	Text string
}

type AnnouncementPayload struct {
	Text string
}

// TimerTickPayload carries the whole seconds left in the reorder window.
type TimerTickPayload struct {
	Remaining int
}

type CardSpawnedPayload struct {
	Side    domain.Side
	Slot    int
	Gesture domain.Gesture
	CardID  string
}

// RemovalReason tells presentations why a card left the board.
type RemovalReason string

const (
	RemovedByCombat  RemovalReason = "combat"
	RemovedByCleanup RemovalReason = "cleanup"
)

type CardRemovedPayload struct {
	Side   domain.Side
	Slot   int
	CardID string
	Reason RemovalReason
}

type CardMovedPayload struct {
	Side    domain.Side
	From    int
	To      int
	Swapped bool
}

type CardSnappedBackPayload struct {
	Side domain.Side
	Slot int
}

type DamagePayload struct {
	Side   domain.Side
	Amount int
	Health int
}

type HealthResetPayload struct {
	Health [2]int
}

type RoundEndedPayload struct {
	Round  int
	Winner domain.Side
	Draw   bool
	Result domain.RoundResult
}

type MatchEndedPayload struct {
	Winner domain.Side
	Wins   [2]int
}

type ConnectionChangedPayload struct {
	Connected bool
	Paused    bool
}

type QuitOfferedPayload struct {
	Offline float64
}

type GestureRejectedPayload struct {
	Side    domain.Side
	Gesture domain.Gesture
	Reason  string
}
