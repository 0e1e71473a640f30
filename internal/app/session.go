package app

import (
	"math"
	"math/rand"
	"time"

	"github.com/looplab/fsm"

	"gesturecards/internal/config"
	"gesturecards/internal/domain"
)

// Rejection reasons reported with EventGestureRejected.
const (
	RejectWrongPhase = "wrong_phase"
	RejectRowFull    = "row_full"
	RejectUnknown    = "unknown_gesture"
	RejectBadSide    = "bad_side"
)

// Slot addresses a board position.
type Slot struct {
	Side  domain.Side
	Index int
}

// Session owns one match: round state, score, board and every pending timer.
// It is not safe for concurrent use; a single logic goroutine drives it and
// hands the returned events to presentation.
type Session struct {
	cfg      config.GameConfig
	rng      *rand.Rand
	opponent Opponent

	phases *fsm.FSM
	round  domain.RoundState
	match  domain.MatchState
	board  domain.Board

	history []domain.Gesture

	// main holds game sequencing and freezes while paused; link runs in
	// real time and drives the resume sequence.
	main timeline
	link timeline

	started     bool
	connected   bool
	paused      bool
	offline     time.Duration
	quitOffered bool
	lastSecond  int

	events []Event
}

// NewSession constructs a session in the waiting phase. A nil rng gets a
// time-seeded default; a nil opponent plays uniformly random gestures.
func NewSession(cfg config.GameConfig, opponent Opponent, rng *rand.Rand) *Session {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	s := &Session{
		cfg:      cfg,
		rng:      rng,
		opponent: opponent,
		round:    domain.NewRoundState(0),
		match:    domain.NewMatchState(cfg.MaxHealth, cfg.RoundsToWin),
	}
	s.round.Phase = domain.PhaseWaiting
	s.phases = newPhaseMachine(s.onEnterPhase)
	return s
}

// Phase returns the active phase.
func (s *Session) Phase() domain.Phase {
	return s.round.Phase
}

// Paused reports whether timers are frozen by a lost link.
func (s *Session) Paused() bool {
	return s.paused
}

func (s *Session) emit(kind EventKind, payload any) {
	s.events = append(s.events, Event{Kind: kind, Payload: payload})
}

func (s *Session) flush() []Event {
	out := s.events
	s.events = nil
	return out
}

func (s *Session) onEnterPhase(from, to domain.Phase) {
	s.round.Phase = to
	s.emit(EventPhaseChanged, PhaseChangedPayload{From: from, Phase: to, Round: s.round.Round})
}

// transition fires a phase event. The table only refuses a transition when
// sequencing is broken, which cannot be recovered at runtime.
func (s *Session) transition(event string) {
	if err := fire(s.phases, event); err != nil {
		panic(err)
	}
}

// Connect records that the recognizer link is up. The first connection
// schedules round one; later ones start the resume sequence.
func (s *Session) Connect() []Event {
	if s.connected {
		return nil
	}
	s.connected = true
	s.offline = 0
	s.quitOffered = false

	if !s.started {
		s.started = true
		s.emit(EventConnectionChanged, ConnectionChangedPayload{Connected: true})
		s.main.After(config.Seconds(s.cfg.ConnectSeconds), "connect", s.beginRound)
		return s.flush()
	}

	s.emit(EventConnectionChanged, ConnectionChangedPayload{Connected: true, Paused: s.paused})
	if s.paused {
		s.link.CancelAll()
		s.link.After(config.Seconds(s.cfg.ResumeSeconds), "resume", func() {
			s.countdown(&s.link, func() {
				s.paused = false
				s.emit(EventConnectionChanged, ConnectionChangedPayload{Connected: true})
			})
		})
	}
	return s.flush()
}

// Disconnect records that the link dropped and freezes every timer.
func (s *Session) Disconnect() []Event {
	if !s.connected {
		return nil
	}
	s.connected = false
	s.link.CancelAll()
	if s.started {
		s.paused = true
	}
	s.emit(EventConnectionChanged, ConnectionChangedPayload{Connected: false, Paused: s.paused})
	return s.flush()
}

// SubmitGesture places a gesture for side during Selection. Rejected
// submissions leave the round untouched and only emit a diagnostic.
func (s *Session) SubmitGesture(side domain.Side, g domain.Gesture) []Event {
	s.submit(side, g)
	return s.flush()
}

func (s *Session) submit(side domain.Side, g domain.Gesture) bool {
	reject := func(reason string) bool {
		s.emit(EventGestureRejected, GestureRejectedPayload{Side: side, Gesture: g, Reason: reason})
		return false
	}
	switch {
	case !side.Valid():
		return reject(RejectBadSide)
	case !g.Valid():
		return reject(RejectUnknown)
	case s.round.Phase != domain.PhaseSelection || s.paused:
		return reject(RejectWrongPhase)
	case s.round.FirstEmptyIndex(side) < 0 || s.round.Complete():
		return reject(RejectRowFull)
	}

	idx, _ := s.round.Record(side, g)
	card := domain.NewCard(g)
	if err := s.board.Place(side, idx, card); err != nil {
		// Gesture arrays and board slots fill in lockstep.
		panic(err)
	}
	if side == domain.SidePlayer {
		s.history = append(s.history, g)
	}
	s.emit(EventCardSpawned, CardSpawnedPayload{Side: side, Slot: idx, Gesture: g, CardID: card.ID.String()})

	if s.round.Complete() {
		s.main.CancelAll()
		s.transition(evCollected)
		s.prepareReorder()
		return true
	}
	if side == domain.SidePlayer {
		s.main.After(config.Seconds(s.cfg.AIDelaySeconds), "opponent", s.opponentMove)
	}
	return true
}

func (s *Session) opponentMove() {
	if s.round.Phase != domain.PhaseSelection {
		return
	}
	g := domain.NoGesture
	if s.opponent != nil {
		if chosen, err := s.opponent.NextGesture(s.View()); err == nil {
			g = chosen
		}
	}
	if !g.Valid() {
		g = domain.Gesture(s.rng.Intn(domain.GestureCount))
	}
	s.submit(domain.SideOpponent, g)
}

// View projects the table for AI opponents.
func (s *Session) View() domain.TableView {
	return domain.TableView{
		Round:     s.round.Round,
		Phase:     s.round.Phase,
		Gestures:  s.round.Gestures,
		Health:    s.match.Health,
		Wins:      s.match.Wins,
		MaxHealth: s.match.MaxHealth,
		History:   append([]domain.Gesture(nil), s.history...),
	}
}

func (s *Session) prepareReorder() {
	s.emit(EventAnnouncement, AnnouncementPayload{Text: "REORDER TIME"})
	s.main.After(config.Seconds(s.cfg.AnnounceSeconds), "reorder", func() {
		s.transition(evStartReorder)
		s.round.ReorderLeft = config.Seconds(s.cfg.ReorderSeconds)
		s.lastSecond = wholeSeconds(s.round.ReorderLeft)
		s.emit(EventTimerTick, TimerTickPayload{Remaining: s.lastSecond})
	})
}

// MoveCard swaps two of the player's slots during Reordering. Anything else,
// including a move on the opponent's row, snaps the card back.
func (s *Session) MoveCard(from, to Slot) []Event {
	s.move(from, to)
	return s.flush()
}

// DropCard moves a card to the slot nearest dropX on its own row, provided
// the drop lands within the snap radius.
func (s *Session) DropCard(from Slot, dropX float64) []Event {
	idx, ok := domain.SnapTarget(dropX, s.cfg.SlotSpacing, s.cfg.SnapRadius)
	if !ok {
		s.emit(EventCardSnappedBack, CardSnappedBackPayload{Side: from.Side, Slot: from.Index})
		return s.flush()
	}
	return s.MoveCard(from, Slot{Side: from.Side, Index: idx})
}

func (s *Session) move(from, to Slot) {
	snapBack := func() {
		s.emit(EventCardSnappedBack, CardSnappedBackPayload{Side: from.Side, Slot: from.Index})
	}
	if s.round.Phase != domain.PhaseReordering || s.paused {
		snapBack()
		return
	}
	// Only the human reorders, and only their own row.
	if from.Side != domain.SidePlayer || to.Side != domain.SidePlayer {
		snapBack()
		return
	}
	if !validIndex(from.Index) || !validIndex(to.Index) || from.Index == to.Index {
		snapBack()
		return
	}
	if s.board.Card(from.Side, from.Index) == nil {
		snapBack()
		return
	}
	swapped := s.board.Card(to.Side, to.Index) != nil
	if err := s.board.Swap(from.Side, from.Index, to.Index); err != nil {
		snapBack()
		return
	}
	gs := &s.round.Gestures[from.Side]
	gs[from.Index], gs[to.Index] = gs[to.Index], gs[from.Index]
	s.emit(EventCardMoved, CardMovedPayload{Side: from.Side, From: from.Index, To: to.Index, Swapped: swapped})
}

func validIndex(i int) bool {
	return i >= 0 && i < domain.SlotsPerSide
}

// FinishReorder ends the reorder window early.
func (s *Session) FinishReorder() []Event {
	if s.round.Phase == domain.PhaseReordering && !s.paused {
		s.lockIn()
	}
	return s.flush()
}

func (s *Session) lockIn() {
	s.transition(evLockIn)
	s.round.ReorderLeft = 0
	announce := config.Seconds(s.cfg.AnnounceSeconds)
	s.emit(EventAnnouncement, AnnouncementPayload{Text: "TIME'S UP"})
	s.main.After(announce, "fight", func() {
		s.emit(EventAnnouncement, AnnouncementPayload{Text: "FIGHT"})
		s.main.After(announce, "fight", func() {
			s.transition(evStartFight)
			s.fightRow(0)
		})
	})
}

func (s *Session) fightRow(row int) {
	for row < domain.SlotsPerSide && (s.board.Card(domain.SidePlayer, row) == nil || s.board.Card(domain.SideOpponent, row) == nil) {
		row++
	}
	if row >= domain.SlotsPerSide {
		s.summarize()
		return
	}
	s.main.After(config.Seconds(s.cfg.StrikeSeconds), "strike", func() {
		out := domain.ResolveRow(&s.board, row)
		if out.OpponentRemoved != nil {
			s.emit(EventCardRemoved, CardRemovedPayload{Side: domain.SideOpponent, Slot: row, CardID: out.OpponentRemoved.ID.String(), Reason: RemovedByCombat})
		}
		if out.PlayerRemoved != nil {
			s.emit(EventCardRemoved, CardRemovedPayload{Side: domain.SidePlayer, Slot: row, CardID: out.PlayerRemoved.ID.String(), Reason: RemovedByCombat})
		}
		s.damage(domain.SideOpponent, out.DamageToOpponent)
		s.damage(domain.SidePlayer, out.DamageToPlayer)

		wait := config.Seconds(s.cfg.RecoverSeconds)
		if out.Removed() {
			wait += config.Seconds(s.cfg.DissolveSeconds)
		}
		s.main.After(wait, "recover", func() { s.fightRow(row + 1) })
	})
}

func (s *Session) damage(side domain.Side, amount int) {
	if amount <= 0 {
		return
	}
	h := s.match.ApplyDamage(side, amount)
	s.emit(EventDamage, DamagePayload{Side: side, Amount: amount, Health: h})
}

func (s *Session) summarize() {
	s.transition(evSummarize)
	res := s.match.DecideRound(&s.board)
	if res.Outcome == domain.OutcomeDraw {
		s.emit(EventRoundEnded, RoundEndedPayload{Round: s.round.Round, Draw: true, Result: res})
		s.emit(EventAnnouncement, AnnouncementPayload{Text: "REMATCH"})
		s.main.After(config.Seconds(s.cfg.RematchSeconds), "new_round", s.beginRound)
		return
	}

	res = s.match.Award(res)
	winner, _ := res.Outcome.Winner()
	s.emit(EventRoundEnded, RoundEndedPayload{Round: s.round.Round, Winner: winner, Result: res})
	if res.MatchOver {
		s.emit(EventMatchEnded, MatchEndedPayload{Winner: s.match.Winner, Wins: s.match.Wins})
		s.transition(evFinishMatch)
		return
	}
	s.main.After(config.Seconds(s.cfg.NextRoundSeconds), "new_round", s.beginRound)
}

// beginRound clears the table, restores health and counts down into Selection.
func (s *Session) beginRound() {
	s.main.CancelAll()
	s.round = domain.NewRoundState(s.round.Round + 1)
	s.transition(evBeginRound)

	removed := s.board.Clear()
	for _, p := range removed {
		s.emit(EventCardRemoved, CardRemovedPayload{Side: p.Side, Slot: p.Index, CardID: p.Card.ID.String(), Reason: RemovedByCleanup})
	}
	s.match.ResetHealth()
	s.emit(EventHealthReset, HealthResetPayload{Health: s.match.Health})

	var wait time.Duration
	if len(removed) > 0 {
		wait = config.Seconds(s.cfg.DissolveSeconds)
	}
	s.main.After(wait, "countdown", func() {
		s.countdown(&s.main, func() { s.transition(evOpenSelection) })
	})
}

var countdownSteps = []string{"3", "2", "1", "START"}

// countdown shows each step for one step interval on tl, then runs done.
func (s *Session) countdown(tl *timeline, done func()) {
	step := config.Seconds(s.cfg.CountdownStepSeconds)
	var show func(i int)
	show = func(i int) {
		if i == len(countdownSteps) {
			done()
			return
		}
		s.emit(EventCountdown, CountdownPayload{Text: countdownSteps[i]})
		tl.After(step, "countdown", func() { show(i + 1) })
	}
	show(0)
}

// Tick advances the session by dt of wall-clock time.
func (s *Session) Tick(dt time.Duration) []Event {
	if dt < 0 {
		dt = 0
	}
	if !s.connected {
		s.offline += dt
		if !s.quitOffered && s.offline >= config.Seconds(s.cfg.QuitGraceSeconds) {
			s.quitOffered = true
			s.emit(EventQuitOffered, QuitOfferedPayload{Offline: s.offline.Seconds()})
		}
	}
	// A resume that completes during this tick takes effect on the next one.
	paused := s.paused
	s.link.Advance(dt)
	if paused {
		return s.flush()
	}

	reordering := s.round.Phase == domain.PhaseReordering
	s.main.Advance(dt)
	if reordering && s.round.Phase == domain.PhaseReordering {
		s.round.ReorderLeft -= dt
		if s.round.ReorderLeft <= 0 {
			s.round.ReorderLeft = 0
			s.emit(EventTimerTick, TimerTickPayload{Remaining: 0})
			s.lockIn()
		} else if sec := wholeSeconds(s.round.ReorderLeft); sec != s.lastSecond {
			s.lastSecond = sec
			s.emit(EventTimerTick, TimerTickPayload{Remaining: sec})
		}
	}
	// Actions scheduled with zero delay during this tick run now.
	s.main.Flush()
	return s.flush()
}

func wholeSeconds(d time.Duration) int {
	return int(math.Ceil(d.Seconds()))
}

// Reset abandons the current match and starts a fresh one.
func (s *Session) Reset() []Event {
	s.main.CancelAll()
	s.match.Reset()
	s.history = nil
	if s.started {
		s.round.Round = 0
		s.beginRound()
	}
	return s.flush()
}
