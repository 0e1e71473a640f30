package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"math/rand"
	"strings"
	"time"

	"github.com/heroiclabs/nakama-common/runtime"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"gesturecards/internal/app"
	"gesturecards/internal/bot"
	"gesturecards/internal/config"
	"gesturecards/internal/domain"
)

// MatchState holds the authoritative runtime state for one table.
type MatchState struct {
	HumanID   string            `json:"human_id"` // user seated against the bot, "" until the first join
	Presence  runtime.Presence  `json:"-"`        // nil while the human is away
	Session   *app.Session      `json:"-"`        // round and match logic
	Bot       *bot.Agent        `json:"-"`        // opponent
	Config    config.GameConfig `json:"-"`
	Tick      int64             `json:"tick"`
	LastLabel string            `json:"-"`
}

// configFromContext reads overrides from the runtime environment, falling back
// to defaults when they do not validate.
func configFromContext(ctx context.Context, logger runtime.Logger) config.GameConfig {
	env, _ := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)
	cfg, err := config.FromEnvMap(env)
	if err != nil {
		logger.Warn("config: Ignoring runtime overrides: %v", err)
		return config.Default()
	}
	return cfg
}

// NewMatch is the factory function registered with Nakama.
func NewMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule) (runtime.Match, error) {
	return &matchHandler{}, nil
}

type matchHandler struct{}

// MatchInit is called when the match is created.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	logger.Debug("MatchInit: Initializing match handler.")

	cfg := configFromContext(ctx, logger)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	agent, err := newBotAgent(cfg, rng)
	if err != nil {
		logger.Error("MatchInit: Failed to create bot: %v", err)
		return nil, 0, ""
	}
	logger.Info("MatchInit: Opponent is %s (%s)", agent.Name, agent.ID)

	state := &MatchState{
		Session: app.NewSession(cfg, agent, rng),
		Bot:     agent,
		Config:  cfg,
	}
	label, err := mh.label(state)
	if err != nil {
		logger.Error("MatchInit: Failed to marshal label: %v", err)
		return nil, 0, ""
	}
	state.LastLabel = label
	return state, cfg.TickRate, label
}

// newBotAgent picks an identity from the roster; the identity's own level
// wins over the configured default.
func newBotAgent(cfg config.GameConfig, rng *rand.Rand) (*bot.Agent, error) {
	index := rng.Intn(1 << 16)
	levelName := bot.GetBotIdentity(index).Level
	if levelName == "" {
		levelName = cfg.BotLevel
	}
	level, err := bot.ParseLevel(levelName)
	if err != nil {
		return nil, err
	}
	return bot.NewAgent(index, level, cfg.BotScript, rng)
}

func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}
	if matchState.HumanID != "" && matchState.HumanID != presence.GetUserId() {
		return state, false, "Match full"
	}
	if matchState.Presence != nil {
		return state, false, "Already joined"
	}
	return state, true, ""
}

func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}

	for _, p := range presences {
		if matchState.HumanID == "" {
			matchState.HumanID = p.GetUserId()
		}
		if p.GetUserId() != matchState.HumanID {
			logger.Warn("MatchJoin: User %s joined a table seated by %s.", p.GetUserId(), matchState.HumanID)
			continue
		}
		matchState.Presence = p
		logger.Info("MatchJoin: %s sits down against %s.", p.GetUsername(), matchState.Bot.Name)
	}

	mh.updateLabel(matchState, dispatcher, logger)
	mh.sendSnapshot(matchState, dispatcher, logger)
	return matchState
}

// MatchLeave is called when one or more players leave the match.
func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}

	for _, p := range presences {
		if p.GetUserId() == matchState.HumanID {
			matchState.Presence = nil
		}
	}
	if matchState.Presence == nil {
		logger.Info("MatchLeave: Terminating match with no humans.")
		matchState.Bot.Close()
		return nil
	}
	return matchState
}

func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state
	}
	matchState.Tick = tick

	var events []app.Event
	for _, msg := range messages {
		if msg.GetUserId() != matchState.HumanID {
			logger.Warn("MatchLoop: Ignoring message from non-seated user %s", msg.GetUserId())
			continue
		}
		events = append(events, mh.handleMessage(matchState, logger, msg.GetOpCode(), msg.GetData())...)
	}
	events = append(events, matchState.Session.Tick(time.Second/time.Duration(matchState.Config.TickRate))...)

	for _, ev := range events {
		mh.broadcastEvent(matchState, dispatcher, logger, ev)
	}
	if len(events) > 0 {
		mh.updateLabel(matchState, dispatcher, logger)
	}
	return matchState
}

// handleMessage applies one client message to the session.
func (mh *matchHandler) handleMessage(state *MatchState, logger runtime.Logger, opCode int64, data []byte) []app.Event {
	session := state.Session
	switch opCode {
	case OpGestureToken:
		var events []app.Event
		for _, token := range strings.Fields(string(data)) {
			g, ok := domain.ParseGesture(token)
			if !ok {
				logger.Debug("handleMessage: Dropping unknown token %q", token)
				continue
			}
			events = append(events, session.SubmitGesture(domain.SidePlayer, g)...)
		}
		return events
	case OpMoveCard:
		req := &structpb.Struct{}
		if err := proto.Unmarshal(data, req); err != nil {
			logger.Warn("handleMessage: Invalid move request: %v", err)
			return nil
		}
		fields := req.AsMap()
		if s, ok := fields["side"].(string); ok && s != domain.SidePlayer.String() {
			logger.Warn("handleMessage: Rejected move on side %q", s)
			return nil
		}
		from := app.Slot{Side: domain.SidePlayer, Index: intField(fields, "from")}
		if x, ok := fields["drop_x"].(float64); ok {
			return session.DropCard(from, x)
		}
		return session.MoveCard(from, app.Slot{Side: domain.SidePlayer, Index: intField(fields, "to")})
	case OpFinishReorder:
		return session.FinishReorder()
	case OpResetMatch:
		return session.Reset()
	case OpLinkState:
		req := &structpb.Struct{}
		if err := proto.Unmarshal(data, req); err != nil {
			logger.Warn("handleMessage: Invalid link state: %v", err)
			return nil
		}
		if connected, _ := req.AsMap()["connected"].(bool); connected {
			return session.Connect()
		}
		return session.Disconnect()
	default:
		logger.Warn("MatchLoop: Unknown opcode received: %d", opCode)
		return nil
	}
}

// intField reads a numeric struct field; missing values come back as -1 so
// they fail slot validation.
func intField(fields map[string]interface{}, key string) int {
	if v, ok := fields[key].(float64); ok {
		return int(v)
	}
	return -1
}

// broadcastEvent encodes an app event as a structpb payload under its opcode.
func (mh *matchHandler) broadcastEvent(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, ev app.Event) {
	if state.Presence == nil {
		return
	}
	opCode, fields, ok := eventMessage(ev)
	if !ok {
		logger.Warn("Unknown event kind: %v", ev.Kind)
		return
	}
	payload, err := structpb.NewStruct(fields)
	if err != nil {
		logger.Error("Failed to build event %v: %v", ev.Kind, err)
		return
	}
	bytes, err := proto.Marshal(payload)
	if err != nil {
		logger.Error("Failed to marshal event %v: %v", ev.Kind, err)
		return
	}
	if err := dispatcher.BroadcastMessage(opCode, bytes, []runtime.Presence{state.Presence}, nil, true); err != nil {
		logger.Error("Failed to send event %v: %v", ev.Kind, err)
	}
}

func pair(v [2]int) []interface{} {
	return []interface{}{v[0], v[1]}
}

// eventMessage maps an event to its opcode and struct fields.
func eventMessage(ev app.Event) (int64, map[string]interface{}, bool) {
	switch p := ev.Payload.(type) {
	case app.PhaseChangedPayload:
		return OpPhaseChanged, map[string]interface{}{"from": string(p.From), "phase": string(p.Phase), "round": p.Round}, true
	case app.CountdownPayload:
		return OpCountdown, map[string]interface{}{"text": p.Text}, true
	case app.AnnouncementPayload:
		return OpAnnouncement, map[string]interface{}{"text": p.Text}, true
	case app.TimerTickPayload:
		return OpTimerTick, map[string]interface{}{"remaining": p.Remaining}, true
	case app.CardSpawnedPayload:
		return OpCardSpawned, map[string]interface{}{
			"side": p.Side.String(), "slot": p.Slot, "gesture": p.Gesture.String(), "gesture_id": int(p.Gesture), "card_id": p.CardID,
		}, true
	case app.CardRemovedPayload:
		return OpCardRemoved, map[string]interface{}{
			"side": p.Side.String(), "slot": p.Slot, "card_id": p.CardID, "reason": string(p.Reason),
		}, true
	case app.CardMovedPayload:
		return OpCardMoved, map[string]interface{}{"side": p.Side.String(), "from": p.From, "to": p.To, "swapped": p.Swapped}, true
	case app.CardSnappedBackPayload:
		return OpCardSnappedBack, map[string]interface{}{"side": p.Side.String(), "slot": p.Slot}, true
	case app.DamagePayload:
		return OpDamage, map[string]interface{}{"side": p.Side.String(), "amount": p.Amount, "health": p.Health}, true
	case app.HealthResetPayload:
		return OpHealthReset, map[string]interface{}{"health": pair(p.Health)}, true
	case app.RoundEndedPayload:
		fields := map[string]interface{}{"round": p.Round, "draw": p.Draw, "wins": pair(p.Result.Wins)}
		if !p.Draw {
			fields["winner"] = p.Winner.String()
		}
		return OpRoundEnded, fields, true
	case app.MatchEndedPayload:
		return OpMatchEnded, map[string]interface{}{"winner": p.Winner.String(), "wins": pair(p.Wins)}, true
	case app.ConnectionChangedPayload:
		return OpConnectionChanged, map[string]interface{}{"connected": p.Connected, "paused": p.Paused}, true
	case app.QuitOfferedPayload:
		return OpQuitOffered, map[string]interface{}{"offline": p.Offline}, true
	case app.GestureRejectedPayload:
		return OpGestureRejected, map[string]interface{}{"side": p.Side.String(), "gesture": p.Gesture.String(), "reason": p.Reason}, true
	default:
		return 0, nil, false
	}
}

// sendSnapshot sends the full table state, used on (re)join.
func (mh *matchHandler) sendSnapshot(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	if state.Presence == nil {
		return
	}
	raw, err := json.Marshal(state.Session.Snapshot())
	if err != nil {
		logger.Error("sendSnapshot: Failed to encode snapshot: %v", err)
		return
	}
	snapshot := &structpb.Struct{}
	if err := protojson.Unmarshal(raw, snapshot); err != nil {
		logger.Error("sendSnapshot: Failed to convert snapshot: %v", err)
		return
	}
	snapshot.Fields["bot_name"] = structpb.NewStringValue(state.Bot.Name)
	bytes, err := proto.Marshal(snapshot)
	if err != nil {
		logger.Error("sendSnapshot: Failed to marshal snapshot: %v", err)
		return
	}
	dispatcher.BroadcastMessage(OpStateSnapshot, bytes, []runtime.Presence{state.Presence}, nil, true)
}

// label renders the match label as JSON.
func (mh *matchHandler) label(state *MatchState) (string, error) {
	humans := 0
	if state.HumanID != "" {
		humans = 1
	}
	payload := domain.ComputeLabel(state.Session.Round(), humans)
	label, err := structpb.NewStruct(map[string]interface{}{
		"open":  payload.Open,
		"game":  payload.Game,
		"phase": payload.Phase,
		"round": payload.Round,
	})
	if err != nil {
		return "", err
	}
	labelBytes, err := (&protojson.MarshalOptions{EmitUnpopulated: true}).Marshal(label)
	if err != nil {
		return "", err
	}
	return string(labelBytes), nil
}

func (mh *matchHandler) updateLabel(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	label, err := mh.label(state)
	if err != nil {
		logger.Error("UpdateLabel: Failed to marshal: %v", err)
		return
	}
	if label == state.LastLabel {
		return
	}
	if err := dispatcher.MatchLabelUpdate(label); err != nil {
		logger.Error("UpdateLabel: Failed to update: %v", err)
		return
	}
	state.LastLabel = label
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, graceSeconds int) interface{} {
	logger.Debug("MatchTerminate: Match terminated with %d grace seconds", graceSeconds)
	if matchState, ok := state.(*MatchState); ok && matchState.Bot != nil {
		matchState.Bot.Close()
	}
	return state
}

func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}
