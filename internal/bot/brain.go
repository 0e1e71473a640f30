package bot

import (
	"errors"
	"fmt"
	"os"

	lua "github.com/yuin/gopher-lua"

	"gesturecards/internal/domain"
)

var ErrNoFreeSlot = errors.New("no free opponent slot")

// ScriptBot delegates the choice to a Lua function `choose(view)`. The view
// table carries round, health, wins, player, opponent and history; gesture
// arrays hold ids with -1 for empty slots. The function returns a gesture
// id or name.
type ScriptBot struct {
	L *lua.LState
}

// NewScriptBot compiles source and checks that it defines choose.
func NewScriptBot(source string) (*ScriptBot, error) {
	L := lua.NewState()
	if err := L.DoString(source); err != nil {
		L.Close()
		return nil, fmt.Errorf("load bot script: %w", err)
	}
	if L.GetGlobal("choose").Type() != lua.LTFunction {
		L.Close()
		return nil, errors.New("bot script does not define choose(view)")
	}
	return &ScriptBot{L: L}, nil
}

// LoadScriptBot reads a script from disk.
func LoadScriptBot(path string) (*ScriptBot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read bot script: %w", err)
	}
	return NewScriptBot(string(data))
}

func (b *ScriptBot) ChooseGesture(view domain.TableView) (domain.Gesture, error) {
	L := b.L
	if err := L.CallByParam(lua.P{Fn: L.GetGlobal("choose"), NRet: 1, Protect: true}, viewTable(L, view)); err != nil {
		return domain.NoGesture, fmt.Errorf("bot script: %w", err)
	}
	ret := L.Get(-1)
	L.Pop(1)

	switch v := ret.(type) {
	case lua.LNumber:
		g := domain.Gesture(int(v))
		if !g.Valid() {
			return domain.NoGesture, fmt.Errorf("bot script returned invalid gesture %d", int(v))
		}
		return g, nil
	case lua.LString:
		g, ok := domain.ParseGesture(string(v))
		if !ok {
			return domain.NoGesture, fmt.Errorf("bot script returned unknown gesture %q", string(v))
		}
		return g, nil
	default:
		return domain.NoGesture, fmt.Errorf("bot script returned %s", ret.Type())
	}
}

// Close releases the Lua state.
func (b *ScriptBot) Close() {
	b.L.Close()
}

func viewTable(L *lua.LState, view domain.TableView) *lua.LTable {
	gestures := func(gs [domain.SlotsPerSide]domain.Gesture) *lua.LTable {
		t := L.NewTable()
		for _, g := range gs {
			t.Append(lua.LNumber(g))
		}
		return t
	}
	pair := func(v [2]int) *lua.LTable {
		t := L.NewTable()
		t.RawSetString("player", lua.LNumber(v[domain.SidePlayer]))
		t.RawSetString("opponent", lua.LNumber(v[domain.SideOpponent]))
		return t
	}

	t := L.NewTable()
	t.RawSetString("round", lua.LNumber(view.Round))
	t.RawSetString("max_health", lua.LNumber(view.MaxHealth))
	t.RawSetString("health", pair(view.Health))
	t.RawSetString("wins", pair(view.Wins))
	t.RawSetString("player", gestures(view.Gestures[domain.SidePlayer]))
	t.RawSetString("opponent", gestures(view.Gestures[domain.SideOpponent]))
	t.RawSetString("next_slot", lua.LNumber(view.NextIndex(domain.SideOpponent)))
	history := L.NewTable()
	for _, g := range view.History {
		history.Append(lua.LNumber(g))
	}
	t.RawSetString("history", history)
	return t
}
