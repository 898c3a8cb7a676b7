package unlock

import (
	"fmt"

	"github.com/Shopify/go-lua"

	"github.com/roguedex/gamedata/internal/game/progress"
)

// Scripts get no io, os, or package access.
var scriptLibraries = []lua.RegistryFunction{
	{Name: "_G", Function: lua.BaseOpen},
	{Name: "string", Function: lua.StringOpen},
	{Name: "table", Function: lua.TableOpen},
	{Name: "math", Function: lua.MathOpen},
}

// scriptCondition evaluates a Lua expression against a read-only progress
// table:
//
//	progress.stats.<key>      stat counters (0 when unset)
//	progress.caught[<id>]     true for caught species
//	progress.caught_count     number of distinct caught species
//	progress.achievements[id] true for granted achievements
//
// Every evaluation runs in a new state, so globals written by a script never
// reach the next call.
type scriptCondition struct {
	chunk string
}

func compileScript(expression string) (*scriptCondition, error) {
	condition := &scriptCondition{chunk: "return " + expression}
	if _, err := condition.load(); err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	return condition, nil
}

// load returns a sandboxed state with the compiled chunk on top of the stack.
func (c *scriptCondition) load() (*lua.State, error) {
	state := lua.NewState()
	for _, lib := range scriptLibraries {
		lua.Require(state, lib.Name, lib.Function, true)
		state.Pop(1)
	}
	if err := lua.LoadString(state, c.chunk); err != nil {
		return nil, err
	}
	return state, nil
}

func (c *scriptCondition) Met(snapshot progress.Snapshot) (bool, error) {
	state, err := c.load()
	if err != nil {
		return false, fmt.Errorf("load script condition: %w", err)
	}
	pushProgress(state, snapshot)
	state.SetGlobal("progress")

	if err := state.ProtectedCall(0, 1, 0); err != nil {
		return false, fmt.Errorf("run script condition: %w", err)
	}
	return state.ToBoolean(-1), nil
}

func pushProgress(state *lua.State, snapshot progress.Snapshot) {
	state.NewTable()

	state.NewTable()
	for key, value := range snapshot.Stats {
		state.PushInteger(int(value))
		state.SetField(-2, key)
	}
	// Unset stats read as zero.
	state.NewTable()
	state.PushGoFunction(func(l *lua.State) int {
		l.PushInteger(0)
		return 1
	})
	state.SetField(-2, "__index")
	state.SetMetaTable(-2)
	state.SetField(-2, "stats")

	state.NewTable()
	for _, id := range snapshot.Caught {
		state.PushBoolean(true)
		state.RawSetInt(-2, int(id))
	}
	state.SetField(-2, "caught")

	state.PushInteger(snapshot.CaughtCount())
	state.SetField(-2, "caught_count")

	state.NewTable()
	for _, id := range snapshot.Achievements {
		state.PushBoolean(true)
		state.SetField(-2, id)
	}
	state.SetField(-2, "achievements")
}
