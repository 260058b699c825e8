package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine wraps a single gopher-lua VM for enemy decisions and reward rules.
// Single-goroutine access only (logic tick).
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine and loads all scripts from the given directory.
// Missing subdirectories are skipped; a script that fails to load is an error.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})

	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log}

	for _, sub := range []string{"core", "ai", "reward"} {
		p := filepath.Join(scriptsDir, sub)
		if err := e.loadDir(p); err != nil {
			vm.Close()
			return nil, fmt.Errorf("load %s scripts: %w", sub, err)
		}
	}

	return e, nil
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// ActionInfo describes one action an enemy may choose.
type ActionInfo struct {
	Name   string
	Kind   string
	Amount int
}

// EnemyAIContext holds pre-packed data for one enemy decision.
type EnemyAIContext struct {
	Enemy         string
	Health        int
	MaxHealth     int
	Cover         int
	PlayerLives   int
	Turn          int
	LoadedBullets int
	HandSize      int
	Roll          int // 0..999, drawn from the session RNG
	Actions       []ActionInfo
}

// ChooseEnemyAction calls Lua enemy_ai(ctx) and returns the chosen action
// name. An empty string means the script had no opinion.
func (e *Engine) ChooseEnemyAction(ctx EnemyAIContext) string {
	fn := e.vm.GetGlobal("enemy_ai")
	if fn == lua.LNil {
		return ""
	}

	t := e.vm.NewTable()
	t.RawSetString("enemy", lua.LString(ctx.Enemy))
	t.RawSetString("health", lua.LNumber(ctx.Health))
	t.RawSetString("max_health", lua.LNumber(ctx.MaxHealth))
	t.RawSetString("cover", lua.LNumber(ctx.Cover))
	t.RawSetString("player_lives", lua.LNumber(ctx.PlayerLives))
	t.RawSetString("turn", lua.LNumber(ctx.Turn))
	t.RawSetString("loaded_bullets", lua.LNumber(ctx.LoadedBullets))
	t.RawSetString("hand_size", lua.LNumber(ctx.HandSize))
	t.RawSetString("roll", lua.LNumber(ctx.Roll))

	actionsTbl := e.vm.NewTable()
	for i, a := range ctx.Actions {
		row := e.vm.NewTable()
		row.RawSetString("name", lua.LString(a.Name))
		row.RawSetString("kind", lua.LString(a.Kind))
		row.RawSetString("amount", lua.LNumber(a.Amount))
		actionsTbl.RawSetInt(i+1, row)
	}
	t.RawSetString("actions", actionsTbl)

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, t); err != nil {
		e.log.Error("lua enemy_ai error", zap.String("enemy", ctx.Enemy), zap.Error(err))
		return ""
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)

	switch v := result.(type) {
	case lua.LString:
		return string(v)
	case *lua.LTable:
		return lStr(v, "action")
	}
	return ""
}

// OverkillMoney calls Lua overkill_money(overkill, turn). Without a script
// every point of overkill damage is worth one coin.
func (e *Engine) OverkillMoney(overkill, turn int) int {
	if e.vm.GetGlobal("overkill_money") == lua.LNil {
		return overkill
	}
	return e.callIntFunc("overkill_money", overkill, turn)
}

// lStr reads a string field from a Lua table.
func lStr(t *lua.LTable, key string) string {
	return lua.LVAsString(t.RawGetString(key))
}

// callIntFunc calls a Lua function with int args and returns an int result.
func (e *Engine) callIntFunc(name string, args ...int) int {
	fn := e.vm.GetGlobal(name)
	if fn == lua.LNil {
		e.log.Error("lua function not found", zap.String("name", name))
		return 0
	}
	largs := make([]lua.LValue, len(args))
	for i, a := range args {
		largs[i] = lua.LNumber(a)
	}
	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, largs...); err != nil {
		e.log.Error("lua call error", zap.String("name", name), zap.Error(err))
		return 0
	}
	result := e.vm.Get(-1)
	e.vm.Pop(1)
	return int(lua.LVAsNumber(result))
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}
