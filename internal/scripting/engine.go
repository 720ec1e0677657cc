package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine wraps a single gopher-lua VM for tuning formula execution.
// Single-goroutine access only (game loop).
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine and loads all scripts from the given
// directory tree.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})

	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log}

	for _, sub := range []string{"tuning", "progression"} {
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

func (e *Engine) Close() {
	e.vm.Close()
}

// DefaultBeltSpeed is the fallback transfer rate (items/second) when the
// Lua formula is missing or errors.
const DefaultBeltSpeed = 2.0

// DefaultUndergroundSpeed is the fallback tunnel speed (tiles/second).
const DefaultUndergroundSpeed = 4.0

// SpeedContext packs progression state for the speed formulas.
type SpeedContext struct {
	Tier int
}

// CalcBeltSpeed calls the Lua calc_belt_speed function. The result is the
// effective transfer throughput in items per second for the current tier.
func (e *Engine) CalcBeltSpeed(ctx SpeedContext) float64 {
	return e.callSpeed("calc_belt_speed", ctx, DefaultBeltSpeed)
}

// CalcUndergroundSpeed calls the Lua calc_underground_speed function,
// returning the tunnel transport speed in tiles per second.
func (e *Engine) CalcUndergroundSpeed(ctx SpeedContext) float64 {
	return e.callSpeed("calc_underground_speed", ctx, DefaultUndergroundSpeed)
}

func (e *Engine) callSpeed(name string, ctx SpeedContext, fallback float64) float64 {
	fn := e.vm.GetGlobal(name)
	if fn == lua.LNil {
		e.log.Error("lua function not found", zap.String("fn", name))
		return fallback
	}

	t := e.vm.NewTable()
	t.RawSetString("tier", lua.LNumber(ctx.Tier))

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, t); err != nil {
		e.log.Error("lua speed formula error", zap.String("fn", name), zap.Error(err))
		return fallback
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)

	speed := float64(lua.LVAsNumber(result))
	if speed <= 0 {
		e.log.Error("lua speed formula returned non-positive value",
			zap.String("fn", name), zap.Float64("value", speed))
		return fallback
	}
	return speed
}
