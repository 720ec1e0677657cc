package scripting

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

func newEngineWithScript(t *testing.T, script string) *Engine {
	t.Helper()
	dir := t.TempDir()
	if script != "" {
		tuning := filepath.Join(dir, "tuning")
		if err := os.MkdirAll(tuning, 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(tuning, "speeds.lua"), []byte(script), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	e, err := NewEngine(dir, zap.NewNop())
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	t.Cleanup(e.Close)
	return e
}

func TestCalcBeltSpeedFromScript(t *testing.T) {
	e := newEngineWithScript(t, `
function calc_belt_speed(ctx)
    return 2.0 * (1.0 + 0.5 * (ctx.tier - 1))
end
`)
	cases := []struct {
		tier int
		want float64
	}{
		{1, 2.0},
		{2, 3.0},
		{3, 4.0},
	}
	for _, c := range cases {
		if got := e.CalcBeltSpeed(SpeedContext{Tier: c.tier}); got != c.want {
			t.Errorf("tier %d: speed = %v, want %v", c.tier, got, c.want)
		}
	}
}

func TestCalcSpeedFallbackWhenMissing(t *testing.T) {
	e := newEngineWithScript(t, "")
	if got := e.CalcBeltSpeed(SpeedContext{Tier: 1}); got != DefaultBeltSpeed {
		t.Errorf("belt speed = %v, want fallback %v", got, DefaultBeltSpeed)
	}
	if got := e.CalcUndergroundSpeed(SpeedContext{Tier: 1}); got != DefaultUndergroundSpeed {
		t.Errorf("underground speed = %v, want fallback %v", got, DefaultUndergroundSpeed)
	}
}

func TestCalcSpeedFallbackOnError(t *testing.T) {
	e := newEngineWithScript(t, `
function calc_belt_speed(ctx)
    error("boom")
end
function calc_underground_speed(ctx)
    return -1
end
`)
	if got := e.CalcBeltSpeed(SpeedContext{Tier: 1}); got != DefaultBeltSpeed {
		t.Errorf("erroring formula: speed = %v, want fallback %v", got, DefaultBeltSpeed)
	}
	if got := e.CalcUndergroundSpeed(SpeedContext{Tier: 1}); got != DefaultUndergroundSpeed {
		t.Errorf("non-positive formula: speed = %v, want fallback %v", got, DefaultUndergroundSpeed)
	}
}

func TestNewEngineRejectsBrokenScript(t *testing.T) {
	dir := t.TempDir()
	tuning := filepath.Join(dir, "tuning")
	if err := os.MkdirAll(tuning, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(tuning, "bad.lua"), []byte("function ("), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewEngine(dir, zap.NewNop()); err == nil {
		t.Fatal("expected an error for a syntactically broken script")
	}
}
