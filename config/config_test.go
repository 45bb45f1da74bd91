package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikolaydubina/go-force-tree/force"
	"github.com/nikolaydubina/go-force-tree/hierarchy"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 960, cfg.Canvas.Width)
	assert.Equal(t, 500, cfg.Canvas.Height)
	assert.Equal(t, 30.0, cfg.Forces.LinkDistance)
	assert.Equal(t, -5.0, cfg.Forces.Charge)
	assert.Equal(t, 0.9, cfg.Forces.Theta)
	assert.Equal(t, 0.3, cfg.Simulation.DragAlphaTarget)
	assert.Equal(t, 16*time.Millisecond, cfg.Simulation.TickInterval)
	assert.InDelta(t, 300, cfg.Ticks(), 1)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFrom_NonExistent(t *testing.T) {
	cfg, err := LoadFrom("/nonexistent/path/config.yaml")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	cfg, err = LoadFrom("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadFrom_ValidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
canvas:
  width: 400
  labels: true
forces:
  charge: -30
  naive_limit: 10
simulation:
  tick_interval: 33ms
  seed: 7
log:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, 400, cfg.Canvas.Width)
	assert.Equal(t, 500, cfg.Canvas.Height, "missing keys keep defaults")
	assert.True(t, cfg.Canvas.Labels)
	assert.Equal(t, -30.0, cfg.Forces.Charge)
	assert.Equal(t, 10, cfg.Forces.NaiveLimit)
	assert.Equal(t, 30.0, cfg.Forces.LinkDistance)
	assert.Equal(t, 33*time.Millisecond, cfg.Simulation.TickInterval)
	assert.Equal(t, uint64(7), cfg.Simulation.Seed)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadFrom_Invalid(t *testing.T) {
	tests := map[string]string{
		"yaml":          "canvas: [",
		"canvas":        "canvas:\n  width: 0",
		"alpha min":     "simulation:\n  alpha_min: 2",
		"alpha decay":   "simulation:\n  alpha_decay: 0",
		"interval":      "simulation:\n  tick_interval: -1s",
		"iterations":    "forces:\n  link_iterations: 0",
		"unknown level": "log:\n  level: loud",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
			_, err := LoadFrom(path)
			assert.Error(t, err)
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"":      slog.LevelInfo,
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for s, exp := range tests {
		l, err := ParseLevel(s)
		require.NoError(t, err, s)
		assert.Equal(t, exp, l, s)
	}
	_, err := ParseLevel("verbose")
	assert.Error(t, err)
}

func TestConfig_NewSimulation(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Forces.Charge = -50
	cfg.Canvas.Width, cfg.Canvas.Height = 200, 100
	sim := cfg.NewSimulation()

	f, ok := sim.Force("charge")
	require.True(t, ok)
	assert.Equal(t, -50.0, f.(*force.ManyBodyForce).Strength)

	f, ok = sim.Force("center")
	require.True(t, ok)
	c := f.(*force.CenterForce)
	assert.Equal(t, 100.0, c.X)
	assert.Equal(t, 50.0, c.Y)

	_, ok = sim.Force("link")
	assert.True(t, ok)

	m := hierarchy.NewModel(hierarchy.New("A", hierarchy.New("B"), hierarchy.New("C")))
	_, bodies, links := m.Snapshot()
	sim.SetNodes(bodies)
	require.NoError(t, sim.SetLinks(links))

	ticks := 0
	for sim.Step() {
		ticks++
	}
	assert.InDelta(t, cfg.Ticks(), ticks, 2)

	var cx, cy float64
	for _, b := range bodies {
		cx += b.X / float64(len(bodies))
		cy += b.Y / float64(len(bodies))
	}
	assert.InDelta(t, 100, cx, 0.5)
	assert.InDelta(t, 50, cy, 0.5)
}

func TestConfig_NewSimulation_Seed(t *testing.T) {
	run := func(cfg Config) []float64 {
		bodies := []*force.Body{{}, {}, {}}
		for _, b := range bodies {
			b.Place(10, 10)
		}
		sim := cfg.NewSimulation()
		sim.SetNodes(bodies)
		sim.Tick(20)
		var xs []float64
		for _, b := range bodies {
			xs = append(xs, b.X, b.Y)
		}
		return xs
	}

	cfg := DefaultConfig()
	require.Zero(t, cfg.Simulation.Seed)
	assert.Equal(t, run(cfg), run(cfg), "zero seed is deterministic")

	other := DefaultConfig()
	other.Simulation.Seed = 42
	assert.NotEqual(t, run(cfg), run(other))
}
