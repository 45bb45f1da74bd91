// Package config holds tunables of canvas, forces and simulation cadence.
//
// Configuration is read from YAML, missing keys keep their defaults:
//
//	canvas:
//	  width: 960
//	  height: 500
//	forces:
//	  charge: -30
//	simulation:
//	  tick_interval: 33ms
package config

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/nikolaydubina/go-force-tree/force"
)

// CanvasConfig is size of viewport in pixels.
type CanvasConfig struct {
	Width  int  `yaml:"width"`
	Height int  `yaml:"height"`
	Labels bool `yaml:"labels,omitempty"` // draw node names
}

// ForcesConfig holds parameters of link, many-body and centering forces.
type ForcesConfig struct {
	LinkDistance   float64 `yaml:"link_distance"`
	LinkIterations int     `yaml:"link_iterations"`
	Charge         float64 `yaml:"charge"` // negative repels
	Theta          float64 `yaml:"theta"`
	DistanceMin    float64 `yaml:"distance_min"`
	NaiveLimit     int     `yaml:"naive_limit"` // above this many nodes quadtree is used
	CenterStrength float64 `yaml:"center_strength"`
}

// SimulationConfig controls cooling schedule and cadence.
type SimulationConfig struct {
	AlphaMin        float64       `yaml:"alpha_min"`
	AlphaDecay      float64       `yaml:"alpha_decay"`
	VelocityDecay   float64       `yaml:"velocity_decay"`
	DragAlphaTarget float64       `yaml:"drag_alpha_target"`
	TickInterval    time.Duration `yaml:"tick_interval"`
	Seed            uint64        `yaml:"seed,omitempty"` // 0 keeps default fixed seed, layouts are reproducible
}

type LogConfig struct {
	Level string `yaml:"level,omitempty"`
	File  string `yaml:"file,omitempty"`
}

// Config is the top-level configuration.
type Config struct {
	Canvas     CanvasConfig     `yaml:"canvas"`
	Forces     ForcesConfig     `yaml:"forces"`
	Simulation SimulationConfig `yaml:"simulation"`
	Log        LogConfig        `yaml:"log"`
}

// DefaultConfig returns Config with defaults of reference layout.
func DefaultConfig() Config {
	return Config{
		Canvas: CanvasConfig{
			Width:  960,
			Height: 500,
		},
		Forces: ForcesConfig{
			LinkDistance:   force.DefaultLinkDistance,
			LinkIterations: force.DefaultLinkIterations,
			Charge:         force.DefaultCharge,
			Theta:          force.DefaultTheta,
			DistanceMin:    force.DefaultDistanceMin,
			NaiveLimit:     force.DefaultNaiveLimit,
			CenterStrength: force.DefaultCenterStrength,
		},
		Simulation: SimulationConfig{
			AlphaMin:        force.DefaultAlphaMin,
			AlphaDecay:      force.DefaultAlphaDecay,
			VelocityDecay:   force.DefaultVelocityDecay,
			DragAlphaTarget: 0.3,
			TickInterval:    force.DefaultInterval,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// LoadFrom reads config from a specific path.
// Returns DefaultConfig if path is empty or the file doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks values that would make simulation diverge or never settle.
func (c Config) Validate() error {
	switch {
	case c.Canvas.Width <= 0 || c.Canvas.Height <= 0:
		return fmt.Errorf("canvas must be positive, got %dx%d", c.Canvas.Width, c.Canvas.Height)
	case c.Forces.LinkIterations < 1:
		return fmt.Errorf("link_iterations must be at least 1, got %d", c.Forces.LinkIterations)
	case c.Forces.Theta < 0:
		return fmt.Errorf("theta must not be negative, got %v", c.Forces.Theta)
	case c.Simulation.AlphaMin <= 0 || c.Simulation.AlphaMin >= 1:
		return fmt.Errorf("alpha_min must be in (0, 1), got %v", c.Simulation.AlphaMin)
	case c.Simulation.AlphaDecay <= 0 || c.Simulation.AlphaDecay >= 1:
		return fmt.Errorf("alpha_decay must be in (0, 1), got %v", c.Simulation.AlphaDecay)
	case c.Simulation.VelocityDecay < 0 || c.Simulation.VelocityDecay > 1:
		return fmt.Errorf("velocity_decay must be in [0, 1], got %v", c.Simulation.VelocityDecay)
	case c.Simulation.TickInterval <= 0:
		return fmt.Errorf("tick_interval must be positive, got %v", c.Simulation.TickInterval)
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

// Ticks is how many ticks cooling from alpha 1 takes.
func (c Config) Ticks() int {
	return int(math.Ceil(math.Log(c.Simulation.AlphaMin) / math.Log(1-c.Simulation.AlphaDecay)))
}

// NewSimulation builds simulation with link, charge and center forces, centered on canvas.
func (c Config) NewSimulation() *force.Simulation {
	link := force.NewLinkForce()
	link.Distance = c.Forces.LinkDistance
	link.Iterations = c.Forces.LinkIterations

	charge := force.NewManyBodyForce()
	charge.Strength = c.Forces.Charge
	charge.Theta = c.Forces.Theta
	charge.DistanceMin = c.Forces.DistanceMin
	charge.NaiveLimit = c.Forces.NaiveLimit

	center := force.NewCenterForce(float64(c.Canvas.Width)/2, float64(c.Canvas.Height)/2)
	center.Strength = c.Forces.CenterStrength

	opts := []force.Option{
		force.WithAlphaMin(c.Simulation.AlphaMin),
		force.WithAlphaDecay(c.Simulation.AlphaDecay),
		force.WithVelocityDecay(c.Simulation.VelocityDecay),
		force.WithForce("link", link),
		force.WithForce("charge", charge),
		force.WithForce("center", center),
	}
	if c.Simulation.Seed != 0 {
		opts = append(opts, force.WithSeed(c.Simulation.Seed))
	}
	return force.New(opts...)
}

// ParseLevel maps names debug, info, warn and error to slog levels. Empty is info.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if strings.TrimSpace(s) == "" {
		return slog.LevelInfo, nil
	}
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return l, fmt.Errorf("log level: %w", err)
	}
	return l, nil
}
