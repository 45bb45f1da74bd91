package force

import (
	"errors"
	"fmt"
	"math"

	"golang.org/x/exp/rand"
)

const (
	DefaultAlphaMin      = 0.001
	DefaultVelocityDecay = 0.4
)

// DefaultAlphaDecay brings alpha from 1 to DefaultAlphaMin in 300 ticks.
var DefaultAlphaDecay = 1 - math.Pow(DefaultAlphaMin, 1.0/300)

var ErrUnknownBody = errors.New("link references body outside of working set")

// Link pulls two bodies together. It references bodies, it does not own them.
type Link struct {
	Source *Body
	Target *Body
}

// Force contributes to velocities (or positions) of bodies each tick.
type Force interface {
	// Initialize is called each time working set of simulation is replaced.
	Initialize(nodes []*Body, links []Link, jiggle func() float64)
	Apply(alpha float64)
}

type namedForce struct {
	name  string
	force Force
}

// Option configures Simulation.
type Option func(*Simulation)

func WithAlphaMin(v float64) Option { return func(s *Simulation) { s.alphaMin = v } }

func WithAlphaDecay(v float64) Option { return func(s *Simulation) { s.alphaDecay = v } }

func WithVelocityDecay(v float64) Option { return func(s *Simulation) { s.velocityDecay = v } }

// WithSeed sets seed of random source used to separate coincident bodies.
func WithSeed(seed uint64) Option {
	return func(s *Simulation) { s.rnd = rand.New(rand.NewSource(seed)) }
}

// WithForce registers force under name. Forces are applied in order of registration.
func WithForce(name string, f Force) Option {
	return func(s *Simulation) { s.SetForce(name, f) }
}

// Simulation integrates working set of bodies under registered forces with decaying alpha.
// Simulation is not safe for concurrent use, it expects single owner (see Loop).
type Simulation struct {
	nodes  []*Body
	links  []Link
	forces []namedForce

	alpha         float64
	alphaMin      float64
	alphaDecay    float64
	alphaTarget   float64
	velocityDecay float64

	running bool
	rnd     *rand.Rand

	onTick []func()
	onEnd  []func()
}

// New makes running simulation with alpha 1 and no bodies.
func New(opts ...Option) *Simulation {
	s := &Simulation{
		alpha:         1,
		alphaMin:      DefaultAlphaMin,
		alphaDecay:    DefaultAlphaDecay,
		velocityDecay: DefaultVelocityDecay,
		running:       true,
		rnd:           rand.New(rand.NewSource(1)),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// SetNodes replaces working set. Bodies without position get initial one.
func (s *Simulation) SetNodes(nodes []*Body) {
	s.nodes = nodes
	for i, b := range nodes {
		b.Index = i
		if !b.placed {
			b.place(i)
		}
	}
	s.links = nil
	s.initializeForces()
}

// SetLinks replaces links. All linked bodies have to be in working set.
func (s *Simulation) SetLinks(links []Link) error {
	members := make(map[*Body]bool, len(s.nodes))
	for _, b := range s.nodes {
		members[b] = true
	}
	for i, l := range links {
		if !members[l.Source] || !members[l.Target] {
			return fmt.Errorf("link(%d): %w", i, ErrUnknownBody)
		}
	}
	s.links = links
	s.initializeForces()
	return nil
}

func (s *Simulation) Nodes() []*Body { return s.nodes }

func (s *Simulation) Links() []Link { return s.links }

// SetForce adds or replaces force by name. Nil force removes it.
func (s *Simulation) SetForce(name string, f Force) {
	for i, nf := range s.forces {
		if nf.name != name {
			continue
		}
		if f == nil {
			s.forces = append(s.forces[:i], s.forces[i+1:]...)
			return
		}
		s.forces[i].force = f
		f.Initialize(s.nodes, s.links, s.jiggle)
		return
	}
	if f == nil {
		return
	}
	s.forces = append(s.forces, namedForce{name: name, force: f})
	f.Initialize(s.nodes, s.links, s.jiggle)
}

// Force returns registered force by name.
func (s *Simulation) Force(name string) (Force, bool) {
	for _, nf := range s.forces {
		if nf.name == name {
			return nf.force, true
		}
	}
	return nil, false
}

func (s *Simulation) initializeForces() {
	for _, nf := range s.forces {
		nf.force.Initialize(s.nodes, s.links, s.jiggle)
	}
}

func (s *Simulation) jiggle() float64 { return (s.rnd.Float64() - 0.5) * 1e-6 }

func (s *Simulation) Alpha() float64 { return s.alpha }

func (s *Simulation) SetAlpha(v float64) { s.alpha = v }

func (s *Simulation) AlphaMin() float64 { return s.alphaMin }

func (s *Simulation) AlphaTarget() float64 { return s.alphaTarget }

// SetAlphaTarget sets value alpha converges to. Values above alpha min keep simulation running.
func (s *Simulation) SetAlphaTarget(v float64) { s.alphaTarget = v }

// Running tells if Step will advance simulation.
func (s *Simulation) Running() bool { return s.running }

// Restart resumes stepping. Alpha is not changed.
func (s *Simulation) Restart() { s.running = true }

// Stop pauses stepping. No end event is emitted.
func (s *Simulation) Stop() { s.running = false }

// OnTick registers listener called after every Step.
func (s *Simulation) OnTick(fn func()) { s.onTick = append(s.onTick, fn) }

// OnEnd registers listener called when alpha drops below alpha min.
func (s *Simulation) OnEnd(fn func()) { s.onEnd = append(s.onEnd, fn) }

// RemoveListeners drops all tick and end listeners.
func (s *Simulation) RemoveListeners() {
	s.onTick = nil
	s.onEnd = nil
}

// Step advances simulation by one tick and notifies tick listeners.
// When alpha falls below alpha min simulation stops and end listeners are notified.
// Returns false when nothing happened, either simulation is stopped or there is no bodies.
func (s *Simulation) Step() bool {
	if !s.running {
		return false
	}
	if len(s.nodes) == 0 {
		s.running = false
		return false
	}

	s.tick()
	for _, fn := range s.onTick {
		fn()
	}

	if s.alpha < s.alphaMin {
		s.running = false
		for _, fn := range s.onEnd {
			fn()
		}
	}
	return true
}

// Tick advances simulation n times without notifying listeners.
func (s *Simulation) Tick(n int) {
	for i := 0; i < n; i++ {
		s.tick()
	}
}

func (s *Simulation) tick() {
	s.alpha += (s.alphaTarget - s.alpha) * s.alphaDecay

	for _, nf := range s.forces {
		nf.force.Apply(s.alpha)
	}

	keep := 1 - s.velocityDecay
	for _, b := range s.nodes {
		if b.pinned {
			b.X, b.Y = b.fx, b.fy
			b.VX, b.VY = 0, 0
			continue
		}
		b.VX *= keep
		b.VY *= keep
		b.X += b.VX
		b.Y += b.VY
	}
}
