package force

import (
	"math"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/spatial/barneshut"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/stat"
)

const (
	DefaultLinkDistance   = 30
	DefaultLinkIterations = 1
	DefaultCharge         = -5
	DefaultTheta          = 0.9
	DefaultDistanceMin    = 1
	DefaultNaiveLimit     = 64
	DefaultCenterStrength = 1
)

// LinkForce pushes linked bodies toward Distance apart.
// Strength of each link is 1/min(degree(source), degree(target)), so that hubs are not over-constrained.
// Bias splits correction between ends proportionally to their degrees.
type LinkForce struct {
	Distance   float64
	Iterations int

	links     []Link
	strengths []float64
	bias      []float64
	jiggle    func() float64
}

func NewLinkForce() *LinkForce {
	return &LinkForce{Distance: DefaultLinkDistance, Iterations: DefaultLinkIterations}
}

func (f *LinkForce) Initialize(nodes []*Body, links []Link, jiggle func() float64) {
	f.links = links
	f.jiggle = jiggle
	f.strengths = make([]float64, len(links))
	f.bias = make([]float64, len(links))

	g := simple.NewUndirectedGraph()
	for _, b := range nodes {
		g.AddNode(simple.Node(b.Index))
	}
	for _, l := range links {
		if l.Source == l.Target {
			continue
		}
		g.SetEdge(simple.Edge{F: simple.Node(l.Source.Index), T: simple.Node(l.Target.Index)})
	}

	degree := func(b *Body) float64 { return math.Max(1, float64(g.From(int64(b.Index)).Len())) }
	for i, l := range links {
		ds, dt := degree(l.Source), degree(l.Target)
		f.strengths[i] = 1 / math.Min(ds, dt)
		f.bias[i] = ds / (ds + dt)
	}
}

func (f *LinkForce) Apply(alpha float64) {
	for k := 0; k < f.Iterations; k++ {
		for i, l := range f.links {
			s, t := l.Source, l.Target

			x := t.X + t.VX - s.X - s.VX
			if x == 0 {
				x = f.jiggle()
			}
			y := t.Y + t.VY - s.Y - s.VY
			if y == 0 {
				y = f.jiggle()
			}

			d := math.Hypot(x, y)
			d = (d - f.Distance) / d * alpha * f.strengths[i]
			x *= d
			y *= d

			b := f.bias[i]
			t.VX -= x * b
			t.VY -= y * b
			s.VX += x * (1 - b)
			s.VY += y * (1 - b)
		}
	}
}

// ManyBodyForce is pairwise force between all bodies, repulsive when Strength is negative.
// Magnitude falls off as 1/distance.
// Above NaiveLimit bodies Barnes-Hut quadtree is used, otherwise exact pairwise sum.
type ManyBodyForce struct {
	Strength    float64
	Theta       float64
	DistanceMin float64
	NaiveLimit  int

	nodes     []*Body
	particles []barneshut.Particle2
	jiggle    func() float64
}

func NewManyBodyForce() *ManyBodyForce {
	return &ManyBodyForce{
		Strength:    DefaultCharge,
		Theta:       DefaultTheta,
		DistanceMin: DefaultDistanceMin,
		NaiveLimit:  DefaultNaiveLimit,
	}
}

func (f *ManyBodyForce) Initialize(nodes []*Body, _ []Link, jiggle func() float64) {
	f.nodes = nodes
	f.jiggle = jiggle
	f.particles = make([]barneshut.Particle2, len(nodes))
	for i, b := range nodes {
		f.particles[i] = b
	}
}

// plane sums forces over all particles when it is not reset, quadtree is built only above NaiveLimit.
func (f *ManyBodyForce) plane() (plane *barneshut.Plane, quadtree bool) {
	if len(f.particles) > f.NaiveLimit {
		if p, err := barneshut.NewPlane(f.particles); err == nil {
			return p, true
		}
	}
	return &barneshut.Plane{Particles: f.particles}, false
}

func (f *ManyBodyForce) Apply(alpha float64) {
	if len(f.nodes) < 2 {
		return
	}
	plane, _ := f.plane()

	minDist2 := f.DistanceMin * f.DistanceMin
	toward := func(p1, p2 barneshut.Particle2, _, m2 float64, v r2.Vec) r2.Vec {
		d2 := r2.Norm2(v)
		if d2 == 0 {
			// coincident bodies are pushed apart in random direction
			if p2 == nil || p1 == p2 || f.jiggle == nil {
				return r2.Vec{}
			}
			v = r2.Vec{X: f.jiggle(), Y: f.jiggle()}
			if d2 = r2.Norm2(v); d2 == 0 {
				return r2.Vec{}
			}
		}
		if d2 < minDist2 {
			d2 = math.Sqrt(minDist2 * d2)
		}
		return r2.Scale(m2/d2, v)
	}

	k := f.Strength * alpha
	for _, b := range f.nodes {
		v := plane.ForceOn(b, f.Theta, toward)
		b.VX += v.X * k
		b.VY += v.Y * k
	}
}

// CenterForce translates all bodies so that their centroid moves toward (X, Y).
// It does not change velocities.
type CenterForce struct {
	X, Y     float64
	Strength float64

	nodes  []*Body
	xs, ys []float64
}

func NewCenterForce(x, y float64) *CenterForce {
	return &CenterForce{X: x, Y: y, Strength: DefaultCenterStrength}
}

func (f *CenterForce) Initialize(nodes []*Body, _ []Link, _ func() float64) {
	f.nodes = nodes
	f.xs = make([]float64, len(nodes))
	f.ys = make([]float64, len(nodes))
}

func (f *CenterForce) Apply(_ float64) {
	if len(f.nodes) == 0 {
		return
	}
	for i, b := range f.nodes {
		f.xs[i] = b.X
		f.ys[i] = b.Y
	}
	sx := (stat.Mean(f.xs, nil) - f.X) * f.Strength
	sy := (stat.Mean(f.ys, nil) - f.Y) * f.Strength
	for _, b := range f.nodes {
		b.X -= sx
		b.Y -= sy
	}
}
