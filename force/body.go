package force

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

const (
	initialRadius = 10
)

var initialAngle = math.Pi * (3 - math.Sqrt(5))

// Body is position and velocity of one node while it is in the working set of a Simulation.
type Body struct {
	Index  int // position in the working set, set by Simulation.SetNodes
	X, Y   float64
	VX, VY float64

	fx, fy float64
	pinned bool
	placed bool
}

// Place sets position explicitly, so that simulation will not assign initial one.
func (b *Body) Place(x, y float64) {
	b.X, b.Y = x, y
	b.placed = true
}

// Placed tells if body has position either from Place or from simulation.
func (b *Body) Placed() bool { return b.placed }

// Pin fixes position of body. Each tick overwrites position with pinned one and zeroes velocity.
func (b *Body) Pin(x, y float64) {
	b.fx, b.fy = x, y
	b.pinned = true
}

// Unpin releases body back to physics.
func (b *Body) Unpin() {
	b.fx, b.fy = 0, 0
	b.pinned = false
}

// Fixed returns pinned position if any.
func (b *Body) Fixed() (r2.Vec, bool) {
	return r2.Vec{X: b.fx, Y: b.fy}, b.pinned
}

// Coord2 is used by Barnes-Hut plane.
func (b *Body) Coord2() r2.Vec { return r2.Vec{X: b.X, Y: b.Y} }

// Mass is uniform, strength of many-body force is applied separately.
func (b *Body) Mass() float64 { return 1 }

// place puts body on phyllotaxis spiral around origin so that initial positions
// are deterministic and do not overlap.
func (b *Body) place(i int) {
	if b.pinned {
		b.X, b.Y = b.fx, b.fy
	} else {
		radius := initialRadius * math.Sqrt(0.5+float64(i))
		angle := float64(i) * initialAngle
		b.X = radius * math.Cos(angle)
		b.Y = radius * math.Sin(angle)
	}
	b.VX, b.VY = 0, 0
	b.placed = true
}
