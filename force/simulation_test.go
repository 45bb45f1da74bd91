package force

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func newTestSimulation(cx, cy float64) *Simulation {
	return New(
		WithForce("link", NewLinkForce()),
		WithForce("charge", NewManyBodyForce()),
		WithForce("center", NewCenterForce(cx, cy)),
	)
}

// chain makes n bodies linked one after another.
func chain(n int) ([]*Body, []Link) {
	nodes := make([]*Body, n)
	for i := range nodes {
		nodes[i] = &Body{}
	}
	var links []Link
	for i := 1; i < n; i++ {
		links = append(links, Link{Source: nodes[i-1], Target: nodes[i]})
	}
	return nodes, links
}

func TestSimulation_ZeroNodes(t *testing.T) {
	s := newTestSimulation(480, 250)
	ticks := 0
	s.OnTick(func() { ticks++ })

	assert.False(t, s.Step())
	assert.False(t, s.Running())
	assert.Equal(t, 0, ticks)
}

func TestSimulation_SingleNodeIsCentered(t *testing.T) {
	s := newTestSimulation(480, 250)
	b := &Body{}
	s.SetNodes([]*Body{b})

	for s.Step() {
	}

	assert.InDelta(t, 480, b.X, 1e-9)
	assert.InDelta(t, 250, b.Y, 1e-9)
}

func TestSimulation_InitialPlacement(t *testing.T) {
	s := New()
	nodes, _ := chain(5)
	nodes[3].Place(7, 8)
	s.SetNodes(nodes)

	seen := map[[2]float64]bool{}
	for i, b := range nodes {
		assert.True(t, b.Placed())
		assert.Equal(t, i, b.Index)
		seen[[2]float64{b.X, b.Y}] = true
	}
	assert.Len(t, seen, 5)
	assert.Equal(t, 7.0, nodes[3].X)
	assert.Equal(t, 8.0, nodes[3].Y)
}

func TestSimulation_PinOverride(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 20).Draw(t, "n")
		nodes, links := chain(n)
		s := newTestSimulation(480, 250)
		s.SetNodes(nodes)
		require.NoError(t, s.SetLinks(links))
		s.Tick(rapid.IntRange(0, 50).Draw(t, "warmup"))

		pinned := nodes[rapid.IntRange(0, n-1).Draw(t, "pinned")]
		fx := rapid.Float64Range(-1e4, 1e4).Draw(t, "fx")
		fy := rapid.Float64Range(-1e4, 1e4).Draw(t, "fy")
		pinned.Pin(fx, fy)

		s.Tick(1)

		assert.Equal(t, fx, pinned.X)
		assert.Equal(t, fy, pinned.Y)
		assert.Zero(t, pinned.VX)
		assert.Zero(t, pinned.VY)
	})
}

func TestSimulation_Unpin(t *testing.T) {
	b := &Body{}
	b.Pin(1, 2)
	p, ok := b.Fixed()
	assert.True(t, ok)
	assert.Equal(t, 1.0, p.X)
	assert.Equal(t, 2.0, p.Y)

	b.Unpin()
	_, ok = b.Fixed()
	assert.False(t, ok)
}

func TestSimulation_EnergyDecay(t *testing.T) {
	s := newTestSimulation(480, 250)
	nodes, links := chain(8)
	s.SetNodes(nodes)
	require.NoError(t, s.SetLinks(links))

	var deltas []float64
	prev := make([][2]float64, len(nodes))
	for i, b := range nodes {
		prev[i] = [2]float64{b.X, b.Y}
	}
	s.OnTick(func() {
		d := 0.0
		for i, b := range nodes {
			d += math.Hypot(b.X-prev[i][0], b.Y-prev[i][1])
			prev[i] = [2]float64{b.X, b.Y}
		}
		deltas = append(deltas, d)
	})

	ends := 0
	s.OnEnd(func() { ends++ })

	for i := 0; i < 1000 && s.Step(); i++ {
	}

	require.False(t, s.Running())
	assert.Equal(t, 1, ends)
	assert.Less(t, len(deltas), 310)
	require.Greater(t, len(deltas), 20)

	// first ticks include centering jump, so compare windows after it
	early := sum(deltas[5:15])
	late := sum(deltas[len(deltas)-10:])
	assert.Less(t, late, early/10)
}

func sum(vs []float64) float64 {
	s := 0.0
	for _, v := range vs {
		s += v
	}
	return s
}

func TestSimulation_RestartWithAlphaTarget(t *testing.T) {
	s := newTestSimulation(0, 0)
	nodes, links := chain(3)
	s.SetNodes(nodes)
	require.NoError(t, s.SetLinks(links))
	for s.Step() {
	}
	require.Less(t, s.Alpha(), s.AlphaMin())

	s.SetAlphaTarget(0.3)
	s.Restart()
	for i := 0; i < 100; i++ {
		require.True(t, s.Step())
	}
	assert.Greater(t, s.Alpha(), 0.2)

	s.SetAlphaTarget(0)
	for i := 0; i < 1000 && s.Step(); i++ {
	}
	assert.False(t, s.Running())
}

func TestSimulation_SetLinksUnknownBody(t *testing.T) {
	s := New()
	nodes, _ := chain(2)
	s.SetNodes(nodes)

	err := s.SetLinks([]Link{{Source: nodes[0], Target: &Body{}}})
	assert.ErrorIs(t, err, ErrUnknownBody)
}

func TestSimulation_SetForce(t *testing.T) {
	s := New(WithForce("center", NewCenterForce(1, 1)))

	f, ok := s.Force("center")
	require.True(t, ok)
	assert.IsType(t, &CenterForce{}, f)

	s.SetForce("center", nil)
	_, ok = s.Force("center")
	assert.False(t, ok)
}
