package force

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoop_RunAndCancel(t *testing.T) {
	s := newTestSimulation(0, 0)
	nodes, links := chain(4)
	s.SetNodes(nodes)
	require.NoError(t, s.SetLinks(links))

	var ticks atomic.Int64
	s.OnTick(func() { ticks.Add(1) })

	l := NewLoop(s, time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- l.Run(ctx) }()

	require.Eventually(t, func() bool { return ticks.Load() > 5 }, 5*time.Second, time.Millisecond)

	require.True(t, l.Do(func() {
		nodes[0].Pin(42, 24)
		s.SetAlpha(1)
		s.Restart()
	}))
	require.Eventually(t, func() bool {
		var x float64
		l.Do(func() { x = nodes[0].X })
		return x == 42
	}, 5*time.Second, time.Millisecond)

	cancel()
	err := <-errc
	assert.True(t, errors.Is(err, context.Canceled))

	after := ticks.Load()
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, after, ticks.Load())
	assert.False(t, s.Running())
	assert.False(t, l.Do(func() {}))
}

func TestLoop_DoRunsBetweenTicks(t *testing.T) {
	s := newTestSimulation(0, 0)
	nodes, _ := chain(2)
	s.SetNodes(nodes)

	var inTick atomic.Bool
	var overlap atomic.Bool
	s.OnTick(func() {
		inTick.Store(true)
		time.Sleep(100 * time.Microsecond)
		inTick.Store(false)
	})

	l := NewLoop(s, time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go l.Run(ctx)

	for i := 0; i < 20; i++ {
		l.Do(func() {
			if inTick.Load() {
				overlap.Store(true)
			}
			s.SetAlpha(1)
			s.Restart()
		})
	}

	assert.False(t, overlap.Load())
}
