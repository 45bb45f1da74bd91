package force

import (
	"context"
	"time"
)

// DefaultInterval is cadence of ticks, around one display frame.
const DefaultInterval = 16 * time.Millisecond

// Loop owns Simulation and drives it at fixed cadence.
// All access to simulation and its bodies has to go through Do, which runs
// function on the same goroutine as ticks, so ticks and gestures never overlap.
type Loop struct {
	sim      *Simulation
	interval time.Duration
	cmds     chan func()
	done     chan struct{}
}

func NewLoop(sim *Simulation, interval time.Duration) *Loop {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Loop{
		sim:      sim,
		interval: interval,
		cmds:     make(chan func()),
		done:     make(chan struct{}),
	}
}

// Run steps simulation until ctx is cancelled.
// On return simulation is stopped and its listeners are removed.
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.done)
	defer l.sim.RemoveListeners()
	defer l.sim.Stop()

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-l.cmds:
			fn()
		case <-ticker.C:
			l.sim.Step()
		}
	}
}

// Do runs fn on loop goroutine and waits for it to finish.
// Returns false if loop is not running anymore.
// It must not be called from tick or end listeners.
func (l *Loop) Do(fn func()) bool {
	ran := make(chan struct{})
	select {
	case l.cmds <- func() { defer close(ran); fn() }:
		<-ran
		return true
	case <-l.done:
		return false
	}
}

// Done is closed when Run returns.
func (l *Loop) Done() <-chan struct{} { return l.done }

// Simulation driven by loop. Touch it only inside Do or listeners.
func (l *Loop) Simulation() *Simulation { return l.sim }
