// Package gate implements the hold-to-confirm protocol guarding
// destructive actions. A gate is bound to one callback; the caller must
// keep the press gesture held for the full hold duration before the
// callback fires, and any release before that discards all progress.
package gate

import (
	"fmt"
	"sync"
	"time"
)

// State of the confirmation machine.
type State int

const (
	Idle State = iota
	Pressing
	Completed
)

func (s State) String() string {
	switch s {
	case Pressing:
		return "PRESSING"
	case Completed:
		return "COMPLETED"
	default:
		return "IDLE"
	}
}

const (
	DefaultHoldDuration = 800 * time.Millisecond
	DefaultStepInterval = 50 * time.Millisecond
)

// Gate is a timed confirmation state machine. It runs its own repeating
// timer while pressed, independent of the dashboard tick cycle, and
// guarantees the bound callback fires at most once per completed hold.
type Gate struct {
	mu      sync.Mutex
	state   State
	elapsed time.Duration
	hold    time.Duration
	step    time.Duration
	stop    chan struct{}
	stopped bool

	onConfirm func()
}

// New creates a gate that invokes onConfirm after the press has been held
// for the full hold duration, advancing in step-sized increments.
func New(hold, step time.Duration, onConfirm func()) (*Gate, error) {
	if hold <= 0 {
		return nil, fmt.Errorf("gate: hold duration must be positive, got %v", hold)
	}
	if step <= 0 || step > hold {
		return nil, fmt.Errorf("gate: step interval must be positive and at most the hold duration, got %v", step)
	}
	if onConfirm == nil {
		return nil, fmt.Errorf("gate: confirm callback is required")
	}
	return &Gate{hold: hold, step: step, onConfirm: onConfirm}, nil
}

// Press starts a hold. Pressing while already pressing is idempotent: the
// running timer keeps its progress.
func (g *Gate) Press() {
	g.mu.Lock()
	if g.stopped || g.state != Idle {
		g.mu.Unlock()
		return
	}
	g.state = Pressing
	g.elapsed = 0
	g.stop = make(chan struct{})
	stop := g.stop
	g.mu.Unlock()

	go g.run(stop)
}

// Release abandons an in-progress hold. All accumulated progress is
// discarded; a release strictly before completion guarantees the callback
// does not fire for that press.
func (g *Gate) Release() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state != Pressing {
		return
	}
	g.reset()
}

// Stop tears the gate down: any active timer is cancelled and no callback
// will fire afterwards. Further presses are ignored.
func (g *Gate) Stop() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.stopped = true
	if g.state == Pressing {
		g.reset()
	}
}

// State returns the current machine state.
func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Progress returns the fraction of the hold completed, in [0, 1].
func (g *Gate) Progress() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state != Pressing {
		return 0
	}
	return float64(g.elapsed) / float64(g.hold)
}

// reset must be called with the lock held.
func (g *Gate) reset() {
	g.state = Idle
	g.elapsed = 0
	if g.stop != nil {
		close(g.stop)
		g.stop = nil
	}
}

// run is the per-press timer loop. The callback is invoked outside the
// lock so it may safely call back into the gate's owner.
func (g *Gate) run(stop chan struct{}) {
	t := time.NewTicker(g.step)
	defer t.Stop()

	for {
		select {
		case <-stop:
			return
		case <-t.C:
			fire, done := g.advance(g.step)
			if fire {
				g.onConfirm()
				g.finish()
			}
			if done {
				return
			}
		}
	}
}

// advance moves the machine forward by one timer step. It returns whether
// the hold just completed (the callback must fire exactly once) and
// whether the timer loop should exit. Kept separate from the timer so the
// transition table is testable without wall-clock waits.
func (g *Gate) advance(step time.Duration) (fire, done bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != Pressing {
		return false, true
	}
	g.elapsed += step
	if g.elapsed < g.hold {
		return false, false
	}

	g.state = Completed
	g.stop = nil
	return true, true
}

// finish returns the machine to Idle after a completed hold.
func (g *Gate) finish() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state == Completed {
		g.state = Idle
		g.elapsed = 0
	}
}
