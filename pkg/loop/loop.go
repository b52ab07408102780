// Package loop implements the simulated event loop: a two-state machine
// (Idle, Running) where Run blocks the calling goroutine until Quit is
// called from elsewhere.
//
// Run waits on a channel that Quit closes, so the waiter wakes as soon as
// the state flips instead of polling on a timer. Quit may be called from any
// goroutine, a signal handler, or a callback. It is idempotent, and a Quit
// issued while Idle is not remembered: a later Run still blocks until its
// own Quit.
//
// Nested Run calls are rejected with ErrAlreadyRunning and return at once.
// A Run started while the previous one is still returning waits for its
// OnStop hook, so hook calls never interleave across runs.
package loop

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

// ErrAlreadyRunning is returned by Run when the loop is already running.
var ErrAlreadyRunning = errors.New("loop: already running")

// State is the loop state.
type State int32

const (
	// Idle means no Run call is blocked.
	Idle State = iota
	// Running means a Run call is blocked waiting for Quit.
	Running
)

func (s State) String() string {
	if s == Running {
		return "running"
	}
	return "idle"
}

// Hooks observe transitions. They run on the goroutine performing the
// transition. OnStart and OnQuit run under the controller lock and must not
// call back into the controller. OnStop must not call Run.
type Hooks struct {
	// OnStart runs after Idle -> Running, before Run blocks.
	OnStart func()
	// OnQuit runs when Quit is called, whatever the state, before the waiter
	// is woken.
	OnQuit func(wasRunning bool)
	// OnStop runs after Run wakes, before it returns and before any later
	// Run starts.
	OnStop func()
}

// Controller is the run/stop state machine. The zero value is not usable;
// call New.
type Controller struct {
	state atomic.Int32

	mu      sync.Mutex
	done    chan struct{}
	started chan struct{}
	// finished is closed once the last Run has called OnStop.
	finished chan struct{}
	hooks    Hooks
}

// New returns an idle controller.
func New(hooks Hooks) *Controller {
	return &Controller{
		hooks:   hooks,
		started: make(chan struct{}),
	}
}

// State returns the current state without locking.
func (c *Controller) State() State {
	return State(c.state.Load())
}

// Running reports whether the loop is running.
func (c *Controller) Running() bool {
	return c.State() == Running
}

// Run transitions Idle -> Running and blocks until Quit. It returns nil on
// normal termination and ErrAlreadyRunning, without blocking, when the loop
// is already running.
func (c *Controller) Run() error {
	c.mu.Lock()
	for c.State() != Running && c.finished != nil {
		prev := c.finished
		c.mu.Unlock()
		<-prev
		c.mu.Lock()
	}
	if c.State() == Running {
		c.mu.Unlock()
		return ErrAlreadyRunning
	}
	done := make(chan struct{})
	finished := make(chan struct{})
	c.done = done
	c.finished = finished
	c.state.Store(int32(Running))
	if c.hooks.OnStart != nil {
		c.hooks.OnStart()
	}
	close(c.started)
	c.mu.Unlock()

	<-done

	if c.hooks.OnStop != nil {
		c.hooks.OnStop()
	}
	c.mu.Lock()
	if c.finished == finished {
		c.finished = nil
	}
	c.mu.Unlock()
	close(finished)
	return nil
}

// Quit transitions Running -> Idle and wakes the blocked Run. It is a no-op
// when the loop is idle.
func (c *Controller) Quit() {
	c.mu.Lock()
	defer c.mu.Unlock()

	wasRunning := c.State() == Running
	if c.hooks.OnQuit != nil {
		c.hooks.OnQuit(wasRunning)
	}
	if !wasRunning {
		return
	}
	c.state.Store(int32(Idle))
	close(c.done)
	c.done = nil
	c.started = make(chan struct{})
}

// Wait blocks until the loop is running or ctx is done. It lets a host
// sequence a Quit after a Run started on another goroutine.
func (c *Controller) Wait(ctx context.Context) error {
	c.mu.Lock()
	started := c.started
	running := c.State() == Running
	c.mu.Unlock()
	if running {
		return nil
	}

	select {
	case <-started:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
