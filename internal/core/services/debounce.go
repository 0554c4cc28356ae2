package services

import (
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/custodia-labs/vecsync/internal/logger"
)

// DefaultDebounce is the quiet period before a deferred action runs.
const DefaultDebounce = 5 * time.Second

// Action is work deferred by the Coalescer.
type Action func() error

// Timer is the part of *time.Timer the Coalescer uses.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f after d, like time.AfterFunc.
type AfterFunc func(d time.Duration, f func()) Timer

// Coalescer keeps at most one pending action per key. Scheduling a key
// again stops its pending timer and replaces the action, so a burst of
// notifications runs only the last action, once, after the burst has been
// quiet for the delay.
type Coalescer struct {
	delay     time.Duration
	afterFunc AfterFunc

	mu      sync.Mutex
	pending map[string]*pendingAction
	closed  bool
	running sync.WaitGroup
}

type pendingAction struct {
	timer Timer
}

// CoalescerOption configures the coalescer.
type CoalescerOption func(*Coalescer)

// WithAfterFunc replaces the timer source, for tests.
func WithAfterFunc(fn AfterFunc) CoalescerOption {
	return func(c *Coalescer) {
		if fn != nil {
			c.afterFunc = fn
		}
	}
}

// NewCoalescer creates a coalescer with the given default delay.
// A non-positive delay uses DefaultDebounce.
func NewCoalescer(delay time.Duration, opts ...CoalescerOption) *Coalescer {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	c := &Coalescer{
		delay: delay,
		afterFunc: func(d time.Duration, f func()) Timer {
			return time.AfterFunc(d, f)
		},
		pending: make(map[string]*pendingAction),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Delay returns the default delay.
func (c *Coalescer) Delay() time.Duration {
	return c.delay
}

// Notify schedules action for key after the default delay.
func (c *Coalescer) Notify(key string, action Action) {
	c.Schedule(key, c.delay, action)
}

// Schedule schedules action for key after delay, replacing any pending
// action for the same key. It is ignored after CancelAll.
func (c *Coalescer) Schedule(key string, delay time.Duration, action Action) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	if prev, ok := c.pending[key]; ok {
		prev.timer.Stop()
	}

	p := &pendingAction{}
	c.pending[key] = p
	p.timer = c.afterFunc(delay, func() {
		c.fire(key, p, action)
	})
}

// Cancel stops the pending action for key. It reports whether one was
// pending.
func (c *Coalescer) Cancel(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, ok := c.pending[key]
	if !ok {
		return false
	}
	p.timer.Stop()
	delete(c.pending, key)
	return true
}

// CancelAll stops every pending action and ignores later notifications.
func (c *Coalescer) CancelAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	for key, p := range c.pending {
		p.timer.Stop()
		delete(c.pending, key)
	}
}

// Pending returns the number of scheduled actions.
func (c *Coalescer) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

// Wait blocks until every action that has started has returned.
func (c *Coalescer) Wait() {
	c.running.Wait()
}

// fire runs on the timer's goroutine. A timer that was replaced after it
// had already fired finds a different entry for its key and does nothing.
func (c *Coalescer) fire(key string, p *pendingAction, action Action) {
	c.mu.Lock()
	if c.closed || c.pending[key] != p {
		c.mu.Unlock()
		return
	}
	delete(c.pending, key)
	c.running.Add(1)
	c.mu.Unlock()

	defer c.running.Done()
	if err := run(action); err != nil {
		logger.Error("deferred action for %s: %v", key, err)
	}
}

func run(action Action) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v\n%s", r, debug.Stack())
		}
	}()
	return action()
}
