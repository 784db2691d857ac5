// README: Countdown timer driving automatic offer expiry.
package offer

import (
	"sync"
	"time"
)

// Timer counts down a fixed window of ticks for a single offer and fires the
// expiry callback exactly once. Ticks are driven by a wall-clock goroutine in
// production; tests drive Tick directly for determinism.
//
// Cancel suppresses all future ticks, but a tick already past the state check
// may still deliver its expiry callback; the negotiator discards stale
// signals by checking offer identity.
type Timer struct {
	mu        sync.Mutex
	total     int
	remaining int
	interval  time.Duration
	onExpire  func()
	started   bool
	cancelled bool
	fired     bool
	stop      chan struct{}
}

func NewTimer(totalTicks int, interval time.Duration, onExpire func()) *Timer {
	if totalTicks <= 0 {
		totalTicks = 1
	}
	return &Timer{
		total:     totalTicks,
		remaining: totalTicks,
		interval:  interval,
		onExpire:  onExpire,
		stop:      make(chan struct{}),
	}
}

// Start begins ticking once per interval. Idempotent: a second Start while
// running continues the same countdown.
func (t *Timer) Start() {
	t.mu.Lock()
	if t.started || t.cancelled || t.fired {
		t.mu.Unlock()
		return
	}
	t.started = true
	t.mu.Unlock()

	go t.run()
}

func (t *Timer) run() {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()
	for {
		select {
		case <-t.stop:
			return
		case <-ticker.C:
			if !t.Tick() {
				return
			}
		}
	}
}

// Tick performs one decrement. At zero it fires the expiry callback exactly
// once and the timer goes inert. Returns false when the timer no longer
// accepts ticks.
func (t *Timer) Tick() bool {
	t.mu.Lock()
	if t.cancelled || t.fired {
		t.mu.Unlock()
		return false
	}
	if t.remaining > 0 {
		t.remaining--
	}
	if t.remaining > 0 {
		t.mu.Unlock()
		return true
	}
	t.fired = true
	fn := t.onExpire
	t.mu.Unlock()

	// The callback runs outside the lock so a consumer can Cancel from
	// within it without deadlocking. A fire racing a Cancel is delivered
	// late; the consumer treats it as stale.
	if fn != nil {
		fn()
	}
	return false
}

// Cancel stops the countdown and suppresses any future expiry. Safe to call
// after firing or after a previous Cancel.
func (t *Timer) Cancel() {
	t.mu.Lock()
	if t.cancelled {
		t.mu.Unlock()
		return
	}
	t.cancelled = true
	started := t.started
	t.mu.Unlock()
	if started {
		close(t.stop)
	}
}

// Remaining reports ticks left; monotonically non-increasing while pending.
func (t *Timer) Remaining() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.remaining
}

func (t *Timer) Total() int {
	return t.total
}
