// README: Countdown timer tests (tick-driven, no wall clock).
package offer

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestTimerCountsDownAndFiresOnce(t *testing.T) {
	var fired atomic.Int32
	tm := NewTimer(3, time.Hour, func() { fired.Add(1) })

	if got := tm.Remaining(); got != 3 {
		t.Fatalf("remaining before ticks = %d, want 3", got)
	}
	if !tm.Tick() {
		t.Fatal("tick 1 should keep the timer alive")
	}
	if got := tm.Remaining(); got != 2 {
		t.Fatalf("remaining after 1 tick = %d, want 2", got)
	}
	if !tm.Tick() {
		t.Fatal("tick 2 should keep the timer alive")
	}
	if tm.Tick() {
		t.Fatal("tick 3 should report the timer inert")
	}
	if got := fired.Load(); got != 1 {
		t.Fatalf("expiry fired %d times, want 1", got)
	}

	// Further ticks are no-ops.
	if tm.Tick() {
		t.Fatal("tick after expiry should be refused")
	}
	if got := fired.Load(); got != 1 {
		t.Fatalf("expiry fired %d times after extra tick, want 1", got)
	}
}

func TestTimerRemainingMonotonic(t *testing.T) {
	tm := NewTimer(5, time.Hour, nil)
	prev := tm.Remaining()
	for tm.Tick() {
		cur := tm.Remaining()
		if cur > prev {
			t.Fatalf("remaining went up: %d -> %d", prev, cur)
		}
		prev = cur
	}
	if got := tm.Remaining(); got != 0 {
		t.Fatalf("remaining after expiry = %d, want 0", got)
	}
}

func TestTimerCancelSuppressesExpiry(t *testing.T) {
	var fired atomic.Int32
	tm := NewTimer(2, time.Hour, func() { fired.Add(1) })

	tm.Tick()
	tm.Cancel()
	tm.Cancel() // idempotent

	if tm.Tick() {
		t.Fatal("tick after cancel should be refused")
	}
	if got := fired.Load(); got != 0 {
		t.Fatalf("expiry fired %d times after cancel, want 0", got)
	}
}

func TestTimerStartFiresOverWallClock(t *testing.T) {
	done := make(chan struct{})
	tm := NewTimer(2, time.Millisecond, func() { close(done) })
	tm.Start()
	tm.Start() // idempotent

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("expiry callback never fired")
	}
}

func TestTimerCancelStopsWallClock(t *testing.T) {
	var fired atomic.Int32
	tm := NewTimer(1000, time.Millisecond, func() { fired.Add(1) })
	tm.Start()
	tm.Cancel()

	time.Sleep(20 * time.Millisecond)
	if got := fired.Load(); got != 0 {
		t.Fatalf("expiry fired %d times after cancel, want 0", got)
	}
}

func TestTimerConcurrentTickAndCancel(t *testing.T) {
	var fired atomic.Int32
	tm := NewTimer(1, time.Hour, func() { fired.Add(1) })

	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		<-start
		tm.Tick()
	}()
	go func() {
		defer wg.Done()
		<-start
		tm.Cancel()
	}()
	close(start)
	wg.Wait()

	// Either the tick won and fired or the cancel won and suppressed it;
	// never both, never twice.
	if got := fired.Load(); got > 1 {
		t.Fatalf("expiry fired %d times, want at most 1", got)
	}
}
