// README: Tracker holds at most one in-progress order and enforces forward-only transitions.
package delivery

import (
	"errors"
	"sync"
	"time"
)

var (
	ErrOrderInProgress = errors.New("an order is already in progress")
	ErrNoCurrentOrder  = errors.New("no current order")
	ErrInvalidState    = errors.New("invalid state transition")
)

// AdvanceCommand carries a requested status transition for the current order.
// Proof fields are only meaningful for the delivered transition.
type AdvanceCommand struct {
	To            Status
	ProofPhotoURL string
	SignatureURL  string
	Reason        string
}

// Tracker owns the driver's single current order. One Tracker exists per
// session; the offer negotiator is the only component that installs orders.
type Tracker struct {
	mu      sync.Mutex
	current *Order
}

func NewTracker() *Tracker {
	return &Tracker{}
}

// SetCurrent installs a new current order. Refused while any order is held,
// terminal or not; callers must ClearIfTerminal first.
func (t *Tracker) SetCurrent(o *Order) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.current != nil {
		return ErrOrderInProgress
	}
	cp := *o
	t.current = &cp
	return nil
}

// Current returns a copy of the current order, if any.
func (t *Tracker) Current() (Order, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.current == nil {
		return Order{}, false
	}
	return *t.current, true
}

// HasActive reports whether a non-terminal order is held.
func (t *Tracker) HasActive() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current != nil && !IsTerminal(t.current.Status)
}

// Advance validates the requested transition against the transition table.
// Invalid transitions are rejected without mutating state.
func (t *Tracker) Advance(cmd AdvanceCommand) (Order, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.current == nil {
		return Order{}, ErrNoCurrentOrder
	}
	if !CanTransition(t.current.Status, cmd.To) {
		return Order{}, ErrInvalidState
	}
	now := time.Now()
	t.current.Status = cmd.To
	t.current.StatusVersion++
	switch cmd.To {
	case StatusDispatched:
		t.current.DispatchedAt = &now
	case StatusInProgress:
		t.current.InProgressAt = &now
	case StatusDelivered:
		t.current.DeliveredAt = &now
		t.current.ProofPhotoURL = cmd.ProofPhotoURL
		t.current.SignatureURL = cmd.SignatureURL
	case StatusCancelled:
		t.current.CancelledAt = &now
		t.current.CancelReason = cmd.Reason
	}
	return *t.current, nil
}

// ClearIfTerminal drops a delivered or cancelled order and returns it. The
// second result reports whether anything was cleared, implying the driver is
// eligible to return to available.
func (t *Tracker) ClearIfTerminal() (Order, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.current == nil || !IsTerminal(t.current.Status) {
		return Order{}, false
	}
	o := *t.current
	t.current = nil
	return o, true
}
