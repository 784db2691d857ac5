// README: Driver presence status and per-session state container.
package presence

import (
	"errors"
	"sync"
	"time"

	"courier/internal/types"
)

type Status string

const (
	StatusAvailable Status = "available"
	StatusBusy      Status = "busy"
	StatusOffline   Status = "offline"
	StatusSuspended Status = "suspended"
)

var (
	ErrSuspended  = errors.New("driver is suspended")
	ErrDriverBusy = errors.New("driver has a delivery in progress")
)

// State is the per-session presence container: current status plus the last
// known device coordinate. One State exists per logged-in driver; the offer
// negotiator is the only offer-driven writer.
type State struct {
	mu        sync.Mutex
	driverID  types.ID
	status    Status
	position  types.Point
	hasFix    bool
	updatedAt time.Time
}

func NewState(driverID types.ID) *State {
	return &State{driverID: driverID, status: StatusOffline}
}

func (s *State) DriverID() types.ID {
	return s.driverID
}

func (s *State) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Position returns the last known coordinate and whether one has been recorded.
func (s *State) Position() (types.Point, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.position, s.hasFix
}

// SetOnline records the acquired position and flips the driver to available.
// Suspension is terminal from the driver's side; a busy driver stays busy.
func (s *State) SetOnline(pos types.Point) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.status {
	case StatusSuspended:
		return ErrSuspended
	case StatusBusy:
		return ErrDriverBusy
	}
	s.status = StatusAvailable
	s.position = pos
	s.hasFix = true
	s.updatedAt = time.Now()
	return nil
}

func (s *State) SetOffline() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.status {
	case StatusSuspended:
		return ErrSuspended
	case StatusBusy:
		return ErrDriverBusy
	}
	s.status = StatusOffline
	s.updatedAt = time.Now()
	return nil
}

// SetBusy marks the driver as executing a delivery. Called by the negotiator
// when an offer is accepted.
func (s *State) SetBusy() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status == StatusSuspended {
		return ErrSuspended
	}
	s.status = StatusBusy
	s.updatedAt = time.Now()
	return nil
}

// ClearBusy returns a busy driver to available once the active delivery
// reached a terminal status. No-op for any other status.
func (s *State) ClearBusy() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status == StatusBusy {
		s.status = StatusAvailable
		s.updatedAt = time.Now()
	}
}

// Suspend is the backend-authority operation; it overrides any local status.
func (s *State) Suspend() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = StatusSuspended
	s.updatedAt = time.Now()
}

// Reinstate clears a suspension. Only the backend authority calls this; the
// driver comes back offline and must toggle online again.
func (s *State) Reinstate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status == StatusSuspended {
		s.status = StatusOffline
		s.updatedAt = time.Now()
	}
}

// UpdatePosition records a new device fix without touching the status.
func (s *State) UpdatePosition(pos types.Point) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.position = pos
	s.hasFix = true
	s.updatedAt = time.Now()
}
