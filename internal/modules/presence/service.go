// README: Presence service implements the online/offline toggle with geolocation fallback.
package presence

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"courier/internal/observability"
	"courier/internal/types"
)

var ErrActiveDelivery = errors.New("delivery in progress; cannot go offline")

// Locator acquires the current device position. Implemented by the platform
// geolocation bridge; one attempt per online toggle, no retry.
type Locator interface {
	Locate(ctx context.Context) (types.Point, error)
}

// PointLocator reports a fixed device-acquired coordinate, typically the fix
// the driver app attached to the online toggle.
type PointLocator struct {
	Pos types.Point
}

func (l PointLocator) Locate(_ context.Context) (types.Point, error) {
	return l.Pos, nil
}

type Service struct {
	store    *Store
	locator  Locator
	fallback types.Point
	log      *slog.Logger
}

func NewService(store *Store, locator Locator, fallback types.Point, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{store: store, locator: locator, fallback: fallback, log: log}
}

// GoOnline flips the driver to available. Geolocation is attempted once
// through loc (or the service default when loc is nil); on failure the fixed
// fallback coordinate is used so the toggle never blocks.
func (s *Service) GoOnline(ctx context.Context, st *State, loc Locator) error {
	if st.Status() == StatusSuspended {
		return ErrSuspended
	}
	if loc == nil {
		loc = s.locator
	}
	pos := s.fallback
	if loc != nil {
		p, err := loc.Locate(ctx)
		if err != nil {
			s.log.Warn("geolocation failed, using fallback position",
				"driver_id", string(st.DriverID()), "err", err)
		} else {
			pos = p
		}
	}
	if err := st.SetOnline(pos); err != nil {
		return err
	}
	now := time.Now()
	_ = s.store.SetPosition(ctx, st.DriverID(), pos)
	_ = s.store.SetStatus(ctx, st.DriverID(), StatusAvailable)
	_ = s.store.AppendSnapshot(ctx, st.DriverID(), pos, now)
	observability.DriversOnline.Inc()
	s.log.Info("driver online", "driver_id", string(st.DriverID()), "lat", pos.Lat, "lng", pos.Lng)
	return nil
}

// GoOffline flips the driver offline. Refused while a delivery is active.
func (s *Service) GoOffline(ctx context.Context, st *State, hasActiveDelivery bool) error {
	if hasActiveDelivery {
		return ErrActiveDelivery
	}
	wasAvailable := st.Status() == StatusAvailable
	if err := st.SetOffline(); err != nil {
		return err
	}
	_ = s.store.RemovePosition(ctx, st.DriverID())
	_ = s.store.SetStatus(ctx, st.DriverID(), StatusOffline)
	if wasAvailable {
		observability.DriversOnline.Dec()
	}
	s.log.Info("driver offline", "driver_id", string(st.DriverID()))
	return nil
}

// Suspend is invoked on behalf of the backend authority.
func (s *Service) Suspend(ctx context.Context, st *State) {
	wasAvailable := st.Status() == StatusAvailable
	st.Suspend()
	_ = s.store.RemovePosition(ctx, st.DriverID())
	_ = s.store.SetStatus(ctx, st.DriverID(), StatusSuspended)
	if wasAvailable {
		observability.DriversOnline.Dec()
	}
	s.log.Warn("driver suspended", "driver_id", string(st.DriverID()))
}

// Reinstate clears a suspension; the driver comes back offline.
func (s *Service) Reinstate(ctx context.Context, st *State) {
	st.Reinstate()
	_ = s.store.SetStatus(ctx, st.DriverID(), st.Status())
	s.log.Info("driver reinstated", "driver_id", string(st.DriverID()))
}

// ReportPosition records a periodic device fix while the driver is on duty.
func (s *Service) ReportPosition(ctx context.Context, st *State, pos types.Point) error {
	if st.Status() == StatusOffline || st.Status() == StatusSuspended {
		return nil
	}
	st.UpdatePosition(pos)
	if err := s.store.SetPosition(ctx, st.DriverID(), pos); err != nil {
		return err
	}
	return s.store.AppendSnapshot(ctx, st.DriverID(), pos, time.Now())
}
