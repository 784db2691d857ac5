// README: Per-driver session registry; one presence state, tracker, and negotiator per driver.
package session

import (
	"context"
	"log/slog"
	"sync"

	"courier/internal/config"
	"courier/internal/modules/delivery"
	"courier/internal/modules/offer"
	"courier/internal/modules/presence"
	"courier/internal/types"
)

// Notifier pushes offer events to the driver's device. Implemented by the
// websocket registry; nil disables push.
type Notifier interface {
	offer.Resolver
	OfferPresented(driverID types.ID, o offer.Offer, windowTicks int)
}

// Session aggregates the state owned by one logged-in driver. The negotiator
// is the sole offer-driven writer over the presence state and the tracker.
type Session struct {
	DriverID   types.ID
	Presence   *presence.State
	Tracker    *delivery.Tracker
	Negotiator *offer.Negotiator
}

type Manager struct {
	mu       sync.RWMutex
	sessions map[types.ID]*Session

	cfg        config.OfferConfig
	deliveries *delivery.Service
	notifier   Notifier
	log        *slog.Logger
}

func NewManager(cfg config.OfferConfig, deliveries *delivery.Service, notifier Notifier, log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}
	return &Manager{
		sessions:   make(map[types.ID]*Session),
		cfg:        cfg,
		deliveries: deliveries,
		notifier:   notifier,
		log:        log,
	}
}

// GetOrCreate returns the driver's session, creating it on first use. New
// sessions start offline.
func (m *Manager) GetOrCreate(driverID types.ID) *Session {
	m.mu.RLock()
	s, ok := m.sessions[driverID]
	m.mu.RUnlock()
	if ok {
		return s
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[driverID]; ok {
		return s
	}
	st := presence.NewState(driverID)
	tracker := delivery.NewTracker()
	var resolver offer.Resolver
	if m.notifier != nil {
		resolver = m.notifier
	}
	s = &Session{
		DriverID:   driverID,
		Presence:   st,
		Tracker:    tracker,
		Negotiator: offer.NewNegotiator(driverID, st, tracker, m.cfg.WindowTicks, m.cfg.TickInterval, resolver, m.log),
	}
	m.sessions[driverID] = s
	return s
}

// Get returns an existing session without creating one.
func (m *Manager) Get(driverID types.ID) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[driverID]
	return s, ok
}

// Present routes a dispatch offer to the driver's negotiator and pushes it to
// the device when accepted for display.
func (m *Manager) Present(driverID types.ID, o offer.Offer) error {
	s := m.GetOrCreate(driverID)
	if err := s.Negotiator.Present(o); err != nil {
		return err
	}
	if m.notifier != nil {
		m.notifier.OfferPresented(driverID, o, m.cfg.WindowTicks)
	}
	return nil
}

// Accept resolves the driver's pending offer and mirrors the new active
// order to the backend record.
func (m *Manager) Accept(ctx context.Context, driverID types.ID) (delivery.Order, error) {
	s := m.GetOrCreate(driverID)
	ord, err := s.Negotiator.Accept()
	if err != nil {
		return delivery.Order{}, err
	}
	m.deliveries.Record(ctx, &ord)
	return ord, nil
}

func (m *Manager) Reject(driverID types.ID) error {
	return m.GetOrCreate(driverID).Negotiator.Reject()
}
