// README: Negotiator owns the lifecycle of the single pending offer.
package offer

import (
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"sync"
	"time"

	"courier/internal/modules/delivery"
	"courier/internal/modules/presence"
	"courier/internal/observability"
	"courier/internal/types"
)

// Resolver receives the outcome of every resolved offer, for user-facing
// messaging (push, toast). Implemented by the websocket push registry.
type Resolver interface {
	OfferResolved(driverID types.ID, res Resolution, o Offer)
}

// Negotiator is the per-session state machine governing the pending offer:
// Idle with no offer, Pending while the countdown runs, and terminal outcomes
// (accepted, rejected, expired) that collapse back to Idle. It is the single
// writer over the presence state and the delivery tracker for offer-driven
// mutations.
type Negotiator struct {
	mu       sync.Mutex
	driverID types.ID
	presence *presence.State
	tracker  *delivery.Tracker
	window   int
	tick     time.Duration
	resolver Resolver
	log      *slog.Logger

	pending *Offer
	timer   *Timer
}

func NewNegotiator(
	driverID types.ID,
	st *presence.State,
	tracker *delivery.Tracker,
	windowTicks int,
	tickInterval time.Duration,
	resolver Resolver,
	log *slog.Logger,
) *Negotiator {
	if log == nil {
		log = slog.Default()
	}
	return &Negotiator{
		driverID: driverID,
		presence: st,
		tracker:  tracker,
		window:   windowTicks,
		tick:     tickInterval,
		resolver: resolver,
		log:      log,
	}
}

// Present shows a new offer to the driver and starts its countdown in the
// same step. Only valid while Idle, with the driver available and no active
// delivery; otherwise the call is refused without touching existing state.
func (n *Negotiator) Present(o Offer) error {
	if err := o.Validate(); err != nil {
		return err
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.pending != nil {
		observability.OffersIgnored.Inc()
		return ErrOfferPending
	}
	if n.presence.Status() != presence.StatusAvailable {
		observability.OffersIgnored.Inc()
		return ErrDriverUnavailable
	}
	if n.tracker.HasActive() {
		observability.OffersIgnored.Inc()
		return ErrDeliveryInProgress
	}

	cp := o
	if cp.ReceivedAt.IsZero() {
		cp.ReceivedAt = time.Now()
	}
	n.pending = &cp
	n.timer = NewTimer(n.window, n.tick, func() { n.handleExpiry(cp.ID) })
	n.timer.Start()
	observability.OffersPresented.Inc()
	n.log.Info("offer presented",
		"driver_id", string(n.driverID), "offer_id", string(cp.ID),
		"price", cp.Price.Float(), "window_ticks", n.window)
	return nil
}

// Accept resolves the pending offer in the driver's favour: the timer is
// cancelled and the offer cleared before any other mutation, the driver goes
// busy, and an active order with status accepted is installed. No-op from
// Idle.
func (n *Negotiator) Accept() (delivery.Order, error) {
	n.mu.Lock()
	if n.pending == nil {
		n.mu.Unlock()
		return delivery.Order{}, ErrNoOffer
	}
	o := *n.pending
	n.timer.Cancel()
	n.pending, n.timer = nil, nil

	ord := orderFromOffer(n.driverID, o)
	if err := n.tracker.SetCurrent(&ord); err != nil {
		// Cannot happen through the negotiator's own discipline; surfaced
		// rather than swallowed in case an outside writer broke it.
		n.mu.Unlock()
		return delivery.Order{}, err
	}
	_ = n.presence.SetBusy()
	n.mu.Unlock()

	observability.OffersAccepted.Inc()
	n.log.Info("offer accepted", "driver_id", string(n.driverID), "offer_id", string(o.ID))
	n.notify(ResolutionAccepted, o)
	return ord, nil
}

// Reject resolves the pending offer against the job. Presence is untouched.
// No-op from Idle.
func (n *Negotiator) Reject() error {
	n.mu.Lock()
	if n.pending == nil {
		n.mu.Unlock()
		return ErrNoOffer
	}
	o := *n.pending
	n.timer.Cancel()
	n.pending, n.timer = nil, nil
	n.mu.Unlock()

	observability.OffersRejected.Inc()
	n.log.Info("offer rejected", "driver_id", string(n.driverID), "offer_id", string(o.ID))
	n.notify(ResolutionRejected, o)
	return nil
}

// handleExpiry is the timer's expiry signal. Equivalent to a reject
// attributed to timeout. A signal arriving after the offer was resolved by
// accept/reject, or for a previous offer, is stale and discarded.
func (n *Negotiator) handleExpiry(offerID types.ID) {
	n.mu.Lock()
	if n.pending == nil || n.pending.ID != offerID {
		n.mu.Unlock()
		return
	}
	o := *n.pending
	n.pending, n.timer = nil, nil
	n.mu.Unlock()

	observability.OffersExpired.Inc()
	n.log.Info("offer expired", "driver_id", string(n.driverID), "offer_id", string(o.ID))
	n.notify(ResolutionExpired, o)
}

// Pending returns a copy of the pending offer and the countdown progress.
func (n *Negotiator) Pending() (Offer, int, int, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.pending == nil {
		return Offer{}, 0, 0, false
	}
	return *n.pending, n.timer.Remaining(), n.timer.Total(), true
}

func (n *Negotiator) notify(res Resolution, o Offer) {
	if n.resolver != nil {
		n.resolver.OfferResolved(n.driverID, res, o)
	}
}

func orderFromOffer(driverID types.ID, o Offer) delivery.Order {
	now := time.Now()
	dt := o.DeliveryType
	if dt == "" {
		dt = delivery.TypeStandard
	}
	return delivery.Order{
		ID:              o.ID,
		Reference:       newReference(),
		DriverID:        driverID,
		ClientName:      o.ClientName,
		PickupAddress:   o.PickupAddress,
		DeliveryAddress: o.DropoffAddress,
		Pickup:          o.Pickup,
		Dropoff:         o.Dropoff,
		DeliveryType:    dt,
		Price:           o.Price,
		DistanceKm:      o.DistanceKm,
		Status:          delivery.StatusAccepted,
		Notes:           o.Notes,
		PackageDesc:     o.PackageType,
		CreatedAt:       now,
		AcceptedAt:      &now,
	}
}

func newReference() string {
	var b [4]byte
	_, _ = rand.Read(b[:])
	return "CMD-" + hex.EncodeToString(b[:])
}
