// README: Order offer shown to a single driver during the acceptance window.
package offer

import (
	"errors"
	"time"

	"courier/internal/modules/delivery"
	"courier/internal/types"
)

var (
	ErrOfferPending       = errors.New("an offer is already pending")
	ErrNoOffer            = errors.New("no pending offer")
	ErrDriverUnavailable  = errors.New("driver is not available")
	ErrDeliveryInProgress = errors.New("driver has an active delivery")
	ErrBadOffer           = errors.New("bad offer payload")
)

// Offer is a proposed job shown to exactly one driver at a time. It carries
// everything the incoming-order card renders: route, package, client, and
// the net driver earning.
type Offer struct {
	ID              types.ID
	Price           types.Money
	PickupAddress   string
	DropoffAddress  string
	Pickup          types.Point
	Dropoff         types.Point
	ClientName      string
	PackageType     string
	Notes           string
	DeliveryType    delivery.DeliveryType
	DistanceKm      float64
	DurationMinutes int
	ApproachMinutes int
	ReceivedAt      time.Time
}

// Validate checks the required feed fields.
func (o Offer) Validate() error {
	if o.ID == "" {
		return ErrBadOffer
	}
	if o.Price.Amount < 0 {
		return ErrBadOffer
	}
	if o.PickupAddress == "" || o.DropoffAddress == "" {
		return ErrBadOffer
	}
	return nil
}

// Resolution describes how a pending offer was resolved. Expired differs from
// Rejected only in user-facing messaging, not in state effects.
type Resolution string

const (
	ResolutionAccepted Resolution = "accepted"
	ResolutionRejected Resolution = "rejected"
	ResolutionExpired  Resolution = "expired"
)
