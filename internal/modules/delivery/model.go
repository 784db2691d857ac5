// README: Delivery order aggregate and status definitions.
package delivery

import (
	"time"

	"courier/internal/types"
)

type Status string

const (
	StatusNone       Status = "none"
	StatusAccepted   Status = "accepted"
	StatusDispatched Status = "dispatched"
	StatusInProgress Status = "in_progress"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

type DeliveryType string

const (
	TypeStandard     DeliveryType = "standard"
	TypeExpress      DeliveryType = "express"
	TypeFlashExpress DeliveryType = "flash_express"
)

type Order struct {
	ID              types.ID
	Reference       string
	DriverID        types.ID
	ClientName      string
	ClientPhone     string
	PickupAddress   string
	DeliveryAddress string
	Pickup          types.Point
	Dropoff         types.Point
	DeliveryType    DeliveryType
	Price           types.Money
	DistanceKm      float64
	Status          Status
	StatusVersion   int
	Notes           string
	PackageDesc     string
	ProofPhotoURL   string
	SignatureURL    string
	CreatedAt       time.Time
	AcceptedAt      *time.Time
	DispatchedAt    *time.Time
	InProgressAt    *time.Time
	DeliveredAt     *time.Time
	CancelledAt     *time.Time
	CancelReason    string
}

type Event struct {
	ID         int64
	OrderID    types.ID
	FromStatus Status
	ToStatus   Status
	ActorType  string
	ActorID    *types.ID
	CreatedAt  time.Time
}

// AllowedTransitions represents the delivery state flow as code. Transitions
// are forward-only; cancelled is reachable from every non-terminal state.
var AllowedTransitions = map[Status][]Status{
	StatusAccepted:   {StatusDispatched, StatusCancelled},
	StatusDispatched: {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusDelivered, StatusCancelled},
}

func CanTransition(from, to Status) bool {
	next, ok := AllowedTransitions[from]
	if !ok {
		return false
	}
	for _, s := range next {
		if s == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether a status has no outgoing transitions.
func IsTerminal(s Status) bool {
	return s == StatusDelivered || s == StatusCancelled
}
