// README: Kafka consumer delivering dispatch offers to driver sessions.
package feed

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"courier/internal/modules/delivery"
	"courier/internal/modules/offer"
	"courier/internal/session"
	"courier/internal/types"
)

// OfferPayload is the wire shape the dispatch backend publishes per offer.
type OfferPayload struct {
	ID              string  `json:"id"`
	DriverID        string  `json:"driver_id"`
	Price           float64 `json:"price"`
	Currency        string  `json:"currency"`
	PickupAddress   string  `json:"pickup_address"`
	DropoffAddress  string  `json:"dropoff_address"`
	Pickup          types.Point `json:"pickup"`
	Dropoff         types.Point `json:"dropoff"`
	ClientName      string  `json:"client_name"`
	PackageType     string  `json:"package_type"`
	Notes           string  `json:"notes"`
	DeliveryType    string  `json:"delivery_type"`
	DistanceKm      float64 `json:"distance_km"`
	DurationMinutes int     `json:"duration_minutes"`
	ApproachMinutes int     `json:"approach_minutes"`
}

// ApproachEstimator estimates the driving time from a driver position to a
// pickup point. Satisfied by maps.RouteService.
type ApproachEstimator interface {
	ApproachEstimate(ctx context.Context, from, to types.Point) (time.Duration, error)
}

// Consumer reads dispatch offers off Kafka and presents them to the matching
// driver session. Refused offers are logged and dropped; a fresh dispatch
// event is required for any retry.
type Consumer struct {
	reader   *kafka.Reader
	sessions *session.Manager
	routes   ApproachEstimator
	log      *slog.Logger
}

func NewConsumer(brokers []string, topic, groupID string, sessions *session.Manager, routes ApproachEstimator, log *slog.Logger) *Consumer {
	if log == nil {
		log = slog.Default()
	}
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MaxWait:  time.Second,
		MinBytes: 1,
		MaxBytes: 1 << 20,
	})
	return &Consumer{reader: reader, sessions: sessions, routes: routes, log: log}
}

// Run consumes until the context is cancelled.
func (c *Consumer) Run(ctx context.Context) {
	defer c.reader.Close()
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			c.log.Error("kafka read", "err", err)
			continue
		}
		c.handle(ctx, msg.Value)
	}
}

func (c *Consumer) handle(ctx context.Context, raw []byte) {
	var p OfferPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		c.log.Warn("malformed offer payload", "err", err)
		return
	}
	if p.DriverID == "" {
		c.log.Warn("offer payload without driver_id", "offer_id", p.ID)
		return
	}
	o := ToOffer(p)
	if o.ApproachMinutes == 0 {
		o.ApproachMinutes = c.approachMinutes(ctx, types.ID(p.DriverID), o.Pickup)
	}
	if err := c.sessions.Present(types.ID(p.DriverID), o); err != nil {
		c.log.Info("offer not presented",
			"driver_id", p.DriverID, "offer_id", p.ID, "reason", err.Error())
	}
}

// approachMinutes fills in the pickup approach time when the dispatcher did
// not provide one. Returns 0 when the driver has no position fix or no
// estimator is configured.
func (c *Consumer) approachMinutes(ctx context.Context, driverID types.ID, pickup types.Point) int {
	if c.routes == nil {
		return 0
	}
	s, ok := c.sessions.Get(driverID)
	if !ok {
		return 0
	}
	from, hasFix := s.Presence.Position()
	if !hasFix {
		return 0
	}
	d, err := c.routes.ApproachEstimate(ctx, from, pickup)
	if err != nil {
		// The estimator degrades to a haversine guess on API failure.
		c.log.Warn("approach estimate degraded", "driver_id", driverID, "err", err)
	}
	return int(d.Round(time.Minute) / time.Minute)
}

func deliveryType(v string) delivery.DeliveryType {
	switch delivery.DeliveryType(v) {
	case delivery.TypeExpress:
		return delivery.TypeExpress
	case delivery.TypeFlashExpress:
		return delivery.TypeFlashExpress
	default:
		return delivery.TypeStandard
	}
}

// ToOffer converts a feed payload into the domain offer.
func ToOffer(p OfferPayload) offer.Offer {
	currency := p.Currency
	if currency == "" {
		currency = "EUR"
	}
	return offer.Offer{
		ID:              types.ID(p.ID),
		Price:           types.MoneyFromFloat(p.Price, currency),
		PickupAddress:   p.PickupAddress,
		DropoffAddress:  p.DropoffAddress,
		Pickup:          p.Pickup,
		Dropoff:         p.Dropoff,
		ClientName:      p.ClientName,
		PackageType:     p.PackageType,
		Notes:           p.Notes,
		DeliveryType:    deliveryType(p.DeliveryType),
		DistanceKm:      p.DistanceKm,
		DurationMinutes: p.DurationMinutes,
		ApproachMinutes: p.ApproachMinutes,
		ReceivedAt:      time.Now(),
	}
}
