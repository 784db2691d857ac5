// README: Websocket session registry pushing offer events to driver devices.
package push

import (
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"

	"courier/internal/modules/offer"
	"courier/internal/types"
)

// Session wraps one connected driver device. Writes are serialized per
// connection as gorilla/websocket requires.
type Session struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (s *Session) send(v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteJSON(v)
}

// Registry holds the live device connections keyed by driver.
type Registry struct {
	mu       sync.RWMutex
	sessions map[types.ID]*Session
	log      *slog.Logger
}

func NewRegistry(log *slog.Logger) *Registry {
	if log == nil {
		log = slog.Default()
	}
	return &Registry{sessions: make(map[types.ID]*Session), log: log}
}

func (r *Registry) Add(driverID types.ID, conn *websocket.Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if old, ok := r.sessions[driverID]; ok {
		_ = old.conn.Close()
	}
	r.sessions[driverID] = &Session{conn: conn}
}

func (r *Registry) Remove(driverID types.ID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, driverID)
}

type offerEvent struct {
	Type            string      `json:"type"`
	OfferID         string      `json:"offer_id"`
	Resolution      string      `json:"resolution,omitempty"`
	Price           float64     `json:"price,omitempty"`
	PickupAddress   string      `json:"pickup_address,omitempty"`
	DropoffAddress  string      `json:"dropoff_address,omitempty"`
	Pickup          types.Point `json:"pickup,omitempty"`
	Dropoff         types.Point `json:"dropoff,omitempty"`
	ClientName      string      `json:"client_name,omitempty"`
	PackageType     string      `json:"package_type,omitempty"`
	Notes           string      `json:"notes,omitempty"`
	ApproachMinutes int         `json:"approach_minutes,omitempty"`
	WindowTicks     int         `json:"window_ticks,omitempty"`
}

// OfferPresented pushes a freshly presented offer to the driver's device.
func (r *Registry) OfferPresented(driverID types.ID, o offer.Offer, windowTicks int) {
	r.push(driverID, offerEvent{
		Type:            "offer",
		OfferID:         string(o.ID),
		Price:           o.Price.Float(),
		PickupAddress:   o.PickupAddress,
		DropoffAddress:  o.DropoffAddress,
		Pickup:          o.Pickup,
		Dropoff:         o.Dropoff,
		ClientName:      o.ClientName,
		PackageType:     o.PackageType,
		Notes:           o.Notes,
		ApproachMinutes: o.ApproachMinutes,
		WindowTicks:     windowTicks,
	})
}

// OfferResolved implements offer.Resolver; drives the accepted/rejected/
// timed-out messaging on the device.
func (r *Registry) OfferResolved(driverID types.ID, res offer.Resolution, o offer.Offer) {
	r.push(driverID, offerEvent{
		Type:       "offer_resolved",
		OfferID:    string(o.ID),
		Resolution: string(res),
	})
}

func (r *Registry) push(driverID types.ID, ev offerEvent) {
	r.mu.RLock()
	s, ok := r.sessions[driverID]
	r.mu.RUnlock()
	if !ok {
		return
	}
	if err := s.send(ev); err != nil {
		r.log.Warn("ws push failed", "driver_id", string(driverID), "err", err)
		r.Remove(driverID)
	}
}
