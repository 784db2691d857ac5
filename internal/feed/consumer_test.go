// README: Feed payload mapping and dispatch-to-session routing tests.
package feed

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"courier/internal/config"
	"courier/internal/modules/delivery"
	"courier/internal/session"
	"courier/internal/types"
)

func testPayload(driverID string) OfferPayload {
	return OfferPayload{
		ID:              "o1",
		DriverID:        driverID,
		Price:           15.80,
		PickupAddress:   "12 Rue de Rivoli, Paris",
		DropoffAddress:  "8 Avenue Foch, Paris",
		Pickup:          types.Point{Lat: 48.8556, Lng: 2.3622},
		Dropoff:         types.Point{Lat: 48.8712, Lng: 2.2855},
		ClientName:      "Boulangerie Martin",
		PackageType:     "meal",
		DeliveryType:    "express",
		DistanceKm:      6.2,
		DurationMinutes: 25,
	}
}

func newTestManager() *session.Manager {
	cfg := config.OfferConfig{WindowTicks: 30, TickInterval: time.Hour}
	return session.NewManager(cfg, delivery.NewService(nil, nil), nil, nil)
}

func TestToOffer(t *testing.T) {
	o := ToOffer(testPayload("d1"))
	if o.ID != "o1" {
		t.Errorf("id = %s, want o1", o.ID)
	}
	if o.Price.Amount != 1580 || o.Price.Currency != "EUR" {
		t.Errorf("price = %d %s, want 1580 EUR", o.Price.Amount, o.Price.Currency)
	}
	if o.DeliveryType != delivery.TypeExpress {
		t.Errorf("delivery type = %s, want express", o.DeliveryType)
	}
	if o.ReceivedAt.IsZero() {
		t.Error("received_at must be stamped on conversion")
	}
}

func TestToOfferDeliveryTypeDefaults(t *testing.T) {
	cases := []struct {
		in   string
		want delivery.DeliveryType
	}{
		{"express", delivery.TypeExpress},
		{"flash_express", delivery.TypeFlashExpress},
		{"standard", delivery.TypeStandard},
		{"", delivery.TypeStandard},
		{"unknown", delivery.TypeStandard},
	}
	for _, tc := range cases {
		p := testPayload("d1")
		p.DeliveryType = tc.in
		if got := ToOffer(p).DeliveryType; got != tc.want {
			t.Errorf("deliveryType(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestHandleRoutesOfferToOnlineDriver(t *testing.T) {
	mgr := newTestManager()
	s := mgr.GetOrCreate("d1")
	if err := s.Presence.SetOnline(types.Point{Lat: 48.8566, Lng: 2.3522}); err != nil {
		t.Fatalf("set online: %v", err)
	}

	c := &Consumer{sessions: mgr, log: slog.Default()}
	raw, _ := json.Marshal(testPayload("d1"))
	c.handle(context.Background(), raw)

	o, _, _, ok := s.Negotiator.Pending()
	if !ok || o.ID != "o1" {
		t.Fatalf("pending = %q ok=%v, want o1 true", o.ID, ok)
	}
}

func TestHandleDropsOfferForOfflineDriver(t *testing.T) {
	mgr := newTestManager()
	s := mgr.GetOrCreate("d1") // stays offline

	c := &Consumer{sessions: mgr, log: slog.Default()}
	raw, _ := json.Marshal(testPayload("d1"))
	c.handle(context.Background(), raw)

	if _, _, _, ok := s.Negotiator.Pending(); ok {
		t.Fatal("offline driver must not receive a pending offer")
	}
}

func TestHandleIgnoresMalformedPayload(t *testing.T) {
	c := &Consumer{sessions: newTestManager(), log: slog.Default()}
	c.handle(context.Background(), []byte("{not json"))
	c.handle(context.Background(), []byte(`{"id":"o1"}`)) // no driver_id
}

type fixedEstimator struct {
	d time.Duration
}

func (f fixedEstimator) ApproachEstimate(_ context.Context, _, _ types.Point) (time.Duration, error) {
	return f.d, nil
}

func TestHandleFillsApproachEstimate(t *testing.T) {
	mgr := newTestManager()
	s := mgr.GetOrCreate("d1")
	if err := s.Presence.SetOnline(types.Point{Lat: 48.8566, Lng: 2.3522}); err != nil {
		t.Fatalf("set online: %v", err)
	}

	c := &Consumer{sessions: mgr, routes: fixedEstimator{d: 7 * time.Minute}, log: slog.Default()}
	raw, _ := json.Marshal(testPayload("d1"))
	c.handle(context.Background(), raw)

	o, _, _, ok := s.Negotiator.Pending()
	if !ok {
		t.Fatal("expected pending offer")
	}
	if o.ApproachMinutes != 7 {
		t.Fatalf("approach minutes = %d, want 7", o.ApproachMinutes)
	}
}

func TestHandleKeepsDispatcherApproach(t *testing.T) {
	mgr := newTestManager()
	s := mgr.GetOrCreate("d1")
	if err := s.Presence.SetOnline(types.Point{Lat: 48.8566, Lng: 2.3522}); err != nil {
		t.Fatalf("set online: %v", err)
	}

	c := &Consumer{sessions: mgr, routes: fixedEstimator{d: 7 * time.Minute}, log: slog.Default()}
	p := testPayload("d1")
	p.ApproachMinutes = 12
	raw, _ := json.Marshal(p)
	c.handle(context.Background(), raw)

	o, _, _, ok := s.Negotiator.Pending()
	if !ok {
		t.Fatal("expected pending offer")
	}
	if o.ApproachMinutes != 12 {
		t.Fatalf("approach minutes = %d, want dispatcher's 12", o.ApproachMinutes)
	}
}
