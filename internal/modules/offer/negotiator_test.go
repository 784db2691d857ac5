// README: Negotiator tests (offer lifecycle + accept/expiry races, run with -race).
package offer

import (
	"sync"
	"testing"
	"time"

	"courier/internal/modules/delivery"
	"courier/internal/modules/presence"
	"courier/internal/types"
)

// recordingResolver captures resolutions for assertions.
type recordingResolver struct {
	mu          sync.Mutex
	resolutions []Resolution
}

func (r *recordingResolver) OfferResolved(_ types.ID, res Resolution, _ Offer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resolutions = append(r.resolutions, res)
}

func (r *recordingResolver) all() []Resolution {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Resolution(nil), r.resolutions...)
}

func testOffer(id types.ID) Offer {
	return Offer{
		ID:             id,
		Price:          types.MoneyFromFloat(12.50, "EUR"),
		PickupAddress:  "12 Rue de Rivoli, Paris",
		DropoffAddress: "8 Avenue Foch, Paris",
		Pickup:         types.Point{Lat: 48.8556, Lng: 2.3622},
		Dropoff:        types.Point{Lat: 48.8712, Lng: 2.2855},
		ClientName:     "Boulangerie Martin",
		PackageType:    "meal",
		DeliveryType:   delivery.TypeExpress,
		DistanceKm:     6.2,
	}
}

// newTestNegotiator builds a negotiator over an online driver. The tick
// interval is an hour so the wall-clock goroutine never interferes; tests
// drive expiry through the timer directly.
func newTestNegotiator(t *testing.T, window int, res Resolver) (*Negotiator, *presence.State, *delivery.Tracker) {
	t.Helper()
	st := presence.NewState("d1")
	if err := st.SetOnline(types.Point{Lat: 48.8566, Lng: 2.3522}); err != nil {
		t.Fatalf("set online: %v", err)
	}
	tracker := delivery.NewTracker()
	return NewNegotiator("d1", st, tracker, window, time.Hour, res, nil), st, tracker
}

func pendingTimer(n *Negotiator) *Timer {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.timer
}

func TestPresentValidation(t *testing.T) {
	n, _, _ := newTestNegotiator(t, 30, nil)
	cases := []struct {
		name   string
		mutate func(*Offer)
	}{
		{"missing id", func(o *Offer) { o.ID = "" }},
		{"negative price", func(o *Offer) { o.Price.Amount = -100 }},
		{"missing pickup address", func(o *Offer) { o.PickupAddress = "" }},
		{"missing dropoff address", func(o *Offer) { o.DropoffAddress = "" }},
	}
	for _, tc := range cases {
		o := testOffer("o1")
		tc.mutate(&o)
		if err := n.Present(o); err != ErrBadOffer {
			t.Errorf("%s: expected ErrBadOffer, got %v", tc.name, err)
		}
	}
}

func TestPresentRequiresAvailableDriver(t *testing.T) {
	st := presence.NewState("d1") // starts offline
	n := NewNegotiator("d1", st, delivery.NewTracker(), 30, time.Hour, nil, nil)

	if err := n.Present(testOffer("o1")); err != ErrDriverUnavailable {
		t.Fatalf("present while offline: expected ErrDriverUnavailable, got %v", err)
	}
	if _, _, _, ok := n.Pending(); ok {
		t.Fatal("refused offer must not become pending")
	}
}

func TestPresentWhilePending(t *testing.T) {
	n, _, _ := newTestNegotiator(t, 30, nil)
	if err := n.Present(testOffer("o1")); err != nil {
		t.Fatalf("present: %v", err)
	}
	if err := n.Present(testOffer("o2")); err != ErrOfferPending {
		t.Fatalf("second present: expected ErrOfferPending, got %v", err)
	}
	o, _, _, ok := n.Pending()
	if !ok || o.ID != "o1" {
		t.Fatalf("pending offer = %q, want o1", o.ID)
	}
}

func TestPresentWhileDelivering(t *testing.T) {
	n, _, tracker := newTestNegotiator(t, 30, nil)
	ord := delivery.Order{ID: "ord1", Status: delivery.StatusAccepted}
	if err := tracker.SetCurrent(&ord); err != nil {
		t.Fatalf("set current: %v", err)
	}
	if err := n.Present(testOffer("o1")); err != ErrDeliveryInProgress {
		t.Fatalf("expected ErrDeliveryInProgress, got %v", err)
	}
}

func TestAcceptFlow(t *testing.T) {
	res := &recordingResolver{}
	n, st, tracker := newTestNegotiator(t, 30, res)

	if err := n.Present(testOffer("o1")); err != nil {
		t.Fatalf("present: %v", err)
	}
	if _, remaining, total, ok := n.Pending(); !ok || remaining != 30 || total != 30 {
		t.Fatalf("pending countdown = %d/%d ok=%v, want 30/30 true", remaining, total, ok)
	}

	ord, err := n.Accept()
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if ord.ID != "o1" || ord.Status != delivery.StatusAccepted {
		t.Fatalf("order = %s/%s, want o1/accepted", ord.ID, ord.Status)
	}
	if ord.AcceptedAt == nil {
		t.Fatal("accepted order must carry an accept timestamp")
	}
	if ord.Reference == "" {
		t.Fatal("accepted order must carry a reference")
	}
	if st.Status() != presence.StatusBusy {
		t.Fatalf("driver status = %s, want busy", st.Status())
	}
	if !tracker.HasActive() {
		t.Fatal("tracker must hold the accepted order")
	}
	if _, _, _, ok := n.Pending(); ok {
		t.Fatal("pending offer must be cleared on accept")
	}
	if got := res.all(); len(got) != 1 || got[0] != ResolutionAccepted {
		t.Fatalf("resolutions = %v, want [accepted]", got)
	}

	if _, err := n.Accept(); err != ErrNoOffer {
		t.Fatalf("second accept: expected ErrNoOffer, got %v", err)
	}
}

func TestRejectKeepsDriverAvailable(t *testing.T) {
	res := &recordingResolver{}
	n, st, tracker := newTestNegotiator(t, 30, res)

	if err := n.Present(testOffer("o1")); err != nil {
		t.Fatalf("present: %v", err)
	}
	if err := n.Reject(); err != nil {
		t.Fatalf("reject: %v", err)
	}
	if st.Status() != presence.StatusAvailable {
		t.Fatalf("driver status = %s, want available", st.Status())
	}
	if tracker.HasActive() {
		t.Fatal("reject must not install an order")
	}
	if got := res.all(); len(got) != 1 || got[0] != ResolutionRejected {
		t.Fatalf("resolutions = %v, want [rejected]", got)
	}

	// A fresh offer is accepted normally after a reject.
	if err := n.Present(testOffer("o2")); err != nil {
		t.Fatalf("present after reject: %v", err)
	}
	if _, err := n.Accept(); err != nil {
		t.Fatalf("accept after reject: %v", err)
	}
}

func TestRejectWithoutOffer(t *testing.T) {
	n, _, _ := newTestNegotiator(t, 30, nil)
	if err := n.Reject(); err != ErrNoOffer {
		t.Fatalf("expected ErrNoOffer, got %v", err)
	}
}

func TestExpiryResolvesLikeTimeoutReject(t *testing.T) {
	res := &recordingResolver{}
	n, st, tracker := newTestNegotiator(t, 3, res)

	if err := n.Present(testOffer("o1")); err != nil {
		t.Fatalf("present: %v", err)
	}
	tm := pendingTimer(n)
	for tm.Tick() {
	}

	if _, _, _, ok := n.Pending(); ok {
		t.Fatal("pending offer must be cleared on expiry")
	}
	if st.Status() != presence.StatusAvailable {
		t.Fatalf("driver status = %s, want available", st.Status())
	}
	if tracker.HasActive() {
		t.Fatal("expiry must not install an order")
	}
	if got := res.all(); len(got) != 1 || got[0] != ResolutionExpired {
		t.Fatalf("resolutions = %v, want [expired]", got)
	}
	if _, err := n.Accept(); err != ErrNoOffer {
		t.Fatalf("accept after expiry: expected ErrNoOffer, got %v", err)
	}
}

func TestStaleExpirySignalDiscarded(t *testing.T) {
	res := &recordingResolver{}
	n, _, tracker := newTestNegotiator(t, 30, res)

	if err := n.Present(testOffer("o1")); err != nil {
		t.Fatalf("present: %v", err)
	}
	if _, err := n.Accept(); err != nil {
		t.Fatalf("accept: %v", err)
	}

	// A fire that slipped past Cancel arrives after resolution.
	n.handleExpiry("o1")

	if !tracker.HasActive() {
		t.Fatal("stale expiry must not clear the accepted order")
	}
	if got := res.all(); len(got) != 1 || got[0] != ResolutionAccepted {
		t.Fatalf("resolutions = %v, want [accepted]", got)
	}
}

func TestStaleExpiryForPreviousOffer(t *testing.T) {
	res := &recordingResolver{}
	n, _, _ := newTestNegotiator(t, 30, res)

	if err := n.Present(testOffer("o1")); err != nil {
		t.Fatalf("present: %v", err)
	}
	if err := n.Reject(); err != nil {
		t.Fatalf("reject: %v", err)
	}
	if err := n.Present(testOffer("o2")); err != nil {
		t.Fatalf("present: %v", err)
	}

	// The first offer's timer fires late; the new offer must survive.
	n.handleExpiry("o1")

	o, _, _, ok := n.Pending()
	if !ok || o.ID != "o2" {
		t.Fatalf("pending = %q ok=%v, want o2 true", o.ID, ok)
	}
	if got := res.all(); len(got) != 1 || got[0] != ResolutionRejected {
		t.Fatalf("resolutions = %v, want [rejected]", got)
	}
}

func TestConcurrentAcceptVsExpiry(t *testing.T) {
	for i := 0; i < 50; i++ {
		res := &recordingResolver{}
		n, st, tracker := newTestNegotiator(t, 1, res)
		if err := n.Present(testOffer("o1")); err != nil {
			t.Fatalf("present: %v", err)
		}
		tm := pendingTimer(n)

		start := make(chan struct{})
		acceptErr := make(chan error, 1)
		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			<-start
			_, err := n.Accept()
			acceptErr <- err
		}()
		go func() {
			defer wg.Done()
			<-start
			tm.Tick()
		}()
		close(start)
		wg.Wait()

		err := <-acceptErr
		got := res.all()
		if len(got) != 1 {
			t.Fatalf("resolutions = %v, want exactly one", got)
		}
		switch got[0] {
		case ResolutionAccepted:
			if err != nil {
				t.Fatalf("accepted resolution but accept error: %v", err)
			}
			if st.Status() != presence.StatusBusy || !tracker.HasActive() {
				t.Fatal("accepted offer must leave driver busy with an active order")
			}
		case ResolutionExpired:
			if err != ErrNoOffer {
				t.Fatalf("expired resolution but accept error: %v", err)
			}
			if st.Status() != presence.StatusAvailable || tracker.HasActive() {
				t.Fatal("expired offer must leave driver available with no order")
			}
		default:
			t.Fatalf("unexpected resolution %s", got[0])
		}
	}
}
