// README: Tests for static map URLs and the haversine fallback.
package maps

import (
	"context"
	"math"
	"net/url"
	"strings"
	"testing"
	"time"

	"courier/internal/types"
)

var (
	louvre = types.Point{Lat: 48.8606, Lng: 2.3376}
	etoile = types.Point{Lat: 48.8738, Lng: 2.295}
)

func TestRouteURL(t *testing.T) {
	p := NewPreview("test-key")
	raw := p.RouteURL(louvre, etoile)

	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse url: %v", err)
	}
	if u.Host != "maps.locationiq.com" {
		t.Errorf("host = %s, want maps.locationiq.com", u.Host)
	}
	if got := u.Query().Get("key"); got != "test-key" {
		t.Errorf("key = %s, want test-key", got)
	}
	markers := u.Query()["markers"]
	if len(markers) != 2 {
		t.Fatalf("markers = %d, want 2 (pickup + dropoff)", len(markers))
	}
	if !strings.Contains(markers[0], "green") || !strings.Contains(markers[1], "red") {
		t.Errorf("marker order wrong: %v", markers)
	}
	if u.Query().Get("path") == "" {
		t.Error("route preview must include a path")
	}
}

func TestCenterURL(t *testing.T) {
	p := NewPreview("test-key")
	raw := p.CenterURL(louvre, 15)

	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse url: %v", err)
	}
	if got := u.Query().Get("zoom"); got != "15" {
		t.Errorf("zoom = %s, want 15", got)
	}
	if u.Query().Get("center") == "" {
		t.Error("center url must carry the center coordinate")
	}
}

func TestDistanceKm(t *testing.T) {
	// Louvre to Arc de Triomphe is roughly 3.5 km great-circle.
	d := DistanceKm(louvre, etoile)
	if d < 3.0 || d > 4.0 {
		t.Fatalf("distance = %.2f km, expected ~3.5", d)
	}
	if DistanceKm(louvre, louvre) != 0 {
		t.Fatal("distance to self must be zero")
	}
}

func TestFallbackEstimate(t *testing.T) {
	d := FallbackEstimate(louvre, etoile)
	// ~3.5 km at 8 m/s is a bit over 7 minutes.
	if d < 5*time.Minute || d > 10*time.Minute {
		t.Fatalf("fallback estimate = %s, expected 5-10 minutes", d)
	}
}

func TestApproachEstimateNilServiceFallsBack(t *testing.T) {
	var s *RouteService
	d, err := s.ApproachEstimate(context.Background(), louvre, etoile)
	if err != nil {
		t.Fatalf("nil service must fall back without error: %v", err)
	}
	want := FallbackEstimate(louvre, etoile)
	if math.Abs(float64(d-want)) > float64(time.Second) {
		t.Fatalf("estimate = %s, want fallback %s", d, want)
	}
}
