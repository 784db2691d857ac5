// README: Approach-duration estimation via the Google Maps Directions API.
package maps

import (
	"context"
	"fmt"
	"math"
	"time"

	"googlemaps.github.io/maps"

	"courier/internal/types"
)

// RouteService estimates how long a driver needs to reach a pickup point.
type RouteService struct {
	client *maps.Client
}

// NewRouteService creates a RouteService with the given API key.
func NewRouteService(apiKey string) (*RouteService, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &RouteService{client: client}, nil
}

// ApproachEstimate returns the driving duration from the driver's position to
// the pickup. Falls back to a haversine estimate when the API is unavailable
// so the offer card always shows an approach time.
func (s *RouteService) ApproachEstimate(ctx context.Context, from, to types.Point) (time.Duration, error) {
	if s == nil || s.client == nil {
		return FallbackEstimate(from, to), nil
	}
	r := &maps.DirectionsRequest{
		Origin:      fmt.Sprintf("%f,%f", from.Lat, from.Lng),
		Destination: fmt.Sprintf("%f,%f", to.Lat, to.Lng),
		Mode:        maps.TravelModeDriving,
		Language:    "fr",
		Region:      "FR",
	}
	routes, _, err := s.client.Directions(ctx, r)
	if err != nil {
		return FallbackEstimate(from, to), fmt.Errorf("maps api error: %w", err)
	}
	if len(routes) == 0 || len(routes[0].Legs) == 0 {
		return FallbackEstimate(from, to), fmt.Errorf("no route found")
	}
	return routes[0].Legs[0].Duration, nil
}

// defaultCitySpeedMps is the naive fallback speed (~29 km/h urban average).
const defaultCitySpeedMps = 8.0

// FallbackEstimate is the naive distance/speed approach time.
func FallbackEstimate(from, to types.Point) time.Duration {
	seconds := DistanceKm(from, to) * 1000 / defaultCitySpeedMps
	return time.Duration(seconds * float64(time.Second))
}

// DistanceKm is the haversine great-circle distance.
func DistanceKm(a, b types.Point) float64 {
	const R = 6371.0
	lat1 := a.Lat * math.Pi / 180.0
	lat2 := b.Lat * math.Pi / 180.0
	dlat := (b.Lat - a.Lat) * math.Pi / 180.0
	dlng := (b.Lng - a.Lng) * math.Pi / 180.0
	h := math.Sin(dlat/2)*math.Sin(dlat/2) + math.Cos(lat1)*math.Cos(lat2)*math.Sin(dlng/2)*math.Sin(dlng/2)
	return 2 * R * math.Asin(math.Sqrt(h))
}
