// README: Static map preview URLs for the offer card (LocationIQ).
package maps

import (
	"fmt"

	"courier/internal/types"
)

const staticMapBase = "https://maps.locationiq.com/v3/staticmap"

// Preview builds LocationIQ static-map URLs. The core only supplies
// coordinates; rendering happens entirely on the provider side.
type Preview struct {
	apiKey string
}

func NewPreview(apiKey string) *Preview {
	return &Preview{apiKey: apiKey}
}

// RouteURL renders pickup and dropoff markers joined by a path, matching the
// incoming-offer card.
func (p *Preview) RouteURL(pickup, dropoff types.Point) string {
	return fmt.Sprintf(
		"%s?key=%s&size=600x400"+
			"&markers=icon:large-green-cutout|%f,%f"+
			"&markers=icon:large-red-cutout|%f,%f"+
			"&path=weight:4|color:0x3B82F6|%f,%f|%f,%f",
		staticMapBase, p.apiKey,
		pickup.Lat, pickup.Lng,
		dropoff.Lat, dropoff.Lng,
		pickup.Lat, pickup.Lng,
		dropoff.Lat, dropoff.Lng,
	)
}

// CenterURL renders the dashboard background map around a position.
func (p *Preview) CenterURL(center types.Point, zoom int) string {
	return fmt.Sprintf(
		"%s?key=%s&center=%f,%f&zoom=%d&size=1080x1920&format=png&maptype=streets",
		staticMapBase, p.apiKey, center.Lat, center.Lng, zoom,
	)
}
