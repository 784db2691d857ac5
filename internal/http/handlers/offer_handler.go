// README: Offer handlers: current offer view, accept, reject, and ops injection.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"courier/internal/feed"
	"courier/internal/http/middleware"
	"courier/internal/maps"
	"courier/internal/session"
	"courier/internal/types"
)

type OfferHandler struct {
	sessions *session.Manager
	preview  *maps.Preview
}

func NewOfferHandler(sessions *session.Manager, preview *maps.Preview) *OfferHandler {
	return &OfferHandler{sessions: sessions, preview: preview}
}

// Current returns the pending offer with countdown progress for the card UI.
func (h *OfferHandler) Current(c *gin.Context) {
	s := h.sessions.GetOrCreate(types.ID(middleware.CallerUID(c)))
	o, remaining, total, ok := s.Negotiator.Pending()
	if !ok {
		writeJSON(c, http.StatusOK, gin.H{"offer": nil})
		return
	}
	resp := gin.H{
		"offer": gin.H{
			"id":               o.ID,
			"price":            o.Price.Float(),
			"currency":         o.Price.Currency,
			"pickup_address":   o.PickupAddress,
			"dropoff_address":  o.DropoffAddress,
			"pickup":           o.Pickup,
			"dropoff":          o.Dropoff,
			"client_name":      o.ClientName,
			"package_type":     o.PackageType,
			"notes":            o.Notes,
			"approach_minutes": o.ApproachMinutes,
		},
		"remaining": remaining,
		"total":     total,
	}
	if h.preview != nil {
		resp["map_preview_url"] = h.preview.RouteURL(o.Pickup, o.Dropoff)
	}
	writeJSON(c, http.StatusOK, resp)
}

func (h *OfferHandler) Accept(c *gin.Context) {
	driverID := types.ID(middleware.CallerUID(c))
	ord, err := h.sessions.Accept(c.Request.Context(), driverID)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{
		"order_id": ord.ID,
		"status":   ord.Status,
	})
}

func (h *OfferHandler) Reject(c *gin.Context) {
	if err := h.sessions.Reject(types.ID(middleware.CallerUID(c))); err != nil {
		writeDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Present injects an offer directly, bypassing the feed. Used by ops tooling
// and the demo button; production offers arrive through Kafka.
func (h *OfferHandler) Present(c *gin.Context) {
	var p feed.OfferPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		writeError(c, http.StatusBadRequest, "invalid offer payload")
		return
	}
	driverID := types.ID(middleware.CallerUID(c))
	if err := h.sessions.Present(driverID, feed.ToOffer(p)); err != nil {
		writeDomainError(c, err)
		return
	}
	c.Status(http.StatusCreated)
}
