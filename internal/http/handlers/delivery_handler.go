// README: Delivery handlers: current order, status advance, history, daily stats.
package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"courier/internal/http/middleware"
	"courier/internal/modules/delivery"
	"courier/internal/session"
	"courier/internal/types"
)

type DeliveryHandler struct {
	sessions *session.Manager
	svc      *delivery.Service
}

func NewDeliveryHandler(sessions *session.Manager, svc *delivery.Service) *DeliveryHandler {
	return &DeliveryHandler{sessions: sessions, svc: svc}
}

func (h *DeliveryHandler) Current(c *gin.Context) {
	s := h.sessions.GetOrCreate(types.ID(middleware.CallerUID(c)))
	ord, ok := s.Tracker.Current()
	if !ok {
		writeJSON(c, http.StatusOK, gin.H{"order": nil})
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"order": orderView(ord)})
}

type advanceRequest struct {
	To            string `json:"to"`
	ProofPhotoURL string `json:"proof_photo_url"`
	SignatureURL  string `json:"signature_url"`
	Reason        string `json:"reason"`
}

// Advance moves the current order forward. Terminal transitions clear the
// tracker and return the driver to available.
func (h *DeliveryHandler) Advance(c *gin.Context) {
	var req advanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid advance payload")
		return
	}
	s := h.sessions.GetOrCreate(types.ID(middleware.CallerUID(c)))

	prev, ok := s.Tracker.Current()
	if !ok {
		writeDomainError(c, delivery.ErrNoCurrentOrder)
		return
	}
	ord, err := s.Tracker.Advance(delivery.AdvanceCommand{
		To:            delivery.Status(req.To),
		ProofPhotoURL: req.ProofPhotoURL,
		SignatureURL:  req.SignatureURL,
		Reason:        req.Reason,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	h.svc.RecordTransition(c.Request.Context(), &ord, prev.Status, prev.StatusVersion, "driver")

	if cleared, ok := s.Tracker.ClearIfTerminal(); ok {
		s.Presence.ClearBusy()
		writeJSON(c, http.StatusOK, gin.H{
			"order":         orderView(cleared),
			"driver_status": s.Presence.Status(),
		})
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"order": orderView(ord)})
}

func (h *DeliveryHandler) History(c *gin.Context) {
	driverID := types.ID(middleware.CallerUID(c))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	orders, err := h.svc.History(c.Request.Context(), driverID, limit)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	views := make([]gin.H, 0, len(orders))
	for _, o := range orders {
		views = append(views, orderView(o))
	}
	writeJSON(c, http.StatusOK, gin.H{"orders": views})
}

func (h *DeliveryHandler) DailyStats(c *gin.Context) {
	driverID := types.ID(middleware.CallerUID(c))
	day := time.Now()
	if v := c.Query("day"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			writeError(c, http.StatusBadRequest, "invalid day, want YYYY-MM-DD")
			return
		}
		day = parsed
	}
	stats, err := h.svc.Daily(c.Request.Context(), driverID, day)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(c, http.StatusOK, gin.H{
		"day":               day.Format("2006-01-02"),
		"completed_orders":  stats.CompletedOrders,
		"total_earnings":    stats.TotalEarnings.Float(),
		"currency":          stats.TotalEarnings.Currency,
		"total_distance_km": stats.TotalDistanceKm,
	})
}

func orderView(o delivery.Order) gin.H {
	v := gin.H{
		"id":               o.ID,
		"reference":        o.Reference,
		"status":           o.Status,
		"pickup_address":   o.PickupAddress,
		"delivery_address": o.DeliveryAddress,
		"delivery_type":    o.DeliveryType,
		"price":            o.Price.Float(),
		"currency":         o.Price.Currency,
		"distance_km":      o.DistanceKm,
		"client_name":      o.ClientName,
		"created_at":       o.CreatedAt,
	}
	if o.Notes != "" {
		v["notes"] = o.Notes
	}
	if o.PackageDesc != "" {
		v["package_description"] = o.PackageDesc
	}
	if o.ProofPhotoURL != "" {
		v["proof_photo_url"] = o.ProofPhotoURL
	}
	if o.SignatureURL != "" {
		v["signature_url"] = o.SignatureURL
	}
	return v
}
