// README: Presence handlers for the online/offline toggle and position reports.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"courier/internal/http/middleware"
	"courier/internal/modules/presence"
	"courier/internal/session"
	"courier/internal/types"
)

type PresenceHandler struct {
	sessions *session.Manager
	svc      *presence.Service
}

func NewPresenceHandler(sessions *session.Manager, svc *presence.Service) *PresenceHandler {
	return &PresenceHandler{sessions: sessions, svc: svc}
}

// Online flips the caller available. The device may attach its geolocation
// fix; when absent (or when acquisition failed client-side) the service falls
// back to the fixed default coordinate.
func (h *PresenceHandler) Online(c *gin.Context) {
	var loc presence.Locator
	var req positionRequest
	if err := c.ShouldBindJSON(&req); err == nil && (req.Lat != 0 || req.Lng != 0) {
		loc = presence.PointLocator{Pos: types.Point{Lat: req.Lat, Lng: req.Lng}}
	}
	s := h.sessions.GetOrCreate(types.ID(middleware.CallerUID(c)))
	if err := h.svc.GoOnline(c.Request.Context(), s.Presence, loc); err != nil {
		writeDomainError(c, err)
		return
	}
	pos, _ := s.Presence.Position()
	writeJSON(c, http.StatusOK, gin.H{
		"status":   s.Presence.Status(),
		"position": pos,
	})
}

func (h *PresenceHandler) Offline(c *gin.Context) {
	s := h.sessions.GetOrCreate(types.ID(middleware.CallerUID(c)))
	if err := h.svc.GoOffline(c.Request.Context(), s.Presence, s.Tracker.HasActive()); err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"status": s.Presence.Status()})
}

func (h *PresenceHandler) Status(c *gin.Context) {
	s := h.sessions.GetOrCreate(types.ID(middleware.CallerUID(c)))
	pos, hasFix := s.Presence.Position()
	resp := gin.H{"status": s.Presence.Status()}
	if hasFix {
		resp["position"] = pos
	}
	writeJSON(c, http.StatusOK, resp)
}

// Suspend takes a driver off the platform. Backoffice-only.
func (h *PresenceHandler) Suspend(c *gin.Context) {
	if middleware.CallerRole(c) != "admin" {
		writeError(c, http.StatusForbidden, "admin role required")
		return
	}
	s := h.sessions.GetOrCreate(types.ID(c.Param("id")))
	h.svc.Suspend(c.Request.Context(), s.Presence)
	writeJSON(c, http.StatusOK, gin.H{"status": s.Presence.Status()})
}

// Reinstate lifts a suspension; the driver comes back offline.
func (h *PresenceHandler) Reinstate(c *gin.Context) {
	if middleware.CallerRole(c) != "admin" {
		writeError(c, http.StatusForbidden, "admin role required")
		return
	}
	s := h.sessions.GetOrCreate(types.ID(c.Param("id")))
	h.svc.Reinstate(c.Request.Context(), s.Presence)
	writeJSON(c, http.StatusOK, gin.H{"status": s.Presence.Status()})
}

type positionRequest struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (h *PresenceHandler) ReportPosition(c *gin.Context) {
	var req positionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid position payload")
		return
	}
	s := h.sessions.GetOrCreate(types.ID(middleware.CallerUID(c)))
	if err := h.svc.ReportPosition(c.Request.Context(), s.Presence, types.Point{Lat: req.Lat, Lng: req.Lng}); err != nil {
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	c.Status(http.StatusNoContent)
}
