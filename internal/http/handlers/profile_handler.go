// README: Profile handlers for driver record, documents, and vehicles.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"courier/internal/http/middleware"
	"courier/internal/modules/profile"
	"courier/internal/types"
)

type ProfileHandler struct {
	svc *profile.Service
}

func NewProfileHandler(svc *profile.Service) *ProfileHandler {
	return &ProfileHandler{svc: svc}
}

func (h *ProfileHandler) Get(c *gin.Context) {
	d, err := h.svc.Get(c.Request.Context(), types.ID(middleware.CallerUID(c)))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, driverView(d))
}

type updateProfileRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	AvatarURL string `json:"avatar_url"`
	PushToken string `json:"push_token"`
}

func (h *ProfileHandler) Update(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid profile payload")
		return
	}
	d, err := h.svc.Update(c.Request.Context(), types.ID(middleware.CallerUID(c)), profile.UpdateCommand{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		AvatarURL: req.AvatarURL,
		PushToken: req.PushToken,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, driverView(d))
}

func (h *ProfileHandler) Documents(c *gin.Context) {
	docs, err := h.svc.Documents(c.Request.Context(), types.ID(middleware.CallerUID(c)))
	if err != nil {
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"documents": docs})
}

type submitDocumentRequest struct {
	Type       string `json:"type"`
	FileURL    string `json:"file_url"`
	ExpiryDate string `json:"expiry_date"`
}

func (h *ProfileHandler) SubmitDocument(c *gin.Context) {
	var req submitDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid document payload")
		return
	}
	var expiry *time.Time
	if req.ExpiryDate != "" {
		parsed, err := time.Parse("2006-01-02", req.ExpiryDate)
		if err != nil {
			writeError(c, http.StatusBadRequest, "invalid expiry_date, want YYYY-MM-DD")
			return
		}
		expiry = &parsed
	}
	doc, err := h.svc.SubmitDocument(c.Request.Context(),
		types.ID(middleware.CallerUID(c)), profile.DocumentType(req.Type), req.FileURL, expiry)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, doc)
}

func (h *ProfileHandler) Vehicles(c *gin.Context) {
	vehicles, err := h.svc.Vehicles(c.Request.Context(), types.ID(middleware.CallerUID(c)))
	if err != nil {
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"vehicles": vehicles})
}

type addVehicleRequest struct {
	Brand       string `json:"brand"`
	Model       string `json:"model"`
	PlateNumber string `json:"plate_number"`
	Type        string `json:"type"`
	Color       string `json:"color"`
}

func (h *ProfileHandler) AddVehicle(c *gin.Context) {
	var req addVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid vehicle payload")
		return
	}
	v, err := h.svc.AddVehicle(c.Request.Context(),
		types.ID(middleware.CallerUID(c)), profile.VehicleCommand{
			Brand:       req.Brand,
			Model:       req.Model,
			PlateNumber: req.PlateNumber,
			Type:        profile.VehicleType(req.Type),
			Color:       req.Color,
		})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, v)
}

func (h *ProfileHandler) SetPrimaryVehicle(c *gin.Context) {
	vehicleID := c.Param("id")
	if vehicleID == "" {
		writeError(c, http.StatusBadRequest, "missing vehicle id")
		return
	}
	err := h.svc.SetPrimary(c.Request.Context(),
		types.ID(middleware.CallerUID(c)), types.ID(vehicleID))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func driverView(d *profile.Driver) gin.H {
	return gin.H{
		"id":            d.ID,
		"first_name":    d.FirstName,
		"last_name":     d.LastName,
		"email":         d.Email,
		"phone":         d.Phone,
		"vehicle_type":  d.VehicleType,
		"vehicle_plate": d.VehiclePlate,
		"avatar_url":    d.AvatarURL,
	}
}
