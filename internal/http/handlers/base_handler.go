// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"courier/internal/modules/chat"
	"courier/internal/modules/delivery"
	"courier/internal/modules/offer"
	"courier/internal/modules/presence"
	"courier/internal/modules/profile"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

// writeDomainError maps module sentinel errors onto HTTP statuses. Everything
// in the core resolves to a safe no-op internally; the status codes here only
// drive user messaging.
func writeDomainError(c *gin.Context, err error) {
	switch err {
	case offer.ErrBadOffer, profile.ErrBadRequest, chat.ErrEmptyMessage:
		writeError(c, http.StatusBadRequest, err.Error())
	case delivery.ErrNotFound, profile.ErrNotFound:
		writeError(c, http.StatusNotFound, err.Error())
	case offer.ErrNoOffer, offer.ErrOfferPending, offer.ErrDriverUnavailable,
		offer.ErrDeliveryInProgress,
		delivery.ErrInvalidState, delivery.ErrNoCurrentOrder, delivery.ErrOrderInProgress,
		presence.ErrSuspended, presence.ErrDriverBusy, presence.ErrActiveDelivery:
		writeError(c, http.StatusConflict, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}
