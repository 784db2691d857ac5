// README: Dispatch chat handlers.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"courier/internal/http/middleware"
	"courier/internal/modules/chat"
	"courier/internal/types"
)

type ChatHandler struct {
	svc *chat.Service
}

func NewChatHandler(svc *chat.Service) *ChatHandler {
	return &ChatHandler{svc: svc}
}

func (h *ChatHandler) List(c *gin.Context) {
	driverID := types.ID(middleware.CallerUID(c))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	msgs, err := h.svc.Recent(c.Request.Context(), driverID, limit)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"messages": msgs})
}

type sendMessageRequest struct {
	Body string `json:"body"`
}

func (h *ChatHandler) Send(c *gin.Context) {
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid message payload")
		return
	}
	driverID := types.ID(middleware.CallerUID(c))
	m, err := h.svc.Send(c.Request.Context(), driverID, chat.SenderDriver, req.Body)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, m)
}
