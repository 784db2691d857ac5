// README: Websocket upgrade handler for the offer push channel.
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"courier/internal/http/middleware"
	"courier/internal/push"
	"courier/internal/types"
)

type WSHandler struct {
	registry *push.Registry
	upgrader websocket.Upgrader
	log      *slog.Logger
}

func NewWSHandler(registry *push.Registry, log *slog.Logger) *WSHandler {
	if log == nil {
		log = slog.Default()
	}
	return &WSHandler{
		registry: registry,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		log: log,
	}
}

// Connect upgrades the request and registers the device connection. The
// server only pushes; inbound frames are drained and dropped.
func (h *WSHandler) Connect(c *gin.Context) {
	driverID := types.ID(middleware.CallerUID(c))
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		writeError(c, http.StatusBadRequest, "websocket upgrade failed")
		return
	}
	h.registry.Add(driverID, conn)
	h.log.Info("device connected", "driver_id", string(driverID))

	go func() {
		defer func() {
			h.registry.Remove(driverID)
			_ = conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
