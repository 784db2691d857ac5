// README: HTTP router registration.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"courier/internal/http/handlers"
	"courier/internal/http/middleware"
	"courier/internal/infra"
	"courier/internal/maps"
	"courier/internal/modules/chat"
	"courier/internal/modules/delivery"
	"courier/internal/modules/presence"
	"courier/internal/modules/profile"
	"courier/internal/push"
	"courier/internal/session"
)

type RouterDeps struct {
	Sessions   *session.Manager
	Presence   *presence.Service
	Deliveries *delivery.Service
	Chat       *chat.Service
	Profile    *profile.Service
	Preview    *maps.Preview
	Push       *push.Registry
	Verifier   infra.TokenVerifier
	Log        *slog.Logger
}

func NewRouter(deps RouterDeps) http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(middleware.Recovery(deps.Log))
	r.Use(middleware.Logging(deps.Log))

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api", middleware.Auth(deps.Verifier))

	presenceHandler := handlers.NewPresenceHandler(deps.Sessions, deps.Presence)
	api.POST("/drivers/status/online", presenceHandler.Online)
	api.POST("/drivers/status/offline", presenceHandler.Offline)
	api.GET("/drivers/status", presenceHandler.Status)
	api.PUT("/drivers/position", presenceHandler.ReportPosition)
	api.POST("/drivers/:id/suspend", presenceHandler.Suspend)
	api.POST("/drivers/:id/reinstate", presenceHandler.Reinstate)

	offerHandler := handlers.NewOfferHandler(deps.Sessions, deps.Preview)
	api.GET("/offers/current", offerHandler.Current)
	api.POST("/offers/accept", offerHandler.Accept)
	api.POST("/offers/reject", offerHandler.Reject)
	api.POST("/offers", offerHandler.Present)

	deliveryHandler := handlers.NewDeliveryHandler(deps.Sessions, deps.Deliveries)
	api.GET("/deliveries/current", deliveryHandler.Current)
	api.POST("/deliveries/current/advance", deliveryHandler.Advance)
	api.GET("/deliveries", deliveryHandler.History)
	api.GET("/deliveries/stats/daily", deliveryHandler.DailyStats)

	chatHandler := handlers.NewChatHandler(deps.Chat)
	api.GET("/chat/messages", chatHandler.List)
	api.POST("/chat/messages", chatHandler.Send)

	profileHandler := handlers.NewProfileHandler(deps.Profile)
	api.GET("/profile", profileHandler.Get)
	api.PUT("/profile", profileHandler.Update)
	api.GET("/profile/documents", profileHandler.Documents)
	api.POST("/profile/documents", profileHandler.SubmitDocument)
	api.GET("/profile/vehicles", profileHandler.Vehicles)
	api.POST("/profile/vehicles", profileHandler.AddVehicle)
	api.POST("/profile/vehicles/:id/primary", profileHandler.SetPrimaryVehicle)

	wsHandler := handlers.NewWSHandler(deps.Push, deps.Log)
	api.GET("/ws", wsHandler.Connect)

	return r
}
