// README: HTTP-level tests for the suspension authority endpoints.
package handlers_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"courier/internal/config"
	"courier/internal/http/handlers"
	httpmiddleware "courier/internal/http/middleware"
	"courier/internal/infra"
	"courier/internal/modules/delivery"
	"courier/internal/modules/presence"
	"courier/internal/session"
)

func buildAdminRouter(verifier infra.TokenVerifier) (*gin.Engine, *session.Manager) {
	gin.SetMode(gin.TestMode)
	sessions := session.NewManager(config.OfferConfig{WindowTicks: 30, TickInterval: time.Hour}, delivery.NewService(nil, nil), nil, nil)
	presenceSvc := presence.NewService(nil, nil, paris, nil)

	r := gin.New()
	r.Use(httpmiddleware.Auth(verifier))
	ph := handlers.NewPresenceHandler(sessions, presenceSvc)
	r.POST("/api/drivers/:id/suspend", ph.Suspend)
	r.POST("/api/drivers/:id/reinstate", ph.Reinstate)
	return r, sessions
}

func TestSuspendRequiresAdminRole(t *testing.T) {
	r, _ := buildAdminRouter(makeVerifier("d1")) // role=driver
	w := doRequest(r, http.MethodPost, "/api/drivers/d1/suspend", nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
}

func TestSuspendAndReinstate(t *testing.T) {
	admin := &stubTokenVerifier{token: &infra.IdentityToken{
		UID:    "ops1",
		Claims: map[string]interface{}{"role": "admin"},
	}}
	r, sessions := buildAdminRouter(admin)

	s := sessions.GetOrCreate("d1")
	if err := s.Presence.SetOnline(paris); err != nil {
		t.Fatalf("set online: %v", err)
	}

	w := doRequest(r, http.MethodPost, "/api/drivers/d1/suspend", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("suspend: expected 200, got %d", w.Code)
	}
	if s.Presence.Status() != presence.StatusSuspended {
		t.Fatalf("status = %s, want suspended", s.Presence.Status())
	}

	w = doRequest(r, http.MethodPost, "/api/drivers/d1/reinstate", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("reinstate: expected 200, got %d", w.Code)
	}
	if s.Presence.Status() != presence.StatusOffline {
		t.Fatalf("status = %s, want offline", s.Presence.Status())
	}
}
