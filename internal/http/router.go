package httpx

import (
	"encoding/json"
	"net/http"
	"time"

	"shopbridge/internal/config"
	"shopbridge/internal/http/handlers"
	"shopbridge/internal/services/branding"
	"shopbridge/internal/services/compliance"
	"shopbridge/internal/services/install"
	"shopbridge/internal/store/repositories"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// RouterDependencies holds all dependencies for the HTTP router
type RouterDependencies struct {
	Config            config.Cfg
	InstallService    *install.Service
	BrandingService   *branding.Service
	ComplianceService *compliance.Service
	CartRepo          repositories.CartRepository
}

// NewRouter creates the HTTP router
func NewRouter(deps RouterDependencies) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)

	// Health check (public)
	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"env":       deps.Config.App.Env,
		})
	})

	// Install handshake (browser-facing)
	r.Get("/install", handlers.Install(deps.InstallService))
	r.Get("/callback", handlers.Callback(deps.InstallService))

	// Configuration and status (API-facing)
	r.Post("/config", handlers.SaveConfig(deps.BrandingService))
	r.Get("/status", handlers.Status(deps.InstallService))

	// Mandatory compliance notifications
	r.Route("/compliance", func(r chi.Router) {
		r.Post("/data-request", handlers.DataRequest(deps.ComplianceService))
		r.Post("/customer-redact", handlers.CustomerRedact(deps.ComplianceService))
		r.Post("/shop-redact", handlers.ShopRedact(deps.ComplianceService))
	})

	// Provisioned event delivery (topic is the rest of the path,
	// e.g. /webhooks/carts/update)
	r.Post("/webhooks/*", handlers.ReceiveWebhook(deps.CartRepo))

	// Admin routes (protected by admin token)
	r.Post("/admin/provision", handlers.Reprovision(deps.InstallService, deps.Config))

	return r
}
