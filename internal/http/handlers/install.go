package handlers

import (
	"errors"
	"net/http"

	"shopbridge/internal/platform"
	"shopbridge/internal/services/install"
)

// Install starts the authorization handshake: it issues a state nonce and
// redirects the browser to the platform's authorization page.
func Install(installService *install.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shop := r.URL.Query().Get("tenant")
		if shop == "" {
			http.Error(w, "missing tenant parameter", http.StatusBadRequest)
			return
		}

		authURL, err := installService.BeginInstall(r.Context(), shop)
		if err != nil {
			var ve *install.ValidationError
			if errors.As(err, &ve) {
				http.Error(w, ve.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "installation could not be started", http.StatusInternalServerError)
			return
		}

		http.Redirect(w, r, authURL, http.StatusFound)
	}
}

// Callback handles the platform's redirect back: state validation, token
// exchange, credential persistence, provisioning, then the onboarding
// redirect. Upstream failures surface as an opaque 500; the merchant can
// retry by re-initiating the install.
func Callback(installService *install.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		shop := q.Get("tenant")
		if shop == "" {
			// The platform redirects with its own parameter name.
			shop = q.Get("shop")
		}
		code := q.Get("code")
		state := q.Get("state")

		if shop == "" || code == "" {
			http.Error(w, "missing tenant or code parameter", http.StatusBadRequest)
			return
		}

		redirectURL, err := installService.CompleteInstall(r.Context(), shop, code, state)
		if err != nil {
			var ve *install.ValidationError
			switch {
			case errors.As(err, &ve):
				http.Error(w, ve.Error(), http.StatusBadRequest)
			case errors.Is(err, install.ErrInvalidState):
				http.Error(w, "invalid or expired state", http.StatusBadRequest)
			case errors.Is(err, platform.ErrTokenExchange):
				http.Error(w, "installation failed", http.StatusInternalServerError)
			default:
				http.Error(w, "installation failed, please retry", http.StatusInternalServerError)
			}
			return
		}

		http.Redirect(w, r, redirectURL, http.StatusFound)
	}
}
