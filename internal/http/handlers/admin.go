package handlers

import (
	"errors"
	"net/http"

	"shopbridge/internal/config"
	"shopbridge/internal/services/install"
	"shopbridge/internal/store/repositories"
)

// Reprovision re-runs webhook provisioning for an installed shop. This is
// the manual remediation path after a partially failed install.
func Reprovision(installService *install.Service, cfg config.Cfg) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Admin guard
		adminToken := r.Header.Get("X-Admin-Token")
		if cfg.Sec.AdminToken == "" || adminToken != cfg.Sec.AdminToken {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		shop := r.URL.Query().Get("tenant")
		if shop == "" {
			writeError(w, http.StatusBadRequest, "missing tenant parameter")
			return
		}

		res, err := installService.Reprovision(r.Context(), shop)
		if err != nil {
			var ve *install.ValidationError
			switch {
			case errors.As(err, &ve):
				writeError(w, http.StatusBadRequest, ve.Error())
			case errors.Is(err, repositories.ErrNotFound):
				writeError(w, http.StatusNotFound, "tenant is not installed")
			default:
				writeError(w, http.StatusInternalServerError, "provisioning failed")
			}
			return
		}

		writeJSON(w, http.StatusOK, res)
	}
}
