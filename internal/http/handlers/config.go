package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	brandingdomain "shopbridge/internal/domain/branding"
	"shopbridge/internal/services/branding"
)

// SaveConfig upserts a shop's branding configuration
func SaveConfig(brandingService *branding.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req branding.SaveRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON")
			return
		}
		if req.ShopDomain == "" {
			writeError(w, http.StatusBadRequest, "tenant_id is required")
			return
		}

		if err := brandingService.Save(r.Context(), req); err != nil {
			var ve *brandingdomain.ValidationError
			if errors.As(err, &ve) {
				writeError(w, http.StatusBadRequest, ve.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, "saving configuration failed")
			return
		}

		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}
