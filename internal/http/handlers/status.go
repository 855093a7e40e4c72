package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"shopbridge/internal/services/install"
)

// Status reports whether a shop has completed the install handshake
func Status(installService *install.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shop := r.URL.Query().Get("tenant")
		if shop == "" {
			writeError(w, http.StatusBadRequest, "missing tenant parameter")
			return
		}

		resp, err := installService.Status(r.Context(), shop)
		if err != nil {
			var ve *install.ValidationError
			if errors.As(err, &ve) {
				writeError(w, http.StatusBadRequest, ve.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, "status lookup failed")
			return
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

// writeJSON writes a JSON response with the given status
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error body with a stable "error" field
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
