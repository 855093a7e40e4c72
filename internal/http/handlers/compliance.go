package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"shopbridge/internal/services/compliance"
)

// complianceBody covers all three notification payloads. The platform's
// own field name (shop_domain) is accepted alongside tenant_id.
type complianceBody struct {
	TenantID      string `json:"tenant_id"`
	ShopDomain    string `json:"shop_domain"`
	CustomerEmail string `json:"customer_email"`
	Customer      struct {
		Email string `json:"email"`
	} `json:"customer"`
}

func (b *complianceBody) shop() string {
	if b.TenantID != "" {
		return b.TenantID
	}
	return b.ShopDomain
}

func (b *complianceBody) email() string {
	if b.CustomerEmail != "" {
		return b.CustomerEmail
	}
	return b.Customer.Email
}

// DataRequest acknowledges a customer data request and records it for
// audit. Always 200: the platform retries anything else.
func DataRequest(complianceService *compliance.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		var body complianceBody
		_ = json.Unmarshal(raw, &body)

		if body.shop() != "" {
			complianceService.DataRequest(r.Context(), body.shop(), body.email(), raw)
		}
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

// CustomerRedact deletes customer-level data for one customer of a shop
func CustomerRedact(complianceService *compliance.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body complianceBody
		_ = json.NewDecoder(r.Body).Decode(&body)

		if body.shop() != "" && body.email() != "" {
			complianceService.CustomerRedact(r.Context(), body.shop(), body.email())
		}
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

// ShopRedact deletes everything stored for a shop
func ShopRedact(complianceService *compliance.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body complianceBody
		_ = json.NewDecoder(r.Body).Decode(&body)

		if body.shop() != "" {
			complianceService.ShopRedact(r.Context(), body.shop())
		}
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}
