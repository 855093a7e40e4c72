package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"shopbridge/internal/domain/cart"
	"shopbridge/internal/store/repositories"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// cartPayload pulls the fields we index from a cart/checkout event
type cartPayload struct {
	Token    string `json:"token"`
	Email    string `json:"email"`
	Customer struct {
		Email string `json:"email"`
	} `json:"customer"`
}

// ReceiveWebhook ingests events the platform pushes to the provisioned
// subscription addresses. Cart and checkout events become abandoned-cart
// records; other topics are acknowledged and dropped. The platform
// redelivers on non-2xx, so a store failure returns 500 to get a retry.
func ReceiveWebhook(carts repositories.CartRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		topic := chi.URLParam(r, "*")
		shop := r.Header.Get("X-Shopify-Shop-Domain")
		if shop == "" {
			http.Error(w, "missing shop header", http.StatusBadRequest)
			return
		}

		body, _ := io.ReadAll(r.Body)

		switch topic {
		case "carts/update", "checkouts/create":
			var p cartPayload
			if err := json.Unmarshal(body, &p); err != nil {
				http.Error(w, "bad payload", http.StatusBadRequest)
				return
			}
			email := p.Email
			if email == "" {
				email = p.Customer.Email
			}
			rec := &cart.AbandonedCart{
				ShopDomain:    shop,
				CustomerEmail: cart.NormalizeEmail(email),
				CartToken:     p.Token,
				Topic:         topic,
				Payload:       body,
				ReceivedAt:    time.Now().UTC(),
			}
			if err := carts.Save(r.Context(), rec); err != nil {
				http.Error(w, "save failed", http.StatusInternalServerError)
				return
			}
		default:
			log.Debug().Str("shop", shop).Str("topic", topic).Msg("webhook topic ignored")
		}

		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}
}
