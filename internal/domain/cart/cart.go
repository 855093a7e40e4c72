package cart

import (
	"strings"
	"time"
)

// AbandonedCart is a customer-level event record pushed by the platform.
// It is the data the customer-redact compliance handler erases.
type AbandonedCart struct {
	ID            int64
	ShopDomain    string
	CustomerEmail string
	CartToken     string
	Topic         string
	Payload       []byte
	ReceivedAt    time.Time
}

// NormalizeEmail lowercases and trims an email for matching on redact.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
