package repositories

import (
	"context"
	"errors"
	"time"

	"shopbridge/internal/domain/branding"
	"shopbridge/internal/domain/cart"
	"shopbridge/internal/domain/tenant"
)

// ErrNotFound is returned by lookups when no row matches. Callers must
// distinguish it from genuine store failures: absence is a valid state,
// a failing store is not.
var ErrNotFound = errors.New("not found")

// CredentialRepository defines the contract for access credential storage
type CredentialRepository interface {
	Upsert(ctx context.Context, cred *tenant.Credential) error
	FindByShopDomain(ctx context.Context, shopDomain string) (*tenant.Credential, error)
	DeleteByShopDomain(ctx context.Context, shopDomain string) error
}

// BrandingRepository defines the contract for branding config storage
type BrandingRepository interface {
	Upsert(ctx context.Context, cfg *branding.Config) error
	DeleteByShopDomain(ctx context.Context, shopDomain string) error
}

// CartRepository defines the contract for abandoned-cart event storage
type CartRepository interface {
	Save(ctx context.Context, c *cart.AbandonedCart) error
	DeleteByCustomer(ctx context.Context, shopDomain, customerEmail string) error
	DeleteByShopDomain(ctx context.Context, shopDomain string) error
}

// AuditRepository records compliance notifications for audit
type AuditRepository interface {
	RecordDataRequest(ctx context.Context, shopDomain, customerEmail string, payload []byte) error
}

// StateRepository holds short-lived authorization nonces. Consume must be
// atomic delete-if-present so a stolen state value can never be replayed,
// even by two callbacks racing each other.
type StateRepository interface {
	Put(ctx context.Context, shopDomain, nonce string, ttl time.Duration) error
	Consume(ctx context.Context, shopDomain, nonce string) error
}
