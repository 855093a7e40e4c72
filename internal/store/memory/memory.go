// Package memory holds in-memory repository implementations. They back
// unit tests and local development without Postgres or Redis.
package memory

import (
	"context"
	"sync"
	"time"

	"shopbridge/internal/domain/branding"
	"shopbridge/internal/domain/cart"
	"shopbridge/internal/domain/tenant"
	"shopbridge/internal/store/repositories"
)

// CredentialRepository is an in-memory CredentialRepository
type CredentialRepository struct {
	mu   sync.Mutex
	rows map[string]tenant.Credential
	Fail error // when set, every call returns this error
}

func NewCredentialRepository() *CredentialRepository {
	return &CredentialRepository{rows: make(map[string]tenant.Credential)}
}

func (r *CredentialRepository) Upsert(ctx context.Context, cred *tenant.Credential) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Fail != nil {
		return r.Fail
	}
	r.rows[cred.ShopDomain] = *cred
	return nil
}

func (r *CredentialRepository) FindByShopDomain(ctx context.Context, shopDomain string) (*tenant.Credential, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Fail != nil {
		return nil, r.Fail
	}
	cred, ok := r.rows[shopDomain]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &cred, nil
}

func (r *CredentialRepository) DeleteByShopDomain(ctx context.Context, shopDomain string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Fail != nil {
		return r.Fail
	}
	delete(r.rows, shopDomain)
	return nil
}

// Len reports the number of stored credential rows
func (r *CredentialRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}

// BrandingRepository is an in-memory BrandingRepository
type BrandingRepository struct {
	mu   sync.Mutex
	rows map[string]branding.Config
}

func NewBrandingRepository() *BrandingRepository {
	return &BrandingRepository{rows: make(map[string]branding.Config)}
}

func (r *BrandingRepository) Upsert(ctx context.Context, cfg *branding.Config) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[cfg.ShopDomain] = *cfg
	return nil
}

func (r *BrandingRepository) DeleteByShopDomain(ctx context.Context, shopDomain string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rows, shopDomain)
	return nil
}

// Get returns the stored config for a shop, if any
func (r *BrandingRepository) Get(shopDomain string) (branding.Config, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cfg, ok := r.rows[shopDomain]
	return cfg, ok
}

// CartRepository is an in-memory CartRepository
type CartRepository struct {
	mu   sync.Mutex
	rows []cart.AbandonedCart
}

func NewCartRepository() *CartRepository {
	return &CartRepository{}
}

func (r *CartRepository) Save(ctx context.Context, c *cart.AbandonedCart) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c.ID = int64(len(r.rows) + 1)
	r.rows = append(r.rows, *c)
	return nil
}

func (r *CartRepository) DeleteByCustomer(ctx context.Context, shopDomain, customerEmail string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	email := cart.NormalizeEmail(customerEmail)
	kept := r.rows[:0]
	for _, c := range r.rows {
		if c.ShopDomain != shopDomain || c.CustomerEmail != email {
			kept = append(kept, c)
		}
	}
	r.rows = kept
	return nil
}

func (r *CartRepository) DeleteByShopDomain(ctx context.Context, shopDomain string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.rows[:0]
	for _, c := range r.rows {
		if c.ShopDomain != shopDomain {
			kept = append(kept, c)
		}
	}
	r.rows = kept
	return nil
}

// All returns a copy of the stored cart rows
func (r *CartRepository) All() []cart.AbandonedCart {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]cart.AbandonedCart, len(r.rows))
	copy(out, r.rows)
	return out
}

// AuditRepository is an in-memory AuditRepository
type AuditRepository struct {
	mu       sync.Mutex
	Requests []string // "shop|email" per recorded request
}

func NewAuditRepository() *AuditRepository {
	return &AuditRepository{}
}

func (r *AuditRepository) RecordDataRequest(ctx context.Context, shopDomain, customerEmail string, payload []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Requests = append(r.Requests, shopDomain+"|"+customerEmail)
	return nil
}

// StateRepository is an in-memory StateRepository with atomic consume
type StateRepository struct {
	mu    sync.Mutex
	rows  map[string]time.Time // key → expiry
	clock func() time.Time
}

func NewStateRepository() *StateRepository {
	return &StateRepository{rows: make(map[string]time.Time), clock: time.Now}
}

// SetClock overrides the time source (for expiry tests)
func (r *StateRepository) SetClock(fn func() time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clock = fn
}

func stateKey(shopDomain, nonce string) string {
	return shopDomain + ":" + nonce
}

func (r *StateRepository) Put(ctx context.Context, shopDomain, nonce string, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[stateKey(shopDomain, nonce)] = r.clock().Add(ttl)
	return nil
}

func (r *StateRepository) Consume(ctx context.Context, shopDomain, nonce string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := stateKey(shopDomain, nonce)
	exp, ok := r.rows[key]
	if !ok {
		return repositories.ErrNotFound
	}
	delete(r.rows, key)
	if r.clock().After(exp) {
		return repositories.ErrNotFound
	}
	return nil
}

// Len reports the number of live state entries
func (r *StateRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}
