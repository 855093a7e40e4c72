package compliance

import (
	"context"

	"shopbridge/internal/domain/cart"
	"shopbridge/internal/domain/tenant"
	"shopbridge/internal/store/repositories"

	"github.com/rs/zerolog/log"
)

// Service handles mandatory data-subject notifications. Every handler is
// idempotent and best-effort: duplicates are safe, missing rows are fine,
// and store errors are logged but the platform is still acknowledged so it
// does not retry forever.
type Service struct {
	creds    repositories.CredentialRepository
	branding repositories.BrandingRepository
	carts    repositories.CartRepository
	audit    repositories.AuditRepository
}

// NewService creates a new compliance service
func NewService(creds repositories.CredentialRepository, branding repositories.BrandingRepository, carts repositories.CartRepository, audit repositories.AuditRepository) *Service {
	return &Service{creds: creds, branding: branding, carts: carts, audit: audit}
}

// DataRequest records a customer data request for audit. No data is
// deleted.
func (s *Service) DataRequest(ctx context.Context, rawShop, customerEmail string, payload []byte) {
	shop := normalize(rawShop)
	if err := s.audit.RecordDataRequest(ctx, shop, cart.NormalizeEmail(customerEmail), payload); err != nil {
		log.Error().Str("shop", shop).Err(err).Msg("compliance: recording data request failed")
	}
}

// CustomerRedact deletes customer-level rows for one customer of one shop.
func (s *Service) CustomerRedact(ctx context.Context, rawShop, customerEmail string) {
	shop := normalize(rawShop)
	if err := s.carts.DeleteByCustomer(ctx, shop, customerEmail); err != nil {
		log.Error().Str("shop", shop).Err(err).Msg("compliance: customer redact failed")
	}
}

// ShopRedact deletes everything stored for a shop: the credential, the
// branding configuration and any cart records.
func (s *Service) ShopRedact(ctx context.Context, rawShop string) {
	shop := normalize(rawShop)
	if err := s.creds.DeleteByShopDomain(ctx, shop); err != nil {
		log.Error().Str("shop", shop).Err(err).Msg("compliance: credential delete failed")
	}
	if err := s.branding.DeleteByShopDomain(ctx, shop); err != nil {
		log.Error().Str("shop", shop).Err(err).Msg("compliance: branding delete failed")
	}
	if err := s.carts.DeleteByShopDomain(ctx, shop); err != nil {
		log.Error().Str("shop", shop).Err(err).Msg("compliance: cart delete failed")
	}
}

// normalize is forgiving here: redaction notifications must be honored
// even when the shop identifier does not parse cleanly.
func normalize(rawShop string) string {
	if shop, err := tenant.NormalizeShopDomain(rawShop); err == nil {
		return shop
	}
	return rawShop
}
