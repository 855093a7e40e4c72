package postgres

import (
	"context"

	"shopbridge/internal/domain/branding"
	"shopbridge/internal/store/repositories"

	"github.com/jackc/pgx/v5/pgxpool"
)

// brandingRepository implements BrandingRepository with pure data access
type brandingRepository struct {
	db *pgxpool.Pool
}

// NewBrandingRepository creates a new branding repository
func NewBrandingRepository(db *pgxpool.Pool) repositories.BrandingRepository {
	return &brandingRepository{db: db}
}

// Upsert writes the branding row keyed by shop domain
func (r *brandingRepository) Upsert(ctx context.Context, cfg *branding.Config) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO shop_branding
			(shop_domain, sender_name, sender_email, primary_color, secondary_color, logo_url, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (shop_domain)
		DO UPDATE SET
			sender_name = $2, sender_email = $3, primary_color = $4,
			secondary_color = $5, logo_url = $6, updated_at = $7`,
		cfg.ShopDomain, cfg.SenderName, cfg.SenderEmail,
		cfg.PrimaryColor, cfg.SecondaryColor, cfg.LogoURL, cfg.UpdatedAt)

	return err
}

// DeleteByShopDomain removes the branding row for a shop, if any
func (r *brandingRepository) DeleteByShopDomain(ctx context.Context, shopDomain string) error {
	_, err := r.db.Exec(ctx, `
		DELETE FROM shop_branding
		WHERE shop_domain = $1`, shopDomain)

	return err
}
