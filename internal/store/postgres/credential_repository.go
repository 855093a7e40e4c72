package postgres

import (
	"context"
	"errors"

	"shopbridge/internal/domain/tenant"
	"shopbridge/internal/store/repositories"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// credentialRepository implements CredentialRepository with pure data access
type credentialRepository struct {
	db *pgxpool.Pool
}

// NewCredentialRepository creates a new credential repository
func NewCredentialRepository(db *pgxpool.Pool) repositories.CredentialRepository {
	return &credentialRepository{db: db}
}

// Upsert writes a credential row keyed by shop domain. A reinstall
// overwrites the previous token; there is never more than one row per shop.
func (r *credentialRepository) Upsert(ctx context.Context, cred *tenant.Credential) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO shop_credentials (shop_domain, access_token, scopes, installed_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (shop_domain)
		DO UPDATE SET access_token = $2, scopes = $3, installed_at = $4`,
		cred.ShopDomain, cred.AccessToken, cred.Scopes, cred.InstalledAt)

	return err
}

// FindByShopDomain looks up a credential by shop domain
func (r *credentialRepository) FindByShopDomain(ctx context.Context, shopDomain string) (*tenant.Credential, error) {
	row := r.db.QueryRow(ctx, `
		SELECT shop_domain, access_token, scopes, installed_at
		FROM shop_credentials
		WHERE shop_domain = $1`, shopDomain)

	var cred tenant.Credential
	err := row.Scan(&cred.ShopDomain, &cred.AccessToken, &cred.Scopes, &cred.InstalledAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repositories.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &cred, nil
}

// DeleteByShopDomain removes the credential row for a shop, if any
func (r *credentialRepository) DeleteByShopDomain(ctx context.Context, shopDomain string) error {
	_, err := r.db.Exec(ctx, `
		DELETE FROM shop_credentials
		WHERE shop_domain = $1`, shopDomain)

	return err
}
