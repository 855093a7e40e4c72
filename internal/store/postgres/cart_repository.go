package postgres

import (
	"context"

	"shopbridge/internal/domain/cart"
	"shopbridge/internal/store/repositories"

	"github.com/jackc/pgx/v5/pgxpool"
)

// cartRepository implements CartRepository with pure data access
type cartRepository struct {
	db *pgxpool.Pool
}

// NewCartRepository creates a new abandoned-cart repository
func NewCartRepository(db *pgxpool.Pool) repositories.CartRepository {
	return &cartRepository{db: db}
}

// Save stores one abandoned-cart event. The same cart token may arrive
// more than once as the cart changes; the latest payload wins.
func (r *cartRepository) Save(ctx context.Context, c *cart.AbandonedCart) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO abandoned_carts (shop_domain, customer_email, cart_token, topic, payload, received_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (shop_domain, cart_token)
		DO UPDATE SET customer_email = $2, topic = $4, payload = $5, received_at = $6
		RETURNING id`,
		c.ShopDomain, c.CustomerEmail, c.CartToken, c.Topic, c.Payload, c.ReceivedAt).Scan(&c.ID)

	return err
}

// DeleteByCustomer removes all cart rows for one customer of one shop
func (r *cartRepository) DeleteByCustomer(ctx context.Context, shopDomain, customerEmail string) error {
	_, err := r.db.Exec(ctx, `
		DELETE FROM abandoned_carts
		WHERE shop_domain = $1 AND customer_email = $2`,
		shopDomain, cart.NormalizeEmail(customerEmail))

	return err
}

// DeleteByShopDomain removes all cart rows for a shop
func (r *cartRepository) DeleteByShopDomain(ctx context.Context, shopDomain string) error {
	_, err := r.db.Exec(ctx, `
		DELETE FROM abandoned_carts
		WHERE shop_domain = $1`, shopDomain)

	return err
}
