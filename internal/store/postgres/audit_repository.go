package postgres

import (
	"context"

	"shopbridge/internal/store/repositories"

	"github.com/jackc/pgx/v5/pgxpool"
)

// auditRepository implements AuditRepository with pure data access
type auditRepository struct {
	db *pgxpool.Pool
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *pgxpool.Pool) repositories.AuditRepository {
	return &auditRepository{db: db}
}

// RecordDataRequest records a data-request notification for audit.
// Nothing is deleted; the row is the evidence the request was received.
func (r *auditRepository) RecordDataRequest(ctx context.Context, shopDomain, customerEmail string, payload []byte) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO data_requests (shop_domain, customer_email, payload, received_at)
		VALUES ($1, $2, $3, NOW())`,
		shopDomain, customerEmail, payload)

	return err
}
