// Package recipients resolves audience groups to concrete user IDs. Builders
// name an audience (admins, the vendors of a product); this package owns the
// queries that expand it.
package recipients

import (
	"context"
	"database/sql"

	"storefront-notifications/internal/common/errors"
)

// Resolver expands audience groups into user IDs.
type Resolver interface {
	Admins(ctx context.Context) ([]string, error)
	VendorsForProduct(ctx context.Context, productID string) ([]string, error)
	VendorsForOrder(ctx context.Context, orderID string) ([]string, error)
}

// PostgresResolver resolves audiences against the shared users schema.
type PostgresResolver struct {
	db *sql.DB
}

func NewPostgresResolver(db *sql.DB) *PostgresResolver {
	return &PostgresResolver{db: db}
}

// Admins returns every user with the admin role.
func (r *PostgresResolver) Admins(ctx context.Context) ([]string, error) {
	const query = `SELECT id FROM users WHERE role = 'admin'`
	return r.queryIDs(ctx, "Admins", query)
}

// VendorsForProduct returns the vendor users who own a product.
func (r *PostgresResolver) VendorsForProduct(ctx context.Context, productID string) ([]string, error) {
	const query = `
		SELECT DISTINCT u.id
		FROM users u
		JOIN products p ON p.vendor_id = u.id
		WHERE p.id = $1 AND u.role = 'vendor'`
	return r.queryIDs(ctx, "VendorsForProduct", query, productID)
}

// VendorsForOrder returns the vendor users behind any line item of an order.
func (r *PostgresResolver) VendorsForOrder(ctx context.Context, orderID string) ([]string, error) {
	const query = `
		SELECT DISTINCT u.id
		FROM users u
		JOIN products p ON p.vendor_id = u.id
		JOIN order_items i ON i.product_id = p.id
		WHERE i.order_id = $1 AND u.role = 'vendor'`
	return r.queryIDs(ctx, "VendorsForOrder", query, orderID)
}

func (r *PostgresResolver) queryIDs(ctx context.Context, operation, query string, args ...interface{}) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError(operation, err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, errors.NewQueryExecutionFailedError(operation, err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
