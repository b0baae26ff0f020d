package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/TimothyBayode/lautechmarket-search/pkg/postgres"
)

// Store reads the catalog tables from Postgres. Writes are owned by the
// vendor-facing CRUD surface; this service only reads.
type Store struct {
	client *postgres.Client
}

// NewStore creates a Store backed by the given Postgres client.
func NewStore(client *postgres.Client) *Store {
	return &Store{client: client}
}

// Products returns all listed products, normalized, in primary-key order.
func (s *Store) Products(ctx context.Context) ([]Product, error) {
	const query = `
		SELECT id, vendor_id, name, description, category, COALESCE(bucket, ''),
		       price, in_stock,
		       COALESCE(view_count, 0), COALESCE(order_count, 0),
		       COALESCE(cart_count, 0), COALESCE(compare_count, 0),
		       created_at, updated_at
		FROM products
		ORDER BY id`
	rows, err := s.client.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying products: %w", err)
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		var p Product
		var updatedAt sql.NullTime
		if err := rows.Scan(
			&p.ID, &p.VendorID, &p.Name, &p.Description, &p.Category, &p.Bucket,
			&p.Price, &p.InStock,
			&p.ViewCount, &p.OrderCount, &p.CartCount, &p.CompareCount,
			&p.CreatedAt, &updatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning product row: %w", err)
		}
		if updatedAt.Valid {
			p.UpdatedAt = updatedAt.Time
		}
		products = append(products, NormalizeProduct(p))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating product rows: %w", err)
	}
	return products, nil
}

// Vendors returns all vendor accounts, normalized.
func (s *Store) Vendors(ctx context.Context) ([]Vendor, error) {
	const query = `
		SELECT id, display_name, COALESCE(business_name, ''),
		       COALESCE(active_now, false),
		       COALESCE(trust_score, 0), COALESCE(response_minutes, 0)
		FROM vendors
		ORDER BY id`
	rows, err := s.client.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying vendors: %w", err)
	}
	defer rows.Close()

	var vendors []Vendor
	for rows.Next() {
		var v Vendor
		if err := rows.Scan(
			&v.ID, &v.DisplayName, &v.BusinessName,
			&v.ActiveNow, &v.TrustScore, &v.ResponseMinutes,
		); err != nil {
			return nil, fmt.Errorf("scanning vendor row: %w", err)
		}
		vendors = append(vendors, NormalizeVendor(v))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating vendor rows: %w", err)
	}
	return vendors, nil
}

// Categories returns the curated category labels in display order.
func (s *Store) Categories(ctx context.Context) ([]string, error) {
	const query = `SELECT label FROM categories ORDER BY position, label`
	rows, err := s.client.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying categories: %w", err)
	}
	defer rows.Close()

	var labels []string
	for rows.Next() {
		var label string
		if err := rows.Scan(&label); err != nil {
			return nil, fmt.Errorf("scanning category row: %w", err)
		}
		labels = append(labels, label)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating category rows: %w", err)
	}
	return labels, nil
}
