// Package catalog defines the marketplace catalog records (products, vendors)
// and the normalization boundary that turns raw store rows into fully
// specified values. All counter fields are defaulted to zero and clamped
// non-negative here, so downstream scoring never deals with missing fields.
package catalog

import (
	"strings"
	"time"
)

// Product is a single marketplace listing with its engagement counters.
type Product struct {
	ID           string    `json:"id"`
	VendorID     string    `json:"vendor_id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Category     string    `json:"category"`
	Bucket       string    `json:"bucket,omitempty"`
	Price        float64   `json:"price"`
	InStock      bool      `json:"in_stock"`
	ViewCount    int       `json:"view_count"`
	OrderCount   int       `json:"order_count"`
	CartCount    int       `json:"cart_count"`
	CompareCount int       `json:"compare_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at,omitempty"`
}

// Vendor is a selling account. TrustScore and ResponseMinutes are computed
// elsewhere; this service only reads them.
type Vendor struct {
	ID              string  `json:"id"`
	DisplayName     string  `json:"display_name"`
	BusinessName    string  `json:"business_name"`
	ActiveNow       bool    `json:"active_now"`
	TrustScore      float64 `json:"trust_score"`
	ResponseMinutes int     `json:"response_minutes"`
}

// NormalizeProduct fills defaults and clamps counters on a raw product row.
// Missing or negative counters become 0 and names are whitespace-trimmed.
// Zero-value timestamps are kept as-is; the scorer treats them as stale.
func NormalizeProduct(p Product) Product {
	p.Name = strings.TrimSpace(p.Name)
	p.Description = strings.TrimSpace(p.Description)
	p.Category = strings.TrimSpace(p.Category)
	p.Bucket = strings.TrimSpace(p.Bucket)
	if p.ViewCount < 0 {
		p.ViewCount = 0
	}
	if p.OrderCount < 0 {
		p.OrderCount = 0
	}
	if p.CartCount < 0 {
		p.CartCount = 0
	}
	if p.CompareCount < 0 {
		p.CompareCount = 0
	}
	if p.Price < 0 {
		p.Price = 0
	}
	return p
}

// NormalizeVendor trims vendor names and clamps the trust score into [0, 100].
func NormalizeVendor(v Vendor) Vendor {
	v.DisplayName = strings.TrimSpace(v.DisplayName)
	v.BusinessName = strings.TrimSpace(v.BusinessName)
	if v.TrustScore < 0 {
		v.TrustScore = 0
	}
	if v.TrustScore > 100 {
		v.TrustScore = 100
	}
	if v.ResponseMinutes < 0 {
		v.ResponseMinutes = 0
	}
	return v
}
