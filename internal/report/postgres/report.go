package postgres

import (
	"context"
	"time"

	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal/report"
	"github.com/jmoiron/sqlx"
)

const productColumns = `
SELECT p.id, p.name, p.sku, COALESCE(c.name, '') AS category,
       p.cost_price, p.selling_price, p.current_stock, p.min_stock_level,
       p.is_perishable, p.expiry_date
FROM products p
LEFT JOIN categories c ON c.id = p.category_id`

// ReportRepository runs the aggregate read queries on sqlx. Placeholders are
// written as ? and rebound for the active driver.
type ReportRepository struct {
	db *sqlx.DB
}

func NewReportRepository(db *sqlx.DB) report.RepositoryAPI {
	return &ReportRepository{db: db}
}

func (r *ReportRepository) Counts(ctx context.Context, expiryCutoff time.Time) (report.Counts, error) {
	query := r.db.Rebind(`
SELECT
  (SELECT COUNT(*) FROM products) AS total_products,
  (SELECT COUNT(*) FROM suppliers) AS total_suppliers,
  (SELECT COUNT(*) FROM categories) AS total_categories,
  (SELECT COUNT(*) FROM products WHERE current_stock <= min_stock_level) AS low_stock,
  (SELECT COUNT(*) FROM products
     WHERE is_perishable = ? AND expiry_date IS NOT NULL AND expiry_date <= ?) AS expiring_soon`)

	var counts report.Counts
	err := r.db.GetContext(ctx, &counts, query, true, expiryCutoff)
	return counts, err
}

func (r *ReportRepository) Inventory(ctx context.Context) ([]report.ProductRow, error) {
	rows := []report.ProductRow{}
	err := r.db.SelectContext(ctx, &rows, productColumns+` ORDER BY p.name ASC, p.id ASC`)
	return rows, err
}

func (r *ReportRepository) LowStock(ctx context.Context) ([]report.ProductRow, error) {
	rows := []report.ProductRow{}
	err := r.db.SelectContext(ctx, &rows, productColumns+`
WHERE p.current_stock <= p.min_stock_level
ORDER BY p.current_stock ASC, p.name ASC`)
	return rows, err
}

func (r *ReportRepository) ExpiringBefore(ctx context.Context, cutoff time.Time) ([]report.ProductRow, error) {
	query := r.db.Rebind(productColumns + `
WHERE p.is_perishable = ? AND p.expiry_date IS NOT NULL AND p.expiry_date <= ?
ORDER BY p.expiry_date ASC, p.name ASC`)

	rows := []report.ProductRow{}
	err := r.db.SelectContext(ctx, &rows, query, true, cutoff)
	return rows, err
}

func (r *ReportRepository) Suppliers(ctx context.Context) ([]report.SupplierRow, error) {
	rows := []report.SupplierRow{}
	err := r.db.SelectContext(ctx, &rows, `
SELECT s.id, s.name, COALESCE(s.email, '') AS email, COALESCE(s.phone, '') AS phone,
       COALESCE(s.country, '') AS country, s.rating, s.is_active,
       COUNT(ps.product_id) AS product_count
FROM suppliers s
LEFT JOIN product_suppliers ps ON ps.supplier_id = s.id
GROUP BY s.id, s.name, s.email, s.phone, s.country, s.rating, s.is_active
ORDER BY s.name ASC, s.id ASC`)
	return rows, err
}
