package report

import (
	"time"

	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal/product"
	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal/supplier"
	"github.com/shopspring/decimal"
)

// Counts is the headline block of the reports index.
type Counts struct {
	TotalProducts   int64 `db:"total_products" json:"total_products"`
	TotalSuppliers  int64 `db:"total_suppliers" json:"total_suppliers"`
	TotalCategories int64 `db:"total_categories" json:"total_categories"`
	LowStock        int64 `db:"low_stock" json:"low_stock_count"`
	ExpiringSoon    int64 `db:"expiring_soon" json:"expiring_soon_count"`
}

// ProductRow is one product as read by the report queries.
type ProductRow struct {
	ID            int64           `db:"id"`
	Name          string          `db:"name"`
	SKU           string          `db:"sku"`
	Category      string          `db:"category"`
	CostPrice     decimal.Decimal `db:"cost_price"`
	SellingPrice  decimal.Decimal `db:"selling_price"`
	CurrentStock  int             `db:"current_stock"`
	MinStockLevel int             `db:"min_stock_level"`
	IsPerishable  bool            `db:"is_perishable"`
	ExpiryDate    *time.Time      `db:"expiry_date"`
}

type SupplierRow struct {
	ID           int64  `db:"id"`
	Name         string `db:"name"`
	Email        string `db:"email"`
	Phone        string `db:"phone"`
	Country      string `db:"country"`
	Rating       int    `db:"rating"`
	IsActive     bool   `db:"is_active"`
	ProductCount int64  `db:"product_count"`
}

type Overview struct {
	Counts
	StockValue  string    `json:"stock_value"`
	WindowDays  int       `json:"expiry_window_days"`
	GeneratedAt time.Time `json:"generated_at"`
}

type ProductItem struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	SKU             string `json:"sku"`
	Category        string `json:"category"`
	CostPrice       string `json:"cost_price"`
	SellingPrice    string `json:"selling_price"`
	CurrentStock    int    `json:"current_stock"`
	MinStockLevel   int    `json:"min_stock_level"`
	StockValue      string `json:"stock_value"`
	IsLowStock      bool   `json:"is_low_stock"`
	IsPerishable    bool   `json:"is_perishable"`
	ExpiryDate      string `json:"expiry_date,omitempty"`
	DaysUntilExpiry *int   `json:"days_until_expiry,omitempty"`
}

type SupplierItem struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Country      string `json:"country"`
	Rating       int    `json:"rating"`
	RatingLabel  string `json:"rating_label"`
	IsActive     bool   `json:"is_active"`
	ProductCount int64  `json:"product_count"`
}

type ProductReport struct {
	Title       string        `json:"title"`
	Products    []ProductItem `json:"products"`
	TotalValue  string        `json:"total_value"`
	GeneratedAt time.Time     `json:"generated_at"`
}

type SupplierReport struct {
	Title       string         `json:"title"`
	Suppliers   []SupplierItem `json:"suppliers"`
	GeneratedAt time.Time      `json:"generated_at"`
}

func (r ProductRow) stockValue() decimal.Decimal {
	return r.CostPrice.Mul(decimal.NewFromInt(int64(r.CurrentStock)))
}

func (r ProductRow) product() *product.Product {
	return &product.Product{
		ID:            r.ID,
		Name:          r.Name,
		SKU:           r.SKU,
		CurrentStock:  r.CurrentStock,
		MinStockLevel: r.MinStockLevel,
		IsPerishable:  r.IsPerishable,
		ExpiryDate:    r.ExpiryDate,
	}
}

func (r ProductRow) toItem(today time.Time) ProductItem {
	p := r.product()
	item := ProductItem{
		ID:            r.ID,
		Name:          r.Name,
		SKU:           r.SKU,
		Category:      r.Category,
		CostPrice:     r.CostPrice.StringFixed(2),
		SellingPrice:  r.SellingPrice.StringFixed(2),
		CurrentStock:  r.CurrentStock,
		MinStockLevel: r.MinStockLevel,
		StockValue:    r.stockValue().StringFixed(2),
		IsLowStock:    p.IsLowStock(),
		IsPerishable:  r.IsPerishable,
		ExpiryDate:    p.ExpiryString(),
	}
	if r.IsPerishable && r.ExpiryDate != nil {
		days := p.DaysUntilExpiry(today)
		item.DaysUntilExpiry = &days
	}
	return item
}

func (r SupplierRow) toItem() SupplierItem {
	return SupplierItem{
		ID:           r.ID,
		Name:         r.Name,
		Email:        r.Email,
		Phone:        r.Phone,
		Country:      r.Country,
		Rating:       r.Rating,
		RatingLabel:  supplier.RatingLabel(r.Rating),
		IsActive:     r.IsActive,
		ProductCount: r.ProductCount,
	}
}
