package product

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductRequest is used for both create and update. Prices accept JSON numbers or strings.
type ProductRequest struct {
	Name          string           `json:"name" validate:"required,max=255"`
	Description   string           `json:"description"`
	SKU           string           `json:"sku" validate:"required,max=50"`
	CategoryID    *int64           `json:"category_id"`
	SupplierIDs   []int64          `json:"supplier_ids"`
	CostPrice     *decimal.Decimal `json:"cost_price"`
	SellingPrice  *decimal.Decimal `json:"selling_price"`
	CurrentStock  *int             `json:"current_stock"`
	MinStockLevel *int             `json:"min_stock_level"`
	IsPerishable  bool             `json:"is_perishable"`
	ExpiryDate    string           `json:"expiry_date"`
}

type ProductResponse struct {
	ID              int64         `json:"id"`
	Name            string        `json:"name"`
	Description     string        `json:"description"`
	SKU             string        `json:"sku"`
	CategoryID      *int64        `json:"category_id"`
	Category        string        `json:"category"`
	Suppliers       []SupplierRef `json:"suppliers"`
	CostPrice       string        `json:"cost_price"`
	SellingPrice    string        `json:"selling_price"`
	CurrentStock    int           `json:"current_stock"`
	MinStockLevel   int           `json:"min_stock_level"`
	Image           string        `json:"image"`
	IsPerishable    bool          `json:"is_perishable"`
	ExpiryDate      *string       `json:"expiry_date"`
	IsLowStock      bool          `json:"is_low_stock"`
	IsExpiringSoon  bool          `json:"is_expiring_soon"`
	DaysUntilExpiry *int          `json:"days_until_expiry,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
}

type SearchResponse struct {
	Query    string            `json:"query"`
	OrderBy  string            `json:"order_by,omitempty"`
	Products []ProductResponse `json:"products"`
}

type DashboardResponse struct {
	Products          []ProductResponse `json:"products"`
	TotalProducts     int               `json:"total_products"`
	LowStockCount     int               `json:"low_stock_count"`
	ExpiringSoonCount int               `json:"expiring_soon_count"`
}

type ImportResult struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}
