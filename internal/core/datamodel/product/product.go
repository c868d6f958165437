package product

import (
	"time"

	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal/core/datamodel/category"
	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal/core/datamodel/supplier"
	"github.com/shopspring/decimal"
)

type Product struct {
	ID            int64                `gorm:"primaryKey"`
	Name          string               `gorm:"column:name;size:255;not null"`
	Description   string               `gorm:"column:description;type:text"`
	SKU           string               `gorm:"column:sku;uniqueIndex;size:50;not null"`
	CategoryID    *int64               `gorm:"column:category_id;index"`
	Category      *category.Category   `gorm:"foreignKey:CategoryID;constraint:OnDelete:RESTRICT"`
	Suppliers     []*supplier.Supplier `gorm:"many2many:product_suppliers;constraint:OnDelete:CASCADE"`
	CostPrice     decimal.Decimal      `gorm:"column:cost_price;type:decimal(10,2);not null"`
	SellingPrice  decimal.Decimal      `gorm:"column:selling_price;type:decimal(10,2);not null"`
	CurrentStock  int                  `gorm:"column:current_stock;not null"`
	MinStockLevel int                  `gorm:"column:min_stock_level;not null"`
	Image         string               `gorm:"column:image"`
	IsPerishable  bool                 `gorm:"column:is_perishable"`
	ExpiryDate    *time.Time           `gorm:"column:expiry_date;type:date"`
	CreatedByID   *int64               `gorm:"column:created_by_id"`
	CreatedAt     time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
