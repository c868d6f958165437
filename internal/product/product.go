package product

import (
	"time"

	categoryDatamodel "github.com/Abdulrahman-Alsuhaymi/Stocker/internal/core/datamodel/category"
	productDatamodel "github.com/Abdulrahman-Alsuhaymi/Stocker/internal/core/datamodel/product"
	"github.com/shopspring/decimal"
)

const (
	DefaultMinStockLevel    = 10
	DefaultImage            = "products/default.jpg"
	DefaultExpiryWindowDays = 30
	PageSize                = 6
	LatestCount             = 3
	DateLayout              = "2006-01-02"
)

type SupplierRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Product struct {
	ID            int64
	Name          string
	Description   string
	SKU           string
	CategoryID    *int64
	CategoryName  string
	Suppliers     []SupplierRef
	CostPrice     decimal.Decimal
	SellingPrice  decimal.Decimal
	CurrentStock  int
	MinStockLevel int
	Image         string
	IsPerishable  bool
	ExpiryDate    *time.Time
	CreatedByID   *int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func NewProduct(name, sku string, createdBy int64) *Product {
	now := time.Now()
	return &Product{
		Name:          name,
		SKU:           sku,
		MinStockLevel: DefaultMinStockLevel,
		Image:         DefaultImage,
		CreatedByID:   &createdBy,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// IsLowStock is true at or below the minimum level.
func (p *Product) IsLowStock() bool {
	return p.CurrentStock <= p.MinStockLevel
}

// IsExpiringSoon compares calendar dates only. Non-perishable products never expire.
func (p *Product) IsExpiringSoon(today time.Time, days int) bool {
	if !p.IsPerishable || p.ExpiryDate == nil {
		return false
	}
	return !dateOf(*p.ExpiryDate).After(dateOf(today).AddDate(0, 0, days))
}

// DaysUntilExpiry is negative once the expiry date has passed.
func (p *Product) DaysUntilExpiry(today time.Time) int {
	if p.ExpiryDate == nil {
		return 0
	}
	return int(dateOf(*p.ExpiryDate).Sub(dateOf(today)).Hours() / 24)
}

// ExpiryString renders the expiry date as YYYY-MM-DD, or "" when unset.
func (p *Product) ExpiryString() string {
	if p.ExpiryDate == nil {
		return ""
	}
	return p.ExpiryDate.Format(DateLayout)
}

// Apply copies a validated request onto the product. A nil min stock level keeps the current value.
func (p *Product) Apply(req ProductRequest, expiry *time.Time) {
	p.Name = req.Name
	p.Description = req.Description
	p.SKU = req.SKU
	p.CategoryID = req.CategoryID
	p.CostPrice = *req.CostPrice
	p.SellingPrice = *req.SellingPrice
	p.CurrentStock = *req.CurrentStock
	if req.MinStockLevel != nil {
		p.MinStockLevel = *req.MinStockLevel
	}
	p.IsPerishable = req.IsPerishable
	p.ExpiryDate = expiry
	p.Suppliers = nil
	for _, id := range req.SupplierIDs {
		p.Suppliers = append(p.Suppliers, SupplierRef{ID: id})
	}
	p.UpdatedAt = time.Now()
}

func (p *Product) SupplierIDs() []int64 {
	ids := make([]int64, 0, len(p.Suppliers))
	for _, s := range p.Suppliers {
		ids = append(ids, s.ID)
	}
	return ids
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate reads YYYY-MM-DD. An empty string yields nil.
func ParseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (p *Product) ToResponse(today time.Time, windowDays int) ProductResponse {
	resp := ProductResponse{
		ID:             p.ID,
		Name:           p.Name,
		Description:    p.Description,
		SKU:            p.SKU,
		CategoryID:     p.CategoryID,
		Category:       p.CategoryName,
		Suppliers:      p.Suppliers,
		CostPrice:      p.CostPrice.StringFixed(2),
		SellingPrice:   p.SellingPrice.StringFixed(2),
		CurrentStock:   p.CurrentStock,
		MinStockLevel:  p.MinStockLevel,
		Image:          p.Image,
		IsPerishable:   p.IsPerishable,
		IsLowStock:     p.IsLowStock(),
		IsExpiringSoon: p.IsExpiringSoon(today, windowDays),
		CreatedAt:      p.CreatedAt,
	}
	if resp.Suppliers == nil {
		resp.Suppliers = []SupplierRef{}
	}
	if p.ExpiryDate != nil {
		date := p.ExpiryString()
		days := p.DaysUntilExpiry(today)
		resp.ExpiryDate = &date
		resp.DaysUntilExpiry = &days
	}
	return resp
}

func ToDataModel(p *Product) *productDatamodel.Product {
	return &productDatamodel.Product{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		SKU:           p.SKU,
		CategoryID:    p.CategoryID,
		CostPrice:     p.CostPrice,
		SellingPrice:  p.SellingPrice,
		CurrentStock:  p.CurrentStock,
		MinStockLevel: p.MinStockLevel,
		Image:         p.Image,
		IsPerishable:  p.IsPerishable,
		ExpiryDate:    p.ExpiryDate,
		CreatedByID:   p.CreatedByID,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// FromDataModel expects Category and Suppliers to be preloaded when they are needed.
func FromDataModel(p *productDatamodel.Product) *Product {
	out := &Product{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		SKU:           p.SKU,
		CategoryID:    p.CategoryID,
		CategoryName:  categoryName(p.Category),
		CostPrice:     p.CostPrice,
		SellingPrice:  p.SellingPrice,
		CurrentStock:  p.CurrentStock,
		MinStockLevel: p.MinStockLevel,
		Image:         p.Image,
		IsPerishable:  p.IsPerishable,
		ExpiryDate:    p.ExpiryDate,
		CreatedByID:   p.CreatedByID,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
	for _, s := range p.Suppliers {
		out.Suppliers = append(out.Suppliers, SupplierRef{ID: s.ID, Name: s.Name})
	}
	return out
}

func categoryName(c *categoryDatamodel.Category) string {
	if c == nil {
		return ""
	}
	return c.Name
}
