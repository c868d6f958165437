package supplier

import (
	"time"

	supplierDatamodel "github.com/Abdulrahman-Alsuhaymi/Stocker/internal/core/datamodel/supplier"
)

const (
	DefaultRating = 3
	DefaultLogo   = "suppliers/default.jpg"
	PageSize      = 6
)

var ratingLabels = map[int]string{
	1: "Poor",
	2: "Fair",
	3: "Good",
	4: "Very Good",
	5: "Excellent",
}

// RatingLabel returns "" for values outside 1..5.
func RatingLabel(rating int) string {
	return ratingLabels[rating]
}

type Supplier struct {
	ID          int64
	Name        string
	Email       string
	Phone       string
	Website     string
	Country     string
	PostalCode  string
	Logo        string
	IsActive    bool
	Rating      int
	Notes       string
	CreatedByID *int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func NewSupplier(name string, createdBy int64) *Supplier {
	now := time.Now()
	return &Supplier{
		Name:        name,
		Logo:        DefaultLogo,
		IsActive:    true,
		Rating:      DefaultRating,
		CreatedByID: &createdBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Apply copies request fields onto the supplier. Nil pointers keep the current value.
func (s *Supplier) Apply(req SupplierRequest) {
	s.Name = req.Name
	s.Email = req.Email
	s.Phone = req.Phone
	s.Website = req.Website
	s.Country = req.Country
	s.PostalCode = req.PostalCode
	s.Notes = req.Notes
	if req.IsActive != nil {
		s.IsActive = *req.IsActive
	}
	if req.Rating != nil {
		s.Rating = *req.Rating
	}
	s.UpdatedAt = time.Now()
}

func (s *Supplier) ToResponse() SupplierResponse {
	return SupplierResponse{
		ID:          s.ID,
		Name:        s.Name,
		Email:       s.Email,
		Phone:       s.Phone,
		Website:     s.Website,
		Country:     s.Country,
		PostalCode:  s.PostalCode,
		Logo:        s.Logo,
		IsActive:    s.IsActive,
		Rating:      s.Rating,
		RatingLabel: RatingLabel(s.Rating),
		Notes:       s.Notes,
		CreatedAt:   s.CreatedAt,
	}
}

func ToDataModel(s *Supplier) *supplierDatamodel.Supplier {
	return &supplierDatamodel.Supplier{
		ID:          s.ID,
		Name:        s.Name,
		Email:       s.Email,
		Phone:       s.Phone,
		Website:     s.Website,
		Country:     s.Country,
		PostalCode:  s.PostalCode,
		Logo:        s.Logo,
		IsActive:    s.IsActive,
		Rating:      s.Rating,
		Notes:       s.Notes,
		CreatedByID: s.CreatedByID,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func FromDataModel(s *supplierDatamodel.Supplier) *Supplier {
	return &Supplier{
		ID:          s.ID,
		Name:        s.Name,
		Email:       s.Email,
		Phone:       s.Phone,
		Website:     s.Website,
		Country:     s.Country,
		PostalCode:  s.PostalCode,
		Logo:        s.Logo,
		IsActive:    s.IsActive,
		Rating:      s.Rating,
		Notes:       s.Notes,
		CreatedByID: s.CreatedByID,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}
