package supplier

import "time"

type SupplierRequest struct {
	Name       string `json:"name" validate:"required,max=255"`
	Email      string `json:"email" validate:"omitempty,email"`
	Phone      string `json:"phone" validate:"max=20"`
	Website    string `json:"website" validate:"omitempty,url"`
	Country    string `json:"country" validate:"max=100"`
	PostalCode string `json:"postal_code" validate:"max=20"`
	IsActive   *bool  `json:"is_active"`
	Rating     *int   `json:"rating" validate:"omitempty,min=1,max=5"`
	Notes      string `json:"notes"`
}

type SupplierResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Website     string    `json:"website"`
	Country     string    `json:"country"`
	PostalCode  string    `json:"postal_code"`
	Logo        string    `json:"logo"`
	IsActive    bool      `json:"is_active"`
	Rating      int       `json:"rating"`
	RatingLabel string    `json:"rating_label"`
	Notes       string    `json:"notes"`
	CreatedAt   time.Time `json:"created_at"`
}

type SearchResponse struct {
	Query     string             `json:"query"`
	OrderBy   string             `json:"order_by,omitempty"`
	Suppliers []SupplierResponse `json:"suppliers"`
}
