package contact

import (
	"time"

	contactDatamodel "github.com/Abdulrahman-Alsuhaymi/Stocker/internal/core/datamodel/contact"
)

// Contact is immutable once stored.
type Contact struct {
	ID        int64
	Name      string
	Email     string
	Subject   string
	Message   string
	CreatedAt time.Time
}

func (c *Contact) ToResponse() ContactResponse {
	return ContactResponse{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Subject:   c.Subject,
		Message:   c.Message,
		CreatedAt: c.CreatedAt,
	}
}

func ToDataModel(c *Contact) *contactDatamodel.Contact {
	return &contactDatamodel.Contact{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Subject:   c.Subject,
		Message:   c.Message,
		CreatedAt: c.CreatedAt,
	}
}

func FromDataModel(c *contactDatamodel.Contact) *Contact {
	return &Contact{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Subject:   c.Subject,
		Message:   c.Message,
		CreatedAt: c.CreatedAt,
	}
}
