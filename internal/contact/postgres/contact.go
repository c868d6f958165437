package postgres

import (
	"context"

	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal/contact"
	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal/core/database"
	contactDatamodel "github.com/Abdulrahman-Alsuhaymi/Stocker/internal/core/datamodel/contact"
	"gorm.io/gorm"
)

type ContactRepository struct {
	db *gorm.DB
}

func NewContactRepository(db *gorm.DB) contact.RepositoryAPI {
	return &ContactRepository{db: db}
}

func (r *ContactRepository) Create(ctx context.Context, c *contactDatamodel.Contact) error {
	return database.GetDB(ctx, r.db).Create(c).Error
}

func (r *ContactRepository) List(ctx context.Context) ([]*contactDatamodel.Contact, error) {
	var out []*contactDatamodel.Contact
	err := database.GetDB(ctx, r.db).
		Order("created_at DESC").Order("id DESC").
		Find(&out).Error
	return out, err
}
