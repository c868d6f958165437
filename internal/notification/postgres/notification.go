package postgres

import (
	"context"
	"time"

	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal/core/database"
	productDatamodel "github.com/Abdulrahman-Alsuhaymi/Stocker/internal/core/datamodel/product"
	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal/notification"
	"gorm.io/gorm"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) notification.RepositoryAPI {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) ManagerEmails(ctx context.Context) ([]string, error) {
	var emails []string
	err := database.GetDB(ctx, r.db).
		Table("profiles").
		Joins("JOIN users ON users.id = profiles.user_id").
		Where("profiles.is_manager = ?", true).
		Where("profiles.notification_email IS NOT NULL AND profiles.notification_email <> ''").
		Order("profiles.user_id ASC").
		Pluck("profiles.notification_email", &emails).Error
	return emails, err
}

func (r *NotificationRepository) LowStock(ctx context.Context) ([]*productDatamodel.Product, error) {
	var products []*productDatamodel.Product
	err := database.GetDB(ctx, r.db).
		Preload("Category").
		Where("current_stock <= min_stock_level").
		Order("current_stock ASC").Order("id ASC").
		Find(&products).Error
	return products, err
}

func (r *NotificationRepository) ExpiringBefore(ctx context.Context, cutoff time.Time) ([]*productDatamodel.Product, error) {
	var products []*productDatamodel.Product
	err := database.GetDB(ctx, r.db).
		Preload("Category").
		Where("is_perishable = ? AND expiry_date IS NOT NULL AND expiry_date <= ?", true, cutoff).
		Order("expiry_date ASC").Order("id ASC").
		Find(&products).Error
	return products, err
}
