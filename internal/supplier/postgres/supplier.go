package postgres

import (
	"context"
	"errors"

	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal/core/database"
	supplierDatamodel "github.com/Abdulrahman-Alsuhaymi/Stocker/internal/core/datamodel/supplier"
	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal/supplier"
	"gorm.io/gorm"
)

type SupplierRepository struct {
	db *gorm.DB
}

func NewSupplierRepository(db *gorm.DB) supplier.RepositoryAPI {
	return &SupplierRepository{db: db}
}

func (r *SupplierRepository) GetByID(ctx context.Context, id int64) (*supplierDatamodel.Supplier, error) {
	var sup supplierDatamodel.Supplier
	err := database.GetDB(ctx, r.db).Where("id = ?", id).First(&sup).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sup, nil
}

func (r *SupplierRepository) GetByIDs(ctx context.Context, ids []int64) ([]*supplierDatamodel.Supplier, error) {
	var suppliers []*supplierDatamodel.Supplier
	err := database.GetDB(ctx, r.db).Where("id IN ?", ids).Find(&suppliers).Error
	return suppliers, err
}

func (r *SupplierRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := database.GetDB(ctx, r.db).Model(&supplierDatamodel.Supplier{}).Count(&count).Error
	return count, err
}

func (r *SupplierRepository) ListPage(ctx context.Context, offset, limit int) ([]*supplierDatamodel.Supplier, error) {
	var suppliers []*supplierDatamodel.Supplier
	err := database.GetDB(ctx, r.db).
		Order("name ASC").Order("id ASC").
		Offset(offset).Limit(limit).
		Find(&suppliers).Error
	return suppliers, err
}

func (r *SupplierRepository) SearchByName(ctx context.Context, pattern, orderBy string) ([]*supplierDatamodel.Supplier, error) {
	q := database.GetDB(ctx, r.db).Where(`name LIKE ? ESCAPE '\'`, pattern)
	switch orderBy {
	case supplier.OrderByName:
		q = q.Order("name ASC")
	case supplier.OrderByRating:
		q = q.Order("rating DESC")
	}

	var suppliers []*supplierDatamodel.Supplier
	err := q.Find(&suppliers).Error
	return suppliers, err
}

func (r *SupplierRepository) Create(ctx context.Context, sup *supplierDatamodel.Supplier) error {
	return database.GetDB(ctx, r.db).Create(sup).Error
}

// Update writes every column so false and zero values are persisted.
func (r *SupplierRepository) Update(ctx context.Context, sup *supplierDatamodel.Supplier) error {
	return database.GetDB(ctx, r.db).Save(sup).Error
}

func (r *SupplierRepository) Delete(ctx context.Context, id int64) error {
	db := database.GetDB(ctx, r.db)
	if err := db.Exec("DELETE FROM product_suppliers WHERE supplier_id = ?", id).Error; err != nil {
		return err
	}
	return db.Delete(&supplierDatamodel.Supplier{}, id).Error
}
