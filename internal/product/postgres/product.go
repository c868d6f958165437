package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal/core/database"
	productDatamodel "github.com/Abdulrahman-Alsuhaymi/Stocker/internal/core/datamodel/product"
	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal/product"
	"gorm.io/gorm"
)

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) product.RepositoryAPI {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) withRelations(ctx context.Context) *gorm.DB {
	return database.GetDB(ctx, r.db).Preload("Category").Preload("Suppliers")
}

func (r *ProductRepository) first(q *gorm.DB) (*productDatamodel.Product, error) {
	var p productDatamodel.Product
	if err := q.First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*productDatamodel.Product, error) {
	return r.first(r.withRelations(ctx).Where("id = ?", id))
}

func (r *ProductRepository) GetBySKU(ctx context.Context, sku string) (*productDatamodel.Product, error) {
	return r.first(database.GetDB(ctx, r.db).Where("sku = ?", sku))
}

func (r *ProductRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := database.GetDB(ctx, r.db).Model(&productDatamodel.Product{}).Count(&count).Error
	return count, err
}

func (r *ProductRepository) ListPage(ctx context.Context, offset, limit int) ([]*productDatamodel.Product, error) {
	var products []*productDatamodel.Product
	err := r.withRelations(ctx).
		Order("created_at DESC").Order("id DESC").
		Offset(offset).Limit(limit).
		Find(&products).Error
	return products, err
}

func (r *ProductRepository) Newest(ctx context.Context, limit int) ([]*productDatamodel.Product, error) {
	q := r.withRelations(ctx).Order("created_at DESC").Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var products []*productDatamodel.Product
	err := q.Find(&products).Error
	return products, err
}

func (r *ProductRepository) All(ctx context.Context) ([]*productDatamodel.Product, error) {
	var products []*productDatamodel.Product
	err := database.GetDB(ctx, r.db).Preload("Category").Order("id ASC").Find(&products).Error
	return products, err
}

func (r *ProductRepository) SearchByName(ctx context.Context, pattern, orderBy string) ([]*productDatamodel.Product, error) {
	q := r.withRelations(ctx).Where(`name LIKE ? ESCAPE '\'`, pattern)
	switch orderBy {
	case product.OrderByName:
		q = q.Order("name ASC")
	case product.OrderByCreated:
		q = q.Order("created_at DESC")
	}

	var products []*productDatamodel.Product
	err := q.Find(&products).Error
	return products, err
}

func (r *ProductRepository) Create(ctx context.Context, p *productDatamodel.Product, supplierIDs []int64) error {
	db := database.GetDB(ctx, r.db)
	if err := db.Omit("Category", "Suppliers").Create(p).Error; err != nil {
		return translate(err)
	}
	return r.linkSuppliers(db, p.ID, supplierIDs)
}

// Update writes every column and replaces the supplier links.
func (r *ProductRepository) Update(ctx context.Context, p *productDatamodel.Product, supplierIDs []int64) error {
	db := database.GetDB(ctx, r.db)
	if err := db.Omit("Category", "Suppliers").Save(p).Error; err != nil {
		return translate(err)
	}
	if err := db.Exec("DELETE FROM product_suppliers WHERE product_id = ?", p.ID).Error; err != nil {
		return err
	}
	return r.linkSuppliers(db, p.ID, supplierIDs)
}

func (r *ProductRepository) UpdateImage(ctx context.Context, id int64, image string) error {
	return database.GetDB(ctx, r.db).Model(&productDatamodel.Product{ID: id}).
		Updates(map[string]interface{}{"image": image, "updated_at": time.Now()}).Error
}

func (r *ProductRepository) linkSuppliers(db *gorm.DB, productID int64, supplierIDs []int64) error {
	for _, supplierID := range supplierIDs {
		err := db.Exec("INSERT INTO product_suppliers (product_id, supplier_id) VALUES (?, ?)", productID, supplierID).Error
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	db := database.GetDB(ctx, r.db)
	if err := db.Exec("DELETE FROM product_suppliers WHERE product_id = ?", id).Error; err != nil {
		return err
	}
	return db.Delete(&productDatamodel.Product{}, id).Error
}

// translate maps a unique violation on sku to the domain error. It relies on
// gorm.Config.TranslateError being enabled.
func translate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return product.ErrDuplicateSKU
	}
	return err
}
