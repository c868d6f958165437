package postgres

import (
	"context"
	"errors"

	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal"
	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal/category"
	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal/core/database"
	categoryDatamodel "github.com/Abdulrahman-Alsuhaymi/Stocker/internal/core/datamodel/category"
	"gorm.io/gorm"
)

type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) category.RepositoryAPI {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) GetAll(ctx context.Context) ([]*categoryDatamodel.Category, error) {
	var categories []*categoryDatamodel.Category
	err := database.GetDB(ctx, r.db).Order("name ASC").Find(&categories).Error
	return categories, err
}

func (r *CategoryRepository) GetByName(ctx context.Context, name string) (*categoryDatamodel.Category, error) {
	var cat categoryDatamodel.Category
	err := database.GetDB(ctx, r.db).Where("name = ?", name).First(&cat).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cat, nil
}

func (r *CategoryRepository) GetByID(ctx context.Context, id int64) (*categoryDatamodel.Category, error) {
	var cat categoryDatamodel.Category
	err := database.GetDB(ctx, r.db).Where("id = ?", id).First(&cat).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cat, nil
}

func (r *CategoryRepository) Create(ctx context.Context, cat *categoryDatamodel.Category) error {
	return database.GetDB(ctx, r.db).Create(cat).Error
}

func (r *CategoryRepository) Update(ctx context.Context, cat *categoryDatamodel.Category) error {
	return database.GetDB(ctx, r.db).Save(cat).Error
}

// Delete maps the products foreign key (ON DELETE RESTRICT) to ErrCategoryInUse.
// Translation needs gorm.Config.TranslateError.
func (r *CategoryRepository) Delete(ctx context.Context, id int64) error {
	err := database.GetDB(ctx, r.db).Delete(&categoryDatamodel.Category{}, id).Error
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return internal.ErrCategoryInUse
	}
	return err
}

func (r *CategoryRepository) CountProducts(ctx context.Context, id int64) (int64, error) {
	var count int64
	err := database.GetDB(ctx, r.db).Table("products").Where("category_id = ?", id).Count(&count).Error
	return count, err
}
