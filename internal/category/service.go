package category

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal"
	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal/core/common/validation"
	categoryDatamodel "github.com/Abdulrahman-Alsuhaymi/Stocker/internal/core/datamodel/category"
	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal/core/user"
)

type RepositoryAPI interface {
	GetAll(ctx context.Context) ([]*categoryDatamodel.Category, error)
	GetByID(ctx context.Context, id int64) (*categoryDatamodel.Category, error)
	GetByName(ctx context.Context, name string) (*categoryDatamodel.Category, error)
	Create(ctx context.Context, category *categoryDatamodel.Category) error
	Update(ctx context.Context, category *categoryDatamodel.Category) error
	Delete(ctx context.Context, id int64) error
	CountProducts(ctx context.Context, id int64) (int64, error)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// List returns every category by name. CanManage mirrors is_staff(actor).
func (s *Service) List(ctx context.Context, actor *user.Actor) (CategoriesResponse, error) {
	dataCategories, err := s.repo.GetAll(ctx)
	if err != nil {
		s.logger.Error("failed to get categories from repository", "error", err)
		return CategoriesResponse{}, internal.NewInternalError("failed to list categories", err)
	}

	responses := make([]CategoryResponse, 0, len(dataCategories))
	for _, dataCategory := range dataCategories {
		responses = append(responses, FromDataModel(dataCategory).ToResponse())
	}

	return CategoriesResponse{
		Categories: responses,
		CanManage:  actor.Staff(),
	}, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Category, error) {
	dataCategory, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, internal.NewInternalError("failed to load category", err)
	}
	if dataCategory == nil {
		return nil, internal.ErrCategoryNotFound
	}
	return FromDataModel(dataCategory), nil
}

// Exists is used by the catalog to validate category references.
func (s *Service) Exists(ctx context.Context, id int64) (bool, error) {
	dataCategory, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	return dataCategory != nil, nil
}

func (s *Service) Create(ctx context.Context, actor *user.Actor, req CategoryRequest) (*Category, error) {
	if err := internal.Authorize(actor, user.ActionAdd, user.ResourceCategory); err != nil {
		return nil, err
	}

	req.Name = strings.TrimSpace(req.Name)
	if appErr := validation.Struct(req); appErr != nil {
		return nil, appErr
	}
	if err := s.ensureUniqueName(ctx, req.Name, 0); err != nil {
		return nil, err
	}

	cat := NewCategory(req.Name)
	data := ToDataModel(cat)
	if err := s.repo.Create(ctx, data); err != nil {
		s.logger.Error("failed to create category", "name", req.Name, "error", err)
		return nil, internal.NewInternalError("failed to create category", err)
	}

	s.logger.Info("category created", "category_id", data.ID, "actor_id", actor.ID)
	return FromDataModel(data), nil
}

func (s *Service) Update(ctx context.Context, actor *user.Actor, id int64, req CategoryRequest) (*Category, error) {
	if err := internal.Authorize(actor, user.ActionChange, user.ResourceCategory); err != nil {
		return nil, err
	}

	req.Name = strings.TrimSpace(req.Name)
	if appErr := validation.Struct(req); appErr != nil {
		return nil, appErr
	}

	cat, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.ensureUniqueName(ctx, req.Name, id); err != nil {
		return nil, err
	}

	cat.Rename(req.Name)
	if err := s.repo.Update(ctx, ToDataModel(cat)); err != nil {
		s.logger.Error("failed to update category", "category_id", id, "error", err)
		return nil, internal.NewInternalError("failed to update category", err)
	}

	s.logger.Info("category updated", "category_id", id, "actor_id", actor.ID)
	return cat, nil
}

// Delete refuses while any product still references the category.
func (s *Service) Delete(ctx context.Context, actor *user.Actor, id int64) error {
	if err := internal.Authorize(actor, user.ActionDelete, user.ResourceCategory); err != nil {
		return err
	}

	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	inUse, err := s.repo.CountProducts(ctx, id)
	if err != nil {
		return internal.NewInternalError("failed to check category usage", err)
	}
	if inUse > 0 {
		s.logger.Warn("category delete blocked", "category_id", id, "products", inUse)
		return internal.ErrCategoryInUse.WithDetails(map[string]int64{"products": inUse})
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, internal.ErrCategoryInUse) {
			s.logger.Warn("category delete blocked by a concurrent product write", "category_id", id)
			return internal.ErrCategoryInUse
		}
		s.logger.Error("failed to delete category", "category_id", id, "error", err)
		return internal.NewInternalError("failed to delete category", err)
	}

	s.logger.Info("category deleted", "category_id", id, "actor_id", actor.ID)
	return nil
}

// GetOrCreate resolves a category by exact name, creating it when missing.
func (s *Service) GetOrCreate(ctx context.Context, name string) (*Category, error) {
	existing, err := s.repo.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return FromDataModel(existing), nil
	}

	data := ToDataModel(NewCategory(name))
	if err := s.repo.Create(ctx, data); err != nil {
		return nil, err
	}
	s.logger.Info("category created on import", "category_id", data.ID, "name", name)
	return FromDataModel(data), nil
}

func (s *Service) ensureUniqueName(ctx context.Context, name string, selfID int64) error {
	existing, err := s.repo.GetByName(ctx, name)
	if err != nil {
		return internal.NewInternalError("failed to check category name", err)
	}
	if existing != nil && existing.ID != selfID {
		return internal.NewDuplicateKey("name", "Category with this name already exists.")
	}
	return nil
}
