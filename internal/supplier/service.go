package supplier

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal"
	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal/core/common/search"
	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal/core/common/validation"
	supplierDatamodel "github.com/Abdulrahman-Alsuhaymi/Stocker/internal/core/datamodel/supplier"
	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal/core/user"
	"github.com/Abdulrahman-Alsuhaymi/Stocker/pkg/pagination"
	"github.com/Abdulrahman-Alsuhaymi/Stocker/pkg/storage"
)

const (
	OrderByName   = "name"
	OrderByRating = "rating"
)

type RepositoryAPI interface {
	GetByID(ctx context.Context, id int64) (*supplierDatamodel.Supplier, error)
	GetByIDs(ctx context.Context, ids []int64) ([]*supplierDatamodel.Supplier, error)
	Count(ctx context.Context) (int64, error)
	ListPage(ctx context.Context, offset, limit int) ([]*supplierDatamodel.Supplier, error)
	SearchByName(ctx context.Context, pattern, orderBy string) ([]*supplierDatamodel.Supplier, error)
	Create(ctx context.Context, supplier *supplierDatamodel.Supplier) error
	Update(ctx context.Context, supplier *supplierDatamodel.Supplier) error
	Delete(ctx context.Context, id int64) error
}

type Service struct {
	repo   RepositoryAPI
	images storage.ImageStorage
	folder string
	logger *slog.Logger
}

// NewService accepts a nil image storage; logo uploads then fail with STORAGE_UNAVAILABLE.
func NewService(repo RepositoryAPI, images storage.ImageStorage, folder string, logger *slog.Logger) *Service {
	if folder == "" {
		folder = "suppliers"
	}
	return &Service{
		repo:   repo,
		images: images,
		folder: folder,
		logger: logger,
	}
}

func (s *Service) List(ctx context.Context, page int) (pagination.Page[SupplierResponse], error) {
	total, err := s.repo.Count(ctx)
	if err != nil {
		return pagination.Page[SupplierResponse]{}, internal.NewInternalError("failed to count suppliers", err)
	}

	params := pagination.New(page, PageSize).Clamp(total)
	rows, err := s.repo.ListPage(ctx, params.Offset, params.Limit)
	if err != nil {
		return pagination.Page[SupplierResponse]{}, internal.NewInternalError("failed to list suppliers", err)
	}

	items := make([]SupplierResponse, 0, len(rows))
	for _, row := range rows {
		items = append(items, FromDataModel(row).ToResponse())
	}
	return pagination.NewPage(items, params, total), nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Supplier, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, internal.NewInternalError("failed to load supplier", err)
	}
	if row == nil {
		return nil, internal.ErrSupplierNotFound
	}
	return FromDataModel(row), nil
}

// Search returns nothing for queries shorter than three characters.
// orderBy is "name" (ascending) or "rating" (descending); other values add no ordering.
func (s *Service) Search(ctx context.Context, query, orderBy string) (SearchResponse, error) {
	resp := SearchResponse{Query: query, OrderBy: orderBy, Suppliers: []SupplierResponse{}}
	if !search.Accepts(query) {
		return resp, nil
	}

	rows, err := s.repo.SearchByName(ctx, search.LikePattern(query), orderBy)
	if err != nil {
		s.logger.Error("supplier search failed", "query", query, "error", err)
		return resp, internal.NewInternalError("failed to search suppliers", err)
	}

	rows = search.Filter(rows, query, func(r *supplierDatamodel.Supplier) string { return r.Name })
	for _, row := range rows {
		resp.Suppliers = append(resp.Suppliers, FromDataModel(row).ToResponse())
	}
	return resp, nil
}

// ExistingIDs returns the subset of ids that refer to stored suppliers.
func (s *Service) ExistingIDs(ctx context.Context, ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := s.repo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	found := make([]int64, 0, len(rows))
	for _, row := range rows {
		found = append(found, row.ID)
	}
	return found, nil
}

func (s *Service) validate(req *SupplierRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	if appErr := validation.Struct(*req); appErr != nil {
		return appErr
	}
	return nil
}

func (s *Service) Create(ctx context.Context, actor *user.Actor, req SupplierRequest) (*Supplier, error) {
	if err := internal.Authorize(actor, user.ActionAdd, user.ResourceSupplier); err != nil {
		return nil, err
	}
	if err := s.validate(&req); err != nil {
		return nil, err
	}

	sup := NewSupplier(req.Name, actor.ID)
	sup.Apply(req)

	data := ToDataModel(sup)
	if err := s.repo.Create(ctx, data); err != nil {
		s.logger.Error("failed to create supplier", "name", req.Name, "error", err)
		return nil, internal.NewInternalError("failed to create supplier", err)
	}

	s.logger.Info("supplier created", "supplier_id", data.ID, "actor_id", actor.ID)
	return FromDataModel(data), nil
}

func (s *Service) Update(ctx context.Context, actor *user.Actor, id int64, req SupplierRequest) (*Supplier, error) {
	if err := internal.Authorize(actor, user.ActionChange, user.ResourceSupplier); err != nil {
		return nil, err
	}
	if err := s.validate(&req); err != nil {
		return nil, err
	}

	sup, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	sup.Apply(req)
	if err := s.repo.Update(ctx, ToDataModel(sup)); err != nil {
		s.logger.Error("failed to update supplier", "supplier_id", id, "error", err)
		return nil, internal.NewInternalError("failed to update supplier", err)
	}

	s.logger.Info("supplier updated", "supplier_id", id, "actor_id", actor.ID)
	return sup, nil
}

func (s *Service) Delete(ctx context.Context, actor *user.Actor, id int64) error {
	if err := internal.Authorize(actor, user.ActionDelete, user.ResourceSupplier); err != nil {
		return err
	}

	sup, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete supplier", "supplier_id", id, "error", err)
		return internal.NewInternalError("failed to delete supplier", err)
	}

	s.dropImage(ctx, sup.Logo)
	s.logger.Info("supplier deleted", "supplier_id", id, "actor_id", actor.ID)
	return nil
}

// UploadLogo stores a new logo and replaces the previous one.
func (s *Service) UploadLogo(ctx context.Context, actor *user.Actor, id int64, r io.Reader, fileName string) (*Supplier, error) {
	if err := internal.Authorize(actor, user.ActionChange, user.ResourceSupplier); err != nil {
		return nil, err
	}
	if s.images == nil {
		return nil, internal.ErrStorageUnavailable
	}
	if !storage.IsImageFile(fileName) {
		return nil, internal.NewValidationFieldError("logo", "Upload a valid image.", internal.ErrCodeInvalidFile)
	}

	sup, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	url, err := s.images.UploadImage(ctx, r, s.folder, fileName)
	if err != nil {
		return nil, internal.NewExternalError("failed to upload logo", internal.ErrCodeStorageUnavailable, err)
	}

	previous := sup.Logo
	sup.Logo = url
	if err := s.repo.Update(ctx, ToDataModel(sup)); err != nil {
		return nil, internal.NewInternalError("failed to save supplier logo", err)
	}

	s.dropImage(ctx, previous)
	return sup, nil
}

func (s *Service) dropImage(ctx context.Context, ref string) {
	if s.images == nil || storage.IsDefaultImage(ref) {
		return
	}
	if err := s.images.DeleteImage(ctx, ref); err != nil {
		s.logger.Warn("failed to delete supplier image", "url", ref, "error", err)
	}
}
