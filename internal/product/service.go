package product

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal"
	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal/category"
	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal/core/common/search"
	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal/core/common/validation"
	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal/core/database"
	productDatamodel "github.com/Abdulrahman-Alsuhaymi/Stocker/internal/core/datamodel/product"
	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal/core/events"
	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal/core/user"
	"github.com/Abdulrahman-Alsuhaymi/Stocker/pkg/pagination"
	"github.com/Abdulrahman-Alsuhaymi/Stocker/pkg/storage"
	"github.com/shopspring/decimal"
)

const (
	OrderByName    = "name"
	OrderByCreated = "created_at"
)

var ErrDuplicateSKU = internal.NewDuplicateKey("sku", "Product with this SKU already exists.")

type RepositoryAPI interface {
	GetByID(ctx context.Context, id int64) (*productDatamodel.Product, error)
	GetBySKU(ctx context.Context, sku string) (*productDatamodel.Product, error)
	Count(ctx context.Context) (int64, error)
	ListPage(ctx context.Context, offset, limit int) ([]*productDatamodel.Product, error)
	// Newest returns products newest first; limit <= 0 returns all of them.
	Newest(ctx context.Context, limit int) ([]*productDatamodel.Product, error)
	All(ctx context.Context) ([]*productDatamodel.Product, error)
	SearchByName(ctx context.Context, pattern, orderBy string) ([]*productDatamodel.Product, error)
	Create(ctx context.Context, product *productDatamodel.Product, supplierIDs []int64) error
	Update(ctx context.Context, product *productDatamodel.Product, supplierIDs []int64) error
	// UpdateImage writes only the image column and leaves supplier links alone.
	UpdateImage(ctx context.Context, id int64, image string) error
	Delete(ctx context.Context, id int64) error
}

type CategoryResolver interface {
	Exists(ctx context.Context, id int64) (bool, error)
	GetOrCreate(ctx context.Context, name string) (*category.Category, error)
}

type SupplierResolver interface {
	ExistingIDs(ctx context.Context, ids []int64) ([]int64, error)
}

// Notifier fans an alert out to the managers and returns how many were addressed.
type Notifier interface {
	NotifyLowStock(ctx context.Context, p *Product) int
	NotifyExpiring(ctx context.Context, p *Product) int
}

type Service struct {
	repo       RepositoryAPI
	tx         database.TransactionManager
	categories CategoryResolver
	suppliers  SupplierResolver
	notifier   Notifier
	images     storage.ImageStorage
	publisher  events.Publisher
	folder     string
	expiryDays int
	logger     *slog.Logger
}

func NewService(repo RepositoryAPI, tx database.TransactionManager, categories CategoryResolver, suppliers SupplierResolver, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		tx:         tx,
		categories: categories,
		suppliers:  suppliers,
		folder:     "products",
		expiryDays: DefaultExpiryWindowDays,
		logger:     logger,
	}
}

// WithNotifier enables alerts on stock and expiry transitions.
func (s *Service) WithNotifier(n Notifier) *Service {
	s.notifier = n
	return s
}

func (s *Service) WithImages(images storage.ImageStorage, folder string) *Service {
	s.images = images
	if folder != "" {
		s.folder = folder
	}
	return s
}

func (s *Service) WithPublisher(p events.Publisher) *Service {
	s.publisher = p
	return s
}

func (s *Service) WithExpiryWindow(days int) *Service {
	if days > 0 {
		s.expiryDays = days
	}
	return s
}

func (s *Service) ExpiryWindow() int {
	return s.expiryDays
}

func (s *Service) toResponses(rows []*productDatamodel.Product) []ProductResponse {
	today := time.Now()
	out := make([]ProductResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromDataModel(row).ToResponse(today, s.expiryDays))
	}
	return out
}

// Response renders p against today's date and the configured expiry window.
func (s *Service) Response(p *Product) ProductResponse {
	return p.ToResponse(time.Now(), s.expiryDays)
}

// List pages products newest first.
func (s *Service) List(ctx context.Context, page int) (pagination.Page[ProductResponse], error) {
	total, err := s.repo.Count(ctx)
	if err != nil {
		return pagination.Page[ProductResponse]{}, internal.NewInternalError("failed to count products", err)
	}

	params := pagination.New(page, PageSize).Clamp(total)
	rows, err := s.repo.ListPage(ctx, params.Offset, params.Limit)
	if err != nil {
		return pagination.Page[ProductResponse]{}, internal.NewInternalError("failed to list products", err)
	}
	return pagination.NewPage(s.toResponses(rows), params, total), nil
}

func (s *Service) Latest(ctx context.Context) ([]ProductResponse, error) {
	rows, err := s.repo.Newest(ctx, LatestCount)
	if err != nil {
		return nil, internal.NewInternalError("failed to load latest products", err)
	}
	return s.toResponses(rows), nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Product, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, internal.NewInternalError("failed to load product", err)
	}
	if row == nil {
		return nil, internal.ErrProductNotFound
	}
	return FromDataModel(row), nil
}

// Search needs at least three characters. orderBy is "name" (ascending) or
// "created_at" (newest first); anything else leaves the store order.
func (s *Service) Search(ctx context.Context, query, orderBy string) (SearchResponse, error) {
	resp := SearchResponse{Query: query, OrderBy: orderBy, Products: []ProductResponse{}}
	if !search.Accepts(query) {
		return resp, nil
	}

	rows, err := s.repo.SearchByName(ctx, search.LikePattern(query), orderBy)
	if err != nil {
		s.logger.Error("product search failed", "query", query, "error", err)
		return resp, internal.NewInternalError("failed to search products", err)
	}

	rows = search.Filter(rows, query, func(p *productDatamodel.Product) string { return p.Name })
	resp.Products = s.toResponses(rows)
	return resp, nil
}

// Dashboard lists every product newest first with the alert counters.
func (s *Service) Dashboard(ctx context.Context, actor *user.Actor) (DashboardResponse, error) {
	if actor == nil {
		return DashboardResponse{}, internal.ErrAuthenticationRequired
	}

	rows, err := s.repo.Newest(ctx, 0)
	if err != nil {
		return DashboardResponse{}, internal.NewInternalError("failed to load dashboard", err)
	}

	resp := DashboardResponse{Products: s.toResponses(rows)}
	resp.TotalProducts = len(resp.Products)
	for _, p := range resp.Products {
		if p.IsLowStock {
			resp.LowStockCount++
		}
		if p.IsExpiringSoon {
			resp.ExpiringSoonCount++
		}
	}
	return resp, nil
}

func (s *Service) validateRequest(req *ProductRequest) (*time.Time, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.SKU = strings.TrimSpace(req.SKU)
	req.SupplierIDs = uniqueIDs(req.SupplierIDs)

	v := validation.NewValidator()
	v.Field("cost_price", req.CostPrice).Required().MinDecimal(decimal.Zero, internal.ErrCodeInvalidPrice)
	v.Field("selling_price", req.SellingPrice).Required().MinDecimal(decimal.Zero, internal.ErrCodeInvalidPrice)
	v.Field("current_stock", req.CurrentStock).Required().MinInt(0, internal.ErrCodeInvalidStock)
	v.Field("min_stock_level", req.MinStockLevel).MinInt(0, internal.ErrCodeInvalidStock)

	expiry, err := ParseDate(strings.TrimSpace(req.ExpiryDate))
	if err != nil {
		v.Add("expiry_date", "Enter a valid date in YYYY-MM-DD format.", internal.ErrCodeInvalidDate)
	}

	if appErr := validation.Merge(validation.Struct(*req), v.Validate()); appErr != nil {
		return nil, appErr
	}
	return expiry, nil
}

// checkReferences enforces SKU uniqueness and that the category and suppliers exist.
func (s *Service) checkReferences(ctx context.Context, req ProductRequest, selfID int64) error {
	existing, err := s.repo.GetBySKU(ctx, req.SKU)
	if err != nil {
		return internal.NewInternalError("failed to check sku", err)
	}
	if existing != nil && existing.ID != selfID {
		return ErrDuplicateSKU
	}

	v := validation.NewValidator()
	if req.CategoryID != nil {
		ok, err := s.categories.Exists(ctx, *req.CategoryID)
		if err != nil {
			return internal.NewInternalError("failed to check category", err)
		}
		if !ok {
			v.Add("category_id", "Select a valid category.", internal.ErrCodeInvalidCategory)
		}
	}
	if len(req.SupplierIDs) > 0 {
		found, err := s.suppliers.ExistingIDs(ctx, req.SupplierIDs)
		if err != nil {
			return internal.NewInternalError("failed to check suppliers", err)
		}
		if len(found) != len(req.SupplierIDs) {
			v.Add("supplier_ids", "Select valid suppliers.", internal.ErrCodeInvalidSupplier)
		}
	}
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

func (s *Service) Create(ctx context.Context, actor *user.Actor, req ProductRequest) (*Product, error) {
	if err := internal.Authorize(actor, user.ActionAdd, user.ResourceProduct); err != nil {
		return nil, err
	}
	expiry, err := s.validateRequest(&req)
	if err != nil {
		return nil, err
	}

	p := NewProduct(req.Name, req.SKU, actor.ID)
	p.Apply(req, expiry)

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.checkReferences(txCtx, req, 0); err != nil {
			return err
		}
		data := ToDataModel(p)
		if err := s.repo.Create(txCtx, data, req.SupplierIDs); err != nil {
			return err
		}
		p.ID = data.ID
		return nil
	})
	if err != nil {
		s.logger.Error("failed to create product", "sku", req.SKU, "error", err)
		return nil, writeError("failed to create product", err)
	}

	saved, err := s.Get(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("product created", "product_id", saved.ID, "sku", saved.SKU, "actor_id", actor.ID)
	s.publish(ctx, events.NewProductSavedEvent(saved.ID, actor.ID, true))
	return saved, nil
}

// Update saves the product and its supplier links in one transaction, then
// compares the previous and new state to decide which alerts to send.
func (s *Service) Update(ctx context.Context, actor *user.Actor, id int64, req ProductRequest) (*Product, error) {
	if err := internal.Authorize(actor, user.ActionChange, user.ResourceProduct); err != nil {
		return nil, err
	}
	expiry, err := s.validateRequest(&req)
	if err != nil {
		return nil, err
	}

	var previous Product
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		row, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		if row == nil {
			return internal.ErrProductNotFound
		}
		current := FromDataModel(row)
		previous = *current

		if err := s.checkReferences(txCtx, req, id); err != nil {
			return err
		}
		current.Apply(req, expiry)
		return s.repo.Update(txCtx, ToDataModel(current), req.SupplierIDs)
	})
	if err != nil {
		s.logger.Error("failed to update product", "product_id", id, "error", err)
		return nil, writeError("failed to update product", err)
	}

	updated, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.Info("product updated", "product_id", id, "actor_id", actor.ID)
	s.notifyTransitions(ctx, &previous, updated)
	s.publish(ctx, events.NewProductSavedEvent(id, actor.ID, false))
	return updated, nil
}

// notifyTransitions only alerts when the update moved the product into an alert state.
func (s *Service) notifyTransitions(ctx context.Context, before, after *Product) {
	if s.notifier == nil {
		return
	}
	today := time.Now()

	if after.CurrentStock < before.CurrentStock && after.IsLowStock() {
		sent := s.notifier.NotifyLowStock(ctx, after)
		s.logger.Info("low stock alert triggered", "product_id", after.ID, "recipients", sent)
	}

	if after.IsExpiringSoon(today, s.expiryDays) &&
		(!before.IsExpiringSoon(today, s.expiryDays) || before.ExpiryString() != after.ExpiryString()) {
		sent := s.notifier.NotifyExpiring(ctx, after)
		s.logger.Info("expiry alert triggered", "product_id", after.ID, "recipients", sent)
	}
}

func (s *Service) Delete(ctx context.Context, actor *user.Actor, id int64) error {
	if err := internal.Authorize(actor, user.ActionDelete, user.ResourceProduct); err != nil {
		return err
	}

	p, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		return s.repo.Delete(txCtx, id)
	})
	if err != nil {
		s.logger.Error("failed to delete product", "product_id", id, "error", err)
		return internal.NewInternalError("failed to delete product", err)
	}

	s.dropImage(ctx, p.Image)
	s.logger.Info("product deleted", "product_id", id, "actor_id", actor.ID)
	return nil
}

func (s *Service) UploadImage(ctx context.Context, actor *user.Actor, id int64, r io.Reader, fileName string) (*Product, error) {
	if err := internal.Authorize(actor, user.ActionChange, user.ResourceProduct); err != nil {
		return nil, err
	}
	if s.images == nil {
		return nil, internal.ErrStorageUnavailable
	}
	if !storage.IsImageFile(fileName) {
		return nil, internal.NewValidationFieldError("image", "Upload a valid image.", internal.ErrCodeInvalidFile)
	}

	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	url, err := s.images.UploadImage(ctx, r, s.folder, fileName)
	if err != nil {
		return nil, internal.NewExternalError("failed to upload product image", internal.ErrCodeStorageUnavailable, err)
	}

	previous := p.Image
	if err := s.repo.UpdateImage(ctx, p.ID, url); err != nil {
		s.dropImage(ctx, url)
		return nil, internal.NewInternalError("failed to save product image", err)
	}
	p.Image = url
	p.UpdatedAt = time.Now()

	s.dropImage(ctx, previous)
	return p, nil
}

func (s *Service) dropImage(ctx context.Context, ref string) {
	if s.images == nil || storage.IsDefaultImage(ref) {
		return
	}
	if err := s.images.DeleteImage(ctx, ref); err != nil {
		s.logger.Warn("failed to delete product image", "url", ref, "error", err)
	}
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish event", "event_type", event.EventType(), "error", err)
	}
}

func writeError(message string, err error) error {
	if _, ok := internal.IsAppError(err); ok {
		return err
	}
	return internal.NewInternalError(message, err)
}

func uniqueIDs(ids []int64) []int64 {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
