package report

import (
	"context"
	"log/slog"
	"time"

	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal"
	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal/core/user"
	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal/product"
	"github.com/shopspring/decimal"
)

// RepositoryAPI is the read model behind the reports. Product listings are
// name-ordered, low stock is stock-ascending and expiring is expiry-ascending.
type RepositoryAPI interface {
	Counts(ctx context.Context, expiryCutoff time.Time) (Counts, error)
	Inventory(ctx context.Context) ([]ProductRow, error)
	LowStock(ctx context.Context) ([]ProductRow, error)
	ExpiringBefore(ctx context.Context, cutoff time.Time) ([]ProductRow, error)
	Suppliers(ctx context.Context) ([]SupplierRow, error)
}

type Service struct {
	repo       RepositoryAPI
	windowDays int
	now        func() time.Time
	logger     *slog.Logger
}

func NewService(repo RepositoryAPI, windowDays int, logger *slog.Logger) *Service {
	if windowDays <= 0 {
		windowDays = product.DefaultExpiryWindowDays
	}
	return &Service{
		repo:       repo,
		windowDays: windowDays,
		now:        func() time.Time { return time.Now().UTC() },
		logger:     logger,
	}
}

// WithClock replaces the clock used for expiry arithmetic.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) cutoff(today time.Time) time.Time {
	y, m, d := today.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).AddDate(0, 0, s.windowDays)
}

func (s *Service) Overview(ctx context.Context, actor *user.Actor) (Overview, error) {
	if err := internal.RequireStaff(actor); err != nil {
		return Overview{}, err
	}

	today := s.now()
	counts, err := s.repo.Counts(ctx, s.cutoff(today))
	if err != nil {
		return Overview{}, internal.NewInternalError("failed to count inventory", err)
	}
	rows, err := s.repo.Inventory(ctx)
	if err != nil {
		return Overview{}, internal.NewInternalError("failed to load inventory", err)
	}

	return Overview{
		Counts:      counts,
		StockValue:  totalValue(rows).StringFixed(2),
		WindowDays:  s.windowDays,
		GeneratedAt: today,
	}, nil
}

func (s *Service) Inventory(ctx context.Context, actor *user.Actor) (ProductReport, error) {
	return s.productReport(ctx, actor, "Inventory Report", s.repo.Inventory)
}

func (s *Service) LowStock(ctx context.Context, actor *user.Actor) (ProductReport, error) {
	return s.productReport(ctx, actor, "Low Stock Report", s.repo.LowStock)
}

// Expiring lists perishable products expiring within the configured window.
func (s *Service) Expiring(ctx context.Context, actor *user.Actor) (ProductReport, error) {
	cutoff := s.cutoff(s.now())
	return s.productReport(ctx, actor, "Expiring Products Report", func(ctx context.Context) ([]ProductRow, error) {
		return s.repo.ExpiringBefore(ctx, cutoff)
	})
}

func (s *Service) Suppliers(ctx context.Context, actor *user.Actor) (SupplierReport, error) {
	if err := internal.RequireStaff(actor); err != nil {
		return SupplierReport{}, err
	}

	rows, err := s.repo.Suppliers(ctx)
	if err != nil {
		return SupplierReport{}, internal.NewInternalError("failed to load suppliers", err)
	}

	items := make([]SupplierItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toItem())
	}
	return SupplierReport{Title: "Supplier Report", Suppliers: items, GeneratedAt: s.now()}, nil
}

// InventoryPDF renders the inventory report as an A4 document.
func (s *Service) InventoryPDF(ctx context.Context, actor *user.Actor) ([]byte, error) {
	rep, err := s.Inventory(ctx, actor)
	if err != nil {
		return nil, err
	}

	doc, err := renderInventoryPDF(rep)
	if err != nil {
		return nil, internal.NewInternalError("failed to render inventory pdf", err)
	}
	s.logger.Info("inventory pdf generated", "user_id", actor.ID, "products", len(rep.Products), "bytes", len(doc))
	return doc, nil
}

func (s *Service) productReport(ctx context.Context, actor *user.Actor, title string, load func(context.Context) ([]ProductRow, error)) (ProductReport, error) {
	if err := internal.RequireStaff(actor); err != nil {
		return ProductReport{}, err
	}

	rows, err := load(ctx)
	if err != nil {
		return ProductReport{}, internal.NewInternalError("failed to load report", err)
	}

	today := s.now()
	items := make([]ProductItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toItem(today))
	}
	return ProductReport{
		Title:       title,
		Products:    items,
		TotalValue:  totalValue(rows).StringFixed(2),
		GeneratedAt: today,
	}, nil
}

func totalValue(rows []ProductRow) decimal.Decimal {
	total := decimal.Zero
	for _, row := range rows {
		total = total.Add(row.stockValue())
	}
	return total
}
