package report_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal"
	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal/core/user"
	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal/report"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
)

func TestReportService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Report Service Suite")
}

type MockRepository struct {
	rows       []report.ProductRow
	suppliers  []report.SupplierRow
	lastCutoff time.Time
	failError  error
}

func (m *MockRepository) Counts(ctx context.Context, cutoff time.Time) (report.Counts, error) {
	m.lastCutoff = cutoff
	if m.failError != nil {
		return report.Counts{}, m.failError
	}
	return report.Counts{TotalProducts: int64(len(m.rows)), TotalSuppliers: int64(len(m.suppliers))}, nil
}

func (m *MockRepository) Inventory(ctx context.Context) ([]report.ProductRow, error) {
	return m.rows, m.failError
}

func (m *MockRepository) LowStock(ctx context.Context) ([]report.ProductRow, error) {
	var out []report.ProductRow
	for _, r := range m.rows {
		if r.CurrentStock <= r.MinStockLevel {
			out = append(out, r)
		}
	}
	return out, m.failError
}

func (m *MockRepository) ExpiringBefore(ctx context.Context, cutoff time.Time) ([]report.ProductRow, error) {
	m.lastCutoff = cutoff
	var out []report.ProductRow
	for _, r := range m.rows {
		if r.IsPerishable && r.ExpiryDate != nil && !r.ExpiryDate.After(cutoff) {
			out = append(out, r)
		}
	}
	return out, m.failError
}

func (m *MockRepository) Suppliers(ctx context.Context) ([]report.SupplierRow, error) {
	return m.suppliers, m.failError
}

var _ = Describe("Report Service", func() {
	var (
		ctx     context.Context
		repo    *MockRepository
		service *report.Service
		staff   *user.Actor
		today   time.Time
	)

	BeforeEach(func() {
		ctx = context.Background()
		today = time.Date(2025, 3, 10, 15, 30, 0, 0, time.UTC)
		expiry := time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC)
		later := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

		repo = &MockRepository{
			rows: []report.ProductRow{
				{ID: 1, Name: "Apples", SKU: "APL", Category: "Fruit", CostPrice: decimal.RequireFromString("1.25"), SellingPrice: decimal.RequireFromString("2"), CurrentStock: 4, MinStockLevel: 10, IsPerishable: true, ExpiryDate: &expiry},
				{ID: 2, Name: "Bolts", SKU: "BLT", CostPrice: decimal.RequireFromString("0.10"), SellingPrice: decimal.RequireFromString("0.25"), CurrentStock: 500, MinStockLevel: 100},
				{ID: 3, Name: "Cheese", SKU: "CHS", CostPrice: decimal.RequireFromString("3"), SellingPrice: decimal.RequireFromString("5"), CurrentStock: 20, MinStockLevel: 5, IsPerishable: true, ExpiryDate: &later},
			},
			suppliers: []report.SupplierRow{
				{ID: 1, Name: "Acme", Rating: 5, IsActive: true, ProductCount: 2},
				{ID: 2, Name: "Zenith", Rating: 9},
			},
		}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = report.NewService(repo, 30, logger).WithClock(func() time.Time { return today })
		staff = &user.Actor{ID: 1, IsStaff: true}
	})

	It("gates every report behind staff access", func() {
		_, err := service.Overview(ctx, nil)
		Expect(err).To(MatchError(internal.ErrAuthenticationRequired))

		clerk := &user.Actor{ID: 2}
		_, err = service.Inventory(ctx, clerk)
		Expect(err).To(MatchError(internal.ErrStaffRequired))
		_, err = service.Suppliers(ctx, clerk)
		Expect(err).To(MatchError(internal.ErrStaffRequired))
		_, err = service.InventoryPDF(ctx, clerk)
		Expect(err).To(MatchError(internal.ErrStaffRequired))
	})

	It("summarises counts and stock value", func() {
		out, err := service.Overview(ctx, staff)
		Expect(err).NotTo(HaveOccurred())
		Expect(out.TotalProducts).To(Equal(int64(3)))
		Expect(out.TotalSuppliers).To(Equal(int64(2)))
		// 4*1.25 + 500*0.10 + 20*3
		Expect(out.StockValue).To(Equal("115.00"))
		Expect(repo.lastCutoff).To(Equal(time.Date(2025, 4, 9, 0, 0, 0, 0, time.UTC)))
	})

	It("renders inventory items with derived fields", func() {
		out, err := service.Inventory(ctx, staff)
		Expect(err).NotTo(HaveOccurred())
		Expect(out.Products).To(HaveLen(3))

		apples := out.Products[0]
		Expect(apples.IsLowStock).To(BeTrue())
		Expect(apples.CostPrice).To(Equal("1.25"))
		Expect(apples.StockValue).To(Equal("5.00"))
		Expect(apples.ExpiryDate).To(Equal("2025-03-20"))
		Expect(*apples.DaysUntilExpiry).To(Equal(10))

		bolts := out.Products[1]
		Expect(bolts.DaysUntilExpiry).To(BeNil())
		Expect(bolts.IsLowStock).To(BeFalse())
	})

	It("limits the expiring report to the window", func() {
		out, err := service.Expiring(ctx, staff)
		Expect(err).NotTo(HaveOccurred())
		Expect(out.Products).To(HaveLen(1))
		Expect(out.Products[0].SKU).To(Equal("APL"))
	})

	It("lists low stock products", func() {
		out, err := service.LowStock(ctx, staff)
		Expect(err).NotTo(HaveOccurred())
		Expect(out.Products).To(HaveLen(1))
		Expect(out.Title).To(Equal("Low Stock Report"))
	})

	It("labels supplier ratings", func() {
		out, err := service.Suppliers(ctx, staff)
		Expect(err).NotTo(HaveOccurred())
		Expect(out.Suppliers[0].RatingLabel).To(Equal("Excellent"))
		Expect(out.Suppliers[1].RatingLabel).To(BeEmpty())
	})

	It("produces a PDF document", func() {
		doc, err := service.InventoryPDF(ctx, staff)
		Expect(err).NotTo(HaveOccurred())
		Expect(bytes.HasPrefix(doc, []byte("%PDF"))).To(BeTrue())
	})

	It("wraps repository failures", func() {
		repo.failError = errors.New("connection reset")
		_, err := service.Inventory(ctx, staff)
		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.Type).To(Equal(internal.ErrorTypeInternal))
	})
})
