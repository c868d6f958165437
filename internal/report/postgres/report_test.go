package postgres_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	categoryDatamodel "github.com/Abdulrahman-Alsuhaymi/Stocker/internal/core/datamodel/category"
	productDatamodel "github.com/Abdulrahman-Alsuhaymi/Stocker/internal/core/datamodel/product"
	supplierDatamodel "github.com/Abdulrahman-Alsuhaymi/Stocker/internal/core/datamodel/supplier"
	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal/report"
	reportPostgres "github.com/Abdulrahman-Alsuhaymi/Stocker/internal/report/postgres"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestReportPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Report Postgres Suite")
}

var _ = Describe("Report Repository", func() {
	var (
		ctx  context.Context
		gdb  *gorm.DB
		xdb  *sqlx.DB
		repo report.RepositoryAPI
	)

	date := func(y int, m time.Month, d int) *time.Time {
		t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		return &t
	}

	BeforeEach(func() {
		ctx = context.Background()
		dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())

		var err error
		gdb, err = gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
		Expect(err).NotTo(HaveOccurred())
		Expect(gdb.AutoMigrate(
			&categoryDatamodel.Category{},
			&supplierDatamodel.Supplier{},
			&productDatamodel.Product{},
		)).To(Succeed())

		xdb, err = sqlx.Open("sqlite3", dsn)
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(xdb.Close)
		repo = reportPostgres.NewReportRepository(xdb)

		fruit := &categoryDatamodel.Category{Name: "Fruit"}
		Expect(gdb.Create(fruit).Error).To(Succeed())

		acme := &supplierDatamodel.Supplier{Name: "Acme", Rating: 4, IsActive: true}
		zen := &supplierDatamodel.Supplier{Name: "Zenith", Rating: 2}
		Expect(gdb.Create(acme).Error).To(Succeed())
		Expect(gdb.Create(zen).Error).To(Succeed())

		products := []*productDatamodel.Product{
			{Name: "Pears", SKU: "PER", CategoryID: &fruit.ID, CostPrice: decimal.RequireFromString("1.50"), SellingPrice: decimal.NewFromInt(3), CurrentStock: 2, MinStockLevel: 10, IsPerishable: true, ExpiryDate: date(2025, 3, 15), Suppliers: []*supplierDatamodel.Supplier{acme}},
			{Name: "Apples", SKU: "APL", CategoryID: &fruit.ID, CostPrice: decimal.NewFromInt(1), SellingPrice: decimal.NewFromInt(2), CurrentStock: 8, MinStockLevel: 10, IsPerishable: true, ExpiryDate: date(2025, 3, 12), Suppliers: []*supplierDatamodel.Supplier{acme}},
			{Name: "Bolts", SKU: "BLT", CostPrice: decimal.RequireFromString("0.10"), SellingPrice: decimal.RequireFromString("0.25"), CurrentStock: 500, MinStockLevel: 100, ExpiryDate: date(2025, 3, 11)},
		}
		for _, p := range products {
			Expect(gdb.Create(p).Error).To(Succeed())
		}
	})

	It("counts every table in one query", func() {
		counts, err := repo.Counts(ctx, time.Date(2025, 3, 13, 0, 0, 0, 0, time.UTC))
		Expect(err).NotTo(HaveOccurred())
		Expect(counts).To(Equal(report.Counts{
			TotalProducts:   3,
			TotalSuppliers:  2,
			TotalCategories: 1,
			LowStock:        2,
			ExpiringSoon:    1,
		}))
	})

	It("orders the inventory by name with the category joined", func() {
		rows, err := repo.Inventory(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(HaveLen(3))
		Expect(rows[0].Name).To(Equal("Apples"))
		Expect(rows[0].Category).To(Equal("Fruit"))
		Expect(rows[1].Name).To(Equal("Bolts"))
		Expect(rows[1].Category).To(BeEmpty())
		Expect(rows[2].CostPrice.StringFixed(2)).To(Equal("1.50"))
		Expect(rows[2].ExpiryDate).NotTo(BeNil())
	})

	It("orders low stock by current stock", func() {
		rows, err := repo.LowStock(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(HaveLen(2))
		Expect(rows[0].SKU).To(Equal("PER"))
		Expect(rows[1].SKU).To(Equal("APL"))
	})

	It("returns only perishable products by expiry date", func() {
		rows, err := repo.ExpiringBefore(ctx, time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC))
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(HaveLen(2))
		Expect(rows[0].SKU).To(Equal("APL"))
		Expect(rows[1].SKU).To(Equal("PER"))
		Expect(rows[0].IsPerishable).To(BeTrue())
	})

	It("counts linked products per supplier", func() {
		rows, err := repo.Suppliers(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(HaveLen(2))
		Expect(rows[0].Name).To(Equal("Acme"))
		Expect(rows[0].ProductCount).To(Equal(int64(2)))
		Expect(rows[0].IsActive).To(BeTrue())
		Expect(rows[1].ProductCount).To(BeZero())
	})
})
