package postgres_test

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"testing"

	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal"
	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal/category"
	categoryPostgres "github.com/Abdulrahman-Alsuhaymi/Stocker/internal/category/postgres"
	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal/core/common/search"
	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal/core/database"
	categoryDatamodel "github.com/Abdulrahman-Alsuhaymi/Stocker/internal/core/datamodel/category"
	productDatamodel "github.com/Abdulrahman-Alsuhaymi/Stocker/internal/core/datamodel/product"
	supplierDatamodel "github.com/Abdulrahman-Alsuhaymi/Stocker/internal/core/datamodel/supplier"
	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal/core/user"
	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal/product"
	productPostgres "github.com/Abdulrahman-Alsuhaymi/Stocker/internal/product/postgres"
	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal/supplier"
	supplierPostgres "github.com/Abdulrahman-Alsuhaymi/Stocker/internal/supplier/postgres"
	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestProductPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Product Postgres Suite")
}

func openDB() *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	Expect(err).NotTo(HaveOccurred())
	Expect(db.AutoMigrate(
		&categoryDatamodel.Category{},
		&supplierDatamodel.Supplier{},
		&productDatamodel.Product{},
	)).To(Succeed())
	return db
}

var _ = Describe("Product PostgreSQL Repository", func() {
	var (
		ctx  context.Context
		db   *gorm.DB
		repo product.RepositoryAPI
	)

	BeforeEach(func() {
		ctx = context.Background()
		db = openDB()
		repo = productPostgres.NewProductRepository(db)
	})

	newProduct := func(name, sku string) *productDatamodel.Product {
		return &productDatamodel.Product{
			Name:          name,
			SKU:           sku,
			CostPrice:     decimal.RequireFromString("1.25"),
			SellingPrice:  decimal.RequireFromString("2.50"),
			CurrentStock:  20,
			MinStockLevel: 10,
		}
	}

	It("should store supplier links and preload them", func() {
		a := &supplierDatamodel.Supplier{Name: "Acme", Rating: 3}
		b := &supplierDatamodel.Supplier{Name: "Bolt", Rating: 4}
		Expect(db.Create(a).Error).To(Succeed())
		Expect(db.Create(b).Error).To(Succeed())

		p := newProduct("Milk", "MLK-1")
		Expect(repo.Create(ctx, p, []int64{a.ID, b.ID})).To(Succeed())

		found, err := repo.GetByID(ctx, p.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(found.Suppliers).To(HaveLen(2))
		Expect(found.CostPrice.StringFixed(2)).To(Equal("1.25"))

		Expect(repo.Update(ctx, found, []int64{b.ID})).To(Succeed())
		found, err = repo.GetByID(ctx, p.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(found.Suppliers).To(HaveLen(1))
		Expect(found.Suppliers[0].Name).To(Equal("Bolt"))
	})

	It("should update the image column and keep supplier links", func() {
		s := &supplierDatamodel.Supplier{Name: "Acme", Rating: 3}
		Expect(db.Create(s).Error).To(Succeed())
		p := newProduct("Milk", "MLK-1")
		Expect(repo.Create(ctx, p, []int64{s.ID})).To(Succeed())

		url := "https://res.cloudinary.com/demo/image/upload/products/milk.png"
		Expect(repo.UpdateImage(ctx, p.ID, url)).To(Succeed())

		found, err := repo.GetByID(ctx, p.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(found.Image).To(Equal(url))
		Expect(found.Name).To(Equal("Milk"))
		Expect(found.CurrentStock).To(Equal(20))
		Expect(found.Suppliers).To(HaveLen(1))
		Expect(found.Suppliers[0].ID).To(Equal(s.ID))
	})

	It("should translate a duplicate SKU", func() {
		Expect(repo.Create(ctx, newProduct("Milk", "MLK-1"), nil)).To(Succeed())
		err := repo.Create(ctx, newProduct("Milk 2", "MLK-1"), nil)
		Expect(err).To(MatchError(product.ErrDuplicateSKU))
	})

	It("should return nil for unknown ids and skus", func() {
		p, err := repo.GetByID(ctx, 99)
		Expect(err).NotTo(HaveOccurred())
		Expect(p).To(BeNil())

		p, err = repo.GetBySKU(ctx, "nope")
		Expect(err).NotTo(HaveOccurred())
		Expect(p).To(BeNil())
	})

	It("should search names with escaped wildcards", func() {
		Expect(repo.Create(ctx, newProduct("Milk 100%", "MLK-1"), nil)).To(Succeed())
		Expect(repo.Create(ctx, newProduct("Milk 1000", "MLK-2"), nil)).To(Succeed())

		rows, err := repo.SearchByName(ctx, search.LikePattern("100%"), product.OrderByName)
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(HaveLen(1))
		Expect(rows[0].SKU).To(Equal("MLK-1"))
	})

	It("should delete the product and its links", func() {
		s := &supplierDatamodel.Supplier{Name: "Acme", Rating: 3}
		Expect(db.Create(s).Error).To(Succeed())
		p := newProduct("Milk", "MLK-1")
		Expect(repo.Create(ctx, p, []int64{s.ID})).To(Succeed())

		Expect(repo.Delete(ctx, p.ID)).To(Succeed())

		var links int64
		Expect(db.Table("product_suppliers").Count(&links).Error).To(Succeed())
		Expect(links).To(BeZero())
	})
})

var _ = Describe("Product catalog over SQLite", func() {
	var (
		ctx      context.Context
		db       *gorm.DB
		service  *product.Service
		manager  *user.Actor
		newStack func(db *gorm.DB) *product.Service
	)

	BeforeEach(func() {
		ctx = context.Background()
		lg := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		newStack = func(db *gorm.DB) *product.Service {
			categories := category.NewService(categoryPostgres.NewCategoryRepository(db), lg)
			suppliers := supplier.NewService(supplierPostgres.NewSupplierRepository(db), nil, "", lg)
			return product.NewService(productPostgres.NewProductRepository(db), database.NewTransactionManager(db), categories, suppliers, lg)
		}
		db = openDB()
		service = newStack(db)
		manager = &user.Actor{ID: 1, IsStaff: true, Permissions: []string{user.PermissionAdmin}}
	})

	It("should not write the product when a supplier is unknown", func() {
		req := product.ProductRequest{
			Name:         "Milk",
			SKU:          "MLK-1",
			CostPrice:    decimalPtr("1.00"),
			SellingPrice: decimalPtr("2.00"),
			CurrentStock: intPtr(5),
			SupplierIDs:  []int64{42},
		}
		_, err := service.Create(ctx, manager, req)
		Expect(err).To(HaveOccurred())

		var count int64
		Expect(db.Model(&productDatamodel.Product{}).Count(&count).Error).To(Succeed())
		Expect(count).To(BeZero())
	})

	It("should block deleting a category that products reference", func() {
		categories := category.NewService(categoryPostgres.NewCategoryRepository(db), slog.Default())
		cat, err := categories.Create(ctx, manager, category.CategoryRequest{Name: "Dairy"})
		Expect(err).NotTo(HaveOccurred())

		req := product.ProductRequest{
			Name:         "Milk",
			SKU:          "MLK-1",
			CategoryID:   &cat.ID,
			CostPrice:    decimalPtr("1.00"),
			SellingPrice: decimalPtr("2.00"),
			CurrentStock: intPtr(5),
		}
		_, err = service.Create(ctx, manager, req)
		Expect(err).NotTo(HaveOccurred())

		err = categories.Delete(ctx, manager, cat.ID)
		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.Code).To(Equal(internal.ErrCodeReferentialIntegrity))

		_, err = categories.Get(ctx, cat.ID)
		Expect(err).NotTo(HaveOccurred())
	})

	It("should round-trip the catalog through CSV", func() {
		for i, sku := range []string{"MLK-1", "BRD-1", "EGG-1"} {
			req := product.ProductRequest{
				Name:         "Item " + sku,
				SKU:          sku,
				CostPrice:    decimalPtr(fmt.Sprintf("%d.10", i+1)),
				SellingPrice: decimalPtr(fmt.Sprintf("%d.95", i+2)),
				CurrentStock: intPtr(3 * i),
				IsPerishable: i == 0,
				ExpiryDate:   "2031-12-01",
			}
			_, err := service.Create(ctx, manager, req)
			Expect(err).NotTo(HaveOccurred())
		}

		var buf bytes.Buffer
		Expect(service.ExportCSV(ctx, manager, &buf)).To(Succeed())

		emptyDB := openDB()
		result, err := newStack(emptyDB).ImportCSV(ctx, manager, &buf)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Imported).To(Equal(3))

		var before, after []productDatamodel.Product
		Expect(db.Order("sku").Find(&before).Error).To(Succeed())
		Expect(emptyDB.Order("sku").Find(&after).Error).To(Succeed())
		Expect(after).To(HaveLen(len(before)))
		for i := range before {
			Expect(after[i].SKU).To(Equal(before[i].SKU))
			Expect(after[i].Name).To(Equal(before[i].Name))
			Expect(after[i].CostPrice.Equal(before[i].CostPrice)).To(BeTrue())
			Expect(after[i].SellingPrice.Equal(before[i].SellingPrice)).To(BeTrue())
			Expect(after[i].CurrentStock).To(Equal(before[i].CurrentStock))
			Expect(after[i].MinStockLevel).To(Equal(before[i].MinStockLevel))
			Expect(after[i].IsPerishable).To(Equal(before[i].IsPerishable))
		}
	})
})

func decimalPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func intPtr(v int) *int { return &v }
