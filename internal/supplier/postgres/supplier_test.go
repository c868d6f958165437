package postgres_test

import (
	"context"
	"testing"

	productDatamodel "github.com/Abdulrahman-Alsuhaymi/Stocker/internal/core/datamodel/product"
	supplierDatamodel "github.com/Abdulrahman-Alsuhaymi/Stocker/internal/core/datamodel/supplier"
	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal/core/common/search"
	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal/supplier"
	supplierPostgres "github.com/Abdulrahman-Alsuhaymi/Stocker/internal/supplier/postgres"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestSupplierPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Supplier Postgres Suite")
}

var _ = Describe("Supplier PostgreSQL Repository", func() {
	var (
		ctx  context.Context
		db   *gorm.DB
		repo supplier.RepositoryAPI
	)

	BeforeEach(func() {
		var err error
		ctx = context.Background()
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&supplierDatamodel.Supplier{}, &productDatamodel.Product{})
		Expect(err).NotTo(HaveOccurred())

		repo = supplierPostgres.NewSupplierRepository(db)
	})

	create := func(name string, rating int) *supplierDatamodel.Supplier {
		s := &supplierDatamodel.Supplier{Name: name, Rating: rating, IsActive: true}
		Expect(repo.Create(ctx, s)).To(Succeed())
		return s
	}

	Describe("GetByID", func() {
		It("should return nil for a missing supplier", func() {
			s, err := repo.GetByID(ctx, 404)
			Expect(err).NotTo(HaveOccurred())
			Expect(s).To(BeNil())
		})
	})

	Describe("Update", func() {
		It("should persist a false active flag", func() {
			s := create("Acme", 3)
			s.IsActive = false
			Expect(repo.Update(ctx, s)).To(Succeed())

			found, err := repo.GetByID(ctx, s.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(found.IsActive).To(BeFalse())
		})
	})

	Describe("ListPage", func() {
		It("should page in name order", func() {
			create("Charlie", 3)
			create("Alpha", 3)
			create("Bravo", 3)

			rows, err := repo.ListPage(ctx, 1, 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(2))
			Expect(rows[0].Name).To(Equal("Bravo"))
			Expect(rows[1].Name).To(Equal("Charlie"))

			count, err := repo.Count(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(int64(3)))
		})
	})

	Describe("SearchByName", func() {
		BeforeEach(func() {
			create("Fresh Farms", 2)
			create("Farmhouse Dairy", 5)
			create("100% Organic", 4)
		})

		It("should order by rating descending", func() {
			rows, err := repo.SearchByName(ctx, search.LikePattern("Farm"), supplier.OrderByRating)
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(2))
			Expect(rows[0].Name).To(Equal("Farmhouse Dairy"))
		})

		It("should treat wildcard characters literally", func() {
			rows, err := repo.SearchByName(ctx, search.LikePattern("0% O"), "")
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(1))
		})
	})

	Describe("GetByIDs", func() {
		It("should skip ids that do not exist", func() {
			a := create("Alpha", 3)
			rows, err := repo.GetByIDs(ctx, []int64{a.ID, 999})
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(1))
		})
	})

	Describe("Delete", func() {
		It("should remove the supplier and its product links", func() {
			s := create("Acme", 3)
			p := &productDatamodel.Product{Name: "Milk", SKU: "MLK-1", Suppliers: []*supplierDatamodel.Supplier{s}}
			Expect(db.Create(p).Error).To(Succeed())

			Expect(repo.Delete(ctx, s.ID)).To(Succeed())

			var links int64
			Expect(db.Table("product_suppliers").Where("supplier_id = ?", s.ID).Count(&links).Error).To(Succeed())
			Expect(links).To(BeZero())

			found, err := repo.GetByID(ctx, s.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(found).To(BeNil())
		})
	})
})
