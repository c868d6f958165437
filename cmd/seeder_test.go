package cmd

import (
	"bytes"
	"context"
	"testing"

	categoryDatamodel "github.com/Abdulrahman-Alsuhaymi/Stocker/internal/core/datamodel/category"
	contactDatamodel "github.com/Abdulrahman-Alsuhaymi/Stocker/internal/core/datamodel/contact"
	productDatamodel "github.com/Abdulrahman-Alsuhaymi/Stocker/internal/core/datamodel/product"
	supplierDatamodel "github.com/Abdulrahman-Alsuhaymi/Stocker/internal/core/datamodel/supplier"
	userDatamodel "github.com/Abdulrahman-Alsuhaymi/Stocker/internal/core/datamodel/user"
	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestCmd(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Cmd Suite")
}

var _ = Describe("seed", func() {
	var db *gorm.DB

	BeforeEach(func() {
		var err error
		dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
		db, err = gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
		Expect(err).NotTo(HaveOccurred())
		Expect(db.AutoMigrate(
			&userDatamodel.User{}, &userDatamodel.Profile{}, &userDatamodel.Permission{}, &userDatamodel.UserPermission{},
			&categoryDatamodel.Category{}, &supplierDatamodel.Supplier{}, &productDatamodel.Product{}, &contactDatamodel.Contact{},
		)).To(Succeed())
	})

	It("creates accounts, permissions and categories", func() {
		var out bytes.Buffer
		Expect(seed(context.Background(), db, bcrypt.MinCost, false, &out)).To(Succeed())

		var users, perms, cats int64
		db.Model(&userDatamodel.User{}).Count(&users)
		db.Model(&userDatamodel.Permission{}).Count(&perms)
		db.Model(&categoryDatamodel.Category{}).Count(&cats)
		Expect(users).To(BeEquivalentTo(len(seedAccounts)))
		Expect(perms).To(BeEquivalentTo(len(seedPermissions)))
		Expect(cats).To(BeEquivalentTo(len(seedCategories)))

		var admin userDatamodel.User
		Expect(db.Preload("Profile").Where("username = ?", "admin").First(&admin).Error).To(Succeed())
		Expect(admin.IsStaff).To(BeTrue())
		Expect(admin.Profile).NotTo(BeNil())
		Expect(admin.Profile.IsManager).To(BeTrue())
		Expect(bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(seedPassword))).To(Succeed())
		Expect(out.String()).To(ContainSubstring("Seeded user: admin"))
	})

	It("is idempotent", func() {
		Expect(seed(context.Background(), db, bcrypt.MinCost, false, &bytes.Buffer{})).To(Succeed())
		Expect(seed(context.Background(), db, bcrypt.MinCost, false, &bytes.Buffer{})).To(Succeed())

		var users, grants int64
		db.Model(&userDatamodel.User{}).Count(&users)
		db.Model(&userDatamodel.UserPermission{}).Count(&grants)
		Expect(users).To(BeEquivalentTo(len(seedAccounts)))
		Expect(grants).To(BeEquivalentTo(5))
	})

	It("clears catalog data on request", func() {
		Expect(db.Create(&categoryDatamodel.Category{Name: "Stale"}).Error).To(Succeed())

		Expect(seed(context.Background(), db, bcrypt.MinCost, true, &bytes.Buffer{})).To(Succeed())

		var stale int64
		db.Model(&categoryDatamodel.Category{}).Where("name = ?", "Stale").Count(&stale)
		Expect(stale).To(BeZero())
	})
})
