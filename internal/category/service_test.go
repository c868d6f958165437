package category_test

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"testing"

	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal"
	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal/category"
	categoryDatamodel "github.com/Abdulrahman-Alsuhaymi/Stocker/internal/core/datamodel/category"
	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal/core/user"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestCategoryService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Category Service Suite")
}

// MockRepository implements category.RepositoryAPI for testing
type MockRepository struct {
	categories    map[int64]*categoryDatamodel.Category
	productCounts map[int64]int64
	nextID        int64
	shouldFail    bool
	failError     error
	deleteErr     error
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		categories:    make(map[int64]*categoryDatamodel.Category),
		productCounts: make(map[int64]int64),
	}
}

func (m *MockRepository) GetAll(ctx context.Context) ([]*categoryDatamodel.Category, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	var result []*categoryDatamodel.Category
	for _, cat := range m.categories {
		result = append(result, cat)
	}
	return result, nil
}

func (m *MockRepository) GetByID(ctx context.Context, id int64) (*categoryDatamodel.Category, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	return m.categories[id], nil
}

func (m *MockRepository) GetByName(ctx context.Context, name string) (*categoryDatamodel.Category, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	for _, cat := range m.categories {
		if cat.Name == name {
			return cat, nil
		}
	}
	return nil, nil
}

func (m *MockRepository) Create(ctx context.Context, cat *categoryDatamodel.Category) error {
	if m.shouldFail {
		return m.failError
	}
	m.nextID++
	cat.ID = m.nextID
	m.categories[cat.ID] = cat
	return nil
}

func (m *MockRepository) Update(ctx context.Context, cat *categoryDatamodel.Category) error {
	if m.shouldFail {
		return m.failError
	}
	m.categories[cat.ID] = cat
	return nil
}

func (m *MockRepository) Delete(ctx context.Context, id int64) error {
	if m.shouldFail {
		return m.failError
	}
	if m.deleteErr != nil {
		return m.deleteErr
	}
	delete(m.categories, id)
	return nil
}

func (m *MockRepository) CountProducts(ctx context.Context, id int64) (int64, error) {
	if m.shouldFail {
		return 0, m.failError
	}
	return m.productCounts[id], nil
}

// Helper methods for testing
func (m *MockRepository) SetShouldFail(shouldFail bool, err error) {
	m.shouldFail = shouldFail
	m.failError = err
}

func (m *MockRepository) AddCategory(name string) int64 {
	cat := &categoryDatamodel.Category{Name: name}
	_ = m.Create(context.Background(), cat)
	return cat.ID
}

var _ = Describe("Category Service", func() {
	var (
		ctx      context.Context
		mockRepo *MockRepository
		service  *category.Service
		logger   *slog.Logger
		manager  *user.Actor
		staff    *user.Actor
		customer *user.Actor
	)

	BeforeEach(func() {
		ctx = context.Background()
		mockRepo = NewMockRepository()
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = category.NewService(mockRepo, logger)

		manager = &user.Actor{ID: 1, IsStaff: true, Permissions: []string{"add_category", "change_category", "delete_category"}}
		staff = &user.Actor{ID: 2, IsStaff: true}
		customer = &user.Actor{ID: 3, Permissions: []string{"add_category"}}
	})

	Describe("List", func() {
		BeforeEach(func() {
			mockRepo.AddCategory("Dairy")
			mockRepo.AddCategory("Bakery")
		})

		It("should return every category with can_manage for staff", func() {
			resp, err := service.List(ctx, staff)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Categories).To(HaveLen(2))
			Expect(resp.CanManage).To(BeTrue())
		})

		It("should not allow managing for anonymous visitors", func() {
			resp, err := service.List(ctx, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.CanManage).To(BeFalse())
		})

		It("should wrap repository failures", func() {
			mockRepo.SetShouldFail(true, errors.New("database error"))
			_, err := service.List(ctx, staff)
			Expect(err).To(HaveOccurred())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeInternal))
		})
	})

	Describe("Create", func() {
		It("should create a category for a permitted staff member", func() {
			cat, err := service.Create(ctx, manager, category.CategoryRequest{Name: "  Frozen  "})
			Expect(err).NotTo(HaveOccurred())
			Expect(cat.ID).To(BeNumerically(">", 0))
			Expect(cat.Name).To(Equal("Frozen"))
		})

		It("should reject staff without the add permission", func() {
			_, err := service.Create(ctx, staff, category.CategoryRequest{Name: "Frozen"})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodePermissionDenied))
			Expect(appErr.Severity()).To(Equal(internal.SeverityWarning))
			Expect(mockRepo.categories).To(BeEmpty())
		})

		It("should reject non-staff even with the permission", func() {
			_, err := service.Create(ctx, customer, category.CategoryRequest{Name: "Frozen"})
			Expect(errors.Is(err, internal.ErrStaffRequired)).To(BeTrue())
		})

		It("should require authentication", func() {
			_, err := service.Create(ctx, nil, category.CategoryRequest{Name: "Frozen"})
			Expect(errors.Is(err, internal.ErrAuthenticationRequired)).To(BeTrue())
		})

		It("should report duplicate names", func() {
			mockRepo.AddCategory("Frozen")
			_, err := service.Create(ctx, manager, category.CategoryRequest{Name: "Frozen"})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeDuplicateKey))
			Expect(mockRepo.categories).To(HaveLen(1))
		})

		It("should validate the name", func() {
			_, err := service.Create(ctx, manager, category.CategoryRequest{Name: "   "})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
		})
	})

	Describe("Update", func() {
		It("should rename an existing category", func() {
			id := mockRepo.AddCategory("Frozen")
			cat, err := service.Update(ctx, manager, id, category.CategoryRequest{Name: "Frozen Food"})
			Expect(err).NotTo(HaveOccurred())
			Expect(cat.Name).To(Equal("Frozen Food"))
			Expect(mockRepo.categories[id].Name).To(Equal("Frozen Food"))
		})

		It("should allow keeping the same name", func() {
			id := mockRepo.AddCategory("Frozen")
			_, err := service.Update(ctx, manager, id, category.CategoryRequest{Name: "Frozen"})
			Expect(err).NotTo(HaveOccurred())
		})

		It("should return not found for a missing id", func() {
			_, err := service.Update(ctx, manager, 99, category.CategoryRequest{Name: "Frozen"})
			Expect(errors.Is(err, internal.ErrCategoryNotFound)).To(BeTrue())
		})
	})

	Describe("Delete", func() {
		It("should delete an unreferenced category", func() {
			id := mockRepo.AddCategory("Frozen")
			Expect(service.Delete(ctx, manager, id)).To(Succeed())
			Expect(mockRepo.categories).NotTo(HaveKey(id))
		})

		It("should refuse while products reference the category", func() {
			id := mockRepo.AddCategory("Frozen")
			mockRepo.productCounts[id] = 2

			err := service.Delete(ctx, manager, id)
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeReferentialIntegrity))
			Expect(mockRepo.categories).To(HaveKey(id))
		})

		It("should report referential integrity when a product lands after the usage check", func() {
			id := mockRepo.AddCategory("Frozen")
			mockRepo.deleteErr = internal.ErrCategoryInUse

			err := service.Delete(ctx, manager, id)
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeReferentialIntegrity))
			Expect(appErr.StatusCode).To(Equal(http.StatusConflict))
			Expect(mockRepo.categories).To(HaveKey(id))
		})

		It("should return not found for a missing id", func() {
			err := service.Delete(ctx, manager, 42)
			Expect(errors.Is(err, internal.ErrCategoryNotFound)).To(BeTrue())
		})
	})

	Describe("GetOrCreate", func() {
		It("should reuse an existing category", func() {
			id := mockRepo.AddCategory("Dairy")
			cat, err := service.GetOrCreate(ctx, "Dairy")
			Expect(err).NotTo(HaveOccurred())
			Expect(cat.ID).To(Equal(id))
			Expect(mockRepo.categories).To(HaveLen(1))
		})

		It("should create a missing category", func() {
			cat, err := service.GetOrCreate(ctx, "Snacks")
			Expect(err).NotTo(HaveOccurred())
			Expect(cat.ID).To(BeNumerically(">", 0))
			Expect(mockRepo.categories).To(HaveLen(1))
		})
	})
})
