package supplier_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
	"testing"

	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal"
	supplierDatamodel "github.com/Abdulrahman-Alsuhaymi/Stocker/internal/core/datamodel/supplier"
	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal/core/user"
	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal/supplier"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestSupplierService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Supplier Service Suite")
}

// MockRepository implements supplier.RepositoryAPI for testing
type MockRepository struct {
	suppliers  map[int64]*supplierDatamodel.Supplier
	nextID     int64
	shouldFail bool
	failError  error
}

func NewMockRepository() *MockRepository {
	return &MockRepository{suppliers: make(map[int64]*supplierDatamodel.Supplier)}
}

func (m *MockRepository) sorted() []*supplierDatamodel.Supplier {
	out := make([]*supplierDatamodel.Supplier, 0, len(m.suppliers))
	for _, s := range m.suppliers {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (m *MockRepository) GetByID(ctx context.Context, id int64) (*supplierDatamodel.Supplier, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	return m.suppliers[id], nil
}

func (m *MockRepository) GetByIDs(ctx context.Context, ids []int64) ([]*supplierDatamodel.Supplier, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	var out []*supplierDatamodel.Supplier
	for _, id := range ids {
		if s, ok := m.suppliers[id]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *MockRepository) Count(ctx context.Context) (int64, error) {
	if m.shouldFail {
		return 0, m.failError
	}
	return int64(len(m.suppliers)), nil
}

func (m *MockRepository) ListPage(ctx context.Context, offset, limit int) ([]*supplierDatamodel.Supplier, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	all := m.sorted()
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

// SearchByName mimics a case-insensitive LIKE so the service's case-sensitive filter is exercised.
func (m *MockRepository) SearchByName(ctx context.Context, pattern, orderBy string) ([]*supplierDatamodel.Supplier, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	needle := strings.ToLower(strings.Trim(pattern, "%"))
	var out []*supplierDatamodel.Supplier
	for _, s := range m.sorted() {
		if strings.Contains(strings.ToLower(s.Name), needle) {
			out = append(out, s)
		}
	}
	if orderBy == supplier.OrderByRating {
		sort.SliceStable(out, func(i, j int) bool { return out[i].Rating > out[j].Rating })
	}
	return out, nil
}

func (m *MockRepository) Create(ctx context.Context, s *supplierDatamodel.Supplier) error {
	if m.shouldFail {
		return m.failError
	}
	m.nextID++
	s.ID = m.nextID
	m.suppliers[s.ID] = s
	return nil
}

func (m *MockRepository) Update(ctx context.Context, s *supplierDatamodel.Supplier) error {
	if m.shouldFail {
		return m.failError
	}
	m.suppliers[s.ID] = s
	return nil
}

func (m *MockRepository) Delete(ctx context.Context, id int64) error {
	if m.shouldFail {
		return m.failError
	}
	delete(m.suppliers, id)
	return nil
}

func (m *MockRepository) SetShouldFail(shouldFail bool, err error) {
	m.shouldFail = shouldFail
	m.failError = err
}

func (m *MockRepository) AddSupplier(name string, rating int) int64 {
	s := &supplierDatamodel.Supplier{Name: name, Rating: rating, IsActive: true, Logo: supplier.DefaultLogo}
	_ = m.Create(context.Background(), s)
	return s.ID
}

// MockImageStorage records uploads and deletions.
type MockImageStorage struct {
	uploads   []string
	deleted   []string
	uploadErr error
}

func (m *MockImageStorage) UploadImage(ctx context.Context, r io.Reader, folder, fileName string) (string, error) {
	if m.uploadErr != nil {
		return "", m.uploadErr
	}
	url := fmt.Sprintf("https://res.cloudinary.com/demo/image/upload/%s/%s", folder, fileName)
	m.uploads = append(m.uploads, url)
	return url, nil
}

func (m *MockImageStorage) DeleteImage(ctx context.Context, fileURL string) error {
	m.deleted = append(m.deleted, fileURL)
	return nil
}

func intPtr(v int) *int { return &v }

func boolPtr(v bool) *bool { return &v }

var _ = Describe("Supplier Service", func() {
	var (
		ctx      context.Context
		mockRepo *MockRepository
		images   *MockImageStorage
		service  *supplier.Service
		manager  *user.Actor
		staff    *user.Actor
	)

	BeforeEach(func() {
		ctx = context.Background()
		mockRepo = NewMockRepository()
		images = &MockImageStorage{}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = supplier.NewService(mockRepo, images, "suppliers", logger)

		manager = &user.Actor{ID: 1, IsStaff: true, Permissions: []string{"add_supplier", "change_supplier", "delete_supplier"}}
		staff = &user.Actor{ID: 2, IsStaff: true}
	})

	Describe("RatingLabel", func() {
		It("should map every rating to its label", func() {
			Expect(supplier.RatingLabel(1)).To(Equal("Poor"))
			Expect(supplier.RatingLabel(3)).To(Equal("Good"))
			Expect(supplier.RatingLabel(5)).To(Equal("Excellent"))
			Expect(supplier.RatingLabel(9)).To(BeEmpty())
		})
	})

	Describe("Create", func() {
		It("should apply defaults for omitted fields", func() {
			sup, err := service.Create(ctx, manager, supplier.SupplierRequest{Name: "  Acme Foods "})
			Expect(err).NotTo(HaveOccurred())
			Expect(sup.ID).To(BeNumerically(">", 0))
			Expect(sup.Name).To(Equal("Acme Foods"))
			Expect(sup.Rating).To(Equal(supplier.DefaultRating))
			Expect(sup.IsActive).To(BeTrue())
			Expect(sup.Logo).To(Equal(supplier.DefaultLogo))
			Expect(*sup.CreatedByID).To(Equal(manager.ID))
		})

		It("should keep an explicit inactive flag and rating", func() {
			sup, err := service.Create(ctx, manager, supplier.SupplierRequest{
				Name: "Acme", IsActive: boolPtr(false), Rating: intPtr(5),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(sup.IsActive).To(BeFalse())
			Expect(sup.ToResponse().RatingLabel).To(Equal("Excellent"))
		})

		It("should reject a rating outside 1..5", func() {
			_, err := service.Create(ctx, manager, supplier.SupplierRequest{Name: "Acme", Rating: intPtr(6)})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
		})

		It("should reject an invalid email", func() {
			_, err := service.Create(ctx, manager, supplier.SupplierRequest{Name: "Acme", Email: "nope"})
			Expect(err).To(HaveOccurred())
		})

		It("should deny staff without the add permission", func() {
			_, err := service.Create(ctx, staff, supplier.SupplierRequest{Name: "Acme"})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodePermissionDenied))
			Expect(mockRepo.suppliers).To(BeEmpty())
		})

		It("should require authentication", func() {
			_, err := service.Create(ctx, nil, supplier.SupplierRequest{Name: "Acme"})
			Expect(errors.Is(err, internal.ErrAuthenticationRequired)).To(BeTrue())
		})
	})

	Describe("Update", func() {
		It("should keep the rating when it is omitted", func() {
			id := mockRepo.AddSupplier("Acme", 4)

			sup, err := service.Update(ctx, manager, id, supplier.SupplierRequest{Name: "Acme Ltd"})
			Expect(err).NotTo(HaveOccurred())
			Expect(sup.Name).To(Equal("Acme Ltd"))
			Expect(sup.Rating).To(Equal(4))
		})

		It("should return not found for a missing supplier", func() {
			_, err := service.Update(ctx, manager, 99, supplier.SupplierRequest{Name: "Acme"})
			Expect(errors.Is(err, internal.ErrSupplierNotFound)).To(BeTrue())
		})
	})

	Describe("List", func() {
		BeforeEach(func() {
			for i := 0; i < 8; i++ {
				mockRepo.AddSupplier(fmt.Sprintf("Supplier %d", i), 3)
			}
		})

		It("should return six suppliers per page", func() {
			page, err := service.List(ctx, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(page.Items).To(HaveLen(6))
			Expect(page.TotalPages).To(Equal(2))
			Expect(page.HasNext).To(BeTrue())
			Expect(page.Items[0].Name).To(Equal("Supplier 0"))
		})

		It("should clamp a page past the end to the last page", func() {
			page, err := service.List(ctx, 10)
			Expect(err).NotTo(HaveOccurred())
			Expect(page.Page).To(Equal(2))
			Expect(page.Items).To(HaveLen(2))
		})

		It("should surface repository failures", func() {
			mockRepo.SetShouldFail(true, errors.New("db down"))
			_, err := service.List(ctx, 1)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Search", func() {
		BeforeEach(func() {
			mockRepo.AddSupplier("Fresh Farms", 2)
			mockRepo.AddSupplier("Farmhouse Dairy", 5)
			mockRepo.AddSupplier("Global Foods", 4)
		})

		It("should return nothing for short queries", func() {
			resp, err := service.Search(ctx, "Fa", "")
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Suppliers).To(BeEmpty())
		})

		It("should match substrings case-sensitively", func() {
			resp, err := service.Search(ctx, "Farm", supplier.OrderByName)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Suppliers).To(HaveLen(2))

			resp, err = service.Search(ctx, "farm", supplier.OrderByName)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Suppliers).To(BeEmpty())
		})

		It("should order by rating descending", func() {
			resp, err := service.Search(ctx, "Farm", supplier.OrderByRating)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Suppliers[0].Name).To(Equal("Farmhouse Dairy"))
		})
	})

	Describe("Delete", func() {
		It("should remove the supplier and its uploaded logo", func() {
			id := mockRepo.AddSupplier("Acme", 3)
			mockRepo.suppliers[id].Logo = "https://res.cloudinary.com/demo/image/upload/v1/suppliers/acme.webp"

			Expect(service.Delete(ctx, manager, id)).To(Succeed())
			Expect(mockRepo.suppliers).NotTo(HaveKey(id))
			Expect(images.deleted).To(HaveLen(1))
		})

		It("should leave the default logo alone", func() {
			id := mockRepo.AddSupplier("Acme", 3)
			Expect(service.Delete(ctx, manager, id)).To(Succeed())
			Expect(images.deleted).To(BeEmpty())
		})

		It("should return not found for a missing supplier", func() {
			err := service.Delete(ctx, manager, 42)
			Expect(errors.Is(err, internal.ErrSupplierNotFound)).To(BeTrue())
		})
	})

	Describe("UploadLogo", func() {
		It("should store the new logo url", func() {
			id := mockRepo.AddSupplier("Acme", 3)

			sup, err := service.UploadLogo(ctx, manager, id, strings.NewReader("img"), "acme.png")
			Expect(err).NotTo(HaveOccurred())
			Expect(sup.Logo).To(HavePrefix("https://"))
			Expect(images.uploads).To(HaveLen(1))
		})

		It("should reject files that are not images", func() {
			id := mockRepo.AddSupplier("Acme", 3)
			_, err := service.UploadLogo(ctx, manager, id, strings.NewReader("x"), "notes.txt")
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeValidationFailed))
			details, ok := appErr.Details.(internal.ValidationErrors)
			Expect(ok).To(BeTrue())
			Expect(details.Errors).To(HaveLen(1))
			Expect(details.Errors[0].Field).To(Equal("logo"))
			Expect(details.Errors[0].Code).To(Equal(string(internal.ErrCodeInvalidFile)))
			Expect(images.uploads).To(BeEmpty())
		})

		It("should report unavailable storage", func() {
			logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
			noImages := supplier.NewService(mockRepo, nil, "", logger)
			id := mockRepo.AddSupplier("Acme", 3)

			_, err := noImages.UploadLogo(ctx, manager, id, strings.NewReader("img"), "acme.png")
			Expect(errors.Is(err, internal.ErrStorageUnavailable)).To(BeTrue())
		})
	})
})
