package postgres_test

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"testing"

	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal"
	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal/core/database"
	userDatamodel "github.com/Abdulrahman-Alsuhaymi/Stocker/internal/core/datamodel/user"
	coreuser "github.com/Abdulrahman-Alsuhaymi/Stocker/internal/core/user"
	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal/user"
	userPostgres "github.com/Abdulrahman-Alsuhaymi/Stocker/internal/user/postgres"
	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestUserPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "User Postgres Suite")
}

// failingProfiles makes the second insert of a registration fail.
type failingProfiles struct {
	user.RepositoryAPI
}

func (f failingProfiles) CreateProfile(ctx context.Context, p *userDatamodel.Profile) error {
	return errors.New("profile insert failed")
}

var _ = Describe("User Repository", func() {
	var (
		ctx     context.Context
		db      *gorm.DB
		repo    user.RepositoryAPI
		service *user.Service
	)

	BeforeEach(func() {
		ctx = context.Background()
		dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
		var err error
		db, err = gorm.Open(sqlite.Open(dsn), &gorm.Config{
			Logger:         logger.Default.LogMode(logger.Silent),
			TranslateError: true,
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(db.AutoMigrate(&userDatamodel.User{}, &userDatamodel.Profile{})).To(Succeed())

		repo = userPostgres.NewUserRepository(db)
		lg := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = user.NewService(repo, database.NewTransactionManager(db), bcrypt.MinCost, lg)
	})

	request := user.RegisterRequest{Username: "sara", Password: "s3cret-pass", Email: "sara@example.com"}

	It("registers a user with exactly one profile", func() {
		u, err := service.Register(ctx, request, nil)
		Expect(err).NotTo(HaveOccurred())

		stored, err := repo.GetByID(ctx, u.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(stored.Profile).NotTo(BeNil())
		Expect(stored.Profile.Avatar).To(Equal(user.DefaultAvatar))

		var profiles int64
		Expect(db.Model(&userDatamodel.Profile{}).Where("user_id = ?", u.ID).Count(&profiles).Error).To(Succeed())
		Expect(profiles).To(Equal(int64(1)))
	})

	It("leaves no orphan rows on a duplicate username", func() {
		_, err := service.Register(ctx, request, nil)
		Expect(err).NotTo(HaveOccurred())

		_, err = service.Register(ctx, request, nil)
		Expect(err).To(MatchError(user.ErrDuplicateUsername))

		var users, profiles int64
		Expect(db.Model(&userDatamodel.User{}).Count(&users).Error).To(Succeed())
		Expect(db.Model(&userDatamodel.Profile{}).Count(&profiles).Error).To(Succeed())
		Expect(users).To(Equal(int64(1)))
		Expect(profiles).To(Equal(int64(1)))
	})

	It("translates the unique index on username", func() {
		Expect(repo.CreateUser(ctx, &userDatamodel.User{Username: "dup", PasswordHash: "x"})).To(Succeed())
		err := repo.CreateUser(ctx, &userDatamodel.User{Username: "dup", PasswordHash: "x"})
		Expect(err).To(MatchError(user.ErrDuplicateUsername))
	})

	It("rolls back the user when the profile insert fails", func() {
		lg := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		broken := user.NewService(failingProfiles{repo}, database.NewTransactionManager(db), bcrypt.MinCost, lg)

		_, err := broken.Register(ctx, request, nil)
		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.Code).To(Equal(internal.ErrCodeRegistrationFailed))

		var users int64
		Expect(db.Model(&userDatamodel.User{}).Count(&users).Error).To(Succeed())
		Expect(users).To(BeZero())
	})

	It("saves profile updates", func() {
		u, err := service.Register(ctx, request, nil)
		Expect(err).NotTo(HaveOccurred())

		manager := true
		email := "alerts@example.com"
		_, err = service.UpdateProfile(ctx, actorFor(u), user.ProfileUpdateRequest{IsManager: &manager, NotificationEmail: &email}, nil)
		Expect(err).NotTo(HaveOccurred())

		stored, err := repo.GetByID(ctx, u.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(stored.Profile.IsManager).To(BeTrue())
		Expect(stored.Profile.NotificationEmail).To(Equal(email))
		Expect(stored.Email).To(Equal("sara@example.com"))
	})
})

func actorFor(u *user.User) *coreuser.Actor {
	return &coreuser.Actor{ID: u.ID, Username: u.Username}
}
