package postgres

import (
	"context"
	"errors"

	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal/core/database"
	userDatamodel "github.com/Abdulrahman-Alsuhaymi/Stocker/internal/core/datamodel/user"
	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal/user"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) user.RepositoryAPI {
	return &Repository{db: db}
}

func (r *Repository) UsernameExists(ctx context.Context, username string) (bool, error) {
	var count int64
	err := database.GetDB(ctx, r.db).Model(&userDatamodel.User{}).
		Where("username = ?", username).
		Count(&count).Error
	return count > 0, err
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*userDatamodel.User, error) {
	var u userDatamodel.User
	err := database.GetDB(ctx, r.db).Preload("Profile").First(&u, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *Repository) CreateUser(ctx context.Context, u *userDatamodel.User) error {
	err := database.GetDB(ctx, r.db).Omit("Profile").Create(u).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return user.ErrDuplicateUsername
	}
	return err
}

func (r *Repository) CreateProfile(ctx context.Context, p *userDatamodel.Profile) error {
	return database.GetDB(ctx, r.db).Create(p).Error
}

func (r *Repository) UpdateUser(ctx context.Context, u *userDatamodel.User) error {
	return database.GetDB(ctx, r.db).Omit("Profile").Save(u).Error
}

// SaveProfile inserts the profile when it has no id yet.
func (r *Repository) SaveProfile(ctx context.Context, p *userDatamodel.Profile) error {
	return database.GetDB(ctx, r.db).Save(p).Error
}
