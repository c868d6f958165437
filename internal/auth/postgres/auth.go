package postgres

import (
	"context"
	"errors"

	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal/auth"
	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal/core/database"
	userdm "github.com/Abdulrahman-Alsuhaymi/Stocker/internal/core/datamodel/user"
	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal/core/user"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) auth.RepositoryAPI {
	return &Repository{db: db}
}

func (r *Repository) GetCredentials(ctx context.Context, username string) (*auth.Credentials, error) {
	var u userdm.User
	err := database.GetDB(ctx, r.db).Where("username = ?", username).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &auth.Credentials{
		UserID:       u.ID,
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		IsActive:     u.IsActive,
	}, nil
}

func (r *Repository) GetActor(ctx context.Context, userID int64) (*user.Actor, error) {
	db := database.GetDB(ctx, r.db)

	var u userdm.User
	err := db.Where("id = ? AND is_active = ?", userID, true).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var permissions []string
	err = db.Table("permissions AS p").
		Joins("JOIN user_permissions up ON p.id = up.permission_id").
		Where("up.user_id = ?", userID).
		Order("p.name ASC").
		Pluck("p.name", &permissions).Error
	if err != nil {
		return nil, err
	}

	return &user.Actor{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		IsStaff:     u.IsStaff,
		Permissions: permissions,
	}, nil
}
