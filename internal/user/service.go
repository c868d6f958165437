package user

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal"
	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal/auth"
	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal/core/common/validation"
	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal/core/database"
	userDatamodel "github.com/Abdulrahman-Alsuhaymi/Stocker/internal/core/datamodel/user"
	coreuser "github.com/Abdulrahman-Alsuhaymi/Stocker/internal/core/user"
	"github.com/Abdulrahman-Alsuhaymi/Stocker/pkg/storage"
)

var ErrDuplicateUsername = internal.NewDuplicateKey("username", "A user with that username already exists.")

type RepositoryAPI interface {
	UsernameExists(ctx context.Context, username string) (bool, error)
	// GetByID preloads the profile and returns nil for an unknown id.
	GetByID(ctx context.Context, id int64) (*userDatamodel.User, error)
	CreateUser(ctx context.Context, u *userDatamodel.User) error
	CreateProfile(ctx context.Context, p *userDatamodel.Profile) error
	UpdateUser(ctx context.Context, u *userDatamodel.User) error
	SaveProfile(ctx context.Context, p *userDatamodel.Profile) error
}

type Service struct {
	repo       RepositoryAPI
	tx         database.TransactionManager
	images     storage.ImageStorage
	folder     string
	bcryptCost int
	logger     *slog.Logger
}

func NewService(repo RepositoryAPI, tx database.TransactionManager, bcryptCost int, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		tx:         tx,
		folder:     "images/avatars",
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// WithImages enables avatar uploads.
func (s *Service) WithImages(images storage.ImageStorage, folder string) *Service {
	s.images = images
	if folder != "" {
		s.folder = folder
	}
	return s
}

// Register creates the user and its profile together. A failure in either
// leaves nothing behind.
func (s *Service) Register(ctx context.Context, req RegisterRequest, avatar *Upload) (*User, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if appErr := validation.Struct(req); appErr != nil {
		return nil, appErr
	}

	exists, err := s.repo.UsernameExists(ctx, req.Username)
	if err != nil {
		return nil, internal.ErrRegistrationFailed.WithCause(err)
	}
	if exists {
		return nil, ErrDuplicateUsername
	}

	hash, err := auth.HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		return nil, internal.ErrRegistrationFailed.WithCause(err)
	}

	u := NewUser(req, hash)
	if avatar != nil {
		url, err := s.uploadAvatar(ctx, avatar)
		if err != nil {
			return nil, err
		}
		u.Profile.Avatar = url
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		userModel := ToDataModel(u)
		if err := s.repo.CreateUser(txCtx, userModel); err != nil {
			return err
		}
		u.ID = userModel.ID

		profileModel := ProfileToDataModel(u)
		if err := s.repo.CreateProfile(txCtx, profileModel); err != nil {
			return err
		}
		u.Profile.ID = profileModel.ID
		return nil
	})
	if err != nil {
		s.dropAvatar(ctx, u.Profile.Avatar)
		if errors.Is(err, ErrDuplicateUsername) {
			return nil, ErrDuplicateUsername
		}
		s.logger.Error("registration failed", "username", req.Username, "error", err)
		return nil, internal.ErrRegistrationFailed.WithCause(err)
	}

	s.logger.Info("user registered", "user_id", u.ID, "username", u.Username)
	return u, nil
}

func (s *Service) GetProfile(ctx context.Context, actor *coreuser.Actor) (*User, error) {
	if actor == nil {
		return nil, internal.ErrAuthenticationRequired
	}
	model, err := s.repo.GetByID(ctx, actor.ID)
	if err != nil {
		return nil, internal.NewInternalError("failed to load profile", err)
	}
	if model == nil {
		return nil, internal.ErrUserNotFound
	}
	return FromDataModel(model), nil
}

// UpdateProfile writes the user and profile rows in one transaction. Fields
// absent from req, and the avatar when none is uploaded, keep their values.
func (s *Service) UpdateProfile(ctx context.Context, actor *coreuser.Actor, req ProfileUpdateRequest, avatar *Upload) (*User, error) {
	if req.Email != nil {
		trimmed := strings.TrimSpace(*req.Email)
		req.Email = &trimmed
	}
	if appErr := validation.Struct(req); appErr != nil {
		return nil, appErr
	}

	u, err := s.GetProfile(ctx, actor)
	if err != nil {
		return nil, err
	}
	u.Apply(req)

	previousAvatar := u.Profile.Avatar
	if avatar != nil {
		url, err := s.uploadAvatar(ctx, avatar)
		if err != nil {
			return nil, err
		}
		u.Profile.Avatar = url
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.UpdateUser(txCtx, ToDataModel(u)); err != nil {
			return err
		}
		profileModel := ProfileToDataModel(u)
		if err := s.repo.SaveProfile(txCtx, profileModel); err != nil {
			return err
		}
		u.Profile.ID = profileModel.ID
		return nil
	})
	if err != nil {
		if u.Profile.Avatar != previousAvatar {
			s.dropAvatar(ctx, u.Profile.Avatar)
		}
		return nil, internal.NewInternalError("failed to update profile", err)
	}

	if u.Profile.Avatar != previousAvatar {
		s.dropAvatar(ctx, previousAvatar)
	}
	s.logger.Info("profile updated", "user_id", u.ID)
	return u, nil
}

func (s *Service) uploadAvatar(ctx context.Context, avatar *Upload) (string, error) {
	if s.images == nil {
		return "", internal.ErrStorageUnavailable
	}
	if !storage.IsImageFile(avatar.FileName) {
		return "", internal.NewValidationFieldError("avatar", "Upload a valid image.", internal.ErrCodeInvalidFile)
	}
	url, err := s.images.UploadImage(ctx, avatar.Reader, s.folder, avatar.FileName)
	if err != nil {
		return "", internal.NewExternalError("failed to upload avatar", internal.ErrCodeStorageUnavailable, err)
	}
	return url, nil
}

func (s *Service) dropAvatar(ctx context.Context, ref string) {
	if s.images == nil || storage.IsDefaultImage(ref) {
		return
	}
	if err := s.images.DeleteImage(ctx, ref); err != nil {
		s.logger.Warn("failed to delete avatar", "url", ref, "error", err)
	}
}
