package auth

import (
	"context"
	"log/slog"
	"strings"

	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal"
	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal/core/common/validation"
	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal/core/user"
)

type RepositoryAPI interface {
	GetCredentials(ctx context.Context, username string) (*Credentials, error)
	// GetActor returns nil for unknown or inactive users.
	GetActor(ctx context.Context, userID int64) (*user.Actor, error)
}

type ServiceAPI interface {
	Authenticate(ctx context.Context, dto LoginDTO) (AuthTokens, error)
	RefreshTokens(ctx context.Context, refreshToken string) (AuthTokens, error)
	ActorForToken(ctx context.Context, accessToken string) (*user.Actor, error)
}

// Service is the main auth service with dependencies
type Service struct {
	repo   RepositoryAPI
	tokens TokenGenerator
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, tokens TokenGenerator, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		tokens: tokens,
		logger: logger,
	}
}

// Authenticate checks the username and password and issues a token pair.
func (s *Service) Authenticate(ctx context.Context, dto LoginDTO) (AuthTokens, error) {
	dto.Username = strings.TrimSpace(dto.Username)
	if appErr := validation.Struct(dto); appErr != nil {
		return AuthTokens{}, appErr
	}

	creds, err := s.repo.GetCredentials(ctx, dto.Username)
	if err != nil {
		return AuthTokens{}, internal.NewInternalError("failed to load credentials", err)
	}
	if creds == nil || VerifyPassword(creds.PasswordHash, dto.Password) != nil {
		s.logger.Warn("login failed", "username", dto.Username)
		return AuthTokens{}, internal.ErrInvalidCredentials
	}
	if !creds.IsActive {
		return AuthTokens{}, internal.ErrUserInactive
	}

	s.logger.Info("user logged in", "user_id", creds.UserID)
	return s.issue(creds.UserID, creds.Username)
}

// RefreshTokens exchanges a valid refresh token for a new pair.
func (s *Service) RefreshTokens(ctx context.Context, refreshToken string) (AuthTokens, error) {
	if appErr := validation.Struct(RefreshTokenDTO{RefreshToken: refreshToken}); appErr != nil {
		return AuthTokens{}, appErr
	}

	claims, err := s.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		return AuthTokens{}, err
	}

	actor, err := s.repo.GetActor(ctx, claims.UserID)
	if err != nil {
		return AuthTokens{}, internal.NewInternalError("failed to load user", err)
	}
	if actor == nil {
		return AuthTokens{}, internal.ErrUserInactive
	}

	return s.issue(actor.ID, actor.Username)
}

// ActorForToken resolves an access token to the user it was issued for, with
// permissions loaded fresh from storage.
func (s *Service) ActorForToken(ctx context.Context, accessToken string) (*user.Actor, error) {
	claims, err := s.tokens.ValidateAccessToken(accessToken)
	if err != nil {
		return nil, err
	}

	actor, err := s.repo.GetActor(ctx, claims.UserID)
	if err != nil {
		return nil, internal.NewInternalError("failed to load user", err)
	}
	if actor == nil {
		return nil, internal.ErrUserInactive
	}
	return actor, nil
}

func (s *Service) issue(userID int64, username string) (AuthTokens, error) {
	access, err := s.tokens.GenerateAccessToken(userID, username)
	if err != nil {
		return AuthTokens{}, internal.NewInternalError("failed to sign access token", err)
	}
	refresh, err := s.tokens.GenerateRefreshToken(userID, username)
	if err != nil {
		return AuthTokens{}, internal.NewInternalError("failed to sign refresh token", err)
	}
	return AuthTokens{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.tokens.AccessTokenTTL().Seconds()),
	}, nil
}
