package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fathima-sithara/vidstream/internal/auth"
	"github.com/fathima-sithara/vidstream/internal/events"
	"github.com/fathima-sithara/vidstream/internal/media"
	"github.com/fathima-sithara/vidstream/internal/models"
	"github.com/fathima-sithara/vidstream/internal/repository"
	"go.uber.org/zap"
)

// AuthService orchestrates the session-token lifecycle: registration, login,
// refresh rotation, logout and password change.
type AuthService struct {
	users    repository.UserRepository
	tokens   *auth.TokenManager
	uploader media.Uploader
	events   *events.Publisher
	log      *zap.SugaredLogger
	hashCost int
}

func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenManager,
	uploader media.Uploader,
	publisher *events.Publisher,
	logger *zap.SugaredLogger,
	hashCost int,
) *AuthService {
	return &AuthService{
		users:    users,
		tokens:   tokens,
		uploader: uploader,
		events:   publisher,
		log:      logger,
		hashCost: hashCost,
	}
}

// RegisterInput carries validated form fields plus the extracted file slots:
// avatar is mandatory, cover image optional.
type RegisterInput struct {
	Username   string
	Email      string
	FullName   string
	Password   string
	Avatar     *UploadFile
	CoverImage *UploadFile
}

// TokenPair is the result of a login or refresh.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	for _, field := range []string{in.Username, in.Email, in.FullName, in.Password} {
		if strings.TrimSpace(field) == "" {
			return nil, ErrMissingFields
		}
	}
	if in.Avatar == nil {
		return nil, ErrAvatarRequired
	}

	if _, err := s.users.FindByUsernameOrEmail(ctx, in.Username, in.Email); err == nil {
		return nil, ErrUserExists
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	avatarURL, err := s.uploader.Upload(ctx, in.Avatar.Filename, in.Avatar.ContentType, in.Avatar.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: avatar: %v", ErrUploadFailed, err)
	}

	coverURL := ""
	if in.CoverImage != nil {
		coverURL, err = s.uploader.Upload(ctx, in.CoverImage.Filename, in.CoverImage.ContentType, in.CoverImage.Data)
		if err != nil {
			// cover image is optional, register proceeds without it
			s.log.Warnw("cover image upload failed", "error", err)
			coverURL = ""
		}
	}

	u, err := models.NewUser(in.Username, in.Email, in.FullName, in.Password, s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	u.Avatar = avatarURL
	u.CoverImage = coverURL

	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicateUser) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	created, err := s.users.FindSanitizedByID(ctx, u.ID.Hex())
	if err != nil {
		return nil, fmt.Errorf("failed to load created user: %w", err)
	}

	if err := s.events.UserRegistered(ctx, created.ID.Hex()); err != nil {
		s.log.Warnw("failed to publish user.registered", "error", err)
	}
	return created, nil
}

// Login verifies credentials, issues a token pair and installs the refresh
// token on the record, superseding any previous one.
func (s *AuthService) Login(ctx context.Context, username, email, password string) (*models.User, *TokenPair, error) {
	if strings.TrimSpace(username) == "" && strings.TrimSpace(email) == "" {
		return nil, nil, ErrMissingIdentifier
	}

	u, err := s.users.FindByUsernameOrEmail(ctx, username, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, nil, ErrUserNotFound
		}
		return nil, nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !u.CheckPassword(password) {
		return nil, nil, ErrInvalidCredentials
	}

	pair, err := s.issueTokens(ctx, u)
	if err != nil {
		return nil, nil, err
	}

	loggedIn, err := s.users.FindSanitizedByID(ctx, u.ID.Hex())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load user after login: %w", err)
	}

	if err := s.events.UserLoggedIn(ctx, u.ID.Hex()); err != nil {
		s.log.Warnw("failed to publish user.logged_in", "error", err)
	}
	return loggedIn, pair, nil
}

// Refresh rotates the token pair. A presented refresh token is honored only
// if it verifies cryptographically AND matches the record's stored token, so
// logout and superseding logins revoke it server-side.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	if refreshToken == "" {
		return nil, ErrInvalidRefresh
	}

	claims, err := s.tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidRefresh
	}

	u, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, ErrInvalidRefresh
	}

	if u.RefreshToken == "" || u.RefreshToken != refreshToken {
		return nil, ErrInvalidRefresh
	}

	return s.issueTokens(ctx, u)
}

// Logout clears the stored refresh token so the issued one can no longer be
// redeemed.
func (s *AuthService) Logout(ctx context.Context, userID string) error {
	return s.users.ClearRefreshToken(ctx, userID)
}

// ChangePassword verifies the old password and re-hashes the new one. The
// stored refresh token is left in place.
func (s *AuthService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	if strings.TrimSpace(oldPassword) == "" || strings.TrimSpace(newPassword) == "" {
		return ErrMissingFields
	}

	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	if !u.CheckPassword(oldPassword) {
		return ErrInvalidOldPassword
	}

	hash, err := models.HashPassword(newPassword, s.hashCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.users.UpdatePassword(ctx, userID, hash)
}

func (s *AuthService) issueTokens(ctx context.Context, u *models.User) (*TokenPair, error) {
	access, _, err := s.tokens.GenerateAccessToken(u)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	refresh, _, err := s.tokens.GenerateRefreshToken(u.ID.Hex())
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}
	if err := s.users.SetRefreshToken(ctx, u.ID.Hex(), refresh); err != nil {
		return nil, fmt.Errorf("failed to persist refresh token: %w", err)
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
