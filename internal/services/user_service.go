package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fathima-sithara/vidstream/internal/media"
	"github.com/fathima-sithara/vidstream/internal/models"
	"github.com/fathima-sithara/vidstream/internal/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// UserService covers profile management and the channel/history queries.
type UserService struct {
	users    repository.UserRepository
	uploader media.Uploader
	log      *zap.SugaredLogger
}

func NewUserService(users repository.UserRepository, uploader media.Uploader, logger *zap.SugaredLogger) *UserService {
	return &UserService{users: users, uploader: uploader, log: logger}
}

func (s *UserService) UpdateAccount(ctx context.Context, userID, fullName, email string) (*models.User, error) {
	if strings.TrimSpace(fullName) == "" || strings.TrimSpace(email) == "" {
		return nil, ErrMissingFields
	}
	u, err := s.users.UpdateAccountDetails(ctx, userID, strings.TrimSpace(fullName), email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update account: %w", err)
	}
	return u, nil
}

func (s *UserService) UpdateAvatar(ctx context.Context, userID string, file *UploadFile) (*models.User, error) {
	if file == nil {
		return nil, ErrAvatarRequired
	}
	url, err := s.uploader.Upload(ctx, file.Filename, file.ContentType, file.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: avatar: %v", ErrUploadFailed, err)
	}
	u, err := s.users.UpdateAvatar(ctx, userID, url)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update avatar: %w", err)
	}
	return u, nil
}

func (s *UserService) UpdateCoverImage(ctx context.Context, userID string, file *UploadFile) (*models.User, error) {
	if file == nil {
		return nil, ErrMissingFields
	}
	url, err := s.uploader.Upload(ctx, file.Filename, file.ContentType, file.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: cover image: %v", ErrUploadFailed, err)
	}
	u, err := s.users.UpdateCoverImage(ctx, userID, url)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update cover image: %w", err)
	}
	return u, nil
}

// ChannelProfile resolves subscriber/subscribed-to counts for a channel and,
// when a viewer is known, whether the viewer subscribes to it.
func (s *UserService) ChannelProfile(ctx context.Context, username string, viewerID *primitive.ObjectID) (*models.ChannelProfile, error) {
	if strings.TrimSpace(username) == "" {
		return nil, ErrMissingFields
	}
	profile, err := s.users.ChannelProfile(ctx, username, viewerID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load channel profile: %w", err)
	}
	return profile, nil
}

func (s *UserService) WatchHistory(ctx context.Context, userID string) ([]models.WatchVideo, error) {
	history, err := s.users.WatchHistory(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load watch history: %w", err)
	}
	return history, nil
}
