package repository

import (
	"context"
	"errors"

	"github.com/fathima-sithara/vidstream/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrDuplicateUser = errors.New("user already exists")
	ErrVideoNotFound = errors.New("video not found")
)

// UserRepository is the credential store contract over the users collection.
type UserRepository interface {
	Create(ctx context.Context, u *models.User) error
	FindByID(ctx context.Context, id string) (*models.User, error)
	// FindSanitizedByID loads a user with password and refresh token excluded
	// from the projection.
	FindSanitizedByID(ctx context.Context, id string) (*models.User, error)
	FindByUsernameOrEmail(ctx context.Context, username, email string) (*models.User, error)
	SetRefreshToken(ctx context.Context, id, token string) error
	ClearRefreshToken(ctx context.Context, id string) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	UpdateAccountDetails(ctx context.Context, id, fullName, email string) (*models.User, error)
	UpdateAvatar(ctx context.Context, id, url string) (*models.User, error)
	UpdateCoverImage(ctx context.Context, id, url string) (*models.User, error)
	AddToWatchHistory(ctx context.Context, id string, videoID primitive.ObjectID) error
	ChannelProfile(ctx context.Context, username string, viewerID *primitive.ObjectID) (*models.ChannelProfile, error)
	WatchHistory(ctx context.Context, id string) ([]models.WatchVideo, error)
}

// VideoRepository owns the videos collection.
type VideoRepository interface {
	Insert(ctx context.Context, v *models.Video) error
	FindByID(ctx context.Context, id string) (*models.Video, error)
	IncrementViews(ctx context.Context, id string) error
}
