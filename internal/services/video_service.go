package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fathima-sithara/vidstream/internal/events"
	"github.com/fathima-sithara/vidstream/internal/media"
	"github.com/fathima-sithara/vidstream/internal/models"
	"github.com/fathima-sithara/vidstream/internal/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// VideoService handles publishing and watching videos.
type VideoService struct {
	videos   repository.VideoRepository
	users    repository.UserRepository
	uploader media.Uploader
	events   *events.Publisher
	log      *zap.SugaredLogger
}

func NewVideoService(
	videos repository.VideoRepository,
	users repository.UserRepository,
	uploader media.Uploader,
	publisher *events.Publisher,
	logger *zap.SugaredLogger,
) *VideoService {
	return &VideoService{videos: videos, users: users, uploader: uploader, events: publisher, log: logger}
}

// PublishInput carries the video form fields and the two mandatory files.
type PublishInput struct {
	Title       string
	Description string
	Duration    float64
	VideoFile   *UploadFile
	Thumbnail   *UploadFile
}

func (s *VideoService) Publish(ctx context.Context, ownerID string, in PublishInput) (*models.Video, error) {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Description) == "" {
		return nil, ErrMissingFields
	}
	if in.VideoFile == nil || in.Thumbnail == nil {
		return nil, ErrMissingFields
	}

	owner, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	videoURL, err := s.uploader.Upload(ctx, in.VideoFile.Filename, in.VideoFile.ContentType, in.VideoFile.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: video: %v", ErrUploadFailed, err)
	}
	thumbURL, err := s.uploader.Upload(ctx, in.Thumbnail.Filename, in.Thumbnail.ContentType, in.Thumbnail.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: thumbnail: %v", ErrUploadFailed, err)
	}

	v := &models.Video{
		VideoFile:   videoURL,
		Thumbnail:   thumbURL,
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Duration:    in.Duration,
		IsPublished: true,
		Owner:       owner,
	}
	if err := s.videos.Insert(ctx, v); err != nil {
		return nil, fmt.Errorf("failed to create video: %w", err)
	}
	return v, nil
}

// Watch returns a video, counts the view and appends it to the viewer's
// watch history.
func (s *VideoService) Watch(ctx context.Context, userID, videoID string) (*models.Video, error) {
	v, err := s.videos.FindByID(ctx, videoID)
	if err != nil {
		if errors.Is(err, repository.ErrVideoNotFound) {
			return nil, ErrVideoNotFound
		}
		return nil, fmt.Errorf("failed to find video: %w", err)
	}

	if err := s.videos.IncrementViews(ctx, videoID); err != nil {
		s.log.Warnw("failed to increment views", "video", videoID, "error", err)
	} else {
		v.Views++
	}

	if err := s.users.AddToWatchHistory(ctx, userID, v.ID); err != nil {
		s.log.Warnw("failed to append watch history", "user", userID, "error", err)
	}

	if err := s.events.VideoWatched(ctx, userID, videoID); err != nil {
		s.log.Warnw("failed to publish video.watched", "error", err)
	}
	return v, nil
}
