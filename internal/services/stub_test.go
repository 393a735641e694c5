package services

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/fathima-sithara/vidstream/internal/auth"
	"github.com/fathima-sithara/vidstream/internal/config"
	"github.com/fathima-sithara/vidstream/internal/events"
	"github.com/fathima-sithara/vidstream/internal/models"
	"github.com/fathima-sithara/vidstream/internal/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*models.User)}
}

func (r *memUserRepo) Create(_ context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Username == u.Username || existing.Email == u.Email {
			return repository.ErrDuplicateUser
		}
	}
	u.ID = primitive.NewObjectID()
	clone := *u
	r.users[u.ID.Hex()] = &clone
	return nil
}

func (r *memUserRepo) FindByID(_ context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *memUserRepo) FindSanitizedByID(ctx context.Context, id string) (*models.User, error) {
	u, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return u.Sanitized(), nil
}

func (r *memUserRepo) FindByUsernameOrEmail(_ context.Context, username, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	username = strings.ToLower(username)
	email = strings.ToLower(email)
	for _, u := range r.users {
		if (username != "" && u.Username == username) || (email != "" && u.Email == email) {
			clone := *u
			return &clone, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (r *memUserRepo) SetRefreshToken(_ context.Context, id, token string) error {
	return r.mutate(id, func(u *models.User) { u.RefreshToken = token })
}

func (r *memUserRepo) ClearRefreshToken(_ context.Context, id string) error {
	return r.mutate(id, func(u *models.User) { u.RefreshToken = "" })
}

func (r *memUserRepo) UpdatePassword(_ context.Context, id, hash string) error {
	return r.mutate(id, func(u *models.User) { u.Password = hash })
}

func (r *memUserRepo) UpdateAccountDetails(ctx context.Context, id, fullName, email string) (*models.User, error) {
	if err := r.mutate(id, func(u *models.User) {
		u.FullName = fullName
		u.Email = strings.ToLower(email)
	}); err != nil {
		return nil, err
	}
	return r.FindSanitizedByID(ctx, id)
}

func (r *memUserRepo) UpdateAvatar(ctx context.Context, id, url string) (*models.User, error) {
	if err := r.mutate(id, func(u *models.User) { u.Avatar = url }); err != nil {
		return nil, err
	}
	return r.FindSanitizedByID(ctx, id)
}

func (r *memUserRepo) UpdateCoverImage(ctx context.Context, id, url string) (*models.User, error) {
	if err := r.mutate(id, func(u *models.User) { u.CoverImage = url }); err != nil {
		return nil, err
	}
	return r.FindSanitizedByID(ctx, id)
}

func (r *memUserRepo) AddToWatchHistory(_ context.Context, id string, videoID primitive.ObjectID) error {
	return r.mutate(id, func(u *models.User) {
		for _, existing := range u.WatchHistory {
			if existing == videoID {
				return
			}
		}
		u.WatchHistory = append(u.WatchHistory, videoID)
	})
}

func (r *memUserRepo) ChannelProfile(_ context.Context, username string, _ *primitive.ObjectID) (*models.ChannelProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == strings.ToLower(username) {
			return &models.ChannelProfile{
				ID:       u.ID,
				FullName: u.FullName,
				Username: u.Username,
				Email:    u.Email,
				Avatar:   u.Avatar,
			}, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (r *memUserRepo) WatchHistory(_ context.Context, id string) ([]models.WatchVideo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	out := make([]models.WatchVideo, 0, len(u.WatchHistory))
	for _, vid := range u.WatchHistory {
		out = append(out, models.WatchVideo{ID: vid})
	}
	return out, nil
}

func (r *memUserRepo) mutate(id string, fn func(*models.User)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	fn(u)
	return nil
}

type memVideoRepo struct {
	mu     sync.Mutex
	videos map[string]*models.Video
}

func newMemVideoRepo() *memVideoRepo {
	return &memVideoRepo{videos: make(map[string]*models.Video)}
}

func (r *memVideoRepo) Insert(_ context.Context, v *models.Video) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	v.ID = primitive.NewObjectID()
	clone := *v
	r.videos[v.ID.Hex()] = &clone
	return nil
}

func (r *memVideoRepo) FindByID(_ context.Context, id string) (*models.Video, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.videos[id]
	if !ok {
		return nil, repository.ErrVideoNotFound
	}
	clone := *v
	return &clone, nil
}

func (r *memVideoRepo) IncrementViews(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.videos[id]
	if !ok {
		return repository.ErrVideoNotFound
	}
	v.Views++
	return nil
}

type stubUploader struct {
	fail  bool
	calls int
}

func (u *stubUploader) Upload(_ context.Context, filename, _ string, _ []byte) (string, error) {
	if u.fail {
		return "", errors.New("media host unavailable")
	}
	u.calls++
	return "https://cdn.test/" + filename, nil
}

func testTokenManager() *auth.TokenManager {
	return auth.NewTokenManager(config.JWTConf{
		AccessSecret:     "test-access-secret",
		AccessTTLMinutes: 5,
		RefreshSecret:    "test-refresh-secret",
		RefreshTTLDays:   1,
	})
}

func newTestAuthService(repo repository.UserRepository, uploader *stubUploader) *AuthService {
	return NewAuthService(repo, testTokenManager(), uploader, events.NewPublisher(nil, ""), zap.NewNop().Sugar(), 4)
}

func avatarFile() *UploadFile {
	return &UploadFile{Filename: "avatar.png", ContentType: "image/png", Data: []byte{1, 2, 3}}
}

func registerInput() RegisterInput {
	return RegisterInput{
		Username: "alice",
		Email:    "alice@x.com",
		FullName: "Alice A",
		Password: "p@ss1",
		Avatar:   avatarFile(),
	}
}
