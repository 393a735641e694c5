package media

import (
	"bytes"
	"context"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

// maxImageWidth bounds stored avatars and cover images.
const maxImageWidth = 1280

// Uploader turns an uploaded file into a durable hosted URL.
type Uploader interface {
	Upload(ctx context.Context, filename, contentType string, data []byte) (string, error)
}

// Store is the object storage backend behind the uploader.
type Store interface {
	Upload(ctx context.Context, key, contentType string, data []byte) (string, error)
}

// S3Uploader stores files under uuid-prefixed keys. Oversized images are
// downscaled before upload; undecodable payloads are stored as-is.
type S3Uploader struct {
	store Store
}

func NewS3Uploader(store Store) *S3Uploader {
	return &S3Uploader{store: store}
}

func (u *S3Uploader) Upload(ctx context.Context, filename, contentType string, data []byte) (string, error) {
	if strings.HasPrefix(contentType, "image/") {
		if resized, ok := downscale(data); ok {
			data = resized
			contentType = "image/jpeg"
		}
	}
	key := uuid.NewString() + "_" + filename
	return u.store.Upload(ctx, key, contentType, data)
}

func downscale(data []byte) ([]byte, bool) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, false
	}
	if img.Bounds().Dx() <= maxImageWidth {
		return nil, false
	}
	resized := imaging.Resize(img, maxImageWidth, 0, imaging.Lanczos)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, imaging.JPEG); err != nil {
		return nil, false
	}
	return buf.Bytes(), true
}
