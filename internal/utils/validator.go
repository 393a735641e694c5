package utils

import (
	"errors"
	"mime/multipart"
)

const maxUploadSize = 50 * 1024 * 1024

var allowedImageTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/jpg":  true,
	"image/webp": true,
}

var allowedVideoTypes = map[string]bool{
	"video/mp4":  true,
	"video/webm": true,
}

// ValidateImageHeader checks size and content type of an uploaded image.
func ValidateImageHeader(h *multipart.FileHeader) error {
	if h.Size == 0 || h.Size > maxUploadSize {
		return errors.New("file size not allowed")
	}
	if !allowedImageTypes[h.Header.Get("Content-Type")] {
		return errors.New("invalid content type")
	}
	return nil
}

// ValidateVideoHeader checks size and content type of an uploaded video.
func ValidateVideoHeader(h *multipart.FileHeader) error {
	if h.Size == 0 || h.Size > maxUploadSize {
		return errors.New("file size not allowed")
	}
	if !allowedVideoTypes[h.Header.Get("Content-Type")] {
		return errors.New("invalid content type")
	}
	return nil
}
