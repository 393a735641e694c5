package services

import "errors"

// Closed set of failure kinds. Handlers map these to HTTP status codes; the
// Fiber error handler serializes them into the failure envelope.
var (
	ErrMissingFields      = errors.New("all fields are required")
	ErrMissingIdentifier  = errors.New("username or email is required")
	ErrAvatarRequired     = errors.New("avatar file is required")
	ErrUserExists         = errors.New("user with email or username already exists")
	ErrUserNotFound       = errors.New("user does not exist")
	ErrInvalidCredentials = errors.New("invalid user credentials")
	ErrInvalidOldPassword = errors.New("invalid old password")
	ErrInvalidRefresh     = errors.New("invalid refresh token")
	ErrVideoNotFound      = errors.New("video does not exist")
	ErrUploadFailed       = errors.New("file upload failed")
	ErrInternal           = errors.New("internal error")
)

// UploadFile is an uploaded file extracted from a multipart request.
type UploadFile struct {
	Filename    string
	ContentType string
	Data        []byte
}
