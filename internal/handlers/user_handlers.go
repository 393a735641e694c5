package handlers

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/fathima-sithara/vidstream/internal/middleware"
	"github.com/fathima-sithara/vidstream/internal/services"
	"github.com/fathima-sithara/vidstream/internal/utils"
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserHandler struct {
	authSvc *services.AuthService
	userSvc *services.UserService
}

func NewUserHandler(authSvc *services.AuthService, userSvc *services.UserService) *UserHandler {
	return &UserHandler{authSvc: authSvc, userSvc: userSvc}
}

// POST /register (multipart: username, email, fullName, password, avatar, coverImage?)
func (h *UserHandler) Register(c *fiber.Ctx) error {
	username := c.FormValue("username")
	if username == "" {
		username = c.FormValue("userName")
	}

	avatar, err := formFile(c, "avatar", utils.ValidateImageHeader)
	if err != nil {
		return err
	}
	cover, err := formFile(c, "coverImage", utils.ValidateImageHeader)
	if err != nil {
		return err
	}

	user, err := h.authSvc.Register(c.Context(), services.RegisterInput{
		Username:   username,
		Email:      c.FormValue("email"),
		FullName:   c.FormValue("fullName"),
		Password:   c.FormValue("password"),
		Avatar:     avatar,
		CoverImage: cover,
	})
	if err != nil {
		return fail(err)
	}
	return utils.JSONSuccess(c, fiber.StatusOK, user, "User registered successfully.")
}

type loginReq struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// POST /login
func (h *UserHandler) Login(c *fiber.Ctx) error {
	var req loginReq
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	user, pair, err := h.authSvc.Login(c.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		return fail(err)
	}

	setTokenCookie(c, "accessToken", pair.AccessToken)
	setTokenCookie(c, "refreshToken", pair.RefreshToken)
	return utils.JSONSuccess(c, fiber.StatusOK, fiber.Map{
		"user":         user,
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	}, "User logged in successfully.")
}

type refreshReq struct {
	RefreshToken string `json:"refreshToken"`
}

// POST /refresh-token (token from cookie, else body)
func (h *UserHandler) Refresh(c *fiber.Ctx) error {
	token := c.Cookies("refreshToken")
	if token == "" {
		var req refreshReq
		if err := c.BodyParser(&req); err == nil {
			token = req.RefreshToken
		}
	}

	pair, err := h.authSvc.Refresh(c.Context(), token)
	if err != nil {
		return fail(err)
	}

	setTokenCookie(c, "accessToken", pair.AccessToken)
	setTokenCookie(c, "refreshToken", pair.RefreshToken)
	return utils.JSONSuccess(c, fiber.StatusOK, fiber.Map{
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	}, "Access token refreshed.")
}

// POST /logout (authenticated)
func (h *UserHandler) Logout(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if err := h.authSvc.Logout(c.Context(), user.ID.Hex()); err != nil {
		return fail(err)
	}
	clearTokenCookie(c, "accessToken")
	clearTokenCookie(c, "refreshToken")
	return utils.JSONSuccess(c, fiber.StatusOK, fiber.Map{}, "User logged out.")
}

type changePasswordReq struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

// POST /change-password (authenticated)
func (h *UserHandler) ChangePassword(c *fiber.Ctx) error {
	var req changePasswordReq
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	user := middleware.CurrentUser(c)
	if err := h.authSvc.ChangePassword(c.Context(), user.ID.Hex(), req.OldPassword, req.NewPassword); err != nil {
		return fail(err)
	}
	return utils.JSONSuccess(c, fiber.StatusOK, fiber.Map{}, "Password changed successfully.")
}

// GET /current-user (authenticated)
func (h *UserHandler) CurrentUser(c *fiber.Ctx) error {
	return utils.JSONSuccess(c, fiber.StatusOK, middleware.CurrentUser(c), "Current user fetched successfully.")
}

type updateAccountReq struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

// PATCH /update-account (authenticated)
func (h *UserHandler) UpdateAccount(c *fiber.Ctx) error {
	var req updateAccountReq
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	user := middleware.CurrentUser(c)
	updated, err := h.userSvc.UpdateAccount(c.Context(), user.ID.Hex(), req.FullName, req.Email)
	if err != nil {
		return fail(err)
	}
	return utils.JSONSuccess(c, fiber.StatusOK, updated, "Account details updated successfully.")
}

// PATCH /avatar (authenticated, multipart: avatar)
func (h *UserHandler) UpdateAvatar(c *fiber.Ctx) error {
	file, err := formFile(c, "avatar", utils.ValidateImageHeader)
	if err != nil {
		return err
	}
	user := middleware.CurrentUser(c)
	updated, err := h.userSvc.UpdateAvatar(c.Context(), user.ID.Hex(), file)
	if err != nil {
		return fail(err)
	}
	return utils.JSONSuccess(c, fiber.StatusOK, updated, "Avatar updated successfully.")
}

// PATCH /cover-image (authenticated, multipart: coverImage)
func (h *UserHandler) UpdateCoverImage(c *fiber.Ctx) error {
	file, err := formFile(c, "coverImage", utils.ValidateImageHeader)
	if err != nil {
		return err
	}
	user := middleware.CurrentUser(c)
	updated, err := h.userSvc.UpdateCoverImage(c.Context(), user.ID.Hex(), file)
	if err != nil {
		return fail(err)
	}
	return utils.JSONSuccess(c, fiber.StatusOK, updated, "Cover image updated successfully.")
}

// GET /c/:username (viewer optional)
func (h *UserHandler) ChannelProfile(c *fiber.Ctx) error {
	var viewerID *primitive.ObjectID
	if user := middleware.CurrentUser(c); user != nil {
		id := user.ID
		viewerID = &id
	}
	profile, err := h.userSvc.ChannelProfile(c.Context(), c.Params("username"), viewerID)
	if err != nil {
		return fail(err)
	}
	return utils.JSONSuccess(c, fiber.StatusOK, profile, "User channel fetched successfully.")
}

// GET /history (authenticated)
func (h *UserHandler) WatchHistory(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	history, err := h.userSvc.WatchHistory(c.Context(), user.ID.Hex())
	if err != nil {
		return fail(err)
	}
	return utils.JSONSuccess(c, fiber.StatusOK, history, "Watch history fetched successfully.")
}

// fail maps the closed set of service errors to HTTP status codes; anything
// unrecognized is a 500 with a generic message.
func fail(err error) error {
	switch {
	case errors.Is(err, services.ErrMissingFields),
		errors.Is(err, services.ErrMissingIdentifier),
		errors.Is(err, services.ErrAvatarRequired):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrUserExists):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrVideoNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrInvalidOldPassword),
		errors.Is(err, services.ErrInvalidRefresh):
		return fiber.NewError(fiber.StatusUnauthorized, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "something went wrong")
	}
}

// formFile extracts an optional multipart file into a typed slot. A missing
// field yields a nil slot, not an error; presence requirements are enforced
// by the service layer.
func formFile(c *fiber.Ctx, field string, validate func(*multipart.FileHeader) error) (*services.UploadFile, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil, nil
	}
	if err := validate(fh); err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	f, err := fh.Open()
	if err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "cannot open uploaded file")
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "cannot read uploaded file")
	}

	ct := fh.Header.Get("Content-Type")
	if ct == "" {
		ct = http.DetectContentType(data)
	}
	return &services.UploadFile{Filename: fh.Filename, ContentType: ct, Data: data}, nil
}

// Session cookies are never readable by client-side script.
func setTokenCookie(c *fiber.Ctx, name, value string) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    value,
		HTTPOnly: true,
		Secure:   true,
	})
}

func clearTokenCookie(c *fiber.Ctx, name string) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Secure:   true,
	})
}
