package handlers

import (
	"strconv"

	"github.com/fathima-sithara/vidstream/internal/middleware"
	"github.com/fathima-sithara/vidstream/internal/services"
	"github.com/fathima-sithara/vidstream/internal/utils"
	"github.com/gofiber/fiber/v2"
)

type VideoHandler struct {
	videoSvc *services.VideoService
}

func NewVideoHandler(videoSvc *services.VideoService) *VideoHandler {
	return &VideoHandler{videoSvc: videoSvc}
}

// POST /videos (authenticated, multipart: title, description, duration, videoFile, thumbnail)
func (h *VideoHandler) Publish(c *fiber.Ctx) error {
	videoFile, err := formFile(c, "videoFile", utils.ValidateVideoHeader)
	if err != nil {
		return err
	}
	thumbnail, err := formFile(c, "thumbnail", utils.ValidateImageHeader)
	if err != nil {
		return err
	}

	duration, _ := strconv.ParseFloat(c.FormValue("duration"), 64)
	user := middleware.CurrentUser(c)
	video, err := h.videoSvc.Publish(c.Context(), user.ID.Hex(), services.PublishInput{
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
		Duration:    duration,
		VideoFile:   videoFile,
		Thumbnail:   thumbnail,
	})
	if err != nil {
		return fail(err)
	}
	return utils.JSONSuccess(c, fiber.StatusCreated, video, "Video published successfully.")
}

// GET /videos/:id/watch (authenticated)
func (h *VideoHandler) Watch(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	video, err := h.videoSvc.Watch(c.Context(), user.ID.Hex(), c.Params("id"))
	if err != nil {
		return fail(err)
	}
	return utils.JSONSuccess(c, fiber.StatusOK, video, "Video fetched successfully.")
}
