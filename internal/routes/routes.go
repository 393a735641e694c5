package routes

import (
	"github.com/fathima-sithara/vidstream/internal/handlers"
	"github.com/gofiber/fiber/v2"
)

// Deps are the handlers and middleware the router wires together.
type Deps struct {
	Users     *handlers.UserHandler
	Videos    *handlers.VideoHandler
	Auth      fiber.Handler
	OptAuth   fiber.Handler
	LoginRate fiber.Handler
}

func Setup(app *fiber.App, d Deps) {
	api := app.Group("/api/v1")

	users := api.Group("/users")
	users.Post("/register", d.LoginRate, d.Users.Register)
	users.Post("/login", d.LoginRate, d.Users.Login)
	users.Post("/refresh-token", d.Users.Refresh)

	users.Post("/logout", d.Auth, d.Users.Logout)
	users.Post("/change-password", d.Auth, d.Users.ChangePassword)
	users.Get("/current-user", d.Auth, d.Users.CurrentUser)
	users.Patch("/update-account", d.Auth, d.Users.UpdateAccount)
	users.Patch("/avatar", d.Auth, d.Users.UpdateAvatar)
	users.Patch("/cover-image", d.Auth, d.Users.UpdateCoverImage)
	users.Get("/c/:username", d.OptAuth, d.Users.ChannelProfile)
	users.Get("/history", d.Auth, d.Users.WatchHistory)

	videos := api.Group("/videos")
	videos.Post("/", d.Auth, d.Videos.Publish)
	videos.Get("/:id/watch", d.Auth, d.Videos.Watch)
}
