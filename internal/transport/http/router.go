// Package http wires the public HTTP surface onto the fiber app.
package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sakashimaa/planary/internal/transport/http/handler"
	"github.com/sakashimaa/planary/internal/transport/http/middleware"
	"github.com/sakashimaa/planary/pkg/token"
)

type Handlers struct {
	Auth     *handler.AuthHandler
	Activity *handler.ActivityHandler
}

func RegisterRoutes(app *fiber.App, h *Handlers, tokens *token.Service) {
	authGroup := app.Group("/auth")

	authGroup.Post("/register", h.Auth.Register)
	authGroup.Post("/login", h.Auth.Login)
	authGroup.Post("/refresh", h.Auth.Refresh)

	users := app.Group("/users", middleware.NewAuthMiddleware(tokens))
	users.Get("/me", h.Auth.GetMe)

	activities := app.Group("/activities", middleware.NewAuthMiddleware(tokens))
	activities.Get("", h.Activity.List)
	activities.Post("", h.Activity.Create)
	activities.Get("/:id", h.Activity.Get)
	activities.Put("/:id", h.Activity.Update)
	activities.Delete("/:id", h.Activity.Delete)
}
