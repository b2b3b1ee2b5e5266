package handler

import (
	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(app *fiber.App, h *AuthHandler) {
	auth := app.Group("/api/v1/admin/auth")
	auth.Post("/login", h.Login)
	auth.Get("/me", h.Me)
	auth.Post("/logout", h.Logout)
	auth.Post("/reset-password", h.RequireAdmin(), h.ResetPassword)
}
