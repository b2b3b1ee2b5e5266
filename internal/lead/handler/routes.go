package handler

import (
	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes mounts the public submit endpoint and the session-protected
// admin review endpoints. requireAdmin comes from the auth handler.
func RegisterRoutes(app *fiber.App, h *LeadHandler, requireAdmin fiber.Handler) {
	app.Post("/api/v1/leads", h.Submit)

	admin := app.Group("/api/v1/admin/leads", requireAdmin)
	admin.Get("/", h.List)
	admin.Get("/:id", h.Get)
	admin.Patch("/:id/status", h.UpdateStatus)
}
