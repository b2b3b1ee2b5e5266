package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"

	"github.com/opspulse/leadfunnel/internal/auth/dto"
	autherror "github.com/opspulse/leadfunnel/internal/errors"
	"github.com/opspulse/leadfunnel/internal/metrics"
)

const adminLocalsKey = "admin"

// RequireAdmin resolves the session from the auth cookies and stores the
// admin identity in the request locals. When the resolver minted a fresh
// access token it is applied as a cookie before the handler chain continues.
func (h *AuthHandler) RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		admin, newAccessToken, err := h.sessionService.Resolve(
			c.Context(), c.Cookies(accessCookieName), c.Cookies(refreshCookieName))
		if err != nil {
			if errors.Is(err, autherror.ErrUnauthenticated) {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "not authenticated"})
			}
			log.WithError(err).Error("session resolution failed")

			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "an error occurred"})
		}

		if newAccessToken != "" {
			metrics.TokenRefreshesTotal.Inc()
			h.setAccessCookie(c, newAccessToken)
		}

		c.Locals(adminLocalsKey, admin)

		return c.Next()
	}
}

// AdminFromContext returns the identity stored by RequireAdmin.
func AdminFromContext(c *fiber.Ctx) (*dto.AdminInfo, bool) {
	admin, ok := c.Locals(adminLocalsKey).(*dto.AdminInfo)
	return admin, ok
}
