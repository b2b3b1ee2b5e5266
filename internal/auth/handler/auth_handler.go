package handler

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"

	"github.com/opspulse/leadfunnel/config"
	"github.com/opspulse/leadfunnel/internal/auth/dto"
	"github.com/opspulse/leadfunnel/internal/auth/service"
	autherror "github.com/opspulse/leadfunnel/internal/errors"
	"github.com/opspulse/leadfunnel/internal/metrics"
)

const (
	accessCookieName  = "admin_access_token"
	refreshCookieName = "admin_refresh_token"
)

type AuthHandler struct {
	authService    *service.AuthService
	sessionService *service.SessionService
	cfg            *config.Config
	validate       *validator.Validate
}

func NewAuthHandler(authService *service.AuthService, sessionService *service.SessionService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authService:    authService,
		sessionService: sessionService,
		cfg:            cfg,
		validate:       validator.New(),
	}
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input dto.LoginInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "email and password are required",
		})
	}
	if err := h.validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "email and password are required",
		})
	}

	input.IPAddress = c.IP()
	input.UserAgent = string(c.Request().Header.UserAgent())

	result, err := h.authService.Login(c.Context(), input)
	if err != nil {
		return h.loginError(c, err)
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()

	h.setAuthCookies(c, result.AccessToken, result.RefreshToken)

	return c.Status(fiber.StatusOK).JSON(dto.LoginResponse{
		Success:           true,
		MustResetPassword: result.MustResetPassword,
	})
}

func (h *AuthHandler) loginError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, autherror.ErrTooManyLoginAttempts):
		metrics.LoginAttemptsTotal.WithLabelValues("rate_limited").Inc()

		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, autherror.ErrAccountLocked):
		metrics.LoginAttemptsTotal.WithLabelValues("locked").Inc()

		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, autherror.ErrAccessDenied),
		errors.Is(err, autherror.ErrInvalidCredentials):
		metrics.LoginAttemptsTotal.WithLabelValues("failure").Inc()

		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	default:
		log.WithError(err).Error("login failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "an error occurred during login",
		})
	}
}

// Me returns the resolved caller identity, silently re-issuing the access
// cookie when the refresh path covered an expired access token.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	admin, newAccessToken, err := h.sessionService.Resolve(
		c.Context(), c.Cookies(accessCookieName), c.Cookies(refreshCookieName))
	if err != nil {
		if errors.Is(err, autherror.ErrUnauthenticated) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "not authenticated"})
		}
		log.WithError(err).Error("session check failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "an error occurred"})
	}

	if newAccessToken != "" {
		metrics.TokenRefreshesTotal.Inc()
		h.setAccessCookie(c, newAccessToken)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"admin": admin})
}

// Logout always reports success; revocation failures are logged, not
// surfaced, and cookies are cleared either way.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.authService.Logout(c.Context(), c.Cookies(refreshCookieName)); err != nil {
		log.WithError(err).Error("logout revocation failed")
	}

	h.clearAuthCookies(c)

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"success": true})
}

func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	admin, ok := AdminFromContext(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "not authenticated"})
	}

	var input dto.ResetPasswordInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "current and new password are required",
		})
	}
	if err := h.validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "current and new password are required",
		})
	}

	err := h.authService.ResetPassword(c.Context(), admin.ID, input)
	switch {
	case err == nil:
	case errors.Is(err, autherror.ErrCurrentPasswordIncorrect),
		errors.Is(err, autherror.ErrWeakPassword):
		// The caller holds a valid session, so these are allowed to be
		// specific.
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, autherror.ErrUnauthenticated):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "not authenticated"})
	default:
		log.WithError(err).Error("password reset failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "an error occurred"})
	}

	// All refresh tokens are gone; drop this session's cookies too.
	h.clearAuthCookies(c)

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"success": true})
}

func (h *AuthHandler) setAuthCookies(c *fiber.Ctx, accessToken, refreshToken string) {
	h.setAccessCookie(c, accessToken)
	c.Cookie(&fiber.Cookie{
		Name:     refreshCookieName,
		Value:    refreshToken,
		MaxAge:   int(time.Duration(h.cfg.RefreshExpiryDay) * 24 * time.Hour / time.Second),
		HTTPOnly: true,
		Secure:   h.cfg.IsProduction(),
		SameSite: fiber.CookieSameSiteStrictMode,
		Path:     "/",
	})
}

func (h *AuthHandler) setAccessCookie(c *fiber.Ctx, accessToken string) {
	c.Cookie(&fiber.Cookie{
		Name:     accessCookieName,
		Value:    accessToken,
		MaxAge:   h.cfg.AccessExpiryMin * 60,
		HTTPOnly: true,
		Secure:   h.cfg.IsProduction(),
		SameSite: fiber.CookieSameSiteStrictMode,
		Path:     "/",
	})
}

func (h *AuthHandler) clearAuthCookies(c *fiber.Ctx) {
	for _, name := range []string{accessCookieName, refreshCookieName} {
		c.Cookie(&fiber.Cookie{
			Name:     name,
			Value:    "",
			MaxAge:   -1,
			HTTPOnly: true,
			Secure:   h.cfg.IsProduction(),
			SameSite: fiber.CookieSameSiteStrictMode,
			Path:     "/",
		})
	}
}
