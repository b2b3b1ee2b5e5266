package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/opspulse/leadfunnel/config"
	"github.com/opspulse/leadfunnel/internal/auth/domain"
	"github.com/opspulse/leadfunnel/internal/auth/dto"
	autherror "github.com/opspulse/leadfunnel/internal/errors"
)

const bcryptCost = 12

// AuthService orchestrates login, logout, and password reset over the admin
// repository and the token issuer. All policy constants come from the injected
// config; nothing is read from the environment here.
type AuthService struct {
	repo         domain.AdminRepository
	tokenService TokenGenerator
	cfg          *config.Config
}

func NewAuthService(repo domain.AdminRepository, tokenService TokenGenerator, cfg *config.Config) *AuthService {
	return &AuthService{
		repo:         repo,
		tokenService: tokenService,
		cfg:          cfg,
	}
}

// Login runs the full login state machine: IP rate limit, allow-list, account
// lookup, lockout, password verification. Failure messages stay generic except
// for rate-limit and lockout.
func (s *AuthService) Login(ctx context.Context, input dto.LoginInput) (*dto.LoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	now := time.Now()

	// IP-scoped rate limit runs before any account lookup so it can never
	// leak whether an email is registered.
	windowStart := now.Add(-time.Duration(s.cfg.RateLimitWindowMin) * time.Minute)
	attempts, err := s.repo.CountAttemptsByIPSince(ctx, input.IPAddress, windowStart)
	if err != nil {
		return nil, fmt.Errorf("count login attempts: %w", err)
	}
	if attempts >= s.cfg.MaxAttemptsPerIP {
		return nil, autherror.ErrTooManyLoginAttempts
	}

	if !s.cfg.IsEmailWhitelisted(email) {
		_ = s.repo.RecordLoginAttempt(ctx, input.IPAddress, email, false, input.UserAgent)
		log.WithFields(log.Fields{"email": email, "ip": input.IPAddress}).
			Warn("login attempt with non-whitelisted email")

		return nil, autherror.ErrAccessDenied
	}

	admin, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("get admin by email: %w", err)
	}

	if admin == nil || !admin.IsActive {
		_ = s.repo.RecordLoginAttempt(ctx, input.IPAddress, email, false, input.UserAgent)

		return nil, autherror.ErrInvalidCredentials
	}

	if admin.Locked(now) {
		minutes := lockoutRemainingMinutes(*admin.LockedUntil, now)

		return nil, fmt.Errorf("%w: try again in %d minutes", autherror.ErrAccountLocked, minutes)
	}

	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(input.Password)) != nil {
		_ = s.repo.RecordLoginAttempt(ctx, input.IPAddress, email, false, input.UserAgent)

		lockUntil := now.Add(time.Duration(s.cfg.LockoutDurationMin) * time.Minute)
		if err := s.repo.RecordLoginFailure(ctx, email, s.cfg.MaxLoginAttempts, lockUntil); err != nil {
			log.WithError(err).WithField("email", email).Error("failed to record login failure")
		}

		return nil, autherror.ErrInvalidCredentials
	}

	if err := s.repo.RecordLoginAttempt(ctx, input.IPAddress, email, true, input.UserAgent); err != nil {
		return nil, fmt.Errorf("record login attempt: %w", err)
	}

	if err := s.repo.ResetLoginFailures(ctx, admin.ID, now); err != nil {
		return nil, fmt.Errorf("reset login failures: %w", err)
	}

	accessToken, err := s.tokenService.IssueAccessToken(admin.ID, admin.Email)
	if err != nil {
		return nil, err
	}

	refreshValue, err := s.tokenService.GenerateRefreshTokenValue()
	if err != nil {
		return nil, err
	}

	rt := &domain.RefreshToken{
		ID:        uuid.NewString(),
		AdminID:   admin.ID,
		Token:     refreshValue,
		ExpiresAt: now.Add(s.tokenService.RefreshTokenExpiry()),
		CreatedAt: now,
	}
	if err := s.repo.StoreRefreshToken(ctx, rt); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	log.WithFields(log.Fields{"email": email, "ip": input.IPAddress}).Info("admin login successful")

	return &dto.LoginResult{
		AccessToken:       accessToken,
		RefreshToken:      refreshValue,
		MustResetPassword: admin.MustResetPassword,
	}, nil
}

// Logout revokes the refresh token behind the current session. It is
// idempotent: an absent, unknown, or already-revoked token is a no-op success.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}

	revoked, err := s.repo.RevokeRefreshToken(ctx, refreshToken, time.Now())
	if err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	if revoked {
		log.Debug("refresh token revoked on logout")
	}

	return nil
}

// ResetPassword re-verifies the current password, validates the new one
// against the strength policy, replaces the hash, clears the forced-reset
// flag, and revokes every refresh token the account owns. A failed reset
// mutates nothing.
func (s *AuthService) ResetPassword(ctx context.Context, adminID string, input dto.ResetPasswordInput) error {
	admin, err := s.repo.GetByID(ctx, adminID)
	if err != nil {
		return fmt.Errorf("get admin by id: %w", err)
	}
	if admin == nil {
		return autherror.ErrUnauthenticated
	}

	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(input.CurrentPassword)) != nil {
		return autherror.ErrCurrentPasswordIncorrect
	}

	if err := ValidatePasswordStrength(input.NewPassword); err != nil {
		return err
	}

	newHash, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.repo.UpdatePassword(ctx, admin.ID, string(newHash)); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	// Force re-login everywhere.
	if err := s.repo.RevokeAllRefreshTokens(ctx, admin.ID, time.Now()); err != nil {
		return fmt.Errorf("revoke refresh tokens: %w", err)
	}

	log.WithField("admin_id", admin.ID).Info("password reset successful")

	return nil
}

// CreateAdmin provisions a new admin account. It is used by the out-of-band
// seeding step, never exposed over HTTP. Only allow-listed emails may hold
// accounts.
func (s *AuthService) CreateAdmin(ctx context.Context, email, password, name string, mustResetPassword bool) (*domain.AdminAccount, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if !s.cfg.IsEmailWhitelisted(email) {
		return nil, autherror.ErrEmailNotWhitelisted
	}

	existing, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("get admin by email: %w", err)
	}
	if existing != nil {
		return nil, autherror.ErrAdminAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()
	admin := &domain.AdminAccount{
		ID:                uuid.NewString(),
		Email:             email,
		PasswordHash:      string(hash),
		Name:              name,
		IsActive:          true,
		MustResetPassword: mustResetPassword,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.repo.CreateAdmin(ctx, admin); err != nil {
		return nil, fmt.Errorf("create admin: %w", err)
	}

	return admin, nil
}
