package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/opspulse/leadfunnel/config"
	"github.com/opspulse/leadfunnel/internal/auth/domain"
	"github.com/opspulse/leadfunnel/internal/auth/dto"
	"github.com/opspulse/leadfunnel/internal/auth/service"
	autherror "github.com/opspulse/leadfunnel/internal/errors"
	"github.com/opspulse/leadfunnel/internal/mocks"
)

func testConfig() *config.Config {
	return &config.Config{
		MaxLoginAttempts:   5,
		LockoutDurationMin: 15,
		RateLimitWindowMin: 15,
		MaxAttemptsPerIP:   10,
		AdminEmails:        []string{"admin@x.com"},
	}
}

func hashOf(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func activeAdmin(t *testing.T, password string) *domain.AdminAccount {
	t.Helper()
	return &domain.AdminAccount{
		ID:           "admin-1",
		Email:        "admin@x.com",
		PasswordHash: hashOf(t, password),
		IsActive:     true,
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockAdminRepository(ctrl)
	mockTokens := mocks.NewMockTokenGenerator(ctrl)
	s := service.NewAuthService(mockRepo, mockTokens, testConfig())

	admin := activeAdmin(t, "correct-password")
	admin.MustResetPassword = true
	admin.FailedLoginAttempts = 3

	mockRepo.EXPECT().CountAttemptsByIPSince(gomock.Any(), "1.2.3.4", gomock.Any()).Return(2, nil)
	mockRepo.EXPECT().GetByEmail(gomock.Any(), "admin@x.com").Return(admin, nil)
	mockRepo.EXPECT().RecordLoginAttempt(gomock.Any(), "1.2.3.4", "admin@x.com", true, "ua").Return(nil)
	mockRepo.EXPECT().ResetLoginFailures(gomock.Any(), "admin-1", gomock.Any()).Return(nil)
	mockTokens.EXPECT().IssueAccessToken("admin-1", "admin@x.com").Return("signed-access", nil)
	mockTokens.EXPECT().GenerateRefreshTokenValue().Return("opaque-refresh", nil)
	mockTokens.EXPECT().RefreshTokenExpiry().Return(7 * 24 * time.Hour)
	mockRepo.EXPECT().StoreRefreshToken(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, rt *domain.RefreshToken) error {
			assert.Equal(t, "admin-1", rt.AdminID)
			assert.Equal(t, "opaque-refresh", rt.Token)
			assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), rt.ExpiresAt, 5*time.Second)
			assert.Nil(t, rt.RevokedAt)
			return nil
		})

	result, err := s.Login(context.Background(), dto.LoginInput{
		Email:     "Admin@X.com",
		Password:  "correct-password",
		IPAddress: "1.2.3.4",
		UserAgent: "ua",
	})

	require.NoError(t, err)
	assert.Equal(t, "signed-access", result.AccessToken)
	assert.Equal(t, "opaque-refresh", result.RefreshToken)
	assert.True(t, result.MustResetPassword)
}

func TestAuthService_Login_RateLimited(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockAdminRepository(ctrl)
	mockTokens := mocks.NewMockTokenGenerator(ctrl)
	s := service.NewAuthService(mockRepo, mockTokens, testConfig())

	// 10th attempt inside the window: rejected before any account lookup and
	// without a ledger write. No GetByEmail or RecordLoginAttempt
	// expectations are registered, so any such call fails the test.
	mockRepo.EXPECT().CountAttemptsByIPSince(gomock.Any(), "1.2.3.4", gomock.Any()).Return(10, nil)

	result, err := s.Login(context.Background(), dto.LoginInput{
		Email:     "admin@x.com",
		Password:  "whatever",
		IPAddress: "1.2.3.4",
	})

	assert.ErrorIs(t, err, autherror.ErrTooManyLoginAttempts)
	assert.Nil(t, result)
}

func TestAuthService_Login_RateLimitWindow(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockAdminRepository(ctrl)
	mockTokens := mocks.NewMockTokenGenerator(ctrl)
	s := service.NewAuthService(mockRepo, mockTokens, testConfig())

	mockRepo.EXPECT().CountAttemptsByIPSince(gomock.Any(), "1.2.3.4", gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, since time.Time) (int, error) {
			assert.WithinDuration(t, time.Now().Add(-15*time.Minute), since, 5*time.Second)
			return 10, nil
		})

	_, err := s.Login(context.Background(), dto.LoginInput{
		Email:     "admin@x.com",
		Password:  "whatever",
		IPAddress: "1.2.3.4",
	})
	assert.ErrorIs(t, err, autherror.ErrTooManyLoginAttempts)
}

func TestAuthService_Login_NotWhitelisted(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockAdminRepository(ctrl)
	mockTokens := mocks.NewMockTokenGenerator(ctrl)
	s := service.NewAuthService(mockRepo, mockTokens, testConfig())

	// A failed attempt row is written, but the failure counter is never
	// touched: no account exists for this email.
	mockRepo.EXPECT().CountAttemptsByIPSince(gomock.Any(), "1.2.3.4", gomock.Any()).Return(0, nil)
	mockRepo.EXPECT().RecordLoginAttempt(gomock.Any(), "1.2.3.4", "intruder@evil.com", false, "").Return(nil)

	result, err := s.Login(context.Background(), dto.LoginInput{
		Email:     "intruder@evil.com",
		Password:  "whatever",
		IPAddress: "1.2.3.4",
	})

	assert.ErrorIs(t, err, autherror.ErrAccessDenied)
	assert.Nil(t, result)
}

func TestAuthService_Login_UnknownOrInactiveAccount(t *testing.T) {
	tests := []struct {
		name  string
		admin *domain.AdminAccount
	}{
		{name: "unknown email", admin: nil},
		{name: "inactive account", admin: &domain.AdminAccount{
			ID: "admin-1", Email: "admin@x.com", IsActive: false,
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockRepo := mocks.NewMockAdminRepository(ctrl)
			mockTokens := mocks.NewMockTokenGenerator(ctrl)
			s := service.NewAuthService(mockRepo, mockTokens, testConfig())

			mockRepo.EXPECT().CountAttemptsByIPSince(gomock.Any(), "1.2.3.4", gomock.Any()).Return(0, nil)
			mockRepo.EXPECT().GetByEmail(gomock.Any(), "admin@x.com").Return(tt.admin, nil)
			mockRepo.EXPECT().RecordLoginAttempt(gomock.Any(), "1.2.3.4", "admin@x.com", false, "").Return(nil)

			result, err := s.Login(context.Background(), dto.LoginInput{
				Email:     "admin@x.com",
				Password:  "whatever",
				IPAddress: "1.2.3.4",
			})

			assert.ErrorIs(t, err, autherror.ErrInvalidCredentials)
			assert.Nil(t, result)
		})
	}
}

func TestAuthService_Login_LockedRejectsCorrectPassword(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockAdminRepository(ctrl)
	mockTokens := mocks.NewMockTokenGenerator(ctrl)
	s := service.NewAuthService(mockRepo, mockTokens, testConfig())

	admin := activeAdmin(t, "correct-password")
	lockedUntil := time.Now().Add(10 * time.Minute)
	admin.FailedLoginAttempts = 5
	admin.LockedUntil = &lockedUntil

	mockRepo.EXPECT().CountAttemptsByIPSince(gomock.Any(), "1.2.3.4", gomock.Any()).Return(5, nil)
	mockRepo.EXPECT().GetByEmail(gomock.Any(), "admin@x.com").Return(admin, nil)

	// The supplied password is correct; the lockout still wins.
	result, err := s.Login(context.Background(), dto.LoginInput{
		Email:     "admin@x.com",
		Password:  "correct-password",
		IPAddress: "1.2.3.4",
	})

	assert.ErrorIs(t, err, autherror.ErrAccountLocked)
	assert.Contains(t, err.Error(), "10 minutes")
	assert.Nil(t, result)
}

func TestAuthService_Login_ExpiredLockoutFallsThrough(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockAdminRepository(ctrl)
	mockTokens := mocks.NewMockTokenGenerator(ctrl)
	s := service.NewAuthService(mockRepo, mockTokens, testConfig())

	admin := activeAdmin(t, "correct-password")
	expired := time.Now().Add(-time.Minute)
	admin.FailedLoginAttempts = 5
	admin.LockedUntil = &expired

	mockRepo.EXPECT().CountAttemptsByIPSince(gomock.Any(), "1.2.3.4", gomock.Any()).Return(0, nil)
	mockRepo.EXPECT().GetByEmail(gomock.Any(), "admin@x.com").Return(admin, nil)
	mockRepo.EXPECT().RecordLoginAttempt(gomock.Any(), "1.2.3.4", "admin@x.com", true, "").Return(nil)
	mockRepo.EXPECT().ResetLoginFailures(gomock.Any(), "admin-1", gomock.Any()).Return(nil)
	mockTokens.EXPECT().IssueAccessToken("admin-1", "admin@x.com").Return("signed-access", nil)
	mockTokens.EXPECT().GenerateRefreshTokenValue().Return("opaque-refresh", nil)
	mockTokens.EXPECT().RefreshTokenExpiry().Return(7 * 24 * time.Hour)
	mockRepo.EXPECT().StoreRefreshToken(gomock.Any(), gomock.Any()).Return(nil)

	result, err := s.Login(context.Background(), dto.LoginInput{
		Email:     "admin@x.com",
		Password:  "correct-password",
		IPAddress: "1.2.3.4",
	})

	require.NoError(t, err)
	assert.Equal(t, "signed-access", result.AccessToken)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockAdminRepository(ctrl)
	mockTokens := mocks.NewMockTokenGenerator(ctrl)
	s := service.NewAuthService(mockRepo, mockTokens, testConfig())

	admin := activeAdmin(t, "correct-password")

	mockRepo.EXPECT().CountAttemptsByIPSince(gomock.Any(), "1.2.3.4", gomock.Any()).Return(0, nil)
	mockRepo.EXPECT().GetByEmail(gomock.Any(), "admin@x.com").Return(admin, nil)
	mockRepo.EXPECT().RecordLoginAttempt(gomock.Any(), "1.2.3.4", "admin@x.com", false, "").Return(nil)
	mockRepo.EXPECT().RecordLoginFailure(gomock.Any(), "admin@x.com", 5, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, _ int, lockUntil time.Time) error {
			assert.WithinDuration(t, time.Now().Add(15*time.Minute), lockUntil, 5*time.Second)
			return nil
		})

	result, err := s.Login(context.Background(), dto.LoginInput{
		Email:     "admin@x.com",
		Password:  "wrong-password",
		IPAddress: "1.2.3.4",
	})

	assert.ErrorIs(t, err, autherror.ErrInvalidCredentials)
	assert.Nil(t, result)
}

func TestAuthService_Login_StorageErrorStaysGeneric(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockAdminRepository(ctrl)
	mockTokens := mocks.NewMockTokenGenerator(ctrl)
	s := service.NewAuthService(mockRepo, mockTokens, testConfig())

	mockRepo.EXPECT().CountAttemptsByIPSince(gomock.Any(), "1.2.3.4", gomock.Any()).Return(0, nil)
	mockRepo.EXPECT().GetByEmail(gomock.Any(), "admin@x.com").Return(nil, errors.New("connection refused"))

	result, err := s.Login(context.Background(), dto.LoginInput{
		Email:     "admin@x.com",
		Password:  "whatever",
		IPAddress: "1.2.3.4",
	})

	require.Error(t, err)
	assert.NotErrorIs(t, err, autherror.ErrInvalidCredentials)
	assert.Nil(t, result)
}

func TestAuthService_Logout(t *testing.T) {
	t.Run("no cookie is a no-op success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := mocks.NewMockAdminRepository(ctrl)
		s := service.NewAuthService(mockRepo, mocks.NewMockTokenGenerator(ctrl), testConfig())

		assert.NoError(t, s.Logout(context.Background(), ""))
	})

	t.Run("revokes the presented token", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := mocks.NewMockAdminRepository(ctrl)
		s := service.NewAuthService(mockRepo, mocks.NewMockTokenGenerator(ctrl), testConfig())

		mockRepo.EXPECT().RevokeRefreshToken(gomock.Any(), "tok-1", gomock.Any()).Return(true, nil)

		assert.NoError(t, s.Logout(context.Background(), "tok-1"))
	})

	t.Run("already revoked is still success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := mocks.NewMockAdminRepository(ctrl)
		s := service.NewAuthService(mockRepo, mocks.NewMockTokenGenerator(ctrl), testConfig())

		mockRepo.EXPECT().RevokeRefreshToken(gomock.Any(), "tok-1", gomock.Any()).Return(false, nil)

		assert.NoError(t, s.Logout(context.Background(), "tok-1"))
	})
}

func TestAuthService_ResetPassword_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockAdminRepository(ctrl)
	s := service.NewAuthService(mockRepo, mocks.NewMockTokenGenerator(ctrl), testConfig())

	admin := activeAdmin(t, "OldPassword123")

	mockRepo.EXPECT().GetByID(gomock.Any(), "admin-1").Return(admin, nil)
	mockRepo.EXPECT().UpdatePassword(gomock.Any(), "admin-1", gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, hash string) error {
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("NewPassword456")))
			return nil
		})
	mockRepo.EXPECT().RevokeAllRefreshTokens(gomock.Any(), "admin-1", gomock.Any()).Return(nil)

	err := s.ResetPassword(context.Background(), "admin-1", dto.ResetPasswordInput{
		CurrentPassword: "OldPassword123",
		NewPassword:     "NewPassword456",
	})

	assert.NoError(t, err)
}

func TestAuthService_ResetPassword_WrongCurrentPassword(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockAdminRepository(ctrl)
	s := service.NewAuthService(mockRepo, mocks.NewMockTokenGenerator(ctrl), testConfig())

	// No UpdatePassword or RevokeAllRefreshTokens expectations: a failed
	// reset must not mutate anything.
	mockRepo.EXPECT().GetByID(gomock.Any(), "admin-1").Return(activeAdmin(t, "OldPassword123"), nil)

	err := s.ResetPassword(context.Background(), "admin-1", dto.ResetPasswordInput{
		CurrentPassword: "not-the-password",
		NewPassword:     "NewPassword456",
	})

	assert.ErrorIs(t, err, autherror.ErrCurrentPasswordIncorrect)
}

func TestAuthService_ResetPassword_WeakNewPassword(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockAdminRepository(ctrl)
	s := service.NewAuthService(mockRepo, mocks.NewMockTokenGenerator(ctrl), testConfig())

	mockRepo.EXPECT().GetByID(gomock.Any(), "admin-1").Return(activeAdmin(t, "OldPassword123"), nil)

	err := s.ResetPassword(context.Background(), "admin-1", dto.ResetPasswordInput{
		CurrentPassword: "OldPassword123",
		NewPassword:     "short",
	})

	assert.ErrorIs(t, err, autherror.ErrWeakPassword)
}

func TestAuthService_CreateAdmin(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := mocks.NewMockAdminRepository(ctrl)
		s := service.NewAuthService(mockRepo, mocks.NewMockTokenGenerator(ctrl), testConfig())

		mockRepo.EXPECT().GetByEmail(gomock.Any(), "admin@x.com").Return(nil, nil)
		mockRepo.EXPECT().CreateAdmin(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, admin *domain.AdminAccount) error {
				assert.Equal(t, "admin@x.com", admin.Email)
				assert.True(t, admin.IsActive)
				assert.True(t, admin.MustResetPassword)
				assert.NotEmpty(t, admin.ID)
				return nil
			})

		admin, err := s.CreateAdmin(context.Background(), "Admin@X.com", "Provisioned123", "Ada", true)
		require.NoError(t, err)
		assert.Equal(t, "admin@x.com", admin.Email)
	})

	t.Run("not whitelisted", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := mocks.NewMockAdminRepository(ctrl)
		s := service.NewAuthService(mockRepo, mocks.NewMockTokenGenerator(ctrl), testConfig())

		_, err := s.CreateAdmin(context.Background(), "other@x.com", "Provisioned123", "", true)
		assert.ErrorIs(t, err, autherror.ErrEmailNotWhitelisted)
	})

	t.Run("already exists", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := mocks.NewMockAdminRepository(ctrl)
		s := service.NewAuthService(mockRepo, mocks.NewMockTokenGenerator(ctrl), testConfig())

		mockRepo.EXPECT().GetByEmail(gomock.Any(), "admin@x.com").
			Return(&domain.AdminAccount{ID: "admin-1", Email: "admin@x.com"}, nil)

		_, err := s.CreateAdmin(context.Background(), "admin@x.com", "Provisioned123", "", true)
		assert.ErrorIs(t, err, autherror.ErrAdminAlreadyExists)
	})
}
