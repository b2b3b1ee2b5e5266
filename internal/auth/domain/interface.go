package domain

//go:generate mockgen -destination=../../mocks/mock_admin_repository.go -package=mocks github.com/opspulse/leadfunnel/internal/auth/domain AdminRepository

import (
	"context"
	"time"
)

// AdminRepository owns all persisted authentication state: admin accounts, the
// login-attempt ledger, and refresh tokens.
//
// GetByEmail and GetByID return (nil, nil) when no row matches, so callers can
// distinguish "absent" from a storage failure.
type AdminRepository interface {
	GetByEmail(ctx context.Context, email string) (*AdminAccount, error)
	GetByID(ctx context.Context, id string) (*AdminAccount, error)
	CreateAdmin(ctx context.Context, admin *AdminAccount) error

	// RecordLoginFailure increments the failed-login counter for the account
	// and sets locked_until to lockUntil when the incremented counter reaches
	// threshold. The increment and the conditional lock are one atomic update;
	// concurrent failures for the same account cannot under-count.
	RecordLoginFailure(ctx context.Context, email string, threshold int, lockUntil time.Time) error

	// ResetLoginFailures clears the failure counter and lockout and stamps the
	// successful login time, in one update.
	ResetLoginFailures(ctx context.Context, adminID string, loginAt time.Time) error

	// UpdatePassword replaces the password hash and clears the forced-reset
	// flag.
	UpdatePassword(ctx context.Context, adminID, passwordHash string) error

	RecordLoginAttempt(ctx context.Context, ip, email string, success bool, userAgent string) error
	CountAttemptsByIPSince(ctx context.Context, ip string, since time.Time) (int, error)

	StoreRefreshToken(ctx context.Context, rt *RefreshToken) error
	GetRefreshToken(ctx context.Context, token string) (*RefreshToken, error)

	// RevokeRefreshToken sets the revocation timestamp if and only if the token
	// is not already revoked. Returns true when this call performed the
	// revocation, false when the token was absent or already revoked.
	RevokeRefreshToken(ctx context.Context, token string, at time.Time) (bool, error)
	RevokeAllRefreshTokens(ctx context.Context, adminID string, at time.Time) error

	DeleteLoginAttemptsBefore(ctx context.Context, cutoff time.Time) (int64, error)
	DeleteExpiredRefreshTokens(ctx context.Context, cutoff time.Time) (int64, error)
}
