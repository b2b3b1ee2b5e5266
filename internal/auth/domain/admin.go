package domain

import "time"

// TokenType tags the claims of a signed token so refresh material can never be
// replayed as an access token.
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// AdminAccount is a provisioned dashboard administrator. Email is unique,
// stored lowercase, and immutable after creation.
type AdminAccount struct {
	ID                  string
	Email               string
	PasswordHash        string
	Name                string
	IsActive            bool
	FailedLoginAttempts int
	LockedUntil         *time.Time
	MustResetPassword   bool
	LastLoginAt         *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Locked reports whether the account is under an active lockout at the given
// instant.
func (a *AdminAccount) Locked(now time.Time) bool {
	return a.LockedUntil != nil && a.LockedUntil.After(now)
}

// RefreshToken is an opaque long-lived credential persisted per login. It is
// usable only while RevokedAt is nil and ExpiresAt is in the future.
type RefreshToken struct {
	ID        string
	AdminID   string
	Token     string
	ExpiresAt time.Time
	RevokedAt *time.Time
	CreatedAt time.Time
}

func (rt *RefreshToken) Usable(now time.Time) bool {
	return rt.RevokedAt == nil && rt.ExpiresAt.After(now)
}

// LoginAttempt is an append-only audit record. One row per login POST,
// regardless of outcome. Never mutated or deleted inside the rate-limit
// horizon.
type LoginAttempt struct {
	ID        string
	IP        string
	Email     string
	Success   bool
	UserAgent string
	CreatedAt time.Time
}
