package service

import (
	"fmt"
	"time"
	"unicode"

	autherror "github.com/opspulse/leadfunnel/internal/errors"
)

const minPasswordLength = 12

// ValidatePasswordStrength enforces the admin password policy: at least 12
// characters with upper case, lower case, and a digit. The returned error
// wraps ErrWeakPassword and names the first failed requirement; reset callers
// have already proven a session, so the message may be specific.
func ValidatePasswordStrength(password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf("%w: must be at least %d characters", autherror.ErrWeakPassword, minPasswordLength)
	}

	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}

	switch {
	case !hasLower:
		return fmt.Errorf("%w: must contain lowercase letters", autherror.ErrWeakPassword)
	case !hasUpper:
		return fmt.Errorf("%w: must contain uppercase letters", autherror.ErrWeakPassword)
	case !hasDigit:
		return fmt.Errorf("%w: must contain numbers", autherror.ErrWeakPassword)
	}

	return nil
}

// lockoutRemainingMinutes returns the whole minutes left on a lockout, rounded
// up so a caller is never told zero minutes while still locked.
func lockoutRemainingMinutes(lockedUntil, now time.Time) int {
	remaining := lockedUntil.Sub(now)
	minutes := int(remaining / time.Minute)
	if remaining%time.Minute > 0 {
		minutes++
	}
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}
