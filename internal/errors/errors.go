package errors

import (
	"errors"
)

var (
	ErrTooManyLoginAttempts     = errors.New("too many login attempts, please try again later")
	ErrAccessDenied             = errors.New("access denied")
	ErrInvalidCredentials       = errors.New("invalid credentials")
	ErrAccountLocked            = errors.New("account locked")
	ErrUnauthenticated          = errors.New("not authenticated")
	ErrInvalidAccessToken       = errors.New("invalid access token")
	ErrRefreshTokenNotFound     = errors.New("refresh token not found")
	ErrRefreshTokenRevoked      = errors.New("refresh token revoked")
	ErrRefreshTokenExpired      = errors.New("refresh token expired")
	ErrCurrentPasswordIncorrect = errors.New("current password is incorrect")
	ErrWeakPassword             = errors.New("password does not meet strength requirements")
	ErrAdminAlreadyExists       = errors.New("admin already exists")
	ErrEmailNotWhitelisted      = errors.New("email not whitelisted")
	ErrLeadNotFound             = errors.New("lead not found")
	ErrDuplicateSubmission      = errors.New("duplicate submission")
)
