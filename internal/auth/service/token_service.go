package service

//go:generate mockgen -destination=../../mocks/mock_token_generator.go -package=mocks github.com/opspulse/leadfunnel/internal/auth/service TokenGenerator

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/opspulse/leadfunnel/internal/auth/domain"
	autherror "github.com/opspulse/leadfunnel/internal/errors"
)

// refreshTokenBytes is the entropy of an opaque refresh-token value before hex
// encoding.
const refreshTokenBytes = 64

type TokenGenerator interface {
	IssueAccessToken(adminID, email string) (string, error)
	VerifyAccessToken(tokenString string) (*AccessClaims, error)
	GenerateRefreshTokenValue() (string, error)
	AccessTokenExpiry() time.Duration
	RefreshTokenExpiry() time.Duration
}

type TokenService struct {
	secret             []byte
	accessTokenExpiry  time.Duration
	refreshTokenExpiry time.Duration
}

type AccessClaims struct {
	jwt.RegisteredClaims
	UserID    string           `json:"user_id"`
	Email     string           `json:"email"`
	TokenType domain.TokenType `json:"token_type"`
}

func NewTokenService(secret string, accessMinutes, refreshDays int) *TokenService {
	return &TokenService{
		secret:             []byte(secret),
		accessTokenExpiry:  time.Duration(accessMinutes) * time.Minute,
		refreshTokenExpiry: time.Duration(refreshDays) * 24 * time.Hour,
	}
}

func (ts *TokenService) IssueAccessToken(adminID, email string) (string, error) {
	now := time.Now()

	claims := AccessClaims{
		UserID:    adminID,
		Email:     email,
		TokenType: domain.TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ts.accessTokenExpiry)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ts.secret)
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}

	return signed, nil
}

// VerifyAccessToken parses and validates an access token. Expired, garbled,
// foreign, and wrongly-typed tokens all fail with the same sentinel so callers
// cannot leak which case occurred.
func (ts *TokenService) VerifyAccessToken(tokenString string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return ts.secret, nil
	})

	if err != nil || !token.Valid {
		return nil, autherror.ErrInvalidAccessToken
	}

	switch claims.TokenType {
	case domain.TokenTypeAccess:
		return claims, nil
	case domain.TokenTypeRefresh:
		return nil, autherror.ErrInvalidAccessToken
	default:
		return nil, autherror.ErrInvalidAccessToken
	}
}

// GenerateRefreshTokenValue returns a fresh opaque token value drawn from
// crypto/rand. It is never derived from account data or time.
func (ts *TokenService) GenerateRefreshTokenValue() (string, error) {
	buf := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate refresh token: %w", err)
	}

	return hex.EncodeToString(buf), nil
}

func (ts *TokenService) AccessTokenExpiry() time.Duration {
	return ts.accessTokenExpiry
}

func (ts *TokenService) RefreshTokenExpiry() time.Duration {
	return ts.refreshTokenExpiry
}
