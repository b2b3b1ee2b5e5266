package service

import (
	"context"
	"fmt"
	"time"

	"github.com/opspulse/leadfunnel/internal/auth/domain"
	"github.com/opspulse/leadfunnel/internal/auth/dto"
	autherror "github.com/opspulse/leadfunnel/internal/errors"
)

// SessionService resolves the caller identity for every authenticated
// request. When the access token is expired or missing but a valid refresh
// token covers it, Resolve mints a replacement access token and returns it to
// the caller; applying it as a cookie is the HTTP layer's job, not a hidden
// side effect here. The refresh token itself is not rotated on use.
type SessionService struct {
	repo         domain.AdminRepository
	tokenService TokenGenerator
}

func NewSessionService(repo domain.AdminRepository, tokenService TokenGenerator) *SessionService {
	return &SessionService{
		repo:         repo,
		tokenService: tokenService,
	}
}

// Resolve returns the admin identity behind the supplied cookie values plus a
// new access token when the refresh path was used (empty string otherwise).
// Every invalid-credential shape (garbled token, expired token, revoked
// refresh token, inactive account) fails uniformly with ErrUnauthenticated.
func (s *SessionService) Resolve(ctx context.Context, accessToken, refreshToken string) (*dto.AdminInfo, string, error) {
	if accessToken != "" {
		if claims, err := s.tokenService.VerifyAccessToken(accessToken); err == nil {
			admin, err := s.repo.GetByID(ctx, claims.UserID)
			if err != nil {
				return nil, "", fmt.Errorf("get admin by id: %w", err)
			}
			if admin != nil && admin.IsActive {
				return adminInfo(admin), "", nil
			}
		}
	}

	if refreshToken == "" {
		return nil, "", autherror.ErrUnauthenticated
	}

	rt, err := s.repo.GetRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, "", fmt.Errorf("get refresh token: %w", err)
	}
	if rt == nil || !rt.Usable(time.Now()) {
		return nil, "", autherror.ErrUnauthenticated
	}

	admin, err := s.repo.GetByID(ctx, rt.AdminID)
	if err != nil {
		return nil, "", fmt.Errorf("get admin by id: %w", err)
	}
	if admin == nil || !admin.IsActive {
		return nil, "", autherror.ErrUnauthenticated
	}

	newAccessToken, err := s.tokenService.IssueAccessToken(admin.ID, admin.Email)
	if err != nil {
		return nil, "", err
	}

	return adminInfo(admin), newAccessToken, nil
}

func adminInfo(admin *domain.AdminAccount) *dto.AdminInfo {
	return &dto.AdminInfo{
		ID:                admin.ID,
		Email:             admin.Email,
		Name:              admin.Name,
		MustResetPassword: admin.MustResetPassword,
	}
}
