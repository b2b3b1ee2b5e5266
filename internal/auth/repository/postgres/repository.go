package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/opspulse/leadfunnel/internal/auth/domain"
)

// DBTX is the slice of pgxpool.Pool the repository needs. pgxmock satisfies
// it in tests.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type AdminRepository struct {
	db DBTX
}

func NewAdminRepository(db DBTX) *AdminRepository {
	return &AdminRepository{db: db}
}

const adminColumns = `id, email, password_hash, name, is_active, failed_login_attempts,
		       locked_until, must_reset_password, last_login_at, created_at, updated_at`

func (r *AdminRepository) GetByEmail(ctx context.Context, email string) (*domain.AdminAccount, error) {
	query := `
		SELECT ` + adminColumns + `
		FROM admin_accounts
		WHERE email = $1
		LIMIT 1`

	admin, err := scanAdmin(r.db.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get admin by email: %w", err)
	}

	return admin, nil
}

func (r *AdminRepository) GetByID(ctx context.Context, id string) (*domain.AdminAccount, error) {
	query := `
		SELECT ` + adminColumns + `
		FROM admin_accounts
		WHERE id = $1
		LIMIT 1`

	admin, err := scanAdmin(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get admin by id: %w", err)
	}

	return admin, nil
}

func scanAdmin(row pgx.Row) (*domain.AdminAccount, error) {
	var admin domain.AdminAccount
	err := row.Scan(
		&admin.ID, &admin.Email, &admin.PasswordHash, &admin.Name, &admin.IsActive,
		&admin.FailedLoginAttempts, &admin.LockedUntil, &admin.MustResetPassword,
		&admin.LastLoginAt, &admin.CreatedAt, &admin.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &admin, nil
}

func (r *AdminRepository) CreateAdmin(ctx context.Context, admin *domain.AdminAccount) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO admin_accounts (id, email, password_hash, name, is_active,
			failed_login_attempts, must_reset_password, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, 0, $6, $7, $8)
	`, admin.ID, admin.Email, admin.PasswordHash, admin.Name, admin.IsActive,
		admin.MustResetPassword, admin.CreatedAt, admin.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert admin: %w", err)
	}

	return nil
}

// RecordLoginFailure bumps the failure counter and arms the lockout in a
// single UPDATE, so two concurrent failures for the same account cannot race
// a read-modify-write and under-count.
func (r *AdminRepository) RecordLoginFailure(ctx context.Context, email string, threshold int, lockUntil time.Time) error {
	_, err := r.db.Exec(ctx, `
		UPDATE admin_accounts
		SET failed_login_attempts = failed_login_attempts + 1,
		    locked_until = CASE
			WHEN failed_login_attempts + 1 >= $2 THEN $3
			ELSE locked_until
		    END,
		    updated_at = now()
		WHERE email = $1
	`, email, threshold, lockUntil)
	if err != nil {
		return fmt.Errorf("record login failure: %w", err)
	}

	return nil
}

func (r *AdminRepository) ResetLoginFailures(ctx context.Context, adminID string, loginAt time.Time) error {
	_, err := r.db.Exec(ctx, `
		UPDATE admin_accounts
		SET failed_login_attempts = 0,
		    locked_until = NULL,
		    last_login_at = $2,
		    updated_at = now()
		WHERE id = $1
	`, adminID, loginAt)
	if err != nil {
		return fmt.Errorf("reset login failures: %w", err)
	}

	return nil
}

func (r *AdminRepository) UpdatePassword(ctx context.Context, adminID, passwordHash string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE admin_accounts
		SET password_hash = $2,
		    must_reset_password = FALSE,
		    updated_at = now()
		WHERE id = $1
	`, adminID, passwordHash)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	return nil
}

func (r *AdminRepository) RecordLoginAttempt(ctx context.Context, ip, email string, success bool, userAgent string) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO login_attempts (id, ip, email, success, user_agent, created_at)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, now())
	`, ip, email, success, userAgent)
	if err != nil {
		return fmt.Errorf("record login attempt: %w", err)
	}

	return nil
}

func (r *AdminRepository) CountAttemptsByIPSince(ctx context.Context, ip string, since time.Time) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM login_attempts
		WHERE ip = $1 AND created_at >= $2
	`, ip, since).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count login attempts: %w", err)
	}

	return count, nil
}

func (r *AdminRepository) StoreRefreshToken(ctx context.Context, rt *domain.RefreshToken) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO refresh_tokens (id, admin_id, token, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, rt.ID, rt.AdminID, rt.Token, rt.ExpiresAt, rt.CreatedAt)
	if err != nil {
		return fmt.Errorf("store refresh token: %w", err)
	}

	return nil
}

func (r *AdminRepository) GetRefreshToken(ctx context.Context, token string) (*domain.RefreshToken, error) {
	var rt domain.RefreshToken
	err := r.db.QueryRow(ctx, `
		SELECT id, admin_id, token, expires_at, revoked_at, created_at
		FROM refresh_tokens
		WHERE token = $1
		LIMIT 1
	`, token).Scan(&rt.ID, &rt.AdminID, &rt.Token, &rt.ExpiresAt, &rt.RevokedAt, &rt.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get refresh token: %w", err)
	}

	return &rt, nil
}

// RevokeRefreshToken revokes at most once: the WHERE clause skips rows that
// already carry a revocation timestamp, so of two concurrent logouts only one
// observes rows affected.
func (r *AdminRepository) RevokeRefreshToken(ctx context.Context, token string, at time.Time) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE refresh_tokens
		SET revoked_at = $2
		WHERE token = $1 AND revoked_at IS NULL
	`, token, at)
	if err != nil {
		return false, fmt.Errorf("revoke refresh token: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

func (r *AdminRepository) RevokeAllRefreshTokens(ctx context.Context, adminID string, at time.Time) error {
	_, err := r.db.Exec(ctx, `
		UPDATE refresh_tokens
		SET revoked_at = $2
		WHERE admin_id = $1 AND revoked_at IS NULL
	`, adminID, at)
	if err != nil {
		return fmt.Errorf("revoke all refresh tokens: %w", err)
	}

	return nil
}

func (r *AdminRepository) DeleteLoginAttemptsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM login_attempts
		WHERE created_at < $1
	`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete login attempts: %w", err)
	}

	return tag.RowsAffected(), nil
}

func (r *AdminRepository) DeleteExpiredRefreshTokens(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM refresh_tokens
		WHERE expires_at < $1
	`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete expired refresh tokens: %w", err)
	}

	return tag.RowsAffected(), nil
}
