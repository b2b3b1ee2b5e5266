package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/opspulse/leadfunnel/internal/lead/domain"
)

type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type LeadRepository struct {
	db DBTX
}

func NewLeadRepository(db DBTX) *LeadRepository {
	return &LeadRepository{db: db}
}

const leadColumns = `id, email, name, company, answers, score, risk_level, status,
		      client_submission_id, source_ip, created_at, updated_at`

func (r *LeadRepository) Create(ctx context.Context, lead *domain.Lead) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO leads (id, email, name, company, answers, score, risk_level,
			status, client_submission_id, source_ip, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, lead.ID, lead.Email, lead.Name, lead.Company, lead.Answers, lead.Score,
		lead.RiskLevel, lead.Status, nullable(lead.ClientSubmissionID), lead.SourceIP,
		lead.CreatedAt, lead.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert lead: %w", err)
	}

	return nil
}

func (r *LeadRepository) GetByID(ctx context.Context, id string) (*domain.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE id = $1 LIMIT 1`

	lead, err := scanLead(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lead by id: %w", err)
	}

	return lead, nil
}

func (r *LeadRepository) GetByClientSubmissionID(ctx context.Context, clientSubmissionID string) (*domain.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE client_submission_id = $1 LIMIT 1`

	lead, err := scanLead(r.db.QueryRow(ctx, query, clientSubmissionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lead by client submission id: %w", err)
	}

	return lead, nil
}

func (r *LeadRepository) List(ctx context.Context, filter domain.ListFilter) ([]*domain.Lead, int, error) {
	// Empty filter values match everything.
	where := `WHERE ($1 = '' OR status = $1) AND ($2 = '' OR risk_level = $2)`

	var total int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM leads `+where,
		string(filter.Status), string(filter.RiskLevel)).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count leads: %w", err)
	}

	offset := (filter.Page - 1) * filter.PerPage
	rows, err := r.db.Query(ctx, `
		SELECT `+leadColumns+`
		FROM leads `+where+`
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`, string(filter.Status), string(filter.RiskLevel), filter.PerPage, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	var leads []*domain.Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan lead: %w", err)
		}
		leads = append(leads, lead)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate leads: %w", err)
	}

	return leads, total, nil
}

func (r *LeadRepository) UpdateStatus(ctx context.Context, id string, status domain.LeadStatus) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE leads
		SET status = $2, updated_at = now()
		WHERE id = $1
	`, id, status)
	if err != nil {
		return false, fmt.Errorf("update lead status: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

func scanLead(row pgx.Row) (*domain.Lead, error) {
	var (
		lead               domain.Lead
		clientSubmissionID *string
	)
	err := row.Scan(
		&lead.ID, &lead.Email, &lead.Name, &lead.Company, &lead.Answers,
		&lead.Score, &lead.RiskLevel, &lead.Status, &clientSubmissionID,
		&lead.SourceIP, &lead.CreatedAt, &lead.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if clientSubmissionID != nil {
		lead.ClientSubmissionID = *clientSubmissionID
	}

	return &lead, nil
}

// nullable maps "" to NULL so the partial unique index on
// client_submission_id never collides on empty values.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
