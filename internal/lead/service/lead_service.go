package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	autherror "github.com/opspulse/leadfunnel/internal/errors"
	"github.com/opspulse/leadfunnel/internal/lead/domain"
	"github.com/opspulse/leadfunnel/internal/lead/dto"
)

const (
	defaultPerPage = 20
	maxPerPage     = 100
)

type LeadService struct {
	repo domain.LeadRepository
}

func NewLeadService(repo domain.LeadRepository) *LeadService {
	return &LeadService{repo: repo}
}

// Submit stores a funnel submission. Submissions carrying a client submission
// id are idempotent: a retry with the same id returns the stored lead instead
// of a duplicate row.
func (s *LeadService) Submit(ctx context.Context, input dto.SubmitLeadInput) (*domain.Lead, error) {
	if input.ClientSubmissionID != "" {
		existing, err := s.repo.GetByClientSubmissionID(ctx, input.ClientSubmissionID)
		if err != nil {
			return nil, fmt.Errorf("check duplicate submission: %w", err)
		}
		if existing != nil {
			log.WithField("client_submission_id", input.ClientSubmissionID).
				Debug("duplicate submission, returning existing lead")

			return existing, nil
		}
	}

	now := time.Now()
	lead := &domain.Lead{
		ID:                 uuid.NewString(),
		Email:              strings.ToLower(strings.TrimSpace(input.Email)),
		Name:               strings.TrimSpace(input.Name),
		Company:            strings.TrimSpace(input.Company),
		Answers:            input.Answers,
		Score:              input.Score,
		RiskLevel:          domain.RiskLevel(input.RiskLevel),
		Status:             domain.StatusNew,
		ClientSubmissionID: input.ClientSubmissionID,
		SourceIP:           input.SourceIP,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := s.repo.Create(ctx, lead); err != nil {
		return nil, fmt.Errorf("create lead: %w", err)
	}

	log.WithFields(log.Fields{"lead_id": lead.ID, "risk_level": lead.RiskLevel}).
		Info("lead submitted")

	return lead, nil
}

func (s *LeadService) List(ctx context.Context, filter domain.ListFilter) ([]*domain.Lead, int, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PerPage < 1 {
		filter.PerPage = defaultPerPage
	}
	if filter.PerPage > maxPerPage {
		filter.PerPage = maxPerPage
	}

	leads, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list leads: %w", err)
	}

	return leads, total, nil
}

func (s *LeadService) Get(ctx context.Context, id string) (*domain.Lead, error) {
	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get lead: %w", err)
	}
	if lead == nil {
		return nil, autherror.ErrLeadNotFound
	}

	return lead, nil
}

func (s *LeadService) UpdateStatus(ctx context.Context, id string, status domain.LeadStatus) error {
	updated, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return fmt.Errorf("update lead status: %w", err)
	}
	if !updated {
		return autherror.ErrLeadNotFound
	}

	return nil
}
