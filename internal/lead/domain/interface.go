package domain

//go:generate mockgen -destination=../../mocks/mock_lead_repository.go -package=mocks github.com/opspulse/leadfunnel/internal/lead/domain LeadRepository

import (
	"context"
)

// ListFilter narrows List results. Zero values mean "no filter".
type ListFilter struct {
	Status    LeadStatus
	RiskLevel RiskLevel
	Page      int
	PerPage   int
}

// LeadRepository persists funnel submissions. Get methods return (nil, nil)
// when no row matches.
type LeadRepository interface {
	Create(ctx context.Context, lead *Lead) error
	GetByID(ctx context.Context, id string) (*Lead, error)
	GetByClientSubmissionID(ctx context.Context, clientSubmissionID string) (*Lead, error)
	List(ctx context.Context, filter ListFilter) ([]*Lead, int, error)
	UpdateStatus(ctx context.Context, id string, status LeadStatus) (bool, error)
}
