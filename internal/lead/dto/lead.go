package dto

import (
	"encoding/json"
	"time"

	"github.com/opspulse/leadfunnel/internal/lead/domain"
)

type SubmitLeadInput struct {
	Email              string          `json:"email" validate:"required,email"`
	Name               string          `json:"name" validate:"required"`
	Company            string          `json:"company"`
	Answers            json.RawMessage `json:"answers" validate:"required"`
	Score              int             `json:"score" validate:"gte=0,lte=100"`
	RiskLevel          string          `json:"risk_level" validate:"required,oneof=LOW MEDIUM HIGH CRITICAL"`
	ClientSubmissionID string          `json:"client_submission_id"`
	SourceIP           string          `json:"-"`
}

type UpdateStatusInput struct {
	Status string `json:"status" validate:"required,oneof=new contacted qualified discarded"`
}

type LeadOutput struct {
	ID                 string          `json:"id"`
	Email              string          `json:"email"`
	Name               string          `json:"name"`
	Company            string          `json:"company,omitempty"`
	Answers            json.RawMessage `json:"answers"`
	Score              int             `json:"score"`
	RiskLevel          string          `json:"risk_level"`
	Status             string          `json:"status"`
	ClientSubmissionID string          `json:"client_submission_id,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

type LeadListOutput struct {
	Leads   []LeadOutput `json:"leads"`
	Total   int          `json:"total"`
	Page    int          `json:"page"`
	PerPage int          `json:"per_page"`
}

func FromLead(lead *domain.Lead) LeadOutput {
	return LeadOutput{
		ID:                 lead.ID,
		Email:              lead.Email,
		Name:               lead.Name,
		Company:            lead.Company,
		Answers:            lead.Answers,
		Score:              lead.Score,
		RiskLevel:          string(lead.RiskLevel),
		Status:             string(lead.Status),
		ClientSubmissionID: lead.ClientSubmissionID,
		CreatedAt:          lead.CreatedAt,
		UpdatedAt:          lead.UpdatedAt,
	}
}
