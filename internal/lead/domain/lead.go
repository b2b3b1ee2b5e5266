package domain

import (
	"encoding/json"
	"time"
)

// RiskLevel is computed by the funnel client from the questionnaire answers;
// the server validates and stores it but does not own the formula.
type RiskLevel string

const (
	RiskLow      RiskLevel = "LOW"
	RiskMedium   RiskLevel = "MEDIUM"
	RiskHigh     RiskLevel = "HIGH"
	RiskCritical RiskLevel = "CRITICAL"
)

func (r RiskLevel) Valid() bool {
	switch r {
	case RiskLow, RiskMedium, RiskHigh, RiskCritical:
		return true
	}
	return false
}

// LeadStatus tracks the review workflow in the admin dashboard.
type LeadStatus string

const (
	StatusNew       LeadStatus = "new"
	StatusContacted LeadStatus = "contacted"
	StatusQualified LeadStatus = "qualified"
	StatusDiscarded LeadStatus = "discarded"
)

func (s LeadStatus) Valid() bool {
	switch s {
	case StatusNew, StatusContacted, StatusQualified, StatusDiscarded:
		return true
	}
	return false
}

type Lead struct {
	ID                 string
	Email              string
	Name               string
	Company            string
	Answers            json.RawMessage
	Score              int
	RiskLevel          RiskLevel
	Status             LeadStatus
	ClientSubmissionID string
	SourceIP           string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
