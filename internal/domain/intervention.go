package domain

import (
	"time"

	"github.com/google/uuid"
)

// Intervention kinds
const (
	InterventionCall             = "call"
	InterventionMeeting          = "meeting"
	InterventionProposalSent     = "proposal_sent"
	InterventionCounteroffer     = "counteroffer_received"
	InterventionDocumentSent     = "document_sent"
	InterventionBankResponse     = "bank_response"
	InterventionMediationHearing = "mediation_hearing"
	InterventionCourtFiling      = "court_filing"
	InterventionInternalNote     = "internal_note"
	InterventionOther            = "other"
)

// Intervention is one recorded action on a case: a call, a proposal, a
// hearing, a filing.
type Intervention struct {
	ID               uuid.UUID  `json:"id" db:"id"`
	CaseID           uuid.UUID  `json:"case_id" db:"case_id"`
	DebtID           *uuid.UUID `json:"debt_id,omitempty" db:"debt_id"`
	AuthorID         uuid.UUID  `json:"author_id" db:"author_id"`
	Kind             string     `json:"kind" db:"kind"`
	Date             time.Time  `json:"date" db:"date"`
	Counterparty     *string    `json:"counterparty,omitempty" db:"counterparty"`
	Description      string     `json:"description" db:"description"`
	Outcome          *string    `json:"outcome,omitempty" db:"outcome"`
	DocumentURL      *string    `json:"document_url,omitempty" db:"document_url"`
	RequiresFollowUp bool       `json:"requires_follow_up" db:"requires_follow_up"`
	FollowUpDate     *time.Time `json:"follow_up_date,omitempty" db:"follow_up_date"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
}

type CreateInterventionRequest struct {
	DebtID           string `json:"debt_id" validate:"omitempty,uuid"`
	AuthorID         string `json:"author_id" validate:"required,uuid"`
	Kind             string `json:"kind" validate:"required"`
	Date             string `json:"date" validate:"required,datetime=2006-01-02"`
	Counterparty     string `json:"counterparty"`
	Description      string `json:"description" validate:"required"`
	Outcome          string `json:"outcome"`
	DocumentURL      string `json:"document_url"`
	RequiresFollowUp bool   `json:"requires_follow_up"`
	FollowUpDate     string `json:"follow_up_date" validate:"omitempty,datetime=2006-01-02"`
}
