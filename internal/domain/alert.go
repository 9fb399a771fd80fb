package domain

import (
	"time"

	"github.com/google/uuid"
)

// Alert categories. The set is open: rule-generated categories are listed
// here, user-created alerts may carry others.
const (
	AlertPrescriptionApproaching = "prescription_approaching"
	AlertMediationHearing        = "mediation_hearing"
	AlertFollowUp                = "follow_up"
	AlertFeeDue                  = "fee_due"
	AlertInhibitionActive        = "inhibition_active"
)

// Alert priorities
const (
	AlertPriorityLow      = "low"
	AlertPriorityMedium   = "medium"
	AlertPriorityHigh     = "high"
	AlertPriorityCritical = "critical"
)

// Alert states. Resolved and dismissed are terminal.
const (
	AlertStatusPending   = "pending"
	AlertStatusResolved  = "resolved"
	AlertStatusDismissed = "dismissed"
)

// Alert is a rule- or user-generated reminder tied to a case, optionally to
// one of its debts. At most one pending alert of a category exists per
// (case, debt) scope; rules check before creating.
type Alert struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	CaseID      uuid.UUID  `json:"case_id" db:"case_id"`
	DebtID      *uuid.UUID `json:"debt_id,omitempty" db:"debt_id"`
	Category    string     `json:"category" db:"category"`
	TriggerDate time.Time  `json:"trigger_date" db:"trigger_date"`
	Description string     `json:"description" db:"description"`
	Priority    string     `json:"priority" db:"priority"`
	Status      string     `json:"status" db:"status"`
	AssigneeID  *uuid.UUID `json:"assignee_id,omitempty" db:"assignee_id"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
}

// IsOpen reports whether the alert still needs attention.
func (a *Alert) IsOpen() bool {
	return a.Status == AlertStatusPending
}
