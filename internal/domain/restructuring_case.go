package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Case workflow states, in flow order.
const (
	CaseStatusDiagnosis       = "diagnosis"
	CaseStatusAnalysis        = "analysis"
	CaseStatusStrategy        = "strategy"
	CaseStatusNegotiation     = "negotiation"
	CaseStatusImplementation  = "implementation"
	CaseStatusJudicial        = "judicial"
	CaseStatusSuspended       = "suspended"
	CaseStatusClosedSuccess   = "closed_successful"
	CaseStatusClosedAbandoned = "closed_abandoned"
	CaseStatusArchived        = "archived"
)

// CaseStatusFlow lists the workflow states in presentation order.
var CaseStatusFlow = []string{
	CaseStatusDiagnosis,
	CaseStatusAnalysis,
	CaseStatusStrategy,
	CaseStatusNegotiation,
	CaseStatusImplementation,
	CaseStatusJudicial,
	CaseStatusSuspended,
	CaseStatusClosedSuccess,
	CaseStatusClosedAbandoned,
	CaseStatusArchived,
}

// Urgency levels
const (
	UrgencyLow      = "low"
	UrgencyMedium   = "medium"
	UrgencyHigh     = "high"
	UrgencyCritical = "critical"
)

// General asset-inhibition states for the debtor
const (
	InhibitionNone   = "none"
	InhibitionActive = "active"
	InhibitionLifted = "lifted"
)

// Central-bank debtor classifications (situation 1 through 5)
const (
	BCRANormal        = "normal"
	BCRALowRisk       = "low_risk"
	BCRADeficient     = "deficient"
	BCRADoubtful      = "doubtful"
	BCRAIrrecoverable = "irrecoverable"
)

// IsTerminalCaseStatus reports whether a status closes the case.
func IsTerminalCaseStatus(status string) bool {
	return status == CaseStatusClosedSuccess || status == CaseStatusClosedAbandoned
}

// Checklist is the diagnostic checklist stored as JSONB on the case.
type Checklist map[string]bool

// DefaultChecklist returns the checklist every new case starts with.
func DefaultChecklist() Checklist {
	return Checklist{
		"prescription_reviewed":  false,
		"assignment_verified":    false,
		"interest_assessed":      false,
		"mediation_notified":     false,
		"inhibition_checked":     false,
		"clawback_assessed":      false,
		"homestead_registered":   false,
		"co_debtors_identified":  false,
		"formal_income_verified": false,
	}
}

func (c Checklist) Value() (driver.Value, error) {
	if c == nil {
		return nil, nil
	}
	return json.Marshal(c)
}

func (c *Checklist) Scan(src interface{}) error {
	if src == nil {
		*c = nil
		return nil
	}
	b, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("cannot scan %T into Checklist", src)
	}
	return json.Unmarshal(b, c)
}

// Case is one liability-restructuring engagement for a client.
type Case struct {
	ID                  uuid.UUID  `json:"id" db:"id"`
	CaseNumber          string     `json:"case_number" db:"case_number"`
	OrganizationID      uuid.UUID  `json:"organization_id" db:"organization_id"`
	ContactID           uuid.UUID  `json:"contact_id" db:"contact_id"`
	LawyerID            uuid.UUID  `json:"lawyer_id" db:"lawyer_id"`
	Status              string     `json:"status" db:"status"`
	Urgency             string     `json:"urgency" db:"urgency"`
	TaxID               *string    `json:"tax_id,omitempty" db:"tax_id"`
	ClientObjective     *string    `json:"client_objective,omitempty" db:"client_objective"`
	EmploymentSituation *string    `json:"employment_situation,omitempty" db:"employment_situation"`
	BCRASituation       *string    `json:"bcra_situation,omitempty" db:"bcra_situation"`
	ExposureLevel       *string    `json:"exposure_level,omitempty" db:"exposure_level"`
	InhibitionStatus    string     `json:"inhibition_status" db:"inhibition_status"`
	InhibitionCourt     *string    `json:"inhibition_court,omitempty" db:"inhibition_court"`
	InhibitionCreditor  *string    `json:"inhibition_creditor,omitempty" db:"inhibition_creditor"`
	Recommendation      *string    `json:"recommendation,omitempty" db:"recommendation"`
	DiagnosticChecklist Checklist  `json:"diagnostic_checklist" db:"diagnostic_checklist"`
	OpenedAt            time.Time  `json:"opened_at" db:"opened_at"`
	ClosedAt            *time.Time `json:"closed_at,omitempty" db:"closed_at"`
	CreatedAt           time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at" db:"updated_at"`
}

// DTOs for requests and responses

type CreateCaseRequest struct {
	ContactID  string `json:"contact_id" validate:"omitempty,uuid"`
	NewName    string `json:"new_name"`
	NewEmail   string `json:"new_email" validate:"omitempty,email"`
	NewPhone   string `json:"new_phone"`
	LawyerID   string `json:"lawyer_id" validate:"required,uuid"`
	TaxID      string `json:"tax_id"`
	Objective  string `json:"objective"`
	Employment string `json:"employment"`
	BCRA       string `json:"bcra"`
}

type ChangeCaseStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type ChangeUrgencyRequest struct {
	Urgency string `json:"urgency" validate:"required,oneof=low medium high critical"`
}

type SaveDiagnosticRequest struct {
	Checklist          map[string]bool `json:"checklist"`
	Recommendation     string          `json:"recommendation"`
	ExposureLevel      string          `json:"exposure_level"`
	ClientObjective    string          `json:"client_objective"`
	BCRASituation      string          `json:"bcra_situation" validate:"omitempty,oneof=normal low_risk deficient doubtful irrecoverable"`
	InhibitionStatus   string          `json:"inhibition_status" validate:"omitempty,oneof=none active lifted"`
	InhibitionCourt    string          `json:"inhibition_court"`
	InhibitionCreditor string          `json:"inhibition_creditor"`
}
