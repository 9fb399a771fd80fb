package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Debt categories. Each category maps to a statute-of-limitations period in
// months through configuration (jurisdiction constant).
const (
	DebtCategoryCard         = "card"
	DebtCategoryPersonalLoan = "personal_loan"
	DebtCategoryOverdraft    = "overdraft"
	DebtCategoryMortgage     = "mortgage"
	DebtCategoryChattel      = "chattel"
	DebtCategoryOther        = "other"
)

// Negotiation states of a debt
const (
	DebtStatusActive          = "active"
	DebtStatusNegotiating     = "negotiating"
	DebtStatusProposalSent    = "proposal_sent"
	DebtStatusCounteroffer    = "counteroffer_received"
	DebtStatusVerbalAgreement = "verbal_agreement"
	DebtStatusFormalAgreement = "formal_agreement"
	DebtStatusPerforming      = "performing"
	DebtStatusLitigated       = "litigated"
	DebtStatusClosed          = "closed"
	DebtStatusAbandoned       = "abandoned"
)

// Judicial risk levels
const (
	JudicialRiskNone     = "none"
	JudicialRiskLow      = "low"
	JudicialRiskMedium   = "medium"
	JudicialRiskHigh     = "high"
	JudicialRiskImminent = "imminent"
)

// Mediation states
const (
	MediationNotApplicable = "not_applicable"
	MediationNotStarted    = "not_started"
	MediationNotified      = "notified"
	MediationInProgress    = "in_progress"
	MediationAgreement     = "agreement"
	MediationFailed        = "failed"
)

// DebtRecord is one liability owed by the client. TotalClaimed is always
// currentPrincipal + accruedInterest + penaltyInterest; prescription fields
// are recomputed whenever the default date, category or interruption cause
// changes.
type DebtRecord struct {
	ID                 uuid.UUID        `json:"id" db:"id"`
	CaseID             uuid.UUID        `json:"case_id" db:"case_id"`
	OriginalCreditor   string           `json:"original_creditor" db:"original_creditor"`
	CurrentCreditor    string           `json:"current_creditor" db:"current_creditor"`
	WasAssigned        bool             `json:"was_assigned" db:"was_assigned"`
	Category           string           `json:"category" db:"category"`
	Status             string           `json:"status" db:"status"`
	BCRASituation      *string          `json:"bcra_situation,omitempty" db:"bcra_situation"`
	DefaultDate        *time.Time       `json:"default_date,omitempty" db:"default_date"`
	OriginalPrincipal  decimal.Decimal  `json:"original_principal" db:"original_principal"`
	CurrentPrincipal   decimal.Decimal  `json:"current_principal" db:"current_principal"`
	AccruedInterest    decimal.Decimal  `json:"accrued_interest" db:"accrued_interest"`
	PenaltyInterest    decimal.Decimal  `json:"penalty_interest" db:"penalty_interest"`
	TotalClaimed       decimal.Decimal  `json:"total_claimed" db:"total_claimed"`
	LitigationCosts    decimal.Decimal  `json:"litigation_costs" db:"litigation_costs"`
	CounselFees        decimal.Decimal  `json:"counsel_fees" db:"counsel_fees"`
	AgreedAmount       *decimal.Decimal `json:"agreed_amount,omitempty" db:"agreed_amount"`
	PrescriptionMonths int              `json:"prescription_months" db:"prescription_months"`
	PrescriptionStart  *time.Time       `json:"prescription_start,omitempty" db:"prescription_start"`
	PrescriptionDate   *time.Time       `json:"prescription_date,omitempty" db:"prescription_date"`
	PrescriptionStatus string           `json:"prescription_status" db:"prescription_status"`
	InterruptionCause  *string          `json:"interruption_cause,omitempty" db:"interruption_cause"`
	JudicialRisk       string           `json:"judicial_risk" db:"judicial_risk"`
	MediationStatus    string           `json:"mediation_status" db:"mediation_status"`
	MediationNotified  *time.Time       `json:"mediation_notified,omitempty" db:"mediation_notified"`
	MediationHearing   *time.Time       `json:"mediation_hearing,omitempty" db:"mediation_hearing"`
	CourtCaseRef       *string          `json:"court_case_ref,omitempty" db:"court_case_ref"`
	Court              *string          `json:"court,omitempty" db:"court"`
	Jurisdiction       *string          `json:"jurisdiction,omitempty" db:"jurisdiction"`
	Notes              *string          `json:"notes,omitempty" db:"notes"`
	CreatedAt          time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at" db:"updated_at"`

	// MoraDays is computed at read time, never stored.
	MoraDays int `json:"mora_days" db:"-"`
}

// DTOs for requests and responses

type CreateDebtRequest struct {
	OriginalCreditor  string          `json:"original_creditor" validate:"required"`
	CurrentCreditor   string          `json:"current_creditor"`
	WasAssigned       bool            `json:"was_assigned"`
	Category          string          `json:"category" validate:"required,oneof=card personal_loan overdraft mortgage chattel other"`
	BCRASituation     string          `json:"bcra_situation"`
	DefaultDate       string          `json:"default_date" validate:"omitempty,datetime=2006-01-02"`
	OriginalPrincipal decimal.Decimal `json:"original_principal"`
	CurrentPrincipal  decimal.Decimal `json:"current_principal"`
	AccruedInterest   decimal.Decimal `json:"accrued_interest"`
	PenaltyInterest   decimal.Decimal `json:"penalty_interest"`
	LitigationCosts   decimal.Decimal `json:"litigation_costs"`
	CounselFees       decimal.Decimal `json:"counsel_fees"`
	JudicialRisk      string          `json:"judicial_risk" validate:"omitempty,oneof=none low medium high imminent"`
	MediationStatus   string          `json:"mediation_status"`
	MediationNotified string          `json:"mediation_notified" validate:"omitempty,datetime=2006-01-02"`
	MediationHearing  string          `json:"mediation_hearing" validate:"omitempty,datetime=2006-01-02"`
	CourtCaseRef      string          `json:"court_case_ref"`
	Court             string          `json:"court"`
	Jurisdiction      string          `json:"jurisdiction"`
	Notes             string          `json:"notes"`
}

type UpdateDebtStatusRequest struct {
	Status       string           `json:"status" validate:"required"`
	AgreedAmount *decimal.Decimal `json:"agreed_amount,omitempty"`
}

type SetInterruptionRequest struct {
	Cause string `json:"cause"`
}
