package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Strategic scenario kinds
const (
	ScenarioRefinance       = "refinance"
	ScenarioExternalLoan    = "external_loan"
	ScenarioAwaitWriteoff   = "await_writeoff"
	ScenarioSellAsset       = "sell_asset"
	ScenarioContestInterest = "contest_interest"
	ScenarioInsolvency      = "insolvency"
	ScenarioOutOfCourt      = "out_of_court"
	ScenarioCombined        = "combined"
)

// Scenario lifecycle states
const (
	ScenarioStatusDraft     = "draft"
	ScenarioStatusPresented = "presented"
	ScenarioStatusAccepted  = "accepted"
	ScenarioStatusRejected  = "rejected"
)

// Scenario is one strategic option worked out for a case. At most one
// scenario per case is selected.
type Scenario struct {
	ID             uuid.UUID        `json:"id" db:"id"`
	CaseID         uuid.UUID        `json:"case_id" db:"case_id"`
	Name           string           `json:"name" db:"name"`
	Kind           string           `json:"kind" db:"kind"`
	Description    *string          `json:"description,omitempty" db:"description"`
	TotalPayable   decimal.Decimal  `json:"total_payable" db:"total_payable"`
	TermMonths     *int             `json:"term_months,omitempty" db:"term_months"`
	MonthlyPayment *decimal.Decimal `json:"monthly_payment,omitempty" db:"monthly_payment"`
	Risk           string           `json:"risk" db:"risk"`
	Advantages     *string          `json:"advantages,omitempty" db:"advantages"`
	Disadvantages  *string          `json:"disadvantages,omitempty" db:"disadvantages"`
	Recommended    bool             `json:"recommended" db:"recommended"`
	Selected       bool             `json:"selected" db:"selected"`
	Status         string           `json:"status" db:"status"`
	PresentedAt    *time.Time       `json:"presented_at,omitempty" db:"presented_at"`
	CreatedAt      time.Time        `json:"created_at" db:"created_at"`
}

type CreateScenarioRequest struct {
	Name           string           `json:"name" validate:"required"`
	Kind           string           `json:"kind" validate:"required,oneof=refinance external_loan await_writeoff sell_asset contest_interest insolvency out_of_court combined"`
	Description    string           `json:"description"`
	TotalPayable   decimal.Decimal  `json:"total_payable"`
	TermMonths     *int             `json:"term_months,omitempty"`
	MonthlyPayment *decimal.Decimal `json:"monthly_payment,omitempty"`
	Risk           string           `json:"risk" validate:"omitempty,oneof=low medium high"`
	Advantages     string           `json:"advantages"`
	Disadvantages  string           `json:"disadvantages"`
	Recommended    bool             `json:"recommended"`
}
