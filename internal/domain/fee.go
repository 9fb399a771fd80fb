package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Fee service kinds
const (
	FeeServiceConsultation = "consultation"
	FeeServiceDiagnosis    = "diagnosis"
	FeeServiceNegotiation  = "negotiation"
	FeeServiceLitigation   = "litigation"
	FeeServiceCombined     = "combined"
)

// Fee payment states
const (
	FeePaymentPending       = "pending"
	FeePaymentPartial       = "partial"
	FeePaymentPaid          = "paid"
	FeePaymentUncollectible = "uncollectible"
)

// Fee is one agreed professional fee for a stage of the engagement. Amounts
// are in local currency; variable components are expressed in jus through
// the basis text, never as a hardcoded monetary value.
type Fee struct {
	ID              uuid.UUID        `json:"id" db:"id"`
	CaseID          uuid.UUID        `json:"case_id" db:"case_id"`
	ServiceKind     string           `json:"service_kind" db:"service_kind"`
	Stage           string           `json:"stage" db:"stage"`
	AgreedAmount    decimal.Decimal  `json:"agreed_amount" db:"agreed_amount"`
	VariableAmount  *decimal.Decimal `json:"variable_amount,omitempty" db:"variable_amount"`
	VariableBasis   *string          `json:"variable_basis,omitempty" db:"variable_basis"`
	InvoicedAmount  decimal.Decimal  `json:"invoiced_amount" db:"invoiced_amount"`
	CollectedAmount decimal.Decimal  `json:"collected_amount" db:"collected_amount"`
	PaymentStatus   string           `json:"payment_status" db:"payment_status"`
	DueDate         *time.Time       `json:"due_date,omitempty" db:"due_date"`
	Notes           *string          `json:"notes,omitempty" db:"notes"`
	CreatedAt       time.Time        `json:"created_at" db:"created_at"`
}

type CreateFeeRequest struct {
	ServiceKind    string           `json:"service_kind" validate:"required,oneof=consultation diagnosis negotiation litigation combined"`
	Stage          string           `json:"stage" validate:"required"`
	AgreedAmount   decimal.Decimal  `json:"agreed_amount"`
	VariableAmount *decimal.Decimal `json:"variable_amount,omitempty"`
	VariableBasis  string           `json:"variable_basis"`
	InvoicedAmount decimal.Decimal  `json:"invoiced_amount"`
	DueDate        string           `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
	Notes          string           `json:"notes"`
}

type UpdateFeePaymentRequest struct {
	CollectedAmount decimal.Decimal `json:"collected_amount"`
	PaymentStatus   string          `json:"payment_status" validate:"required,oneof=pending partial paid uncollectible"`
}
