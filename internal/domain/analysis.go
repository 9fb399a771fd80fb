package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FinancialAnalysis is one versioned snapshot of the client's finances.
// Versions per case are strictly increasing from 1; snapshots are append-only
// and never mutated or deleted. The latest version is authoritative for
// display.
type FinancialAnalysis struct {
	ID                 uuid.UUID       `json:"id" db:"id"`
	CaseID             uuid.UUID       `json:"case_id" db:"case_id"`
	Version            int             `json:"version" db:"version"`
	NetMonthlyIncome   decimal.Decimal `json:"net_monthly_income" db:"net_monthly_income"`
	FixedExpenses      decimal.Decimal `json:"fixed_expenses" db:"fixed_expenses"`
	MonthlyDebtService decimal.Decimal `json:"monthly_debt_service" db:"monthly_debt_service"`
	GrossLiabilities   decimal.Decimal `json:"gross_liabilities" db:"gross_liabilities"`
	ClaimedLiabilities decimal.Decimal `json:"claimed_liabilities" db:"claimed_liabilities"`
	TotalWithCosts     decimal.Decimal `json:"total_with_costs" db:"total_with_costs"`
	EstimatedAssets    decimal.Decimal `json:"estimated_assets" db:"estimated_assets"`
	PaymentCapacity    decimal.Decimal `json:"payment_capacity" db:"payment_capacity"`
	DisposableCashFlow decimal.Decimal `json:"disposable_cash_flow" db:"disposable_cash_flow"`
	DebtToIncomeRatio  decimal.Decimal `json:"debt_to_income_ratio" db:"debt_to_income_ratio"`
	MonthsToRegularize *int            `json:"months_to_regularize,omitempty" db:"months_to_regularize"`
	Notes              *string         `json:"notes,omitempty" db:"notes"`
	CreatedAt          time.Time       `json:"created_at" db:"created_at"`
}

type SaveAnalysisRequest struct {
	NetMonthlyIncome   decimal.Decimal `json:"net_monthly_income"`
	FixedExpenses      decimal.Decimal `json:"fixed_expenses"`
	MonthlyDebtService decimal.Decimal `json:"monthly_debt_service"`
	GrossLiabilities   decimal.Decimal `json:"gross_liabilities"`
	ClaimedLiabilities decimal.Decimal `json:"claimed_liabilities"`
	TotalWithCosts     decimal.Decimal `json:"total_with_costs"`
	EstimatedAssets    decimal.Decimal `json:"estimated_assets"`
	PaymentCapacity    decimal.Decimal `json:"payment_capacity"`
	MonthsToRegularize *int            `json:"months_to_regularize,omitempty"`
	Notes              string          `json:"notes"`
}
