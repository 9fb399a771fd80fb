package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/lucianocastr/estudiors/internal/domain"
)

type analysisRepository struct {
	db *sqlx.DB
}

func NewAnalysisRepository(db *sqlx.DB) AnalysisRepository {
	return &analysisRepository{db: db}
}

func (r *analysisRepository) Create(ctx context.Context, analysis *domain.FinancialAnalysis) error {
	query := `
		INSERT INTO financial_analyses (id, case_id, version, net_monthly_income, fixed_expenses,
			monthly_debt_service, gross_liabilities, claimed_liabilities, total_with_costs,
			estimated_assets, payment_capacity, disposable_cash_flow, debt_to_income_ratio,
			months_to_regularize, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	_, err := r.db.ExecContext(ctx, query,
		analysis.ID,
		analysis.CaseID,
		analysis.Version,
		analysis.NetMonthlyIncome,
		analysis.FixedExpenses,
		analysis.MonthlyDebtService,
		analysis.GrossLiabilities,
		analysis.ClaimedLiabilities,
		analysis.TotalWithCosts,
		analysis.EstimatedAssets,
		analysis.PaymentCapacity,
		analysis.DisposableCashFlow,
		analysis.DebtToIncomeRatio,
		analysis.MonthsToRegularize,
		analysis.Notes,
		analysis.CreatedAt,
	)

	return err
}

func (r *analysisRepository) LatestVersion(ctx context.Context, caseID uuid.UUID) (int, error) {
	query := `SELECT version FROM financial_analyses WHERE case_id = $1 ORDER BY version DESC LIMIT 1`

	var version int
	err := r.db.GetContext(ctx, &version, query, caseID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	return version, nil
}

func (r *analysisRepository) ListByCase(ctx context.Context, caseID uuid.UUID) ([]*domain.FinancialAnalysis, error) {
	query := `
		SELECT id, case_id, version, net_monthly_income, fixed_expenses, monthly_debt_service,
			gross_liabilities, claimed_liabilities, total_with_costs, estimated_assets,
			payment_capacity, disposable_cash_flow, debt_to_income_ratio, months_to_regularize,
			notes, created_at
		FROM financial_analyses
		WHERE case_id = $1
		ORDER BY version DESC
	`

	var analyses []*domain.FinancialAnalysis
	err := r.db.SelectContext(ctx, &analyses, query, caseID)
	if err != nil {
		return nil, err
	}

	return analyses, nil
}
