package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/lucianocastr/estudiors/internal/domain"
)

type debtRepository struct {
	db *sqlx.DB
}

func NewDebtRepository(db *sqlx.DB) DebtRepository {
	return &debtRepository{db: db}
}

const debtColumns = `id, case_id, original_creditor, current_creditor, was_assigned, category, status,
	bcra_situation, default_date, original_principal, current_principal, accrued_interest,
	penalty_interest, total_claimed, litigation_costs, counsel_fees, agreed_amount,
	prescription_months, prescription_start, prescription_date, prescription_status,
	interruption_cause, judicial_risk, mediation_status, mediation_notified, mediation_hearing,
	court_case_ref, court, jurisdiction, notes, created_at, updated_at`

func (r *debtRepository) Create(ctx context.Context, debt *domain.DebtRecord) error {
	query := `
		INSERT INTO debt_records (` + debtColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17,
			$18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29, $30, $31, $32)
	`

	_, err := r.db.ExecContext(ctx, query,
		debt.ID,
		debt.CaseID,
		debt.OriginalCreditor,
		debt.CurrentCreditor,
		debt.WasAssigned,
		debt.Category,
		debt.Status,
		debt.BCRASituation,
		debt.DefaultDate,
		debt.OriginalPrincipal,
		debt.CurrentPrincipal,
		debt.AccruedInterest,
		debt.PenaltyInterest,
		debt.TotalClaimed,
		debt.LitigationCosts,
		debt.CounselFees,
		debt.AgreedAmount,
		debt.PrescriptionMonths,
		debt.PrescriptionStart,
		debt.PrescriptionDate,
		debt.PrescriptionStatus,
		debt.InterruptionCause,
		debt.JudicialRisk,
		debt.MediationStatus,
		debt.MediationNotified,
		debt.MediationHearing,
		debt.CourtCaseRef,
		debt.Court,
		debt.Jurisdiction,
		debt.Notes,
		debt.CreatedAt,
		debt.UpdatedAt,
	)

	return err
}

func (r *debtRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.DebtRecord, error) {
	query := `SELECT ` + debtColumns + ` FROM debt_records WHERE id = $1`

	var debt domain.DebtRecord
	err := r.db.GetContext(ctx, &debt, query, id)
	if err != nil {
		return nil, err
	}

	return &debt, nil
}

func (r *debtRepository) ListByCase(ctx context.Context, caseID uuid.UUID) ([]*domain.DebtRecord, error) {
	query := `SELECT ` + debtColumns + ` FROM debt_records WHERE case_id = $1 ORDER BY created_at`

	var debts []*domain.DebtRecord
	err := r.db.SelectContext(ctx, &debts, query, caseID)
	if err != nil {
		return nil, err
	}

	return debts, nil
}

func (r *debtRepository) Update(ctx context.Context, debt *domain.DebtRecord) error {
	query := `
		UPDATE debt_records
		SET current_principal = $2, accrued_interest = $3, penalty_interest = $4, total_claimed = $5,
			litigation_costs = $6, counsel_fees = $7, default_date = $8, category = $9,
			prescription_months = $10, prescription_start = $11, prescription_date = $12,
			prescription_status = $13, interruption_cause = $14, judicial_risk = $15,
			mediation_status = $16, mediation_notified = $17, mediation_hearing = $18,
			updated_at = $19
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query,
		debt.ID,
		debt.CurrentPrincipal,
		debt.AccruedInterest,
		debt.PenaltyInterest,
		debt.TotalClaimed,
		debt.LitigationCosts,
		debt.CounselFees,
		debt.DefaultDate,
		debt.Category,
		debt.PrescriptionMonths,
		debt.PrescriptionStart,
		debt.PrescriptionDate,
		debt.PrescriptionStatus,
		debt.InterruptionCause,
		debt.JudicialRisk,
		debt.MediationStatus,
		debt.MediationNotified,
		debt.MediationHearing,
		time.Now(),
	)

	return err
}

func (r *debtRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string, agreedAmount *decimal.Decimal) error {
	query := `
		UPDATE debt_records
		SET status = $2, agreed_amount = COALESCE($3, agreed_amount), updated_at = $4
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query, id, status, agreedAmount, time.Now())
	return err
}

func (r *debtRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM debt_records WHERE id = $1`

	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

func (r *debtRepository) ListTracked(ctx context.Context) ([]*domain.DebtRecord, error) {
	query := `
		SELECT ` + debtColumns + `
		FROM debt_records
		WHERE prescription_date IS NOT NULL
		  AND prescription_status NOT IN ('interrupted', 'suspended')
		ORDER BY prescription_date
	`

	var debts []*domain.DebtRecord
	err := r.db.SelectContext(ctx, &debts, query)
	if err != nil {
		return nil, err
	}

	return debts, nil
}
