package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/lucianocastr/estudiors/internal/domain"
)

// Asset, scenario, intervention and fee repositories share this file; each
// aggregate is small and they always travel together with a case.

type assetRepository struct {
	db *sqlx.DB
}

func NewAssetRepository(db *sqlx.DB) AssetRepository {
	return &assetRepository{db: db}
}

func (r *assetRepository) Create(ctx context.Context, asset *domain.Asset) error {
	query := `
		INSERT INTO assets (id, case_id, kind, description, estimated_value, is_registrable,
			is_attachable, is_homestead, has_lien, lien_kind, has_co_debtor, co_debtor_name,
			clawback_risk, clawback_reason, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	_, err := r.db.ExecContext(ctx, query,
		asset.ID,
		asset.CaseID,
		asset.Kind,
		asset.Description,
		asset.EstimatedValue,
		asset.IsRegistrable,
		asset.IsAttachable,
		asset.IsHomestead,
		asset.HasLien,
		asset.LienKind,
		asset.HasCoDebtor,
		asset.CoDebtorName,
		asset.ClawbackRisk,
		asset.ClawbackReason,
		asset.Notes,
		asset.CreatedAt,
	)

	return err
}

func (r *assetRepository) ListByCase(ctx context.Context, caseID uuid.UUID) ([]*domain.Asset, error) {
	query := `
		SELECT id, case_id, kind, description, estimated_value, is_registrable, is_attachable,
			is_homestead, has_lien, lien_kind, has_co_debtor, co_debtor_name, clawback_risk,
			clawback_reason, notes, created_at
		FROM assets
		WHERE case_id = $1
		ORDER BY created_at
	`

	var assets []*domain.Asset
	err := r.db.SelectContext(ctx, &assets, query, caseID)
	if err != nil {
		return nil, err
	}

	return assets, nil
}

func (r *assetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM assets WHERE id = $1`, id)
	return err
}

type scenarioRepository struct {
	db *sqlx.DB
}

func NewScenarioRepository(db *sqlx.DB) ScenarioRepository {
	return &scenarioRepository{db: db}
}

func (r *scenarioRepository) Create(ctx context.Context, scenario *domain.Scenario) error {
	query := `
		INSERT INTO scenarios (id, case_id, name, kind, description, total_payable, term_months,
			monthly_payment, risk, advantages, disadvantages, recommended, selected, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err := r.db.ExecContext(ctx, query,
		scenario.ID,
		scenario.CaseID,
		scenario.Name,
		scenario.Kind,
		scenario.Description,
		scenario.TotalPayable,
		scenario.TermMonths,
		scenario.MonthlyPayment,
		scenario.Risk,
		scenario.Advantages,
		scenario.Disadvantages,
		scenario.Recommended,
		scenario.Selected,
		scenario.Status,
		scenario.CreatedAt,
	)

	return err
}

func (r *scenarioRepository) ListByCase(ctx context.Context, caseID uuid.UUID) ([]*domain.Scenario, error) {
	query := `
		SELECT id, case_id, name, kind, description, total_payable, term_months, monthly_payment,
			risk, advantages, disadvantages, recommended, selected, status, presented_at, created_at
		FROM scenarios
		WHERE case_id = $1
		ORDER BY created_at
	`

	var scenarios []*domain.Scenario
	err := r.db.SelectContext(ctx, &scenarios, query, caseID)
	if err != nil {
		return nil, err
	}

	return scenarios, nil
}

func (r *scenarioRepository) MarkSelected(ctx context.Context, caseID, scenarioID uuid.UUID, presentedAt time.Time) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err = tx.ExecContext(ctx,
		`UPDATE scenarios SET selected = FALSE WHERE case_id = $1`, caseID); err != nil {
		return err
	}

	if _, err = tx.ExecContext(ctx,
		`UPDATE scenarios SET selected = TRUE, status = $2, presented_at = $3 WHERE id = $1`,
		scenarioID, domain.ScenarioStatusAccepted, presentedAt); err != nil {
		return err
	}

	return tx.Commit()
}

type interventionRepository struct {
	db *sqlx.DB
}

func NewInterventionRepository(db *sqlx.DB) InterventionRepository {
	return &interventionRepository{db: db}
}

func (r *interventionRepository) Create(ctx context.Context, intervention *domain.Intervention) error {
	query := `
		INSERT INTO interventions (id, case_id, debt_id, author_id, kind, date, counterparty,
			description, outcome, document_url, requires_follow_up, follow_up_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.db.ExecContext(ctx, query,
		intervention.ID,
		intervention.CaseID,
		intervention.DebtID,
		intervention.AuthorID,
		intervention.Kind,
		intervention.Date,
		intervention.Counterparty,
		intervention.Description,
		intervention.Outcome,
		intervention.DocumentURL,
		intervention.RequiresFollowUp,
		intervention.FollowUpDate,
		intervention.CreatedAt,
	)

	return err
}

func (r *interventionRepository) ListByCase(ctx context.Context, caseID uuid.UUID) ([]*domain.Intervention, error) {
	query := `
		SELECT id, case_id, debt_id, author_id, kind, date, counterparty, description, outcome,
			document_url, requires_follow_up, follow_up_date, created_at
		FROM interventions
		WHERE case_id = $1
		ORDER BY date DESC
	`

	var interventions []*domain.Intervention
	err := r.db.SelectContext(ctx, &interventions, query, caseID)
	if err != nil {
		return nil, err
	}

	return interventions, nil
}

type feeRepository struct {
	db *sqlx.DB
}

func NewFeeRepository(db *sqlx.DB) FeeRepository {
	return &feeRepository{db: db}
}

func (r *feeRepository) Create(ctx context.Context, fee *domain.Fee) error {
	query := `
		INSERT INTO fees (id, case_id, service_kind, stage, agreed_amount, variable_amount,
			variable_basis, invoiced_amount, collected_amount, payment_status, due_date, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.db.ExecContext(ctx, query,
		fee.ID,
		fee.CaseID,
		fee.ServiceKind,
		fee.Stage,
		fee.AgreedAmount,
		fee.VariableAmount,
		fee.VariableBasis,
		fee.InvoicedAmount,
		fee.CollectedAmount,
		fee.PaymentStatus,
		fee.DueDate,
		fee.Notes,
		fee.CreatedAt,
	)

	return err
}

func (r *feeRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Fee, error) {
	query := `
		SELECT id, case_id, service_kind, stage, agreed_amount, variable_amount, variable_basis,
			invoiced_amount, collected_amount, payment_status, due_date, notes, created_at
		FROM fees
		WHERE id = $1
	`

	var fee domain.Fee
	err := r.db.GetContext(ctx, &fee, query, id)
	if err != nil {
		return nil, err
	}

	return &fee, nil
}

func (r *feeRepository) ListByCase(ctx context.Context, caseID uuid.UUID) ([]*domain.Fee, error) {
	query := `
		SELECT id, case_id, service_kind, stage, agreed_amount, variable_amount, variable_basis,
			invoiced_amount, collected_amount, payment_status, due_date, notes, created_at
		FROM fees
		WHERE case_id = $1
		ORDER BY created_at
	`

	var fees []*domain.Fee
	err := r.db.SelectContext(ctx, &fees, query, caseID)
	if err != nil {
		return nil, err
	}

	return fees, nil
}

func (r *feeRepository) UpdatePayment(ctx context.Context, id uuid.UUID, collected decimal.Decimal, status string) error {
	query := `UPDATE fees SET collected_amount = $2, payment_status = $3 WHERE id = $1`

	_, err := r.db.ExecContext(ctx, query, id, collected, status)
	return err
}
