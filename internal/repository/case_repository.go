package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/lucianocastr/estudiors/internal/domain"
)

type caseRepository struct {
	db *sqlx.DB
}

// statusCount is the row shape of the GROUP BY aggregations used for
// dashboard stats.
type statusCount struct {
	Key   string `db:"key"`
	Total int    `db:"total"`
}

func countsByKey(rows []statusCount) map[string]int {
	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.Key] = row.Total
	}
	return counts
}

func NewCaseRepository(db *sqlx.DB) CaseRepository {
	return &caseRepository{db: db}
}

func (r *caseRepository) Create(ctx context.Context, c *domain.Case) error {
	query := `
		INSERT INTO restructuring_cases (id, case_number, organization_id, contact_id, lawyer_id,
			status, urgency, tax_id, client_objective, employment_situation, bcra_situation,
			inhibition_status, diagnostic_checklist, opened_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	_, err := r.db.ExecContext(ctx, query,
		c.ID,
		c.CaseNumber,
		c.OrganizationID,
		c.ContactID,
		c.LawyerID,
		c.Status,
		c.Urgency,
		c.TaxID,
		c.ClientObjective,
		c.EmploymentSituation,
		c.BCRASituation,
		c.InhibitionStatus,
		c.DiagnosticChecklist,
		c.OpenedAt,
		c.CreatedAt,
		c.UpdatedAt,
	)

	return err
}

const caseColumns = `id, case_number, organization_id, contact_id, lawyer_id, status, urgency,
	tax_id, client_objective, employment_situation, bcra_situation, exposure_level,
	inhibition_status, inhibition_court, inhibition_creditor, recommendation,
	diagnostic_checklist, opened_at, closed_at, created_at, updated_at`

func (r *caseRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Case, error) {
	query := `SELECT ` + caseColumns + ` FROM restructuring_cases WHERE id = $1`

	var c domain.Case
	err := r.db.GetContext(ctx, &c, query, id)
	if err != nil {
		return nil, err
	}

	return &c, nil
}

func (r *caseRepository) ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]*domain.Case, error) {
	query := `SELECT ` + caseColumns + ` FROM restructuring_cases WHERE organization_id = $1 ORDER BY created_at DESC`

	var cases []*domain.Case
	err := r.db.SelectContext(ctx, &cases, query, orgID)
	if err != nil {
		return nil, err
	}

	return cases, nil
}

func (r *caseRepository) HighestCaseNumber(ctx context.Context, orgID uuid.UUID, prefix string) (string, error) {
	query := `
		SELECT case_number
		FROM restructuring_cases
		WHERE organization_id = $1 AND case_number LIKE $2 || '%'
		ORDER BY case_number DESC
		LIMIT 1
	`

	var number string
	err := r.db.GetContext(ctx, &number, query, orgID, prefix)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}

	return number, nil
}

func (r *caseRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string, closedAt *time.Time) error {
	query := `
		UPDATE restructuring_cases
		SET status = $2, closed_at = COALESCE(closed_at, $3), updated_at = $4
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query, id, status, closedAt, time.Now())
	return err
}

func (r *caseRepository) UpdateUrgency(ctx context.Context, id uuid.UUID, urgency string) error {
	query := `UPDATE restructuring_cases SET urgency = $2, updated_at = $3 WHERE id = $1`

	_, err := r.db.ExecContext(ctx, query, id, urgency, time.Now())
	return err
}

func (r *caseRepository) CountByStatus(ctx context.Context, orgID uuid.UUID) (map[string]int, error) {
	query := `
		SELECT status AS key, COUNT(*) AS total
		FROM restructuring_cases
		WHERE organization_id = $1
		GROUP BY status
	`

	rows := []statusCount{}
	if err := r.db.SelectContext(ctx, &rows, query, orgID); err != nil {
		return nil, err
	}

	return countsByKey(rows), nil
}

func (r *caseRepository) SaveDiagnostic(ctx context.Context, c *domain.Case) error {
	query := `
		UPDATE restructuring_cases
		SET diagnostic_checklist = $2, recommendation = $3, exposure_level = $4,
			client_objective = $5, bcra_situation = $6, inhibition_status = $7,
			inhibition_court = $8, inhibition_creditor = $9, updated_at = $10
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query,
		c.ID,
		c.DiagnosticChecklist,
		c.Recommendation,
		c.ExposureLevel,
		c.ClientObjective,
		c.BCRASituation,
		c.InhibitionStatus,
		c.InhibitionCourt,
		c.InhibitionCreditor,
		time.Now(),
	)

	return err
}
