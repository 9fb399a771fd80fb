package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/lucianocastr/estudiors/internal/domain"
)

type alertRepository struct {
	db *sqlx.DB
}

func NewAlertRepository(db *sqlx.DB) AlertRepository {
	return &alertRepository{db: db}
}

func (r *alertRepository) Create(ctx context.Context, alert *domain.Alert) error {
	query := `
		INSERT INTO alerts (id, case_id, debt_id, category, trigger_date, description, priority,
			status, assignee_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.ExecContext(ctx, query,
		alert.ID,
		alert.CaseID,
		alert.DebtID,
		alert.Category,
		alert.TriggerDate,
		alert.Description,
		alert.Priority,
		alert.Status,
		alert.AssigneeID,
		alert.CreatedAt,
	)

	return err
}

func (r *alertRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Alert, error) {
	query := `
		SELECT id, case_id, debt_id, category, trigger_date, description, priority, status,
			assignee_id, created_at
		FROM alerts
		WHERE id = $1
	`

	var alert domain.Alert
	err := r.db.GetContext(ctx, &alert, query, id)
	if err != nil {
		return nil, err
	}

	return &alert, nil
}

func (r *alertRepository) ListByCase(ctx context.Context, caseID uuid.UUID) ([]*domain.Alert, error) {
	query := `
		SELECT id, case_id, debt_id, category, trigger_date, description, priority, status,
			assignee_id, created_at
		FROM alerts
		WHERE case_id = $1
		ORDER BY trigger_date
	`

	var alerts []*domain.Alert
	err := r.db.SelectContext(ctx, &alerts, query, caseID)
	if err != nil {
		return nil, err
	}

	return alerts, nil
}

func (r *alertRepository) FindPending(ctx context.Context, caseID uuid.UUID, debtID *uuid.UUID, category string) (*domain.Alert, error) {
	query := `
		SELECT id, case_id, debt_id, category, trigger_date, description, priority, status,
			assignee_id, created_at
		FROM alerts
		WHERE case_id = $1 AND category = $2 AND status = $3
		  AND ($4::uuid IS NULL OR debt_id = $4)
		LIMIT 1
	`

	var alert domain.Alert
	err := r.db.GetContext(ctx, &alert, query, caseID, category, domain.AlertStatusPending, debtID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &alert, nil
}

func (r *alertRepository) CountPendingByPriority(ctx context.Context, orgID uuid.UUID) (map[string]int, error) {
	query := `
		SELECT a.priority AS key, COUNT(*) AS total
		FROM alerts a
		JOIN restructuring_cases c ON c.id = a.case_id
		WHERE c.organization_id = $1 AND a.status = $2
		GROUP BY a.priority
	`

	rows := []statusCount{}
	if err := r.db.SelectContext(ctx, &rows, query, orgID, domain.AlertStatusPending); err != nil {
		return nil, err
	}

	return countsByKey(rows), nil
}

func (r *alertRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	query := `UPDATE alerts SET status = $2 WHERE id = $1`

	_, err := r.db.ExecContext(ctx, query, id, status)
	return err
}
