package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/lucianocastr/estudiors/internal/domain"
)

const notificationColumns = `id, organization_id, recipient, subject, template, payload, priority,
	status, attempts, max_attempts, last_error, next_retry_at, processed_at, created_at`

type notificationRepository struct {
	db *sqlx.DB
}

func NewNotificationRepository(db *sqlx.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Enqueue(ctx context.Context, item *domain.NotificationQueueItem) error {
	query := `
		INSERT INTO notification_queue (id, organization_id, recipient, subject, template, payload,
			priority, status, attempts, max_attempts, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.ExecContext(ctx, query,
		item.ID,
		item.OrganizationID,
		item.Recipient,
		item.Subject,
		item.Template,
		item.Payload,
		item.Priority,
		item.Status,
		item.Attempts,
		item.MaxAttempts,
		item.CreatedAt,
	)

	return err
}

func (r *notificationRepository) SelectDispatchable(ctx context.Context, now time.Time, limit int) ([]*domain.NotificationQueueItem, error) {
	query := `
		SELECT ` + notificationColumns + `
		FROM notification_queue
		WHERE status = $1 AND (next_retry_at IS NULL OR next_retry_at <= $2)
		ORDER BY priority ASC, created_at ASC
		LIMIT $3
	`

	var items []*domain.NotificationQueueItem
	err := r.db.SelectContext(ctx, &items, query, domain.NotificationStatusPending, now, limit)
	if err != nil {
		return nil, err
	}

	return items, nil
}

func (r *notificationRepository) Claim(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `
		UPDATE notification_queue
		SET status = $2
		WHERE id = $1 AND status = $3
	`

	res, err := r.db.ExecContext(ctx, query, id, domain.NotificationStatusProcessing, domain.NotificationStatusPending)
	if err != nil {
		return false, err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return rows == 1, nil
}

func (r *notificationRepository) MarkSent(ctx context.Context, id uuid.UUID, processedAt time.Time) error {
	query := `
		UPDATE notification_queue
		SET status = $2, attempts = attempts + 1, last_error = NULL, next_retry_at = NULL,
			processed_at = $3
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query, id, domain.NotificationStatusSent, processedAt)
	return err
}

func (r *notificationRepository) ScheduleRetry(ctx context.Context, id uuid.UUID, nextRetryAt time.Time, lastError string) error {
	query := `
		UPDATE notification_queue
		SET status = $2, attempts = attempts + 1, last_error = $3, next_retry_at = $4
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query, id, domain.NotificationStatusPending, lastError, nextRetryAt)
	return err
}

func (r *notificationRepository) MarkFailed(ctx context.Context, id uuid.UUID, lastError string) error {
	query := `
		UPDATE notification_queue
		SET status = $2, attempts = attempts + 1, last_error = $3, next_retry_at = NULL
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query, id, domain.NotificationStatusFailed, lastError)
	return err
}

func (r *notificationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.NotificationQueueItem, error) {
	query := `
		SELECT ` + notificationColumns + `
		FROM notification_queue
		WHERE id = $1
	`

	var item domain.NotificationQueueItem
	err := r.db.GetContext(ctx, &item, query, id)
	if err != nil {
		return nil, err
	}

	return &item, nil
}
