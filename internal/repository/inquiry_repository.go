package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/lucianocastr/estudiors/internal/domain"
)

type inquiryRepository struct {
	db *sqlx.DB
}

func NewInquiryRepository(db *sqlx.DB) InquiryRepository {
	return &inquiryRepository{db: db}
}

func (r *inquiryRepository) Create(ctx context.Context, inquiry *domain.Inquiry) error {
	query := `
		INSERT INTO inquiries (id, organization_id, contact_id, specialty, problem_type, description,
			urgent, accepts_terms, disclaimer_read, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.ExecContext(ctx, query,
		inquiry.ID,
		inquiry.OrganizationID,
		inquiry.ContactID,
		inquiry.Specialty,
		inquiry.ProblemType,
		inquiry.Description,
		inquiry.Urgent,
		inquiry.AcceptsTerms,
		inquiry.DisclaimerRead,
		inquiry.Status,
		inquiry.CreatedAt,
	)

	return err
}

func (r *inquiryRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Inquiry, error) {
	query := `
		SELECT id, organization_id, contact_id, specialty, problem_type, description,
			urgent, accepts_terms, disclaimer_read, status, contacted_at, converted_at, closed_at, created_at
		FROM inquiries
		WHERE id = $1
	`

	var inquiry domain.Inquiry
	err := r.db.GetContext(ctx, &inquiry, query, id)
	if err != nil {
		return nil, err
	}

	return &inquiry, nil
}

func (r *inquiryRepository) ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]*domain.Inquiry, error) {
	query := `
		SELECT id, organization_id, contact_id, specialty, problem_type, description,
			urgent, accepts_terms, disclaimer_read, status, contacted_at, converted_at, closed_at, created_at
		FROM inquiries
		WHERE organization_id = $1
		ORDER BY created_at DESC
	`

	var inquiries []*domain.Inquiry
	err := r.db.SelectContext(ctx, &inquiries, query, orgID)
	if err != nil {
		return nil, err
	}

	return inquiries, nil
}

func (r *inquiryRepository) CountByStatus(ctx context.Context, orgID uuid.UUID) (map[string]int, error) {
	query := `
		SELECT status AS key, COUNT(*) AS total
		FROM inquiries
		WHERE organization_id = $1
		GROUP BY status
	`

	rows := []statusCount{}
	if err := r.db.SelectContext(ctx, &rows, query, orgID); err != nil {
		return nil, err
	}

	return countsByKey(rows), nil
}

// allowed first-transition timestamp columns, keyed by status
var inquiryStampColumns = map[string]bool{
	"contacted_at": true,
	"converted_at": true,
	"closed_at":    true,
}

func (r *inquiryRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string, column string, at time.Time) error {
	if column == "" {
		query := `UPDATE inquiries SET status = $2 WHERE id = $1`
		_, err := r.db.ExecContext(ctx, query, id, status)
		return err
	}

	if !inquiryStampColumns[column] {
		return fmt.Errorf("invalid inquiry timestamp column %q", column)
	}

	// COALESCE keeps the first transition timestamp on repeated status flips
	query := fmt.Sprintf(`UPDATE inquiries SET status = $2, %s = COALESCE(%s, $3) WHERE id = $1`, column, column)
	_, err := r.db.ExecContext(ctx, query, id, status, at)
	return err
}

func (r *inquiryRepository) CreateEvent(ctx context.Context, event *domain.InquiryEvent) error {
	query := `
		INSERT INTO inquiry_events (id, inquiry_id, organization_id, author_id, kind,
			previous_status, new_status, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.ExecContext(ctx, query,
		event.ID,
		event.InquiryID,
		event.OrganizationID,
		event.AuthorID,
		event.Kind,
		event.PreviousStatus,
		event.NewStatus,
		event.Metadata,
		event.CreatedAt,
	)

	return err
}

func (r *inquiryRepository) CreateNote(ctx context.Context, note *domain.Note) error {
	query := `
		INSERT INTO notes (id, inquiry_id, organization_id, author_id, content, kind, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(ctx, query,
		note.ID,
		note.InquiryID,
		note.OrganizationID,
		note.AuthorID,
		note.Content,
		note.Kind,
		note.CreatedAt,
	)

	return err
}

func (r *inquiryRepository) CreateAppointment(ctx context.Context, appointment *domain.Appointment) error {
	query := `
		INSERT INTO appointments (id, inquiry_id, organization_id, mode, preferred_date, preferred_slot, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(ctx, query,
		appointment.ID,
		appointment.InquiryID,
		appointment.OrganizationID,
		appointment.Mode,
		appointment.PreferredDate,
		appointment.PreferredSlot,
		appointment.Status,
		appointment.CreatedAt,
	)

	return err
}

func (r *inquiryRepository) GetAppointmentByInquiry(ctx context.Context, inquiryID uuid.UUID) (*domain.Appointment, error) {
	query := `
		SELECT id, inquiry_id, organization_id, mode, preferred_date, preferred_slot, status,
			confirmed_date, video_call_link, rejection_reason, created_at
		FROM appointments
		WHERE inquiry_id = $1
	`

	var appointment domain.Appointment
	err := r.db.GetContext(ctx, &appointment, query, inquiryID)
	if err != nil {
		return nil, err
	}

	return &appointment, nil
}

func (r *inquiryRepository) ConfirmAppointment(ctx context.Context, inquiryID uuid.UUID, confirmedDate time.Time, videoCallLink *string) error {
	query := `
		UPDATE appointments
		SET status = $2, confirmed_date = $3, video_call_link = $4
		WHERE inquiry_id = $1
	`

	_, err := r.db.ExecContext(ctx, query, inquiryID, domain.AppointmentStatusConfirmed, confirmedDate, videoCallLink)
	return err
}

func (r *inquiryRepository) RejectAppointment(ctx context.Context, inquiryID uuid.UUID, reason *string) error {
	query := `
		UPDATE appointments
		SET status = $2, rejection_reason = $3
		WHERE inquiry_id = $1
	`

	_, err := r.db.ExecContext(ctx, query, inquiryID, domain.AppointmentStatusRejected, reason)
	return err
}
