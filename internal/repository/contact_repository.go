package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/lucianocastr/estudiors/internal/domain"
)

type contactRepository struct {
	db *sqlx.DB
}

func NewContactRepository(db *sqlx.DB) ContactRepository {
	return &contactRepository{db: db}
}

func (r *contactRepository) Create(ctx context.Context, contact *domain.Contact) error {
	query := `
		INSERT INTO contacts (id, organization_id, name, email, phone, locality, source, is_client, client_since, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.ExecContext(ctx, query,
		contact.ID,
		contact.OrganizationID,
		contact.Name,
		contact.Email,
		contact.Phone,
		contact.Locality,
		contact.Source,
		contact.IsClient,
		contact.ClientSince,
		contact.CreatedAt,
	)

	return err
}

func (r *contactRepository) GetByEmail(ctx context.Context, orgID uuid.UUID, email string) (*domain.Contact, error) {
	query := `
		SELECT id, organization_id, name, email, phone, locality, source, is_client, client_since, created_at
		FROM contacts
		WHERE organization_id = $1 AND email = $2
	`

	var contact domain.Contact
	err := r.db.GetContext(ctx, &contact, query, orgID, email)
	if err != nil {
		return nil, err
	}

	return &contact, nil
}

func (r *contactRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Contact, error) {
	query := `
		SELECT id, organization_id, name, email, phone, locality, source, is_client, client_since, created_at
		FROM contacts
		WHERE id = $1
	`

	var contact domain.Contact
	err := r.db.GetContext(ctx, &contact, query, id)
	if err != nil {
		return nil, err
	}

	return &contact, nil
}

func (r *contactRepository) MarkAsClient(ctx context.Context, id uuid.UUID, since time.Time) error {
	query := `
		UPDATE contacts
		SET is_client = TRUE, client_since = COALESCE(client_since, $2)
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query, id, since)
	return err
}
