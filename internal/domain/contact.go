package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	ContactSourceWeb      = "web"
	ContactSourceReferral = "referral"
	ContactSourcePhone    = "phone"
	ContactSourceOther    = "other"
)

// Contact is a person the firm has dealt with: a prospect who sent an
// inquiry, or an actual client once a case is opened for them.
type Contact struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	OrganizationID uuid.UUID  `json:"organization_id" db:"organization_id"`
	Name           string     `json:"name" db:"name"`
	Email          string     `json:"email" db:"email"`
	Phone          string     `json:"phone" db:"phone"`
	Locality       *string    `json:"locality,omitempty" db:"locality"`
	Source         string     `json:"source" db:"source"`
	IsClient       bool       `json:"is_client" db:"is_client"`
	ClientSince    *time.Time `json:"client_since,omitempty" db:"client_since"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
}
