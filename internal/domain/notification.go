package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Queue item states. Sent and failed are terminal; a failed item is only
// ever re-sent by manual intervention.
const (
	NotificationStatusPending    = "pending"
	NotificationStatusProcessing = "processing"
	NotificationStatusSent       = "sent"
	NotificationStatusFailed     = "failed"
)

// Queue priorities: lower dispatches first.
const (
	NotificationPriorityUrgent = 1
	NotificationPriorityNormal = 5
)

// Notification template identifiers. Each id has exactly one typed dispatch
// handler registered in the mailer.
const (
	TemplateNewInquiryAdmin      = "new-inquiry-admin"
	TemplateInquiryConfirmation  = "inquiry-confirmation"
	TemplateAppointmentConfirmed = "appointment-confirmed"
)

// NotificationQueueItem is one outbound message awaiting delivery. The
// payload is opaque to the queue; its shape is fixed by the template id and
// decoded by the matching dispatch handler. Items are retained after
// delivery as an audit trail.
type NotificationQueueItem struct {
	ID             uuid.UUID       `json:"id" db:"id"`
	OrganizationID uuid.UUID       `json:"organization_id" db:"organization_id"`
	Recipient      string          `json:"recipient" db:"recipient"`
	Subject        string          `json:"subject" db:"subject"`
	Template       string          `json:"template" db:"template"`
	Payload        json.RawMessage `json:"payload" db:"payload"`
	Priority       int             `json:"priority" db:"priority"`
	Status         string          `json:"status" db:"status"`
	Attempts       int             `json:"attempts" db:"attempts"`
	MaxAttempts    int             `json:"max_attempts" db:"max_attempts"`
	LastError      *string         `json:"last_error,omitempty" db:"last_error"`
	NextRetryAt    *time.Time      `json:"next_retry_at,omitempty" db:"next_retry_at"`
	ProcessedAt    *time.Time      `json:"processed_at,omitempty" db:"processed_at"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
}

// DispatchSummary is what one dispatch cycle reports back.
type DispatchSummary struct {
	Sent   int      `json:"sent"`
	Failed int      `json:"failed"`
	IDs    CycleIDs `json:"ids"`
}

type CycleIDs struct {
	Sent   []uuid.UUID `json:"sent"`
	Failed []uuid.UUID `json:"failed"`
}

// Typed payloads, one per template id.

type NewInquiryAdminPayload struct {
	InquiryID   uuid.UUID `json:"inquiry_id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Locality    string    `json:"locality,omitempty"`
	Specialty   string    `json:"specialty"`
	ProblemType string    `json:"problem_type"`
	Description string    `json:"description"`
	Urgent      bool      `json:"urgent"`
	CreatedAt   time.Time `json:"created_at"`
}

type InquiryConfirmationPayload struct {
	InquiryID   uuid.UUID `json:"inquiry_id"`
	Name        string    `json:"name"`
	ProblemType string    `json:"problem_type"`
}

type AppointmentConfirmedPayload struct {
	InquiryID     uuid.UUID `json:"inquiry_id"`
	Name          string    `json:"name"`
	Mode          string    `json:"mode"`
	ConfirmedDate time.Time `json:"confirmed_date"`
	VideoCallLink string    `json:"video_call_link,omitempty"`
}
