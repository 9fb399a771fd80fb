package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Inquiry triage states
const (
	InquiryStatusNew       = "new"
	InquiryStatusContacted = "contacted"
	InquiryStatusScheduled = "scheduled"
	InquiryStatusConverted = "converted"
	InquiryStatusClosed    = "closed"
)

// Inquiry event kinds (append-only audit trail)
const (
	InquiryEventCreated              = "created"
	InquiryEventStateChanged         = "state_changed"
	InquiryEventNoteAdded            = "note_added"
	InquiryEventAppointmentConfirmed = "appointment_confirmed"
	InquiryEventAppointmentRejected  = "appointment_rejected"
)

// Note kinds
const (
	NoteKindGeneral  = "general"
	NoteKindLegal    = "legal"
	NoteKindFollowUp = "follow_up"
)

// Appointment modes and states
const (
	AppointmentModeInPerson = "in_person"
	AppointmentModeVirtual  = "virtual"

	AppointmentStatusRequested = "requested"
	AppointmentStatusConfirmed = "confirmed"
	AppointmentStatusRejected  = "rejected"
)

// Inquiry is a consultation request submitted through the public site.
type Inquiry struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	OrganizationID uuid.UUID  `json:"organization_id" db:"organization_id"`
	ContactID      uuid.UUID  `json:"contact_id" db:"contact_id"`
	Specialty      string     `json:"specialty" db:"specialty"`
	ProblemType    string     `json:"problem_type" db:"problem_type"`
	Description    string     `json:"description" db:"description"`
	Urgent         bool       `json:"urgent" db:"urgent"`
	AcceptsTerms   bool       `json:"accepts_terms" db:"accepts_terms"`
	DisclaimerRead bool       `json:"disclaimer_read" db:"disclaimer_read"`
	Status         string     `json:"status" db:"status"`
	ContactedAt    *time.Time `json:"contacted_at,omitempty" db:"contacted_at"`
	ConvertedAt    *time.Time `json:"converted_at,omitempty" db:"converted_at"`
	ClosedAt       *time.Time `json:"closed_at,omitempty" db:"closed_at"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
}

// InquiryEvent records one thing that happened to an inquiry. Never updated
// or deleted.
type InquiryEvent struct {
	ID             uuid.UUID       `json:"id" db:"id"`
	InquiryID      uuid.UUID       `json:"inquiry_id" db:"inquiry_id"`
	OrganizationID uuid.UUID       `json:"organization_id" db:"organization_id"`
	AuthorID       *uuid.UUID      `json:"author_id,omitempty" db:"author_id"`
	Kind           string          `json:"kind" db:"kind"`
	PreviousStatus *string         `json:"previous_status,omitempty" db:"previous_status"`
	NewStatus      *string         `json:"new_status,omitempty" db:"new_status"`
	Metadata       json.RawMessage `json:"metadata,omitempty" db:"metadata"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
}

// Note is a free-text annotation a panel user leaves on an inquiry.
type Note struct {
	ID             uuid.UUID `json:"id" db:"id"`
	InquiryID      uuid.UUID `json:"inquiry_id" db:"inquiry_id"`
	OrganizationID uuid.UUID `json:"organization_id" db:"organization_id"`
	AuthorID       uuid.UUID `json:"author_id" db:"author_id"`
	Content        string    `json:"content" db:"content"`
	Kind           string    `json:"kind" db:"kind"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// Appointment is the interview slot a prospect asked for along with their
// inquiry, later confirmed or rejected by the firm.
type Appointment struct {
	ID              uuid.UUID  `json:"id" db:"id"`
	InquiryID       uuid.UUID  `json:"inquiry_id" db:"inquiry_id"`
	OrganizationID  uuid.UUID  `json:"organization_id" db:"organization_id"`
	Mode            string     `json:"mode" db:"mode"`
	PreferredDate   time.Time  `json:"preferred_date" db:"preferred_date"`
	PreferredSlot   string     `json:"preferred_slot" db:"preferred_slot"`
	Status          string     `json:"status" db:"status"`
	ConfirmedDate   *time.Time `json:"confirmed_date,omitempty" db:"confirmed_date"`
	VideoCallLink   *string    `json:"video_call_link,omitempty" db:"video_call_link"`
	RejectionReason *string    `json:"rejection_reason,omitempty" db:"rejection_reason"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
}

// DTOs for requests and responses

type AppointmentRequest struct {
	Mode          string `json:"mode" validate:"required,oneof=in_person virtual"`
	PreferredDate string `json:"preferred_date" validate:"required,datetime=2006-01-02"`
	PreferredSlot string `json:"preferred_slot" validate:"required"`
}

type CreateInquiryRequest struct {
	Name           string              `json:"name" validate:"required,min=2"`
	Email          string              `json:"email" validate:"required,email"`
	Phone          string              `json:"phone" validate:"required,min=6"`
	Locality       string              `json:"locality"`
	Specialty      string              `json:"specialty" validate:"required"`
	ProblemType    string              `json:"problem_type" validate:"required"`
	Description    string              `json:"description" validate:"required,min=10"`
	Urgent         bool                `json:"urgent"`
	AcceptsTerms   bool                `json:"accepts_terms" validate:"required,eq=true"`
	DisclaimerRead bool                `json:"disclaimer_read" validate:"required,eq=true"`
	Appointment    *AppointmentRequest `json:"appointment,omitempty" validate:"omitempty"`
}

type ChangeInquiryStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=new contacted scheduled converted closed"`
}

type AddNoteRequest struct {
	Content string `json:"content" validate:"required"`
	Kind    string `json:"kind" validate:"omitempty,oneof=general legal follow_up"`
}

type ConfirmAppointmentRequest struct {
	ConfirmedDate string `json:"confirmed_date" validate:"required"`
	VideoCallLink string `json:"video_call_link"`
}

type RejectAppointmentRequest struct {
	Reason string `json:"reason"`
}
