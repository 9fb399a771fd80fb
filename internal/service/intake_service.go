package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/lucianocastr/estudiors/internal/config"
	"github.com/lucianocastr/estudiors/internal/domain"
	"github.com/lucianocastr/estudiors/internal/repository"
	customError "github.com/lucianocastr/estudiors/pkg/errors"
)

// inquiryStampColumn maps a status transition to the first-transition
// timestamp column it stamps. Statuses without an entry stamp nothing.
var inquiryStampColumn = map[string]string{
	domain.InquiryStatusContacted: "contacted_at",
	domain.InquiryStatusConverted: "converted_at",
	domain.InquiryStatusClosed:    "closed_at",
}

// IntakeService owns the public consultation funnel: inquiries, their audit
// trail, notes and appointment requests.
type IntakeService struct {
	InquiryRepo   repository.InquiryRepository
	ContactRepo   repository.ContactRepository
	notifications *NotificationService
	config        *config.Config
	now           func() time.Time
}

func NewIntakeService(
	inquiryRepo repository.InquiryRepository,
	contactRepo repository.ContactRepository,
	notifications *NotificationService,
	config *config.Config,
) *IntakeService {
	return &IntakeService{
		InquiryRepo:   inquiryRepo,
		ContactRepo:   contactRepo,
		notifications: notifications,
		config:        config,
		now:           time.Now,
	}
}

// CreateInquiry registers a consultation from the public form: the contact
// is found or created by email, the inquiry and its creation event are
// persisted, an appointment request is attached when given, and the two
// intake emails are enqueued. Urgent inquiries enqueue at urgent priority.
func (s *IntakeService) CreateInquiry(ctx context.Context, request *domain.CreateInquiryRequest) (*domain.Inquiry, error) {
	orgID, err := uuid.Parse(s.config.Firm.OrganizationID)
	if err != nil {
		return nil, customError.WrapValidationError(err)
	}

	contact, err := s.findOrCreateContact(ctx, orgID, request)
	if err != nil {
		return nil, err
	}

	now := s.now()
	inquiry := &domain.Inquiry{
		ID:             uuid.New(),
		OrganizationID: orgID,
		ContactID:      contact.ID,
		Specialty:      request.Specialty,
		ProblemType:    request.ProblemType,
		Description:    request.Description,
		Urgent:         request.Urgent,
		AcceptsTerms:   request.AcceptsTerms,
		DisclaimerRead: request.DisclaimerRead,
		Status:         domain.InquiryStatusNew,
		CreatedAt:      now,
	}

	if err := s.InquiryRepo.Create(ctx, inquiry); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	s.recordEvent(ctx, inquiry, domain.InquiryEventCreated, nil, nil, nil)

	if request.Appointment != nil {
		preferredDate, err := time.Parse("2006-01-02", request.Appointment.PreferredDate)
		if err != nil {
			return nil, customError.WrapValidationError(err)
		}
		appointment := &domain.Appointment{
			ID:             uuid.New(),
			InquiryID:      inquiry.ID,
			OrganizationID: orgID,
			Mode:           request.Appointment.Mode,
			PreferredDate:  preferredDate,
			PreferredSlot:  request.Appointment.PreferredSlot,
			Status:         domain.AppointmentStatusRequested,
			CreatedAt:      now,
		}
		if err := s.InquiryRepo.CreateAppointment(ctx, appointment); err != nil {
			return nil, customError.WrapDatabaseError(err)
		}
	}

	priority := domain.NotificationPriorityNormal
	if request.Urgent {
		priority = domain.NotificationPriorityUrgent
	}

	adminPayload := domain.NewInquiryAdminPayload{
		InquiryID:   inquiry.ID,
		Name:        contact.Name,
		Email:       contact.Email,
		Phone:       contact.Phone,
		Locality:    request.Locality,
		Specialty:   request.Specialty,
		ProblemType: request.ProblemType,
		Description: request.Description,
		Urgent:      request.Urgent,
		CreatedAt:   now,
	}
	adminSubject := fmt.Sprintf("Nueva consulta: %s", request.ProblemType)
	if request.Urgent {
		adminSubject = "[URGENTE] " + adminSubject
	}
	if _, err := s.notifications.Enqueue(ctx, orgID, s.config.Firm.Email, adminSubject,
		domain.TemplateNewInquiryAdmin, adminPayload, priority); err != nil {
		logrus.WithField("inquiry_id", inquiry.ID).WithError(err).Error("could not enqueue admin notification")
	}

	confirmationPayload := domain.InquiryConfirmationPayload{
		InquiryID:   inquiry.ID,
		Name:        contact.Name,
		ProblemType: request.ProblemType,
	}
	if _, err := s.notifications.Enqueue(ctx, orgID, contact.Email, "Recibimos su consulta",
		domain.TemplateInquiryConfirmation, confirmationPayload, priority); err != nil {
		logrus.WithField("inquiry_id", inquiry.ID).WithError(err).Error("could not enqueue confirmation")
	}

	return inquiry, nil
}

func (s *IntakeService) findOrCreateContact(ctx context.Context, orgID uuid.UUID, request *domain.CreateInquiryRequest) (*domain.Contact, error) {
	contact, err := s.ContactRepo.GetByEmail(ctx, orgID, request.Email)
	if err == nil && contact != nil {
		return contact, nil
	}
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, customError.WrapDatabaseError(err)
	}

	contact = &domain.Contact{
		ID:             uuid.New(),
		OrganizationID: orgID,
		Name:           request.Name,
		Email:          request.Email,
		Phone:          request.Phone,
		Source:         domain.ContactSourceWeb,
		CreatedAt:      s.now(),
	}
	if request.Locality != "" {
		contact.Locality = &request.Locality
	}

	if err := s.ContactRepo.Create(ctx, contact); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return contact, nil
}

func (s *IntakeService) GetInquiry(ctx context.Context, id uuid.UUID) (*domain.Inquiry, error) {
	inquiry, err := s.InquiryRepo.GetByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, customError.WrapInquiryNotFound(id.String())
	}
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return inquiry, nil
}

func (s *IntakeService) ListInquiries(ctx context.Context, orgID uuid.UUID) ([]*domain.Inquiry, error) {
	inquiries, err := s.InquiryRepo.ListByOrganization(ctx, orgID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return inquiries, nil
}

// ChangeInquiryStatus moves an inquiry through triage. The first transition
// into contacted, converted or closed stamps its timestamp column; later
// transitions into the same status keep the original stamp.
func (s *IntakeService) ChangeInquiryStatus(ctx context.Context, id uuid.UUID, authorID *uuid.UUID, request *domain.ChangeInquiryStatusRequest) error {
	inquiry, err := s.GetInquiry(ctx, id)
	if err != nil {
		return err
	}
	if inquiry.Status == request.Status {
		return nil
	}

	column := inquiryStampColumn[request.Status]
	if err := s.InquiryRepo.UpdateStatus(ctx, id, request.Status, column, s.now()); err != nil {
		return customError.WrapDatabaseError(err)
	}

	previous := inquiry.Status
	s.recordEvent(ctx, inquiry, domain.InquiryEventStateChanged, authorID, &previous, &request.Status)
	return nil
}

func (s *IntakeService) AddNote(ctx context.Context, id uuid.UUID, authorID uuid.UUID, request *domain.AddNoteRequest) (*domain.Note, error) {
	inquiry, err := s.GetInquiry(ctx, id)
	if err != nil {
		return nil, err
	}

	kind := request.Kind
	if kind == "" {
		kind = domain.NoteKindGeneral
	}

	note := &domain.Note{
		ID:             uuid.New(),
		InquiryID:      id,
		OrganizationID: inquiry.OrganizationID,
		AuthorID:       authorID,
		Content:        request.Content,
		Kind:           kind,
		CreatedAt:      s.now(),
	}
	if err := s.InquiryRepo.CreateNote(ctx, note); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	s.recordEvent(ctx, inquiry, domain.InquiryEventNoteAdded, &authorID, nil, nil)
	return note, nil
}

// ConfirmAppointment sets the confirmed date on the inquiry's appointment,
// moves the inquiry to scheduled and enqueues the confirmation email.
func (s *IntakeService) ConfirmAppointment(ctx context.Context, id uuid.UUID, authorID *uuid.UUID, request *domain.ConfirmAppointmentRequest) error {
	inquiry, err := s.GetInquiry(ctx, id)
	if err != nil {
		return err
	}

	appointment, err := s.InquiryRepo.GetAppointmentByInquiry(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return customError.WrapValidationError(errors.New("inquiry has no appointment request"))
	}
	if err != nil {
		return customError.WrapDatabaseError(err)
	}

	confirmedDate, err := time.Parse(time.RFC3339, request.ConfirmedDate)
	if err != nil {
		return customError.WrapValidationError(err)
	}

	var videoCallLink *string
	if request.VideoCallLink != "" {
		videoCallLink = &request.VideoCallLink
	}

	if err := s.InquiryRepo.ConfirmAppointment(ctx, id, confirmedDate, videoCallLink); err != nil {
		return customError.WrapDatabaseError(err)
	}

	if inquiry.Status == domain.InquiryStatusNew || inquiry.Status == domain.InquiryStatusContacted {
		previous := inquiry.Status
		scheduled := domain.InquiryStatusScheduled
		if err := s.InquiryRepo.UpdateStatus(ctx, id, scheduled, "", s.now()); err != nil {
			return customError.WrapDatabaseError(err)
		}
		s.recordEvent(ctx, inquiry, domain.InquiryEventStateChanged, authorID, &previous, &scheduled)
	}

	s.recordEvent(ctx, inquiry, domain.InquiryEventAppointmentConfirmed, authorID, nil, nil)

	contact, err := s.ContactRepo.GetByID(ctx, inquiry.ContactID)
	if err != nil {
		return customError.WrapDatabaseError(err)
	}

	payload := domain.AppointmentConfirmedPayload{
		InquiryID:     inquiry.ID,
		Name:          contact.Name,
		Mode:          appointment.Mode,
		ConfirmedDate: confirmedDate,
	}
	if request.VideoCallLink != "" {
		payload.VideoCallLink = request.VideoCallLink
	}
	if _, err := s.notifications.Enqueue(ctx, inquiry.OrganizationID, contact.Email, "Su turno fue confirmado",
		domain.TemplateAppointmentConfirmed, payload, domain.NotificationPriorityNormal); err != nil {
		logrus.WithField("inquiry_id", inquiry.ID).WithError(err).Error("could not enqueue appointment confirmation")
	}

	return nil
}

// RejectAppointment declines the inquiry's appointment request with an
// optional reason.
func (s *IntakeService) RejectAppointment(ctx context.Context, id uuid.UUID, authorID *uuid.UUID, request *domain.RejectAppointmentRequest) error {
	inquiry, err := s.GetInquiry(ctx, id)
	if err != nil {
		return err
	}

	if _, err := s.InquiryRepo.GetAppointmentByInquiry(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return customError.WrapValidationError(errors.New("inquiry has no appointment request"))
		}
		return customError.WrapDatabaseError(err)
	}

	var reason *string
	if request.Reason != "" {
		reason = &request.Reason
	}

	if err := s.InquiryRepo.RejectAppointment(ctx, id, reason); err != nil {
		return customError.WrapDatabaseError(err)
	}

	s.recordEvent(ctx, inquiry, domain.InquiryEventAppointmentRejected, authorID, nil, nil)
	return nil
}

// recordEvent appends to the inquiry audit trail. The trail is best-effort:
// a failed insert is logged, never propagated.
func (s *IntakeService) recordEvent(ctx context.Context, inquiry *domain.Inquiry, kind string, authorID *uuid.UUID, previous, next *string) {
	event := &domain.InquiryEvent{
		ID:             uuid.New(),
		InquiryID:      inquiry.ID,
		OrganizationID: inquiry.OrganizationID,
		AuthorID:       authorID,
		Kind:           kind,
		PreviousStatus: previous,
		NewStatus:      next,
		CreatedAt:      s.now(),
	}
	if err := s.InquiryRepo.CreateEvent(ctx, event); err != nil {
		logrus.WithFields(logrus.Fields{
			"inquiry_id": inquiry.ID,
			"kind":       kind,
		}).WithError(err).Error("could not record inquiry event")
	}
}
