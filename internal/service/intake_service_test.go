package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/lucianocastr/estudiors/internal/config"
	"github.com/lucianocastr/estudiors/internal/domain"
)

func intakeTestConfig(orgID uuid.UUID) *config.Config {
	return &config.Config{
		Firm: config.FirmConfig{
			OrganizationID: orgID.String(),
			Name:           "Estudio Jurídico RS",
			Email:          "admin@estudio.com",
		},
		Queue: config.QueueConfig{
			BatchSize:   10,
			MaxAttempts: 3,
			BackoffBase: "5m",
		},
	}
}

func intakeServiceForTest(orgID uuid.UUID, now time.Time) (*IntakeService, *MockInquiryRepository, *MockContactRepository, *MockNotificationRepository) {
	mockInquiryRepo := &MockInquiryRepository{}
	mockContactRepo := &MockContactRepository{}
	mockQueueRepo := &MockNotificationRepository{}

	cfg := intakeTestConfig(orgID)
	notifications := &NotificationService{
		QueueRepo: mockQueueRepo,
		config:    cfg,
		now:       func() time.Time { return now },
	}

	service := &IntakeService{
		InquiryRepo:   mockInquiryRepo,
		ContactRepo:   mockContactRepo,
		notifications: notifications,
		config:        cfg,
		now:           func() time.Time { return now },
	}

	return service, mockInquiryRepo, mockContactRepo, mockQueueRepo
}

func TestCreateInquiry_NewContactAndBothEmails(t *testing.T) {
	orgID := uuid.New()
	now := time.Date(2024, 11, 1, 10, 0, 0, 0, time.UTC)
	service, mockInquiryRepo, mockContactRepo, mockQueueRepo := intakeServiceForTest(orgID, now)

	mockContactRepo.On("GetByEmail", mock.Anything, orgID, "juan@example.com").Return(nil, sql.ErrNoRows)
	mockContactRepo.On("Create", mock.Anything, mock.MatchedBy(func(c *domain.Contact) bool {
		return c.Source == domain.ContactSourceWeb && c.Email == "juan@example.com"
	})).Return(nil)
	mockInquiryRepo.On("Create", mock.Anything, mock.MatchedBy(func(i *domain.Inquiry) bool {
		return i.Status == domain.InquiryStatusNew && i.OrganizationID == orgID
	})).Return(nil)
	mockInquiryRepo.On("CreateEvent", mock.Anything, mock.MatchedBy(func(e *domain.InquiryEvent) bool {
		return e.Kind == domain.InquiryEventCreated
	})).Return(nil)
	mockQueueRepo.On("Enqueue", mock.Anything, mock.MatchedBy(func(item *domain.NotificationQueueItem) bool {
		return item.Template == domain.TemplateNewInquiryAdmin &&
			item.Recipient == "admin@estudio.com" &&
			item.Priority == domain.NotificationPriorityNormal
	})).Return(nil)
	mockQueueRepo.On("Enqueue", mock.Anything, mock.MatchedBy(func(item *domain.NotificationQueueItem) bool {
		return item.Template == domain.TemplateInquiryConfirmation &&
			item.Recipient == "juan@example.com"
	})).Return(nil)

	inquiry, err := service.CreateInquiry(context.Background(), &domain.CreateInquiryRequest{
		Name:           "Juan Pérez",
		Email:          "juan@example.com",
		Phone:          "3514441122",
		Specialty:      "derecho bancario",
		ProblemType:    "deudas bancarias",
		Description:    "Tengo tres tarjetas en mora desde hace dos años",
		AcceptsTerms:   true,
		DisclaimerRead: true,
	})

	assert.NoError(t, err)
	assert.Equal(t, domain.InquiryStatusNew, inquiry.Status)
	mockContactRepo.AssertExpectations(t)
	mockInquiryRepo.AssertExpectations(t)
	mockQueueRepo.AssertNumberOfCalls(t, "Enqueue", 2)
}

// An urgent inquiry enqueues both emails at urgent priority so the next
// dispatch cycle takes them first.
func TestCreateInquiry_UrgentUsesUrgentPriority(t *testing.T) {
	orgID := uuid.New()
	now := time.Date(2024, 11, 1, 10, 0, 0, 0, time.UTC)
	service, mockInquiryRepo, mockContactRepo, mockQueueRepo := intakeServiceForTest(orgID, now)

	contact := &domain.Contact{ID: uuid.New(), OrganizationID: orgID, Name: "Ana", Email: "ana@example.com"}
	mockContactRepo.On("GetByEmail", mock.Anything, orgID, "ana@example.com").Return(contact, nil)
	mockInquiryRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	mockInquiryRepo.On("CreateEvent", mock.Anything, mock.Anything).Return(nil)
	mockQueueRepo.On("Enqueue", mock.Anything, mock.MatchedBy(func(item *domain.NotificationQueueItem) bool {
		return item.Priority == domain.NotificationPriorityUrgent
	})).Return(nil).Times(2)

	_, err := service.CreateInquiry(context.Background(), &domain.CreateInquiryRequest{
		Name:           "Ana",
		Email:          "ana@example.com",
		Phone:          "3515556677",
		Specialty:      "derecho bancario",
		ProblemType:    "embargo inminente",
		Description:    "Me llegó una cédula de notificación de embargo",
		Urgent:         true,
		AcceptsTerms:   true,
		DisclaimerRead: true,
	})

	assert.NoError(t, err)
	mockQueueRepo.AssertExpectations(t)
}

func TestCreateInquiry_WithAppointmentRequest(t *testing.T) {
	orgID := uuid.New()
	now := time.Date(2024, 11, 1, 10, 0, 0, 0, time.UTC)
	service, mockInquiryRepo, mockContactRepo, mockQueueRepo := intakeServiceForTest(orgID, now)

	contact := &domain.Contact{ID: uuid.New(), OrganizationID: orgID, Email: "ana@example.com"}
	mockContactRepo.On("GetByEmail", mock.Anything, orgID, "ana@example.com").Return(contact, nil)
	mockInquiryRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	mockInquiryRepo.On("CreateEvent", mock.Anything, mock.Anything).Return(nil)
	mockInquiryRepo.On("CreateAppointment", mock.Anything, mock.MatchedBy(func(a *domain.Appointment) bool {
		return a.Mode == domain.AppointmentModeVirtual &&
			a.Status == domain.AppointmentStatusRequested &&
			a.PreferredSlot == "morning"
	})).Return(nil)
	mockQueueRepo.On("Enqueue", mock.Anything, mock.Anything).Return(nil)

	_, err := service.CreateInquiry(context.Background(), &domain.CreateInquiryRequest{
		Name:           "Ana",
		Email:          "ana@example.com",
		Phone:          "3515556677",
		Specialty:      "derecho bancario",
		ProblemType:    "deudas bancarias",
		Description:    "Quiero renegociar un préstamo personal",
		AcceptsTerms:   true,
		DisclaimerRead: true,
		Appointment: &domain.AppointmentRequest{
			Mode:          domain.AppointmentModeVirtual,
			PreferredDate: "2024-11-08",
			PreferredSlot: "morning",
		},
	})

	assert.NoError(t, err)
	mockInquiryRepo.AssertExpectations(t)
}

func TestChangeInquiryStatus_FirstTransitionStampsColumn(t *testing.T) {
	orgID := uuid.New()
	now := time.Date(2024, 11, 2, 9, 0, 0, 0, time.UTC)
	service, mockInquiryRepo, _, _ := intakeServiceForTest(orgID, now)

	inquiry := &domain.Inquiry{ID: uuid.New(), OrganizationID: orgID, Status: domain.InquiryStatusNew}
	mockInquiryRepo.On("GetByID", mock.Anything, inquiry.ID).Return(inquiry, nil)
	mockInquiryRepo.On("UpdateStatus", mock.Anything, inquiry.ID, domain.InquiryStatusContacted, "contacted_at", now).Return(nil)
	mockInquiryRepo.On("CreateEvent", mock.Anything, mock.MatchedBy(func(e *domain.InquiryEvent) bool {
		return e.Kind == domain.InquiryEventStateChanged &&
			e.PreviousStatus != nil && *e.PreviousStatus == domain.InquiryStatusNew &&
			e.NewStatus != nil && *e.NewStatus == domain.InquiryStatusContacted
	})).Return(nil)

	err := service.ChangeInquiryStatus(context.Background(), inquiry.ID, nil, &domain.ChangeInquiryStatusRequest{
		Status: domain.InquiryStatusContacted,
	})

	assert.NoError(t, err)
	mockInquiryRepo.AssertExpectations(t)
}

func TestChangeInquiryStatus_SameStatusIsNoop(t *testing.T) {
	orgID := uuid.New()
	now := time.Date(2024, 11, 2, 9, 0, 0, 0, time.UTC)
	service, mockInquiryRepo, _, _ := intakeServiceForTest(orgID, now)

	inquiry := &domain.Inquiry{ID: uuid.New(), Status: domain.InquiryStatusContacted}
	mockInquiryRepo.On("GetByID", mock.Anything, inquiry.ID).Return(inquiry, nil)

	err := service.ChangeInquiryStatus(context.Background(), inquiry.ID, nil, &domain.ChangeInquiryStatusRequest{
		Status: domain.InquiryStatusContacted,
	})

	assert.NoError(t, err)
	mockInquiryRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestConfirmAppointment_SchedulesInquiryAndNotifiesClient(t *testing.T) {
	orgID := uuid.New()
	now := time.Date(2024, 11, 2, 9, 0, 0, 0, time.UTC)
	service, mockInquiryRepo, mockContactRepo, mockQueueRepo := intakeServiceForTest(orgID, now)

	contact := &domain.Contact{ID: uuid.New(), Name: "Ana", Email: "ana@example.com"}
	inquiry := &domain.Inquiry{
		ID:             uuid.New(),
		OrganizationID: orgID,
		ContactID:      contact.ID,
		Status:         domain.InquiryStatusContacted,
	}
	appointment := &domain.Appointment{
		ID:        uuid.New(),
		InquiryID: inquiry.ID,
		Mode:      domain.AppointmentModeVirtual,
		Status:    domain.AppointmentStatusRequested,
	}

	confirmedDate := time.Date(2024, 11, 8, 10, 0, 0, 0, time.UTC)
	mockInquiryRepo.On("GetByID", mock.Anything, inquiry.ID).Return(inquiry, nil)
	mockInquiryRepo.On("GetAppointmentByInquiry", mock.Anything, inquiry.ID).Return(appointment, nil)
	mockInquiryRepo.On("ConfirmAppointment", mock.Anything, inquiry.ID, confirmedDate, mock.Anything).Return(nil)
	mockInquiryRepo.On("UpdateStatus", mock.Anything, inquiry.ID, domain.InquiryStatusScheduled, "", now).Return(nil)
	mockInquiryRepo.On("CreateEvent", mock.Anything, mock.Anything).Return(nil)
	mockContactRepo.On("GetByID", mock.Anything, contact.ID).Return(contact, nil)
	mockQueueRepo.On("Enqueue", mock.Anything, mock.MatchedBy(func(item *domain.NotificationQueueItem) bool {
		return item.Template == domain.TemplateAppointmentConfirmed && item.Recipient == "ana@example.com"
	})).Return(nil)

	err := service.ConfirmAppointment(context.Background(), inquiry.ID, nil, &domain.ConfirmAppointmentRequest{
		ConfirmedDate: confirmedDate.Format(time.RFC3339),
		VideoCallLink: "https://meet.example.com/abc",
	})

	assert.NoError(t, err)
	mockInquiryRepo.AssertExpectations(t)
	mockQueueRepo.AssertExpectations(t)
}

func TestConfirmAppointment_WithoutRequestRejected(t *testing.T) {
	orgID := uuid.New()
	now := time.Date(2024, 11, 2, 9, 0, 0, 0, time.UTC)
	service, mockInquiryRepo, _, _ := intakeServiceForTest(orgID, now)

	inquiry := &domain.Inquiry{ID: uuid.New(), OrganizationID: orgID}
	mockInquiryRepo.On("GetByID", mock.Anything, inquiry.ID).Return(inquiry, nil)
	mockInquiryRepo.On("GetAppointmentByInquiry", mock.Anything, inquiry.ID).Return(nil, sql.ErrNoRows)

	err := service.ConfirmAppointment(context.Background(), inquiry.ID, nil, &domain.ConfirmAppointmentRequest{
		ConfirmedDate: now.Format(time.RFC3339),
	})

	assert.Error(t, err)
	mockInquiryRepo.AssertNotCalled(t, "ConfirmAppointment", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRejectAppointment_RecordsReasonAndEvent(t *testing.T) {
	orgID := uuid.New()
	now := time.Date(2024, 11, 2, 9, 0, 0, 0, time.UTC)
	service, mockInquiryRepo, _, _ := intakeServiceForTest(orgID, now)

	inquiry := &domain.Inquiry{ID: uuid.New(), OrganizationID: orgID}
	appointment := &domain.Appointment{ID: uuid.New(), InquiryID: inquiry.ID}
	reason := "fuera del área de práctica"

	mockInquiryRepo.On("GetByID", mock.Anything, inquiry.ID).Return(inquiry, nil)
	mockInquiryRepo.On("GetAppointmentByInquiry", mock.Anything, inquiry.ID).Return(appointment, nil)
	mockInquiryRepo.On("RejectAppointment", mock.Anything, inquiry.ID, &reason).Return(nil)
	mockInquiryRepo.On("CreateEvent", mock.Anything, mock.MatchedBy(func(e *domain.InquiryEvent) bool {
		return e.Kind == domain.InquiryEventAppointmentRejected
	})).Return(nil)

	err := service.RejectAppointment(context.Background(), inquiry.ID, nil, &domain.RejectAppointmentRequest{
		Reason: reason,
	})

	assert.NoError(t, err)
	mockInquiryRepo.AssertExpectations(t)
}

func TestAddNote_DefaultsKind(t *testing.T) {
	orgID := uuid.New()
	now := time.Date(2024, 11, 2, 9, 0, 0, 0, time.UTC)
	service, mockInquiryRepo, _, _ := intakeServiceForTest(orgID, now)

	inquiry := &domain.Inquiry{ID: uuid.New(), OrganizationID: orgID}
	authorID := uuid.New()

	mockInquiryRepo.On("GetByID", mock.Anything, inquiry.ID).Return(inquiry, nil)
	mockInquiryRepo.On("CreateNote", mock.Anything, mock.MatchedBy(func(n *domain.Note) bool {
		return n.Kind == domain.NoteKindGeneral && n.AuthorID == authorID
	})).Return(nil)
	mockInquiryRepo.On("CreateEvent", mock.Anything, mock.MatchedBy(func(e *domain.InquiryEvent) bool {
		return e.Kind == domain.InquiryEventNoteAdded
	})).Return(nil)

	note, err := service.AddNote(context.Background(), inquiry.ID, authorID, &domain.AddNoteRequest{
		Content: "Cliente llamó para ampliar datos",
	})

	assert.NoError(t, err)
	assert.Equal(t, domain.NoteKindGeneral, note.Kind)
	mockInquiryRepo.AssertExpectations(t)
}
