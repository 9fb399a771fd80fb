package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lucianocastr/estudiors/internal/domain"
)

// ContactRepository defines contact data operations
type ContactRepository interface {
	// Create creates a new contact
	Create(ctx context.Context, contact *domain.Contact) error

	// GetByEmail finds a contact by email within an organization
	GetByEmail(ctx context.Context, orgID uuid.UUID, email string) (*domain.Contact, error)

	// GetByID retrieves a contact
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Contact, error)

	// MarkAsClient flags a contact as an active client
	MarkAsClient(ctx context.Context, id uuid.UUID, since time.Time) error
}

// InquiryRepository defines intake data operations
type InquiryRepository interface {
	Create(ctx context.Context, inquiry *domain.Inquiry) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Inquiry, error)
	ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]*domain.Inquiry, error)
	CountByStatus(ctx context.Context, orgID uuid.UUID) (map[string]int, error)

	// UpdateStatus sets the status and, when firstTransition is non-nil,
	// stamps the matching first-transition timestamp column
	UpdateStatus(ctx context.Context, id uuid.UUID, status string, column string, at time.Time) error

	CreateEvent(ctx context.Context, event *domain.InquiryEvent) error
	CreateNote(ctx context.Context, note *domain.Note) error

	CreateAppointment(ctx context.Context, appointment *domain.Appointment) error
	GetAppointmentByInquiry(ctx context.Context, inquiryID uuid.UUID) (*domain.Appointment, error)
	ConfirmAppointment(ctx context.Context, inquiryID uuid.UUID, confirmedDate time.Time, videoCallLink *string) error
	RejectAppointment(ctx context.Context, inquiryID uuid.UUID, reason *string) error
}

// CaseRepository defines restructuring-case data operations
type CaseRepository interface {
	Create(ctx context.Context, c *domain.Case) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Case, error)
	ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]*domain.Case, error)

	// HighestCaseNumber returns the highest case number starting with prefix
	// for the organization, or empty when the scope has no cases
	HighestCaseNumber(ctx context.Context, orgID uuid.UUID, prefix string) (string, error)

	UpdateStatus(ctx context.Context, id uuid.UUID, status string, closedAt *time.Time) error
	UpdateUrgency(ctx context.Context, id uuid.UUID, urgency string) error
	SaveDiagnostic(ctx context.Context, c *domain.Case) error

	// CountByStatus returns how many cases the organization has per status
	CountByStatus(ctx context.Context, orgID uuid.UUID) (map[string]int, error)
}

// DebtRepository defines debt-record data operations
type DebtRepository interface {
	Create(ctx context.Context, debt *domain.DebtRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.DebtRecord, error)
	ListByCase(ctx context.Context, caseID uuid.UUID) ([]*domain.DebtRecord, error)
	Update(ctx context.Context, debt *domain.DebtRecord) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status string, agreedAmount *decimal.Decimal) error
	Delete(ctx context.Context, id uuid.UUID) error

	// ListTracked returns debts whose prescription status is still derived
	// from dates (not interrupted or suspended), for the daily sweep
	ListTracked(ctx context.Context) ([]*domain.DebtRecord, error)
}

// AssetRepository defines asset-inventory data operations
type AssetRepository interface {
	Create(ctx context.Context, asset *domain.Asset) error
	ListByCase(ctx context.Context, caseID uuid.UUID) ([]*domain.Asset, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// AnalysisRepository defines financial-analysis data operations.
// Snapshots are append-only: no update or delete.
type AnalysisRepository interface {
	Create(ctx context.Context, analysis *domain.FinancialAnalysis) error
	LatestVersion(ctx context.Context, caseID uuid.UUID) (int, error)
	ListByCase(ctx context.Context, caseID uuid.UUID) ([]*domain.FinancialAnalysis, error)
}

// ScenarioRepository defines strategic-scenario data operations
type ScenarioRepository interface {
	Create(ctx context.Context, scenario *domain.Scenario) error
	ListByCase(ctx context.Context, caseID uuid.UUID) ([]*domain.Scenario, error)

	// MarkSelected deselects every scenario of the case and selects the given
	// one in a single transaction
	MarkSelected(ctx context.Context, caseID, scenarioID uuid.UUID, presentedAt time.Time) error
}

// InterventionRepository defines intervention-log data operations
type InterventionRepository interface {
	Create(ctx context.Context, intervention *domain.Intervention) error
	ListByCase(ctx context.Context, caseID uuid.UUID) ([]*domain.Intervention, error)
}

// FeeRepository defines fee-tracking data operations
type FeeRepository interface {
	Create(ctx context.Context, fee *domain.Fee) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Fee, error)
	ListByCase(ctx context.Context, caseID uuid.UUID) ([]*domain.Fee, error)
	UpdatePayment(ctx context.Context, id uuid.UUID, collected decimal.Decimal, status string) error
}

// AlertRepository defines alert data operations
type AlertRepository interface {
	Create(ctx context.Context, alert *domain.Alert) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Alert, error)
	ListByCase(ctx context.Context, caseID uuid.UUID) ([]*domain.Alert, error)

	// FindPending looks for an open alert of the category scoped to the case
	// and, when debtID is non-nil, to that debt. Returns nil when absent.
	FindPending(ctx context.Context, caseID uuid.UUID, debtID *uuid.UUID, category string) (*domain.Alert, error)

	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error

	// CountPendingByPriority aggregates open alerts across the organization's
	// cases, keyed by priority
	CountPendingByPriority(ctx context.Context, orgID uuid.UUID) (map[string]int, error)
}

// NotificationRepository defines queue data operations
type NotificationRepository interface {
	Enqueue(ctx context.Context, item *domain.NotificationQueueItem) error

	// SelectDispatchable returns up to limit pending items whose retry time
	// has passed, ordered by priority then age
	SelectDispatchable(ctx context.Context, now time.Time, limit int) ([]*domain.NotificationQueueItem, error)

	// Claim atomically moves an item from pending to processing. Reports
	// false when another cycle claimed it first.
	Claim(ctx context.Context, id uuid.UUID) (bool, error)

	MarkSent(ctx context.Context, id uuid.UUID, processedAt time.Time) error

	// ScheduleRetry moves a processing item back to pending with the next
	// retry time and the error recorded
	ScheduleRetry(ctx context.Context, id uuid.UUID, nextRetryAt time.Time, lastError string) error

	// MarkFailed terminally fails an item: attempts incremented, next retry
	// cleared, error recorded
	MarkFailed(ctx context.Context, id uuid.UUID, lastError string) error

	GetByID(ctx context.Context, id uuid.UUID) (*domain.NotificationQueueItem, error)
}
