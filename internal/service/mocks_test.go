package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/lucianocastr/estudiors/internal/domain"
)

// stubLocker runs the critical section inline; tests exercise the sequencing
// logic, not the lock itself.
type stubLocker struct{}

func (stubLocker) WithLock(ctx context.Context, key string, fn func() error) error {
	return fn()
}

type MockDispatcher struct {
	mock.Mock
}

func (m *MockDispatcher) Dispatch(ctx context.Context, item *domain.NotificationQueueItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Enqueue(ctx context.Context, item *domain.NotificationQueueItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockNotificationRepository) SelectDispatchable(ctx context.Context, now time.Time, limit int) ([]*domain.NotificationQueueItem, error) {
	args := m.Called(ctx, now, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.NotificationQueueItem), args.Error(1)
}

func (m *MockNotificationRepository) Claim(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockNotificationRepository) MarkSent(ctx context.Context, id uuid.UUID, processedAt time.Time) error {
	args := m.Called(ctx, id, processedAt)
	return args.Error(0)
}

func (m *MockNotificationRepository) ScheduleRetry(ctx context.Context, id uuid.UUID, nextRetryAt time.Time, lastError string) error {
	args := m.Called(ctx, id, nextRetryAt, lastError)
	return args.Error(0)
}

func (m *MockNotificationRepository) MarkFailed(ctx context.Context, id uuid.UUID, lastError string) error {
	args := m.Called(ctx, id, lastError)
	return args.Error(0)
}

func (m *MockNotificationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.NotificationQueueItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.NotificationQueueItem), args.Error(1)
}

type MockAlertRepository struct {
	mock.Mock
}

func (m *MockAlertRepository) Create(ctx context.Context, alert *domain.Alert) error {
	args := m.Called(ctx, alert)
	return args.Error(0)
}

func (m *MockAlertRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Alert, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Alert), args.Error(1)
}

func (m *MockAlertRepository) ListByCase(ctx context.Context, caseID uuid.UUID) ([]*domain.Alert, error) {
	args := m.Called(ctx, caseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Alert), args.Error(1)
}

func (m *MockAlertRepository) FindPending(ctx context.Context, caseID uuid.UUID, debtID *uuid.UUID, category string) (*domain.Alert, error) {
	args := m.Called(ctx, caseID, debtID, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Alert), args.Error(1)
}

func (m *MockAlertRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockAlertRepository) CountPendingByPriority(ctx context.Context, orgID uuid.UUID) (map[string]int, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int), args.Error(1)
}

type MockCaseRepository struct {
	mock.Mock
}

func (m *MockCaseRepository) Create(ctx context.Context, c *domain.Case) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCaseRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Case, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Case), args.Error(1)
}

func (m *MockCaseRepository) ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]*domain.Case, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Case), args.Error(1)
}

func (m *MockCaseRepository) HighestCaseNumber(ctx context.Context, orgID uuid.UUID, prefix string) (string, error) {
	args := m.Called(ctx, orgID, prefix)
	return args.String(0), args.Error(1)
}

func (m *MockCaseRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string, closedAt *time.Time) error {
	args := m.Called(ctx, id, status, closedAt)
	return args.Error(0)
}

func (m *MockCaseRepository) UpdateUrgency(ctx context.Context, id uuid.UUID, urgency string) error {
	args := m.Called(ctx, id, urgency)
	return args.Error(0)
}

func (m *MockCaseRepository) SaveDiagnostic(ctx context.Context, c *domain.Case) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCaseRepository) CountByStatus(ctx context.Context, orgID uuid.UUID) (map[string]int, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int), args.Error(1)
}

type MockContactRepository struct {
	mock.Mock
}

func (m *MockContactRepository) Create(ctx context.Context, contact *domain.Contact) error {
	args := m.Called(ctx, contact)
	return args.Error(0)
}

func (m *MockContactRepository) GetByEmail(ctx context.Context, orgID uuid.UUID, email string) (*domain.Contact, error) {
	args := m.Called(ctx, orgID, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Contact), args.Error(1)
}

func (m *MockContactRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Contact, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Contact), args.Error(1)
}

func (m *MockContactRepository) MarkAsClient(ctx context.Context, id uuid.UUID, since time.Time) error {
	args := m.Called(ctx, id, since)
	return args.Error(0)
}

type MockDebtRepository struct {
	mock.Mock
}

func (m *MockDebtRepository) Create(ctx context.Context, debt *domain.DebtRecord) error {
	args := m.Called(ctx, debt)
	return args.Error(0)
}

func (m *MockDebtRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.DebtRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DebtRecord), args.Error(1)
}

func (m *MockDebtRepository) ListByCase(ctx context.Context, caseID uuid.UUID) ([]*domain.DebtRecord, error) {
	args := m.Called(ctx, caseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.DebtRecord), args.Error(1)
}

func (m *MockDebtRepository) Update(ctx context.Context, debt *domain.DebtRecord) error {
	args := m.Called(ctx, debt)
	return args.Error(0)
}

func (m *MockDebtRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string, agreedAmount *decimal.Decimal) error {
	args := m.Called(ctx, id, status, agreedAmount)
	return args.Error(0)
}

func (m *MockDebtRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockDebtRepository) ListTracked(ctx context.Context) ([]*domain.DebtRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.DebtRecord), args.Error(1)
}

type MockAssetRepository struct {
	mock.Mock
}

func (m *MockAssetRepository) Create(ctx context.Context, asset *domain.Asset) error {
	args := m.Called(ctx, asset)
	return args.Error(0)
}

func (m *MockAssetRepository) ListByCase(ctx context.Context, caseID uuid.UUID) ([]*domain.Asset, error) {
	args := m.Called(ctx, caseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Asset), args.Error(1)
}

func (m *MockAssetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockAnalysisRepository struct {
	mock.Mock
}

func (m *MockAnalysisRepository) Create(ctx context.Context, analysis *domain.FinancialAnalysis) error {
	args := m.Called(ctx, analysis)
	return args.Error(0)
}

func (m *MockAnalysisRepository) LatestVersion(ctx context.Context, caseID uuid.UUID) (int, error) {
	args := m.Called(ctx, caseID)
	return args.Int(0), args.Error(1)
}

func (m *MockAnalysisRepository) ListByCase(ctx context.Context, caseID uuid.UUID) ([]*domain.FinancialAnalysis, error) {
	args := m.Called(ctx, caseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.FinancialAnalysis), args.Error(1)
}

type MockFeeRepository struct {
	mock.Mock
}

func (m *MockFeeRepository) Create(ctx context.Context, fee *domain.Fee) error {
	args := m.Called(ctx, fee)
	return args.Error(0)
}

func (m *MockFeeRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Fee, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Fee), args.Error(1)
}

func (m *MockFeeRepository) ListByCase(ctx context.Context, caseID uuid.UUID) ([]*domain.Fee, error) {
	args := m.Called(ctx, caseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Fee), args.Error(1)
}

func (m *MockFeeRepository) UpdatePayment(ctx context.Context, id uuid.UUID, collected decimal.Decimal, status string) error {
	args := m.Called(ctx, id, collected, status)
	return args.Error(0)
}

type MockInquiryRepository struct {
	mock.Mock
}

func (m *MockInquiryRepository) Create(ctx context.Context, inquiry *domain.Inquiry) error {
	args := m.Called(ctx, inquiry)
	return args.Error(0)
}

func (m *MockInquiryRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Inquiry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Inquiry), args.Error(1)
}

func (m *MockInquiryRepository) ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]*domain.Inquiry, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Inquiry), args.Error(1)
}

func (m *MockInquiryRepository) CountByStatus(ctx context.Context, orgID uuid.UUID) (map[string]int, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int), args.Error(1)
}

func (m *MockInquiryRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string, column string, at time.Time) error {
	args := m.Called(ctx, id, status, column, at)
	return args.Error(0)
}

func (m *MockInquiryRepository) CreateEvent(ctx context.Context, event *domain.InquiryEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockInquiryRepository) CreateNote(ctx context.Context, note *domain.Note) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}

func (m *MockInquiryRepository) CreateAppointment(ctx context.Context, appointment *domain.Appointment) error {
	args := m.Called(ctx, appointment)
	return args.Error(0)
}

func (m *MockInquiryRepository) GetAppointmentByInquiry(ctx context.Context, inquiryID uuid.UUID) (*domain.Appointment, error) {
	args := m.Called(ctx, inquiryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Appointment), args.Error(1)
}

func (m *MockInquiryRepository) ConfirmAppointment(ctx context.Context, inquiryID uuid.UUID, confirmedDate time.Time, videoCallLink *string) error {
	args := m.Called(ctx, inquiryID, confirmedDate, videoCallLink)
	return args.Error(0)
}

func (m *MockInquiryRepository) RejectAppointment(ctx context.Context, inquiryID uuid.UUID, reason *string) error {
	args := m.Called(ctx, inquiryID, reason)
	return args.Error(0)
}

type MockScenarioRepository struct {
	mock.Mock
}

func (m *MockScenarioRepository) Create(ctx context.Context, scenario *domain.Scenario) error {
	args := m.Called(ctx, scenario)
	return args.Error(0)
}

func (m *MockScenarioRepository) ListByCase(ctx context.Context, caseID uuid.UUID) ([]*domain.Scenario, error) {
	args := m.Called(ctx, caseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Scenario), args.Error(1)
}

func (m *MockScenarioRepository) MarkSelected(ctx context.Context, caseID, scenarioID uuid.UUID, presentedAt time.Time) error {
	args := m.Called(ctx, caseID, scenarioID, presentedAt)
	return args.Error(0)
}

type MockInterventionRepository struct {
	mock.Mock
}

func (m *MockInterventionRepository) Create(ctx context.Context, intervention *domain.Intervention) error {
	args := m.Called(ctx, intervention)
	return args.Error(0)
}

func (m *MockInterventionRepository) ListByCase(ctx context.Context, caseID uuid.UUID) ([]*domain.Intervention, error) {
	args := m.Called(ctx, caseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Intervention), args.Error(1)
}

type MockStatsCache struct {
	mock.Mock
}

func (m *MockStatsCache) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockStatsCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}
