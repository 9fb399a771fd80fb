package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/lucianocastr/estudiors/internal/config"
	"github.com/lucianocastr/estudiors/internal/domain"
)

func queueTestConfig() *config.Config {
	return &config.Config{
		Queue: config.QueueConfig{
			BatchSize:       10,
			MaxAttempts:     3,
			BackoffBase:     "5m",
			DispatchTimeout: "15s",
		},
	}
}

func queueItem(attempts int) *domain.NotificationQueueItem {
	return &domain.NotificationQueueItem{
		ID:          uuid.New(),
		Recipient:   "cliente@example.com",
		Subject:     "Recibimos su consulta",
		Template:    domain.TemplateInquiryConfirmation,
		Payload:     []byte(`{}`),
		Priority:    domain.NotificationPriorityNormal,
		Status:      domain.NotificationStatusPending,
		Attempts:    attempts,
		MaxAttempts: 3,
	}
}

func TestRunDispatchCycle_Success(t *testing.T) {
	mockRepo := &MockNotificationRepository{}
	mockDispatcher := &MockDispatcher{}

	now := time.Date(2024, 11, 1, 10, 0, 0, 0, time.UTC)
	service := &NotificationService{
		QueueRepo:  mockRepo,
		dispatcher: mockDispatcher,
		config:     queueTestConfig(),
		now:        func() time.Time { return now },
	}

	item := queueItem(0)
	mockRepo.On("SelectDispatchable", mock.Anything, now, 10).Return([]*domain.NotificationQueueItem{item}, nil)
	mockRepo.On("Claim", mock.Anything, item.ID).Return(true, nil)
	mockDispatcher.On("Dispatch", mock.Anything, item).Return(nil)
	mockRepo.On("MarkSent", mock.Anything, item.ID, now).Return(nil)

	summary, err := service.RunDispatchCycle(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 1, summary.Sent)
	assert.Equal(t, 0, summary.Failed)
	assert.Equal(t, []uuid.UUID{item.ID}, summary.IDs.Sent)
	mockRepo.AssertExpectations(t)
	mockDispatcher.AssertExpectations(t)
}

// The backoff counts attempts after the increment: the first failure waits
// 15 minutes and the second 45, never 5.
func TestRunDispatchCycle_RetryBackoffSequence(t *testing.T) {
	now := time.Date(2024, 11, 1, 10, 0, 0, 0, time.UTC)
	sendErr := errors.New("transport down")

	cases := []struct {
		name          string
		attemptsSoFar int
		wantRetryAt   time.Time
	}{
		{"first failure waits 15 minutes", 0, now.Add(15 * time.Minute)},
		{"second failure waits 45 minutes", 1, now.Add(45 * time.Minute)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mockRepo := &MockNotificationRepository{}
			mockDispatcher := &MockDispatcher{}
			service := &NotificationService{
				QueueRepo:  mockRepo,
				dispatcher: mockDispatcher,
				config:     queueTestConfig(),
				now:        func() time.Time { return now },
			}

			item := queueItem(tc.attemptsSoFar)
			mockRepo.On("SelectDispatchable", mock.Anything, now, 10).Return([]*domain.NotificationQueueItem{item}, nil)
			mockRepo.On("Claim", mock.Anything, item.ID).Return(true, nil)
			mockDispatcher.On("Dispatch", mock.Anything, item).Return(sendErr)
			mockRepo.On("ScheduleRetry", mock.Anything, item.ID, tc.wantRetryAt, sendErr.Error()).Return(nil)

			summary, err := service.RunDispatchCycle(context.Background())

			assert.NoError(t, err)
			assert.Equal(t, 0, summary.Sent)
			assert.Equal(t, 1, summary.Failed)
			assert.Equal(t, []uuid.UUID{item.ID}, summary.IDs.Failed)
			mockRepo.AssertExpectations(t)
		})
	}
}

// A delivery failure counts in the summary even when the item gets a retry;
// Failed reports failed dispatches of the cycle, not only exhausted items.
func TestRunDispatchCycle_RetriedFailureCountsAsFailed(t *testing.T) {
	mockRepo := &MockNotificationRepository{}
	mockDispatcher := &MockDispatcher{}

	now := time.Date(2024, 11, 1, 10, 0, 0, 0, time.UTC)
	service := &NotificationService{
		QueueRepo:  mockRepo,
		dispatcher: mockDispatcher,
		config:     queueTestConfig(),
		now:        func() time.Time { return now },
	}

	sendErr := errors.New("transport down")
	item := queueItem(0)
	mockRepo.On("SelectDispatchable", mock.Anything, now, 10).Return([]*domain.NotificationQueueItem{item}, nil)
	mockRepo.On("Claim", mock.Anything, item.ID).Return(true, nil)
	mockDispatcher.On("Dispatch", mock.Anything, item).Return(sendErr)
	mockRepo.On("ScheduleRetry", mock.Anything, item.ID, now.Add(15*time.Minute), sendErr.Error()).Return(nil)

	summary, err := service.RunDispatchCycle(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, []uuid.UUID{item.ID}, summary.IDs.Failed)
	mockRepo.AssertNotCalled(t, "MarkFailed", mock.Anything, mock.Anything, mock.Anything)
	mockRepo.AssertExpectations(t)
}

// Each delivery runs under the configured per-item timeout so a hung
// transport call cannot stall the cycle.
func TestRunDispatchCycle_DispatchContextCarriesDeadline(t *testing.T) {
	mockRepo := &MockNotificationRepository{}
	mockDispatcher := &MockDispatcher{}

	now := time.Date(2024, 11, 1, 10, 0, 0, 0, time.UTC)
	service := &NotificationService{
		QueueRepo:  mockRepo,
		dispatcher: mockDispatcher,
		config:     queueTestConfig(),
		now:        func() time.Time { return now },
	}

	item := queueItem(0)
	mockRepo.On("SelectDispatchable", mock.Anything, now, 10).Return([]*domain.NotificationQueueItem{item}, nil)
	mockRepo.On("Claim", mock.Anything, item.ID).Return(true, nil)
	mockDispatcher.On("Dispatch", mock.MatchedBy(func(ctx context.Context) bool {
		deadline, ok := ctx.Deadline()
		return ok && time.Until(deadline) <= 15*time.Second
	}), item).Return(nil)
	mockRepo.On("MarkSent", mock.Anything, item.ID, now).Return(nil)

	_, err := service.RunDispatchCycle(context.Background())

	assert.NoError(t, err)
	mockDispatcher.AssertExpectations(t)
}

func TestRunDispatchCycle_ExhaustedAttemptsFailTerminally(t *testing.T) {
	mockRepo := &MockNotificationRepository{}
	mockDispatcher := &MockDispatcher{}

	now := time.Date(2024, 11, 1, 10, 0, 0, 0, time.UTC)
	service := &NotificationService{
		QueueRepo:  mockRepo,
		dispatcher: mockDispatcher,
		config:     queueTestConfig(),
		now:        func() time.Time { return now },
	}

	sendErr := errors.New("transport down")
	item := queueItem(2) // third and last attempt
	mockRepo.On("SelectDispatchable", mock.Anything, now, 10).Return([]*domain.NotificationQueueItem{item}, nil)
	mockRepo.On("Claim", mock.Anything, item.ID).Return(true, nil)
	mockDispatcher.On("Dispatch", mock.Anything, item).Return(sendErr)
	mockRepo.On("MarkFailed", mock.Anything, item.ID, sendErr.Error()).Return(nil)

	summary, err := service.RunDispatchCycle(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, []uuid.UUID{item.ID}, summary.IDs.Failed)
	mockRepo.AssertNotCalled(t, "ScheduleRetry", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	mockRepo.AssertExpectations(t)
}

// An item claimed by a concurrent cycle is skipped, not dispatched twice.
func TestRunDispatchCycle_SkipsItemsClaimedElsewhere(t *testing.T) {
	mockRepo := &MockNotificationRepository{}
	mockDispatcher := &MockDispatcher{}

	now := time.Date(2024, 11, 1, 10, 0, 0, 0, time.UTC)
	service := &NotificationService{
		QueueRepo:  mockRepo,
		dispatcher: mockDispatcher,
		config:     queueTestConfig(),
		now:        func() time.Time { return now },
	}

	stolen := queueItem(0)
	mine := queueItem(0)
	mockRepo.On("SelectDispatchable", mock.Anything, now, 10).Return([]*domain.NotificationQueueItem{stolen, mine}, nil)
	mockRepo.On("Claim", mock.Anything, stolen.ID).Return(false, nil)
	mockRepo.On("Claim", mock.Anything, mine.ID).Return(true, nil)
	mockDispatcher.On("Dispatch", mock.Anything, mine).Return(nil)
	mockRepo.On("MarkSent", mock.Anything, mine.ID, now).Return(nil)

	summary, err := service.RunDispatchCycle(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 1, summary.Sent)
	mockDispatcher.AssertNumberOfCalls(t, "Dispatch", 1)
	mockRepo.AssertExpectations(t)
}

// A template without a registered handler is a configuration gap, but it
// still consumes attempts like any other failure. The distinct error message
// lets operators tell it apart from transient transport errors.
func TestRunDispatchCycle_UnknownTemplateConsumesAttempt(t *testing.T) {
	mockRepo := &MockNotificationRepository{}
	mockDispatcher := &MockDispatcher{}

	now := time.Date(2024, 11, 1, 10, 0, 0, 0, time.UTC)
	service := &NotificationService{
		QueueRepo:  mockRepo,
		dispatcher: mockDispatcher,
		config:     queueTestConfig(),
		now:        func() time.Time { return now },
	}

	item := queueItem(0)
	item.Template = "no-such-template"
	templateErr := errors.New(`UNKNOWN_TEMPLATE: No dispatch handler registered for template "no-such-template"; configuration gap, not a transient failure (unknown notification template)`)
	mockRepo.On("SelectDispatchable", mock.Anything, now, 10).Return([]*domain.NotificationQueueItem{item}, nil)
	mockRepo.On("Claim", mock.Anything, item.ID).Return(true, nil)
	mockDispatcher.On("Dispatch", mock.Anything, item).Return(templateErr)
	mockRepo.On("ScheduleRetry", mock.Anything, item.ID, now.Add(15*time.Minute), templateErr.Error()).Return(nil)

	_, err := service.RunDispatchCycle(context.Background())

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

// One bad item never aborts the rest of the batch.
func TestRunDispatchCycle_FailureDoesNotAbortBatch(t *testing.T) {
	mockRepo := &MockNotificationRepository{}
	mockDispatcher := &MockDispatcher{}

	now := time.Date(2024, 11, 1, 10, 0, 0, 0, time.UTC)
	service := &NotificationService{
		QueueRepo:  mockRepo,
		dispatcher: mockDispatcher,
		config:     queueTestConfig(),
		now:        func() time.Time { return now },
	}

	bad := queueItem(0)
	good := queueItem(0)
	sendErr := errors.New("mailbox full")
	mockRepo.On("SelectDispatchable", mock.Anything, now, 10).Return([]*domain.NotificationQueueItem{bad, good}, nil)
	mockRepo.On("Claim", mock.Anything, bad.ID).Return(true, nil)
	mockRepo.On("Claim", mock.Anything, good.ID).Return(true, nil)
	mockDispatcher.On("Dispatch", mock.Anything, bad).Return(sendErr)
	mockDispatcher.On("Dispatch", mock.Anything, good).Return(nil)
	mockRepo.On("ScheduleRetry", mock.Anything, bad.ID, now.Add(15*time.Minute), sendErr.Error()).Return(nil)
	mockRepo.On("MarkSent", mock.Anything, good.ID, now).Return(nil)

	summary, err := service.RunDispatchCycle(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 1, summary.Sent)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, []uuid.UUID{bad.ID}, summary.IDs.Failed)
	mockRepo.AssertExpectations(t)
}

func TestEnqueue_SetsDefaults(t *testing.T) {
	mockRepo := &MockNotificationRepository{}

	now := time.Date(2024, 11, 1, 10, 0, 0, 0, time.UTC)
	service := &NotificationService{
		QueueRepo: mockRepo,
		config:    queueTestConfig(),
		now:       func() time.Time { return now },
	}

	orgID := uuid.New()
	mockRepo.On("Enqueue", mock.Anything, mock.MatchedBy(func(item *domain.NotificationQueueItem) bool {
		return item.Status == domain.NotificationStatusPending &&
			item.Attempts == 0 &&
			item.MaxAttempts == 3 &&
			item.Priority == domain.NotificationPriorityUrgent &&
			item.CreatedAt.Equal(now)
	})).Return(nil)

	item, err := service.Enqueue(context.Background(), orgID, "admin@estudio.com", "Nueva consulta",
		domain.TemplateNewInquiryAdmin, domain.NewInquiryAdminPayload{Name: "Juan"}, domain.NotificationPriorityUrgent)

	assert.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, item.ID)
	mockRepo.AssertExpectations(t)
}
