package service

import (
	"context"
	"encoding/json"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/lucianocastr/estudiors/internal/config"
	"github.com/lucianocastr/estudiors/internal/domain"
	"github.com/lucianocastr/estudiors/internal/mailer"
	"github.com/lucianocastr/estudiors/internal/repository"
	customError "github.com/lucianocastr/estudiors/pkg/errors"
)

// NotificationService owns the outbound queue: enqueueing messages and
// running the poll-and-dispatch cycle with retry backoff.
type NotificationService struct {
	QueueRepo  repository.NotificationRepository
	dispatcher mailer.Dispatcher
	config     *config.Config
	now        func() time.Time
}

func NewNotificationService(
	queueRepo repository.NotificationRepository,
	dispatcher mailer.Dispatcher,
	config *config.Config,
) *NotificationService {
	return &NotificationService{
		QueueRepo:  queueRepo,
		dispatcher: dispatcher,
		config:     config,
		now:        time.Now,
	}
}

// Enqueue marshals the payload and inserts a pending queue item. Lower
// priority numbers dispatch first.
func (s *NotificationService) Enqueue(
	ctx context.Context,
	orgID uuid.UUID,
	recipient string,
	subject string,
	template string,
	payload interface{},
	priority int,
) (*domain.NotificationQueueItem, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	item := &domain.NotificationQueueItem{
		ID:             uuid.New(),
		OrganizationID: orgID,
		Recipient:      recipient,
		Subject:        subject,
		Template:       template,
		Payload:        raw,
		Priority:       priority,
		Status:         domain.NotificationStatusPending,
		Attempts:       0,
		MaxAttempts:    s.config.Queue.MaxAttempts,
		CreatedAt:      s.now(),
	}

	if err := s.QueueRepo.Enqueue(ctx, item); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return item, nil
}

// RunDispatchCycle selects one batch of due pending items and attempts
// delivery for each. A delivery failure schedules a retry with exponential
// backoff, or terminally fails the item once its attempts are exhausted.
// One bad item never aborts the rest of the batch.
func (s *NotificationService) RunDispatchCycle(ctx context.Context) (*domain.DispatchSummary, error) {
	now := s.now()

	items, err := s.QueueRepo.SelectDispatchable(ctx, now, s.config.Queue.BatchSize)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	summary := &domain.DispatchSummary{}

	for _, item := range items {
		claimed, err := s.QueueRepo.Claim(ctx, item.ID)
		if err != nil {
			logrus.WithField("item_id", item.ID).WithError(err).Error("claim failed")
			continue
		}
		if !claimed {
			// Another cycle got there first.
			continue
		}

		// The dispatch collaborator gets a bounded deadline; a hung
		// transport call counts as a failure, it never stalls the batch.
		dispatchCtx, cancel := context.WithTimeout(ctx, s.config.GetDispatchTimeout())
		err = s.dispatcher.Dispatch(dispatchCtx, item)
		cancel()
		if err != nil {
			s.recordFailure(ctx, item, now, err)
			summary.Failed++
			summary.IDs.Failed = append(summary.IDs.Failed, item.ID)
			continue
		}

		if err := s.QueueRepo.MarkSent(ctx, item.ID, s.now()); err != nil {
			logrus.WithField("item_id", item.ID).WithError(err).Error("mark sent failed")
			continue
		}

		summary.Sent++
		summary.IDs.Sent = append(summary.IDs.Sent, item.ID)
	}

	if summary.Sent > 0 || summary.Failed > 0 {
		logrus.WithFields(logrus.Fields{
			"sent":   summary.Sent,
			"failed": summary.Failed,
		}).Info("dispatch cycle completed")
	}

	return summary, nil
}

// recordFailure increments the item's attempt count and either schedules a
// retry or terminally fails it. The backoff is base × 3^attempts counted
// after the increment, so the first retry waits 15 minutes, not 5.
func (s *NotificationService) recordFailure(ctx context.Context, item *domain.NotificationQueueItem, now time.Time, dispatchErr error) {
	attempts := item.Attempts + 1

	if attempts >= item.MaxAttempts {
		if err := s.QueueRepo.MarkFailed(ctx, item.ID, dispatchErr.Error()); err != nil {
			logrus.WithField("item_id", item.ID).WithError(err).Error("mark failed failed")
			return
		}
		logrus.WithFields(logrus.Fields{
			"item_id":  item.ID,
			"template": item.Template,
			"attempts": attempts,
		}).WithError(dispatchErr).Warn("notification permanently failed")
		return
	}

	backoff := s.backoffFor(attempts)
	if err := s.QueueRepo.ScheduleRetry(ctx, item.ID, now.Add(backoff), dispatchErr.Error()); err != nil {
		logrus.WithField("item_id", item.ID).WithError(err).Error("schedule retry failed")
		return
	}

	logrus.WithFields(logrus.Fields{
		"item_id":  item.ID,
		"template": item.Template,
		"attempts": attempts,
		"backoff":  backoff.String(),
	}).WithError(dispatchErr).Warn("notification dispatch failed, retry scheduled")
}

func (s *NotificationService) backoffFor(attempts int) time.Duration {
	base := s.config.GetBackoffBase()
	multiplier := math.Pow(3, float64(attempts))
	return time.Duration(float64(base) * multiplier)
}

// GetItem exposes a queue item for inspection.
func (s *NotificationService) GetItem(ctx context.Context, id uuid.UUID) (*domain.NotificationQueueItem, error) {
	item, err := s.QueueRepo.GetByID(ctx, id)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return item, nil
}
