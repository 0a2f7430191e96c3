package service

import (
	"context"
	"errors"
	"time"

	"therapist-crm/config"
	"therapist-crm/internal/domain/entity"
	"therapist-crm/internal/domain/repository"
	"therapist-crm/internal/infrastructure/notify"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	outboxBaseDelay = 30 * time.Second
	outboxMaxDelay  = time.Hour
)

var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrNotificationTerminal = errors.New("notification can no longer be retried")
)

// NotificationService is the outbox. Notify stores the message, makes one
// immediate delivery attempt and leaves failures to the background worker.
type NotificationService interface {
	Notify(ctx context.Context, notifType, to string, data map[string]interface{}, reference string) bool
	ProcessPending(ctx context.Context) (int, error)
	Run(ctx context.Context)
	List(ctx context.Context, statuses []string) ([]entity.Notification, error)
	Retry(ctx context.Context, id uuid.UUID) (*entity.Notification, error)
	Abandon(ctx context.Context, id uuid.UUID) (*entity.Notification, error)
}

type notificationService struct {
	log      *logrus.Logger
	repo     repository.NotificationRepository
	notifier notify.Notifier
	cfg      config.OutboxConfig
	now      func() time.Time
}

func NewNotificationService(
	log *logrus.Logger,
	repo repository.NotificationRepository,
	notifier notify.Notifier,
	cfg config.OutboxConfig,
) NotificationService {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 5
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Second
	}
	return &notificationService{
		log:      log,
		repo:     repo,
		notifier: notifier,
		cfg:      cfg,
		now:      time.Now,
	}
}

func (s *notificationService) Notify(ctx context.Context, notifType, to string, data map[string]interface{}, reference string) bool {
	if to == "" {
		s.log.Warnf("Skipping %s notification: no recipient", notifType)
		return false
	}

	now := s.now()
	n := &entity.Notification{
		Type:        notifType,
		Recipient:   to,
		Payload:     entity.JSON(data),
		Reference:   reference,
		MaxAttempts: s.cfg.MaxAttempts,
		CreatedAt:   now,
	}
	// The row is stored with this attempt already counted, so the worker
	// sees it as backing off rather than due while the send is in flight.
	n.MarkAttempt(now)

	if err := s.repo.Create(ctx, n); err != nil {
		// Not persisted, so nothing will retry it. Still try once.
		s.log.Warnf("Failed to enqueue %s notification: %+v", notifType, err)
		if err := s.notifier.Send(ctx, toMessage(n)); err != nil {
			s.log.Warnf("Failed to send %s notification: %+v", notifType, err)
			return false
		}
		return true
	}

	return s.deliver(ctx, n)
}

// dispatch makes one attempt and persists the outcome.
func (s *notificationService) dispatch(ctx context.Context, n *entity.Notification) bool {
	n.MarkAttempt(s.now())
	return s.deliver(ctx, n)
}

// deliver sends an entry whose attempt is already marked.
func (s *notificationService) deliver(ctx context.Context, n *entity.Notification) bool {
	sendErr := s.notifier.Send(ctx, toMessage(n))
	if sendErr != nil {
		n.MarkFailed(sendErr)
		s.log.WithFields(logrus.Fields{
			"notification_id": n.ID,
			"type":            n.Type,
			"attempt":         n.Attempts,
		}).Warnf("Failed to deliver notification: %+v", sendErr)
	} else {
		n.MarkSuccess()
	}

	if err := s.repo.Save(ctx, n); err != nil {
		s.log.Warnf("Failed to save notification %s: %+v", n.ID, err)
	}
	return sendErr == nil
}

func toMessage(n *entity.Notification) notify.Message {
	return notify.Message{
		Type: n.Type,
		To:   n.Recipient,
		Data: map[string]interface{}(n.Payload),
	}
}

// ProcessPending retries due entries and returns how many were delivered.
func (s *notificationService) ProcessPending(ctx context.Context) (int, error) {
	entries, err := s.repo.FindAll(ctx, entity.NotificationFilter{
		Statuses: []string{entity.NotificationStatusPending, entity.NotificationStatusRetrying},
		Limit:    s.cfg.BatchSize,
	})
	if err != nil {
		return 0, err
	}

	delivered := 0
	now := s.now()
	for i := range entries {
		n := &entries[i]
		if !n.CanRetry() {
			// Out of attempts but never marked failed.
			n.Status = entity.NotificationStatusFailed
			if err := s.repo.Save(ctx, n); err != nil {
				s.log.Warnf("Failed to save notification %s: %+v", n.ID, err)
			}
			continue
		}
		if now.Before(n.DueAt(outboxBaseDelay, outboxMaxDelay)) {
			continue
		}
		if s.dispatch(ctx, n) {
			delivered++
		}
	}

	if len(entries) > 0 {
		s.log.WithFields(logrus.Fields{"checked": len(entries), "delivered": delivered}).Info("Outbox pass complete")
	}
	return delivered, nil
}

// Run processes the outbox every interval until ctx is cancelled.
func (s *notificationService) Run(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("Outbox worker stopped")
			return
		case <-ticker.C:
			if _, err := s.ProcessPending(ctx); err != nil {
				s.log.Warnf("Failed to process outbox: %+v", err)
			}
		}
	}
}

func (s *notificationService) List(ctx context.Context, statuses []string) ([]entity.Notification, error) {
	return s.repo.FindAll(ctx, entity.NotificationFilter{Statuses: statuses})
}

// Retry grants one more attempt to a failed entry and tries it right away.
func (s *notificationService) Retry(ctx context.Context, id uuid.UUID) (*entity.Notification, error) {
	n, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, ErrNotificationNotFound
	}
	if n.Status == entity.NotificationStatusDone || n.Status == entity.NotificationStatusAbandoned {
		return nil, ErrNotificationTerminal
	}

	if n.Attempts >= n.MaxAttempts {
		n.MaxAttempts = n.Attempts + 1
	}
	s.dispatch(ctx, n)
	return n, nil
}

func (s *notificationService) Abandon(ctx context.Context, id uuid.UUID) (*entity.Notification, error) {
	n, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, ErrNotificationNotFound
	}
	if n.Status == entity.NotificationStatusDone {
		return nil, ErrNotificationTerminal
	}

	n.MarkAbandoned()
	if err := s.repo.Save(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}
