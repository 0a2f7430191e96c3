package usecase

import (
	"context"
	"errors"

	"therapist-crm/internal/converter"
	"therapist-crm/internal/delivery/dto"
	"therapist-crm/internal/domain/entity"
	"therapist-crm/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrNotificationClosed   = errors.New("notification is already closed")
)

// failedStatuses is the admin "needs attention" view of the outbox.
var failedStatuses = []string{entity.NotificationStatusFailed, entity.NotificationStatusRetrying}

type NotificationUsecase interface {
	ListFailed(ctx context.Context) (*dto.NotificationListResponse, error)
	Retry(ctx context.Context, actorID, id uuid.UUID) (*dto.NotificationResponse, error)
	Abandon(ctx context.Context, actorID, id uuid.UUID) (*dto.NotificationResponse, error)
}

type notificationUsecase struct {
	log           *logrus.Logger
	notifications service.NotificationService
	auditService  service.AuditService
}

func NewNotificationUsecase(
	log *logrus.Logger,
	notifications service.NotificationService,
	auditService service.AuditService,
) NotificationUsecase {
	return &notificationUsecase{
		log:           log,
		notifications: notifications,
		auditService:  auditService,
	}
}

func (u *notificationUsecase) ListFailed(ctx context.Context) (*dto.NotificationListResponse, error) {
	items, err := u.notifications.List(ctx, failedStatuses)
	if err != nil {
		u.log.Warnf("Failed to list notifications: %+v", err)
		return nil, err
	}
	return &dto.NotificationListResponse{
		Notifications: converter.NotificationsToResponses(items),
		Total:         len(items),
	}, nil
}

func (u *notificationUsecase) Retry(ctx context.Context, actorID, id uuid.UUID) (*dto.NotificationResponse, error) {
	n, err := u.notifications.Retry(ctx, id)
	if err != nil {
		return nil, u.translate("retry", err)
	}
	u.auditService.LogUpdate(ctx, &actorID, entity.AuditActionNotificationRetry, "notification", id.String(), nil,
		map[string]interface{}{"status": n.Status, "attempts": n.Attempts})
	return converter.NotificationToResponse(n), nil
}

func (u *notificationUsecase) Abandon(ctx context.Context, actorID, id uuid.UUID) (*dto.NotificationResponse, error) {
	n, err := u.notifications.Abandon(ctx, id)
	if err != nil {
		return nil, u.translate("abandon", err)
	}
	u.auditService.LogUpdate(ctx, &actorID, entity.AuditActionNotificationAbandon, "notification", id.String(), nil,
		map[string]interface{}{"status": n.Status})
	return converter.NotificationToResponse(n), nil
}

func (u *notificationUsecase) translate(op string, err error) error {
	switch {
	case errors.Is(err, service.ErrNotificationNotFound):
		return ErrNotificationNotFound
	case errors.Is(err, service.ErrNotificationTerminal):
		return ErrNotificationClosed
	}
	u.log.Warnf("Failed to %s notification: %+v", op, err)
	return err
}
