package repository

import (
	"context"

	"therapist-crm/internal/domain/entity"

	"github.com/google/uuid"
)

type NotificationRepository interface {
	Create(ctx context.Context, n *entity.Notification) error
	Save(ctx context.Context, n *entity.Notification) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Notification, error)
	FindAll(ctx context.Context, filter entity.NotificationFilter) ([]entity.Notification, error)
}
