package repository

import (
	"context"

	"therapist-crm/internal/domain/entity"

	"github.com/google/uuid"
)

type ReviewRepository interface {
	FindByTherapist(ctx context.Context, therapistID uuid.UUID) ([]entity.Review, error)
	Create(ctx context.Context, review *entity.Review) error
}
