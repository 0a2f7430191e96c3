package repository

import (
	"context"

	"therapist-crm/internal/domain/entity"

	"github.com/google/uuid"
)

type LeadRepository interface {
	FindAll(ctx context.Context, filter entity.LeadFilter) ([]entity.Lead, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Lead, error)
	Create(ctx context.Context, lead *entity.Lead) error
	Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
	Delete(ctx context.Context, id uuid.UUID) error
}
