package repository

import (
	"context"

	"therapist-crm/internal/domain/entity"

	"github.com/google/uuid"
)

// TherapistRepository reads always preload the linked profile.
type TherapistRepository interface {
	FindAll(ctx context.Context, filter entity.TherapistFilter) ([]entity.Therapist, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Therapist, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Therapist, error)
	Create(ctx context.Context, therapist *entity.Therapist) error
	Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
	Delete(ctx context.Context, id uuid.UUID) error
}
