package repository

import (
	"context"

	"therapist-crm/internal/domain/entity"

	"github.com/google/uuid"
)

type PatientRepository interface {
	FindAll(ctx context.Context, filter entity.PatientFilter) ([]entity.Patient, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Patient, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Patient, error)
	Create(ctx context.Context, patient *entity.Patient) error
	Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
	Delete(ctx context.Context, id uuid.UUID) error
}
