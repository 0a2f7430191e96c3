package repository

import (
	"context"

	"therapist-crm/internal/domain/entity"

	"github.com/google/uuid"
)

type AppointmentRepository interface {
	FindAll(ctx context.Context, filter entity.AppointmentFilter) ([]entity.Appointment, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Appointment, error)
	Create(ctx context.Context, appointment *entity.Appointment) error
	Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
}
