package repository

import (
	"context"

	"therapist-crm/internal/domain/entity"

	"github.com/google/uuid"
)

type CertificationRepository interface {
	FindByUser(ctx context.Context, userID uuid.UUID) ([]entity.Certification, error)
	FindByUserAndType(ctx context.Context, userID uuid.UUID, certType string) (*entity.Certification, error)
}
