package repository

import (
	"context"

	"therapist-crm/internal/domain/entity"

	"github.com/google/uuid"
)

type LegalConsentRepository interface {
	Create(ctx context.Context, consent *entity.LegalConsent) error
	FindByUserAndVersion(ctx context.Context, userID uuid.UUID, version string) (*entity.LegalConsent, error)
}
