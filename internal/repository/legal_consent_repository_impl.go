package repository

import (
	"context"
	"errors"

	"therapist-crm/internal/domain/entity"
	domainRepo "therapist-crm/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type legalConsentRepository struct {
	db *gorm.DB
}

func NewLegalConsentRepository(db *gorm.DB) domainRepo.LegalConsentRepository {
	return &legalConsentRepository{db: db}
}

func (r *legalConsentRepository) Create(ctx context.Context, consent *entity.LegalConsent) error {
	return r.db.WithContext(ctx).Create(consent).Error
}

func (r *legalConsentRepository) FindByUserAndVersion(ctx context.Context, userID uuid.UUID, version string) (*entity.LegalConsent, error) {
	var consent entity.LegalConsent
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND agreed_version = ?", userID, version).
		First(&consent).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &consent, nil
}
