package repository

import (
	"context"
	"errors"

	"therapist-crm/internal/domain/entity"
	domainRepo "therapist-crm/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type certificationRepository struct {
	db *gorm.DB
}

func NewCertificationRepository(db *gorm.DB) domainRepo.CertificationRepository {
	return &certificationRepository{db: db}
}

func (r *certificationRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]entity.Certification, error) {
	var certs []entity.Certification
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("issued_at DESC").Find(&certs).Error; err != nil {
		return nil, err
	}
	return certs, nil
}

func (r *certificationRepository) FindByUserAndType(ctx context.Context, userID uuid.UUID, certType string) (*entity.Certification, error) {
	var cert entity.Certification
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND certification_type = ? AND passed = ?", userID, certType, true).
		First(&cert).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cert, nil
}
