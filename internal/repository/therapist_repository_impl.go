package repository

import (
	"context"
	"errors"

	"therapist-crm/internal/domain/entity"
	domainRepo "therapist-crm/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type therapistRepository struct {
	db *gorm.DB
}

func NewTherapistRepository(db *gorm.DB) domainRepo.TherapistRepository {
	return &therapistRepository{db: db}
}

func (r *therapistRepository) FindAll(ctx context.Context, filter entity.TherapistFilter) ([]entity.Therapist, error) {
	var therapists []entity.Therapist
	query := r.db.WithContext(ctx).Preload("Profile")

	if len(filter.Statuses) > 0 {
		query = query.Where("status IN ?", filter.Statuses)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}

	order := "created_at DESC"
	if filter.OrderBy != "" {
		order = filter.OrderBy
	}

	if err := query.Order(order).Find(&therapists).Error; err != nil {
		return nil, err
	}
	return therapists, nil
}

func (r *therapistRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Therapist, error) {
	var therapist entity.Therapist
	err := r.db.WithContext(ctx).Preload("Profile").Where("id = ?", id).First(&therapist).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &therapist, nil
}

func (r *therapistRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Therapist, error) {
	var therapist entity.Therapist
	err := r.db.WithContext(ctx).Preload("Profile").Where("user_id = ?", userID).First(&therapist).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &therapist, nil
}

func (r *therapistRepository) Create(ctx context.Context, therapist *entity.Therapist) error {
	return r.db.WithContext(ctx).Omit("Profile").Create(therapist).Error
}

func (r *therapistRepository) Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&entity.Therapist{}).Where("id = ?", id).Updates(fields).Error
}

func (r *therapistRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Therapist{}).Error
}
