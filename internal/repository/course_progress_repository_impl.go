package repository

import (
	"context"
	"errors"

	"therapist-crm/internal/domain/entity"
	domainRepo "therapist-crm/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type courseProgressRepository struct {
	db *gorm.DB
}

func NewCourseProgressRepository(db *gorm.DB) domainRepo.CourseProgressRepository {
	return &courseProgressRepository{db: db}
}

func (r *courseProgressRepository) FindByUser(ctx context.Context, userID uuid.UUID, courseType string) ([]entity.CourseProgress, error) {
	var progress []entity.CourseProgress
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if courseType != "" {
		query = query.Where("course_type = ?", courseType)
	}
	if err := query.Order("lesson_number ASC").Find(&progress).Error; err != nil {
		return nil, err
	}
	return progress, nil
}

func (r *courseProgressRepository) FindByUserAndVideo(ctx context.Context, userID uuid.UUID, videoID string) (*entity.CourseProgress, error) {
	var progress entity.CourseProgress
	err := r.db.WithContext(ctx).Where("user_id = ? AND video_id = ?", userID, videoID).First(&progress).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &progress, nil
}

func (r *courseProgressRepository) Upsert(ctx context.Context, progress *entity.CourseProgress) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "video_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"course_type", "lesson_number", "completed", "completed_at", "watched_seconds", "updated_at",
		}),
	}).Create(progress).Error
}
