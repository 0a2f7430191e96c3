package repository

import (
	"context"

	"therapist-crm/internal/domain/entity"

	"github.com/google/uuid"
)

type CourseProgressRepository interface {
	FindByUser(ctx context.Context, userID uuid.UUID, courseType string) ([]entity.CourseProgress, error)
	FindByUserAndVideo(ctx context.Context, userID uuid.UUID, videoID string) (*entity.CourseProgress, error)
	// Upsert inserts or updates on (user_id, video_id).
	Upsert(ctx context.Context, progress *entity.CourseProgress) error
}
