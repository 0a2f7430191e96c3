package usecase

import (
	"context"
	"math"
	"time"

	"therapist-crm/internal/converter"
	"therapist-crm/internal/delivery/dto"
	"therapist-crm/internal/domain/entity"
	"therapist-crm/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type CourseUsecase interface {
	GetProgress(ctx context.Context, userID uuid.UUID, courseType string, totalLessons int) (*dto.CourseSummaryResponse, error)
	IsVideoWatched(ctx context.Context, userID uuid.UUID, videoID string) (bool, error)
	MarkVideoWatched(ctx context.Context, userID uuid.UUID, req *dto.CourseProgressRequest) (*dto.CourseProgressResponse, error)
	UpdateWatchTime(ctx context.Context, userID uuid.UUID, req *dto.CourseProgressRequest) (*dto.CourseProgressResponse, error)
	GetCertifications(ctx context.Context, userID uuid.UUID) ([]dto.CertificationResponse, error)
	HasCertification(ctx context.Context, userID uuid.UUID, certType string) (bool, error)
}

type courseUsecase struct {
	log          *logrus.Logger
	progressRepo repository.CourseProgressRepository
	certRepo     repository.CertificationRepository
	now          func() time.Time
}

func NewCourseUsecase(
	log *logrus.Logger,
	progressRepo repository.CourseProgressRepository,
	certRepo repository.CertificationRepository,
) CourseUsecase {
	return &courseUsecase{
		log:          log,
		progressRepo: progressRepo,
		certRepo:     certRepo,
		now:          time.Now,
	}
}

// CompletionPercent rounds completed/total to the nearest percent; zero
// total yields zero.
func CompletionPercent(completed, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}

func (u *courseUsecase) GetProgress(ctx context.Context, userID uuid.UUID, courseType string, totalLessons int) (*dto.CourseSummaryResponse, error) {
	progress, err := u.progressRepo.FindByUser(ctx, userID, courseType)
	if err != nil {
		u.log.Warnf("Failed to find course progress: %+v", err)
		return nil, err
	}

	summary := &dto.CourseSummaryResponse{
		CourseType:   courseType,
		Lessons:      make([]dto.CourseProgressResponse, len(progress)),
		TotalLessons: totalLessons,
	}
	for i := range progress {
		summary.Lessons[i] = converter.CourseProgressToResponse(&progress[i])
		summary.WatchedSeconds += progress[i].WatchedSeconds
		if progress[i].Completed {
			summary.CompletedLessons++
		}
	}
	if summary.TotalLessons == 0 {
		summary.TotalLessons = len(progress)
	}
	summary.CompletionPercent = CompletionPercent(summary.CompletedLessons, summary.TotalLessons)
	return summary, nil
}

func (u *courseUsecase) IsVideoWatched(ctx context.Context, userID uuid.UUID, videoID string) (bool, error) {
	progress, err := u.progressRepo.FindByUserAndVideo(ctx, userID, videoID)
	if err != nil {
		u.log.Warnf("Failed to find course progress: %+v", err)
		return false, err
	}
	return progress != nil && progress.Completed, nil
}

// load returns the stored row for the video or a fresh one, so upserts never
// reset fields the request does not carry.
func (u *courseUsecase) load(ctx context.Context, userID uuid.UUID, req *dto.CourseProgressRequest) (*entity.CourseProgress, error) {
	progress, err := u.progressRepo.FindByUserAndVideo(ctx, userID, req.VideoID)
	if err != nil {
		u.log.Warnf("Failed to find course progress: %+v", err)
		return nil, err
	}
	if progress == nil {
		progress = &entity.CourseProgress{UserID: userID, VideoID: req.VideoID}
	}
	if req.CourseType != "" {
		progress.CourseType = req.CourseType
	}
	if req.LessonNumber > 0 {
		progress.LessonNumber = req.LessonNumber
	}
	return progress, nil
}

func (u *courseUsecase) MarkVideoWatched(ctx context.Context, userID uuid.UUID, req *dto.CourseProgressRequest) (*dto.CourseProgressResponse, error) {
	progress, err := u.load(ctx, userID, req)
	if err != nil {
		return nil, err
	}

	now := u.now().UTC()
	progress.Completed = true
	progress.CompletedAt = &now
	if req.WatchedSeconds > progress.WatchedSeconds {
		progress.WatchedSeconds = req.WatchedSeconds
	}

	if err := u.progressRepo.Upsert(ctx, progress); err != nil {
		u.log.Warnf("Failed to save course progress: %+v", err)
		return nil, err
	}
	res := converter.CourseProgressToResponse(progress)
	return &res, nil
}

func (u *courseUsecase) UpdateWatchTime(ctx context.Context, userID uuid.UUID, req *dto.CourseProgressRequest) (*dto.CourseProgressResponse, error) {
	progress, err := u.load(ctx, userID, req)
	if err != nil {
		return nil, err
	}
	progress.WatchedSeconds = req.WatchedSeconds

	if err := u.progressRepo.Upsert(ctx, progress); err != nil {
		u.log.Warnf("Failed to save watch time: %+v", err)
		return nil, err
	}
	res := converter.CourseProgressToResponse(progress)
	return &res, nil
}

func (u *courseUsecase) GetCertifications(ctx context.Context, userID uuid.UUID) ([]dto.CertificationResponse, error) {
	certs, err := u.certRepo.FindByUser(ctx, userID)
	if err != nil {
		u.log.Warnf("Failed to find certifications: %+v", err)
		return nil, err
	}
	return converter.CertificationsToResponses(certs), nil
}

func (u *courseUsecase) HasCertification(ctx context.Context, userID uuid.UUID, certType string) (bool, error) {
	cert, err := u.certRepo.FindByUserAndType(ctx, userID, certType)
	if err != nil {
		u.log.Warnf("Failed to find certification: %+v", err)
		return false, err
	}
	return cert != nil, nil
}
