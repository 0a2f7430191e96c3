package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"therapist-crm/internal/domain/entity"
	"therapist-crm/internal/domain/repository"
	"therapist-crm/internal/infrastructure/storage"
	"therapist-crm/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	folderAvatars = "avatars"
	folderResumes = "resumes"
)

var (
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrUploadUnavailable   = errors.New("file uploads are not configured")
)

var (
	avatarTypes = map[string]bool{"image/jpeg": true, "image/png": true, "image/webp": true, "image/gif": true}
	resumeTypes = map[string]bool{"application/pdf": true, "application/msword": true,
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true}
)

type MediaUsecase interface {
	UploadAvatar(ctx context.Context, userID uuid.UUID, file io.Reader, contentType string) (string, error)
	UploadResume(ctx context.Context, userID uuid.UUID, file io.Reader, contentType string) (string, error)
}

type mediaUsecase struct {
	log           *logrus.Logger
	uploader      storage.Uploader
	profileRepo   repository.ProfileRepository
	therapistRepo repository.TherapistRepository
	auditService  service.AuditService
	now           func() time.Time
}

func NewMediaUsecase(
	log *logrus.Logger,
	uploader storage.Uploader,
	profileRepo repository.ProfileRepository,
	therapistRepo repository.TherapistRepository,
	auditService service.AuditService,
) MediaUsecase {
	return &mediaUsecase{
		log:           log,
		uploader:      uploader,
		profileRepo:   profileRepo,
		therapistRepo: therapistRepo,
		auditService:  auditService,
		now:           time.Now,
	}
}

func (u *mediaUsecase) upload(ctx context.Context, userID uuid.UUID, file io.Reader, folder string) (string, error) {
	publicID := fmt.Sprintf("%s-%d", userID, u.now().Unix())
	url, err := u.uploader.Upload(ctx, file, folder, publicID)
	if err != nil {
		if errors.Is(err, storage.ErrStorageDisabled) {
			return "", ErrUploadUnavailable
		}
		u.log.Warnf("Failed to upload to %s: %+v", folder, err)
		return "", err
	}
	return url, nil
}

// UploadAvatar stores the image and points the profile at it.
func (u *mediaUsecase) UploadAvatar(ctx context.Context, userID uuid.UUID, file io.Reader, contentType string) (string, error) {
	if !avatarTypes[contentType] {
		return "", ErrUnsupportedFileType
	}

	url, err := u.upload(ctx, userID, file, folderAvatars)
	if err != nil {
		return "", err
	}

	if err := u.profileRepo.Update(ctx, userID, map[string]interface{}{"avatar_url": url}); err != nil {
		u.log.Warnf("Failed to update avatar url: %+v", err)
		return "", err
	}
	u.auditService.LogUpdate(ctx, &userID, entity.AuditActionProfileUpdate, "profile", userID.String(), nil,
		map[string]interface{}{"avatar_url": url})
	return url, nil
}

// UploadResume requires a therapist application for the user.
func (u *mediaUsecase) UploadResume(ctx context.Context, userID uuid.UUID, file io.Reader, contentType string) (string, error) {
	if !resumeTypes[contentType] {
		return "", ErrUnsupportedFileType
	}

	therapist, err := u.therapistRepo.FindByUserID(ctx, userID)
	if err != nil {
		u.log.Warnf("Failed to find therapist: %+v", err)
		return "", err
	}
	if therapist == nil {
		return "", ErrTherapistNotFound
	}

	url, err := u.upload(ctx, userID, file, folderResumes)
	if err != nil {
		return "", err
	}

	if err := u.therapistRepo.Update(ctx, therapist.ID, map[string]interface{}{"resume_url": url}); err != nil {
		u.log.Warnf("Failed to update resume url: %+v", err)
		return "", err
	}
	return url, nil
}
