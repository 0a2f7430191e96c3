package usecase

import (
	"context"
	"errors"
	"strings"

	"therapist-crm/internal/converter"
	"therapist-crm/internal/delivery/dto"
	"therapist-crm/internal/domain/entity"
	"therapist-crm/internal/domain/repository"
	"therapist-crm/internal/service"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var ErrTherapistAlreadyRegistered = errors.New("therapist already registered")

type TherapistUsecase interface {
	Register(ctx context.Context, identity *Identity, req *dto.RegisterTherapistRequest) (*dto.TherapistResponse, error)
	GetCurrent(ctx context.Context, userID uuid.UUID) (*dto.TherapistResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.TherapistResponse, error)
	ListActive(ctx context.Context) ([]dto.TherapistResponse, error)
	GetReviews(ctx context.Context, therapistID uuid.UUID) ([]dto.ReviewResponse, error)
	GetAppointments(ctx context.Context, userID uuid.UUID, status string) ([]dto.AppointmentResponse, error)
}

type therapistUsecase struct {
	log             *logrus.Logger
	therapistRepo   repository.TherapistRepository
	profileRepo     repository.ProfileRepository
	reviewRepo      repository.ReviewRepository
	appointmentRepo repository.AppointmentRepository
	auditService    service.AuditService
}

func NewTherapistUsecase(
	log *logrus.Logger,
	therapistRepo repository.TherapistRepository,
	profileRepo repository.ProfileRepository,
	reviewRepo repository.ReviewRepository,
	appointmentRepo repository.AppointmentRepository,
	auditService service.AuditService,
) TherapistUsecase {
	return &therapistUsecase{
		log:             log,
		therapistRepo:   therapistRepo,
		profileRepo:     profileRepo,
		reviewRepo:      reviewRepo,
		appointmentRepo: appointmentRepo,
		auditService:    auditService,
	}
}

// Register creates a pending application for the signed-in user. The role
// change is best effort.
func (u *therapistUsecase) Register(ctx context.Context, identity *Identity, req *dto.RegisterTherapistRequest) (*dto.TherapistResponse, error) {
	existing, err := u.therapistRepo.FindByUserID(ctx, identity.UserID)
	if err != nil {
		u.log.Warnf("Failed to check existing therapist: %+v", err)
		return nil, err
	}
	if existing != nil {
		return nil, ErrTherapistAlreadyRegistered
	}

	if err := u.profileRepo.Update(ctx, identity.UserID, map[string]interface{}{"role": entity.RoleTherapist}); err != nil {
		u.log.Warnf("Failed to update profile role: %+v", err)
	}

	specializations := make(pq.StringArray, 0, len(req.Specializations))
	for _, s := range req.Specializations {
		if s = strings.TrimSpace(s); s != "" {
			specializations = append(specializations, s)
		}
	}

	var price decimal.NullDecimal
	if req.PricePerSession != nil {
		price = decimal.NewNullDecimal(*req.PricePerSession)
	}

	userID := identity.UserID
	therapist := &entity.Therapist{
		UserID:          &userID,
		FullName:        strings.TrimSpace(req.FullName),
		Email:           firstNonEmpty(strings.TrimSpace(req.Email), identity.Email),
		Phone:           strings.TrimSpace(req.Phone),
		City:            strings.TrimSpace(req.City),
		Specializations: specializations,
		ExperienceYears: req.ExperienceYears,
		PricePerSession: price,
		WorksOnline:     req.WorksOnline,
		Bio:             strings.TrimSpace(req.Bio),
		Questionnaire:   req.Questionnaire,
		Status:          entity.TherapistStatusPending,
	}

	if err := u.therapistRepo.Create(ctx, therapist); err != nil {
		u.log.Warnf("Failed to create therapist: %+v", err)
		return nil, err
	}

	u.auditService.LogCreate(ctx, &userID, entity.AuditActionTherapistRegister, "therapist", therapist.ID.String(), map[string]interface{}{
		"full_name": therapist.FullName,
		"status":    therapist.Status,
	})

	return converter.TherapistToResponse(therapist), nil
}

func (u *therapistUsecase) GetCurrent(ctx context.Context, userID uuid.UUID) (*dto.TherapistResponse, error) {
	therapist, err := u.therapistRepo.FindByUserID(ctx, userID)
	if err != nil {
		u.log.Warnf("Failed to find therapist: %+v", err)
		return nil, err
	}
	if therapist == nil {
		return nil, ErrTherapistNotFound
	}
	return converter.TherapistToResponse(therapist), nil
}

func (u *therapistUsecase) GetByID(ctx context.Context, id uuid.UUID) (*dto.TherapistResponse, error) {
	therapist, err := u.therapistRepo.FindByID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find therapist: %+v", err)
		return nil, err
	}
	if therapist == nil || !therapist.IsActive {
		return nil, ErrTherapistNotFound
	}
	return converter.TherapistToResponse(therapist), nil
}

// ListActive is the public directory, best rated first.
func (u *therapistUsecase) ListActive(ctx context.Context) ([]dto.TherapistResponse, error) {
	active := true
	therapists, err := u.therapistRepo.FindAll(ctx, entity.TherapistFilter{
		IsActive: &active,
		OrderBy:  "rating DESC",
	})
	if err != nil {
		u.log.Warnf("Failed to find active therapists: %+v", err)
		return nil, err
	}
	return converter.TherapistsToResponses(therapists), nil
}

func (u *therapistUsecase) GetReviews(ctx context.Context, therapistID uuid.UUID) ([]dto.ReviewResponse, error) {
	reviews, err := u.reviewRepo.FindByTherapist(ctx, therapistID)
	if err != nil {
		u.log.Warnf("Failed to find reviews: %+v", err)
		return nil, err
	}
	return converter.ReviewsToResponses(reviews), nil
}

func (u *therapistUsecase) GetAppointments(ctx context.Context, userID uuid.UUID, status string) ([]dto.AppointmentResponse, error) {
	therapist, err := u.therapistRepo.FindByUserID(ctx, userID)
	if err != nil {
		u.log.Warnf("Failed to find therapist: %+v", err)
		return nil, err
	}
	if therapist == nil {
		return nil, ErrTherapistNotFound
	}

	appointments, err := u.appointmentRepo.FindAll(ctx, entity.AppointmentFilter{
		TherapistID: &therapist.ID,
		Status:      status,
	})
	if err != nil {
		u.log.Warnf("Failed to find appointments: %+v", err)
		return nil, err
	}
	return converter.AppointmentsToResponses(appointments), nil
}
