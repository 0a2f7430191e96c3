package usecase

import (
	"context"
	"errors"
	"strings"

	"therapist-crm/internal/converter"
	"therapist-crm/internal/delivery/dto"
	"therapist-crm/internal/domain/entity"
	"therapist-crm/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var ErrReviewNotAllowed = errors.New("only the assigned therapist can be reviewed")

// PatientPortalUsecase serves the signed-in patient's own records.
type PatientPortalUsecase interface {
	GetCurrent(ctx context.Context, userID uuid.UUID) (*dto.PatientResponse, error)
	GetAppointments(ctx context.Context, userID uuid.UUID) ([]dto.AppointmentResponse, error)
	SubmitReview(ctx context.Context, userID uuid.UUID, req *dto.ReviewRequest) (*dto.ReviewResponse, error)
}

type patientPortalUsecase struct {
	log             *logrus.Logger
	patientRepo     repository.PatientRepository
	appointmentRepo repository.AppointmentRepository
	reviewRepo      repository.ReviewRepository
}

func NewPatientPortalUsecase(
	log *logrus.Logger,
	patientRepo repository.PatientRepository,
	appointmentRepo repository.AppointmentRepository,
	reviewRepo repository.ReviewRepository,
) PatientPortalUsecase {
	return &patientPortalUsecase{
		log:             log,
		patientRepo:     patientRepo,
		appointmentRepo: appointmentRepo,
		reviewRepo:      reviewRepo,
	}
}

func (u *patientPortalUsecase) current(ctx context.Context, userID uuid.UUID) (*entity.Patient, error) {
	patient, err := u.patientRepo.FindByUserID(ctx, userID)
	if err != nil {
		u.log.Warnf("Failed to find patient: %+v", err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}
	return patient, nil
}

func (u *patientPortalUsecase) GetCurrent(ctx context.Context, userID uuid.UUID) (*dto.PatientResponse, error) {
	patient, err := u.current(ctx, userID)
	if err != nil {
		return nil, err
	}
	return converter.PatientToResponse(patient), nil
}

func (u *patientPortalUsecase) GetAppointments(ctx context.Context, userID uuid.UUID) ([]dto.AppointmentResponse, error) {
	patient, err := u.current(ctx, userID)
	if err != nil {
		return nil, err
	}

	appointments, err := u.appointmentRepo.FindAll(ctx, entity.AppointmentFilter{PatientID: &patient.ID})
	if err != nil {
		u.log.Warnf("Failed to find appointments: %+v", err)
		return nil, err
	}
	return converter.AppointmentsToResponses(appointments), nil
}

func (u *patientPortalUsecase) SubmitReview(ctx context.Context, userID uuid.UUID, req *dto.ReviewRequest) (*dto.ReviewResponse, error) {
	patient, err := u.current(ctx, userID)
	if err != nil {
		return nil, err
	}
	if patient.AssignedTherapistID == nil || *patient.AssignedTherapistID != req.TherapistID {
		return nil, ErrReviewNotAllowed
	}

	review := &entity.Review{
		PatientID:   patient.ID,
		TherapistID: req.TherapistID,
		Rating:      req.Rating,
		Comment:     strings.TrimSpace(req.Comment),
	}
	if err := u.reviewRepo.Create(ctx, review); err != nil {
		u.log.Warnf("Failed to create review: %+v", err)
		return nil, err
	}
	return converter.ReviewToResponse(review), nil
}
