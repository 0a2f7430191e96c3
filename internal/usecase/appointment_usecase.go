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

const defaultAppointmentMinutes = 50

var (
	ErrAppointmentNotFound  = errors.New("appointment not found")
	ErrAppointmentForbidden = errors.New("not a participant of this appointment")
	ErrAppointmentClosed    = errors.New("appointment is no longer scheduled")
	ErrPatientNotAssigned   = errors.New("patient is not assigned to this therapist")
)

// Caller is a signed-in user with a resolved role.
type Caller struct {
	UserID uuid.UUID
	Role   string
}

type AppointmentUsecase interface {
	Create(ctx context.Context, caller Caller, req *dto.AppointmentRequest) (*dto.AppointmentResponse, error)
	Cancel(ctx context.Context, caller Caller, id uuid.UUID) (*dto.AppointmentResponse, error)
	Complete(ctx context.Context, caller Caller, id uuid.UUID) (*dto.AppointmentResponse, error)
}

type appointmentUsecase struct {
	log             *logrus.Logger
	appointmentRepo repository.AppointmentRepository
	therapistRepo   repository.TherapistRepository
	patientRepo     repository.PatientRepository
}

func NewAppointmentUsecase(
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	therapistRepo repository.TherapistRepository,
	patientRepo repository.PatientRepository,
) AppointmentUsecase {
	return &appointmentUsecase{
		log:             log,
		appointmentRepo: appointmentRepo,
		therapistRepo:   therapistRepo,
		patientRepo:     patientRepo,
	}
}

// Create is open to admins and to the therapist the patient is assigned to.
func (u *appointmentUsecase) Create(ctx context.Context, caller Caller, req *dto.AppointmentRequest) (*dto.AppointmentResponse, error) {
	patient, err := u.patientRepo.FindByID(ctx, req.PatientID)
	if err != nil {
		u.log.Warnf("Failed to find patient: %+v", err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	if caller.Role != entity.RoleAdmin {
		therapist, err := u.therapistRepo.FindByUserID(ctx, caller.UserID)
		if err != nil {
			u.log.Warnf("Failed to find therapist: %+v", err)
			return nil, err
		}
		if therapist == nil || therapist.ID != req.TherapistID {
			return nil, ErrAppointmentForbidden
		}
	}
	if patient.AssignedTherapistID == nil || *patient.AssignedTherapistID != req.TherapistID {
		return nil, ErrPatientNotAssigned
	}

	duration := req.DurationMinutes
	if duration == 0 {
		duration = defaultAppointmentMinutes
	}

	appointment := &entity.Appointment{
		PatientID:       req.PatientID,
		TherapistID:     req.TherapistID,
		ScheduledAt:     req.ScheduledAt.UTC(),
		DurationMinutes: duration,
		Status:          entity.AppointmentStatusScheduled,
		Notes:           strings.TrimSpace(req.Notes),
	}
	if err := u.appointmentRepo.Create(ctx, appointment); err != nil {
		if isForeignKeyError(err, "therapist") {
			return nil, ErrTherapistNotFound
		}
		u.log.Warnf("Failed to create appointment: %+v", err)
		return nil, err
	}
	return converter.AppointmentToResponse(appointment), nil
}

func (u *appointmentUsecase) Cancel(ctx context.Context, caller Caller, id uuid.UUID) (*dto.AppointmentResponse, error) {
	return u.close(ctx, caller, id, entity.AppointmentStatusCancelled, true)
}

// Complete is not available to patients.
func (u *appointmentUsecase) Complete(ctx context.Context, caller Caller, id uuid.UUID) (*dto.AppointmentResponse, error) {
	return u.close(ctx, caller, id, entity.AppointmentStatusCompleted, false)
}

func (u *appointmentUsecase) close(ctx context.Context, caller Caller, id uuid.UUID, status string, patientAllowed bool) (*dto.AppointmentResponse, error) {
	appointment, err := u.appointmentRepo.FindByID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find appointment: %+v", err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}

	if err := u.authorize(ctx, caller, appointment, patientAllowed); err != nil {
		return nil, err
	}
	if appointment.Status != entity.AppointmentStatusScheduled {
		return nil, ErrAppointmentClosed
	}

	if err := u.appointmentRepo.Update(ctx, appointment.ID, map[string]interface{}{"status": status}); err != nil {
		u.log.Warnf("Failed to update appointment: %+v", err)
		return nil, err
	}
	appointment.Status = status
	return converter.AppointmentToResponse(appointment), nil
}

func (u *appointmentUsecase) authorize(ctx context.Context, caller Caller, appointment *entity.Appointment, patientAllowed bool) error {
	switch caller.Role {
	case entity.RoleAdmin:
		return nil
	case entity.RoleTherapist:
		therapist, err := u.therapistRepo.FindByUserID(ctx, caller.UserID)
		if err != nil {
			return err
		}
		if therapist != nil && therapist.ID == appointment.TherapistID {
			return nil
		}
	case entity.RolePatient:
		if !patientAllowed {
			break
		}
		patient, err := u.patientRepo.FindByUserID(ctx, caller.UserID)
		if err != nil {
			return err
		}
		if patient != nil && patient.ID == appointment.PatientID {
			return nil
		}
	}
	return ErrAppointmentForbidden
}
