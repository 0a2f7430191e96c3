package usecase

import (
	"context"
	"testing"

	"therapist-crm/internal/delivery/dto"
	"therapist-crm/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type appointmentFixture struct {
	usecase           AppointmentUsecase
	appointments      *memAppointments
	therapistUser     uuid.UUID
	otherTherapist    uuid.UUID
	patientUser       uuid.UUID
	therapistID       uuid.UUID
	patientID         uuid.UUID
	unassignedPatient uuid.UUID
}

func newAppointmentFixture() *appointmentFixture {
	f := &appointmentFixture{
		appointments:      &memAppointments{},
		therapistUser:     uuid.New(),
		otherTherapist:    uuid.New(),
		patientUser:       uuid.New(),
		therapistID:       uuid.New(),
		patientID:         uuid.New(),
		unassignedPatient: uuid.New(),
	}
	therapists := &memTherapists{items: []entity.Therapist{
		{ID: f.therapistID, UserID: &f.therapistUser, Status: entity.TherapistStatusActive},
		{ID: uuid.New(), UserID: &f.otherTherapist, Status: entity.TherapistStatusActive},
	}}
	patients := &memPatients{items: []entity.Patient{
		{ID: f.patientID, UserID: &f.patientUser, AssignedTherapistID: &f.therapistID, Status: entity.PatientStatusMatched},
		{ID: f.unassignedPatient, Status: entity.PatientStatusWaitingForMatch},
	}}
	f.usecase = NewAppointmentUsecase(testLogger(), f.appointments, therapists, patients)
	return f
}

func (f *appointmentFixture) request() *dto.AppointmentRequest {
	return &dto.AppointmentRequest{TherapistID: f.therapistID, PatientID: f.patientID, ScheduledAt: matchTime}
}

func TestCreateAppointment(t *testing.T) {
	ctx := context.Background()

	t.Run("assigned therapist", func(t *testing.T) {
		f := newAppointmentFixture()
		res, err := f.usecase.Create(ctx, Caller{UserID: f.therapistUser, Role: entity.RoleTherapist}, f.request())
		require.NoError(t, err)
		assert.Equal(t, entity.AppointmentStatusScheduled, res.Status)
		assert.Equal(t, defaultAppointmentMinutes, res.DurationMinutes)
		assert.Len(t, f.appointments.items, 1)
	})

	t.Run("another therapist", func(t *testing.T) {
		f := newAppointmentFixture()
		_, err := f.usecase.Create(ctx, Caller{UserID: f.otherTherapist, Role: entity.RoleTherapist}, f.request())
		assert.ErrorIs(t, err, ErrAppointmentForbidden)
	})

	t.Run("admin with unassigned patient", func(t *testing.T) {
		f := newAppointmentFixture()
		req := f.request()
		req.PatientID = f.unassignedPatient
		_, err := f.usecase.Create(ctx, Caller{UserID: uuid.New(), Role: entity.RoleAdmin}, req)
		assert.ErrorIs(t, err, ErrPatientNotAssigned)
	})
}

func TestCloseAppointment(t *testing.T) {
	ctx := context.Background()
	f := newAppointmentFixture()
	therapist := Caller{UserID: f.therapistUser, Role: entity.RoleTherapist}
	patient := Caller{UserID: f.patientUser, Role: entity.RolePatient}

	first, err := f.usecase.Create(ctx, therapist, f.request())
	require.NoError(t, err)
	second, err := f.usecase.Create(ctx, therapist, f.request())
	require.NoError(t, err)

	_, err = f.usecase.Complete(ctx, patient, first.ID)
	assert.ErrorIs(t, err, ErrAppointmentForbidden)

	res, err := f.usecase.Cancel(ctx, patient, first.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.AppointmentStatusCancelled, res.Status)

	_, err = f.usecase.Complete(ctx, therapist, first.ID)
	assert.ErrorIs(t, err, ErrAppointmentClosed)

	res, err = f.usecase.Complete(ctx, therapist, second.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.AppointmentStatusCompleted, res.Status)

	_, err = f.usecase.Cancel(ctx, Caller{UserID: f.otherTherapist, Role: entity.RoleTherapist}, second.ID)
	assert.ErrorIs(t, err, ErrAppointmentForbidden)

	_, err = f.usecase.Cancel(ctx, therapist, uuid.New())
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestCreateAppointmentTherapistRemoved(t *testing.T) {
	f := newAppointmentFixture()
	f.appointments.createErr = &pgconn.PgError{Code: "23503", ConstraintName: "appointments_therapist_id_fkey"}

	_, err := f.usecase.Create(context.Background(), Caller{UserID: uuid.New(), Role: entity.RoleAdmin}, f.request())
	assert.ErrorIs(t, err, ErrTherapistNotFound)
}
