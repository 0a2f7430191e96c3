package usecase

import (
	"context"
	"testing"
	"time"

	"therapist-crm/internal/delivery/dto"
	"therapist-crm/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type intakeFixture struct {
	usecase       IntakeUsecase
	patients      *memPatients
	leads         *memLeads
	profiles      *memProfiles
	notifications *fakeNotifications
}

func newIntakeFixture(profiles ...*entity.Profile) *intakeFixture {
	f := &intakeFixture{
		patients:      &memPatients{},
		leads:         &memLeads{},
		profiles:      newMemProfiles(profiles...),
		notifications: &fakeNotifications{},
	}
	f.usecase = NewIntakeUsecase(testLogger(), f.patients, f.leads, f.profiles, f.notifications,
		"admin@example.com", 2*time.Second)
	return f
}

func validIntake() *dto.IntakeRequest {
	return &dto.IntakeRequest{
		FullName:          "דנה לוי",
		Phone:             "0501234567",
		Email:             "dana@example.com",
		City:              "תל אביב",
		MainConcern:       "חרדה ולחץ בעבודה בחודשים האחרונים",
		TherapyPreference: "evening",
		AgreementSigned:   true,
	}
}

func TestValidateIntake(t *testing.T) {
	tests := []struct {
		name          string
		mutate        func(*dto.IntakeRequest)
		authenticated bool
		wantFields    []string
	}{
		{"valid anonymous", func(r *dto.IntakeRequest) {}, false, nil},
		{"valid signed in", func(r *dto.IntakeRequest) {}, true, nil},
		{"short name", func(r *dto.IntakeRequest) { r.FullName = "ד" }, false, []string{"full_name"}},
		{"short phone", func(r *dto.IntakeRequest) { r.Phone = "050" }, false, []string{"phone"}},
		{"missing city", func(r *dto.IntakeRequest) { r.City = "" }, false, []string{"city"}},
		{"other city without name", func(r *dto.IntakeRequest) { r.City = "other" }, false, []string{"other_city"}},
		{"other city with name", func(r *dto.IntakeRequest) { r.City, r.OtherCity = "other", "מצפה רמון" }, false, nil},
		{"short concern is fine anonymously", func(r *dto.IntakeRequest) { r.MainConcern = "חרדה" }, false, nil},
		{"short concern rejected when signed in", func(r *dto.IntakeRequest) { r.MainConcern = "חרדה" }, true, []string{"main_concern"}},
		{"preference required when signed in", func(r *dto.IntakeRequest) { r.TherapyPreference = "" }, true, []string{"therapy_preference"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validIntake()
			tt.mutate(req)
			errs := ValidateIntake(req, tt.authenticated)
			if tt.wantFields == nil {
				assert.Nil(t, errs)
				return
			}
			require.NotNil(t, errs)
			for _, f := range tt.wantFields {
				assert.Contains(t, errs, f)
			}
			assert.Len(t, errs, len(tt.wantFields))
		})
	}
}

func TestSubmitAnonymousCreatesLeadOnly(t *testing.T) {
	f := newIntakeFixture()

	res, err := f.usecase.Submit(context.Background(), nil, validIntake())
	require.NoError(t, err)

	assert.Equal(t, IntakeStateDone, res.State)
	assert.Equal(t, IntakeKindLead, res.Kind)
	assert.Equal(t, PageHome, res.RedirectTo)
	assert.Equal(t, int64(2000), res.RedirectAfterMs)
	assert.True(t, res.NotificationSent)
	assert.Empty(t, f.patients.items)
	require.Len(t, f.leads.items, 1)
	assert.Equal(t, entity.LeadStatusNew, f.leads.items[0].Status)
	assert.Equal(t, *res.ID, f.leads.items[0].ID)

	alerts := f.notifications.byType(entity.NotificationNewPatientAdminAlert)
	require.Len(t, alerts, 1)
	assert.Equal(t, "admin@example.com", alerts[0].To)
}

func TestSubmitSignedInCreatesPatientOnly(t *testing.T) {
	userID := uuid.New()
	f := newIntakeFixture(&entity.Profile{ID: userID, Email: "dana@example.com", Role: entity.RoleStudentLead})

	req := validIntake()
	req.Email = ""
	req.City, req.OtherCity = "other", "מצפה רמון"

	res, err := f.usecase.Submit(context.Background(), &Identity{UserID: userID, Email: "dana@example.com"}, req)
	require.NoError(t, err)

	assert.Equal(t, IntakeKindPatient, res.Kind)
	assert.Equal(t, PagePatientDashboard, res.RedirectTo)
	assert.Empty(t, f.leads.items)
	require.Len(t, f.patients.items, 1)

	p := f.patients.items[0]
	assert.Equal(t, entity.PatientStatusNew, p.Status)
	assert.Equal(t, "dana@example.com", p.Email)
	assert.Equal(t, "מצפה רמון", p.City)
	assert.Equal(t, p.City, p.Occupation)
	assert.Equal(t, genderAny, p.PreferredTherapistGender)
	assert.Equal(t, entity.RolePatient, f.profiles.items[userID].Role)
}

func TestSubmitSignedInTwice(t *testing.T) {
	userID := uuid.New()
	f := newIntakeFixture()
	f.patients.items = []entity.Patient{{ID: uuid.New(), UserID: &userID, Status: entity.PatientStatusNew}}

	res, err := f.usecase.Submit(context.Background(), &Identity{UserID: userID}, validIntake())
	assert.ErrorIs(t, err, ErrAlreadyRegistered)
	assert.Equal(t, PagePatientDashboard, res.RedirectTo)
	assert.Len(t, f.patients.items, 1)
}

func TestSubmitValidationWritesNothing(t *testing.T) {
	f := newIntakeFixture()
	req := validIntake()
	req.Phone = ""

	res, err := f.usecase.Submit(context.Background(), nil, req)
	var fieldErrs FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Contains(t, fieldErrs, "phone")
	assert.Equal(t, IntakeStateFailed, res.State)
	assert.Empty(t, f.leads.items)
	assert.Empty(t, f.notifications.sent)
}

func TestSubmitStoreFailure(t *testing.T) {
	f := newIntakeFixture()
	f.leads.createErr = errDB

	res, err := f.usecase.Submit(context.Background(), nil, validIntake())
	assert.ErrorIs(t, err, ErrIntakeFailed)
	assert.Equal(t, IntakeStateFailed, res.State)
	assert.Empty(t, f.notifications.sent)
}

func TestSubmitNotificationFailureStillSucceeds(t *testing.T) {
	f := newIntakeFixture()
	f.notifications.down = true

	res, err := f.usecase.Submit(context.Background(), nil, validIntake())
	require.NoError(t, err)
	assert.Equal(t, IntakeStateDone, res.State)
	assert.False(t, res.NotificationSent)
	assert.Len(t, f.leads.items, 1)
}
