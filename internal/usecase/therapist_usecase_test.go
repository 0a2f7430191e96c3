package usecase

import (
	"context"
	"testing"

	"therapist-crm/internal/delivery/dto"
	"therapist-crm/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTherapistFixture(profiles *memProfiles, therapists *memTherapists) (TherapistUsecase, *fakeAudit) {
	audit := &fakeAudit{}
	uc := NewTherapistUsecase(testLogger(), therapists, profiles, &memReviews{}, &memAppointments{}, audit)
	return uc, audit
}

func TestRegisterTherapistApplication(t *testing.T) {
	userID := uuid.New()
	profiles := newMemProfiles(&entity.Profile{ID: userID, Email: "rina@example.com", Role: entity.RoleStudentLead})
	therapists := &memTherapists{}
	uc, audit := newTherapistFixture(profiles, therapists)
	identity := &Identity{UserID: userID, Email: "rina@example.com"}

	res, err := uc.Register(context.Background(), identity, &dto.RegisterTherapistRequest{
		FullName:        " רינה לוי ",
		Phone:           "050-1234567",
		City:            "חיפה",
		Specializations: []string{"CBT", " ", "זוגי"},
		ExperienceYears: 7,
	})
	require.NoError(t, err)

	assert.Equal(t, "רינה לוי", res.FullName)
	assert.Equal(t, "rina@example.com", res.Email)
	assert.Equal(t, []string{"CBT", "זוגי"}, res.Specializations)
	assert.Equal(t, entity.TherapistStatusPending, res.Status.Code)
	assert.Equal(t, entity.RoleTherapist, profiles.items[userID].Role)
	assert.Contains(t, audit.actions(), entity.AuditActionTherapistRegister)

	_, err = uc.Register(context.Background(), identity, &dto.RegisterTherapistRequest{FullName: "again"})
	assert.ErrorIs(t, err, ErrTherapistAlreadyRegistered)
	assert.Len(t, therapists.items, 1)
}

func TestTherapistDirectoryHidesInactive(t *testing.T) {
	active := entity.Therapist{ID: uuid.New(), FullName: "פעיל", IsActive: true, Status: entity.TherapistStatusActive}
	hidden := entity.Therapist{ID: uuid.New(), FullName: "ממתין", Status: entity.TherapistStatusPending}
	uc, _ := newTherapistFixture(newMemProfiles(), &memTherapists{items: []entity.Therapist{active, hidden}})
	ctx := context.Background()

	list, err := uc.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, active.ID, list[0].ID)

	_, err = uc.GetByID(ctx, hidden.ID)
	assert.ErrorIs(t, err, ErrTherapistNotFound)

	_, err = uc.GetCurrent(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrTherapistNotFound)
}
