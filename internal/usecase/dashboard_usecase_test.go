package usecase

import (
	"context"
	"testing"
	"time"

	"therapist-crm/internal/delivery/dto"
	"therapist-crm/internal/domain/entity"
	"therapist-crm/internal/domain/workflow"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var matchTime = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

type dashboardFixture struct {
	usecase       *dashboardUsecase
	therapists    *memTherapists
	patients      *memPatients
	leads         *memLeads
	notifications *fakeNotifications
	audit         *fakeAudit
}

func newDashboardFixture() *dashboardFixture {
	f := &dashboardFixture{
		therapists:    &memTherapists{},
		patients:      &memPatients{},
		leads:         &memLeads{},
		notifications: &fakeNotifications{},
		audit:         &fakeAudit{},
	}
	f.usecase = NewDashboardUsecase(testLogger(), f.therapists, f.patients, f.leads, f.notifications, f.audit,
		fakeRecovery{link: "https://crm.example.com/reset-password.html?token=abc"}, "https://crm.example.com").(*dashboardUsecase)
	f.usecase.now = fixedClock(matchTime)
	return f
}

func (f *dashboardFixture) addTherapist(status, email string) entity.Therapist {
	t := entity.Therapist{ID: uuid.New(), FullName: "רון כהן", Email: email, Status: status,
		Specializations: []string{"CBT"}}
	f.therapists.items = append(f.therapists.items, t)
	return t
}

func (f *dashboardFixture) addPatient(status, email string) entity.Patient {
	p := entity.Patient{ID: uuid.New(), FullName: "נועה", Email: email, Phone: "0521111111", Status: status}
	f.patients.items = append(f.patients.items, p)
	return p
}

func TestAssignTherapist(t *testing.T) {
	f := newDashboardFixture()
	therapist := f.addTherapist(entity.TherapistStatusActive, "ron@example.com")
	patient := f.addPatient(entity.PatientStatusWaitingForMatch, "noa@example.com")
	actor := uuid.New()

	res, err := f.usecase.AssignTherapist(context.Background(), actor, patient.ID, therapist.ID)
	require.NoError(t, err)

	stored, _ := f.patients.FindByID(context.Background(), patient.ID)
	assert.Equal(t, entity.PatientStatusMatched, stored.Status)
	require.NotNil(t, stored.AssignedTherapistID)
	assert.Equal(t, therapist.ID, *stored.AssignedTherapistID)
	require.NotNil(t, stored.MatchedAt)
	assert.Equal(t, matchTime, *stored.MatchedAt)

	require.NotNil(t, res.NotificationsSent)
	assert.Equal(t, 2, *res.NotificationsSent)
	assert.Len(t, f.notifications.byType(entity.NotificationPatientAssignedTherapist), 1)
	assert.Len(t, f.notifications.byType(entity.NotificationPatientAssignedPatient), 1)
	assert.Equal(t, []string{entity.AuditActionPatientAssign}, f.audit.actions())

	// The returned dashboard is reloaded, not patched.
	require.Len(t, res.Dashboard.Patients, 1)
	assert.Equal(t, entity.PatientStatusMatched, res.Dashboard.Patients[0].Status.Code)
	assert.Equal(t, 1, res.Dashboard.Counts.PatientsMatched)
}

func TestAssignTherapistPartialNotification(t *testing.T) {
	f := newDashboardFixture()
	therapist := f.addTherapist(entity.TherapistStatusApproved, "ron@example.com")
	patient := f.addPatient(entity.PatientStatusIntake, "")

	res, err := f.usecase.AssignTherapist(context.Background(), uuid.New(), patient.ID, therapist.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, *res.NotificationsSent)

	sent := f.notifications.byType(entity.NotificationPatientAssignedTherapist)
	require.Len(t, sent, 1)
	assert.Nil(t, sent[0].Data["patientEmail"])
	assert.Equal(t, "0521111111", sent[0].Data["patientPhone"])
}

func TestAssignTherapistNotificationsDown(t *testing.T) {
	f := newDashboardFixture()
	f.notifications.down = true
	therapist := f.addTherapist(entity.TherapistStatusActive, "ron@example.com")
	patient := f.addPatient(entity.PatientStatusWaitingForMatch, "noa@example.com")

	res, err := f.usecase.AssignTherapist(context.Background(), uuid.New(), patient.ID, therapist.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, *res.NotificationsSent)

	stored, _ := f.patients.FindByID(context.Background(), patient.ID)
	assert.Equal(t, entity.PatientStatusMatched, stored.Status)
}

func TestAssignTherapistRejected(t *testing.T) {
	ctx := context.Background()

	t.Run("inactive therapist", func(t *testing.T) {
		f := newDashboardFixture()
		therapist := f.addTherapist(entity.TherapistStatusInactive, "ron@example.com")
		patient := f.addPatient(entity.PatientStatusWaitingForMatch, "noa@example.com")
		_, err := f.usecase.AssignTherapist(ctx, uuid.New(), patient.ID, therapist.ID)
		assert.ErrorIs(t, err, ErrTherapistUnavailable)
	})

	t.Run("patient not yet approved", func(t *testing.T) {
		f := newDashboardFixture()
		therapist := f.addTherapist(entity.TherapistStatusActive, "ron@example.com")
		patient := f.addPatient(entity.PatientStatusNew, "noa@example.com")
		_, err := f.usecase.AssignTherapist(ctx, uuid.New(), patient.ID, therapist.ID)
		assert.ErrorIs(t, err, workflow.ErrIllegalTransition)
		assert.Empty(t, f.notifications.sent)
	})

	t.Run("unknown patient", func(t *testing.T) {
		f := newDashboardFixture()
		therapist := f.addTherapist(entity.TherapistStatusActive, "ron@example.com")
		_, err := f.usecase.AssignTherapist(ctx, uuid.New(), uuid.New(), therapist.ID)
		assert.ErrorIs(t, err, ErrPatientNotFound)
	})
}

func TestUpdatePatientStatus(t *testing.T) {
	ctx := context.Background()
	f := newDashboardFixture()
	patient := f.addPatient(entity.PatientStatusNew, "noa@example.com")

	res, err := f.usecase.UpdatePatientStatus(ctx, uuid.New(), patient.ID, entity.PatientStatusWaitingForMatch)
	require.NoError(t, err)
	assert.Equal(t, patientStatusMessages[entity.PatientStatusWaitingForMatch], res.Message)

	_, err = f.usecase.UpdatePatientStatus(ctx, uuid.New(), patient.ID, entity.PatientStatusMatched)
	assert.ErrorIs(t, err, workflow.ErrIllegalTransition)

	_, err = f.usecase.UpdatePatientStatus(ctx, uuid.New(), patient.ID, entity.PatientStatusCompleted)
	assert.ErrorIs(t, err, workflow.ErrIllegalTransition)
}

func TestRejectPatientClearsAssignment(t *testing.T) {
	f := newDashboardFixture()
	tid := uuid.New()
	patient := f.addPatient(entity.PatientStatusNew, "")
	f.patients.items[0].AssignedTherapistID = &tid

	_, err := f.usecase.UpdatePatientStatus(context.Background(), uuid.New(), patient.ID, entity.PatientStatusRejected)
	require.NoError(t, err)

	stored, _ := f.patients.FindByID(context.Background(), patient.ID)
	assert.Equal(t, entity.PatientStatusRejected, stored.Status)
	assert.Nil(t, stored.AssignedTherapistID)
}

func TestApproveTherapist(t *testing.T) {
	ctx := context.Background()

	t.Run("from interview", func(t *testing.T) {
		f := newDashboardFixture()
		userID := uuid.New()
		therapist := f.addTherapist(entity.TherapistStatusPendingInterview, "ron@example.com")
		f.therapists.items[0].UserID = &userID

		res, err := f.usecase.ApproveTherapist(ctx, uuid.New(), therapist.ID)
		require.NoError(t, err)
		assert.Equal(t, "המטפל אושר ונשלח מייל עם לינק סיסמה!", res.Message)

		stored, _ := f.therapists.FindByID(ctx, therapist.ID)
		assert.Equal(t, entity.TherapistStatusActive, stored.Status)
		assert.True(t, stored.IsActive)
		assert.True(t, stored.IsVerified)

		sent := f.notifications.byType(entity.NotificationTherapistApproved)
		require.Len(t, sent, 1)
		assert.Equal(t, "https://crm.example.com/reset-password.html?token=abc", sent[0].Data["passwordResetLink"])
		assert.Equal(t, "https://crm.example.com/login.html", sent[0].Data["loginUrl"])
	})

	t.Run("without account falls back to login link", func(t *testing.T) {
		f := newDashboardFixture()
		therapist := f.addTherapist(entity.TherapistStatusPendingInterview, "ron@example.com")

		_, err := f.usecase.ApproveTherapist(ctx, uuid.New(), therapist.ID)
		require.NoError(t, err)
		sent := f.notifications.byType(entity.NotificationTherapistApproved)
		require.Len(t, sent, 1)
		assert.Equal(t, "https://crm.example.com/login.html?reset=true", sent[0].Data["passwordResetLink"])
	})

	t.Run("email failure keeps the approval", func(t *testing.T) {
		f := newDashboardFixture()
		f.notifications.down = true
		therapist := f.addTherapist(entity.TherapistStatusPendingInterview, "ron@example.com")

		res, err := f.usecase.ApproveTherapist(ctx, uuid.New(), therapist.ID)
		require.NoError(t, err)
		assert.Equal(t, "המטפל אושר, אך שליחת המייל נכשלה", res.Message)
		stored, _ := f.therapists.FindByID(ctx, therapist.ID)
		assert.Equal(t, entity.TherapistStatusActive, stored.Status)
	})

	t.Run("pending must be interviewed first", func(t *testing.T) {
		f := newDashboardFixture()
		therapist := f.addTherapist(entity.TherapistStatusPending, "ron@example.com")
		_, err := f.usecase.ApproveTherapist(ctx, uuid.New(), therapist.ID)
		assert.ErrorIs(t, err, workflow.ErrIllegalTransition)
	})
}

func TestPauseTherapistDeactivates(t *testing.T) {
	f := newDashboardFixture()
	therapist := f.addTherapist(entity.TherapistStatusActive, "")
	f.therapists.items[0].IsActive = true

	_, err := f.usecase.UpdateTherapistStatus(context.Background(), uuid.New(), therapist.ID, entity.TherapistStatusInactive)
	require.NoError(t, err)

	stored, _ := f.therapists.FindByID(context.Background(), therapist.ID)
	assert.Equal(t, entity.TherapistStatusInactive, stored.Status)
	assert.False(t, stored.IsActive)
}

func TestRejectThroughStatusUpdateRevokesVerification(t *testing.T) {
	f := newDashboardFixture()
	therapist := f.addTherapist(entity.TherapistStatusPendingInterview, "")
	f.therapists.items[0].IsVerified = true
	f.therapists.items[0].IsActive = true

	_, err := f.usecase.UpdateTherapistStatus(context.Background(), uuid.New(), therapist.ID, entity.TherapistStatusRejected)
	require.NoError(t, err)

	stored, _ := f.therapists.FindByID(context.Background(), therapist.ID)
	assert.Equal(t, entity.TherapistStatusRejected, stored.Status)
	assert.False(t, stored.IsActive)
	assert.False(t, stored.IsVerified)
}

func TestLoadReportsFailedCollection(t *testing.T) {
	f := newDashboardFixture()
	f.addTherapist(entity.TherapistStatusPending, "")
	f.leads.items = []entity.Lead{{ID: uuid.New(), Name: "אבי", Status: entity.LeadStatusNew}}
	f.patients.findErr = errDB

	res := f.usecase.Load(context.Background(), dto.DashboardQuery{})
	assert.Equal(t, []string{collectionPatients}, res.Errors)
	assert.Len(t, res.Therapists, 1)
	assert.Len(t, res.Leads, 1)
	assert.Empty(t, res.Patients)
	assert.Equal(t, 1, res.Counts.TherapistsPending)
}

func TestDashboardCounts(t *testing.T) {
	state := &DashboardState{
		Therapists: []entity.Therapist{
			{Status: entity.TherapistStatusPending},
			{Status: entity.TherapistStatusPending},
			{Status: entity.TherapistStatusPendingInterview},
			{Status: entity.TherapistStatusActive},
			{Status: entity.TherapistStatusRejected},
		},
		Patients: []entity.Patient{
			{Status: entity.PatientStatusWaitingForMatch},
			{Status: entity.PatientStatusMatched},
			{Status: entity.PatientStatusIntake},
			{Status: entity.PatientStatusNew},
		},
		Leads: []entity.Lead{
			{Status: entity.LeadStatusNew},
			{Status: entity.LeadStatusContacted},
			{Status: entity.LeadStatusConverted},
		},
	}

	c := state.Counts()
	assert.Equal(t, 2, c.TherapistsPending)
	assert.Equal(t, 1, c.TherapistsInterview)
	assert.Equal(t, 1, c.TherapistsActive)
	assert.Equal(t, 1, c.ActiveTherapists)
	assert.Equal(t, 1, c.TherapistsRejected)
	assert.Equal(t, 4, c.TotalPatients)
	assert.Equal(t, 1, c.PatientsWaitingForMatch)
	assert.Equal(t, 1, c.PendingMatches)
	assert.Equal(t, 1, c.PatientsMatched)
	assert.Equal(t, 1, c.PatientsIntake)
	assert.Equal(t, 2, c.LeadsNew)
	assert.Equal(t, 1, c.LeadsConverted)
}

func TestFiltersIntersect(t *testing.T) {
	patients := []entity.Patient{
		{FullName: "Noa Levi", Status: entity.PatientStatusWaitingForMatch},
		{FullName: "Noam Bar", Status: entity.PatientStatusNew},
		{FullName: "Dan Levi", Status: entity.PatientStatusWaitingForMatch, Email: "dan@example.com"},
	}

	got := FilterPatients(patients, "pending", "levi")
	require.Len(t, got, 2)
	assert.Equal(t, "Noa Levi", got[0].FullName)
	assert.Equal(t, "Dan Levi", got[1].FullName)

	got = FilterPatients(patients, "all", "NOA")
	assert.Len(t, got, 2)

	got = FilterPatients(patients, "", "DAN@")
	require.Len(t, got, 1)

	assert.Len(t, patients, 3)
}

func TestFilterLeadsSearchesMessage(t *testing.T) {
	leads := []entity.Lead{
		{Name: "אבי", Message: "מחפש טיפול זוגי", Status: entity.LeadStatusNew},
		{Name: "רות", Message: "חרדה", Status: entity.LeadStatusContacted},
	}
	assert.Len(t, FilterLeads(leads, "", "זוגי"), 1)
	assert.Len(t, FilterLeads(leads, entity.LeadStatusContacted, "זוגי"), 0)
}

func TestFilterTherapistsNewAlias(t *testing.T) {
	therapists := []entity.Therapist{
		{FullName: "A", Status: entity.TherapistStatusPending},
		{FullName: "B", Status: entity.TherapistStatusActive},
	}
	got := FilterTherapists(therapists, "new", "")
	require.Len(t, got, 1)
	assert.Equal(t, "A", got[0].FullName)
}
