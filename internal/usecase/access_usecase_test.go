package usecase

import (
	"context"
	"testing"

	"therapist-crm/internal/domain/entity"
	"therapist-crm/internal/service"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const termsVersion = "2.0"

func newAccessFixture(profiles ...*entity.Profile) (*accessUsecase, *memConsents, *fakeAudit) {
	consents := &memConsents{}
	audit := &fakeAudit{}
	u := NewAccessUsecase(testLogger(), newMemProfiles(profiles...), consents, audit,
		&service.LegalTerms{Version: termsVersion}).(*accessUsecase)
	return u, consents, audit
}

func TestRedirectForRole(t *testing.T) {
	tests := []struct {
		role string
		want string
	}{
		{entity.RoleAdmin, PageAdminDashboard},
		{entity.RoleTherapist, PageTherapistDashboard},
		{entity.RolePatient, PagePatientDashboard},
		{entity.RoleStudentLead, PageHome},
		{"", PageHome},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RedirectForRole(tt.role), tt.role)
	}
}

func TestIsPublicPage(t *testing.T) {
	assert.True(t, IsPublicPage(""))
	assert.True(t, IsPublicPage("/pages/landing-patient.html"))
	assert.True(t, IsPublicPage(PageLegalGate))
	assert.False(t, IsPublicPage("/admin-dashboard.html"))
	assert.False(t, IsPublicPage(PageLogin))
}

func TestCheckAccess(t *testing.T) {
	adminID := uuid.New()
	patientID := uuid.New()
	newcomerID := uuid.New()

	u, consents, _ := newAccessFixture(
		&entity.Profile{ID: adminID, Email: "admin@example.com", Role: entity.RoleAdmin},
		&entity.Profile{ID: patientID, Email: "p@example.com", Role: entity.RolePatient},
		&entity.Profile{ID: newcomerID, Email: "n@example.com", Role: entity.RolePatient},
	)
	consents.items = []entity.LegalConsent{
		{UserID: adminID, AgreedVersion: termsVersion},
		{UserID: patientID, AgreedVersion: termsVersion},
		{UserID: newcomerID, AgreedVersion: "1.0"},
	}
	ctx := context.Background()
	adminOnly := DefaultAccessOptions(PageAdminDashboard)
	adminOnly.RequiredRole = entity.RoleAdmin

	t.Run("public page skips every check", func(t *testing.T) {
		d := u.CheckAccess(ctx, nil, adminOnlyOn(PageLandingPatient))
		assert.True(t, d.Allowed())
		assert.Nil(t, d.User)
	})

	t.Run("anonymous caller goes home", func(t *testing.T) {
		d := u.CheckAccess(ctx, nil, adminOnly)
		assert.Equal(t, PageHome, d.RedirectTo)
	})

	t.Run("anonymous caller allowed when auth optional", func(t *testing.T) {
		d := u.CheckAccess(ctx, nil, AccessOptions{Page: "courses.html"})
		assert.True(t, d.Allowed())
	})

	t.Run("consent for an older version is not consent", func(t *testing.T) {
		d := u.CheckAccess(ctx, &Identity{UserID: newcomerID}, adminOnly)
		assert.Equal(t, PageLegalGate, d.RedirectTo)
		require.NotNil(t, d.HasConsent)
		assert.False(t, *d.HasConsent)
	})

	t.Run("wrong role lands on own dashboard", func(t *testing.T) {
		d := u.CheckAccess(ctx, &Identity{UserID: patientID}, adminOnly)
		assert.Equal(t, PagePatientDashboard, d.RedirectTo)
		assert.Equal(t, entity.RolePatient, d.Role)
	})

	t.Run("admin allowed", func(t *testing.T) {
		d := u.CheckAccess(ctx, &Identity{UserID: adminID}, adminOnly)
		assert.True(t, d.Allowed())
		assert.Equal(t, entity.RoleAdmin, d.Role)
		assert.Equal(t, "admin@example.com", d.User.Email)
	})
}

func adminOnlyOn(page string) AccessOptions {
	opts := DefaultAccessOptions(page)
	opts.RequiredRole = entity.RoleAdmin
	return opts
}

func TestGetUserRoleFallsBackToStudent(t *testing.T) {
	u, _, _ := newAccessFixture()
	ctx := context.Background()

	assert.Equal(t, entity.RoleStudent, u.GetUserRole(ctx, uuid.New()))

	u.profileRepo.(*memProfiles).findErr = errDB
	assert.Equal(t, entity.RoleStudent, u.GetUserRole(ctx, uuid.New()))
	assert.False(t, u.IsAdmin(ctx, uuid.New()))
}

func TestGetCurrentUserWithoutProfile(t *testing.T) {
	u, _, _ := newAccessFixture()
	id := uuid.New()

	user := u.GetCurrentUser(context.Background(), &Identity{UserID: id, Email: "x@example.com"})
	require.NotNil(t, user)
	assert.Equal(t, id, user.ID)
	assert.Equal(t, entity.RoleStudent, user.Role)
	assert.Nil(t, u.GetCurrentUser(context.Background(), nil))
}

func TestSignLegalAgreement(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("records consent", func(t *testing.T) {
		u, consents, audit := newAccessFixture()
		res, err := u.SignLegalAgreement(ctx, userID, "", "curl/8")
		require.NoError(t, err)
		assert.True(t, res.Success)
		assert.False(t, res.AlreadySigned)
		require.Len(t, consents.items, 1)
		assert.Equal(t, entity.UnknownIP, consents.items[0].IPAddress)
		assert.Equal(t, termsVersion, consents.items[0].AgreedVersion)
		assert.Equal(t, []string{entity.AuditActionConsentSign}, audit.actions())
		assert.True(t, u.HasLegalConsent(ctx, userID))
	})

	t.Run("duplicate is idempotent", func(t *testing.T) {
		u, consents, audit := newAccessFixture()
		consents.createErr = &pgconn.PgError{Code: "23505", ConstraintName: "legal_consents_user_version_key"}
		res, err := u.SignLegalAgreement(ctx, userID, "10.0.0.1", "")
		require.NoError(t, err)
		assert.True(t, res.Success)
		assert.True(t, res.AlreadySigned)
		assert.Empty(t, audit.actions())
	})

	t.Run("other failures are reported", func(t *testing.T) {
		u, consents, _ := newAccessFixture()
		consents.createErr = errDB
		_, err := u.SignLegalAgreement(ctx, userID, "10.0.0.1", "")
		assert.ErrorIs(t, err, ErrConsentFailed)
	})
}
