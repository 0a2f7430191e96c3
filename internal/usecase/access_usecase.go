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
	"github.com/sirupsen/logrus"
)

// Navigation targets
const (
	PageHome               = "index.html"
	PageLegalGate          = "legal-gate.html"
	PageLandingPatient     = "landing-patient.html"
	PageLandingTherapist   = "landing-therapist.html"
	PageAdminDashboard     = "admin-dashboard.html"
	PageTherapistDashboard = "therapist-dashboard.html"
	PagePatientDashboard   = "patient-dashboard.html"
	PageLogin              = "login.html"
)

var publicPages = map[string]bool{
	"":                   true,
	PageHome:             true,
	PageLegalGate:        true,
	PageLandingPatient:   true,
	PageLandingTherapist: true,
}

var ErrConsentFailed = errors.New("failed to record legal consent")

// Identity is the authenticated caller as resolved by the auth middleware.
type Identity struct {
	UserID uuid.UUID
	Email  string
}

type AccessOptions struct {
	Page           string
	RequireAuth    bool
	RequireConsent bool
	RequiredRole   string
}

// DefaultAccessOptions requires sign-in and consent, no specific role.
func DefaultAccessOptions(page string) AccessOptions {
	return AccessOptions{Page: page, RequireAuth: true, RequireConsent: true}
}

// AccessDecision is the outcome of CheckAccess. A non-empty RedirectTo
// means access was denied and the caller should navigate there.
type AccessDecision struct {
	User       *dto.UserResponse
	Role       string
	HasConsent *bool
	RedirectTo string
}

func (d *AccessDecision) Allowed() bool {
	return d.RedirectTo == ""
}

type SignResult struct {
	Success       bool
	AlreadySigned bool
}

type AccessUsecase interface {
	GetCurrentUser(ctx context.Context, identity *Identity) *dto.UserResponse
	HasLegalConsent(ctx context.Context, userID uuid.UUID) bool
	GetUserRole(ctx context.Context, userID uuid.UUID) string
	IsAdmin(ctx context.Context, userID uuid.UUID) bool
	CheckAccess(ctx context.Context, identity *Identity, opts AccessOptions) *AccessDecision
	SignLegalAgreement(ctx context.Context, userID uuid.UUID, ip, userAgent string) (*SignResult, error)
	LegalVersion() string
	Terms() *service.LegalTerms
}

type accessUsecase struct {
	log          *logrus.Logger
	profileRepo  repository.ProfileRepository
	consentRepo  repository.LegalConsentRepository
	auditService service.AuditService
	terms        *service.LegalTerms
}

func NewAccessUsecase(
	log *logrus.Logger,
	profileRepo repository.ProfileRepository,
	consentRepo repository.LegalConsentRepository,
	auditService service.AuditService,
	terms *service.LegalTerms,
) AccessUsecase {
	return &accessUsecase{
		log:          log,
		profileRepo:  profileRepo,
		consentRepo:  consentRepo,
		auditService: auditService,
		terms:        terms,
	}
}

// RedirectForRole is the landing page of each role.
func RedirectForRole(role string) string {
	switch role {
	case entity.RoleAdmin:
		return PageAdminDashboard
	case entity.RoleTherapist:
		return PageTherapistDashboard
	case entity.RolePatient:
		return PagePatientDashboard
	default:
		return PageHome
	}
}

// IsPublicPage reports whether page skips every check. Only the file name
// of a path is considered.
func IsPublicPage(page string) bool {
	if i := strings.LastIndex(page, "/"); i >= 0 {
		page = page[i+1:]
	}
	return publicPages[page]
}

func (u *accessUsecase) LegalVersion() string {
	return u.terms.Version
}

func (u *accessUsecase) Terms() *service.LegalTerms {
	return u.terms
}

// GetCurrentUser never fails; lookup errors yield a minimal identity.
func (u *accessUsecase) GetCurrentUser(ctx context.Context, identity *Identity) *dto.UserResponse {
	if identity == nil {
		return nil
	}

	profile, err := u.profileRepo.FindByID(ctx, identity.UserID)
	if err != nil {
		u.log.Warnf("Failed to find profile: %+v", err)
	}
	if profile == nil {
		return &dto.UserResponse{ID: identity.UserID, Email: identity.Email, Role: entity.RoleStudent}
	}
	return converter.ProfileToResponse(profile)
}

// HasLegalConsent fails closed.
func (u *accessUsecase) HasLegalConsent(ctx context.Context, userID uuid.UUID) bool {
	consent, err := u.consentRepo.FindByUserAndVersion(ctx, userID, u.terms.Version)
	if err != nil {
		u.log.Warnf("Failed to check legal consent: %+v", err)
		return false
	}
	return consent != nil
}

func (u *accessUsecase) GetUserRole(ctx context.Context, userID uuid.UUID) string {
	profile, err := u.profileRepo.FindByID(ctx, userID)
	if err != nil {
		u.log.Warnf("Failed to get user role: %+v", err)
		return entity.RoleStudent
	}
	if profile == nil || profile.Role == "" {
		return entity.RoleStudent
	}
	return profile.Role
}

func (u *accessUsecase) IsAdmin(ctx context.Context, userID uuid.UUID) bool {
	return u.GetUserRole(ctx, userID) == entity.RoleAdmin
}

// CheckAccess applies, in order: public page, authentication, consent, role.
func (u *accessUsecase) CheckAccess(ctx context.Context, identity *Identity, opts AccessOptions) *AccessDecision {
	if IsPublicPage(opts.Page) {
		return &AccessDecision{User: u.GetCurrentUser(ctx, identity)}
	}

	if identity == nil {
		if opts.RequireAuth {
			return &AccessDecision{RedirectTo: PageHome}
		}
		return &AccessDecision{}
	}

	user := u.GetCurrentUser(ctx, identity)
	decision := &AccessDecision{User: user}

	if opts.RequireConsent {
		hasConsent := u.HasLegalConsent(ctx, identity.UserID)
		decision.HasConsent = &hasConsent
		if !hasConsent {
			decision.RedirectTo = PageLegalGate
			return decision
		}
	}

	decision.Role = u.GetUserRole(ctx, identity.UserID)
	if opts.RequiredRole != "" && decision.Role != opts.RequiredRole {
		decision.RedirectTo = RedirectForRole(decision.Role)
	}

	return decision
}

// SignLegalAgreement records consent to the current version. Signing the
// same version twice succeeds with AlreadySigned set.
func (u *accessUsecase) SignLegalAgreement(ctx context.Context, userID uuid.UUID, ip, userAgent string) (*SignResult, error) {
	if ip == "" {
		ip = entity.UnknownIP
	}

	consent := &entity.LegalConsent{
		UserID:        userID,
		AgreedVersion: u.terms.Version,
		IPAddress:     ip,
		UserAgent:     userAgent,
	}

	if err := u.consentRepo.Create(ctx, consent); err != nil {
		if isDuplicateKeyError(err, "legal_consents") {
			return &SignResult{Success: true, AlreadySigned: true}, nil
		}
		u.log.Warnf("Failed to create legal consent: %+v", err)
		return nil, ErrConsentFailed
	}

	u.auditService.LogCreate(ctx, &userID, entity.AuditActionConsentSign, "legal_consent", consent.ID.String(), map[string]interface{}{
		"version": consent.AgreedVersion,
		"ip":      consent.IPAddress,
	})

	return &SignResult{Success: true}, nil
}
