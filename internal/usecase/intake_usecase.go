package usecase

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"therapist-crm/internal/converter"
	"therapist-crm/internal/delivery/dto"
	"therapist-crm/internal/domain/entity"
	"therapist-crm/internal/domain/repository"
	"therapist-crm/internal/service"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

// Intake states
const (
	IntakeStateIdle       = "idle"
	IntakeStateValidating = "validating"
	IntakeStateSubmitting = "submitting"
	IntakeStateDone       = "done"
	IntakeStateFailed     = "failed"
)

// Intake result kinds
const (
	IntakeKindPatient = "patient"
	IntakeKindLead    = "lead"
)

const (
	cityOther    = "other"
	genderAny    = "any"
	notSpecified = "לא צוין"
)

var (
	ErrAlreadyRegistered = errors.New("patient already registered")
	ErrIntakeFailed      = errors.New("failed to save intake")
)

type IntakeUsecase interface {
	Submit(ctx context.Context, identity *Identity, req *dto.IntakeRequest) (*dto.IntakeResponse, error)
	SubmitContact(ctx context.Context, req *dto.ContactRequest) (*dto.LeadResponse, error)
}

type intakeUsecase struct {
	log           *logrus.Logger
	patientRepo   repository.PatientRepository
	leadRepo      repository.LeadRepository
	profileRepo   repository.ProfileRepository
	notifications service.NotificationService
	adminEmail    string
	redirectDelay time.Duration
}

func NewIntakeUsecase(
	log *logrus.Logger,
	patientRepo repository.PatientRepository,
	leadRepo repository.LeadRepository,
	profileRepo repository.ProfileRepository,
	notifications service.NotificationService,
	adminEmail string,
	redirectDelay time.Duration,
) IntakeUsecase {
	return &intakeUsecase{
		log:           log,
		patientRepo:   patientRepo,
		leadRepo:      leadRepo,
		profileRepo:   profileRepo,
		notifications: notifications,
		adminEmail:    adminEmail,
		redirectDelay: redirectDelay,
	}
}

// ValidateIntake checks the form before anything is written. The signed-in
// questionnaire is stricter than the anonymous lead form.
func ValidateIntake(req *dto.IntakeRequest, authenticated bool) FieldErrors {
	errs := FieldErrors{}

	if utf8.RuneCountInString(strings.TrimSpace(req.FullName)) < 2 {
		errs["full_name"] = "אנא הזינו שם מלא"
	}
	if utf8.RuneCountInString(strings.TrimSpace(req.Phone)) < 9 {
		errs["phone"] = "אנא הזינו מספר טלפון תקין"
	}
	if resolveCity(req) == "" {
		if strings.TrimSpace(req.City) == cityOther {
			errs["other_city"] = "אנא הזינו עיר מגורים"
		} else {
			errs["city"] = "אנא בחרו עיר מגורים"
		}
	}

	concern := utf8.RuneCountInString(strings.TrimSpace(req.MainConcern))
	if concern == 0 || (authenticated && concern < 10) {
		errs["main_concern"] = "אנא תארו בקצרה במה נוכל לעזור"
	}
	if authenticated && strings.TrimSpace(req.TherapyPreference) == "" {
		errs["therapy_preference"] = "אנא בחרו העדפת טיפול"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func resolveCity(req *dto.IntakeRequest) string {
	city := strings.TrimSpace(req.City)
	if city == cityOther {
		return strings.TrimSpace(req.OtherCity)
	}
	return city
}

// Submit writes exactly one record: a Patient for a signed-in caller, a Lead
// otherwise. Profile updates and the admin alert are best effort.
func (u *intakeUsecase) Submit(ctx context.Context, identity *Identity, req *dto.IntakeRequest) (*dto.IntakeResponse, error) {
	res := &dto.IntakeResponse{
		State:           IntakeStateValidating,
		RedirectAfterMs: u.redirectDelay.Milliseconds(),
	}

	if errs := ValidateIntake(req, identity != nil); errs != nil {
		res.State = IntakeStateFailed
		return res, errs
	}

	res.State = IntakeStateSubmitting
	var err error
	if identity != nil {
		err = u.submitPatient(ctx, identity, req, res)
	} else {
		err = u.submitLead(ctx, req, res)
	}
	if err != nil {
		res.State = IntakeStateFailed
		return res, err
	}

	res.NotificationSent = u.notifications.Notify(ctx, entity.NotificationNewPatientAdminAlert, u.adminEmail, map[string]interface{}{
		"name":    strings.TrimSpace(req.FullName),
		"phone":   strings.TrimSpace(req.Phone),
		"city":    resolveCity(req),
		"kind":    res.Kind,
		"message": strings.TrimSpace(req.MainConcern),
	}, res.ID.String())

	res.State = IntakeStateDone
	return res, nil
}

func (u *intakeUsecase) submitPatient(ctx context.Context, identity *Identity, req *dto.IntakeRequest, res *dto.IntakeResponse) error {
	res.Kind = IntakeKindPatient

	existing, err := u.patientRepo.FindByUserID(ctx, identity.UserID)
	if err != nil {
		u.log.Warnf("Failed to check existing patient: %+v", err)
	}
	if existing != nil {
		res.RedirectTo = PagePatientDashboard
		return ErrAlreadyRegistered
	}

	gender := strings.TrimSpace(req.PreferredGender)
	if gender == "" {
		gender = genderAny
	}

	city := resolveCity(req)
	userID := identity.UserID
	patient := &entity.Patient{
		UserID:                   &userID,
		FullName:                 strings.TrimSpace(req.FullName),
		Email:                    firstNonEmpty(strings.TrimSpace(req.Email), identity.Email),
		Phone:                    strings.TrimSpace(req.Phone),
		City:                     city,
		Occupation:               city,
		MainConcern:              strings.TrimSpace(req.MainConcern),
		PreferredTherapistGender: gender,
		Availability:             pq.StringArray{strings.TrimSpace(req.TherapyPreference)},
		Identifier:               strings.TrimSpace(req.Identifier),
		Status:                   entity.PatientStatusNew,
		Source:                   entity.PatientSourceIntake,
		AgreementSigned:          true,
		IntakeCompleted:          true,
	}

	if err := u.patientRepo.Create(ctx, patient); err != nil {
		u.log.Warnf("Failed to create patient: %+v", err)
		return ErrIntakeFailed
	}
	res.ID = &patient.ID
	res.RedirectTo = PagePatientDashboard

	if err := u.profileRepo.Update(ctx, userID, map[string]interface{}{"role": entity.RolePatient}); err != nil {
		u.log.Warnf("Failed to update profile role: %+v", err)
	}
	if err := u.profileRepo.Update(ctx, userID, map[string]interface{}{
		"full_name": patient.FullName,
		"phone":     patient.Phone,
	}); err != nil {
		u.log.Warnf("Failed to update profile details: %+v", err)
	}
	return nil
}

func (u *intakeUsecase) submitLead(ctx context.Context, req *dto.IntakeRequest, res *dto.IntakeResponse) error {
	res.Kind = IntakeKindLead

	lead := &entity.Lead{
		Name:    strings.TrimSpace(req.FullName),
		Phone:   strings.TrimSpace(req.Phone),
		Email:   strings.TrimSpace(req.Email),
		City:    resolveCity(req),
		Message: strings.TrimSpace(req.MainConcern),
		Status:  entity.LeadStatusNew,
	}

	if err := u.leadRepo.Create(ctx, lead); err != nil {
		u.log.Warnf("Failed to create lead: %+v", err)
		return ErrIntakeFailed
	}
	res.ID = &lead.ID
	res.RedirectTo = PageHome
	return nil
}

// SubmitContact stores a plain contact request.
func (u *intakeUsecase) SubmitContact(ctx context.Context, req *dto.ContactRequest) (*dto.LeadResponse, error) {
	lead := &entity.Lead{
		Name:    strings.TrimSpace(req.Name),
		Phone:   strings.TrimSpace(req.Phone),
		Email:   strings.TrimSpace(req.Email),
		City:    strings.TrimSpace(req.City),
		Message: strings.TrimSpace(req.Message),
		Status:  entity.LeadStatusNew,
	}

	if err := u.leadRepo.Create(ctx, lead); err != nil {
		u.log.Warnf("Failed to create contact request: %+v", err)
		return nil, err
	}

	u.notifications.Notify(ctx, entity.NotificationNewPatientAdminAlert, u.adminEmail, map[string]interface{}{
		"name":    lead.Name,
		"phone":   lead.Phone,
		"city":    lead.City,
		"kind":    IntakeKindLead,
		"message": lead.Message,
	}, lead.ID.String())

	return converter.LeadToResponse(lead), nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
