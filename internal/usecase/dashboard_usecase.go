package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"therapist-crm/internal/converter"
	"therapist-crm/internal/delivery/dto"
	"therapist-crm/internal/domain/entity"
	"therapist-crm/internal/domain/repository"
	"therapist-crm/internal/domain/workflow"
	"therapist-crm/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc"
)

var (
	ErrTherapistNotFound    = errors.New("therapist not found")
	ErrPatientNotFound      = errors.New("patient not found")
	ErrTherapistUnavailable = errors.New("therapist is not available for matching")
)

var patientStatusMessages = map[string]string{
	entity.PatientStatusWaitingForMatch: "המטופל אושר לשיבוץ!",
	entity.PatientStatusMatched:         "המטופל שובץ!",
	entity.PatientStatusInTreatment:     "הטיפול החל!",
	entity.PatientStatusCompleted:       "הטיפול הסתיים בהצלחה!",
	entity.PatientStatusRejected:        "המטופל נדחה",
	entity.PatientStatusNew:             "המטופל שוחזר לבדיקה",
}

const (
	msgStatusUpdated           = "הסטטוס עודכן בהצלחה!"
	fallbackTherapistName      = "מטפל/ת"
	fallbackPatientName        = "מטופל/ת"
	fallbackSpecialization     = "מטפל/ת רגשי/ת"
	assignedPatientContactNote = "המטפל/ת ייצור/תיצור איתך קשר בקרוב לקביעת פגישה ראשונית."
)

type DashboardUsecase interface {
	Load(ctx context.Context, query dto.DashboardQuery) *dto.DashboardResponse
	ViewTherapist(ctx context.Context, id uuid.UUID) (*dto.TherapistResponse, error)
	ViewPatient(ctx context.Context, id uuid.UUID) (*dto.PatientResponse, error)
	AvailableTherapists(ctx context.Context) ([]dto.TherapistResponse, error)
	UpdateTherapistStatus(ctx context.Context, actorID uuid.UUID, id uuid.UUID, status string) (*dto.ActionResponse, error)
	ApproveTherapist(ctx context.Context, actorID uuid.UUID, id uuid.UUID) (*dto.ActionResponse, error)
	RejectTherapist(ctx context.Context, actorID uuid.UUID, id uuid.UUID) (*dto.ActionResponse, error)
	UpdatePatientStatus(ctx context.Context, actorID uuid.UUID, id uuid.UUID, status string) (*dto.ActionResponse, error)
	AssignTherapist(ctx context.Context, actorID uuid.UUID, patientID, therapistID uuid.UUID) (*dto.ActionResponse, error)
}

type dashboardUsecase struct {
	log           *logrus.Logger
	loader        *dashboardLoader
	therapistRepo repository.TherapistRepository
	patientRepo   repository.PatientRepository
	notifications service.NotificationService
	auditService  service.AuditService
	recovery      RecoveryLinkIssuer
	siteURL       string
	now           func() time.Time
}

func NewDashboardUsecase(
	log *logrus.Logger,
	therapistRepo repository.TherapistRepository,
	patientRepo repository.PatientRepository,
	leadRepo repository.LeadRepository,
	notifications service.NotificationService,
	auditService service.AuditService,
	recovery RecoveryLinkIssuer,
	siteURL string,
) DashboardUsecase {
	return &dashboardUsecase{
		log: log,
		loader: &dashboardLoader{
			log:           log,
			therapistRepo: therapistRepo,
			patientRepo:   patientRepo,
			leadRepo:      leadRepo,
		},
		therapistRepo: therapistRepo,
		patientRepo:   patientRepo,
		notifications: notifications,
		auditService:  auditService,
		recovery:      recovery,
		siteURL:       siteURL,
		now:           time.Now,
	}
}

func (u *dashboardUsecase) Load(ctx context.Context, query dto.DashboardQuery) *dto.DashboardResponse {
	view := u.loader.Load(ctx).View(query)
	return &view
}

// result reloads every collection after a write. The written row is never
// patched locally.
func (u *dashboardUsecase) result(ctx context.Context, message string) *dto.ActionResponse {
	return &dto.ActionResponse{
		Message:   message,
		Dashboard: u.loader.Load(ctx).View(dto.DashboardQuery{}),
	}
}

func (u *dashboardUsecase) findTherapist(ctx context.Context, id uuid.UUID) (*entity.Therapist, error) {
	therapist, err := u.therapistRepo.FindByID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find therapist: %+v", err)
		return nil, err
	}
	if therapist == nil {
		return nil, ErrTherapistNotFound
	}
	return therapist, nil
}

func (u *dashboardUsecase) findPatient(ctx context.Context, id uuid.UUID) (*entity.Patient, error) {
	patient, err := u.patientRepo.FindByID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find patient: %+v", err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}
	return patient, nil
}

func (u *dashboardUsecase) ViewTherapist(ctx context.Context, id uuid.UUID) (*dto.TherapistResponse, error) {
	therapist, err := u.findTherapist(ctx, id)
	if err != nil {
		return nil, err
	}
	return converter.TherapistToResponse(therapist), nil
}

func (u *dashboardUsecase) ViewPatient(ctx context.Context, id uuid.UUID) (*dto.PatientResponse, error) {
	patient, err := u.findPatient(ctx, id)
	if err != nil {
		return nil, err
	}
	return converter.PatientToResponse(patient), nil
}

func (u *dashboardUsecase) AvailableTherapists(ctx context.Context) ([]dto.TherapistResponse, error) {
	therapists, err := u.therapistRepo.FindAll(ctx, entity.TherapistFilter{
		Statuses: []string{entity.TherapistStatusActive, entity.TherapistStatusApproved},
	})
	if err != nil {
		u.log.Warnf("Failed to find available therapists: %+v", err)
		return nil, err
	}
	return converter.TherapistsToResponses(therapists), nil
}

// therapistStatusFields: only active therapists are listed and verified.
// A rejection also revokes verification, whichever endpoint applies it.
func therapistStatusFields(status string) map[string]interface{} {
	fields := map[string]interface{}{"status": status}
	switch status {
	case entity.TherapistStatusActive:
		fields["is_active"] = true
		fields["is_verified"] = true
	case entity.TherapistStatusRejected:
		fields["is_active"] = false
		fields["is_verified"] = false
	default:
		fields["is_active"] = false
	}
	return fields
}

func (u *dashboardUsecase) writeTherapist(ctx context.Context, actorID uuid.UUID, therapist *entity.Therapist, action string, fields map[string]interface{}) error {
	if err := u.therapistRepo.Update(ctx, therapist.ID, fields); err != nil {
		u.log.Warnf("Failed to update therapist status: %+v", err)
		return err
	}
	u.auditService.LogUpdate(ctx, &actorID, action, "therapist", therapist.ID.String(),
		map[string]interface{}{"status": therapist.Status}, fields)
	return nil
}

func (u *dashboardUsecase) UpdateTherapistStatus(ctx context.Context, actorID uuid.UUID, id uuid.UUID, status string) (*dto.ActionResponse, error) {
	therapist, err := u.findTherapist(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := workflow.Validate(workflow.KindTherapist, therapist.Status, status); err != nil {
		return nil, err
	}

	if err := u.writeTherapist(ctx, actorID, therapist, entity.AuditActionTherapistStatus, therapistStatusFields(status)); err != nil {
		return nil, err
	}
	return u.result(ctx, msgStatusUpdated), nil
}

func (u *dashboardUsecase) RejectTherapist(ctx context.Context, actorID uuid.UUID, id uuid.UUID) (*dto.ActionResponse, error) {
	therapist, err := u.findTherapist(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := workflow.ValidateAction(workflow.KindTherapist, workflow.ActionReject, therapist.Status, entity.TherapistStatusRejected); err != nil {
		return nil, err
	}

	fields := therapistStatusFields(entity.TherapistStatusRejected)
	if err := u.writeTherapist(ctx, actorID, therapist, entity.AuditActionTherapistReject, fields); err != nil {
		return nil, err
	}
	return u.result(ctx, "המטפל נדחה"), nil
}

// ApproveTherapist activates the therapist and emails a link for setting a
// password. The approval stands whether or not the email goes out.
func (u *dashboardUsecase) ApproveTherapist(ctx context.Context, actorID uuid.UUID, id uuid.UUID) (*dto.ActionResponse, error) {
	therapist, err := u.findTherapist(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := workflow.Validate(workflow.KindTherapist, therapist.Status, entity.TherapistStatusActive); err != nil {
		return nil, err
	}

	if err := u.writeTherapist(ctx, actorID, therapist, entity.AuditActionTherapistApprove, therapistStatusFields(entity.TherapistStatusActive)); err != nil {
		return nil, err
	}

	email := therapist.ContactEmail()
	if email == "" {
		return u.result(ctx, "המטפל אושר בהצלחה! (לא נמצא אימייל לשליחה)"), nil
	}

	loginURL := u.siteURL + "/" + PageLogin
	resetLink := loginURL + "?reset=true"
	if therapist.UserID != nil {
		link, err := u.recovery.IssueRecoveryLink(ctx, email)
		if err != nil {
			u.log.Warnf("Failed to issue recovery link: %+v", err)
		} else {
			resetLink = link
		}
	}

	sent := u.notifications.Notify(ctx, entity.NotificationTherapistApproved, email, map[string]interface{}{
		"recipientName":     firstNonEmpty(therapist.DisplayName(), fallbackTherapistName),
		"passwordResetLink": resetLink,
		"loginUrl":          loginURL,
	}, therapist.ID.String())

	if !sent {
		return u.result(ctx, "המטפל אושר, אך שליחת המייל נכשלה"), nil
	}
	return u.result(ctx, "המטפל אושר ונשלח מייל עם לינק סיסמה!"), nil
}

func (u *dashboardUsecase) UpdatePatientStatus(ctx context.Context, actorID uuid.UUID, id uuid.UUID, status string) (*dto.ActionResponse, error) {
	patient, err := u.findPatient(ctx, id)
	if err != nil {
		return nil, err
	}
	if status == entity.PatientStatusMatched {
		// Matching needs a therapist; it goes through AssignTherapist.
		return nil, &workflow.TransitionError{Kind: workflow.KindPatient, From: patient.Status, To: status}
	}
	if err := workflow.Validate(workflow.KindPatient, patient.Status, status); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{"status": status}
	if status == entity.PatientStatusRejected || status == entity.PatientStatusArchived {
		fields["assigned_therapist_id"] = nil
	}

	if err := u.patientRepo.Update(ctx, patient.ID, fields); err != nil {
		u.log.Warnf("Failed to update patient status: %+v", err)
		return nil, err
	}
	u.auditService.LogUpdate(ctx, &actorID, entity.AuditActionPatientStatus, "patient", patient.ID.String(),
		map[string]interface{}{"status": patient.Status, "assigned_therapist_id": patient.AssignedTherapistID}, fields)

	message, ok := patientStatusMessages[status]
	if !ok {
		message = msgStatusUpdated
	}
	return u.result(ctx, message), nil
}

// AssignTherapist commits the match first, then notifies both sides
// independently. NotificationsSent counts the deliveries (0, 1 or 2).
func (u *dashboardUsecase) AssignTherapist(ctx context.Context, actorID uuid.UUID, patientID, therapistID uuid.UUID) (*dto.ActionResponse, error) {
	patient, err := u.findPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	therapist, err := u.findTherapist(ctx, therapistID)
	if err != nil {
		return nil, err
	}
	if therapist.Status != entity.TherapistStatusActive && therapist.Status != entity.TherapistStatusApproved {
		return nil, ErrTherapistUnavailable
	}
	if err := workflow.ValidateAction(workflow.KindPatient, workflow.ActionAssign, patient.Status, entity.PatientStatusMatched); err != nil {
		return nil, err
	}

	matchedAt := u.now().UTC()
	fields := map[string]interface{}{
		"status":                entity.PatientStatusMatched,
		"assigned_therapist_id": therapist.ID,
		"matched_at":            matchedAt,
	}
	if err := u.patientRepo.Update(ctx, patient.ID, fields); err != nil {
		u.log.Warnf("Failed to assign therapist: %+v", err)
		return nil, err
	}
	u.auditService.LogUpdate(ctx, &actorID, entity.AuditActionPatientAssign, "patient", patient.ID.String(),
		map[string]interface{}{"status": patient.Status, "assigned_therapist_id": patient.AssignedTherapistID}, fields)

	sent := u.notifyAssignment(ctx, patient, therapist)

	var message string
	switch sent {
	case 2:
		message = "המטופל שובץ ונשלחו מיילים לשני הצדדים!"
	case 1:
		message = "המטופל שובץ, נשלח מייל אחד (חלק מהפרטים חסרים)"
	default:
		message = "המטופל שובץ בהצלחה! (לא נמצאו אימיילים לשליחה)"
	}

	res := u.result(ctx, message)
	res.NotificationsSent = &sent
	return res, nil
}

func (u *dashboardUsecase) notifyAssignment(ctx context.Context, patient *entity.Patient, therapist *entity.Therapist) int {
	patientName := firstNonEmpty(patient.DisplayName(), fallbackPatientName)
	therapistName := firstNonEmpty(therapist.DisplayName(), fallbackTherapistName)
	reference := patient.ID.String()

	var toTherapist, toPatient bool
	var wg conc.WaitGroup
	wg.Go(func() {
		email := therapist.ContactEmail()
		if email == "" {
			return
		}
		var patientEmail interface{}
		if e := patient.ContactEmail(); e != "" {
			patientEmail = e
		}
		toTherapist = u.notifications.Notify(ctx, entity.NotificationPatientAssignedTherapist, email, map[string]interface{}{
			"recipientName":   therapistName,
			"patientName":     patientName,
			"patientPhone":    firstNonEmpty(patient.ContactPhone(), notSpecified),
			"patientEmail":    patientEmail,
			"mainConcern":     firstNonEmpty(patient.MainConcern, notSpecified),
			"preferredGender": patient.PreferredTherapistGender,
			"availability":    []string(patient.Availability),
			"dashboardUrl":    u.siteURL + "/" + PageTherapistDashboard,
		}, reference)
	})
	wg.Go(func() {
		email := patient.ContactEmail()
		if email == "" {
			return
		}
		specialization := strings.Join(therapist.Specializations, ", ")
		toPatient = u.notifications.Notify(ctx, entity.NotificationPatientAssignedPatient, email, map[string]interface{}{
			"recipientName":           patientName,
			"therapistName":           therapistName,
			"therapistSpecialization": firstNonEmpty(specialization, fallbackSpecialization),
			"contactMessage":          assignedPatientContactNote,
		}, reference)
	})
	wg.Wait()

	sent := 0
	if toTherapist {
		sent++
	}
	if toPatient {
		sent++
	}
	return sent
}
