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
)

var (
	ErrLeadNotFound         = errors.New("lead not found")
	ErrLeadAlreadyConverted = errors.New("lead already converted")
	ErrConvertMissingFields = errors.New("name and phone are required")
)

type LeadUsecase interface {
	ConvertLead(ctx context.Context, actorID uuid.UUID, leadID uuid.UUID, req *dto.ConvertLeadRequest) (*dto.ConvertLeadResponse, error)
	MarkContacted(ctx context.Context, actorID uuid.UUID, leadID uuid.UUID) (*dto.ActionResponse, error)
	DeleteLead(ctx context.Context, actorID uuid.UUID, leadID uuid.UUID) (*dto.ActionResponse, error)
}

type leadUsecase struct {
	log          *logrus.Logger
	loader       *dashboardLoader
	leadRepo     repository.LeadRepository
	patientRepo  repository.PatientRepository
	auditService service.AuditService
	now          func() time.Time
}

func NewLeadUsecase(
	log *logrus.Logger,
	therapistRepo repository.TherapistRepository,
	patientRepo repository.PatientRepository,
	leadRepo repository.LeadRepository,
	auditService service.AuditService,
) LeadUsecase {
	return &leadUsecase{
		log: log,
		loader: &dashboardLoader{
			log:           log,
			therapistRepo: therapistRepo,
			patientRepo:   patientRepo,
			leadRepo:      leadRepo,
		},
		leadRepo:     leadRepo,
		patientRepo:  patientRepo,
		auditService: auditService,
		now:          time.Now,
	}
}

func (u *leadUsecase) findLead(ctx context.Context, id uuid.UUID) (*entity.Lead, error) {
	lead, err := u.leadRepo.FindByID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find lead: %+v", err)
		return nil, err
	}
	if lead == nil {
		return nil, ErrLeadNotFound
	}
	return lead, nil
}

// ConvertLead creates the patient, then marks the lead converted. The patient
// stays even if the lead update fails.
func (u *leadUsecase) ConvertLead(ctx context.Context, actorID uuid.UUID, leadID uuid.UUID, req *dto.ConvertLeadRequest) (*dto.ConvertLeadResponse, error) {
	lead, err := u.findLead(ctx, leadID)
	if err != nil {
		return nil, err
	}
	if lead.Status == entity.LeadStatusConverted || lead.ConvertedToPatientID != nil {
		return nil, ErrLeadAlreadyConverted
	}
	if err := workflow.ValidateAction(workflow.KindLead, workflow.ActionConvert, lead.Status, entity.LeadStatusConverted); err != nil {
		return nil, err
	}

	name := firstNonEmpty(strings.TrimSpace(req.FullName), lead.Name)
	phone := firstNonEmpty(strings.TrimSpace(req.Phone), lead.Phone)
	if name == "" || phone == "" {
		return nil, ErrConvertMissingFields
	}

	leadRef := lead.ID
	patient := &entity.Patient{
		FullName:            name,
		Phone:               phone,
		Email:               firstNonEmpty(strings.TrimSpace(req.Email), lead.Email),
		Identifier:          strings.TrimSpace(req.Identifier),
		City:                firstNonEmpty(strings.TrimSpace(req.City), lead.City),
		MainConcern:         firstNonEmpty(strings.TrimSpace(req.MainConcern), lead.Message),
		Status:              entity.PatientStatusWaitingForMatch,
		Source:              entity.PatientSourceLeadConversion,
		ConvertedFromLeadID: &leadRef,
	}
	if err := u.patientRepo.Create(ctx, patient); err != nil {
		u.log.Warnf("Failed to create patient from lead: %+v", err)
		return nil, err
	}

	convertedAt := u.now().UTC()
	if err := u.leadRepo.Update(ctx, lead.ID, map[string]interface{}{
		"status":                  entity.LeadStatusConverted,
		"converted_to_patient_id": patient.ID,
		"converted_at":            convertedAt,
	}); err != nil {
		u.log.Warnf("Failed to update lead status: %+v", err)
	} else {
		lead.Status = entity.LeadStatusConverted
		lead.ConvertedToPatientID = &patient.ID
		lead.ConvertedAt = &convertedAt
	}

	u.auditService.LogCreate(ctx, &actorID, entity.AuditActionLeadConvert, "lead", lead.ID.String(), map[string]interface{}{
		"patient_id": patient.ID,
	})

	return &dto.ConvertLeadResponse{
		Lead:    *converter.LeadToResponse(lead),
		Patient: *converter.PatientToResponse(patient),
	}, nil
}

func (u *leadUsecase) MarkContacted(ctx context.Context, actorID uuid.UUID, leadID uuid.UUID) (*dto.ActionResponse, error) {
	lead, err := u.findLead(ctx, leadID)
	if err != nil {
		return nil, err
	}
	if err := workflow.ValidateAction(workflow.KindLead, workflow.ActionContacted, lead.Status, entity.LeadStatusContacted); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{"status": entity.LeadStatusContacted}
	if err := u.leadRepo.Update(ctx, lead.ID, fields); err != nil {
		u.log.Warnf("Failed to update lead status: %+v", err)
		return nil, err
	}
	u.auditService.LogUpdate(ctx, &actorID, entity.AuditActionLeadContacted, "lead", lead.ID.String(),
		map[string]interface{}{"status": lead.Status}, fields)

	return &dto.ActionResponse{
		Message:   msgStatusUpdated,
		Dashboard: u.loader.Load(ctx).View(dto.DashboardQuery{}),
	}, nil
}

// DeleteLead is offered only while the lead is not converted.
func (u *leadUsecase) DeleteLead(ctx context.Context, actorID uuid.UUID, leadID uuid.UUID) (*dto.ActionResponse, error) {
	lead, err := u.findLead(ctx, leadID)
	if err != nil {
		return nil, err
	}
	if lead.Status == entity.LeadStatusConverted {
		return nil, ErrLeadAlreadyConverted
	}

	if err := u.leadRepo.Delete(ctx, lead.ID); err != nil {
		u.log.Warnf("Failed to delete lead: %+v", err)
		return nil, err
	}
	u.auditService.LogDelete(ctx, &actorID, entity.AuditActionLeadDelete, "lead", lead.ID.String(), converter.LeadToResponse(lead))

	return &dto.ActionResponse{
		Message:   "הליד נמחק",
		Dashboard: u.loader.Load(ctx).View(dto.DashboardQuery{}),
	}, nil
}
