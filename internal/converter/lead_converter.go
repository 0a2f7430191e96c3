package converter

import (
	"therapist-crm/internal/delivery/dto"
	"therapist-crm/internal/domain/entity"
	"therapist-crm/internal/domain/workflow"
)

func LeadToResponse(l *entity.Lead) *dto.LeadResponse {
	if l == nil {
		return nil
	}

	return &dto.LeadResponse{
		ID:                   l.ID,
		Name:                 l.Name,
		Phone:                l.Phone,
		Email:                l.Email,
		City:                 l.City,
		Message:              l.Message,
		ConvertedToPatientID: l.ConvertedToPatientID,
		ConvertedAt:          l.ConvertedAt,
		Status:               workflow.Describe(workflow.KindLead, l.Status),
		CreatedAt:            l.CreatedAt,
	}
}

func LeadsToResponses(leads []entity.Lead) []dto.LeadResponse {
	responses := make([]dto.LeadResponse, len(leads))
	for i := range leads {
		responses[i] = *LeadToResponse(&leads[i])
	}
	return responses
}
