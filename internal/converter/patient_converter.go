package converter

import (
	"therapist-crm/internal/delivery/dto"
	"therapist-crm/internal/domain/entity"
	"therapist-crm/internal/domain/workflow"
)

// PatientToResponse converts a Patient entity to PatientResponse DTO
func PatientToResponse(p *entity.Patient) *dto.PatientResponse {
	if p == nil {
		return nil
	}

	res := &dto.PatientResponse{
		ID:                       p.ID,
		UserID:                   p.UserID,
		FullName:                 p.DisplayName(),
		Email:                    p.ContactEmail(),
		Phone:                    p.ContactPhone(),
		City:                     p.City,
		MainConcern:              p.MainConcern,
		PreferredTherapistGender: p.PreferredTherapistGender,
		Availability:             []string(p.Availability),
		Identifier:               p.Identifier,
		AssignedTherapistID:      p.AssignedTherapistID,
		MatchedAt:                p.MatchedAt,
		Source:                   p.Source,
		ConvertedFromLeadID:      p.ConvertedFromLeadID,
		Status:                   workflow.Describe(workflow.KindPatient, p.Status),
		CreatedAt:                p.CreatedAt,
		UpdatedAt:                p.UpdatedAt,
	}
	if p.AssignedTherapist != nil {
		res.AssignedTherapistName = p.AssignedTherapist.DisplayName()
	}
	return res
}

func PatientsToResponses(patients []entity.Patient) []dto.PatientResponse {
	responses := make([]dto.PatientResponse, len(patients))
	for i := range patients {
		responses[i] = *PatientToResponse(&patients[i])
	}
	return responses
}

func AppointmentToResponse(a *entity.Appointment) *dto.AppointmentResponse {
	if a == nil {
		return nil
	}

	res := &dto.AppointmentResponse{
		ID:              a.ID,
		PatientID:       a.PatientID,
		TherapistID:     a.TherapistID,
		ScheduledAt:     a.ScheduledAt,
		DurationMinutes: a.DurationMinutes,
		Status:          a.Status,
		Notes:           a.Notes,
	}
	if a.Patient != nil {
		res.PatientName = a.Patient.DisplayName()
	}
	if a.Therapist != nil {
		res.TherapistName = a.Therapist.DisplayName()
	}
	return res
}

func AppointmentsToResponses(appointments []entity.Appointment) []dto.AppointmentResponse {
	responses := make([]dto.AppointmentResponse, len(appointments))
	for i := range appointments {
		responses[i] = *AppointmentToResponse(&appointments[i])
	}
	return responses
}
