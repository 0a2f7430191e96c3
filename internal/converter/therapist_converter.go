package converter

import (
	"therapist-crm/internal/delivery/dto"
	"therapist-crm/internal/domain/entity"
	"therapist-crm/internal/domain/workflow"

	"github.com/shopspring/decimal"
)

// TherapistToResponse flattens the dual shape: contact fields come from the
// row and fall back to the linked profile.
func TherapistToResponse(t *entity.Therapist) *dto.TherapistResponse {
	if t == nil {
		return nil
	}

	var price *decimal.Decimal
	if t.PricePerSession.Valid {
		p := t.PricePerSession.Decimal
		price = &p
	}

	return &dto.TherapistResponse{
		ID:              t.ID,
		UserID:          t.UserID,
		FullName:        t.DisplayName(),
		Email:           t.ContactEmail(),
		Phone:           t.ContactPhone(),
		City:            t.City,
		Specializations: []string(t.Specializations),
		ExperienceYears: t.ExperienceYears,
		PricePerSession: price,
		WorksOnline:     t.WorksOnline,
		Bio:             t.Bio,
		ResumeURL:       t.ResumeURL,
		Questionnaire:   t.Questionnaire,
		AIScore:         t.AIScore,
		AISummary:       t.AISummary,
		AITags:          []string(t.AITags),
		Rating:          t.Rating,
		IsActive:        t.IsActive,
		IsVerified:      t.IsVerified,
		Status:          workflow.Describe(workflow.KindTherapist, t.Status),
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
}

func TherapistsToResponses(therapists []entity.Therapist) []dto.TherapistResponse {
	responses := make([]dto.TherapistResponse, len(therapists))
	for i := range therapists {
		responses[i] = *TherapistToResponse(&therapists[i])
	}
	return responses
}

func ReviewToResponse(r *entity.Review) *dto.ReviewResponse {
	if r == nil {
		return nil
	}
	return &dto.ReviewResponse{
		ID:          r.ID,
		PatientID:   r.PatientID,
		TherapistID: r.TherapistID,
		Rating:      r.Rating,
		Comment:     r.Comment,
		CreatedAt:   r.CreatedAt,
	}
}

func ReviewsToResponses(reviews []entity.Review) []dto.ReviewResponse {
	responses := make([]dto.ReviewResponse, len(reviews))
	for i := range reviews {
		responses[i] = *ReviewToResponse(&reviews[i])
	}
	return responses
}
