package converter

import (
	"therapist-crm/internal/delivery/dto"
	"therapist-crm/internal/domain/entity"
)

func CourseProgressToResponse(p *entity.CourseProgress) dto.CourseProgressResponse {
	return dto.CourseProgressResponse{
		VideoID:        p.VideoID,
		CourseType:     p.CourseType,
		LessonNumber:   p.LessonNumber,
		Completed:      p.Completed,
		CompletedAt:    p.CompletedAt,
		WatchedSeconds: p.WatchedSeconds,
	}
}

func CertificationsToResponses(certs []entity.Certification) []dto.CertificationResponse {
	responses := make([]dto.CertificationResponse, len(certs))
	for i, c := range certs {
		responses[i] = dto.CertificationResponse{
			ID:                c.ID,
			CertificationType: c.CertificationType,
			Passed:            c.Passed,
			IssuedAt:          c.IssuedAt,
		}
	}
	return responses
}
