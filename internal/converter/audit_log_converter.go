package converter

import (
	"therapist-crm/internal/delivery/dto"
	"therapist-crm/internal/domain/entity"
)

// AuditLogToResponse keeps the actor ID even when their profile is gone.
func AuditLogToResponse(entry *entity.AuditLog) *dto.AuditLogResponse {
	if entry == nil {
		return nil
	}

	return &dto.AuditLogResponse{
		ID:        entry.ID,
		UserID:    entry.UserID,
		User:      ProfileToResponse(entry.Profile),
		Subject:   entry.Subject(),
		Action:    entry.Action,
		Metadata:  entry.Metadata,
		CreatedAt: entry.CreatedAt,
	}
}

func AuditLogsToResponses(entries []entity.AuditLog) []dto.AuditLogResponse {
	out := make([]dto.AuditLogResponse, 0, len(entries))
	for i := range entries {
		out = append(out, *AuditLogToResponse(&entries[i]))
	}
	return out
}
