package converter

import (
	"therapist-crm/internal/delivery/dto"
	"therapist-crm/internal/domain/entity"
)

func NotificationToResponse(n *entity.Notification) *dto.NotificationResponse {
	if n == nil {
		return nil
	}

	return &dto.NotificationResponse{
		ID:              n.ID,
		Type:            n.Type,
		Recipient:       n.Recipient,
		Payload:         n.Payload,
		Reference:       n.Reference,
		Status:          n.Status,
		Attempts:        n.Attempts,
		MaxAttempts:     n.MaxAttempts,
		LastAttemptedAt: n.LastAttemptedAt,
		LastError:       n.LastError,
		CreatedAt:       n.CreatedAt,
	}
}

func NotificationsToResponses(items []entity.Notification) []dto.NotificationResponse {
	responses := make([]dto.NotificationResponse, len(items))
	for i := range items {
		responses[i] = *NotificationToResponse(&items[i])
	}
	return responses
}
