package dto

import (
	"time"

	"therapist-crm/internal/domain/entity"

	"github.com/google/uuid"
)

type NotificationResponse struct {
	ID              uuid.UUID   `json:"id"`
	Type            string      `json:"type"`
	Recipient       string      `json:"recipient"`
	Payload         entity.JSON `json:"payload,omitempty"`
	Reference       string      `json:"reference,omitempty"`
	Status          string      `json:"status"`
	Attempts        int         `json:"attempts"`
	MaxAttempts     int         `json:"max_attempts"`
	LastAttemptedAt *time.Time  `json:"last_attempted_at,omitempty"`
	LastError       string      `json:"last_error,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
}

type NotificationListResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	Total         int                    `json:"total"`
}
