package dto

import (
	"time"

	"therapist-crm/internal/domain/entity"

	"github.com/google/uuid"
)

// AuditLogQuery is read from the query string. Action matches by prefix.
type AuditLogQuery struct {
	Action string     `json:"action" validate:"omitempty,max=100"`
	UserID *uuid.UUID `json:"user_id"`
	Limit  int        `json:"limit" validate:"gte=0"`
}

// Response DTOs

type AuditLogResponse struct {
	ID        int64         `json:"id"`
	UserID    *uuid.UUID    `json:"user_id,omitempty"`
	User      *UserResponse `json:"user,omitempty"`
	Subject   string        `json:"subject"`
	Action    string        `json:"action"`
	Metadata  entity.JSON   `json:"metadata"`
	CreatedAt time.Time     `json:"created_at"`
}

type AuditLogListResponse struct {
	Logs  []AuditLogResponse `json:"logs"`
	Total int                `json:"total"`
}
