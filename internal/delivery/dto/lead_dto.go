package dto

import (
	"time"

	"therapist-crm/internal/domain/workflow"

	"github.com/google/uuid"
)

// ConvertLeadRequest lets the admin correct lead details before conversion.
// Name and phone are checked by the usecase after falling back to the lead.
type ConvertLeadRequest struct {
	FullName    string `json:"full_name"`
	Phone       string `json:"phone"`
	Email       string `json:"email" validate:"omitempty,email"`
	Identifier  string `json:"identifier"`
	City        string `json:"city"`
	MainConcern string `json:"main_concern"`
}

type LeadResponse struct {
	ID                   uuid.UUID           `json:"id"`
	Name                 string              `json:"name"`
	Phone                string              `json:"phone"`
	Email                string              `json:"email,omitempty"`
	City                 string              `json:"city,omitempty"`
	Message              string              `json:"message,omitempty"`
	ConvertedToPatientID *uuid.UUID          `json:"converted_to_patient_id,omitempty"`
	ConvertedAt          *time.Time          `json:"converted_at,omitempty"`
	Status               workflow.StatusInfo `json:"status"`
	CreatedAt            time.Time           `json:"created_at"`
}

type ConvertLeadResponse struct {
	Lead    LeadResponse    `json:"lead"`
	Patient PatientResponse `json:"patient"`
}
