package dto

import (
	"time"

	"therapist-crm/internal/domain/workflow"

	"github.com/google/uuid"
)

type PatientResponse struct {
	ID                       uuid.UUID           `json:"id"`
	UserID                   *uuid.UUID          `json:"user_id,omitempty"`
	FullName                 string              `json:"full_name"`
	Email                    string              `json:"email"`
	Phone                    string              `json:"phone"`
	City                     string              `json:"city"`
	MainConcern              string              `json:"main_concern"`
	PreferredTherapistGender string              `json:"preferred_therapist_gender,omitempty"`
	Availability             []string            `json:"availability,omitempty"`
	Identifier               string              `json:"identifier,omitempty"`
	AssignedTherapistID      *uuid.UUID          `json:"assigned_therapist_id,omitempty"`
	AssignedTherapistName    string              `json:"assigned_therapist_name,omitempty"`
	MatchedAt                *time.Time          `json:"matched_at,omitempty"`
	Source                   string              `json:"source,omitempty"`
	ConvertedFromLeadID      *uuid.UUID          `json:"converted_from_lead_id,omitempty"`
	Status                   workflow.StatusInfo `json:"status"`
	CreatedAt                time.Time           `json:"created_at"`
	UpdatedAt                time.Time           `json:"updated_at"`
}

type AppointmentRequest struct {
	TherapistID     uuid.UUID `json:"therapist_id" validate:"required"`
	PatientID       uuid.UUID `json:"patient_id" validate:"required"`
	ScheduledAt     time.Time `json:"scheduled_at" validate:"required"`
	DurationMinutes int       `json:"duration_minutes" validate:"omitempty,gte=10,lte=240"`
	Notes           string    `json:"notes" validate:"omitempty,max=2000"`
}

type AppointmentResponse struct {
	ID              uuid.UUID `json:"id"`
	PatientID       uuid.UUID `json:"patient_id"`
	PatientName     string    `json:"patient_name,omitempty"`
	TherapistID     uuid.UUID `json:"therapist_id"`
	TherapistName   string    `json:"therapist_name,omitempty"`
	ScheduledAt     time.Time `json:"scheduled_at"`
	DurationMinutes int       `json:"duration_minutes"`
	Status          string    `json:"status"`
	Notes           string    `json:"notes,omitempty"`
}
