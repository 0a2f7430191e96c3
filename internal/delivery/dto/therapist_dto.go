package dto

import (
	"time"

	"therapist-crm/internal/domain/entity"
	"therapist-crm/internal/domain/workflow"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

type RegisterTherapistRequest struct {
	FullName        string           `json:"full_name" validate:"required,min=2"`
	Phone           string           `json:"phone" validate:"required,phone"`
	Email           string           `json:"email" validate:"omitempty,email"`
	City            string           `json:"city" validate:"required"`
	Specializations []string         `json:"specializations" validate:"required,min=1,dive,required"`
	ExperienceYears int              `json:"experience_years" validate:"gte=0,lte=80"`
	PricePerSession *decimal.Decimal `json:"price_per_session"`
	WorksOnline     bool             `json:"works_online"`
	Bio             string           `json:"bio" validate:"omitempty,max=5000"`
	Questionnaire   entity.JSON      `json:"questionnaire"`
}

type StatusUpdateRequest struct {
	Status string `json:"status" validate:"required"`
}

type AssignTherapistRequest struct {
	TherapistID uuid.UUID `json:"therapist_id" validate:"required"`
}

// Response DTOs

type TherapistResponse struct {
	ID              uuid.UUID           `json:"id"`
	UserID          *uuid.UUID          `json:"user_id,omitempty"`
	FullName        string              `json:"full_name"`
	Email           string              `json:"email"`
	Phone           string              `json:"phone"`
	City            string              `json:"city"`
	Specializations []string            `json:"specializations"`
	ExperienceYears int                 `json:"experience_years"`
	PricePerSession *decimal.Decimal    `json:"price_per_session"`
	WorksOnline     bool                `json:"works_online"`
	Bio             string              `json:"bio,omitempty"`
	ResumeURL       string              `json:"resume_url,omitempty"`
	Questionnaire   entity.JSON         `json:"questionnaire,omitempty"`
	AIScore         *int                `json:"ai_score,omitempty"`
	AISummary       string              `json:"ai_summary,omitempty"`
	AITags          []string            `json:"ai_tags,omitempty"`
	Rating          float64             `json:"rating"`
	IsActive        bool                `json:"is_active"`
	IsVerified      bool                `json:"is_verified"`
	Status          workflow.StatusInfo `json:"status"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

type ReviewRequest struct {
	TherapistID uuid.UUID `json:"therapist_id" validate:"required"`
	Rating      int       `json:"rating" validate:"required,gte=1,lte=5"`
	Comment     string    `json:"comment" validate:"omitempty,max=2000"`
}

type ReviewResponse struct {
	ID          uuid.UUID `json:"id"`
	PatientID   uuid.UUID `json:"patient_id"`
	TherapistID uuid.UUID `json:"therapist_id"`
	Rating      int       `json:"rating"`
	Comment     string    `json:"comment,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
