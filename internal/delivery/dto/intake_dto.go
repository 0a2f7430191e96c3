package dto

import "github.com/google/uuid"

// IntakeRequest is the patient questionnaire. Field rules are checked by
// the intake usecase so both form variants share one rule set.
type IntakeRequest struct {
	FullName          string `json:"full_name"`
	Phone             string `json:"phone"`
	Email             string `json:"email"`
	City              string `json:"city"`
	OtherCity         string `json:"other_city"`
	MainConcern       string `json:"main_concern"`
	TherapyPreference string `json:"therapy_preference"`
	PreferredGender   string `json:"preferred_gender"`
	Identifier        string `json:"identifier"`
	AgreementSigned   bool   `json:"agreement_signed"`
}

type IntakeResponse struct {
	State            string     `json:"state"`
	Kind             string     `json:"kind"`
	ID               *uuid.UUID `json:"id,omitempty"`
	RedirectTo       string     `json:"redirect_to,omitempty"`
	RedirectAfterMs  int64      `json:"redirect_after_ms"`
	NotificationSent bool       `json:"notification_sent"`
}

type ContactRequest struct {
	Name    string `json:"name" validate:"required,min=2"`
	Phone   string `json:"phone" validate:"required,phone"`
	Email   string `json:"email" validate:"omitempty,email"`
	City    string `json:"city" validate:"omitempty"`
	Message string `json:"message" validate:"omitempty,max=5000"`
}
