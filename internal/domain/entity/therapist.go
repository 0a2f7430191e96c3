package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Therapist is a practitioner application. Intake forms write the flat
// contact fields; registration links UserID to a Profile.
type Therapist struct {
	ID              uuid.UUID           `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID          *uuid.UUID          `gorm:"type:uuid;index" json:"user_id,omitempty"`
	FullName        string              `gorm:"type:varchar(255)" json:"full_name"`
	Email           string              `gorm:"type:varchar(255)" json:"email"`
	Phone           string              `gorm:"type:varchar(30)" json:"phone"`
	City            string              `gorm:"type:varchar(100)" json:"city"`
	Specializations pq.StringArray      `gorm:"type:text[]" json:"specializations"`
	ExperienceYears int                 `gorm:"not null;default:0" json:"experience_years"`
	PricePerSession decimal.NullDecimal `gorm:"type:numeric(10,2)" json:"price_per_session"`
	WorksOnline     bool                `gorm:"not null;default:false" json:"works_online"`
	Bio             string              `gorm:"type:text" json:"bio,omitempty"`
	ResumeURL       string              `gorm:"type:text" json:"resume_url,omitempty"`
	Questionnaire   JSON                `gorm:"type:jsonb" json:"questionnaire,omitempty"`
	AIScore         *int                `json:"ai_score,omitempty"`
	AISummary       string              `gorm:"type:text" json:"ai_summary,omitempty"`
	AITags          pq.StringArray      `gorm:"type:text[]" json:"ai_tags,omitempty"`
	Rating          float64             `gorm:"not null;default:0" json:"rating"`
	Status          string              `gorm:"type:varchar(30);not null;default:'pending';index" json:"status"`
	IsActive        bool                `gorm:"not null;default:false;index" json:"is_active"`
	IsVerified      bool                `gorm:"not null;default:false" json:"is_verified"`
	CreatedAt       time.Time           `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt       time.Time           `gorm:"autoUpdateTime" json:"updated_at"`

	Profile *Profile `gorm:"foreignKey:UserID" json:"profile,omitempty"`
}

func (Therapist) TableName() string {
	return "therapists"
}

// Therapist statuses
const (
	TherapistStatusPending          = "pending"
	TherapistStatusPendingInterview = "pending_interview"
	TherapistStatusApproved         = "approved"
	TherapistStatusActive           = "active"
	TherapistStatusInactive         = "inactive"
	TherapistStatusRejected         = "rejected"
)

// DisplayName reads the linked profile first. Intake-created rows have no
// profile and carry the flat field instead.
func (t *Therapist) DisplayName() string {
	if t.Profile != nil && t.Profile.FullName != "" {
		return t.Profile.FullName
	}
	return t.FullName
}

func (t *Therapist) ContactEmail() string {
	if t.Profile != nil && t.Profile.Email != "" {
		return t.Profile.Email
	}
	return t.Email
}

func (t *Therapist) ContactPhone() string {
	if t.Profile != nil && t.Profile.Phone != "" {
		return t.Profile.Phone
	}
	return t.Phone
}
