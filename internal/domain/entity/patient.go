package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Patient is a care seeker. It is created by authenticated intake, by an
// admin converting a lead, or by registration.
type Patient struct {
	ID                       uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID                   *uuid.UUID     `gorm:"type:uuid;index" json:"user_id,omitempty"`
	FullName                 string         `gorm:"type:varchar(255)" json:"full_name"`
	Email                    string         `gorm:"type:varchar(255)" json:"email"`
	Phone                    string         `gorm:"type:varchar(30)" json:"phone"`
	City                     string         `gorm:"type:varchar(100)" json:"city"`
	Occupation               string         `gorm:"type:varchar(255)" json:"occupation,omitempty"`
	MainConcern              string         `gorm:"type:text" json:"main_concern"`
	PreferredTherapistGender string         `gorm:"type:varchar(20)" json:"preferred_therapist_gender,omitempty"`
	Availability             pq.StringArray `gorm:"type:text[]" json:"availability,omitempty"`
	Identifier               string         `gorm:"type:varchar(50)" json:"identifier,omitempty"`
	AssignedTherapistID      *uuid.UUID     `gorm:"type:uuid;index" json:"assigned_therapist_id,omitempty"`
	MatchedAt                *time.Time     `json:"matched_at,omitempty"`
	Status                   string         `gorm:"type:varchar(30);not null;default:'new';index" json:"status"`
	Source                   string         `gorm:"type:varchar(50)" json:"source,omitempty"`
	ConvertedFromLeadID      *uuid.UUID     `gorm:"type:uuid" json:"converted_from_lead_id,omitempty"`
	AgreementSigned          bool           `gorm:"not null;default:false" json:"agreement_signed"`
	IntakeCompleted          bool           `gorm:"not null;default:false" json:"intake_completed"`
	CreatedAt                time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt                time.Time      `gorm:"autoUpdateTime" json:"updated_at"`

	Profile           *Profile   `gorm:"foreignKey:UserID" json:"profile,omitempty"`
	AssignedTherapist *Therapist `gorm:"foreignKey:AssignedTherapistID" json:"assigned_therapist,omitempty"`
}

func (Patient) TableName() string {
	return "patients"
}

// Patient statuses
const (
	PatientStatusNew             = "new"
	PatientStatusWaitingForMatch = "waiting_for_match"
	PatientStatusMatched         = "matched"
	PatientStatusInTreatment     = "in_treatment"
	PatientStatusIntake          = "intake"
	PatientStatusCompleted       = "completed"
	PatientStatusRejected        = "rejected"
	PatientStatusArchived        = "archived"
)

// Patient sources
const (
	PatientSourceIntake         = "intake_form"
	PatientSourceLeadConversion = "lead_conversion"
	PatientSourceRegistration   = "registration"
)

func (p *Patient) DisplayName() string {
	if p.Profile != nil && p.Profile.FullName != "" {
		return p.Profile.FullName
	}
	return p.FullName
}

func (p *Patient) ContactEmail() string {
	if p.Profile != nil && p.Profile.Email != "" {
		return p.Profile.Email
	}
	return p.Email
}

func (p *Patient) ContactPhone() string {
	if p.Profile != nil && p.Profile.Phone != "" {
		return p.Profile.Phone
	}
	return p.Phone
}
