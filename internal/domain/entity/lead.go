package entity

import (
	"time"

	"github.com/google/uuid"
)

// Lead is an anonymous inbound inquiry stored in contact_requests.
type Lead struct {
	ID                   uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name                 string     `gorm:"type:varchar(255);not null" json:"name"`
	Phone                string     `gorm:"type:varchar(30)" json:"phone"`
	Email                string     `gorm:"type:varchar(255)" json:"email,omitempty"`
	City                 string     `gorm:"type:varchar(100)" json:"city,omitempty"`
	Message              string     `gorm:"type:text" json:"message,omitempty"`
	Status               string     `gorm:"type:varchar(30);not null;default:'new';index" json:"status"`
	ConvertedToPatientID *uuid.UUID `gorm:"type:uuid" json:"converted_to_patient_id,omitempty"`
	ConvertedAt          *time.Time `json:"converted_at,omitempty"`
	CreatedAt            time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt            time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Lead) TableName() string {
	return "contact_requests"
}

// Lead statuses
const (
	LeadStatusNew       = "new"
	LeadStatusContacted = "contacted"
	LeadStatusConverted = "converted"
)
