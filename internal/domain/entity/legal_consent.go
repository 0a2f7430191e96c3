package entity

import (
	"time"

	"github.com/google/uuid"
)

// LegalConsent records that a user accepted a given terms version.
// (user_id, agreed_version) is unique.
type LegalConsent struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:legal_consents_user_version_key" json:"user_id"`
	AgreedVersion string    `gorm:"type:varchar(20);not null;uniqueIndex:legal_consents_user_version_key" json:"agreed_version"`
	IPAddress     string    `gorm:"type:varchar(64)" json:"ip_address"`
	UserAgent     string    `gorm:"type:text" json:"user_agent"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (LegalConsent) TableName() string {
	return "legal_consents"
}

// UnknownIP is stored when the caller address cannot be determined.
const UnknownIP = "unknown"
