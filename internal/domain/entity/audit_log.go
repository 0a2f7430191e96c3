package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// AuditLog records one admin or user action. Action is "<subject>.<verb>",
// see the AuditAction constants below.
type AuditLog struct {
	ID        int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    *uuid.UUID `gorm:"type:uuid;index" json:"user_id,omitempty"`
	Action    string     `gorm:"type:varchar(100);not null;index" json:"action"`
	Metadata  JSON       `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt time.Time  `gorm:"autoCreateTime;index" json:"created_at"`

	Profile *Profile `gorm:"foreignKey:UserID" json:"profile,omitempty"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

// Subject is the record kind the action touched, e.g. "lead" for "lead.convert".
func (a *AuditLog) Subject() string {
	subject, _, _ := strings.Cut(a.Action, ".")
	return subject
}

// JSON is a jsonb column holding free-form metadata.
type JSON map[string]interface{}

func (j JSON) Value() (driver.Value, error) {
	if len(j) == 0 {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSON) Scan(value interface{}) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*j = nil
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported jsonb value of type %T", value)
	}

	decoded := map[string]interface{}{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return err
	}
	*j = decoded
	return nil
}

// Audit actions
const (
	AuditActionUserLogin           = "user.login"
	AuditActionUserLogout          = "user.logout"
	AuditActionUserRegister        = "user.register"
	AuditActionConsentSign         = "legal.sign"
	AuditActionTherapistStatus     = "therapist.status"
	AuditActionTherapistApprove    = "therapist.approve"
	AuditActionTherapistReject     = "therapist.reject"
	AuditActionTherapistRegister   = "therapist.register"
	AuditActionPatientStatus       = "patient.status"
	AuditActionPatientAssign       = "patient.assign"
	AuditActionLeadConvert         = "lead.convert"
	AuditActionLeadContacted       = "lead.contacted"
	AuditActionLeadDelete          = "lead.delete"
	AuditActionNotificationRetry   = "notification.retry"
	AuditActionNotificationAbandon = "notification.abandon"
	AuditActionProfileUpdate       = "profile.update"
)
