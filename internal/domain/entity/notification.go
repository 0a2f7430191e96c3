package entity

import (
	"time"

	"github.com/google/uuid"
)

// Notification is an outbox row. The primary write that caused it has
// already committed; delivery is retried independently.
type Notification struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Type            string     `gorm:"type:varchar(50);not null;index" json:"type"`
	Recipient       string     `gorm:"type:varchar(255);not null" json:"recipient"`
	Payload         JSON       `gorm:"type:jsonb" json:"payload,omitempty"`
	Reference       string     `gorm:"type:varchar(100);index" json:"reference,omitempty"`
	Status          string     `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Attempts        int        `gorm:"not null;default:0" json:"attempts"`
	MaxAttempts     int        `gorm:"not null;default:5" json:"max_attempts"`
	LastAttemptedAt *time.Time `json:"last_attempted_at,omitempty"`
	LastError       string     `gorm:"type:text" json:"last_error,omitempty"`
	CreatedAt       time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Notification) TableName() string {
	return "notification_outbox"
}

// Outbox statuses
const (
	NotificationStatusPending   = "pending"
	NotificationStatusRetrying  = "retrying"
	NotificationStatusDone      = "done"
	NotificationStatusFailed    = "failed"
	NotificationStatusAbandoned = "abandoned"
)

// Notification types understood by the relay and the templates.
const (
	NotificationTherapistApproved        = "therapist_approved"
	NotificationPatientAssignedTherapist = "patient_assigned_therapist"
	NotificationPatientAssignedPatient   = "patient_assigned_patient"
	NotificationNewPatientAdminAlert     = "new_patient_admin_alert"
	NotificationPasswordReset            = "password_reset"
)

// CanRetry reports whether the worker may attempt delivery again.
func (n *Notification) CanRetry() bool {
	switch n.Status {
	case NotificationStatusPending, NotificationStatusRetrying, NotificationStatusFailed:
		return n.Attempts < n.MaxAttempts
	}
	return false
}

func (n *Notification) MarkAttempt(now time.Time) {
	n.Attempts++
	n.LastAttemptedAt = &now
	n.Status = NotificationStatusRetrying
}

func (n *Notification) MarkSuccess() {
	n.Status = NotificationStatusDone
	n.LastError = ""
}

// MarkFailed keeps the row retrying until attempts run out.
func (n *Notification) MarkFailed(err error) {
	n.LastError = err.Error()
	if n.Attempts >= n.MaxAttempts {
		n.Status = NotificationStatusFailed
	}
}

func (n *Notification) MarkAbandoned() {
	n.Status = NotificationStatusAbandoned
}

// NextRetryDelay is base * 2^attempts, capped at maxDelay.
func (n *Notification) NextRetryDelay(base, maxDelay time.Duration) time.Duration {
	if n.Attempts >= 30 {
		return maxDelay
	}
	delay := base * time.Duration(1<<n.Attempts)
	if delay > maxDelay || delay <= 0 {
		return maxDelay
	}
	return delay
}

// DueAt is the earliest time the worker should try again.
func (n *Notification) DueAt(base, maxDelay time.Duration) time.Time {
	if n.LastAttemptedAt == nil {
		return n.CreatedAt
	}
	return n.LastAttemptedAt.Add(n.NextRetryDelay(base, maxDelay))
}
