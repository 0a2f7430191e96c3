package entity

import "github.com/google/uuid"

// TherapistFilter narrows repository reads. Zero values mean "any".
type TherapistFilter struct {
	Statuses []string
	IsActive *bool
	OrderBy  string // column, defaults to created_at DESC
}

type PatientFilter struct {
	Status              string
	UserID              *uuid.UUID
	AssignedTherapistID *uuid.UUID
}

type LeadFilter struct {
	Status string
}

type AppointmentFilter struct {
	PatientID   *uuid.UUID
	TherapistID *uuid.UUID
	Status      string
	Upcoming    bool
}

// AuditLogFilter matches Action by prefix, so "lead." selects every lead action.
type AuditLogFilter struct {
	Action string
	UserID *uuid.UUID
	Limit  int
}

type NotificationFilter struct {
	Statuses []string
	Limit    int
}
