// Package workflow is the single status model for therapists, patients and
// leads. Renderers, exporters and write paths all consult it, and every
// status write is validated against it before it reaches the database.
package workflow

import (
	"errors"
	"fmt"

	"therapist-crm/internal/domain/entity"
)

type Kind string

const (
	KindTherapist Kind = "therapist"
	KindPatient   Kind = "patient"
	KindLead      Kind = "lead"
)

var (
	ErrUnknownKind       = errors.New("unknown entity kind")
	ErrUnknownStatus     = errors.New("unknown status")
	ErrIllegalTransition = errors.New("illegal status transition")
)

// TransitionError carries the rejected move for logging and responses.
type TransitionError struct {
	Kind Kind
	From string
	To   string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: cannot move from %q to %q", e.Kind, e.From, e.To)
}

func (e *TransitionError) Unwrap() error { return ErrIllegalTransition }

// Action keys
const (
	ActionView      = "view"
	ActionSetStatus = "set_status"
	ActionApprove   = "approve"
	ActionReject    = "reject"
	ActionAssign    = "assign"
	ActionRestore   = "restore"
	ActionConvert   = "convert"
	ActionContacted = "mark_contacted"
	ActionDelete    = "delete"
)

// Action is one control the dashboard offers for a record in a given status.
// Target is empty for actions that do not change status.
type Action struct {
	Key    string `json:"key"`
	Label  string `json:"label"`
	Target string `json:"target,omitempty"`
	Style  string `json:"style"`
}

type status struct {
	label       string
	exportLabel string
	style       string
	actions     []Action
}

var viewTherapist = Action{Key: ActionView, Label: "צפה בפרטים", Style: "view"}

var tables = map[Kind]map[string]status{
	KindTherapist: {
		entity.TherapistStatusPending: {
			label: "ממתין לבדיקה", style: "pending",
			actions: []Action{
				viewTherapist,
				{Key: ActionSetStatus, Label: "העבר לראיון", Target: entity.TherapistStatusPendingInterview, Style: "interview"},
				{Key: ActionReject, Label: "דחה", Target: entity.TherapistStatusRejected, Style: "reject"},
			},
		},
		entity.TherapistStatusPendingInterview: {
			label: "ממתין לראיון", style: "interview",
			actions: []Action{
				viewTherapist,
				{Key: ActionApprove, Label: "אשר לאחר ראיון", Target: entity.TherapistStatusActive, Style: "approve"},
				{Key: ActionReject, Label: "דחה", Target: entity.TherapistStatusRejected, Style: "reject"},
			},
		},
		entity.TherapistStatusApproved: {
			label: "מאושר", style: "approved",
			actions: []Action{
				viewTherapist,
				{Key: ActionSetStatus, Label: "הפעל", Target: entity.TherapistStatusActive, Style: "approve"},
			},
		},
		entity.TherapistStatusActive: {
			label: "פעיל", style: "active",
			actions: []Action{
				viewTherapist,
				{Key: ActionSetStatus, Label: "השהה", Target: entity.TherapistStatusInactive, Style: "pause"},
			},
		},
		entity.TherapistStatusInactive: {
			label: "מושהה", style: "inactive",
			actions: []Action{
				viewTherapist,
				{Key: ActionSetStatus, Label: "הפעל מחדש", Target: entity.TherapistStatusActive, Style: "approve"},
			},
		},
		entity.TherapistStatusRejected: {
			label: "נדחה", style: "rejected",
			actions: []Action{
				viewTherapist,
				{Key: ActionRestore, Label: "שחזר לבדיקה", Target: entity.TherapistStatusPending, Style: "interview"},
			},
		},
	},
	KindPatient: {
		entity.PatientStatusNew: {
			label: "ממתין לבדיקה", exportLabel: "חדש", style: "pending",
			actions: []Action{
				{Key: ActionSetStatus, Label: "אשר לשיבוץ", Target: entity.PatientStatusWaitingForMatch, Style: "approve"},
				{Key: ActionSetStatus, Label: "דחה", Target: entity.PatientStatusRejected, Style: "reject"},
			},
		},
		entity.PatientStatusWaitingForMatch: {
			label: "ממתין לשיבוץ", style: "waiting",
			actions: []Action{
				{Key: ActionAssign, Label: "שבץ מטפל", Target: entity.PatientStatusMatched, Style: "approve"},
			},
		},
		entity.PatientStatusIntake: {
			label: "בקליטה", style: "waiting",
			actions: []Action{
				{Key: ActionAssign, Label: "שבץ מטפל", Target: entity.PatientStatusMatched, Style: "approve"},
			},
		},
		entity.PatientStatusMatched: {
			label: "שודך למטפל", exportLabel: "שובץ למטפל", style: "matched",
			actions: []Action{
				{Key: ActionSetStatus, Label: "התחל טיפול", Target: entity.PatientStatusInTreatment, Style: "approve"},
			},
		},
		entity.PatientStatusInTreatment: {
			label: "בטיפול פעיל", exportLabel: "בטיפול", style: "active",
			actions: []Action{
				{Key: ActionSetStatus, Label: "סיים טיפול", Target: entity.PatientStatusCompleted, Style: "complete"},
			},
		},
		entity.PatientStatusCompleted: {
			label: "סיים טיפול", style: "completed",
		},
		entity.PatientStatusRejected: {
			label: "נדחה", style: "rejected",
			actions: []Action{
				{Key: ActionRestore, Label: "שחזר", Target: entity.PatientStatusNew, Style: "interview"},
			},
		},
		entity.PatientStatusArchived: {
			label: "בארכיון", style: "archived",
			actions: []Action{
				{Key: ActionRestore, Label: "שחזר", Target: entity.PatientStatusNew, Style: "interview"},
			},
		},
	},
	KindLead: {
		entity.LeadStatusNew: {
			label: "חדש", style: "pending",
			actions: []Action{
				{Key: ActionContacted, Label: "סמן שנוצר קשר", Target: entity.LeadStatusContacted, Style: "interview"},
				{Key: ActionConvert, Label: "המר למטופל", Target: entity.LeadStatusConverted, Style: "approve"},
				{Key: ActionDelete, Label: "מחק", Style: "reject"},
			},
		},
		entity.LeadStatusContacted: {
			label: "נוצר קשר", style: "interview",
			actions: []Action{
				{Key: ActionConvert, Label: "המר למטופל", Target: entity.LeadStatusConverted, Style: "approve"},
				{Key: ActionDelete, Label: "מחק", Style: "reject"},
			},
		},
		entity.LeadStatusConverted: {
			label: "הומר למטופל", style: "completed",
		},
	},
}

// filterAliases maps dashboard filter values onto stored statuses.
var filterAliases = map[Kind]map[string]string{
	KindTherapist: {"new": entity.TherapistStatusPending},
	KindPatient: {
		"pending":      entity.PatientStatusWaitingForMatch,
		"in_treatment": entity.PatientStatusIntake,
	},
}

// Known reports whether status is part of kind's model.
func Known(kind Kind, s string) bool {
	_, ok := tables[kind][s]
	return ok
}

// Label is the dashboard label. Unknown statuses render as their raw code.
func Label(kind Kind, s string) string {
	if st, ok := tables[kind][s]; ok {
		return st.label
	}
	return s
}

// ExportLabel is the spreadsheet label, which differs from Label for a few
// patient statuses.
func ExportLabel(kind Kind, s string) string {
	st, ok := tables[kind][s]
	if !ok {
		return s
	}
	if st.exportLabel != "" {
		return st.exportLabel
	}
	return st.label
}

func Style(kind Kind, s string) string {
	if st, ok := tables[kind][s]; ok {
		return st.style
	}
	return s
}

// Actions returns a copy of the controls offered for a record in status s.
func Actions(kind Kind, s string) []Action {
	st, ok := tables[kind][s]
	if !ok {
		return nil
	}
	out := make([]Action, len(st.actions))
	copy(out, st.actions)
	return out
}

// NextStates lists the distinct statuses reachable from s in one step.
func NextStates(kind Kind, s string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, a := range tables[kind][s].actions {
		if a.Target == "" || seen[a.Target] {
			continue
		}
		seen[a.Target] = true
		out = append(out, a.Target)
	}
	return out
}

func CanTransition(kind Kind, from, to string) bool {
	for _, next := range NextStates(kind, from) {
		if next == to {
			return true
		}
	}
	return false
}

// Validate checks a requested move before it is written.
func Validate(kind Kind, from, to string) error {
	if _, ok := tables[kind]; !ok {
		return ErrUnknownKind
	}
	if !Known(kind, to) {
		return fmt.Errorf("%w: %s", ErrUnknownStatus, to)
	}
	if !CanTransition(kind, from, to) {
		return &TransitionError{Kind: kind, From: from, To: to}
	}
	return nil
}

// ValidateAction checks that the action key is offered in status from and
// leads to to.
func ValidateAction(kind Kind, key, from, to string) error {
	if err := Validate(kind, from, to); err != nil {
		return err
	}
	for _, a := range tables[kind][from].actions {
		if a.Key == key && a.Target == to {
			return nil
		}
	}
	return &TransitionError{Kind: kind, From: from, To: to}
}

// ResolveFilter turns a dashboard filter value into a stored status.
// "" and "all" mean no filter.
func ResolveFilter(kind Kind, filter string) string {
	if filter == "" || filter == "all" {
		return ""
	}
	if alias, ok := filterAliases[kind][filter]; ok {
		return alias
	}
	return filter
}

// Statuses returns the known statuses of kind in display order.
func Statuses(kind Kind) []string {
	switch kind {
	case KindTherapist:
		return []string{
			entity.TherapistStatusPending,
			entity.TherapistStatusPendingInterview,
			entity.TherapistStatusApproved,
			entity.TherapistStatusActive,
			entity.TherapistStatusInactive,
			entity.TherapistStatusRejected,
		}
	case KindPatient:
		return []string{
			entity.PatientStatusNew,
			entity.PatientStatusWaitingForMatch,
			entity.PatientStatusIntake,
			entity.PatientStatusMatched,
			entity.PatientStatusInTreatment,
			entity.PatientStatusCompleted,
			entity.PatientStatusRejected,
			entity.PatientStatusArchived,
		}
	case KindLead:
		return []string{entity.LeadStatusNew, entity.LeadStatusContacted, entity.LeadStatusConverted}
	}
	return nil
}

// StatusInfo bundles what a renderer needs for one record.
type StatusInfo struct {
	Code    string   `json:"code"`
	Label   string   `json:"label"`
	Style   string   `json:"style"`
	Actions []Action `json:"actions"`
}

func Describe(kind Kind, s string) StatusInfo {
	return StatusInfo{
		Code:    s,
		Label:   Label(kind, s),
		Style:   Style(kind, s),
		Actions: Actions(kind, s),
	}
}
