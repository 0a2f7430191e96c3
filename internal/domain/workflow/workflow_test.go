package workflow

import (
	"errors"
	"testing"

	"therapist-crm/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func targets(actions []Action) map[string]string {
	out := make(map[string]string)
	for _, a := range actions {
		if a.Target != "" {
			out[a.Key+"->"+a.Target] = a.Label
		}
	}
	return out
}

func countKey(actions []Action, key string) int {
	n := 0
	for _, a := range actions {
		if a.Key == key {
			n++
		}
	}
	return n
}

func TestTherapistActions(t *testing.T) {
	tests := []struct {
		status string
		want   []string
	}{
		{entity.TherapistStatusPending, []string{"set_status->pending_interview", "reject->rejected"}},
		{entity.TherapistStatusPendingInterview, []string{"approve->active", "reject->rejected"}},
		{entity.TherapistStatusApproved, []string{"set_status->active"}},
		{entity.TherapistStatusActive, []string{"set_status->inactive"}},
		{entity.TherapistStatusInactive, []string{"set_status->active"}},
		{entity.TherapistStatusRejected, []string{"restore->pending"}},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			actions := Actions(KindTherapist, tt.status)
			got := targets(actions)
			assert.Len(t, got, len(tt.want))
			for _, key := range tt.want {
				assert.Contains(t, got, key)
			}
			assert.Equal(t, 1, countKey(actions, ActionView), "every therapist status offers a view action")
		})
	}
}

func TestPatientActions(t *testing.T) {
	tests := []struct {
		status string
		want   []string
	}{
		{entity.PatientStatusNew, []string{"set_status->waiting_for_match", "set_status->rejected"}},
		{entity.PatientStatusWaitingForMatch, []string{"assign->matched"}},
		{entity.PatientStatusMatched, []string{"set_status->in_treatment"}},
		{entity.PatientStatusInTreatment, []string{"set_status->completed"}},
		{entity.PatientStatusRejected, []string{"restore->new"}},
		{entity.PatientStatusArchived, []string{"restore->new"}},
		{entity.PatientStatusCompleted, nil},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			actions := Actions(KindPatient, tt.status)
			assert.Len(t, actions, len(tt.want))
			got := targets(actions)
			for _, key := range tt.want {
				assert.Contains(t, got, key)
			}
		})
	}
}

func TestNextStates(t *testing.T) {
	assert.ElementsMatch(t,
		[]string{entity.TherapistStatusActive, entity.TherapistStatusRejected},
		NextStates(KindTherapist, entity.TherapistStatusPendingInterview))
	assert.Equal(t, []string{entity.PatientStatusMatched}, NextStates(KindPatient, entity.PatientStatusWaitingForMatch))
	assert.Empty(t, NextStates(KindPatient, entity.PatientStatusCompleted))
	assert.Empty(t, NextStates(KindLead, entity.LeadStatusConverted))
	assert.Empty(t, NextStates(KindTherapist, "bogus"))
}

func TestValidate(t *testing.T) {
	require.NoError(t, Validate(KindTherapist, entity.TherapistStatusPending, entity.TherapistStatusPendingInterview))
	require.NoError(t, Validate(KindPatient, entity.PatientStatusArchived, entity.PatientStatusNew))

	err := Validate(KindTherapist, entity.TherapistStatusPending, entity.TherapistStatusActive)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrIllegalTransition))

	var te *TransitionError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, entity.TherapistStatusPending, te.From)

	err = Validate(KindPatient, entity.PatientStatusNew, "teleported")
	assert.True(t, errors.Is(err, ErrUnknownStatus))

	assert.ErrorIs(t, Validate(Kind("course"), "a", "b"), ErrUnknownKind)
}

func TestValidateAction(t *testing.T) {
	assert.NoError(t, ValidateAction(KindPatient, ActionAssign, entity.PatientStatusWaitingForMatch, entity.PatientStatusMatched))
	assert.ErrorIs(t,
		ValidateAction(KindPatient, ActionSetStatus, entity.PatientStatusWaitingForMatch, entity.PatientStatusMatched),
		ErrIllegalTransition)
	assert.NoError(t, ValidateAction(KindTherapist, ActionReject, entity.TherapistStatusPendingInterview, entity.TherapistStatusRejected))
}

func TestLabels(t *testing.T) {
	assert.Equal(t, "ממתין לבדיקה", Label(KindPatient, entity.PatientStatusNew))
	assert.Equal(t, "חדש", ExportLabel(KindPatient, entity.PatientStatusNew))
	assert.Equal(t, "בטיפול", ExportLabel(KindPatient, entity.PatientStatusInTreatment))
	assert.Equal(t, "מושהה", ExportLabel(KindTherapist, entity.TherapistStatusInactive))
	assert.Equal(t, "הומר למטופל", Label(KindLead, entity.LeadStatusConverted))

	assert.Equal(t, "mystery", Label(KindLead, "mystery"))
	assert.Equal(t, "mystery", Style(KindLead, "mystery"))
	assert.Nil(t, Actions(KindLead, "mystery"))

	assert.Equal(t, "interview", Style(KindTherapist, entity.TherapistStatusPendingInterview))
	assert.Equal(t, "waiting", Style(KindPatient, entity.PatientStatusWaitingForMatch))
}

func TestEveryStatusIsDescribed(t *testing.T) {
	for _, kind := range []Kind{KindTherapist, KindPatient, KindLead} {
		for _, s := range Statuses(kind) {
			assert.True(t, Known(kind, s), "%s/%s", kind, s)
			assert.NotEqual(t, s, Label(kind, s), "%s/%s has no label", kind, s)
			for _, next := range NextStates(kind, s) {
				assert.True(t, Known(kind, next), "%s/%s leads to unknown %s", kind, s, next)
			}
		}
	}
}

func TestResolveFilter(t *testing.T) {
	assert.Equal(t, "", ResolveFilter(KindTherapist, "all"))
	assert.Equal(t, "", ResolveFilter(KindTherapist, ""))
	assert.Equal(t, entity.TherapistStatusPending, ResolveFilter(KindTherapist, "new"))
	assert.Equal(t, entity.PatientStatusWaitingForMatch, ResolveFilter(KindPatient, "pending"))
	assert.Equal(t, entity.PatientStatusIntake, ResolveFilter(KindPatient, "in_treatment"))
	assert.Equal(t, entity.LeadStatusContacted, ResolveFilter(KindLead, "contacted"))
}

func TestActionsReturnsCopy(t *testing.T) {
	a := Actions(KindTherapist, entity.TherapistStatusActive)
	a[0].Label = "changed"
	assert.NotEqual(t, "changed", Actions(KindTherapist, entity.TherapistStatusActive)[0].Label)
}
