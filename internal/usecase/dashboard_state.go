package usecase

import (
	"context"
	"strings"

	"therapist-crm/internal/converter"
	"therapist-crm/internal/delivery/dto"
	"therapist-crm/internal/domain/entity"
	"therapist-crm/internal/domain/repository"
	"therapist-crm/internal/domain/workflow"

	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc"
)

// Collection names reported when a load fails.
const (
	collectionTherapists = "therapists"
	collectionPatients   = "patients"
	collectionLeads      = "leads"
)

// DashboardState is one admin view of the three collections. It is built per
// request and never shared.
type DashboardState struct {
	Therapists []entity.Therapist
	Patients   []entity.Patient
	Leads      []entity.Lead
	Failed     []string
}

// dashboardLoader reads the collections behind the admin dashboard.
type dashboardLoader struct {
	log           *logrus.Logger
	therapistRepo repository.TherapistRepository
	patientRepo   repository.PatientRepository
	leadRepo      repository.LeadRepository
}

// Load fetches all three collections in parallel. A failed read leaves that
// collection empty and is recorded in Failed.
func (l *dashboardLoader) Load(ctx context.Context) *DashboardState {
	state := &DashboardState{}
	var therapistErr, patientErr, leadErr error

	var wg conc.WaitGroup
	wg.Go(func() {
		state.Therapists, therapistErr = l.therapistRepo.FindAll(ctx, entity.TherapistFilter{})
	})
	wg.Go(func() {
		state.Patients, patientErr = l.patientRepo.FindAll(ctx, entity.PatientFilter{})
	})
	wg.Go(func() {
		state.Leads, leadErr = l.leadRepo.FindAll(ctx, entity.LeadFilter{})
	})
	wg.Wait()

	if therapistErr != nil {
		l.log.Warnf("Failed to load therapists: %+v", therapistErr)
		state.Therapists = nil
		state.Failed = append(state.Failed, collectionTherapists)
	}
	if patientErr != nil {
		l.log.Warnf("Failed to load patients: %+v", patientErr)
		state.Patients = nil
		state.Failed = append(state.Failed, collectionPatients)
	}
	if leadErr != nil {
		l.log.Warnf("Failed to load leads: %+v", leadErr)
		state.Leads = nil
		state.Failed = append(state.Failed, collectionLeads)
	}
	return state
}

// Counts aggregates over the unfiltered collections.
func (s *DashboardState) Counts() dto.DashboardCounts {
	var c dto.DashboardCounts
	c.TotalPatients = len(s.Patients)

	for i := range s.Therapists {
		switch s.Therapists[i].Status {
		case entity.TherapistStatusPending:
			c.TherapistsPending++
		case entity.TherapistStatusPendingInterview:
			c.TherapistsInterview++
		case entity.TherapistStatusActive:
			c.TherapistsActive++
		case entity.TherapistStatusRejected:
			c.TherapistsRejected++
		}
	}
	c.ActiveTherapists = c.TherapistsActive

	for i := range s.Patients {
		switch s.Patients[i].Status {
		case entity.PatientStatusWaitingForMatch:
			c.PatientsWaitingForMatch++
		case entity.PatientStatusMatched:
			c.PatientsMatched++
		case entity.PatientStatusIntake:
			c.PatientsIntake++
		}
	}
	c.PendingMatches = c.PatientsWaitingForMatch

	for i := range s.Leads {
		if s.Leads[i].Status == entity.LeadStatusConverted {
			c.LeadsConverted++
		} else {
			c.LeadsNew++
		}
	}
	return c
}

// View applies the query filters and converts for the response.
func (s *DashboardState) View(q dto.DashboardQuery) dto.DashboardResponse {
	return dto.DashboardResponse{
		Therapists: converter.TherapistsToResponses(FilterTherapists(s.Therapists, q.TherapistStatus, q.TherapistSearch)),
		Patients:   converter.PatientsToResponses(FilterPatients(s.Patients, q.PatientStatus, q.PatientSearch)),
		Leads:      converter.LeadsToResponses(FilterLeads(s.Leads, q.LeadStatus, q.LeadSearch)),
		Counts:     s.Counts(),
		Errors:     s.Failed,
	}
}

// AvailableTherapists are the candidates offered when matching a patient.
func (s *DashboardState) AvailableTherapists() []entity.Therapist {
	var out []entity.Therapist
	for _, t := range s.Therapists {
		if t.Status == entity.TherapistStatusActive || t.Status == entity.TherapistStatusApproved {
			out = append(out, t)
		}
	}
	return out
}

func matchesSearch(term string, fields ...string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

// FilterTherapists keeps rows matching both the status filter and the
// search term. Neither input is modified.
func FilterTherapists(list []entity.Therapist, status, search string) []entity.Therapist {
	want := workflow.ResolveFilter(workflow.KindTherapist, status)
	out := make([]entity.Therapist, 0, len(list))
	for i := range list {
		t := &list[i]
		if want != "" && t.Status != want {
			continue
		}
		if !matchesSearch(search, t.DisplayName(), t.ContactEmail()) {
			continue
		}
		out = append(out, *t)
	}
	return out
}

func FilterPatients(list []entity.Patient, status, search string) []entity.Patient {
	want := workflow.ResolveFilter(workflow.KindPatient, status)
	out := make([]entity.Patient, 0, len(list))
	for i := range list {
		p := &list[i]
		if want != "" && p.Status != want {
			continue
		}
		if !matchesSearch(search, p.DisplayName(), p.ContactEmail()) {
			continue
		}
		out = append(out, *p)
	}
	return out
}

// FilterLeads also searches the message body.
func FilterLeads(list []entity.Lead, status, search string) []entity.Lead {
	want := workflow.ResolveFilter(workflow.KindLead, status)
	out := make([]entity.Lead, 0, len(list))
	for i := range list {
		l := &list[i]
		if want != "" && l.Status != want {
			continue
		}
		if !matchesSearch(search, l.Name, l.Email, l.Message) {
			continue
		}
		out = append(out, *l)
	}
	return out
}
