package dto

// DashboardQuery carries the list filters. Status values accept the
// dashboard aliases ("all", "new", "pending", ...).
type DashboardQuery struct {
	TherapistStatus string `json:"therapist_status"`
	TherapistSearch string `json:"therapist_search"`
	PatientStatus   string `json:"patient_status"`
	PatientSearch   string `json:"patient_search"`
	LeadStatus      string `json:"lead_status"`
	LeadSearch      string `json:"lead_search"`
}

type DashboardCounts struct {
	TotalPatients           int `json:"total_patients"`
	ActiveTherapists        int `json:"active_therapists"`
	PendingMatches          int `json:"pending_matches"`
	TherapistsPending       int `json:"therapists_pending"`
	TherapistsInterview     int `json:"therapists_interview"`
	TherapistsActive        int `json:"therapists_active"`
	TherapistsRejected      int `json:"therapists_rejected"`
	PatientsWaitingForMatch int `json:"patients_waiting_for_match"`
	PatientsMatched         int `json:"patients_matched"`
	PatientsIntake          int `json:"patients_intake"`
	LeadsNew                int `json:"leads_new"`
	LeadsConverted          int `json:"leads_converted"`
}

type DashboardResponse struct {
	Therapists []TherapistResponse `json:"therapists"`
	Patients   []PatientResponse   `json:"patients"`
	Leads      []LeadResponse      `json:"leads"`
	Counts     DashboardCounts     `json:"counts"`
	Errors     []string            `json:"errors,omitempty"`
}

// ActionResponse is returned by every dashboard write: the reloaded view
// plus, for assignments, how many notifications went out.
type ActionResponse struct {
	Message           string            `json:"message"`
	NotificationsSent *int              `json:"notifications_sent,omitempty"`
	Dashboard         DashboardResponse `json:"dashboard"`
}
