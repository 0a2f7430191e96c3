package handler

import (
	"context"
	"net/http"

	"therapist-crm/internal/delivery/dto"
	"therapist-crm/internal/delivery/http/middleware"
	"therapist-crm/internal/usecase"
	"therapist-crm/pkg/response"
	"therapist-crm/pkg/validator"

	"github.com/google/uuid"
)

type DashboardHandler struct {
	dashboardUsecase usecase.DashboardUsecase
	validator        *validator.CustomValidator
}

func NewDashboardHandler(dashboardUsecase usecase.DashboardUsecase, validator *validator.CustomValidator) *DashboardHandler {
	return &DashboardHandler{
		dashboardUsecase: dashboardUsecase,
		validator:        validator,
	}
}

// GetDashboard
// @Summary Load the admin dashboard
// @Description Loads therapists, patients and leads concurrently; failed collections are listed in errors
// @Tags Dashboard
// @Security BearerAuth
// @Produce json
// @Param therapist_status query string false "Therapist status filter"
// @Param therapist_search query string false "Therapist search"
// @Param patient_status query string false "Patient status filter"
// @Param patient_search query string false "Patient search"
// @Param lead_status query string false "Lead status filter"
// @Param lead_search query string false "Lead search"
// @Success 200 {object} response.Response
// @Router /admin/dashboard [get]
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	var query dto.DashboardQuery
	if err := decodeQuery(r, &query); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid query parameters", nil)
		return
	}

	response.Success(w, http.StatusOK, "Dashboard loaded", h.dashboardUsecase.Load(r.Context(), query))
}

// GetTherapist
// @Summary View therapist details
// @Tags Dashboard
// @Security BearerAuth
// @Produce json
// @Param id path string true "Therapist ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/therapists/{id} [get]
func (h *DashboardHandler) GetTherapist(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid therapist ID", nil)
		return
	}

	therapist, err := h.dashboardUsecase.ViewTherapist(r.Context(), id)
	if err != nil {
		writeActionError(w, err, "Failed to get therapist")
		return
	}

	response.Success(w, http.StatusOK, "Therapist retrieved successfully", therapist)
}

// GetPatient
// @Summary View patient details
// @Tags Dashboard
// @Security BearerAuth
// @Produce json
// @Param id path string true "Patient ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/patients/{id} [get]
func (h *DashboardHandler) GetPatient(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid patient ID", nil)
		return
	}

	patient, err := h.dashboardUsecase.ViewPatient(r.Context(), id)
	if err != nil {
		writeActionError(w, err, "Failed to get patient")
		return
	}

	response.Success(w, http.StatusOK, "Patient retrieved successfully", patient)
}

// GetAvailableTherapists
// @Summary Therapists that can take a new patient
// @Tags Dashboard
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Router /admin/therapists/available [get]
func (h *DashboardHandler) GetAvailableTherapists(w http.ResponseWriter, r *http.Request) {
	therapists, err := h.dashboardUsecase.AvailableTherapists(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get available therapists")
		return
	}

	response.Success(w, http.StatusOK, "Available therapists retrieved successfully", therapists)
}

// UpdateTherapistStatus
// @Summary Move a therapist to another status
// @Tags Dashboard
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Therapist ID"
// @Param request body dto.StatusUpdateRequest true "New status"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /admin/therapists/{id}/status [put]
func (h *DashboardHandler) UpdateTherapistStatus(w http.ResponseWriter, r *http.Request) {
	h.statusUpdate(w, r, "therapist", h.dashboardUsecase.UpdateTherapistStatus)
}

// UpdatePatientStatus
// @Summary Move a patient to another status
// @Tags Dashboard
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Patient ID"
// @Param request body dto.StatusUpdateRequest true "New status"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /admin/patients/{id}/status [put]
func (h *DashboardHandler) UpdatePatientStatus(w http.ResponseWriter, r *http.Request) {
	h.statusUpdate(w, r, "patient", h.dashboardUsecase.UpdatePatientStatus)
}

type statusUpdateFunc func(ctx context.Context, actorID, id uuid.UUID, status string) (*dto.ActionResponse, error)

func (h *DashboardHandler) statusUpdate(w http.ResponseWriter, r *http.Request, kind string, update statusUpdateFunc) {
	actorID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	id, err := pathUUID(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid "+kind+" ID", nil)
		return
	}

	var req dto.StatusUpdateRequest
	if !bindJSON(w, r, h.validator, &req) {
		return
	}

	result, err := update(r.Context(), actorID, id, req.Status)
	if err != nil {
		writeActionError(w, err, "Failed to update "+kind+" status")
		return
	}

	response.Success(w, http.StatusOK, result.Message, result)
}

// ApproveTherapist
// @Summary Approve a therapist application
// @Tags Dashboard
// @Security BearerAuth
// @Produce json
// @Param id path string true "Therapist ID"
// @Success 200 {object} response.Response
// @Router /admin/therapists/{id}/approve [post]
func (h *DashboardHandler) ApproveTherapist(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.dashboardUsecase.ApproveTherapist, "Failed to approve therapist")
}

// RejectTherapist
// @Summary Reject a therapist application
// @Tags Dashboard
// @Security BearerAuth
// @Produce json
// @Param id path string true "Therapist ID"
// @Success 200 {object} response.Response
// @Router /admin/therapists/{id}/reject [post]
func (h *DashboardHandler) RejectTherapist(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.dashboardUsecase.RejectTherapist, "Failed to reject therapist")
}

func (h *DashboardHandler) decide(w http.ResponseWriter, r *http.Request, action func(context.Context, uuid.UUID, uuid.UUID) (*dto.ActionResponse, error), fallback string) {
	actorID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	id, err := pathUUID(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid therapist ID", nil)
		return
	}

	result, err := action(r.Context(), actorID, id)
	if err != nil {
		writeActionError(w, err, fallback)
		return
	}

	response.Success(w, http.StatusOK, result.Message, result)
}

// AssignTherapist
// @Summary Match a patient with a therapist
// @Description Assigns the therapist, marks the patient matched and notifies both sides
// @Tags Dashboard
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Patient ID"
// @Param request body dto.AssignTherapistRequest true "Therapist"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /admin/patients/{id}/assign [post]
func (h *DashboardHandler) AssignTherapist(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	patientID, err := pathUUID(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid patient ID", nil)
		return
	}

	var req dto.AssignTherapistRequest
	if !bindJSON(w, r, h.validator, &req) {
		return
	}

	result, err := h.dashboardUsecase.AssignTherapist(r.Context(), actorID, patientID, req.TherapistID)
	if err != nil {
		writeActionError(w, err, "Failed to assign therapist")
		return
	}

	response.Success(w, http.StatusOK, result.Message, result)
}
