package handler

import (
	"net/http"

	"therapist-crm/internal/delivery/dto"
	"therapist-crm/internal/delivery/http/middleware"
	"therapist-crm/internal/usecase"
	"therapist-crm/pkg/response"
	"therapist-crm/pkg/validator"
)

type LeadHandler struct {
	leadUsecase usecase.LeadUsecase
	validator   *validator.CustomValidator
}

func NewLeadHandler(leadUsecase usecase.LeadUsecase, validator *validator.CustomValidator) *LeadHandler {
	return &LeadHandler{
		leadUsecase: leadUsecase,
		validator:   validator,
	}
}

// ConvertLead
// @Summary Convert a lead into a patient
// @Description Body fields override the lead's details; name and phone must be present after the merge
// @Tags Leads
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Lead ID"
// @Param request body dto.ConvertLeadRequest false "Corrections"
// @Success 201 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /admin/leads/{id}/convert [post]
func (h *LeadHandler) ConvertLead(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	leadID, err := pathUUID(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid lead ID", nil)
		return
	}

	var req dto.ConvertLeadRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
			return
		}
	}
	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	result, err := h.leadUsecase.ConvertLead(r.Context(), actorID, leadID, &req)
	if err != nil {
		writeActionError(w, err, "Failed to convert lead")
		return
	}

	response.Success(w, http.StatusCreated, "Lead converted successfully", result)
}

// MarkContacted
// @Summary Mark a lead as contacted
// @Tags Leads
// @Security BearerAuth
// @Produce json
// @Param id path string true "Lead ID"
// @Success 200 {object} response.Response
// @Router /admin/leads/{id}/contacted [post]
func (h *LeadHandler) MarkContacted(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	leadID, err := pathUUID(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid lead ID", nil)
		return
	}

	result, err := h.leadUsecase.MarkContacted(r.Context(), actorID, leadID)
	if err != nil {
		writeActionError(w, err, "Failed to update lead")
		return
	}

	response.Success(w, http.StatusOK, result.Message, result)
}

// DeleteLead
// @Summary Delete a lead
// @Tags Leads
// @Security BearerAuth
// @Produce json
// @Param id path string true "Lead ID"
// @Success 200 {object} response.Response
// @Router /admin/leads/{id} [delete]
func (h *LeadHandler) DeleteLead(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	leadID, err := pathUUID(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid lead ID", nil)
		return
	}

	result, err := h.leadUsecase.DeleteLead(r.Context(), actorID, leadID)
	if err != nil {
		writeActionError(w, err, "Failed to delete lead")
		return
	}

	response.Success(w, http.StatusOK, result.Message, result)
}
