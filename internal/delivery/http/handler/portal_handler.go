package handler

import (
	"net/http"

	"therapist-crm/internal/delivery/dto"
	"therapist-crm/internal/delivery/http/middleware"
	"therapist-crm/internal/usecase"
	"therapist-crm/pkg/response"
	"therapist-crm/pkg/validator"
)

// PortalHandler serves the signed-in patient's pages and profile media.
type PortalHandler struct {
	portalUsecase usecase.PatientPortalUsecase
	mediaUsecase  usecase.MediaUsecase
	validator     *validator.CustomValidator
}

func NewPortalHandler(portalUsecase usecase.PatientPortalUsecase, mediaUsecase usecase.MediaUsecase, validator *validator.CustomValidator) *PortalHandler {
	return &PortalHandler{
		portalUsecase: portalUsecase,
		mediaUsecase:  mediaUsecase,
		validator:     validator,
	}
}

// GetMyPatient
// @Summary Get the caller's patient record
// @Tags Portal
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /patients/me [get]
func (h *PortalHandler) GetMyPatient(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	patient, err := h.portalUsecase.GetCurrent(r.Context(), userID)
	if err != nil {
		switch err {
		case usecase.ErrPatientNotFound:
			response.NotFound(w, "Patient not found")
		default:
			response.InternalServerError(w, "Failed to get patient")
		}
		return
	}

	response.Success(w, http.StatusOK, "Patient retrieved successfully", patient)
}

// GetMyAppointments
// @Summary List the caller's sessions as a patient
// @Tags Portal
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Router /patients/me/appointments [get]
func (h *PortalHandler) GetMyAppointments(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	appointments, err := h.portalUsecase.GetAppointments(r.Context(), userID)
	if err != nil {
		switch err {
		case usecase.ErrPatientNotFound:
			response.NotFound(w, "Patient not found")
		default:
			response.InternalServerError(w, "Failed to get appointments")
		}
		return
	}

	response.Success(w, http.StatusOK, "Appointments retrieved successfully", appointments)
}

// SubmitReview
// @Summary Review the assigned therapist
// @Tags Portal
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.ReviewRequest true "Review"
// @Success 201 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /patients/me/reviews [post]
func (h *PortalHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	var req dto.ReviewRequest
	if !bindJSON(w, r, h.validator, &req) {
		return
	}

	review, err := h.portalUsecase.SubmitReview(r.Context(), userID, &req)
	if err != nil {
		switch err {
		case usecase.ErrPatientNotFound:
			response.NotFound(w, "Patient not found")
		case usecase.ErrReviewNotAllowed:
			response.Forbidden(w, "You can only review your assigned therapist")
		default:
			response.InternalServerError(w, "Failed to submit review")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Review submitted successfully", review)
}

// UploadAvatar
// @Summary Upload the caller's profile picture
// @Tags Portal
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Image file"
// @Success 200 {object} response.Response
// @Failure 415 {object} response.Response
// @Router /auth/me/avatar [post]
func (h *PortalHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	file, contentType, err := formFile(w, r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "A file is required", nil)
		return
	}
	defer file.Close()

	url, err := h.mediaUsecase.UploadAvatar(r.Context(), userID, file, contentType)
	if err != nil {
		writeUploadError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Avatar uploaded successfully", &dto.UploadResponse{URL: url})
}
