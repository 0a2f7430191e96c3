package handler

import (
	"net/http"

	"therapist-crm/internal/delivery/dto"
	"therapist-crm/internal/delivery/http/middleware"
	"therapist-crm/internal/usecase"
	"therapist-crm/pkg/response"
	"therapist-crm/pkg/validator"
)

type TherapistHandler struct {
	therapistUsecase usecase.TherapistUsecase
	mediaUsecase     usecase.MediaUsecase
	validator        *validator.CustomValidator
}

func NewTherapistHandler(therapistUsecase usecase.TherapistUsecase, mediaUsecase usecase.MediaUsecase, validator *validator.CustomValidator) *TherapistHandler {
	return &TherapistHandler{
		therapistUsecase: therapistUsecase,
		mediaUsecase:     mediaUsecase,
		validator:        validator,
	}
}

// RegisterTherapist submits a therapist application
// @Summary Apply as a therapist
// @Description Creates a pending therapist record for the caller
// @Tags Therapists
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.RegisterTherapistRequest true "Application"
// @Success 201 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /therapists/register [post]
func (h *TherapistHandler) RegisterTherapist(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())
	if identity == nil {
		response.Unauthorized(w, "Invalid token")
		return
	}

	var req dto.RegisterTherapistRequest
	if !bindJSON(w, r, h.validator, &req) {
		return
	}

	therapist, err := h.therapistUsecase.Register(r.Context(), identity, &req)
	if err != nil {
		switch err {
		case usecase.ErrTherapistAlreadyRegistered:
			response.Redirect(w, http.StatusConflict, "Therapist already registered", usecase.PageTherapistDashboard)
		default:
			response.InternalServerError(w, "Failed to register therapist")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Application submitted successfully", therapist)
}

// GetMyTherapist
// @Summary Get the caller's therapist record
// @Tags Therapists
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /therapists/me [get]
func (h *TherapistHandler) GetMyTherapist(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	therapist, err := h.therapistUsecase.GetCurrent(r.Context(), userID)
	if err != nil {
		switch err {
		case usecase.ErrTherapistNotFound:
			response.NotFound(w, "Therapist not found")
		default:
			response.InternalServerError(w, "Failed to get therapist")
		}
		return
	}

	response.Success(w, http.StatusOK, "Therapist retrieved successfully", therapist)
}

// GetActiveTherapists
// @Summary List active therapists
// @Tags Therapists
// @Produce json
// @Success 200 {object} response.Response
// @Router /therapists [get]
func (h *TherapistHandler) GetActiveTherapists(w http.ResponseWriter, r *http.Request) {
	therapists, err := h.therapistUsecase.ListActive(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get therapists")
		return
	}

	response.Success(w, http.StatusOK, "Therapists retrieved successfully", therapists)
}

// GetTherapist
// @Summary Get a therapist by ID
// @Tags Therapists
// @Produce json
// @Param id path string true "Therapist ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /therapists/{id} [get]
func (h *TherapistHandler) GetTherapist(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid therapist ID", nil)
		return
	}

	therapist, err := h.therapistUsecase.GetByID(r.Context(), id)
	if err != nil {
		switch err {
		case usecase.ErrTherapistNotFound:
			response.NotFound(w, "Therapist not found")
		default:
			response.InternalServerError(w, "Failed to get therapist")
		}
		return
	}

	response.Success(w, http.StatusOK, "Therapist retrieved successfully", therapist)
}

// GetTherapistReviews
// @Summary List a therapist's reviews
// @Tags Therapists
// @Produce json
// @Param id path string true "Therapist ID"
// @Success 200 {object} response.Response
// @Router /therapists/{id}/reviews [get]
func (h *TherapistHandler) GetTherapistReviews(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid therapist ID", nil)
		return
	}

	reviews, err := h.therapistUsecase.GetReviews(r.Context(), id)
	if err != nil {
		response.InternalServerError(w, "Failed to get reviews")
		return
	}

	response.Success(w, http.StatusOK, "Reviews retrieved successfully", reviews)
}

// GetMyAppointments
// @Summary List the caller's sessions as a therapist
// @Tags Therapists
// @Security BearerAuth
// @Produce json
// @Param status query string false "scheduled, completed or cancelled"
// @Success 200 {object} response.Response
// @Router /therapists/me/appointments [get]
func (h *TherapistHandler) GetMyAppointments(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	var query dto.AppointmentQuery
	if err := decodeQuery(r, &query); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid query parameters", nil)
		return
	}
	if err := h.validator.Validate(&query); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	appointments, err := h.therapistUsecase.GetAppointments(r.Context(), userID, query.Status)
	if err != nil {
		switch err {
		case usecase.ErrTherapistNotFound:
			response.NotFound(w, "Therapist not found")
		default:
			response.InternalServerError(w, "Failed to get appointments")
		}
		return
	}

	response.Success(w, http.StatusOK, "Appointments retrieved successfully", appointments)
}

// UploadResume
// @Summary Upload the caller's resume
// @Tags Therapists
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "PDF or Word document"
// @Success 200 {object} response.Response
// @Failure 415 {object} response.Response
// @Router /therapists/me/resume [post]
func (h *TherapistHandler) UploadResume(w http.ResponseWriter, r *http.Request) {
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

	url, err := h.mediaUsecase.UploadResume(r.Context(), userID, file, contentType)
	if err != nil {
		writeUploadError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Resume uploaded successfully", &dto.UploadResponse{URL: url})
}
