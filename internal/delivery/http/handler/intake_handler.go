package handler

import (
	"errors"
	"net/http"

	"therapist-crm/internal/delivery/dto"
	"therapist-crm/internal/delivery/http/middleware"
	"therapist-crm/internal/usecase"
	"therapist-crm/pkg/response"
	"therapist-crm/pkg/validator"
)

type IntakeHandler struct {
	intakeUsecase usecase.IntakeUsecase
	validator     *validator.CustomValidator
}

func NewIntakeHandler(intakeUsecase usecase.IntakeUsecase, validator *validator.CustomValidator) *IntakeHandler {
	return &IntakeHandler{
		intakeUsecase: intakeUsecase,
		validator:     validator,
	}
}

// SubmitIntake handles the patient questionnaire
// @Summary Submit patient intake
// @Description Signed-in callers become patients, anonymous callers are stored as leads
// @Tags Intake
// @Accept json
// @Produce json
// @Param request body dto.IntakeRequest true "Intake Request"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /intake [post]
func (h *IntakeHandler) SubmitIntake(w http.ResponseWriter, r *http.Request) {
	var req dto.IntakeRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	result, err := h.intakeUsecase.Submit(r.Context(), middleware.IdentityFromContext(r.Context()), &req)
	if err != nil {
		var fieldErrs usecase.FieldErrors
		switch {
		case errors.As(err, &fieldErrs):
			response.ValidationError(w, fieldErrs)
		case errors.Is(err, usecase.ErrAlreadyRegistered):
			response.Redirect(w, http.StatusConflict, "Patient already registered", usecase.PagePatientDashboard)
		default:
			response.InternalServerError(w, "Failed to submit intake")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Intake submitted successfully", result)
}

// SubmitContact handles the public contact form
// @Summary Submit contact form
// @Tags Intake
// @Accept json
// @Produce json
// @Param request body dto.ContactRequest true "Contact Request"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /contact [post]
func (h *IntakeHandler) SubmitContact(w http.ResponseWriter, r *http.Request) {
	var req dto.ContactRequest
	if !bindJSON(w, r, h.validator, &req) {
		return
	}

	lead, err := h.intakeUsecase.SubmitContact(r.Context(), &req)
	if err != nil {
		response.InternalServerError(w, "Failed to submit contact form")
		return
	}

	response.Success(w, http.StatusCreated, "Message received", lead)
}
