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

type AssistantHandler struct {
	assistantUsecase usecase.AssistantUsecase
	validator        *validator.CustomValidator
}

func NewAssistantHandler(assistantUsecase usecase.AssistantUsecase, validator *validator.CustomValidator) *AssistantHandler {
	return &AssistantHandler{
		assistantUsecase: assistantUsecase,
		validator:        validator,
	}
}

// Ask
// @Summary Ask the course study assistant
// @Description Answers in Hebrew; falls back to a canned reply when the assistant is not configured or unavailable
// @Tags Courses
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.AssistantRequest true "Question and history"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /courses/assistant [post]
func (h *AssistantHandler) Ask(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	var req dto.AssistantRequest
	if !bindJSON(w, r, h.validator, &req) {
		return
	}

	reply, err := h.assistantUsecase.Ask(r.Context(), userID, &req)
	if err != nil {
		if errors.Is(err, usecase.ErrEmptyMessage) {
			response.ValidationError(w, map[string]string{"message": "message is required"})
			return
		}
		response.InternalServerError(w, "Failed to reach the assistant")
		return
	}

	response.Success(w, http.StatusOK, "Reply generated", reply)
}
