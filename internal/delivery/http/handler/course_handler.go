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
	"github.com/gorilla/mux"
)

type CourseHandler struct {
	courseUsecase usecase.CourseUsecase
	validator     *validator.CustomValidator
}

func NewCourseHandler(courseUsecase usecase.CourseUsecase, validator *validator.CustomValidator) *CourseHandler {
	return &CourseHandler{
		courseUsecase: courseUsecase,
		validator:     validator,
	}
}

// GetProgress
// @Summary Course progress summary
// @Tags Courses
// @Security BearerAuth
// @Produce json
// @Param course_type query string true "Course type"
// @Param total_lessons query int false "Lessons in the course"
// @Success 200 {object} response.Response
// @Router /courses/progress [get]
func (h *CourseHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	var query dto.CourseProgressQuery
	if err := decodeQuery(r, &query); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid query parameters", nil)
		return
	}
	if err := h.validator.Validate(&query); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	summary, err := h.courseUsecase.GetProgress(r.Context(), userID, query.CourseType, query.TotalLessons)
	if err != nil {
		response.InternalServerError(w, "Failed to get course progress")
		return
	}

	response.Success(w, http.StatusOK, "Course progress retrieved successfully", summary)
}

// IsVideoWatched
// @Summary Whether the caller finished a video
// @Tags Courses
// @Security BearerAuth
// @Produce json
// @Param video_id path string true "Video ID"
// @Success 200 {object} response.Response
// @Router /courses/videos/{video_id} [get]
func (h *CourseHandler) IsVideoWatched(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	videoID := mux.Vars(r)["video_id"]
	watched, err := h.courseUsecase.IsVideoWatched(r.Context(), userID, videoID)
	if err != nil {
		response.InternalServerError(w, "Failed to get video progress")
		return
	}

	response.Success(w, http.StatusOK, "Video progress retrieved successfully", &dto.VideoWatchedResponse{VideoID: videoID, Watched: watched})
}

// MarkVideoWatched
// @Summary Mark a video as completed
// @Tags Courses
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CourseProgressRequest true "Progress"
// @Success 200 {object} response.Response
// @Router /courses/progress/watched [post]
func (h *CourseHandler) MarkVideoWatched(w http.ResponseWriter, r *http.Request) {
	h.saveProgress(w, r, h.courseUsecase.MarkVideoWatched)
}

// UpdateWatchTime
// @Summary Record how far the caller got in a video
// @Tags Courses
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CourseProgressRequest true "Progress"
// @Success 200 {object} response.Response
// @Router /courses/progress/watch-time [put]
func (h *CourseHandler) UpdateWatchTime(w http.ResponseWriter, r *http.Request) {
	h.saveProgress(w, r, h.courseUsecase.UpdateWatchTime)
}

func (h *CourseHandler) saveProgress(w http.ResponseWriter, r *http.Request, save func(context.Context, uuid.UUID, *dto.CourseProgressRequest) (*dto.CourseProgressResponse, error)) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	var req dto.CourseProgressRequest
	if !bindJSON(w, r, h.validator, &req) {
		return
	}

	progress, err := save(r.Context(), userID, &req)
	if err != nil {
		response.InternalServerError(w, "Failed to save course progress")
		return
	}

	response.Success(w, http.StatusOK, "Course progress saved", progress)
}

// GetCertifications
// @Summary List the caller's certifications
// @Tags Courses
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Router /certifications [get]
func (h *CourseHandler) GetCertifications(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	certs, err := h.courseUsecase.GetCertifications(r.Context(), userID)
	if err != nil {
		response.InternalServerError(w, "Failed to get certifications")
		return
	}

	response.Success(w, http.StatusOK, "Certifications retrieved successfully", certs)
}

// HasCertification
// @Summary Whether the caller passed a certification
// @Tags Courses
// @Security BearerAuth
// @Produce json
// @Param type path string true "Certification type"
// @Success 200 {object} response.Response
// @Router /certifications/{type} [get]
func (h *CourseHandler) HasCertification(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	certType := mux.Vars(r)["type"]
	passed, err := h.courseUsecase.HasCertification(r.Context(), userID, certType)
	if err != nil {
		response.InternalServerError(w, "Failed to get certification")
		return
	}

	response.Success(w, http.StatusOK, "Certification retrieved successfully", &dto.CertificationStatusResponse{CertificationType: certType, Passed: passed})
}
