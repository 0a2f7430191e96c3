package handler

import (
	"context"
	"net/http"

	"therapist-crm/internal/delivery/dto"
	"therapist-crm/internal/delivery/http/middleware"
	"therapist-crm/internal/usecase"
	"therapist-crm/pkg/response"

	"github.com/google/uuid"
)

type NotificationHandler struct {
	notificationUsecase usecase.NotificationUsecase
}

func NewNotificationHandler(notificationUsecase usecase.NotificationUsecase) *NotificationHandler {
	return &NotificationHandler{
		notificationUsecase: notificationUsecase,
	}
}

// GetFailedNotifications
// @Summary List notifications that exhausted their retries
// @Tags Notifications
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Router /admin/notifications/failed [get]
func (h *NotificationHandler) GetFailedNotifications(w http.ResponseWriter, r *http.Request) {
	list, err := h.notificationUsecase.ListFailed(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get notifications")
		return
	}

	response.Success(w, http.StatusOK, "Notifications retrieved successfully", list)
}

// RetryNotification
// @Summary Queue a failed notification for another attempt
// @Tags Notifications
// @Security BearerAuth
// @Produce json
// @Param id path string true "Notification ID"
// @Success 200 {object} response.Response
// @Router /admin/notifications/{id}/retry [post]
func (h *NotificationHandler) RetryNotification(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, h.notificationUsecase.Retry, "Notification queued for retry")
}

// AbandonNotification
// @Summary Stop retrying a notification
// @Tags Notifications
// @Security BearerAuth
// @Produce json
// @Param id path string true "Notification ID"
// @Success 200 {object} response.Response
// @Router /admin/notifications/{id}/abandon [post]
func (h *NotificationHandler) AbandonNotification(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, h.notificationUsecase.Abandon, "Notification abandoned")
}

func (h *NotificationHandler) act(w http.ResponseWriter, r *http.Request, action func(ctx context.Context, actorID, id uuid.UUID) (*dto.NotificationResponse, error), message string) {
	actorID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	id, err := pathUUID(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid notification ID", nil)
		return
	}

	n, err := action(r.Context(), actorID, id)
	if err != nil {
		switch err {
		case usecase.ErrNotificationNotFound:
			response.NotFound(w, "Notification not found")
		case usecase.ErrNotificationClosed:
			response.Error(w, http.StatusConflict, "Notification is already closed", nil)
		default:
			response.InternalServerError(w, "Failed to update notification")
		}
		return
	}

	response.Success(w, http.StatusOK, message, n)
}
