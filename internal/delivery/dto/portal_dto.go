package dto

import (
	"time"

	"github.com/google/uuid"
)

type CourseProgressRequest struct {
	VideoID        string `json:"video_id" validate:"required,max=100"`
	CourseType     string `json:"course_type" validate:"required,max=50"`
	LessonNumber   int    `json:"lesson_number" validate:"gte=0"`
	WatchedSeconds int    `json:"watched_seconds" validate:"gte=0"`
	Completed      bool   `json:"completed"`
}

type CourseProgressResponse struct {
	VideoID        string     `json:"video_id"`
	CourseType     string     `json:"course_type"`
	LessonNumber   int        `json:"lesson_number"`
	Completed      bool       `json:"completed"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
	WatchedSeconds int        `json:"watched_seconds"`
}

type CourseSummaryResponse struct {
	CourseType        string                   `json:"course_type"`
	Lessons           []CourseProgressResponse `json:"lessons"`
	CompletedLessons  int                      `json:"completed_lessons"`
	TotalLessons      int                      `json:"total_lessons"`
	CompletionPercent int                      `json:"completion_percent"`
	WatchedSeconds    int                      `json:"watched_seconds"`
}

type CertificationResponse struct {
	ID                uuid.UUID `json:"id"`
	CertificationType string    `json:"certification_type"`
	Passed            bool      `json:"passed"`
	IssuedAt          time.Time `json:"issued_at"`
}

type UploadResponse struct {
	URL string `json:"url"`
}

type CourseProgressQuery struct {
	CourseType   string `json:"course_type" validate:"required,max=50"`
	TotalLessons int    `json:"total_lessons" validate:"gte=0"`
}

type VideoWatchedResponse struct {
	VideoID string `json:"video_id"`
	Watched bool   `json:"watched"`
}

type CertificationStatusResponse struct {
	CertificationType string `json:"certification_type"`
	Passed            bool   `json:"passed"`
}

type AppointmentQuery struct {
	Status string `json:"status" validate:"omitempty,oneof=scheduled completed cancelled"`
}
