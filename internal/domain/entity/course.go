package entity

import (
	"time"

	"github.com/google/uuid"
)

// CourseProgress is unique per (user_id, video_id); writes are upserts.
type CourseProgress struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID         uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:course_progress_user_video_key" json:"user_id"`
	VideoID        string     `gorm:"type:varchar(100);not null;uniqueIndex:course_progress_user_video_key" json:"video_id"`
	CourseType     string     `gorm:"type:varchar(50);index" json:"course_type"`
	LessonNumber   int        `json:"lesson_number"`
	Completed      bool       `gorm:"not null;default:false" json:"completed"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
	WatchedSeconds int        `gorm:"not null;default:0" json:"watched_seconds"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (CourseProgress) TableName() string {
	return "course_progress"
}

type Certification struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID            uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	CertificationType string    `gorm:"type:varchar(50);not null" json:"certification_type"`
	Passed            bool      `gorm:"not null;default:false" json:"passed"`
	IssuedAt          time.Time `gorm:"autoCreateTime" json:"issued_at"`
}

func (Certification) TableName() string {
	return "certifications"
}
