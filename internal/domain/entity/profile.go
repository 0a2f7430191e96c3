package entity

import (
	"time"

	"github.com/google/uuid"
)

// Profile is the identity record shared by every signed-in user.
// Its ID is the auth user ID.
type Profile struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email     string    `gorm:"type:varchar(255);index" json:"email"`
	FullName  string    `gorm:"type:varchar(255)" json:"full_name"`
	Phone     string    `gorm:"type:varchar(30)" json:"phone,omitempty"`
	Role      string    `gorm:"type:varchar(30);not null;default:'student_lead';index" json:"role"`
	AvatarURL string    `gorm:"type:text" json:"avatar_url,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Profile) TableName() string {
	return "profiles"
}

// Role names
const (
	RoleAdmin       = "admin"
	RoleTherapist   = "therapist"
	RolePatient     = "patient"
	RoleStudentLead = "student_lead"

	// RoleStudent is reported when a profile has no role or cannot be read.
	RoleStudent = "student"
)

// DefaultProfileName is used when neither metadata nor email yield a name.
const DefaultProfileName = "משתמש חדש"
