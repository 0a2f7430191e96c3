package converter

import (
	"therapist-crm/internal/delivery/dto"
	"therapist-crm/internal/domain/entity"
)

// ProfileToResponse converts a Profile to UserResponse. The role falls back
// to the non-privileged default when unset.
func ProfileToResponse(profile *entity.Profile) *dto.UserResponse {
	if profile == nil {
		return nil
	}

	role := profile.Role
	if role == "" {
		role = entity.RoleStudent
	}

	return &dto.UserResponse{
		ID:        profile.ID,
		Email:     profile.Email,
		FullName:  profile.FullName,
		Phone:     profile.Phone,
		Role:      role,
		AvatarURL: profile.AvatarURL,
		CreatedAt: profile.CreatedAt,
		UpdatedAt: profile.UpdatedAt,
	}
}

// UserToResponse prefers the loaded profile and falls back to the
// credential record.
func UserToResponse(user *entity.User) *dto.UserResponse {
	if user == nil {
		return nil
	}
	if user.Profile != nil {
		return ProfileToResponse(user.Profile)
	}

	return &dto.UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		FullName:  user.FullName,
		Role:      entity.RoleStudent,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}
