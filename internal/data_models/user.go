package dto

import (
	"time"

	"taskmind.com/taskmind/pkg/constants"
	model "taskmind.com/taskmind/pkg/models"
)

// UserProfile is the outward view of a user. It never carries the password.
type UserProfile struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	Email           string         `json:"email"`
	Role            constants.Role `json:"role"`
	ProfileImageURL string         `json:"profileImageUrl,omitempty"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
}

func NewUserProfile(u *model.User) UserProfile {
	return UserProfile{
		ID:              u.ID,
		Name:            u.Name,
		Email:           u.Email,
		Role:            u.Role,
		ProfileImageURL: u.ProfileImageURL,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}

type UserWithTaskCounts struct {
	UserProfile
	PendingTasks    int64 `json:"pendingTasks"`
	InProgressTasks int64 `json:"inProgressTasks"`
	CompletedTasks  int64 `json:"completedTasks"`
}

type UpdateUserRequest struct {
	Name            *string `json:"name"`
	Email           *string `json:"email"`
	ProfileImageURL *string `json:"profileImageUrl"`
}

// UserSummary is the name/email pair embedded in task views.
type UserSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
