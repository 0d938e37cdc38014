package dto

import "time"

type RegisterRequest struct {
	Name             string `json:"name"`
	Email            string `json:"email"`
	Password         string `json:"password"`
	ProfileImageURL  string `json:"profileImageUrl"`
	AdminInviteToken string `json:"adminInviteToken"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UpdateProfileRequest struct {
	Name            *string `json:"name"`
	Email           *string `json:"email"`
	ProfileImageURL *string `json:"profileImageUrl"`
	Password        *string `json:"password"`
}

type AuthResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
	User      UserProfile `json:"user"`
}

// SessionResponse is the flat profile-plus-token body returned by register
// and profile updates.
type SessionResponse struct {
	UserProfile
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func NewSessionResponse(res *AuthResponse) SessionResponse {
	return SessionResponse{UserProfile: res.User, Token: res.Token, ExpiresAt: res.ExpiresAt}
}

type ImageUploadResponse struct {
	ImageURL string `json:"imageUrl"`
}
