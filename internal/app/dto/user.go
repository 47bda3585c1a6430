package dto

import (
	"time"

	domainuser "stayhub/internal/domain/user"
)

type UserProfile struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	DisplayName string    `json:"display_name"`
	Phone       string    `json:"phone,omitempty"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	Roles       []string  `json:"roles"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type AuthResponse struct {
	User      UserProfile `json:"user"`
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
}

type SavedProperty struct {
	Property PropertySummary `json:"property"`
	SavedAt  time.Time       `json:"saved_at"`
}

type SavedCollection struct {
	Items []SavedProperty `json:"items"`
}

func MapUserProfile(user *domainuser.User) UserProfile {
	if user == nil {
		return UserProfile{}
	}
	roles := make([]string, 0, len(user.Roles))
	for _, role := range user.Roles {
		roles = append(roles, string(role))
	}
	return UserProfile{
		ID:          string(user.ID),
		Email:       user.Email,
		FirstName:   user.Profile.FirstName,
		LastName:    user.Profile.LastName,
		DisplayName: user.Profile.DisplayName(),
		Phone:       user.Profile.Phone,
		AvatarURL:   user.Profile.AvatarURL,
		Roles:       roles,
		CreatedAt:   user.CreatedAt,
		UpdatedAt:   user.UpdatedAt,
	}
}

func NewAuthResponse(user *domainuser.User, token string, expiresAt time.Time) AuthResponse {
	return AuthResponse{
		User:      MapUserProfile(user),
		Token:     token,
		ExpiresAt: expiresAt,
	}
}
