package dto

import (
	"time"

	"github.com/spec-kit/flat-service/internal/domain"
)

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse is the outward user shape. The password hash has no field
// here and can never serialize.
type UserResponse struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Email        string      `json:"email"`
	PhoneNo      string      `json:"phoneNo,omitempty"`
	Address      string      `json:"address,omitempty"`
	Pincode      string      `json:"pincode,omitempty"`
	Role         domain.Role `json:"role"`
	ProfileImage *string     `json:"profile_image"`
	CreatedAt    time.Time   `json:"createdAt,omitempty"`
	UpdatedAt    time.Time   `json:"updatedAt,omitempty"`
}

// NewUserResponse maps a domain user onto the response shape.
func NewUserResponse(user domain.User) UserResponse {
	return UserResponse{
		ID:           user.ID,
		Name:         user.Name,
		Email:        user.Email,
		PhoneNo:      user.PhoneNo,
		Address:      user.Address,
		Pincode:      user.Pincode,
		Role:         user.Role,
		ProfileImage: user.ProfileImage,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
