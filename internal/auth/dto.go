package auth

import (
	"github.com/marisolvega/cakery-backend/internal/identity"
	"github.com/marisolvega/cakery-backend/internal/profiles"
)

// RegisterRequest contains the payload for provisioning a new identity.
// The profile row is created in the same transaction with role viewer.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,min=3,max=40"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginRequest contains the credential payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest carries the rotation inputs: the expired (or expiring)
// access token plus the refresh token minted alongside it.
type RefreshRequest struct {
	AccessToken  string `json:"access_token" validate:"required"`
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// AuthResponse is returned by register, login, and refresh.
type AuthResponse struct {
	AccessToken  string                `json:"access_token"`
	RefreshToken string                `json:"refresh_token"`
	User         *identity.IdentityDTO `json:"user"`
	Profile      *profiles.ProfileDTO  `json:"profile"`
}
