// AngelaMos | 2026
// dto.go

package auth

import (
	"github.com/carterperez-dev/store-ratings/internal/core"
)

// LoginRequest does not check the email format so a malformed address
// fails the same way as an unknown one.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,max=255"`
	Password string `json:"password" validate:"required,max=128"`
}

type RegisterRequest struct {
	Name     string `json:"name"     validate:"required,min=20,max=60"`
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,password"`
	Address  string `json:"address"  validate:"required,max=400"`
	Role     string `json:"role"     validate:"omitempty,oneof=Admin User StoreOwner"`
}

type UpdatePasswordRequest struct {
	NewPassword string `json:"newPassword" validate:"required,password"`
}

// SessionUser is the safe projection returned alongside a token.
type SessionUser struct {
	ID   string    `json:"id"`
	Name string    `json:"name"`
	Role core.Role `json:"role"`
}

type LoginResponse struct {
	Token string      `json:"token"`
	User  SessionUser `json:"user"`
}

type UserResponse struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	Email   string    `json:"email"`
	Address string    `json:"address"`
	Role    core.Role `json:"role"`
}

// UserInfo is the account view the auth flows need from the credential
// store.
type UserInfo struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Address      string
	Role         core.Role
}

// NewAccount is a validated registration with the password already hashed.
type NewAccount struct {
	Name         string
	Email        string
	PasswordHash string
	Address      string
	Role         core.Role
}
