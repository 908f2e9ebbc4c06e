// AngelaMos | 2026
// dto.go

package user

import (
	"time"
)

type CreateUserRequest struct {
	Name     string `json:"name"     validate:"required,min=20,max=60"`
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,password"`
	Address  string `json:"address"  validate:"required,max=400"`
	Role     string `json:"role"     validate:"omitempty,oneof=Admin User StoreOwner"`
}

type UpdateUserRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=Admin User StoreOwner"`
}

// UserResponse is the only outward projection of a user; it never carries
// the password hash.
type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Address   string    `json:"address"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

type ListUsersParams struct {
	Search string
	Role   string
}

func ToUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Address:   u.Address,
		Role:      u.Role.String(),
		CreatedAt: u.CreatedAt,
	}
}

func ToUserResponseList(users []User) []UserResponse {
	responses := make([]UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, ToUserResponse(&users[i]))
	}
	return responses
}
