package dto

import (
	"time"

	"github.com/spec-kit/animation-service/internal/domain"
)

// UserCreateRequest payload for new users.
type UserCreateRequest struct {
	Name     string `json:"name" validate:"required,max=255"`
	Password string `json:"password" validate:"required"`
}

// UserUpdateRequest payload for PATCH /api/user. Password is optional.
type UserUpdateRequest struct {
	ID       int64   `json:"id" validate:"required,gt=0"`
	Name     string  `json:"name" validate:"max=255"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=1"`
}

// UserResponse is the public view of a user. Password material is never included.
type UserResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewUserResponse converts a domain user.
func NewUserResponse(u *domain.User) UserResponse {
	return UserResponse{ID: u.ID, Name: u.Name, CreatedAt: u.CreatedAt, UpdatedAt: u.UpdatedAt}
}

// NewUserListResponse converts a slice of users.
func NewUserListResponse(users []domain.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, NewUserResponse(&users[i]))
	}
	return out
}
