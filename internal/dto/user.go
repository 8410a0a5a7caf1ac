package dto

import (
	"time"

	"github.com/SscSPs/momo_backend/internal/core/domain"
)

// RegisterRequest defines the data needed to open a new account.
type RegisterRequest struct {
	FirstName string `json:"first_name" binding:"required,max=255"`
	LastName  string `json:"last_name" binding:"required,max=255"`
	Phone     string `json:"phone" binding:"required,max=20"`
	Pin       string `json:"pin" binding:"required,len=4,numeric"`
}

// LoginRequest defines the credentials for logging in.
type LoginRequest struct {
	Phone string `json:"phone" binding:"required"`
	Pin   string `json:"pin" binding:"required,len=4,numeric"`
}

// UpdateUserRequest defines the data allowed for updating a user.
// Using pointers to differentiate between omitted fields and zero-value fields.
type UpdateUserRequest struct {
	FirstName *string `json:"first_name" binding:"omitempty,min=1,max=255"`
	LastName  *string `json:"last_name" binding:"omitempty,min=1,max=255"`
	Phone     *string `json:"phone" binding:"omitempty,min=1,max=20"`
	Pin       *string `json:"pin" binding:"omitempty,len=4,numeric"`
}

// ListUsersParams defines query parameters for listing users.
type ListUsersParams struct {
	Limit  int `form:"limit,default=20" binding:"min=1,max=100"`
	Offset int `form:"offset,default=0" binding:"min=0"`
}

// UserResponse is the public summary of a user. The PIN hash is never part of it.
type UserResponse struct {
	ID        string    `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Phone     string    `json:"phone"`
	Balance   string    `json:"balance"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ListUsersResponse wraps the list of users.
type ListUsersResponse struct {
	Users []UserResponse `json:"users"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
	Token   string       `json:"token"`
}

// UserUpdatedResponse is returned after a profile update.
type UserUpdatedResponse struct {
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
}

// MessageResponse carries a single human readable message.
type MessageResponse struct {
	Message string `json:"message"`
}

// ToListUserResponse converts a slice of domain.User to ListUsersResponse DTO
func ToListUserResponse(users []domain.User) ListUsersResponse {
	userResponses := make([]UserResponse, len(users))
	for i := range users {
		userResponses[i] = ToUserResponse(&users[i])
	}
	return ListUsersResponse{
		Users: userResponses,
	}
}
