package dto

import (
	"time"

	"github.com/yukikurage/task-tracker-api/internal/models"
)

// UserDTO represents a user in API responses. The credential hash is never
// part of it.
type UserDTO struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// AuthResponse is returned by register and login
type AuthResponse struct {
	Success bool    `json:"success"`
	Token   string  `json:"token"`
	User    UserDTO `json:"user"`
}

// UserResponse wraps a single user
type UserResponse struct {
	Success bool    `json:"success"`
	User    UserDTO `json:"user"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}
}
