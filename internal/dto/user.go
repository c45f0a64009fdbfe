package dto

import "github.com/vkotelnikov/defect-tracking-api/internal/models"

// UserDTO represents a user in API responses
type UserDTO struct {
	ID          uint64 `json:"id"`
	Login       string `json:"login"`
	DisplayName string `json:"display_name"`
	RoleID      uint64 `json:"role_id"`
	RoleName    string `json:"role_name,omitempty"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:          user.ID,
		Login:       user.Login,
		DisplayName: user.DisplayName,
		RoleID:      user.RoleID,
		RoleName:    user.Role.Name,
	}
}

// ToUserDTOs converts a slice of users
func ToUserDTOs(users []models.User) []UserDTO {
	dtos := make([]UserDTO, len(users))
	for i, u := range users {
		dtos[i] = ToUserDTO(u)
	}
	return dtos
}
