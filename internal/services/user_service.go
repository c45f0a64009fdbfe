package services

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/vkotelnikov/defect-tracking-api/internal/constants"
	"github.com/vkotelnikov/defect-tracking-api/internal/models"
	"github.com/vkotelnikov/defect-tracking-api/internal/policy"
	"github.com/vkotelnikov/defect-tracking-api/internal/repository"
)

var (
	ErrForbidden     = errors.New("operation not permitted for this role")
	ErrSelfDelete    = errors.New("users cannot delete their own account")
	ErrLoginConflict = errors.New("another user already holds this login")
	ErrUnknownUser   = errors.New("user not found")
)

// UserService handles user management business logic.
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// ListUsers returns all users.
func (s *UserService) ListUsers() ([]models.User, error) {
	users, err := s.userRepo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// GetUser returns a single user.
func (s *UserService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnknownUser
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// UpdateUserInput represents input for updating a user profile.
type UpdateUserInput struct {
	Login       *string
	DisplayName *string
	RoleID      *uint64
	Password    *string
}

// UpdateUser edits a user. Managers may edit anyone; other callers only
// their own profile, and never their own role.
func (s *UserService) UpdateUser(actor Actor, id uint64, input UpdateUserInput) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnknownUser
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !policy.CanEditUser(actor.RoleID, actor.ID, id) {
		return nil, ErrForbidden
	}

	if input.RoleID != nil && *input.RoleID != user.RoleID {
		if actor.RoleID != constants.RoleManager {
			return nil, ErrForbidden
		}
		if !policy.CanAssignRole(actor.RoleID, *input.RoleID) {
			return nil, ErrRoleAboveOwn
		}
		user.RoleID = *input.RoleID
	}

	if input.Login != nil && *input.Login != user.Login {
		if existing, err := s.userRepo.FindByLogin(*input.Login); err == nil && existing.ID != id {
			return nil, ErrLoginConflict
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to check login: %w", err)
		}
		user.Login = *input.Login
	}

	if input.DisplayName != nil {
		user.DisplayName = *input.DisplayName
	}

	if input.Password != nil {
		if len(*input.Password) < constants.MinPasswordLength {
			return nil, ErrPasswordTooShort
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, ErrFailedToHashPassword
		}
		user.PasswordHash = string(hash)
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return s.userRepo.FindByID(id)
}

// DeleteUser removes a user. Self-deletion is rejected even for Managers.
func (s *UserService) DeleteUser(actor Actor, id uint64) error {
	if _, err := s.userRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUnknownUser
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	if actor.ID == id {
		return ErrSelfDelete
	}
	if !policy.CanDeleteUser(actor.RoleID, actor.ID, id) {
		return ErrForbidden
	}

	if err := s.userRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}
