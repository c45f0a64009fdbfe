package services

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/vkotelnikov/defect-tracking-api/internal/constants"
	"github.com/vkotelnikov/defect-tracking-api/internal/models"
	"github.com/vkotelnikov/defect-tracking-api/internal/policy"
	"github.com/vkotelnikov/defect-tracking-api/internal/repository"
)

var (
	ErrInvalidCredentials   = errors.New("invalid login or password")
	ErrLoginTaken           = errors.New("user with this login already exists")
	ErrPasswordTooShort     = errors.New("password too short")
	ErrRoleAboveOwn         = errors.New("cannot assign a role above your own")
	ErrUserNotFound         = errors.New("user not found")
	ErrFailedToHashPassword = errors.New("failed to hash password")
)

// Actor identifies the authenticated caller inside the service layer.
type Actor struct {
	ID     uint64
	RoleID uint64
}

// AuthService handles authentication related business logic.
type AuthService struct {
	userRepo repository.UserRepository
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository) *AuthService {
	return &AuthService{
		userRepo: userRepo,
	}
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Login    string
	Password string
}

// Login verifies credentials and returns the authenticated user with its
// role preloaded.
func (s *AuthService) Login(input LoginInput) (*models.User, error) {
	user, err := s.userRepo.FindByLogin(input.Login)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// RegisterInput represents the required information to create a new user.
type RegisterInput struct {
	Login       string
	DisplayName string
	Password    string
	RoleID      uint64
}

// Register creates a new user. Only callers holding the manage-users gate
// reach this point; the role cap is enforced here as well.
func (s *AuthService) Register(actor Actor, input RegisterInput) (*models.User, error) {
	login := strings.TrimSpace(input.Login)
	if login == "" {
		return nil, fmt.Errorf("login is required")
	}
	if len(input.Password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}
	if !policy.CanAssignRole(actor.RoleID, input.RoleID) {
		return nil, ErrRoleAboveOwn
	}

	if _, err := s.userRepo.FindByLogin(login); err == nil {
		return nil, ErrLoginTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check login: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	user := &models.User{
		RoleID:       input.RoleID,
		Login:        login,
		DisplayName:  input.DisplayName,
		PasswordHash: string(hashedPassword),
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.GetUser(user.ID)
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}
