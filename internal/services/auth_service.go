package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/task-tracker-api/internal/auth"
	"github.com/yukikurage/task-tracker-api/internal/constants"
	"github.com/yukikurage/task-tracker-api/internal/models"
	"github.com/yukikurage/task-tracker-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken           = errors.New("user already exists with this email")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrUnauthorized         = errors.New("not authorized")
	ErrUserNotFound         = errors.New("user not found")
	ErrFailedToHashPassword = errors.New("failed to hash password")
)

// AuthService handles registration, login and credential verification.
type AuthService struct {
	userRepo repository.UserRepository
	tokens   *auth.TokenManager
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, tokens *auth.TokenManager) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

// RegisterInput represents the required information to create a new user.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// Register creates a new user and issues a credential for it.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*models.User, string, error) {
	name := strings.TrimSpace(input.Name)
	email := normalizeEmail(input.Email)

	var errs ValidationErrors
	validateName(&errs, name)
	if !isEmail(email) {
		errs.add("email", "Please provide a valid email")
	}
	if len(input.Password) < constants.MinPasswordLength {
		errs.add("password", fmt.Sprintf("Password must be at least %d characters", constants.MinPasswordLength))
	}
	if err := errs.err(); err != nil {
		return nil, "", err
	}

	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return nil, "", ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", fmt.Errorf("failed to check email: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", ErrFailedToHashPassword
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashedPassword),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// lost a race with a concurrent registration
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}

	return user, token, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string
	Password string
}

// Login verifies credentials and issues a fresh credential. An unknown email
// and a wrong password fail identically.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*models.User, string, error) {
	email := normalizeEmail(input.Email)

	var errs ValidationErrors
	if email == "" {
		errs.add("email", "Email is required")
	}
	if input.Password == "" {
		errs.add("password", "Password is required")
	}
	if err := errs.err(); err != nil {
		return nil, "", err
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}

	return user, token, nil
}

// ResolveIdentity returns the user ID bound into a presented credential.
func (s *AuthService) ResolveIdentity(token string) (string, error) {
	if token == "" {
		return "", ErrUnauthorized
	}

	userID, err := s.tokens.Parse(token)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}

	return userID, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

func validateName(errs *ValidationErrors, name string) {
	switch n := runeLen(name); {
	case n == 0:
		errs.add("name", "Name is required")
	case n < constants.MinNameLength:
		errs.add("name", fmt.Sprintf("Name must be at least %d characters", constants.MinNameLength))
	case n > constants.MaxNameLength:
		errs.add("name", fmt.Sprintf("Name cannot be more than %d characters", constants.MaxNameLength))
	}
}
