package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/task-tracker-api/internal/models"
	"github.com/yukikurage/task-tracker-api/internal/repository"
	"gorm.io/gorm"
)

// ProfileService reads and updates the caller's own user record.
type ProfileService struct {
	userRepo repository.UserRepository
}

// NewProfileService creates a new ProfileService
func NewProfileService(userRepo repository.UserRepository) *ProfileService {
	return &ProfileService{userRepo: userRepo}
}

// UpdateProfileInput holds the fields a caller may change. Nil means "not provided".
type UpdateProfileInput struct {
	Name  *string
	Email *string
}

// GetProfile returns the caller's user record
func (s *ProfileService) GetProfile(ctx context.Context, callerID string) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, callerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// UpdateProfile applies the provided fields to the caller's user record
func (s *ProfileService) UpdateProfile(ctx context.Context, callerID string, input UpdateProfileInput) (*models.User, error) {
	var errs ValidationErrors

	var name, email string
	if input.Name != nil {
		name = strings.TrimSpace(*input.Name)
		validateName(&errs, name)
	}
	if input.Email != nil {
		email = normalizeEmail(*input.Email)
		if !isEmail(email) {
			errs.add("email", "Please provide a valid email")
		}
	}
	if err := errs.err(); err != nil {
		return nil, err
	}

	user, err := s.GetProfile(ctx, callerID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		user.Name = name
	}
	if input.Email != nil && email != user.Email {
		existing, err := s.userRepo.FindByEmail(ctx, email)
		switch {
		case err == nil && existing.ID != user.ID:
			return nil, ErrEmailTaken
		case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, fmt.Errorf("failed to check email: %w", err)
		}
		user.Email = email
	}

	if err := s.userRepo.UpdateProfile(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return user, nil
}
