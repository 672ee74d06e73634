package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "feedhub/internal/errors"
	"feedhub/internal/model"
	"feedhub/internal/repository"
)

// UserService exposes operations on the authenticated user's own record.
type UserService interface {
	Get(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetStatus(ctx context.Context, id uuid.UUID) (string, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*model.User, error)
}

type userService struct {
	users repository.UserRepository
}

// NewUserService builds a UserService.
func NewUserService(users repository.UserRepository) UserService {
	return &userService{users: users}
}

func (s *userService) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("User not found.")
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

func (s *userService) GetStatus(ctx context.Context, id uuid.UUID) (string, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	return user.Status, nil
}

// UpdateStatus mutates the caller's own status field. The gate guarantees id
// is the authenticated user, so no further ownership check is needed.
func (s *userService) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*model.User, error) {
	status = strings.TrimSpace(status)
	if status == "" {
		return nil, apperrors.ValidationFailed("Validation Failed!",
			apperrors.FieldError{Field: "status", Message: "Status must not be empty."})
	}

	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	user.Status = status
	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}
