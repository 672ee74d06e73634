package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"feedhub/internal/auth"
	apperrors "feedhub/internal/errors"
	"feedhub/internal/model"
	"feedhub/internal/repository"
)

const bcryptCost = 12

var validate = validator.New()

// AuthService handles signup and login.
type AuthService interface {
	Signup(ctx context.Context, email, password, name string) (*model.User, error)
	Login(ctx context.Context, email, password string) (token string, user *model.User, err error)
}

type authService struct {
	users repository.UserRepository
	jwt   *auth.JWTService
}

// NewAuthService creates a new authentication service.
func NewAuthService(users repository.UserRepository, jwt *auth.JWTService) AuthService {
	return &authService{users: users, jwt: jwt}
}

// Signup validates the input, rejects duplicate emails, and stores the user
// with a bcrypt-hashed password. The plaintext password is never persisted.
func (s *authService) Signup(ctx context.Context, email, password, name string) (*model.User, error) {
	email = strings.TrimSpace(email)
	name = strings.TrimSpace(name)

	var data []apperrors.FieldError
	if err := validate.Var(email, "required,email"); err != nil {
		data = append(data, apperrors.FieldError{Field: "email", Message: "Email is not valid."})
	}
	if len(strings.TrimSpace(password)) < 5 {
		data = append(data, apperrors.FieldError{Field: "password", Message: "Password is too short."})
	}
	if name == "" {
		data = append(data, apperrors.FieldError{Field: "name", Message: "Name is required."})
	}
	if len(data) > 0 {
		return nil, apperrors.ValidationFailed("Validation Failed!", data...)
	}

	existing, err := s.users.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, apperrors.Conflict("User exists already.")
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check user existence: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hashed),
		Name:         name,
		Status:       model.DefaultStatus,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

// Login verifies the credentials and issues an identity token. Unknown email
// and wrong password both map to Unauthenticated; no token is issued.
func (s *authService) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	user, err := s.users.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, apperrors.Unauthenticated("User could not be found.")
		}
		return "", nil, fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, apperrors.Unauthenticated("Wrong password.")
	}

	token, err := s.jwt.GenerateToken(user.ID, user.Email)
	if err != nil {
		return "", nil, fmt.Errorf("generate token: %w", err)
	}

	return token, user, nil
}
