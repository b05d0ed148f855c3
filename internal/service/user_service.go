package service

import (
	"context"
	"strings"

	"inkwell/internal/models"
	"inkwell/internal/observability"
	"inkwell/internal/repository"
	"inkwell/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the work factor applied to every stored password hash.
const BcryptCost = 12

// UserService implements account registration and credential checks.
type UserService struct {
	userRepo repository.UserRepository
}

type RegisterInput struct {
	Email    string
	Name     string
	Password string
}

type LoginInput struct {
	Email    string
	Password string
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// Register creates a new account with a bcrypt-hashed password. A taken
// email surfaces as a conflict from the repository's unique constraint.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if err := validation.ValidateEmail(email); err != nil {
		observability.RecordAuthAttempt("register", "rejected")
		return nil, err
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		observability.RecordAuthAttempt("register", "rejected")
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		observability.RecordAuthAttempt("register", "rejected")
		return nil, models.NewValidationError("Name must not be empty")
	}
	if len(name) > 100 {
		observability.RecordAuthAttempt("register", "rejected")
		return nil, models.NewValidationError("Name must not exceed 100 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), BcryptCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Email:    email,
		Name:     name,
		Password: string(hash),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		observability.RecordAuthAttempt("register", "conflict")
		return nil, err
	}

	observability.RecordAuthAttempt("register", "success")
	return user, nil
}

// Login verifies credentials. Unknown emails and wrong passwords both come
// back as the same unauthorized error, so login cannot probe which emails
// are registered.
func (s *UserService) Login(ctx context.Context, in LoginInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		observability.RecordAuthAttempt("login", "failure")
		return nil, models.NewUnauthorizedError("Invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)); err != nil {
		observability.RecordAuthAttempt("login", "failure")
		return nil, models.NewUnauthorizedError("Invalid email or password")
	}

	observability.RecordAuthAttempt("login", "success")
	return user, nil
}

// GetUser returns the account for an authenticated subject.
func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}
