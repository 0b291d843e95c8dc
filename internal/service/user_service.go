package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"uptime_monitor/internal/model"
	"uptime_monitor/internal/repository"
	"uptime_monitor/internal/storage"
	"uptime_monitor/internal/utils"
)

var (
	ErrUserAlreadyExists = errors.New("user with this phone number already exists")
	ErrInvalidInput      = errors.New("you have a problem in your request")
)

// UserService provides user registration
type UserService interface {
	Register(ctx context.Context, req model.CreateUserRequest) (*model.User, error)
}

type userService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new UserService
func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

// Register creates a new user account keyed by phone number
func (s *userService) Register(ctx context.Context, req model.CreateUserRequest) (*model.User, error) {
	// binding catches missing fields; whitespace-only values and padded
	// phone numbers still have to be rejected here
	if strings.TrimSpace(req.FirstName) == "" ||
		strings.TrimSpace(req.LastName) == "" ||
		strings.TrimSpace(req.Password) == "" ||
		len(strings.TrimSpace(req.Phone)) != 11 ||
		!req.TOSAgreement {
		return nil, ErrInvalidInput
	}

	existingUser, err := s.userRepo.FindByPhone(ctx, req.Phone)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existingUser != nil {
		return nil, ErrUserAlreadyExists
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
		Password:     hashedPassword,
		TOSAgreement: req.TOSAgreement,
		Checks:       []string{},
		CreatedAt:    time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// a concurrent registration can win between the existence check and
		// the create; the store's exclusive create turns that into a conflict
		if errors.Is(err, storage.ErrAlreadyExists) {
			return nil, ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("failed to create user in repository: %w", err)
	}

	return user, nil
}
