package repository

import (
	"context"
	"errors"
	"fmt"

	"uptime_monitor/internal/model"
	"uptime_monitor/internal/storage"
)

const usersCollection = "users"

// UserRepository defines operations for user data
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByPhone(ctx context.Context, phone string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
}

type userRepository struct {
	store *storage.FileStore
}

// NewUserRepository creates a new UserRepository backed by the file store
func NewUserRepository(store *storage.FileStore) UserRepository {
	return &userRepository{store: store}
}

// Create persists a new user keyed by phone number
func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	if err := r.store.Create(ctx, usersCollection, user.Phone, user); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// FindByPhone retrieves a user by phone number
func (r *userRepository) FindByPhone(ctx context.Context, phone string) (*model.User, error) {
	user := &model.User{}
	if err := r.store.Read(ctx, usersCollection, phone, user); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil // not found is not an error for this method's contract, service layer handles it
		}
		return nil, fmt.Errorf("failed to find user by phone: %w", err)
	}
	return user, nil
}

// Update overwrites an existing user record
func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	if err := r.store.Update(ctx, usersCollection, user.Phone, user); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}
