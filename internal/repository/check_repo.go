package repository

import (
	"context"
	"fmt"

	"uptime_monitor/internal/model"
	"uptime_monitor/internal/storage"
)

const checksCollection = "checks"

// CheckRepository defines operations for check data
type CheckRepository interface {
	Create(ctx context.Context, check *model.Check) error
	Delete(ctx context.Context, id string) error
}

type checkRepository struct {
	store *storage.FileStore
}

// NewCheckRepository creates a new CheckRepository backed by the file store
func NewCheckRepository(store *storage.FileStore) CheckRepository {
	return &checkRepository{store: store}
}

// Create persists a new check keyed by its id
func (r *checkRepository) Create(ctx context.Context, check *model.Check) error {
	if err := r.store.Create(ctx, checksCollection, check.ID, check); err != nil {
		return fmt.Errorf("failed to create check: %w", err)
	}
	return nil
}

// Delete removes a check record, used to compensate a failed user update
func (r *checkRepository) Delete(ctx context.Context, id string) error {
	if err := r.store.Delete(ctx, checksCollection, id); err != nil {
		return fmt.Errorf("failed to delete check: %w", err)
	}
	return nil
}
