package repository

import (
	"context"
	"errors"
	"fmt"

	"uptime_monitor/internal/model"
	"uptime_monitor/internal/storage"
)

const tokensCollection = "tokens"

// TokenRepository defines read access to token records. Issuance lives
// outside this service, so there is no Create here.
type TokenRepository interface {
	FindByID(ctx context.Context, id string) (*model.Token, error)
}

type tokenRepository struct {
	store *storage.FileStore
}

// NewTokenRepository creates a new TokenRepository backed by the file store
func NewTokenRepository(store *storage.FileStore) TokenRepository {
	return &tokenRepository{store: store}
}

// FindByID retrieves a token record by its opaque id
func (r *tokenRepository) FindByID(ctx context.Context, id string) (*model.Token, error) {
	token := &model.Token{}
	if err := r.store.Read(ctx, tokensCollection, id, token); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil // not found
		}
		return nil, fmt.Errorf("failed to find token by id: %w", err)
	}
	return token, nil
}
