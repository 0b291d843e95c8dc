package service

import (
	"context"
	"fmt"
	"time"

	"uptime_monitor/internal/repository"
)

// TokenService verifies opaque tokens against their stored records
type TokenService interface {
	// Verify reports whether the token exists, belongs to the given phone
	// and has not expired. The error is only non-nil on store faults.
	Verify(ctx context.Context, tokenID, phone string) (bool, error)
}

type tokenService struct {
	tokenRepo repository.TokenRepository
}

// NewTokenService creates a new TokenService
func NewTokenService(tokenRepo repository.TokenRepository) TokenService {
	return &tokenService{tokenRepo: tokenRepo}
}

func (s *tokenService) Verify(ctx context.Context, tokenID, phone string) (bool, error) {
	token, err := s.tokenRepo.FindByID(ctx, tokenID)
	if err != nil {
		return false, fmt.Errorf("failed to read token for verification: %w", err)
	}
	if token == nil {
		return false, nil
	}
	return token.Phone == phone && !token.Expired(time.Now()), nil
}
