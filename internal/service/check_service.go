package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"uptime_monitor/internal/model"
	"uptime_monitor/internal/repository"
	"uptime_monitor/internal/utils"
)

var (
	ErrAuthentication   = errors.New("authentication problem")
	ErrUserNotFound     = errors.New("user not found")
	ErrTokenInvalid     = errors.New("token expired or authentication failed")
	ErrMaxChecksReached = errors.New("user already reached max check limit")
)

// CheckService provides check registration for authenticated users
type CheckService interface {
	CreateCheck(ctx context.Context, tokenID string, req model.CreateCheckRequest) (*model.Check, error)
}

type checkService struct {
	checkRepo repository.CheckRepository
	userRepo  repository.UserRepository
	tokenRepo repository.TokenRepository
	tokens    TokenService
	maxChecks int

	// serializes quota check + check create + user update per phone, so
	// two concurrent requests cannot overshoot the quota or lose an append
	mu        sync.Mutex
	userLocks map[string]*sync.Mutex
}

// NewCheckService creates a new CheckService
func NewCheckService(checkRepo repository.CheckRepository, userRepo repository.UserRepository, tokenRepo repository.TokenRepository, tokens TokenService, maxChecks int) CheckService {
	return &checkService{
		checkRepo: checkRepo,
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		tokens:    tokens,
		maxChecks: maxChecks,
		userLocks: make(map[string]*sync.Mutex),
	}
}

// CreateCheck authenticates the caller by token, enforces the per-user
// quota and persists the new check, linking it into the owner's record.
func (s *checkService) CreateCheck(ctx context.Context, tokenID string, req model.CreateCheckRequest) (*model.Check, error) {
	// binding catches missing fields; a whitespace-only url and an absent
	// successCodes array (nil, as opposed to present-but-empty) get here
	if strings.TrimSpace(req.URL) == "" || req.SuccessCodes == nil {
		return nil, ErrInvalidInput
	}

	if tokenID == "" {
		return nil, ErrAuthentication
	}

	token, err := s.lookupToken(ctx, tokenID)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByPhone(ctx, token.Phone)
	if err != nil {
		return nil, fmt.Errorf("failed to load token owner: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	valid, err := s.tokens.Verify(ctx, tokenID, user.Phone)
	if err != nil {
		return nil, err
	}
	if !valid {
		return nil, ErrTokenInvalid
	}

	lock := s.lockForUser(user.Phone)
	lock.Lock()
	defer lock.Unlock()

	// re-read under the lock: a concurrent request may have appended a
	// check after the read above
	user, err = s.userRepo.FindByPhone(ctx, user.Phone)
	if err != nil {
		return nil, fmt.Errorf("failed to reload user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if len(user.Checks) >= s.maxChecks {
		return nil, ErrMaxChecksReached
	}

	check := &model.Check{
		ID:             utils.CreateRandomString(model.CheckIDLength),
		UserPhone:      user.Phone,
		Protocol:       req.Protocol,
		URL:            req.URL,
		Method:         req.Method,
		SuccessCodes:   req.SuccessCodes,
		TimeoutSeconds: req.TimeoutSeconds,
		CreatedAt:      time.Now(),
	}

	if err := s.checkRepo.Create(ctx, check); err != nil {
		return nil, fmt.Errorf("failed to create check in repository: %w", err)
	}

	user.Checks = append(user.Checks, check.ID)
	if err := s.userRepo.Update(ctx, user); err != nil {
		// compensate so the check does not survive unreferenced
		if delErr := s.checkRepo.Delete(ctx, check.ID); delErr != nil {
			log.Printf("ERROR: check %s orphaned: user update and compensating delete both failed: %v; %v", check.ID, err, delErr)
		}
		return nil, fmt.Errorf("failed to link check to user: %w", err)
	}

	return check, nil
}

// lookupToken reads the token record, mapping a missing record to the
// authentication sentinel
func (s *checkService) lookupToken(ctx context.Context, tokenID string) (*model.Token, error) {
	token, err := s.tokenRepo.FindByID(ctx, tokenID)
	if err != nil {
		return nil, fmt.Errorf("failed to read token: %w", err)
	}
	if token == nil {
		return nil, ErrAuthentication
	}
	return token, nil
}

// lockForUser returns the mutex for a phone, creating it on first use.
// Entries are never evicted: releasing one while another goroutine still
// waits on it would let two requests hold different mutexes for the same
// phone, and the map is bounded by the number of registered users anyway.
func (s *checkService) lockForUser(phone string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.userLocks[phone]
	if !ok {
		lock = &sync.Mutex{}
		s.userLocks[phone] = lock
	}
	return lock
}
