package auth

import (
	"context"
	"log/slog"
	"sync"

	"github.com/frahmantamala/garments-tracker/internal"
)

// Service is the main auth service with dependencies
type Service struct {
	accounts AccountLookup
	hasher   Hasher
	codec    TokenCodec
	logger   *slog.Logger

	dummyOnce sync.Once
	dummyHash string
}

// NewService creates a new auth service
func NewService(accounts AccountLookup, hasher Hasher, codec TokenCodec, logger *slog.Logger) *Service {
	return &Service{
		accounts: accounts,
		hasher:   hasher,
		codec:    codec,
		logger:   logger,
	}
}

// Login verifies credentials and issues a session. Unknown emails and wrong passwords
// produce the same error after the same amount of bcrypt work. Suspension is only
// reported once the password matched.
func (s *Service) Login(ctx context.Context, dto LoginDTO) (*Session, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	account, err := s.accounts.FindByEmail(ctx, dto.Email)
	if err != nil {
		if internal.KindOf(err) != internal.ErrorTypeNotFound {
			return nil, err
		}
		s.hasher.Verify(dto.Password, s.dummyDigest())
		return nil, internal.ErrInvalidCredentials
	}

	if !s.hasher.Verify(dto.Password, account.PasswordHash) {
		s.logger.Info("login failed", "user_id", account.ID)
		return nil, internal.ErrInvalidCredentials
	}

	if account.IsSuspended() {
		s.logger.Info("login refused for suspended account", "user_id", account.ID)
		return nil, internal.ErrAccountSuspended
	}

	token, expiresAt, err := s.codec.Issue(internal.Identity{
		UserID: account.ID,
		Email:  account.Email,
		Role:   string(account.Role),
	}, 0)
	if err != nil {
		s.logger.Error("failed to sign session token", "user_id", account.ID, "error", err)
		return nil, internal.ErrInternal.WithCause(err)
	}

	s.logger.Info("login succeeded", "user_id", account.ID, "role", account.Role)
	return &Session{Token: token, ExpiresAt: expiresAt, User: account}, nil
}

// dummyDigest is compared against for unknown emails so both failure paths cost one
// bcrypt comparison at the configured cost.
func (s *Service) dummyDigest() string {
	s.dummyOnce.Do(func() {
		hash, err := s.hasher.Hash("garments-tracker-timing-equalizer")
		if err != nil {
			s.logger.Error("failed to prepare dummy digest", "error", err)
			return
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}
