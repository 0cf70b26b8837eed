package authnonce

import (
	"context"

	"github.com/ahwlsqja/auth-nonce-service/internal/common/errors"
	"github.com/ahwlsqja/auth-nonce-service/pkg/nonce"
	"go.uber.org/zap"
)

// Service handles nonce business logic on top of the lifecycle manager
type Service struct {
	manager *nonce.Manager
	logger  *zap.Logger
}

// NewService creates a new nonce service
func NewService(manager *nonce.Manager, logger *zap.Logger) *Service {
	return &Service{
		manager: manager,
		logger:  logger,
	}
}

// Issue creates a nonce bound to owner
func (s *Service) Issue(ctx context.Context, owner string) (*nonce.Nonce, error) {
	n, err := s.manager.Issue(ctx, owner)
	if err != nil {
		s.logger.Error("failed to issue nonce", zap.String("owner", owner), zap.Error(err))
		return nil, errors.StorageError(err)
	}
	return n, nil
}

// Verify checks token for owner. Strict rejections become AppErrors.
func (s *Service) Verify(ctx context.Context, owner string, req *VerifyNonceRequest) (bool, error) {
	ok, err := s.manager.Verify(ctx, req.Token, owner, nonce.VerifyOptions{
		Strict:  req.Strict,
		Consume: req.Consume,
	})
	if err != nil {
		return false, s.translate(err)
	}
	return ok, nil
}

// Consume marks token used
func (s *Service) Consume(ctx context.Context, token string) error {
	if err := s.manager.Consume(ctx, token); err != nil {
		return s.translate(err)
	}
	return nil
}

// Get returns the audit view of token; only its owner may read it
func (s *Service) Get(ctx context.Context, owner, token string) (*nonce.Nonce, error) {
	n, err := s.manager.Get(ctx, token)
	if err != nil {
		return nil, s.translate(err)
	}
	if n.Owner != owner {
		return nil, errors.NonceOwnerMismatch()
	}
	return n, nil
}

// translate maps nonce rejections to API errors; anything else is a storage failure
func (s *Service) translate(err error) error {
	reason, ok := nonce.ReasonOf(err)
	if !ok {
		s.logger.Error("nonce storage failure", zap.Error(err))
		return errors.StorageError(err)
	}
	return ErrorForReason(reason)
}

// ErrorForReason returns the API error for a nonce rejection reason
func ErrorForReason(reason nonce.Reason) *errors.AppError {
	var appErr *errors.AppError
	switch reason {
	case nonce.ReasonNotFound:
		appErr = errors.NonceNotFound()
	case nonce.ReasonExpired:
		appErr = errors.NonceExpired()
	case nonce.ReasonAlreadyConsumed:
		appErr = errors.NonceAlreadyConsumed()
	case nonce.ReasonOwnerMismatch:
		appErr = errors.NonceOwnerMismatch()
	default:
		return errors.Internal("Unknown nonce failure")
	}
	return appErr.WithDetails(map[string]any{"reason": string(reason)})
}
