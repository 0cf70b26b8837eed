package walletauth

import (
	"context"
	"encoding/hex"
	stderrors "errors"
	"strings"

	"github.com/ahwlsqja/auth-nonce-service/internal/authnonce"
	"github.com/ahwlsqja/auth-nonce-service/internal/common/errors"
	"github.com/ahwlsqja/auth-nonce-service/pkg/eip712"
	"github.com/ahwlsqja/auth-nonce-service/pkg/nonce"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
	"go.uber.org/zap"
)

// NonceIssuer issues login nonces. *nonce.Manager implements it.
type NonceIssuer interface {
	Issue(ctx context.Context, owner string) (*nonce.Nonce, error)
}

// Signer verifies login signatures and describes the typed data it expects
type Signer interface {
	eip712.Verifier
	Domain() apitypes.TypedDataDomain
	Types() apitypes.Types
	PrimaryType() string
}

// Service handles wallet sign-in business logic
type Service struct {
	issuer NonceIssuer
	signer Signer
	logger *zap.Logger
}

// NewService creates a new wallet sign-in service
func NewService(issuer NonceIssuer, signer Signer, logger *zap.Logger) *Service {
	return &Service{
		issuer: issuer,
		signer: signer,
		logger: logger,
	}
}

// Challenge issues a login nonce owned by the lower-cased wallet address
func (s *Service) Challenge(ctx context.Context, req *ChallengeRequest) (*ChallengeResponse, error) {
	// 1. Validate address format
	if err := ValidateEthereumAddress(req.Address); err != nil {
		return nil, err
	}

	// 2. Normalize address to lowercase
	address := strings.ToLower(req.Address)

	// 3. Issue nonce bound to the wallet
	n, err := s.issuer.Issue(ctx, address)
	if err != nil {
		s.logger.Error("failed to issue login nonce", zap.String("address", address), zap.Error(err))
		return nil, errors.StorageError(err)
	}

	s.logger.Info("login challenge issued",
		zap.String("address", address),
		zap.Time("expires_at", n.ExpiresAt),
	)

	return ToChallengeResponse(address, n, s.signer), nil
}

// Verify checks the signed login message and spends its nonce
func (s *Service) Verify(ctx context.Context, req *VerifyRequest) (*VerifyResponse, error) {
	// 1. Validate address format
	if err := ValidateEthereumAddress(req.Address); err != nil {
		return nil, err
	}

	// 2. Parse signature
	signature, err := parseSignature(req.Signature)
	if err != nil {
		return nil, errors.InvalidInput("Invalid signature format")
	}

	// 3. Build login message
	message := eip712.WalletLoginMessage{
		Wallet:    req.Address,
		Nonce:     req.Message.Nonce,
		Timestamp: req.Message.Timestamp,
	}

	// 4. Verify signature, then consume nonce
	if err := s.signer.VerifyWalletOwnership(ctx, req.Address, message, signature); err != nil {
		s.logger.Warn("wallet login failed",
			zap.String("address", strings.ToLower(req.Address)),
			zap.Error(err),
		)
		return nil, s.translate(err)
	}

	return &VerifyResponse{
		Address:  strings.ToLower(req.Address),
		Verified: true,
	}, nil
}

// translate maps verifier failures to API errors
func (s *Service) translate(err error) error {
	if reason, ok := nonce.ReasonOf(err); ok {
		return authnonce.ErrorForReason(reason)
	}

	switch {
	case stderrors.Is(err, eip712.ErrInvalidAddress),
		stderrors.Is(err, eip712.ErrInvalidSignatureLen):
		return errors.InvalidInput(err.Error())
	case stderrors.Is(err, eip712.ErrSignatureExpired),
		stderrors.Is(err, eip712.ErrSignatureFuture):
		return errors.Unauthorized("Signature timestamp out of range")
	case stderrors.Is(err, eip712.ErrAddressMismatch),
		stderrors.Is(err, eip712.ErrInvalidSignature):
		// 외부 메시지는 고정, 상세는 로그로만
		return errors.Unauthorized("Wallet signature verification failed")
	default:
		s.logger.Error("wallet login backend failure", zap.Error(err))
		return errors.StorageError(err)
	}
}

// ValidateEthereumAddress validates Ethereum address format
func ValidateEthereumAddress(address string) error {
	// Check basic format
	if !common.IsHexAddress(address) {
		return errors.InvalidInput("Invalid Ethereum address format")
	}

	// Check length (0x + 40 hex chars)
	if len(address) != 42 {
		return errors.InvalidInput("Invalid address length")
	}

	// Check checksum if mixed case (EIP-55)
	checksummed := common.HexToAddress(address).Hex()
	if address != strings.ToLower(address) && address != checksummed {
		return errors.InvalidInput("Invalid address checksum")
	}

	return nil
}

// parseSignature parses hex signature string to bytes
func parseSignature(sig string) ([]byte, error) {
	// Remove 0x prefix if present
	sig = strings.TrimPrefix(sig, "0x")

	// Must be 130 hex chars (65 bytes)
	if len(sig) != 130 {
		return nil, errors.InvalidInput("Signature must be 65 bytes")
	}

	return hex.DecodeString(sig)
}
