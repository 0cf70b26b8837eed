package eip712

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ahwlsqja/auth-nonce-service/pkg/nonce"
	"github.com/ethereum/go-ethereum/common"
)

const (
	// DefaultTimestampTolerance is the default allowed time drift for signatures
	DefaultTimestampTolerance = 5 * time.Minute

	// DomainName and DomainVersion identify this service to wallets
	DomainName    = "Auth Nonce Service"
	DomainVersion = "1"

	primaryType = "WalletLogin"
)

// WalletLoginMessage represents the EIP-712 typed data message
type WalletLoginMessage struct {
	Wallet    string `json:"wallet"`
	Nonce     string `json:"nonce"`
	Timestamp int64  `json:"timestamp"`
}

// Config holds EIP-712 domain configuration
type Config struct {
	ChainID            int64
	VerifyingContract  string
	TimestampTolerance time.Duration
}

// NonceVerifier checks and spends a login nonce. *nonce.Manager implements it.
type NonceVerifier interface {
	Verify(ctx context.Context, token, owner string, opts nonce.VerifyOptions) (bool, error)
}

// Verifier defines the interface for EIP-712 signature verification
type Verifier interface {
	// VerifyWalletOwnership validates the timestamp and signature, then
	// consumes the nonce bound to address
	VerifyWalletOwnership(ctx context.Context, address string, message WalletLoginMessage, signature []byte) error

	// VerifySignatureOnly verifies only the cryptographic signature without nonce handling
	VerifySignatureOnly(address string, message WalletLoginMessage, signature []byte) (bool, error)
}

// Error definitions
var (
	ErrInvalidSignature    = errors.New("invalid signature")
	ErrSignatureExpired    = errors.New("signature timestamp expired")
	ErrSignatureFuture     = errors.New("signature timestamp is in the future")
	ErrInvalidAddress      = errors.New("invalid ethereum address")
	ErrAddressMismatch     = errors.New("recovered address does not match")
	ErrInvalidSignatureLen = errors.New("signature must be 65 bytes")
)

// NormalizeAddress validates a hex address and returns its lower-case form,
// which is used as the nonce owner.
func NormalizeAddress(address string) (string, error) {
	if !common.IsHexAddress(address) {
		return "", ErrInvalidAddress
	}
	return strings.ToLower(common.HexToAddress(address).Hex()), nil
}
