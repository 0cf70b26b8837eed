package eip712

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ahwlsqja/auth-nonce-service/pkg/nonce"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
	"go.uber.org/zap"
)

// EthVerifier implements Verifier interface using go-ethereum
type EthVerifier struct {
	config    Config
	nonces    NonceVerifier
	typedData apitypes.TypedData
	now       func() time.Time
	logger    *zap.Logger
}

// Compile-time interface compliance check
var _ Verifier = (*EthVerifier)(nil)

// NewEthVerifier creates a new EIP-712 verifier
func NewEthVerifier(config Config, nonces NonceVerifier, logger *zap.Logger) *EthVerifier {
	if config.TimestampTolerance == 0 {
		config.TimestampTolerance = DefaultTimestampTolerance
	}

	typedData := apitypes.TypedData{
		Types: apitypes.Types{
			"EIP712Domain": {
				{Name: "name", Type: "string"},
				{Name: "version", Type: "string"},
				{Name: "chainId", Type: "uint256"},
				{Name: "verifyingContract", Type: "address"},
			},
			primaryType: {
				{Name: "wallet", Type: "address"},
				{Name: "nonce", Type: "string"},
				{Name: "timestamp", Type: "uint256"},
			},
		},
		PrimaryType: primaryType,
		Domain: apitypes.TypedDataDomain{
			Name:              DomainName,
			Version:           DomainVersion,
			ChainId:           math.NewHexOrDecimal256(config.ChainID),
			VerifyingContract: config.VerifyingContract,
		},
	}

	return &EthVerifier{
		config:    config,
		nonces:    nonces,
		typedData: typedData,
		now:       time.Now,
		logger:    logger,
	}
}

// Domain returns the EIP-712 domain clients must sign under
func (v *EthVerifier) Domain() apitypes.TypedDataDomain {
	return v.typedData.Domain
}

// Types returns the EIP-712 type definitions, including EIP712Domain
func (v *EthVerifier) Types() apitypes.Types {
	return v.typedData.Types
}

// PrimaryType returns the name of the signed struct
func (v *EthVerifier) PrimaryType() string {
	return v.typedData.PrimaryType
}

// VerifyWalletOwnership verifies wallet ownership and spends the login nonce.
// The nonce is only consumed once the signature checks out, so a bad
// signature leaves it usable for a retry.
func (v *EthVerifier) VerifyWalletOwnership(
	ctx context.Context,
	address string,
	message WalletLoginMessage,
	signature []byte,
) error {
	owner, err := NormalizeAddress(address)
	if err != nil {
		return err
	}
	if !strings.EqualFold(message.Wallet, address) {
		return ErrAddressMismatch
	}

	if err := v.validateTimestamp(message.Timestamp); err != nil {
		return err
	}

	valid, err := v.VerifySignatureOnly(address, message, signature)
	if err != nil {
		return err
	}
	if !valid {
		v.logger.Warn("wallet signature mismatch", zap.String("address", owner))
		return ErrAddressMismatch
	}

	// strict + consume: replayed or foreign nonces come back as *nonce.Error
	if _, err := v.nonces.Verify(ctx, message.Nonce, owner, nonce.VerifyOptions{
		Strict:  true,
		Consume: true,
	}); err != nil {
		v.logger.Warn("login nonce rejected",
			zap.String("address", owner),
			zap.Error(err),
		)
		return fmt.Errorf("nonce validation failed: %w", err)
	}

	v.logger.Info("wallet ownership verified", zap.String("address", owner))
	return nil
}

// VerifySignatureOnly verifies only the cryptographic signature
func (v *EthVerifier) VerifySignatureOnly(
	address string,
	message WalletLoginMessage,
	signature []byte,
) (bool, error) {
	if len(signature) != 65 {
		return false, ErrInvalidSignatureLen
	}

	digest, err := v.digest(message)
	if err != nil {
		return false, err
	}

	// Normalize v value (27/28 -> 0/1)
	sig := make([]byte, 65)
	copy(sig, signature)
	if sig[64] >= 27 {
		sig[64] -= 27
	}

	pubKey, err := crypto.SigToPub(digest, sig)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	recoveredAddr := crypto.PubkeyToAddress(*pubKey)
	return strings.EqualFold(recoveredAddr.Hex(), address), nil
}

// digest computes keccak256(0x19 0x01 || domainSeparator || hashStruct(message))
func (v *EthVerifier) digest(message WalletLoginMessage) ([]byte, error) {
	messageMap := apitypes.TypedDataMessage{
		"wallet":    message.Wallet,
		"nonce":     message.Nonce,
		"timestamp": big.NewInt(message.Timestamp),
	}

	domainSeparator, err := v.typedData.HashStruct("EIP712Domain", v.typedData.Domain.Map())
	if err != nil {
		return nil, fmt.Errorf("failed to hash domain: %w", err)
	}

	messageHash, err := v.typedData.HashStruct(primaryType, messageMap)
	if err != nil {
		return nil, fmt.Errorf("failed to hash message: %w", err)
	}

	// byte-level concatenation, not string concat
	rawData := make([]byte, 0, 66)
	rawData = append(rawData, 0x19, 0x01)
	rawData = append(rawData, domainSeparator...)
	rawData = append(rawData, messageHash...)

	return crypto.Keccak256(rawData), nil
}

// validateTimestamp checks if the timestamp is within acceptable range
func (v *EthVerifier) validateTimestamp(timestamp int64) error {
	msgTime := time.Unix(timestamp, 0)
	now := v.now()

	if msgTime.Before(now.Add(-v.config.TimestampTolerance)) {
		return ErrSignatureExpired
	}
	if msgTime.After(now.Add(v.config.TimestampTolerance)) {
		return ErrSignatureFuture
	}
	return nil
}
