package walletauth

import (
	"math/big"
	"time"

	"github.com/ahwlsqja/auth-nonce-service/pkg/nonce"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
)

// ============================================================================
// Request DTOs
// ============================================================================

// ChallengeRequest asks for a login nonce bound to a wallet
// NOTE: Address 형식 검증은 서비스 레이어에서 ValidateEthereumAddress()로 수행
type ChallengeRequest struct {
	Address string `json:"address" binding:"required,len=42" example:"0x742d35Cc6634C0532925a3b844Bc454e4438f44e"`
}

// VerifyRequest carries the signed EIP-712 login message
type VerifyRequest struct {
	Address string `json:"address" binding:"required,len=42" example:"0x742d35Cc6634C0532925a3b844Bc454e4438f44e"`
	// Signature: 0x prefix + 130 hex chars (65 bytes)
	Signature string               `json:"signature" binding:"required,len=132" example:"0x1234...abcd"`
	Message   VerifyRequestMessage `json:"message" binding:"required"`
}

// VerifyRequestMessage contains the EIP-712 message data
type VerifyRequestMessage struct {
	Nonce     string `json:"nonce" binding:"required,min=8,max=64" example:"550e8400-e29b-41d4-a716-446655440000"`
	Timestamp int64  `json:"timestamp" binding:"required,gt=0" example:"1706000000"`
}

// ============================================================================
// Response DTOs
// ============================================================================

// DomainResponse is the EIP-712 domain the client signs under
type DomainResponse struct {
	Name              string `json:"name" example:"Auth Nonce Service"`
	Version           string `json:"version" example:"1"`
	ChainID           int64  `json:"chainId" example:"1"`
	VerifyingContract string `json:"verifyingContract" example:"0x0000000000000000000000000000000000000000"`
}

// TypeField is one member of an EIP-712 struct type
type TypeField struct {
	Name string `json:"name" example:"wallet"`
	Type string `json:"type" example:"address"`
}

// ChallengeResponse contains the login nonce and everything needed to build
// eth_signTypedData_v4 input
type ChallengeResponse struct {
	Address     string                 `json:"address" example:"0x742d35cc6634c0532925a3b844bc454e4438f44e"`
	Nonce       string                 `json:"nonce" example:"550e8400-e29b-41d4-a716-446655440000"`
	IssuedAt    time.Time              `json:"issued_at"`
	ExpiresAt   time.Time              `json:"expires_at"`
	Domain      DomainResponse         `json:"domain"`
	PrimaryType string                 `json:"primaryType" example:"WalletLogin"`
	Types       map[string][]TypeField `json:"types"`
}

// VerifyResponse reports a successful wallet login
type VerifyResponse struct {
	Address  string `json:"address" example:"0x742d35cc6634c0532925a3b844bc454e4438f44e"`
	Verified bool   `json:"verified" example:"true"`
}

// ============================================================================
// Converters
// ============================================================================

// ToDomainResponse converts an apitypes domain to DomainResponse
func ToDomainResponse(domain apitypes.TypedDataDomain) DomainResponse {
	resp := DomainResponse{
		Name:              domain.Name,
		Version:           domain.Version,
		VerifyingContract: domain.VerifyingContract,
	}
	if domain.ChainId != nil {
		resp.ChainID = (*big.Int)(domain.ChainId).Int64()
	}
	return resp
}

// ToTypeFields converts apitypes definitions to TypeField lists
func ToTypeFields(types apitypes.Types) map[string][]TypeField {
	out := make(map[string][]TypeField, len(types))
	for name, fields := range types {
		list := make([]TypeField, 0, len(fields))
		for _, f := range fields {
			list = append(list, TypeField{Name: f.Name, Type: f.Type})
		}
		out[name] = list
	}
	return out
}

// ToChallengeResponse assembles the challenge for an issued nonce
func ToChallengeResponse(address string, n *nonce.Nonce, signer Signer) *ChallengeResponse {
	if n == nil {
		return nil
	}
	return &ChallengeResponse{
		Address:     address,
		Nonce:       n.Token,
		IssuedAt:    n.IssuedAt,
		ExpiresAt:   n.ExpiresAt,
		Domain:      ToDomainResponse(signer.Domain()),
		PrimaryType: signer.PrimaryType(),
		Types:       ToTypeFields(signer.Types()),
	}
}
