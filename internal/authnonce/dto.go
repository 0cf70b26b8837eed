package authnonce

import (
	"time"

	"github.com/ahwlsqja/auth-nonce-service/pkg/nonce"
)

// ============================================================================
// Request DTOs
// ============================================================================

// IssueNonceRequest represents the optional request body for issuance.
// Owner is only used when the X-Client-Key header is absent.
type IssueNonceRequest struct {
	Owner string `json:"owner,omitempty" binding:"omitempty,max=255" example:"hhh"`
}

// VerifyNonceRequest represents the request body for verification
type VerifyNonceRequest struct {
	Token   string `json:"token" binding:"required,max=64" example:"550e8400-e29b-41d4-a716-446655440000"`
	Owner   string `json:"owner,omitempty" binding:"omitempty,max=255" example:"hhh"`
	Strict  bool   `json:"strict" example:"false"`
	Consume bool   `json:"consume" example:"false"`
}

// ConsumeNonceRequest represents the request body for consumption
type ConsumeNonceRequest struct {
	Token string `json:"token" binding:"required,max=64" example:"550e8400-e29b-41d4-a716-446655440000"`
}

// ============================================================================
// Response DTOs
// ============================================================================

// NonceResponse represents an issued nonce in API responses
type NonceResponse struct {
	Token     string    `json:"token" example:"550e8400-e29b-41d4-a716-446655440000"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// NonceAuditResponse is the full record view, including consumption state
type NonceAuditResponse struct {
	Token      string     `json:"token" example:"550e8400-e29b-41d4-a716-446655440000"`
	Owner      string     `json:"owner" example:"hhh"`
	IssuedAt   time.Time  `json:"issued_at"`
	ExpiresAt  time.Time  `json:"expires_at"`
	Consumed   bool       `json:"consumed" example:"false"`
	ConsumedAt *time.Time `json:"consumed_at,omitempty"`
}

// VerifyNonceResponse reports the verification outcome
type VerifyNonceResponse struct {
	Valid bool `json:"valid" example:"true"`
}

// ============================================================================
// Converters
// ============================================================================

// ToNonceResponse converts nonce.Nonce to NonceResponse
func ToNonceResponse(n *nonce.Nonce) *NonceResponse {
	if n == nil {
		return nil
	}
	return &NonceResponse{
		Token:     n.Token,
		IssuedAt:  n.IssuedAt,
		ExpiresAt: n.ExpiresAt,
	}
}

// ToNonceAuditResponse converts nonce.Nonce to NonceAuditResponse
func ToNonceAuditResponse(n *nonce.Nonce) *NonceAuditResponse {
	if n == nil {
		return nil
	}
	return &NonceAuditResponse{
		Token:      n.Token,
		Owner:      n.Owner,
		IssuedAt:   n.IssuedAt,
		ExpiresAt:  n.ExpiresAt,
		Consumed:   n.Consumed,
		ConsumedAt: n.ConsumedAt,
	}
}
