package walletauth

import (
	"github.com/ahwlsqja/auth-nonce-service/internal/common/errors"
	"github.com/ahwlsqja/auth-nonce-service/internal/common/middleware"
	"github.com/gin-gonic/gin"
)

// Handler handles HTTP requests for wallet sign-in
type Handler struct {
	service *Service
}

// NewHandler creates a new wallet sign-in handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers wallet sign-in routes on the router group
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	auth := rg.Group("/wallet-auth")
	{
		auth.POST("/challenge", h.Challenge)
		auth.POST("/verify", h.Verify)
	}
}

// Challenge godoc
// @Summary Request a wallet login challenge
// @Description Issue a single-use nonce bound to the wallet address, along with the EIP-712 domain and types to sign
// @Tags wallet-auth
// @Accept json
// @Produce json
// @Param request body ChallengeRequest true "Wallet address"
// @Success 201 {object} middleware.SuccessResponse{data=ChallengeResponse} "Challenge issued"
// @Failure 400 {object} middleware.ErrorResponse "Invalid address"
// @Failure 500 {object} middleware.ErrorResponse "Internal server error"
// @Router /api/v1/wallet-auth/challenge [post]
func (h *Handler) Challenge(c *gin.Context) {
	var req ChallengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondError(c, errors.InvalidInput(err.Error()))
		return
	}

	resp, err := h.service.Challenge(c.Request.Context(), &req)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}

	middleware.RespondCreated(c, resp)
}

// Verify godoc
// @Summary Verify a signed wallet login
// @Description Verify the EIP-712 signature over {wallet, nonce, timestamp} and consume the nonce. The nonce stays usable if the signature is invalid.
// @Tags wallet-auth
// @Accept json
// @Produce json
// @Param request body VerifyRequest true "Signed login message"
// @Success 200 {object} middleware.SuccessResponse{data=VerifyResponse} "Wallet verified"
// @Failure 400 {object} middleware.ErrorResponse "Invalid input"
// @Failure 401 {object} middleware.ErrorResponse "Signature invalid or timestamp out of range"
// @Failure 403 {object} middleware.ErrorResponse "Nonce issued to another wallet"
// @Failure 404 {object} middleware.ErrorResponse "Nonce not found"
// @Failure 409 {object} middleware.ErrorResponse "Nonce already used"
// @Failure 410 {object} middleware.ErrorResponse "Nonce expired"
// @Failure 500 {object} middleware.ErrorResponse "Internal server error"
// @Router /api/v1/wallet-auth/verify [post]
func (h *Handler) Verify(c *gin.Context) {
	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondError(c, errors.InvalidInput(err.Error()))
		return
	}

	resp, err := h.service.Verify(c.Request.Context(), &req)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}

	middleware.RespondOK(c, resp)
}
