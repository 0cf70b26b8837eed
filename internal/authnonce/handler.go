package authnonce

import (
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	apperrors "github.com/ahwlsqja/auth-nonce-service/internal/common/errors"
	"github.com/ahwlsqja/auth-nonce-service/internal/common/middleware"
	"github.com/gin-gonic/gin"
)

// Handler handles HTTP requests for nonce operations
type Handler struct {
	service *Service
}

// NewHandler creates a new nonce handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers nonce routes on the router group
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	nonces := rg.Group("/nonces")
	{
		nonces.POST("", h.IssueNonce)
		nonces.POST("/verify", h.VerifyNonce)
		nonces.POST("/consume", h.ConsumeNonce)
		nonces.GET("/:token", h.GetNonce)
	}
}

// maxOwnerLength matches the owner column (VARCHAR(255)) and the body binding
const maxOwnerLength = 255

// resolveOwner prefers the X-Client-Key header over the body owner
func resolveOwner(c *gin.Context, bodyOwner string) (string, error) {
	if owner := middleware.GetClientKey(c); owner != "" {
		if utf8.RuneCountInString(owner) > maxOwnerLength {
			return "", apperrors.InvalidInput(fmt.Sprintf("Client key must be at most %d characters", maxOwnerLength))
		}
		return owner, nil
	}
	if bodyOwner != "" {
		return bodyOwner, nil
	}
	return "", apperrors.InvalidInput("Client key is required (X-Client-Key header or owner field)")
}

// IssueNonce godoc
// @Summary Issue a nonce
// @Description Issue a single-use nonce bound to the calling client
// @Tags nonces
// @Accept json
// @Produce json
// @Param X-Client-Key header string false "Client key the nonce is bound to"
// @Param request body IssueNonceRequest false "Owner, when no client key header is sent"
// @Success 201 {object} middleware.SuccessResponse{data=NonceResponse} "Nonce issued"
// @Failure 400 {object} middleware.ErrorResponse "Missing client key"
// @Failure 500 {object} middleware.ErrorResponse "Internal server error"
// @Router /api/v1/nonces [post]
func (h *Handler) IssueNonce(c *gin.Context) {
	var req IssueNonceRequest
	// body is optional
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		middleware.RespondError(c, apperrors.InvalidInput(err.Error()))
		return
	}

	owner, err := resolveOwner(c, req.Owner)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}

	n, err := h.service.Issue(c.Request.Context(), owner)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}

	middleware.RespondCreated(c, ToNonceResponse(n))
}

// VerifyNonce godoc
// @Summary Verify a nonce
// @Description Verify a nonce for the calling client. In strict mode the failure reason is returned as an error; otherwise valid=false. With consume=true the nonce is spent atomically on success.
// @Tags nonces
// @Accept json
// @Produce json
// @Param X-Client-Key header string false "Client key the nonce was issued to"
// @Param request body VerifyNonceRequest true "Verification data"
// @Success 200 {object} middleware.SuccessResponse{data=VerifyNonceResponse} "Verification result"
// @Failure 400 {object} middleware.ErrorResponse "Invalid input"
// @Failure 403 {object} middleware.ErrorResponse "Nonce issued to another client (strict)"
// @Failure 404 {object} middleware.ErrorResponse "Nonce not found (strict)"
// @Failure 409 {object} middleware.ErrorResponse "Nonce already used (strict)"
// @Failure 410 {object} middleware.ErrorResponse "Nonce expired (strict)"
// @Failure 500 {object} middleware.ErrorResponse "Internal server error"
// @Router /api/v1/nonces/verify [post]
func (h *Handler) VerifyNonce(c *gin.Context) {
	var req VerifyNonceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondError(c, apperrors.InvalidInput(err.Error()))
		return
	}

	owner, err := resolveOwner(c, req.Owner)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}

	valid, err := h.service.Verify(c.Request.Context(), owner, &req)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}

	middleware.RespondOK(c, VerifyNonceResponse{Valid: valid})
}

// ConsumeNonce godoc
// @Summary Consume a nonce
// @Description Mark a nonce as used. Expired or already used nonces are rejected.
// @Tags nonces
// @Accept json
// @Produce json
// @Param request body ConsumeNonceRequest true "Nonce token"
// @Success 204 "Nonce consumed"
// @Failure 400 {object} middleware.ErrorResponse "Invalid input"
// @Failure 404 {object} middleware.ErrorResponse "Nonce not found"
// @Failure 409 {object} middleware.ErrorResponse "Nonce already used"
// @Failure 410 {object} middleware.ErrorResponse "Nonce expired"
// @Failure 500 {object} middleware.ErrorResponse "Internal server error"
// @Router /api/v1/nonces/consume [post]
func (h *Handler) ConsumeNonce(c *gin.Context) {
	var req ConsumeNonceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondError(c, apperrors.InvalidInput(err.Error()))
		return
	}

	if err := h.service.Consume(c.Request.Context(), req.Token); err != nil {
		middleware.RespondError(c, err)
		return
	}

	middleware.RespondNoContent(c)
}

// GetNonce godoc
// @Summary Get nonce record
// @Description Audit view of a nonce, including its consumption state. Only the owning client may read it.
// @Tags nonces
// @Produce json
// @Param X-Client-Key header string true "Client key the nonce was issued to"
// @Param token path string true "Nonce token"
// @Success 200 {object} middleware.SuccessResponse{data=NonceAuditResponse} "Nonce record"
// @Failure 400 {object} middleware.ErrorResponse "Missing client key"
// @Failure 403 {object} middleware.ErrorResponse "Nonce issued to another client"
// @Failure 404 {object} middleware.ErrorResponse "Nonce not found"
// @Failure 500 {object} middleware.ErrorResponse "Internal server error"
// @Router /api/v1/nonces/{token} [get]
func (h *Handler) GetNonce(c *gin.Context) {
	owner, err := resolveOwner(c, "")
	if err != nil {
		middleware.RespondError(c, err)
		return
	}

	n, err := h.service.Get(c.Request.Context(), owner, c.Param("token"))
	if err != nil {
		middleware.RespondError(c, err)
		return
	}

	middleware.RespondOK(c, ToNonceAuditResponse(n))
}
