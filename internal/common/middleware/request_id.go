package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// RequestIDHeader is the header name for request ID
	RequestIDHeader = "X-Request-ID"
	// RequestIDKey is the context key for request ID
	RequestIDKey = "request_id"

	// ClientKeyHeader identifies the calling client; nonces are bound to it
	ClientKeyHeader = "X-Client-Key"

	maxRequestIDLength = 128
)

// RequestID middleware generates or extracts request ID for each request.
// A client-supplied X-Request-ID is kept when it is printable ASCII of at
// most 128 bytes; anything else is replaced with a new UUID.
//
// Why:
// - 클라이언트가 제공하면 그대로 사용 → 발급/검증 호출을 클라이언트 로그와 연결
// - 헤더 값이 로그와 에러 응답에 그대로 들어감 → 길이/문자 제한
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if !validRequestID(requestID) {
			requestID = uuid.New().String()
		}

		// Set in context for handlers/services to use
		c.Set(RequestIDKey, requestID)
		// Set in response header for client correlation
		c.Header(RequestIDHeader, requestID)

		c.Next()
	}
}

func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < 0x21 || id[i] > 0x7e {
			return false
		}
	}
	return true
}

// GetRequestID extracts request ID from gin context
func GetRequestID(c *gin.Context) string {
	if id, exists := c.Get(RequestIDKey); exists {
		return id.(string)
	}
	return ""
}

// GetClientKey returns the trimmed X-Client-Key header, or ""
func GetClientKey(c *gin.Context) string {
	return strings.TrimSpace(c.GetHeader(ClientKeyHeader))
}
