package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorCodeKey is the context key RespondError stores the API error code under
const ErrorCodeKey = "error_code"

// Logger middleware logs each HTTP request with structured fields.
// RequestID must be registered before it.
//
// Why:
// - nonce는 클라이언트 키에 바인딩됨 → client_key로 발급/검증 주체 추적
// - 4xx 대부분이 nonce 거절 → error_code로 만료/재사용/소유자 불일치 구분
// - request_id 포함 → 응답 body의 request_id와 로그 연결
func Logger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		// Process request
		c.Next()

		// Calculate latency
		latency := time.Since(start)
		statusCode := c.Writer.Status()

		// Build log fields
		fields := []zap.Field{
			zap.String("request_id", GetRequestID(c)),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.Int("status", statusCode),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
			zap.String("user_agent", c.Request.UserAgent()),
		}

		if clientKey := GetClientKey(c); clientKey != "" {
			fields = append(fields, zap.String("client_key", clientKey))
		}
		if code := c.GetString(ErrorCodeKey); code != "" {
			fields = append(fields, zap.String("error_code", code))
		}

		// Add error if exists
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		// Log based on status code
		switch {
		case statusCode >= 500:
			logger.Error("server error", fields...)
		case statusCode >= 400:
			logger.Warn("client error", fields...)
		default:
			logger.Info("request completed", fields...)
		}
	}
}
