package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apperrors "github.com/ahwlsqja/auth-nonce-service/internal/common/errors"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newRouter(logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.Use(Logger(logger))
	return r
}

func TestRequestID_GeneratesAndEchoes(t *testing.T) {
	r := newRouter(zap.NewNop())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, GetRequestID(c)) })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	generated := rec.Header().Get(RequestIDHeader)
	assert.NotEmpty(t, generated)
	assert.Equal(t, generated, rec.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, "req-123", rec.Header().Get(RequestIDHeader))
	assert.Equal(t, "req-123", rec.Body.String())
}

func TestRequestID_ReplacesUnusableHeader(t *testing.T) {
	r := newRouter(zap.NewNop())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, GetRequestID(c)) })

	for _, bad := range []string{strings.Repeat("a", maxRequestIDLength+1), "req 123", "req\x00id"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, bad)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		got := rec.Header().Get(RequestIDHeader)
		assert.NotEqual(t, bad, got)
		assert.Len(t, got, 36)
		assert.Equal(t, got, rec.Body.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, strings.Repeat("a", maxRequestIDLength))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, strings.Repeat("a", maxRequestIDLength), rec.Body.String())
}

func TestLogger_RecordsErrorCode(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	r := newRouter(zap.New(core))
	r.GET("/expired", func(c *gin.Context) { RespondError(c, apperrors.NonceExpired()) })
	r.GET("/ok", func(c *gin.Context) { RespondNoContent(c) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/expired", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ok", nil))

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, apperrors.CodeNonceExpired, entries[0].ContextMap()["error_code"])
	assert.NotContains(t, entries[1].ContextMap(), "error_code")
}

func TestGetClientKey(t *testing.T) {
	r := newRouter(zap.NewNop())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, GetClientKey(c)) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(ClientKeyHeader, "  hhh ")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, "hhh", rec.Body.String())
}

func TestLogger_LevelByStatus(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	r := newRouter(zap.New(core))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/bad", func(c *gin.Context) { c.Status(http.StatusBadRequest) })
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	for _, path := range []string{"/ok", "/bad", "/boom"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set(ClientKeyHeader, "hhh")
		r.ServeHTTP(httptest.NewRecorder(), req)
	}

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[2].Level)
	assert.Equal(t, "hhh", entries[0].ContextMap()["client_key"])
}

func TestRespondError(t *testing.T) {
	r := newRouter(zap.NewNop())
	r.GET("/app", func(c *gin.Context) {
		RespondError(c, apperrors.NonceExpired())
	})
	r.GET("/wrapped", func(c *gin.Context) {
		RespondError(c, apperrors.StorageError(errors.New("connection refused")))
	})
	r.GET("/plain", func(c *gin.Context) {
		RespondError(c, errors.New("something odd"))
	})

	tests := []struct {
		path       string
		wantStatus int
		wantCode   string
	}{
		{"/app", http.StatusGone, apperrors.CodeNonceExpired},
		{"/wrapped", http.StatusInternalServerError, apperrors.CodeStorageError},
		{"/plain", http.StatusInternalServerError, apperrors.CodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.wantStatus, rec.Code)

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			assert.NotEmpty(t, resp.Error.RequestID)
			assert.NotContains(t, resp.Error.Message, "connection refused")
		})
	}
}

func TestRespondSuccess(t *testing.T) {
	r := newRouter(zap.NewNop())
	r.GET("/created", func(c *gin.Context) { RespondCreated(c, gin.H{"token": "abc"}) })
	r.GET("/empty", func(c *gin.Context) { RespondNoContent(c) })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/created", nil))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"data":{"token":"abc"}}`, rec.Body.String())

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/empty", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}
