package middleware

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/homekeeper/internal/server/handlers"
	"github.com/iudanet/homekeeper/internal/server/jwt"
)

// setupTestLogger creates a logger for testing
func setupTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newJWTService(t *testing.T, secret string) *jwt.Service {
	t.Helper()
	s, err := jwt.NewService(secret, 15*time.Minute)
	require.NoError(t, err)
	return s
}

// testHandler is a simple handler that checks context values
func testHandler(t *testing.T, expectedUserID, expectedUsername string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := handlers.GetUserID(r.Context())
		require.True(t, ok, "user_id should be in context")
		assert.Equal(t, expectedUserID, userID)

		username, ok := handlers.GetUsername(r.Context())
		require.True(t, ok, "username should be in context")
		assert.Equal(t, expectedUsername, username)

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}
}

func TestAuthMiddleware_Success(t *testing.T) {
	service := newJWTService(t, "test-secret-key")
	token, _, err := service.GenerateAccessToken("user123", "alice")
	require.NoError(t, err)

	wrapped := AuthMiddleware(setupTestLogger(), service)(testHandler(t, "user123", "alice"))

	for _, scheme := range []string{"Bearer", "bearer"} {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("Authorization", scheme+" "+token)

		w := httptest.NewRecorder()
		wrapped.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code, scheme)
		assert.Equal(t, "OK", w.Body.String())
	}
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	service := newJWTService(t, "test-secret-key")

	otherToken, _, err := newJWTService(t, "other-secret").GenerateAccessToken("user123", "alice")
	require.NoError(t, err)

	tests := []struct {
		name    string
		header  string
		wantMsg string
	}{
		{name: "missing header", wantMsg: "missing token"},
		{name: "no Bearer prefix", header: "token123", wantMsg: "invalid token format"},
		{name: "wrong prefix", header: "Basic token123", wantMsg: "invalid token format"},
		{name: "only Bearer", header: "Bearer ", wantMsg: "invalid token format"},
		{name: "malformed token", header: "Bearer invalid.token.here", wantMsg: "invalid token"},
		{name: "wrong secret", header: "Bearer " + otherToken, wantMsg: "invalid token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := AuthMiddleware(setupTestLogger(), service)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Fatal("Handler should not be called")
			}))

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			w := httptest.NewRecorder()
			wrapped.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), `"message":"`+tt.wantMsg+`"`)
		})
	}
}

func TestAuthMiddleware_DoesNotLogToken(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	wrapped := AuthMiddleware(logger, newJWTService(t, "secret"))(http.NotFoundHandler())

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer secret-token-value")
	wrapped.ServeHTTP(httptest.NewRecorder(), req)

	assert.NotEmpty(t, logs.String())
	assert.NotContains(t, logs.String(), "secret-token-value")
}
