package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoggingMiddleware(t *testing.T) {
	tests := []struct {
		name      string
		path      string
		wantLevel string
		status    int
	}{
		{name: "success logged as info", path: "/api/v1/sync", status: http.StatusOK, wantLevel: "level=INFO"},
		{name: "client error logged as warn", path: "/api/v1/sync", status: http.StatusBadRequest, wantLevel: "level=WARN"},
		{name: "server error logged as error", path: "/api/v1/sync", status: http.StatusInternalServerError, wantLevel: "level=ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logs bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&logs, nil))

			handler := LoggingMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte("hello"))
			}))

			req := httptest.NewRequest(http.MethodPost, tt.path, nil)
			req.Header.Set("Authorization", "Bearer secret-token")
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			out := logs.String()
			assert.Contains(t, out, tt.wantLevel)
			assert.Contains(t, out, "method=POST")
			assert.Contains(t, out, "path=/api/v1/sync")
			assert.Contains(t, out, "bytes_written=5")
			assert.NotContains(t, out, "secret-token")
			assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
		})
	}
}

func TestLoggingMiddleware_RequestID(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	handler := LoggingMiddleware(logger)(http.NotFoundHandler())

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, "req-42", w.Header().Get(RequestIDHeader))
	assert.Contains(t, logs.String(), "request_id=req-42")
}

func TestLoggingMiddleware_SkipPaths(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	called := false
	handler := LoggingMiddleware(logger, "/api/v1/health")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	assert.True(t, called)
	assert.Empty(t, logs.String())
}

func TestResponseWriter_Captures(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := &responseWriter{ResponseWriter: rec, statusCode: http.StatusOK}

	rw.WriteHeader(http.StatusCreated)
	n, err := rw.Write([]byte("abc"))
	assert.NoError(t, err)
	_, _ = rw.Write([]byte("de"))

	assert.Equal(t, 3, n)
	assert.Equal(t, http.StatusCreated, rw.statusCode)
	assert.Equal(t, int64(5), rw.written)
	assert.Equal(t, http.StatusCreated, rec.Code)
}
