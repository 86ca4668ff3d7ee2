package server

import (
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	clientapi "github.com/iudanet/homekeeper/internal/client/api"
	"github.com/iudanet/homekeeper/internal/config"
	"github.com/iudanet/homekeeper/internal/models"
	"github.com/iudanet/homekeeper/internal/server/jwt"
	"github.com/iudanet/homekeeper/internal/server/middleware"
	"github.com/iudanet/homekeeper/internal/server/storage/sqlite"
	"github.com/iudanet/homekeeper/pkg/api"
)

// setupTestLogger creates a logger for testing
func setupTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setupTestStorage(t *testing.T) *sqlite.Storage {
	t.Helper()
	store, err := sqlite.New(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

func testConfig() *config.ServerConfig {
	return &config.ServerConfig{
		Addr:            "127.0.0.1:0",
		DSN:             ":memory:",
		JWTSecret:       "test-secret",
		TokenTTL:        time.Hour,
		LedgerRetention: 24 * time.Hour,
		GCInterval:      time.Hour,
		ShutdownTimeout: 5 * time.Second,
	}
}

type testEnv struct {
	client *clientapi.Client
	tokens *jwt.Service
	store  *sqlite.Storage
	url    string
}

func newTestEnv(t *testing.T, limiter *middleware.RateLimiter) *testEnv {
	t.Helper()
	tokens, err := jwt.NewService("test-secret", time.Hour)
	require.NoError(t, err)

	store := setupTestStorage(t)
	srv := httptest.NewServer(NewRouter(setupTestLogger(), store, tokens, limiter, 24*time.Hour))
	t.Cleanup(srv.Close)

	return &testEnv{
		client: clientapi.NewClient(srv.URL, 5*time.Second),
		tokens: tokens,
		store:  store,
		url:    srv.URL,
	}
}

func (e *testEnv) token(t *testing.T, userID string) string {
	t.Helper()
	token, _, err := e.tokens.GenerateAccessToken(userID, userID+"-name")
	require.NoError(t, err)
	return token
}

func listOp(operationID, name string, updatedAt time.Time) api.SyncOperation {
	return api.SyncOperation{
		OperationID: operationID,
		LocalID:     "local-" + operationID,
		Action:      string(models.ActionCreate),
		Data: map[string]any{
			"name":      name,
			"createdAt": models.FormatTimestamp(updatedAt),
			"updatedAt": models.FormatTimestamp(updatedAt),
		},
	}
}

func TestRouter_SyncRoundTrip(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	token := env.token(t, "user1")

	require.NoError(t, env.client.Health(ctx))

	req := &api.SyncRequest{
		RequestID:      "req-1",
		PayloadVersion: api.PayloadVersion,
		Lists:          []api.SyncOperation{listOp("op-1", "Groceries", time.Now())},
	}

	resp, err := env.client.Sync(ctx, token, req)
	require.NoError(t, err)
	assert.Equal(t, api.SyncStatusSynced, resp.Status)
	require.Len(t, resp.Succeeded, 1)
	serverID := resp.Succeeded[0].ID
	assert.NotEmpty(t, serverID)
	assert.Equal(t, "local-op-1", resp.Succeeded[0].ClientLocalID)

	// повтор того же запроса не создает вторую запись
	replay, err := env.client.Sync(ctx, token, req)
	require.NoError(t, err)
	require.Len(t, replay.Succeeded, 1)
	assert.Equal(t, serverID, replay.Succeeded[0].ID)

	entities, err := env.client.FetchEntities(ctx, token, "list")
	require.NoError(t, err)
	assert.Equal(t, "list", entities.Type)
	require.Len(t, entities.Entities, 1)
	assert.Equal(t, serverID, entities.Entities[0]["id"])
	assert.Equal(t, "Groceries", entities.Entities[0]["name"])
	assert.NotContains(t, entities.Entities[0], "localId")

	other, err := env.client.FetchEntities(ctx, env.token(t, "user2"), "list")
	require.NoError(t, err)
	assert.Empty(t, other.Entities, "records are scoped to the token's user")
}

func TestRouter_Auth(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	_, err := env.client.FetchEntities(ctx, "", "list")
	require.Error(t, err)
	assert.True(t, clientapi.IsAuthError(err))

	_, err = env.client.Sync(ctx, "garbage", &api.SyncRequest{RequestID: "r", PayloadVersion: api.PayloadVersion})
	require.Error(t, err)
	assert.True(t, clientapi.IsAuthError(err))
}

func TestRouter_Routes(t *testing.T) {
	env := newTestEnv(t, nil)
	token := env.token(t, "user1")

	tests := []struct {
		name   string
		method string
		path   string
		want   int
	}{
		{name: "health", method: http.MethodGet, path: "/api/v1/health", want: http.StatusOK},
		{name: "ledger stats", method: http.MethodGet, path: "/api/v1/ledger/stats", want: http.StatusOK},
		{name: "unknown entity type", method: http.MethodGet, path: "/api/v1/entities/cars", want: http.StatusNotFound},
		{name: "sync requires POST", method: http.MethodGet, path: "/api/v1/sync", want: http.StatusMethodNotAllowed},
		{name: "unknown path", method: http.MethodGet, path: "/api/v2/sync", want: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(tt.method, env.url+tt.path, nil)
			require.NoError(t, err)
			req.Header.Set("Authorization", "Bearer "+token)

			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.want, resp.StatusCode)
			assert.NotEmpty(t, resp.Header.Get(middleware.RequestIDHeader))
		})
	}
}

func TestRouter_RateLimit(t *testing.T) {
	limiter := middleware.NewRateLimiter(2, time.Minute, setupTestLogger())
	t.Cleanup(limiter.Stop)
	env := newTestEnv(t, limiter)
	ctx := context.Background()

	require.NoError(t, env.client.Health(ctx))
	require.NoError(t, env.client.Health(ctx))

	err := env.client.Health(ctx)
	require.Error(t, err)
	var se *clientapi.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusTooManyRequests, se.StatusCode)
}

func TestServer_ServeAndShutdown(t *testing.T) {
	cfg := testConfig()
	tokens, err := jwt.NewService(cfg.JWTSecret, cfg.TokenTTL)
	require.NoError(t, err)

	srv := New(cfg, setupTestLogger(), setupTestStorage(t), tokens)

	ln, err := net.Listen("tcp", cfg.Addr)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- srv.Serve(ctx, ln)
	}()

	client := clientapi.NewClient("http://"+ln.Addr().String(), 2*time.Second)
	require.NoError(t, client.Health(context.Background()))

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}

	err = client.Health(context.Background())
	assert.ErrorIs(t, err, clientapi.ErrNetwork)
}

func TestServer_CollectGarbage(t *testing.T) {
	cfg := testConfig()
	store := setupTestStorage(t)
	ctx := context.Background()

	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	srv := New(cfg, setupTestLogger(), store, nil)
	srv.now = func() time.Time { return now }

	for i, age := range []time.Duration{48 * time.Hour, time.Hour} {
		key := &models.SyncIdempotencyKey{
			UserID:     "user1",
			Key:        []string{"old-op", "new-op"}[i],
			EntityType: models.EntityTypeList,
			RequestID:  "req-1",
			CreatedAt:  now.Add(-age),
		}
		require.NoError(t, store.ReserveLedgerKey(ctx, key))

		processedAt := now.Add(-age)
		key.ProcessedAt = &processedAt
		record := models.Record{
			"id":        key.Key + "-list",
			"name":      "List",
			"updatedAt": models.FormatTimestamp(processedAt),
		}
		require.NoError(t, store.CommitOperation(ctx, key, record))
	}

	deleted, err := srv.CollectGarbage(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	_, err = store.GetLedgerKey(ctx, "user1", "new-op")
	require.NoError(t, err)

	deleted, err = srv.CollectGarbage(ctx)
	require.NoError(t, err)
	assert.Zero(t, deleted)
}
