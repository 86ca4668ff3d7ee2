package sync

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpClient "github.com/iudanet/homekeeper/internal/client/api"
	"github.com/iudanet/homekeeper/internal/client/auth"
	"github.com/iudanet/homekeeper/internal/client/queue"
	"github.com/iudanet/homekeeper/internal/client/storage/memory"
	"github.com/iudanet/homekeeper/internal/crdt"
	"github.com/iudanet/homekeeper/internal/models"
	"github.com/iudanet/homekeeper/pkg/api"
)

const (
	t0 = "2024-03-01T10:00:00.000Z"
	t1 = "2024-03-01T10:00:01.000Z"
	t2 = "2024-03-01T10:00:02.000Z"
)

type testEnv struct {
	queue     *queue.Queue
	cache     *CacheMock
	client    *httpClient.SyncClientMock
	creds     *auth.CredentialProviderMock
	processor *Processor
}

func newTestEnv(t *testing.T, cfg Config) *testEnv {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	clock := crdt.NewClockWithNodeID("test-device")

	env := &testEnv{
		queue: queue.New(memory.New(), clock, logger),
		cache: &CacheMock{
			UpsertFunc: func(ctx context.Context, entityType models.EntityType, record models.Record) error {
				return nil
			},
			InvalidateFunc: func(ctx context.Context, entityType models.EntityType) error {
				return nil
			},
			RefreshAllFunc: func(ctx context.Context) error {
				return nil
			},
			MetadataFunc: func(ctx context.Context, entityType models.EntityType) (*models.CacheMetadata, error) {
				return nil, nil
			},
		},
		client: &httpClient.SyncClientMock{},
		creds: &auth.CredentialProviderMock{
			AccessTokenFunc: func(ctx context.Context) (string, error) {
				return "token", nil
			},
		},
	}
	env.processor = NewProcessor(env.queue, env.cache, env.client, env.creds, clock, cfg, logger)
	return env
}

func (e *testEnv) enqueue(t *testing.T, et models.EntityType, action models.WriteAction, localID string, payload models.Record) *models.QueuedWrite {
	t.Helper()
	payload[models.FieldLocalID] = localID
	w, err := e.queue.Enqueue(context.Background(), et, action, models.WriteTarget{
		LocalID: localID,
		ID:      payload.ID(),
		Payload: payload,
	})
	require.NoError(t, err)
	return w
}

func (e *testEnv) all(t *testing.T) []*models.QueuedWrite {
	t.Helper()
	all, err := e.queue.All(context.Background())
	require.NoError(t, err)
	return all
}

// succeeded подтверждает все операции над items, присваивая им id
func succeeded(req *api.SyncRequest, id string) *api.SyncResponse {
	resp := &api.SyncResponse{Status: api.SyncStatusSynced, ServerTime: time.Now()}
	for _, op := range req.Items {
		resp.Succeeded = append(resp.Succeeded, api.SyncSucceeded{
			OperationID:   op.OperationID,
			EntityType:    "item",
			ID:            id,
			ClientLocalID: op.LocalID,
		})
	}
	return resp
}

func TestProcessor_RunOnce_EmptyQueuePulls(t *testing.T) {
	env := newTestEnv(t, DefaultConfig)

	result, err := env.processor.RunOnce(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, result.Sent)
	assert.True(t, result.Pulled)
	assert.Empty(t, env.client.SyncCalls())
	assert.Len(t, env.cache.RefreshAllCalls(), 1)
	assert.Equal(t, StateIdle, env.processor.State())
}

func TestProcessor_RunOnce_SucceededDrainsSiblings(t *testing.T) {
	env := newTestEnv(t, DefaultConfig)
	ctx := context.Background()

	env.enqueue(t, models.EntityTypeItem, models.ActionCreate, "loc-1", models.Record{"name": "Milk", "updatedAt": t0})
	w2 := env.enqueue(t, models.EntityTypeItem, models.ActionUpdate, "loc-1", models.Record{"name": "Milk 2%", "updatedAt": t1})

	env.client.SyncFunc = func(ctx context.Context, token string, req *api.SyncRequest) (*api.SyncResponse, error) {
		assert.Equal(t, "token", token)
		assert.Equal(t, api.PayloadVersion, req.PayloadVersion)
		assert.NotEmpty(t, req.RequestID)
		require.Len(t, req.Items, 1, "entries for one entity are compacted")
		assert.Equal(t, w2.OperationID, req.Items[0].OperationID)
		assert.Equal(t, "loc-1", req.Items[0].LocalID)
		assert.Equal(t, "update", req.Items[0].Action)
		assert.Equal(t, "Milk 2%", req.Items[0].Data["name"])

		// во время отправки обе записи пакета помечены sent
		all, err := env.queue.All(ctx)
		require.NoError(t, err)
		for _, w := range all {
			assert.Equal(t, models.WriteStatusSent, w.Status)
		}
		return succeeded(req, "srv-1"), nil
	}

	result, err := env.processor.RunOnce(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Sent)
	assert.Equal(t, 1, result.Succeeded)
	assert.Equal(t, 0, result.Untouched)
	assert.Empty(t, env.all(t), "acknowledging the newest write drains older writes of the same entity")

	cp, err := env.queue.Checkpoint(ctx)
	require.NoError(t, err)
	assert.Nil(t, cp)

	upserts := env.cache.UpsertCalls()
	require.Len(t, upserts, 1)
	assert.Equal(t, models.EntityTypeItem, upserts[0].EntityType)
	assert.Equal(t, "srv-1", upserts[0].Record.ID())
	assert.Equal(t, "loc-1", upserts[0].Record.LocalID())
	assert.Equal(t, "Milk 2%", upserts[0].Record["name"])
	assert.True(t, result.Pulled)
}

func TestProcessor_RunOnce_AssignsServerIDToLaterWrites(t *testing.T) {
	env := newTestEnv(t, Config{BatchSize: 1})
	ctx := context.Background()

	env.enqueue(t, models.EntityTypeList, models.ActionCreate, "loc-1", models.Record{"name": "Groceries", "updatedAt": t0})
	env.enqueue(t, models.EntityTypeList, models.ActionUpdate, "loc-1", models.Record{"name": "Weekly", "updatedAt": t1})

	env.client.SyncFunc = func(ctx context.Context, token string, req *api.SyncRequest) (*api.SyncResponse, error) {
		require.Len(t, req.Lists, 1)
		op := req.Lists[0]
		return &api.SyncResponse{
			Status:    api.SyncStatusSynced,
			Succeeded: []api.SyncSucceeded{{OperationID: op.OperationID, EntityType: "list", ID: "srv-9"}},
		}, nil
	}

	result, err := env.processor.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Succeeded)
	assert.False(t, result.Pulled, "queue is not empty yet")

	remaining := env.all(t)
	require.Len(t, remaining, 1)
	assert.Equal(t, "srv-9", remaining[0].Target.ID)
	assert.Equal(t, "srv-9", remaining[0].Target.Payload["id"])
}

func TestProcessor_RunOnce_ConflictServerWins(t *testing.T) {
	env := newTestEnv(t, DefaultConfig)

	w := env.enqueue(t, models.EntityTypeItem, models.ActionUpdate, "loc-1", models.Record{"id": "srv-1", "name": "Local", "updatedAt": t0})

	env.client.SyncFunc = func(ctx context.Context, token string, req *api.SyncRequest) (*api.SyncResponse, error) {
		return &api.SyncResponse{
			Status: api.SyncStatusPartial,
			Conflicts: []api.SyncConflict{{
				OperationID: w.OperationID,
				Type:        "item",
				ID:          "srv-1",
				Reason:      api.ConflictServerNewer,
				Server:      map[string]any{"id": "srv-1", "name": "Server", "updatedAt": t1},
			}},
		}, nil
	}

	result, err := env.processor.RunOnce(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Resolved)
	assert.Empty(t, env.all(t))

	upserts := env.cache.UpsertCalls()
	require.Len(t, upserts, 1)
	assert.Equal(t, "Server", upserts[0].Record["name"])
	assert.Equal(t, "loc-1", upserts[0].Record.LocalID(), "local-only fields survive the merge")
}

func TestProcessor_RunOnce_ConflictLocalWinsRequeues(t *testing.T) {
	env := newTestEnv(t, DefaultConfig)

	w := env.enqueue(t, models.EntityTypeItem, models.ActionUpdate, "loc-1", models.Record{"id": "srv-1", "name": "Local", "updatedAt": t2})

	env.client.SyncFunc = func(ctx context.Context, token string, req *api.SyncRequest) (*api.SyncResponse, error) {
		return &api.SyncResponse{
			Status: api.SyncStatusPartial,
			Conflicts: []api.SyncConflict{{
				OperationID: w.OperationID,
				Type:        "item",
				ID:          "srv-1",
				Reason:      api.ConflictServerNewer,
				Server:      map[string]any{"id": "srv-1", "name": "Server", "updatedAt": t1},
			}},
		}, nil
	}

	result, err := env.processor.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Requeued)

	remaining := env.all(t)
	require.Len(t, remaining, 1)
	assert.NotEqual(t, w.OperationID, remaining[0].OperationID, "requeued write gets a fresh operationId")
	assert.Equal(t, models.ActionUpdate, remaining[0].Action)
	assert.Equal(t, "srv-1", remaining[0].Target.ID)
	assert.Equal(t, "Local", remaining[0].Target.Payload["name"])
	assert.Equal(t, models.WriteStatusPending, remaining[0].Status)
}

func TestProcessor_RunOnce_ConflictWithTombstone(t *testing.T) {
	env := newTestEnv(t, DefaultConfig)

	w := env.enqueue(t, models.EntityTypeChore, models.ActionUpdate, "loc-1", models.Record{"id": "srv-1", "name": "Dishes", "updatedAt": t2})

	env.client.SyncFunc = func(ctx context.Context, token string, req *api.SyncRequest) (*api.SyncResponse, error) {
		return &api.SyncResponse{
			Status: api.SyncStatusPartial,
			Conflicts: []api.SyncConflict{{
				OperationID: w.OperationID,
				Type:        "chore",
				ID:          "srv-1",
				Reason:      api.ConflictDeleted,
				Server:      map[string]any{"id": "srv-1", "updatedAt": t0, "deletedAt": t0},
			}},
		}, nil
	}

	result, err := env.processor.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Resolved, "a deletion wins over a newer edit")
	assert.Empty(t, env.all(t))

	upserts := env.cache.UpsertCalls()
	require.Len(t, upserts, 1)
	assert.True(t, models.IsDeleted(upserts[0].Record))
}

func TestProcessor_RunOnce_ConflictWithoutServerCopyFails(t *testing.T) {
	env := newTestEnv(t, DefaultConfig)
	ctx := context.Background()

	w := env.enqueue(t, models.EntityTypeRecipe, models.ActionCreate, "loc-1", models.Record{"updatedAt": t0})

	env.client.SyncFunc = func(ctx context.Context, token string, req *api.SyncRequest) (*api.SyncResponse, error) {
		return &api.SyncResponse{
			Status: api.SyncStatusFailed,
			Conflicts: []api.SyncConflict{{
				OperationID: w.OperationID,
				Type:        "recipe",
				Reason:      api.ConflictValidation,
			}},
		}, nil
	}

	result, err := env.processor.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Failed)

	failed, err := env.queue.Failed(ctx)
	require.NoError(t, err)
	require.Len(t, failed, 1)
	assert.Equal(t, "conflict: validation", failed[0].LastError)
	assert.Empty(t, env.cache.UpsertCalls())

	// запись не отправляется повторно автоматически
	_, err = env.processor.RunOnce(ctx)
	require.NoError(t, err)
	assert.Len(t, env.client.SyncCalls(), 1)
}

func TestProcessor_RunOnce_UntouchedStaysQueued(t *testing.T) {
	env := newTestEnv(t, DefaultConfig)

	w1 := env.enqueue(t, models.EntityTypeItem, models.ActionCreate, "loc-1", models.Record{"updatedAt": t0})
	w2 := env.enqueue(t, models.EntityTypeItem, models.ActionCreate, "loc-2", models.Record{"updatedAt": t0})

	env.client.SyncFunc = func(ctx context.Context, token string, req *api.SyncRequest) (*api.SyncResponse, error) {
		return &api.SyncResponse{
			Status:    api.SyncStatusPartial,
			Succeeded: []api.SyncSucceeded{{OperationID: w1.OperationID, EntityType: "item", ID: "srv-1"}},
		}, nil
	}

	result, err := env.processor.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Succeeded)
	assert.Equal(t, 1, result.Untouched)

	remaining := env.all(t)
	require.Len(t, remaining, 1)
	assert.Equal(t, w2.OperationID, remaining[0].OperationID)
	assert.Equal(t, models.WriteStatusPending, remaining[0].Status)
	assert.Equal(t, 0, remaining[0].Attempts)
}

func TestProcessor_RunOnce_NoProgressBacksOff(t *testing.T) {
	env := newTestEnv(t, DefaultConfig)
	env.enqueue(t, models.EntityTypeItem, models.ActionCreate, "loc-1", models.Record{"updatedAt": t0})

	env.client.SyncFunc = func(ctx context.Context, token string, req *api.SyncRequest) (*api.SyncResponse, error) {
		return &api.SyncResponse{Status: api.SyncStatusFailed}, nil
	}

	result, err := env.processor.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Untouched)
	assert.Equal(t, StateBackoff, env.processor.State())
	assert.Len(t, env.all(t), 1)
}

func TestProcessor_RunOnce_NetworkError(t *testing.T) {
	env := newTestEnv(t, Config{MaxAttempts: 1})
	ctx := context.Background()
	env.enqueue(t, models.EntityTypeItem, models.ActionCreate, "loc-1", models.Record{"updatedAt": t0})

	env.client.SyncFunc = func(ctx context.Context, token string, req *api.SyncRequest) (*api.SyncResponse, error) {
		return nil, fmt.Errorf("%w: connection refused", httpClient.ErrNetwork)
	}

	_, err := env.processor.RunOnce(ctx)
	require.ErrorIs(t, err, httpClient.ErrNetwork)
	assert.Equal(t, StateBackoff, env.processor.State())

	remaining := env.all(t)
	require.Len(t, remaining, 1)
	assert.Equal(t, models.WriteStatusPending, remaining[0].Status)
	assert.Equal(t, 0, remaining[0].Attempts, "network failures do not count as attempts")

	cp, err := env.queue.Checkpoint(ctx)
	require.NoError(t, err)
	assert.Nil(t, cp)

	st, err := env.processor.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, StateBackoff, st.State)
	assert.Contains(t, st.LastError, "connection refused")
}

func TestProcessor_Status_DoesNotChangeState(t *testing.T) {
	env := newTestEnv(t, Config{MaxAttempts: 1})
	env.enqueue(t, models.EntityTypeItem, models.ActionCreate, "loc-1", models.Record{"updatedAt": t0})
	env.client.SyncFunc = func(ctx context.Context, token string, req *api.SyncRequest) (*api.SyncResponse, error) {
		return nil, fmt.Errorf("%w: connection refused", httpClient.ErrNetwork)
	}

	_, err := env.processor.RunOnce(context.Background())
	require.ErrorIs(t, err, httpClient.ErrNetwork)

	// запрос статуса с отмененным контекстом не выводит из backoff
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	_, _ = env.processor.Status(cancelled)

	assert.Equal(t, StateBackoff, env.processor.State())
	st, err := env.processor.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StateBackoff, st.State)
	assert.Contains(t, st.LastError, "connection refused")
}

func TestProcessor_RunOnce_AuthErrorStops(t *testing.T) {
	env := newTestEnv(t, DefaultConfig)
	ctx := context.Background()
	env.enqueue(t, models.EntityTypeItem, models.ActionCreate, "loc-1", models.Record{"updatedAt": t0})

	env.client.SyncFunc = func(ctx context.Context, token string, req *api.SyncRequest) (*api.SyncResponse, error) {
		return nil, &httpClient.StatusError{StatusCode: http.StatusUnauthorized, Message: "token expired"}
	}

	_, err := env.processor.RunOnce(ctx)
	require.ErrorIs(t, err, ErrAuthRequired)
	assert.Equal(t, StateStopped, env.processor.State())

	remaining := env.all(t)
	require.Len(t, remaining, 1)
	assert.Equal(t, models.WriteStatusPending, remaining[0].Status)
	assert.Equal(t, 0, remaining[0].Attempts)

	_, err = env.processor.RunOnce(ctx)
	require.ErrorIs(t, err, ErrAuthRequired)
	assert.ErrorIs(t, err, ErrStopped)
	assert.Len(t, env.client.SyncCalls(), 1, "stopped processor does not send")

	st, err := env.processor.Status(ctx)
	require.NoError(t, err)
	assert.True(t, st.AuthRequired)

	env.processor.ResetAuth()
	assert.Equal(t, StateIdle, env.processor.State())
}

func TestProcessor_RunOnce_NotSignedIn(t *testing.T) {
	env := newTestEnv(t, DefaultConfig)
	env.enqueue(t, models.EntityTypeItem, models.ActionCreate, "loc-1", models.Record{"updatedAt": t0})
	env.creds.AccessTokenFunc = func(ctx context.Context) (string, error) {
		return "", auth.ErrNotSignedIn
	}

	_, err := env.processor.RunOnce(context.Background())
	require.ErrorIs(t, err, ErrAuthRequired)
	assert.Empty(t, env.client.SyncCalls())

	cp, err := env.queue.Checkpoint(context.Background())
	require.NoError(t, err)
	assert.Nil(t, cp, "checkpoint is written only right before sending")
}

func TestProcessor_RunOnce_ServerErrorExhaustsAttempts(t *testing.T) {
	env := newTestEnv(t, Config{MaxAttempts: 2})
	ctx := context.Background()
	env.enqueue(t, models.EntityTypeItem, models.ActionCreate, "loc-1", models.Record{"updatedAt": t0})

	env.client.SyncFunc = func(ctx context.Context, token string, req *api.SyncRequest) (*api.SyncResponse, error) {
		return nil, &httpClient.StatusError{StatusCode: http.StatusInternalServerError}
	}

	_, err := env.processor.RunOnce(ctx)
	require.Error(t, err)
	remaining := env.all(t)
	require.Len(t, remaining, 1)
	assert.Equal(t, 1, remaining[0].Attempts)
	assert.Equal(t, models.WriteStatusPending, remaining[0].Status)

	_, err = env.processor.RunOnce(ctx)
	require.Error(t, err)
	remaining = env.all(t)
	require.Len(t, remaining, 1)
	assert.Equal(t, models.WriteStatusFailedPermanent, remaining[0].Status)

	st, err := env.processor.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, st.PendingCount)
	assert.Equal(t, 1, st.FailedCount)
}

func TestProcessor_Start_RedrivesCheckpoint(t *testing.T) {
	env := newTestEnv(t, DefaultConfig)
	ctx := context.Background()

	w1 := env.enqueue(t, models.EntityTypeItem, models.ActionCreate, "loc-1", models.Record{"updatedAt": t0})
	w2 := env.enqueue(t, models.EntityTypeItem, models.ActionUpdate, "loc-1", models.Record{"updatedAt": t1})
	require.NoError(t, env.queue.SaveCheckpoint(ctx, &models.SyncCheckpoint{
		CreatedAt:         time.Now(),
		RequestID:         "req-crashed",
		OperationIDs:      []string{w2.OperationID},
		BatchOperationIDs: []string{w1.OperationID, w2.OperationID},
	}))

	env.client.SyncFunc = func(ctx context.Context, token string, req *api.SyncRequest) (*api.SyncResponse, error) {
		assert.Equal(t, "req-crashed", req.RequestID, "interrupted batch is resent under the same request id")
		require.Len(t, req.Items, 1)
		assert.Equal(t, w2.OperationID, req.Items[0].OperationID)
		return succeeded(req, "srv-1"), nil
	}

	require.NoError(t, env.processor.Start(ctx))
	assert.Len(t, env.client.SyncCalls(), 1)
	assert.Empty(t, env.all(t))

	cp, err := env.queue.Checkpoint(ctx)
	require.NoError(t, err)
	assert.Nil(t, cp)
}

func TestProcessor_Start_StaleCheckpoint(t *testing.T) {
	env := newTestEnv(t, DefaultConfig)
	ctx := context.Background()

	w := env.enqueue(t, models.EntityTypeItem, models.ActionCreate, "loc-1", models.Record{"updatedAt": t0})
	require.NoError(t, env.queue.SaveCheckpoint(ctx, &models.SyncCheckpoint{
		RequestID:         "req-1",
		OperationIDs:      []string{w.OperationID},
		BatchOperationIDs: []string{w.OperationID},
	}))
	// записи пакета уже удалены, checkpoint указывает в пустоту
	_, err := env.queue.Remove(ctx, w.OperationID)
	require.NoError(t, err)

	require.NoError(t, env.processor.Start(ctx))
	assert.Empty(t, env.client.SyncCalls())

	cp, err := env.queue.Checkpoint(ctx)
	require.NoError(t, err)
	assert.Nil(t, cp)
}

func TestProcessor_RunOnce_Cancellation(t *testing.T) {
	t.Run("before pickup", func(t *testing.T) {
		env := newTestEnv(t, DefaultConfig)
		env.enqueue(t, models.EntityTypeItem, models.ActionCreate, "loc-1", models.Record{"updatedAt": t0})

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := env.processor.RunOnce(ctx)
		require.ErrorIs(t, err, context.Canceled)
		assert.Empty(t, env.client.SyncCalls())
		assert.Len(t, env.all(t), 1)
	})

	t.Run("after pickup", func(t *testing.T) {
		env := newTestEnv(t, DefaultConfig)
		env.enqueue(t, models.EntityTypeItem, models.ActionCreate, "loc-1", models.Record{"updatedAt": t0})

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		env.client.SyncFunc = func(sendCtx context.Context, token string, req *api.SyncRequest) (*api.SyncResponse, error) {
			cancel()
			assert.NoError(t, sendCtx.Err(), "in-flight batch is not cancelled")
			return succeeded(req, "srv-1"), nil
		}

		result, err := env.processor.RunOnce(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, result.Succeeded)
		assert.Empty(t, env.all(t))
	})
}

func TestProcessor_RunOnce_CacheFailureInvalidates(t *testing.T) {
	env := newTestEnv(t, DefaultConfig)
	env.enqueue(t, models.EntityTypeItem, models.ActionCreate, "loc-1", models.Record{"updatedAt": t0})

	env.cache.UpsertFunc = func(ctx context.Context, entityType models.EntityType, record models.Record) error {
		return errors.New("disk full")
	}
	env.client.SyncFunc = func(ctx context.Context, token string, req *api.SyncRequest) (*api.SyncResponse, error) {
		return succeeded(req, "srv-1"), nil
	}

	result, err := env.processor.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Succeeded)
	assert.Empty(t, env.all(t), "cache failure does not roll back the sync")

	invalidations := env.cache.InvalidateCalls()
	require.Len(t, invalidations, 1)
	assert.Equal(t, models.EntityTypeItem, invalidations[0].EntityType)
}

func TestProcessor_RunOnce_BatchSize(t *testing.T) {
	env := newTestEnv(t, Config{BatchSize: 2})
	for i := range 3 {
		env.enqueue(t, models.EntityTypeItem, models.ActionCreate, fmt.Sprintf("loc-%d", i), models.Record{"updatedAt": t0})
	}

	env.client.SyncFunc = func(ctx context.Context, token string, req *api.SyncRequest) (*api.SyncResponse, error) {
		resp := &api.SyncResponse{Status: api.SyncStatusSynced}
		for _, op := range req.Items {
			resp.Succeeded = append(resp.Succeeded, api.SyncSucceeded{OperationID: op.OperationID, EntityType: "item", ID: "srv-" + op.LocalID})
		}
		return resp, nil
	}

	result, err := env.processor.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, result.Sent)
	assert.Len(t, env.all(t), 1)

	result, err = env.processor.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Sent)
	assert.Empty(t, env.all(t))
}

func TestProcessor_Status(t *testing.T) {
	env := newTestEnv(t, DefaultConfig)
	ctx := context.Background()

	older := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	newer := older.Add(time.Hour)
	env.cache.MetadataFunc = func(ctx context.Context, entityType models.EntityType) (*models.CacheMetadata, error) {
		switch entityType {
		case models.EntityTypeList:
			return &models.CacheMetadata{LastSyncedAt: older, Version: models.CacheSchemaVersion}, nil
		case models.EntityTypeItem:
			return &models.CacheMetadata{LastSyncedAt: newer, Version: models.CacheSchemaVersion}, nil
		}
		return nil, nil
	}
	env.enqueue(t, models.EntityTypeItem, models.ActionCreate, "loc-1", models.Record{"updatedAt": t0})

	st, err := env.processor.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, st.PendingCount)
	assert.Equal(t, 0, st.FailedCount)
	assert.Equal(t, newer, st.LastSyncedAt)
	assert.Equal(t, StateIdle, st.State)
	assert.False(t, st.AuthRequired)
}

func TestProcessor_Run(t *testing.T) {
	env := newTestEnv(t, Config{Interval: time.Hour})
	env.client.SyncFunc = func(ctx context.Context, token string, req *api.SyncRequest) (*api.SyncResponse, error) {
		return succeeded(req, "srv-1"), nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- env.processor.Run(ctx)
	}()

	env.enqueue(t, models.EntityTypeItem, models.ActionCreate, "loc-1", models.Record{"updatedAt": t0})
	env.processor.Wake()

	require.Eventually(t, func() bool {
		all, err := env.queue.All(context.Background())
		return err == nil && len(all) == 0
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}
