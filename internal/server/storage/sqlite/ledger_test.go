package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/homekeeper/internal/models"
	"github.com/iudanet/homekeeper/internal/server/storage"
)

var testTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newLedgerKey(userID string) *models.SyncIdempotencyKey {
	return &models.SyncIdempotencyKey{
		UserID:      userID,
		Key:         uuid.New().String(),
		EntityType:  models.EntityTypeList,
		RequestID:   "req-1",
		Fingerprint: "abc",
		CreatedAt:   testTime,
	}
}

func commit(t *testing.T, s *Storage, key *models.SyncIdempotencyKey, record models.Record, at time.Time) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, s.ReserveLedgerKey(ctx, key))
	key.ProcessedAt = &at
	require.NoError(t, s.CommitOperation(ctx, key, record))
}

func TestLedger_ReserveAndCommit(t *testing.T) {
	ctx := context.Background()
	s := setupTestStorage(t)

	key := newLedgerKey("user1")
	require.NoError(t, s.ReserveLedgerKey(ctx, key))

	got, err := s.GetLedgerKey(ctx, "user1", key.Key)
	require.NoError(t, err)
	assert.Equal(t, models.LedgerStatusPending, got.Status)
	assert.Nil(t, got.ProcessedAt)
	assert.Equal(t, testTime, got.CreatedAt)
	assert.Equal(t, "abc", got.Fingerprint)

	processed := testTime.Add(time.Second)
	key.ProcessedAt = &processed
	record := models.Record{"id": "srv-1", "name": "Groceries"}
	require.NoError(t, s.CommitOperation(ctx, key, record))

	got, err = s.GetLedgerKey(ctx, "user1", key.Key)
	require.NoError(t, err)
	assert.Equal(t, models.LedgerStatusCompleted, got.Status)
	assert.Equal(t, "srv-1", got.EntityID)
	require.NotNil(t, got.ProcessedAt)
	assert.Equal(t, processed, *got.ProcessedAt)

	saved, err := s.GetEntity(ctx, "user1", models.EntityTypeList, "srv-1")
	require.NoError(t, err)
	assert.Equal(t, "Groceries", saved["name"])
}

func TestLedger_CompletedIsReadOnly(t *testing.T) {
	ctx := context.Background()
	s := setupTestStorage(t)

	key := newLedgerKey("user1")
	commit(t, s, key, models.Record{"id": "srv-1", "name": "A"}, testTime)

	again := *key
	again.RequestID = "req-2"
	assert.ErrorIs(t, s.ReserveLedgerKey(ctx, &again), storage.ErrLedgerKeyCompleted)
	assert.ErrorIs(t, s.FailLedgerKey(ctx, "user1", key.Key, testTime), storage.ErrLedgerKeyNotFound)

	// повторный commit не перезаписывает запись
	later := testTime.Add(time.Hour)
	again.ProcessedAt = &later
	assert.ErrorIs(t, s.CommitOperation(ctx, &again, models.Record{"id": "srv-1", "name": "B"}), storage.ErrLedgerKeyCompleted)

	saved, err := s.GetEntity(ctx, "user1", models.EntityTypeList, "srv-1")
	require.NoError(t, err)
	assert.Equal(t, "A", saved["name"], "rolled back with the ledger update")

	got, err := s.GetLedgerKey(ctx, "user1", key.Key)
	require.NoError(t, err)
	assert.Equal(t, "req-1", got.RequestID)
}

func TestLedger_FailedKeyCanBeRetried(t *testing.T) {
	ctx := context.Background()
	s := setupTestStorage(t)

	key := newLedgerKey("user1")
	require.NoError(t, s.ReserveLedgerKey(ctx, key))
	require.NoError(t, s.FailLedgerKey(ctx, "user1", key.Key, testTime))

	got, err := s.GetLedgerKey(ctx, "user1", key.Key)
	require.NoError(t, err)
	assert.Equal(t, models.LedgerStatusFailed, got.Status)

	key.RequestID = "req-2"
	require.NoError(t, s.ReserveLedgerKey(ctx, key))

	got, err = s.GetLedgerKey(ctx, "user1", key.Key)
	require.NoError(t, err)
	assert.Equal(t, models.LedgerStatusPending, got.Status)
	assert.Equal(t, "req-2", got.RequestID)
	assert.Nil(t, got.ProcessedAt)
}

func TestLedger_KeysAreScopedByUser(t *testing.T) {
	ctx := context.Background()
	s := setupTestStorage(t)

	key := newLedgerKey("user1")
	commit(t, s, key, models.Record{"id": "srv-1", "name": "A"}, testTime)

	_, err := s.GetLedgerKey(ctx, "user2", key.Key)
	assert.ErrorIs(t, err, storage.ErrLedgerKeyNotFound)

	other := *key
	other.UserID = "user2"
	assert.NoError(t, s.ReserveLedgerKey(ctx, &other), "same operation id from another user")
}

func TestLedger_FailUnknownKey(t *testing.T) {
	s := setupTestStorage(t)
	err := s.FailLedgerKey(context.Background(), "user1", "missing", testTime)
	assert.ErrorIs(t, err, storage.ErrLedgerKeyNotFound)
}

func TestLedger_CommitRequiresProcessedAt(t *testing.T) {
	ctx := context.Background()
	s := setupTestStorage(t)

	key := newLedgerKey("user1")
	require.NoError(t, s.ReserveLedgerKey(ctx, key))
	assert.Error(t, s.CommitOperation(ctx, key, models.Record{"id": "srv-1"}))

	key.ProcessedAt = &testTime
	assert.ErrorIs(t, s.CommitOperation(ctx, key, models.Record{"name": "no id"}), models.ErrMissingID)
}

func TestLedger_StatsAndGC(t *testing.T) {
	ctx := context.Background()
	s := setupTestStorage(t)

	retention := 30 * 24 * time.Hour
	now := testTime.Add(60 * 24 * time.Hour)
	cutoff := now.Add(-retention)

	old := newLedgerKey("user1")
	commit(t, s, old, models.Record{"id": "a", "name": "old"}, testTime)

	recent := newLedgerKey("user1")
	commit(t, s, recent, models.Record{"id": "b", "name": "recent"}, now.Add(-time.Hour))

	pending := newLedgerKey("user2")
	require.NoError(t, s.ReserveLedgerKey(ctx, pending))

	failed := newLedgerKey("user2")
	require.NoError(t, s.ReserveLedgerKey(ctx, failed))
	require.NoError(t, s.FailLedgerKey(ctx, "user2", failed.Key, testTime))

	stats, err := s.LedgerStats(ctx, "", cutoff)
	require.NoError(t, err)
	assert.Equal(t, &models.LedgerStats{Total: 4, Completed: 2, Pending: 1, Failed: 1, OldCompleted: 1}, stats)

	stats, err = s.LedgerStats(ctx, "user2", cutoff)
	require.NoError(t, err)
	assert.Equal(t, &models.LedgerStats{Total: 2, Pending: 1, Failed: 1}, stats)

	deleted, err := s.DeleteCompletedBefore(ctx, cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	_, err = s.GetLedgerKey(ctx, "user1", old.Key)
	assert.ErrorIs(t, err, storage.ErrLedgerKeyNotFound)

	// записи сущностей сборка мусора не затрагивает
	_, err = s.GetEntity(ctx, "user1", models.EntityTypeList, "a")
	assert.NoError(t, err)

	stats, err = s.LedgerStats(ctx, "", cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Total)
	assert.Zero(t, stats.OldCompleted)
}

func TestLedger_StatsEmpty(t *testing.T) {
	s := setupTestStorage(t)

	stats, err := s.LedgerStats(context.Background(), "", testTime)
	require.NoError(t, err)
	assert.Equal(t, &models.LedgerStats{}, stats)
}
