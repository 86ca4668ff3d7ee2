package queue

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/homekeeper/internal/client/storage"
	"github.com/iudanet/homekeeper/internal/client/storage/memory"
	"github.com/iudanet/homekeeper/internal/crdt"
	"github.com/iudanet/homekeeper/internal/models"
)

func newTestQueue(t *testing.T) (*Queue, *memory.Storage) {
	t.Helper()
	store := memory.New()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(store, crdt.NewClockWithNodeID("test-device"), logger), store
}

func itemTarget(localID, name string) models.WriteTarget {
	return models.WriteTarget{
		LocalID: localID,
		Payload: models.Record{"localId": localID, "name": name},
	}
}

func TestQueue_Enqueue(t *testing.T) {
	q, _ := newTestQueue(t)
	ctx := context.Background()

	w1, err := q.Enqueue(ctx, models.EntityTypeItem, models.ActionCreate, itemTarget("loc-1", "Milk"))
	require.NoError(t, err)
	w2, err := q.Enqueue(ctx, models.EntityTypeItem, models.ActionUpdate, itemTarget("loc-1", "Milk 2%"))
	require.NoError(t, err)

	assert.NotEmpty(t, w1.OperationID)
	assert.NotEqual(t, w1.OperationID, w2.OperationID, "every mutation gets a fresh operationId")
	assert.True(t, w2.ClientTimestamp.After(w1.ClientTimestamp))
	assert.Equal(t, models.WriteStatusPending, w1.Status)
	assert.Equal(t, models.QueueSchemaVersion, w1.Version)

	all, err := q.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2, "both entries for one entity are retained")
}

func TestQueue_Enqueue_Validation(t *testing.T) {
	q, _ := newTestQueue(t)
	ctx := context.Background()

	_, err := q.Enqueue(ctx, "pantry", models.ActionCreate, itemTarget("l", "x"))
	assert.ErrorIs(t, err, models.ErrUnknownEntityType)

	_, err = q.Enqueue(ctx, models.EntityTypeItem, models.ActionCreate, itemTarget("", "x"))
	assert.ErrorIs(t, err, ErrEmptyLocalID)

	_, err = q.Enqueue(ctx, models.EntityTypeItem, models.ActionCreate, models.WriteTarget{LocalID: "l"})
	assert.ErrorIs(t, err, ErrEmptyPayload)
}

func TestQueue_Enqueue_InheritsServerID(t *testing.T) {
	q, _ := newTestQueue(t)
	ctx := context.Background()

	_, err := q.Enqueue(ctx, models.EntityTypeList, models.ActionCreate, itemTarget("loc-1", "Groceries"))
	require.NoError(t, err)
	require.NoError(t, q.AssignServerID(ctx, models.EntityTypeList, "loc-1", "srv-1"))

	w, err := q.Enqueue(ctx, models.EntityTypeList, models.ActionUpdate, itemTarget("loc-1", "Weekly groceries"))
	require.NoError(t, err)
	assert.Equal(t, "srv-1", w.Target.ID)
	assert.Equal(t, "srv-1", w.Target.Payload["id"])
}

func TestQueue_Ready_OrderAndStatus(t *testing.T) {
	q, _ := newTestQueue(t)
	ctx := context.Background()

	a, err := q.Enqueue(ctx, models.EntityTypeItem, models.ActionCreate, itemTarget("a", "A"))
	require.NoError(t, err)
	b, err := q.Enqueue(ctx, models.EntityTypeChore, models.ActionCreate, itemTarget("b", "B"))
	require.NoError(t, err)
	c, err := q.Enqueue(ctx, models.EntityTypeRecipe, models.ActionCreate, itemTarget("c", "C"))
	require.NoError(t, err)

	require.NoError(t, q.MarkFailedPermanent(ctx, "bad request", b.OperationID))

	ready, err := q.Ready(ctx)
	require.NoError(t, err)
	require.Len(t, ready, 2)
	assert.Equal(t, a.OperationID, ready[0].OperationID)
	assert.Equal(t, c.OperationID, ready[1].OperationID)

	failed, err := q.Failed(ctx)
	require.NoError(t, err)
	require.Len(t, failed, 1)
	assert.Equal(t, "bad request", failed[0].LastError)

	count, err := q.PendingCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestQueue_Ready_UnknownVersionMarkedFailed(t *testing.T) {
	q, store := newTestQueue(t)
	ctx := context.Background()

	doc := `[
		{"operationId":"op-future","entityType":"item","target":{"localId":"x","payload":{"name":"n"}},"status":"pending","version":7,"futureField":{"a":1}},
		{"operationId":"op-legacy","entityType":"item","target":{"localId":"y","payload":{"name":"m"}},"clientTimestamp":"2024-01-01T00:00:00Z","status":"pending"}
	]`
	require.NoError(t, store.Put(ctx, storage.WriteQueueKey, []byte(doc)))

	ready, err := q.Ready(ctx)
	require.NoError(t, err)
	require.Len(t, ready, 1, "missing version is treated as version 1")
	assert.Equal(t, "op-legacy", ready[0].OperationID)

	failed, err := q.Failed(ctx)
	require.NoError(t, err)
	require.Len(t, failed, 1)
	assert.Equal(t, "op-future", failed[0].OperationID)

	// поля будущей версии не теряются
	raw, err := store.Get(ctx, storage.WriteQueueKey)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"futureField":{"a":1}`)
	assert.Contains(t, string(raw), `"version":7`)

	// ручной повтор не трогает записи неизвестной версии
	n, err := q.Retry(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestQueue_CorruptEntriesQuarantined(t *testing.T) {
	q, store := newTestQueue(t)
	ctx := context.Background()

	doc := `[
		{"operationId":"op-ok","entityType":"item","target":{"localId":"x","payload":{"name":"n"}},"status":"pending","version":1},
		{"operationId":42},
		{"entityType":"item"}
	]`
	require.NoError(t, store.Put(ctx, storage.WriteQueueKey, []byte(doc)))

	ready, err := q.Ready(ctx)
	require.NoError(t, err)
	require.Len(t, ready, 1)
	assert.Equal(t, "op-ok", ready[0].OperationID)

	quarantined, err := q.Quarantined(ctx)
	require.NoError(t, err)
	assert.Len(t, quarantined, 2)

	// повторное чтение не дублирует карантин
	_, err = q.Ready(ctx)
	require.NoError(t, err)
	quarantined, err = q.Quarantined(ctx)
	require.NoError(t, err)
	assert.Len(t, quarantined, 2)
}

func TestQueue_CorruptDocumentQuarantined(t *testing.T) {
	q, store := newTestQueue(t)
	ctx := context.Background()
	require.NoError(t, store.Put(ctx, storage.WriteQueueKey, []byte(`{{{garbage`)))

	ready, err := q.Ready(ctx)
	require.NoError(t, err)
	assert.Empty(t, ready)

	quarantined, err := q.Quarantined(ctx)
	require.NoError(t, err)
	require.Len(t, quarantined, 1)
	assert.JSONEq(t, `"{{{garbage"`, string(quarantined[0].Raw))

	_, err = q.Enqueue(ctx, models.EntityTypeItem, models.ActionCreate, itemTarget("a", "A"))
	require.NoError(t, err)
}

func TestQueue_Remove(t *testing.T) {
	q, _ := newTestQueue(t)
	ctx := context.Background()

	a, _ := q.Enqueue(ctx, models.EntityTypeItem, models.ActionCreate, itemTarget("a", "A"))
	b, _ := q.Enqueue(ctx, models.EntityTypeItem, models.ActionCreate, itemTarget("b", "B"))

	n, err := q.Remove(ctx, a.OperationID, "unknown")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	all, err := q.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, b.OperationID, all[0].OperationID)

	n, err = q.Remove(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestQueue_RecordFailure(t *testing.T) {
	q, _ := newTestQueue(t)
	ctx := context.Background()

	w, _ := q.Enqueue(ctx, models.EntityTypeItem, models.ActionCreate, itemTarget("a", "A"))

	for i := 1; i < 3; i++ {
		exhausted, err := q.RecordFailure(ctx, "HTTP 500", 3, w.OperationID)
		require.NoError(t, err)
		assert.Empty(t, exhausted)
	}

	exhausted, err := q.RecordFailure(ctx, "HTTP 500", 3, w.OperationID)
	require.NoError(t, err)
	assert.Equal(t, []string{w.OperationID}, exhausted)

	failed, err := q.Failed(ctx)
	require.NoError(t, err)
	require.Len(t, failed, 1)
	assert.Equal(t, 3, failed[0].Attempts)
	assert.Equal(t, "HTTP 500", failed[0].LastError)

	n, err := q.Retry(ctx, w.OperationID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	ready, err := q.Ready(ctx)
	require.NoError(t, err)
	require.Len(t, ready, 1)
	assert.Equal(t, 0, ready[0].Attempts)
}

func TestQueue_Checkpoint(t *testing.T) {
	q, _ := newTestQueue(t)
	ctx := context.Background()

	cp, err := q.Checkpoint(ctx)
	require.NoError(t, err)
	assert.Nil(t, cp)

	a, _ := q.Enqueue(ctx, models.EntityTypeItem, models.ActionCreate, itemTarget("a", "A"))
	b, _ := q.Enqueue(ctx, models.EntityTypeItem, models.ActionUpdate, itemTarget("a", "A2"))

	saved := &models.SyncCheckpoint{
		CreatedAt:         time.Now().UTC().Truncate(time.Millisecond),
		RequestID:         "req-1",
		OperationIDs:      []string{b.OperationID},
		BatchOperationIDs: []string{a.OperationID, b.OperationID},
	}
	require.NoError(t, q.SaveCheckpoint(ctx, saved))

	// отправленные записи не попадают в следующий пакет
	ready, err := q.Ready(ctx)
	require.NoError(t, err)
	assert.Empty(t, ready)

	count, err := q.PendingCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count, "sent entries are still pending delivery")

	loaded, err := q.Checkpoint(ctx)
	require.NoError(t, err)
	assert.Equal(t, saved, loaded)

	entries, err := q.Entries(ctx, loaded.BatchOperationIDs)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, models.WriteStatusSent, entries[0].Status)

	require.NoError(t, q.ClearCheckpoint(ctx))
	cp, err = q.Checkpoint(ctx)
	require.NoError(t, err)
	assert.Nil(t, cp)

	ready, err = q.Ready(ctx)
	require.NoError(t, err)
	assert.Len(t, ready, 2, "unresolved entries return to pending")
}

func TestQueue_CorruptCheckpoint(t *testing.T) {
	q, store := newTestQueue(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, storage.CheckpointKey, []byte(`nope`)))

	cp, err := q.Checkpoint(ctx)
	require.NoError(t, err)
	assert.Nil(t, cp)

	_, err = store.Get(ctx, storage.CheckpointKey)
	assert.ErrorIs(t, err, storage.ErrKeyNotFound)
}

func TestQueue_ConcurrentEnqueueAndRemove(t *testing.T) {
	q, _ := newTestQueue(t)
	ctx := context.Background()

	seed := make([]string, 0, 20)
	for i := 0; i < 20; i++ {
		w, err := q.Enqueue(ctx, models.EntityTypeItem, models.ActionCreate, itemTarget("seed", "s"))
		require.NoError(t, err)
		seed = append(seed, w.OperationID)
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 20; i++ {
			_, _ = q.Enqueue(ctx, models.EntityTypeItem, models.ActionCreate, itemTarget("new", "n"))
		}
	}()
	go func() {
		defer wg.Done()
		for _, id := range seed {
			_, _ = q.Remove(ctx, id)
		}
	}()
	wg.Wait()

	all, err := q.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 20, "no append is lost while entries are being removed")
	for _, w := range all {
		assert.Equal(t, "new", w.Target.LocalID)
	}
}

func TestCompact(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	w := func(id string, et models.EntityType, local string, offset time.Duration) *models.QueuedWrite {
		return &models.QueuedWrite{OperationID: id, EntityType: et, Target: models.WriteTarget{LocalID: local}, ClientTimestamp: base.Add(offset)}
	}

	writes := []*models.QueuedWrite{
		w("op-1", models.EntityTypeItem, "x", 0),
		w("op-2", models.EntityTypeItem, "x", time.Second),
		w("op-3", models.EntityTypeChore, "x", 0),
		w("op-4", models.EntityTypeItem, "y", 0),
		w("op-5", models.EntityTypeItem, "y", 0),
		w("op-6", models.EntityTypeItem, "z", 2*time.Second),
		w("op-7", models.EntityTypeItem, "z", time.Second),
	}

	compacted := Compact(writes)

	ids := make([]string, 0, len(compacted))
	for _, c := range compacted {
		ids = append(ids, c.OperationID)
	}
	assert.Equal(t, []string{"op-2", "op-3", "op-5", "op-6"}, ids)
	assert.Len(t, writes, 7, "input is not modified")
	assert.Empty(t, Compact(nil))
}

func TestQueue_PersistedShape(t *testing.T) {
	q, store := newTestQueue(t)
	ctx := context.Background()

	_, err := q.Enqueue(ctx, models.EntityTypeRecipe, models.ActionCreate, itemTarget("r-1", "Soup"))
	require.NoError(t, err)

	raw, err := store.Get(ctx, storage.WriteQueueKey)
	require.NoError(t, err)

	var doc []map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))
	require.Len(t, doc, 1)
	assert.Equal(t, "recipe", doc[0]["entityType"])
	assert.Equal(t, "pending", doc[0]["status"])
	assert.EqualValues(t, 1, doc[0]["version"])
	assert.NotEmpty(t, doc[0]["operationId"])
}
