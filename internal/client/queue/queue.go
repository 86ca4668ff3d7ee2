// Package queue implements the durable write queue: local mutations waiting
// to be delivered to the server, the in-flight batch checkpoint and the
// quarantine for entries that can no longer be decoded.
package queue

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/homekeeper/internal/client/storage"
	"github.com/iudanet/homekeeper/internal/crdt"
	"github.com/iudanet/homekeeper/internal/models"
)

// Queue хранит отложенные записи в storage.Store под одним ключом.
// Все изменения выполняются внутри Store.Update, поэтому добавление записей
// из UI может чередоваться с удалением записей обработчиком синхронизации.
type Queue struct {
	store  storage.Store
	clock  *crdt.Clock
	logger *slog.Logger
	now    func() time.Time
}

// New creates write queue on top of the storage port
func New(store storage.Store, clock *crdt.Clock, logger *slog.Logger) *Queue {
	return &Queue{
		store:  store,
		clock:  clock,
		logger: logger,
		now:    time.Now,
	}
}

// QuarantinedEntry запись очереди, которую не удалось разобрать.
type QuarantinedEntry struct {
	QuarantinedAt time.Time       `json:"quarantinedAt"`
	Reason        string          `json:"reason"`
	Raw           json.RawMessage `json:"raw"`
}

// entry хранит разобранную запись и исходный JSON.
// Записи неизвестной версии сохраняются из raw, чтобы не потерять поля,
// которые понимает только более новый клиент.
type entry struct {
	write *models.QueuedWrite
	raw   json.RawMessage
}

func (e *entry) known() bool {
	return e.write.Version == models.QueueSchemaVersion
}

// Enqueue добавляет новое изменение с новым operationId.
func (q *Queue) Enqueue(ctx context.Context, entityType models.EntityType, action models.WriteAction, target models.WriteTarget) (*models.QueuedWrite, error) {
	if !entityType.Valid() {
		return nil, fmt.Errorf("%w: %q", models.ErrUnknownEntityType, entityType)
	}
	if target.LocalID == "" {
		return nil, ErrEmptyLocalID
	}
	if len(target.Payload) == 0 {
		return nil, ErrEmptyPayload
	}

	write := &models.QueuedWrite{
		OperationID:     uuid.New().String(),
		EntityType:      entityType,
		Action:          action,
		Target:          target,
		ClientTimestamp: q.clock.Tick(),
		Status:          models.WriteStatusPending,
		Version:         models.QueueSchemaVersion,
	}
	write.Target.Payload = target.Payload.Clone()

	err := q.update(ctx, func(_ storage.Tx, entries []*entry) ([]*entry, error) {
		// наследуем серверный id, если он уже известен по более ранней записи
		if write.Target.ID == "" {
			for _, e := range entries {
				if e.write.SameEntity(write) && e.write.Target.ID != "" {
					write.Target.ID = e.write.Target.ID
					write.Target.Payload[models.FieldID] = e.write.Target.ID
				}
			}
		}
		return append(entries, &entry{write: write}), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to enqueue write: %w", err)
	}

	q.logger.Debug("Write enqueued",
		"operation_id", write.OperationID,
		"entity_type", write.EntityType,
		"local_id", write.Target.LocalID,
		"action", write.Action)

	return write, nil
}

// Ready возвращает записи в статусе pending в порядке clientTimestamp.
// Записи с неизвестной версией схемы помечаются failed_permanent
// в той же транзакции и не возвращаются.
func (q *Queue) Ready(ctx context.Context) ([]*models.QueuedWrite, error) {
	var ready []*models.QueuedWrite

	err := q.update(ctx, func(_ storage.Tx, entries []*entry) ([]*entry, error) {
		for _, e := range entries {
			if !e.known() {
				if e.write.Status != models.WriteStatusFailedPermanent {
					q.logger.Warn("Unsupported write schema version, marking failed",
						"operation_id", e.write.OperationID,
						"version", e.write.Version)
					e.write.Status = models.WriteStatusFailedPermanent
					e.write.LastError = fmt.Sprintf("unsupported schema version %d", e.write.Version)
				}
				continue
			}
			if e.write.Status == models.WriteStatusPending {
				ready = append(ready, cloneWrite(e.write))
			}
		}
		return entries, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read ready writes: %w", err)
	}

	sortByTimestamp(ready)
	return ready, nil
}

// All возвращает все записи очереди в порядке хранения.
func (q *Queue) All(ctx context.Context) ([]*models.QueuedWrite, error) {
	entries, err := q.view(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]*models.QueuedWrite, 0, len(entries))
	for _, e := range entries {
		result = append(result, cloneWrite(e.write))
	}
	return result, nil
}

// Entries возвращает записи с указанными operationId (отсутствующие пропускаются).
func (q *Queue) Entries(ctx context.Context, operationIDs []string) ([]*models.QueuedWrite, error) {
	entries, err := q.view(ctx)
	if err != nil {
		return nil, err
	}
	ids := toSet(operationIDs)
	var result []*models.QueuedWrite
	for _, e := range entries {
		if ids[e.write.OperationID] {
			result = append(result, cloneWrite(e.write))
		}
	}
	sortByTimestamp(result)
	return result, nil
}

// Failed возвращает записи, для которых авто-повторы прекращены.
func (q *Queue) Failed(ctx context.Context) ([]*models.QueuedWrite, error) {
	entries, err := q.view(ctx)
	if err != nil {
		return nil, err
	}
	var result []*models.QueuedWrite
	for _, e := range entries {
		if e.write.Status == models.WriteStatusFailedPermanent {
			result = append(result, cloneWrite(e.write))
		}
	}
	return result, nil
}

// PendingCount возвращает число записей, ожидающих доставки (pending и sent).
func (q *Queue) PendingCount(ctx context.Context) (int, error) {
	entries, err := q.view(ctx)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, e := range entries {
		if e.write.Status != models.WriteStatusFailedPermanent {
			count++
		}
	}
	return count, nil
}

// Remove удаляет записи по operationId и возвращает число удаленных.
func (q *Queue) Remove(ctx context.Context, operationIDs ...string) (int, error) {
	if len(operationIDs) == 0 {
		return 0, nil
	}
	ids := toSet(operationIDs)
	removed := 0

	err := q.update(ctx, func(_ storage.Tx, entries []*entry) ([]*entry, error) {
		kept := entries[:0]
		for _, e := range entries {
			if ids[e.write.OperationID] {
				removed++
				continue
			}
			kept = append(kept, e)
		}
		return kept, nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to remove writes: %w", err)
	}
	return removed, nil
}

// MarkFailedPermanent прекращает авто-повторы для указанных записей.
func (q *Queue) MarkFailedPermanent(ctx context.Context, reason string, operationIDs ...string) error {
	ids := toSet(operationIDs)
	err := q.update(ctx, func(_ storage.Tx, entries []*entry) ([]*entry, error) {
		for _, e := range entries {
			if ids[e.write.OperationID] {
				e.write.Status = models.WriteStatusFailedPermanent
				e.write.LastError = reason
			}
		}
		return entries, nil
	})
	if err != nil {
		return fmt.Errorf("failed to mark writes failed: %w", err)
	}
	return nil
}

// RecordFailure увеличивает счетчик попыток и возвращает записи в pending.
// Записи, достигшие maxAttempts, помечаются failed_permanent;
// их operationId возвращаются.
func (q *Queue) RecordFailure(ctx context.Context, reason string, maxAttempts int, operationIDs ...string) ([]string, error) {
	ids := toSet(operationIDs)
	var exhausted []string

	err := q.update(ctx, func(_ storage.Tx, entries []*entry) ([]*entry, error) {
		for _, e := range entries {
			if !ids[e.write.OperationID] || e.write.Status == models.WriteStatusFailedPermanent {
				continue
			}
			e.write.Attempts++
			e.write.LastError = reason
			e.write.Status = models.WriteStatusPending
			if maxAttempts > 0 && e.write.Attempts >= maxAttempts {
				e.write.Status = models.WriteStatusFailedPermanent
				exhausted = append(exhausted, e.write.OperationID)
			}
		}
		return entries, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record attempt: %w", err)
	}
	return exhausted, nil
}

// Retry возвращает failed_permanent записи в pending и сбрасывает попытки.
// Без аргументов повторяются все такие записи. Записи неизвестной версии
// остаются в failed_permanent.
func (q *Queue) Retry(ctx context.Context, operationIDs ...string) (int, error) {
	ids := toSet(operationIDs)
	retried := 0

	err := q.update(ctx, func(_ storage.Tx, entries []*entry) ([]*entry, error) {
		for _, e := range entries {
			if e.write.Status != models.WriteStatusFailedPermanent || !e.known() {
				continue
			}
			if len(ids) > 0 && !ids[e.write.OperationID] {
				continue
			}
			e.write.Status = models.WriteStatusPending
			e.write.Attempts = 0
			e.write.LastError = ""
			retried++
		}
		return entries, nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to retry writes: %w", err)
	}
	return retried, nil
}

// AssignServerID проставляет серверный id всем записям одной сущности.
func (q *Queue) AssignServerID(ctx context.Context, entityType models.EntityType, localID, serverID string) error {
	if localID == "" || serverID == "" {
		return nil
	}
	err := q.update(ctx, func(_ storage.Tx, entries []*entry) ([]*entry, error) {
		for _, e := range entries {
			if e.write.EntityType != entityType || e.write.Target.LocalID != localID || !e.known() {
				continue
			}
			e.write.Target.ID = serverID
			if e.write.Target.Payload == nil {
				e.write.Target.Payload = models.Record{}
			}
			e.write.Target.Payload[models.FieldID] = serverID
		}
		return entries, nil
	})
	if err != nil {
		return fmt.Errorf("failed to assign server id: %w", err)
	}
	return nil
}

// Quarantined возвращает записи, изолированные из-за повреждения.
func (q *Queue) Quarantined(ctx context.Context) ([]QuarantinedEntry, error) {
	var result []QuarantinedEntry
	err := q.store.View(ctx, func(tx storage.Tx) error {
		var err error
		result, err = readQuarantine(tx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read quarantine: %w", err)
	}
	return result, nil
}

// Compact оставляет по одной записи на сущность (entityType, localId):
// с наибольшим clientTimestamp, при равенстве более позднюю.
// Влияет только на то, что отправляется; хранимые записи не меняются.
func Compact(writes []*models.QueuedWrite) []*models.QueuedWrite {
	latest := make(map[string]int, len(writes))
	for i, w := range writes {
		key := w.EntityKey()
		j, ok := latest[key]
		if !ok || !w.ClientTimestamp.Before(writes[j].ClientTimestamp) {
			latest[key] = i
		}
	}

	result := make([]*models.QueuedWrite, 0, len(latest))
	for i, w := range writes {
		if latest[w.EntityKey()] == i {
			result = append(result, w)
		}
	}
	return result
}

// view читает записи без изменения хранилища.
func (q *Queue) view(ctx context.Context) ([]*entry, error) {
	var entries []*entry
	err := q.store.View(ctx, func(tx storage.Tx) error {
		var err error
		entries, _, err = q.load(tx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read write queue: %w", err)
	}
	return entries, nil
}

// update выполняет read-modify-write очереди в одной транзакции.
func (q *Queue) update(ctx context.Context, fn func(storage.Tx, []*entry) ([]*entry, error)) error {
	return q.store.Update(ctx, func(tx storage.Tx) error {
		entries, corrupt, err := q.load(tx)
		if err != nil {
			return err
		}
		if len(corrupt) > 0 {
			if err := q.quarantine(tx, corrupt); err != nil {
				return err
			}
		}

		entries, err = fn(tx, entries)
		if err != nil {
			return err
		}
		return save(tx, entries)
	})
}

// load разбирает очередь; нераспознанные элементы возвращаются отдельно.
func (q *Queue) load(tx storage.Tx) ([]*entry, []QuarantinedEntry, error) {
	data, err := tx.Get(storage.WriteQueueKey)
	if errors.Is(err, storage.ErrKeyNotFound) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}

	now := q.now().UTC()

	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		q.logger.Error("Write queue document is corrupt", "error", err)
		return nil, []QuarantinedEntry{{QuarantinedAt: now, Reason: err.Error(), Raw: rawOrString(data)}}, nil
	}

	entries := make([]*entry, 0, len(raws))
	var corrupt []QuarantinedEntry
	for _, raw := range raws {
		w, err := decodeWrite(raw)
		if err != nil {
			q.logger.Warn("Corrupt write queue entry quarantined", "error", err)
			corrupt = append(corrupt, QuarantinedEntry{QuarantinedAt: now, Reason: err.Error(), Raw: raw})
			continue
		}
		entries = append(entries, &entry{write: w, raw: raw})
	}
	return entries, corrupt, nil
}

func decodeWrite(raw json.RawMessage) (*models.QueuedWrite, error) {
	var w models.QueuedWrite
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, err
	}
	if w.OperationID == "" {
		return nil, errors.New("missing operationId")
	}
	if w.Version == 0 {
		w.Version = 1
	}
	if w.Status == "" {
		w.Status = models.WriteStatusPending
	}
	return &w, nil
}

func save(tx storage.Tx, entries []*entry) error {
	raws := make([]json.RawMessage, 0, len(entries))
	for _, e := range entries {
		raw, err := encodeEntry(e)
		if err != nil {
			return err
		}
		raws = append(raws, raw)
	}
	data, err := json.Marshal(raws)
	if err != nil {
		return fmt.Errorf("failed to marshal write queue: %w", err)
	}
	return tx.Put(storage.WriteQueueKey, data)
}

func encodeEntry(e *entry) (json.RawMessage, error) {
	if e.known() || e.raw == nil {
		return json.Marshal(e.write)
	}

	// неизвестная версия: меняем только статус и причину, остальное как есть
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(e.raw, &fields); err != nil {
		return nil, fmt.Errorf("failed to re-encode entry %s: %w", e.write.OperationID, err)
	}
	status, _ := json.Marshal(e.write.Status)
	fields["status"] = status
	if e.write.LastError != "" {
		lastErr, _ := json.Marshal(e.write.LastError)
		fields["lastError"] = lastErr
	}
	return json.Marshal(fields)
}

func (q *Queue) quarantine(tx storage.Tx, corrupt []QuarantinedEntry) error {
	existing, err := readQuarantine(tx)
	if err != nil {
		return err
	}
	data, err := json.Marshal(append(existing, corrupt...))
	if err != nil {
		return fmt.Errorf("failed to marshal quarantine: %w", err)
	}
	return tx.Put(storage.QuarantineKey, data)
}

func readQuarantine(tx storage.Tx) ([]QuarantinedEntry, error) {
	data, err := tx.Get(storage.QuarantineKey)
	if errors.Is(err, storage.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var entries []QuarantinedEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to unmarshal quarantine: %w", err)
	}
	return entries, nil
}

// rawOrString сохраняет невалидный JSON как JSON-строку.
func rawOrString(data []byte) json.RawMessage {
	if json.Valid(data) {
		return data
	}
	s, _ := json.Marshal(string(data))
	return s
}

func cloneWrite(w *models.QueuedWrite) *models.QueuedWrite {
	c := *w
	c.Target.Payload = w.Target.Payload.Clone()
	return &c
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

// sortByTimestamp упорядочивает записи по clientTimestamp.
func sortByTimestamp(writes []*models.QueuedWrite) {
	slices.SortStableFunc(writes, func(a, b *models.QueuedWrite) int {
		return cmp.Compare(a.ClientTimestamp.UnixNano(), b.ClientTimestamp.UnixNano())
	})
}
