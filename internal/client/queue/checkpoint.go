package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/iudanet/homekeeper/internal/client/storage"
	"github.com/iudanet/homekeeper/internal/models"
)

// SaveCheckpoint сохраняет checkpoint пакета и в той же транзакции
// переводит все записи пакета в статус sent. Вызывается непосредственно
// перед отправкой.
func (q *Queue) SaveCheckpoint(ctx context.Context, cp *models.SyncCheckpoint) error {
	data, err := json.Marshal(cp)
	if err != nil {
		return fmt.Errorf("failed to marshal checkpoint: %w", err)
	}

	ids := toSet(cp.BatchOperationIDs)
	err = q.update(ctx, func(tx storage.Tx, entries []*entry) ([]*entry, error) {
		for _, e := range entries {
			if ids[e.write.OperationID] && e.write.Status == models.WriteStatusPending {
				e.write.Status = models.WriteStatusSent
			}
		}
		return entries, tx.Put(storage.CheckpointKey, data)
	})
	if err != nil {
		return fmt.Errorf("failed to save checkpoint: %w", err)
	}
	return nil
}

// Checkpoint возвращает незавершенный checkpoint или nil.
// Поврежденный checkpoint удаляется, записи пакета возвращаются в pending.
func (q *Queue) Checkpoint(ctx context.Context) (*models.SyncCheckpoint, error) {
	data, err := q.store.Get(ctx, storage.CheckpointKey)
	if errors.Is(err, storage.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read checkpoint: %w", err)
	}

	var cp models.SyncCheckpoint
	if err := json.Unmarshal(data, &cp); err != nil || cp.RequestID == "" {
		q.logger.Warn("Corrupt sync checkpoint discarded", "error", err)
		if clearErr := q.ClearCheckpoint(ctx); clearErr != nil {
			return nil, clearErr
		}
		return nil, nil
	}
	return &cp, nil
}

// ClearCheckpoint удаляет checkpoint и возвращает оставшиеся
// отправленные записи в pending.
func (q *Queue) ClearCheckpoint(ctx context.Context) error {
	err := q.update(ctx, func(tx storage.Tx, entries []*entry) ([]*entry, error) {
		for _, e := range entries {
			if e.write.Status == models.WriteStatusSent {
				e.write.Status = models.WriteStatusPending
			}
		}
		return entries, tx.Delete(storage.CheckpointKey)
	})
	if err != nil {
		return fmt.Errorf("failed to clear checkpoint: %w", err)
	}
	return nil
}
