package sync

import (
	"context"
	"errors"
	"fmt"

	"github.com/iudanet/homekeeper/internal/client/cache"
	"github.com/iudanet/homekeeper/internal/crdt"
	"github.com/iudanet/homekeeper/internal/models"
	"github.com/iudanet/homekeeper/pkg/api"
)

// outcome результат разрешения конфликта
type outcome int

const (
	outcomeResolved outcome = iota // выиграла серверная версия или обе удалены
	outcomeRequeued                // локальная версия новее, отправим заново
	outcomeFailed                  // разрешить нельзя, нужен пользователь
)

// apply применяет ответ сервера к очереди и кэшу.
// Операция из succeeded снимает с очереди все записи той же сущности
// в пакете: отправленная запись была самой новой среди них.
// Операции, не упомянутые ни в succeeded, ни в conflicts, остаются в очереди.
func (p *Processor) apply(ctx context.Context, b *batch, resp *api.SyncResponse, result *SyncResult) error {
	if !resp.ServerTime.IsZero() {
		p.clock.Update(resp.ServerTime)
	}

	byOp := make(map[string]*models.QueuedWrite, len(b.sent))
	for _, w := range b.sent {
		byOp[w.OperationID] = w
	}

	handled := make(map[string]bool, len(b.sent))
	var remove []string

	for _, s := range resp.Succeeded {
		w, ok := byOp[s.OperationID]
		if !ok {
			p.logger.Warn("Server confirmed unknown operation", "operation_id", s.OperationID)
			continue
		}
		if handled[w.EntityKey()] {
			continue
		}
		handled[w.EntityKey()] = true

		p.applySucceeded(ctx, w, s.ID)
		remove = append(remove, siblings(b.entries, w)...)
		result.Succeeded++
	}

	for _, c := range resp.Conflicts {
		w, ok := byOp[c.OperationID]
		if !ok {
			p.logger.Warn("Server reported conflict for unknown operation", "operation_id", c.OperationID)
			continue
		}
		if handled[w.EntityKey()] {
			continue
		}
		handled[w.EntityKey()] = true

		ids := siblings(b.entries, w)
		res, err := p.resolveConflict(ctx, w, c)
		if err != nil {
			return err
		}

		switch res {
		case outcomeResolved:
			remove = append(remove, ids...)
			result.Resolved++
		case outcomeRequeued:
			remove = append(remove, ids...)
			result.Requeued++
		case outcomeFailed:
			reason := "conflict: " + c.Reason
			if err := p.queue.MarkFailedPermanent(ctx, reason, ids...); err != nil {
				return err
			}
			p.logger.Warn("Write rejected by server",
				"operation_id", w.OperationID,
				"entity_type", w.EntityType,
				"local_id", w.Target.LocalID,
				"reason", c.Reason)
			result.Failed += len(ids)
		}
	}

	if _, err := p.queue.Remove(ctx, remove...); err != nil {
		return fmt.Errorf("failed to dequeue applied writes: %w", err)
	}

	result.Untouched = len(b.sent) - len(handled)
	return nil
}

// applySucceeded проставляет серверный id и записывает подтвержденную
// версию в кэш. Ошибка записи в кэш не откатывает синхронизацию:
// кэш типа помечается устаревшим и будет загружен заново.
func (p *Processor) applySucceeded(ctx context.Context, w *models.QueuedWrite, serverID string) {
	record := w.Target.Payload.Clone()
	if record == nil {
		record = models.Record{}
	}
	record[models.FieldLocalID] = w.Target.LocalID

	if serverID == "" {
		serverID = w.Target.ID
	}
	if serverID != "" {
		record[models.FieldID] = serverID
		if serverID != w.Target.ID {
			// записи той же сущности вне пакета должны отправляться с id
			if err := p.queue.AssignServerID(ctx, w.EntityType, w.Target.LocalID, serverID); err != nil {
				p.logger.Warn("Failed to assign server id to queued writes",
					"local_id", w.Target.LocalID,
					"id", serverID,
					"error", err)
			}
		}
	}

	p.writeCache(ctx, w.EntityType, record)
}

// resolveConflict разрешает конфликт по правилам LWW с приоритетом удаления.
// Без серверной копии разрешить конфликт нельзя.
func (p *Processor) resolveConflict(ctx context.Context, w *models.QueuedWrite, c api.SyncConflict) (outcome, error) {
	if c.Server == nil {
		return outcomeFailed, nil
	}

	local := w.Target.Payload.Clone()
	if local == nil {
		local = models.Record{}
	}
	local[models.FieldLocalID] = w.Target.LocalID

	remote := models.Record(c.Server)
	if ts, ok := models.ParseTimestamp(remote[models.FieldUpdatedAt]); ok {
		p.clock.Update(ts)
	}

	merged, side := crdt.Resolve(local, remote)
	if merged == nil {
		// удалено с обеих сторон, убираем из кэша
		p.writeCache(ctx, w.EntityType, local)
		return outcomeResolved, nil
	}

	if side == crdt.SideRemote {
		p.writeCache(ctx, w.EntityType, merged)
		p.logger.Debug("Conflict resolved in favor of server",
			"operation_id", w.OperationID,
			"entity_type", w.EntityType,
			"reason", c.Reason)
		return outcomeResolved, nil
	}

	id := c.ID
	if id == "" {
		id = w.Target.ID
	}
	if id == "" {
		id = remote.ID()
	}
	if id != "" {
		merged[models.FieldID] = id
	}

	action := models.ActionUpdate
	if models.IsDeleted(merged) {
		action = models.ActionDelete
	}

	next, err := p.queue.Enqueue(ctx, w.EntityType, action, models.WriteTarget{
		Payload: merged,
		LocalID: w.Target.LocalID,
		ID:      id,
	})
	if err != nil {
		return outcomeFailed, fmt.Errorf("failed to requeue local winner: %w", err)
	}
	p.writeCache(ctx, w.EntityType, merged)

	p.logger.Debug("Conflict resolved in favor of local version, requeued",
		"operation_id", w.OperationID,
		"new_operation_id", next.OperationID,
		"entity_type", w.EntityType)
	return outcomeRequeued, nil
}

func (p *Processor) writeCache(ctx context.Context, entityType models.EntityType, record models.Record) {
	err := p.cache.Upsert(ctx, entityType, record)
	if err == nil {
		return
	}
	if errors.Is(err, cache.ErrFutureVersion) {
		p.logger.Warn("Cache written by newer client, skipping update", "entity_type", entityType)
		return
	}

	p.logger.Warn("Failed to update cache, invalidating",
		"entity_type", entityType,
		"error", err)
	if err := p.cache.Invalidate(ctx, entityType); err != nil {
		p.logger.Error("Failed to invalidate cache",
			"entity_type", entityType,
			"error", err)
	}
}

// siblings возвращает operationId всех записей пакета с той же сущностью
func siblings(entries []*models.QueuedWrite, w *models.QueuedWrite) []string {
	var ids []string
	for _, e := range entries {
		if e.SameEntity(w) {
			ids = append(ids, e.OperationID)
		}
	}
	return ids
}
