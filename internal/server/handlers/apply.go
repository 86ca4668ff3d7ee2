package handlers

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"golang.org/x/crypto/blake2b"

	"github.com/iudanet/homekeeper/internal/crdt"
	"github.com/iudanet/homekeeper/internal/models"
	"github.com/iudanet/homekeeper/internal/server/storage"
	"github.com/iudanet/homekeeper/pkg/api"
)

// ErrInvalidOperation операция не прошла проверку и не будет применена
var ErrInvalidOperation = errors.New("invalid operation")

// applyOperation применяет одну операцию с учетом журнала идемпотентности.
// Возвращает либо результат применения, либо конфликт.
// Ошибка означает сбой хранилища: ключ остается PENDING и
// операция будет применена при повторе.
func (h *SyncHandler) applyOperation(
	ctx context.Context,
	userID, requestID string,
	entityType models.EntityType,
	op api.SyncOperation,
) (*api.SyncSucceeded, *api.SyncConflict, error) {
	if op.OperationID == "" {
		return nil, &api.SyncConflict{
			Type:   string(entityType),
			ID:     op.ID,
			Reason: api.ConflictValidation,
		}, nil
	}

	fingerprint, err := Fingerprint(entityType, op)
	if err != nil {
		return nil, nil, err
	}

	existing, err := h.storage.GetLedgerKey(ctx, userID, op.OperationID)
	switch {
	case err == nil && existing.Status == models.LedgerStatusCompleted:
		// повтор уже примененной операции: сообщаем об успехе без повторного применения
		if existing.Fingerprint != fingerprint {
			h.logger.Warn("Completed operation replayed with different payload",
				"user_id", userID,
				"operation_id", op.OperationID,
				"request_id", requestID)
		}
		h.logger.Debug("Operation already completed",
			"operation_id", op.OperationID,
			"completed_by", existing.RequestID)
		return succeededResult(entityType, op, existing.EntityID), nil, nil
	case err != nil && !errors.Is(err, storage.ErrLedgerKeyNotFound):
		return nil, nil, fmt.Errorf("failed to check ledger: %w", err)
	}

	key := &models.SyncIdempotencyKey{
		UserID:      userID,
		Key:         op.OperationID,
		EntityType:  entityType,
		EntityID:    op.ID,
		RequestID:   requestID,
		Fingerprint: fingerprint,
		CreatedAt:   h.now().UTC(),
	}
	if err := h.storage.ReserveLedgerKey(ctx, key); err != nil {
		return nil, nil, fmt.Errorf("failed to reserve ledger key: %w", err)
	}

	record, conflict, err := h.resolve(ctx, userID, entityType, op)
	if err != nil {
		return nil, nil, err
	}

	processedAt := h.now().UTC()
	if conflict != nil {
		if err := h.storage.FailLedgerKey(ctx, userID, op.OperationID, processedAt); err != nil {
			return nil, nil, fmt.Errorf("failed to mark ledger key failed: %w", err)
		}
		conflict.OperationID = op.OperationID
		conflict.Type = string(entityType)
		return nil, conflict, nil
	}

	key.ProcessedAt = &processedAt
	if err := h.storage.CommitOperation(ctx, key, record); err != nil {
		return nil, nil, fmt.Errorf("failed to commit operation: %w", err)
	}

	return succeededResult(entityType, op, record.ID()), nil, nil
}

// resolve решает, что сохранить на сервере: LWW по updatedAt,
// удаление всегда выигрывает, при равенстве меток остается версия сервера.
func (h *SyncHandler) resolve(
	ctx context.Context,
	userID string,
	entityType models.EntityType,
	op api.SyncOperation,
) (models.Record, *api.SyncConflict, error) {
	incoming := models.Record(op.Data).Clone()
	if incoming == nil {
		incoming = models.Record{}
	}
	// localId у каждого устройства свой, на сервере не хранится
	delete(incoming, models.FieldLocalID)

	if err := validateOperation(entityType, models.WriteAction(op.Action), incoming); err != nil {
		h.logger.Warn("Rejected sync operation",
			"user_id", userID,
			"operation_id", op.OperationID,
			"error", err)
		return nil, &api.SyncConflict{ID: op.ID, Reason: api.ConflictValidation}, nil
	}

	id := op.ID
	if id == "" {
		id = incoming.ID()
	}
	if id == "" {
		// запись еще не синхронизировалась: создаем независимо от action,
		// клиент мог свернуть create с последующими изменениями
		incoming[models.FieldID] = h.newID()
		return incoming, nil, nil
	}
	incoming[models.FieldID] = id

	current, err := h.storage.GetEntity(ctx, userID, entityType, id)
	if err != nil {
		if !errors.Is(err, storage.ErrEntityNotFound) {
			return nil, nil, fmt.Errorf("failed to get entity: %w", err)
		}
		if models.WriteAction(op.Action) == models.ActionCreate {
			return incoming, nil, nil
		}
		return nil, &api.SyncConflict{ID: id, Reason: api.ConflictNotFound}, nil
	}

	merged, side := crdt.Resolve(incoming, current)
	switch {
	case merged == nil:
		// удалено с обеих сторон: сохраняем существующий tombstone
		return current, nil, nil
	case side == crdt.SideLocal:
		return incoming, nil, nil
	case models.IsDeleted(current):
		return nil, &api.SyncConflict{ID: id, Reason: api.ConflictDeleted, Server: current}, nil
	default:
		return nil, &api.SyncConflict{ID: id, Reason: api.ConflictServerNewer, Server: current}, nil
	}
}

// validateOperation проверяет минимальные инварианты записи
func validateOperation(entityType models.EntityType, action models.WriteAction, record models.Record) error {
	switch action {
	case models.ActionCreate, models.ActionUpdate, models.ActionDelete:
	default:
		return fmt.Errorf("%w: unknown action %q", ErrInvalidOperation, action)
	}

	if _, ok := models.ParseTimestamp(record[models.FieldUpdatedAt]); !ok {
		return fmt.Errorf("%w: %w", ErrInvalidOperation, models.ErrMissingTimestamp)
	}

	deleted := models.IsDeleted(record)
	if action == models.ActionDelete && !deleted {
		return fmt.Errorf("%w: delete without deletedAt", ErrInvalidOperation)
	}
	if deleted {
		return nil
	}

	if name, _ := record["name"].(string); name == "" {
		return fmt.Errorf("%w: %w", ErrInvalidOperation, models.ErrEmptyName)
	}
	if entityType == models.EntityTypeItem {
		if listID, _ := record["listId"].(string); listID == "" {
			return fmt.Errorf("%w: item without listId", ErrInvalidOperation)
		}
	}
	return nil
}

// Fingerprint возвращает BLAKE2b-256 хеш содержимого операции
func Fingerprint(entityType models.EntityType, op api.SyncOperation) (string, error) {
	// ключи map кодируются в отсортированном порядке, хеш стабилен
	payload, err := json.Marshal(struct {
		Data   map[string]any `json:"data"`
		Type   string         `json:"type"`
		Action string         `json:"action"`
		ID     string         `json:"id"`
	}{
		Type:   string(entityType),
		Action: op.Action,
		ID:     op.ID,
		Data:   op.Data,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode operation: %w", err)
	}

	sum := blake2b.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}

func succeededResult(entityType models.EntityType, op api.SyncOperation, id string) *api.SyncSucceeded {
	return &api.SyncSucceeded{
		OperationID:   op.OperationID,
		EntityType:    string(entityType),
		ID:            id,
		ClientLocalID: op.LocalID,
	}
}
