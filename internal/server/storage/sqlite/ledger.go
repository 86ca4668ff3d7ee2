package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/iudanet/homekeeper/internal/models"
	"github.com/iudanet/homekeeper/internal/server/storage"
)

// GetLedgerKey retrieves ledger entry by user and operation id
func (s *Storage) GetLedgerKey(ctx context.Context, userID, key string) (*models.SyncIdempotencyKey, error) {
	query := `
		SELECT user_id, key, entity_type, entity_id, request_id,
		       status, fingerprint, processed_at, created_at
		FROM sync_idempotency_keys
		WHERE user_id = ? AND key = ?
	`

	var (
		k           models.SyncIdempotencyKey
		entityType  string
		status      string
		processedAt sql.NullInt64
		createdAt   int64
	)

	err := s.db.QueryRowContext(ctx, query, userID, key).Scan(
		&k.UserID,
		&k.Key,
		&entityType,
		&k.EntityID,
		&k.RequestID,
		&status,
		&k.Fingerprint,
		&processedAt,
		&createdAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrLedgerKeyNotFound
		}
		return nil, fmt.Errorf("failed to get ledger key: %w", err)
	}

	k.EntityType = models.EntityType(entityType)
	k.Status = models.LedgerStatus(status)
	k.CreatedAt = time.UnixMilli(createdAt).UTC()
	if processedAt.Valid {
		t := time.UnixMilli(processedAt.Int64).UTC()
		k.ProcessedAt = &t
	}

	return &k, nil
}

// ReserveLedgerKey records the key as PENDING.
// Returns ErrLedgerKeyCompleted if the key is already completed
func (s *Storage) ReserveLedgerKey(ctx context.Context, key *models.SyncIdempotencyKey) error {
	query := `
		INSERT INTO sync_idempotency_keys (
			user_id, key, entity_type, entity_id, request_id,
			status, fingerprint, processed_at, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, NULL, ?)
		ON CONFLICT (user_id, key) DO UPDATE SET
			entity_type = excluded.entity_type,
			entity_id = excluded.entity_id,
			request_id = excluded.request_id,
			status = excluded.status,
			fingerprint = excluded.fingerprint,
			processed_at = NULL
		WHERE sync_idempotency_keys.status <> 'COMPLETED'
	`

	res, err := s.db.ExecContext(ctx, query,
		key.UserID,
		key.Key,
		string(key.EntityType),
		key.EntityID,
		key.RequestID,
		string(models.LedgerStatusPending),
		key.Fingerprint,
		key.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to reserve ledger key: %w", err)
	}

	// upsert, отфильтрованный WHERE, не затрагивает строк
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return storage.ErrLedgerKeyCompleted
	}

	key.Status = models.LedgerStatusPending
	key.ProcessedAt = nil
	return nil
}

// CommitOperation saves the record and marks the key COMPLETED in one transaction
func (s *Storage) CommitOperation(ctx context.Context, key *models.SyncIdempotencyKey, record models.Record) error {
	if key.ProcessedAt == nil {
		return fmt.Errorf("commit %s: processed time is not set", key.Key)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := putEntity(ctx, tx, key.UserID, key.EntityType, record, *key.ProcessedAt); err != nil {
		return err
	}

	query := `
		UPDATE sync_idempotency_keys
		SET status = ?, entity_id = ?, processed_at = ?
		WHERE user_id = ? AND key = ? AND status = ?
	`

	res, err := tx.ExecContext(ctx, query,
		string(models.LedgerStatusCompleted),
		record.ID(),
		key.ProcessedAt.UnixMilli(),
		key.UserID,
		key.Key,
		string(models.LedgerStatusPending),
	)
	if err != nil {
		return fmt.Errorf("failed to complete ledger key: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		// ключ не зарезервирован или уже выполнен другим запросом
		return storage.ErrLedgerKeyCompleted
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	key.Status = models.LedgerStatusCompleted
	key.EntityID = record.ID()
	return nil
}

// FailLedgerKey marks the key FAILED
func (s *Storage) FailLedgerKey(ctx context.Context, userID, key string, processedAt time.Time) error {
	query := `
		UPDATE sync_idempotency_keys
		SET status = ?, processed_at = ?
		WHERE user_id = ? AND key = ? AND status <> ?
	`

	res, err := s.db.ExecContext(ctx, query,
		string(models.LedgerStatusFailed),
		processedAt.UnixMilli(),
		userID,
		key,
		string(models.LedgerStatusCompleted),
	)
	if err != nil {
		return fmt.Errorf("failed to fail ledger key: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return storage.ErrLedgerKeyNotFound
	}

	return nil
}

// LedgerStats counts ledger entries; userID "" counts all users
func (s *Storage) LedgerStats(ctx context.Context, userID string, cutoff time.Time) (*models.LedgerStats, error) {
	query := `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN status = 'COMPLETED' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'PENDING' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'FAILED' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'COMPLETED' AND processed_at < ? THEN 1 ELSE 0 END), 0)
		FROM sync_idempotency_keys
		WHERE ? = '' OR user_id = ?
	`

	var stats models.LedgerStats
	err := s.db.QueryRowContext(ctx, query, cutoff.UnixMilli(), userID, userID).Scan(
		&stats.Total,
		&stats.Completed,
		&stats.Pending,
		&stats.Failed,
		&stats.OldCompleted,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to count ledger keys: %w", err)
	}

	return &stats, nil
}

// DeleteCompletedBefore removes completed entries processed before cutoff
func (s *Storage) DeleteCompletedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `
		DELETE FROM sync_idempotency_keys
		WHERE status = ? AND processed_at < ?
	`

	res, err := s.db.ExecContext(ctx, query, string(models.LedgerStatusCompleted), cutoff.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("failed to delete ledger keys: %w", err)
	}

	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return deleted, nil
}
