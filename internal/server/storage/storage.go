// Package storage описывает хранилище сервера синхронизации.
package storage

import (
	"context"
	"time"

	"github.com/iudanet/homekeeper/internal/models"
)

// EntityStorage defines interface for household entities persistence.
// Records are stored per user and entity type; tombstones are kept.
type EntityStorage interface {
	// GetEntity retrieves a single record, including tombstones.
	// Returns ErrEntityNotFound if record doesn't exist
	GetEntity(ctx context.Context, userID string, entityType models.EntityType, id string) (models.Record, error)

	// ListEntities retrieves all records of a type including tombstones,
	// ordered by the time the server last changed them.
	// Returns empty slice if no records found
	ListEntities(ctx context.Context, userID string, entityType models.EntityType) ([]models.Record, error)
}

// LedgerStorage defines interface for the sync idempotency ledger.
// An entry is unique per (UserID, Key); a COMPLETED entry is read-only.
type LedgerStorage interface {
	// GetLedgerKey retrieves ledger entry.
	// Returns ErrLedgerKeyNotFound if the key was never recorded
	GetLedgerKey(ctx context.Context, userID, key string) (*models.SyncIdempotencyKey, error)

	// ReserveLedgerKey records the key as PENDING. An existing PENDING or
	// FAILED entry is taken over by the new request.
	// Returns ErrLedgerKeyCompleted if the key is already completed
	ReserveLedgerKey(ctx context.Context, key *models.SyncIdempotencyKey) error

	// CommitOperation saves the record and marks the key COMPLETED
	// in one transaction.
	CommitOperation(ctx context.Context, key *models.SyncIdempotencyKey, record models.Record) error

	// FailLedgerKey marks the key FAILED: the operation was rejected
	// and nothing was applied.
	// Returns ErrLedgerKeyNotFound if there is no open entry for the key
	FailLedgerKey(ctx context.Context, userID, key string, processedAt time.Time) error

	// LedgerStats counts entries; userID "" counts all users.
	// Completed entries processed before cutoff are reported as OldCompleted.
	LedgerStats(ctx context.Context, userID string, cutoff time.Time) (*models.LedgerStats, error)

	// DeleteCompletedBefore removes completed entries processed before cutoff
	// and returns how many were removed.
	DeleteCompletedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
