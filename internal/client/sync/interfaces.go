package sync

import (
	"context"

	"github.com/iudanet/homekeeper/internal/models"
)

//go:generate moq -out cache_mock.go . Cache

// WriteQueue очередь отложенных записей, которую разбирает Processor.
// Реализуется queue.Queue.
type WriteQueue interface {
	Enqueue(ctx context.Context, entityType models.EntityType, action models.WriteAction, target models.WriteTarget) (*models.QueuedWrite, error)
	Ready(ctx context.Context) ([]*models.QueuedWrite, error)
	Entries(ctx context.Context, operationIDs []string) ([]*models.QueuedWrite, error)
	Failed(ctx context.Context) ([]*models.QueuedWrite, error)
	PendingCount(ctx context.Context) (int, error)
	Remove(ctx context.Context, operationIDs ...string) (int, error)
	MarkFailedPermanent(ctx context.Context, reason string, operationIDs ...string) error
	RecordFailure(ctx context.Context, reason string, maxAttempts int, operationIDs ...string) ([]string, error)
	AssignServerID(ctx context.Context, entityType models.EntityType, localID, serverID string) error
	SaveCheckpoint(ctx context.Context, cp *models.SyncCheckpoint) error
	Checkpoint(ctx context.Context) (*models.SyncCheckpoint, error)
	ClearCheckpoint(ctx context.Context) error
}

// Cache локальный кэш записей. Реализуется cache.Store.
type Cache interface {
	// Upsert записывает подтвержденную сервером версию записи
	Upsert(ctx context.Context, entityType models.EntityType, record models.Record) error

	// Invalidate помечает кэш типа устаревшим
	Invalidate(ctx context.Context, entityType models.EntityType) error

	// RefreshAll загружает актуальные данные всех типов
	RefreshAll(ctx context.Context) error

	// Metadata возвращает метаданные кэша типа или nil
	Metadata(ctx context.Context, entityType models.EntityType) (*models.CacheMetadata, error)
}
