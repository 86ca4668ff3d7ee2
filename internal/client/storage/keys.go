package storage

import "github.com/iudanet/homekeeper/internal/models"

// KeyPrefix общий префикс всех локальных ключей.
const KeyPrefix = "homekeeper:"

// Ключи, не зависящие от типа сущности.
const (
	WriteQueueKey = KeyPrefix + "write-queue"
	QuarantineKey = KeyPrefix + "write-queue:quarantine"
	CheckpointKey = KeyPrefix + "sync-checkpoint"
	SessionKey    = KeyPrefix + "session"
)

// CacheKey ключ массива кэша для типа сущности.
func CacheKey(entityType models.EntityType) string {
	return KeyPrefix + "cache:" + string(entityType)
}

// CacheMetaKey ключ метаданных кэша для типа сущности.
func CacheMetaKey(entityType models.EntityType) string {
	return KeyPrefix + "cache-meta:" + string(entityType)
}
