package storage

import "context"

//go:generate moq -out store_mock.go . Store

// Tx представляет атомарную операцию над несколькими ключами.
// Все изменения внутри Update применяются целиком или не применяются вовсе.
type Tx interface {
	// Get возвращает значение ключа или ErrKeyNotFound
	Get(key string) ([]byte, error)

	// Put сохраняет значение ключа
	Put(key string, value []byte) error

	// Delete удаляет ключ (отсутствующий ключ не является ошибкой)
	Delete(key string) error
}

// Store is the storage port used by the write queue, the cache and the session.
// It works with raw bytes; serialization belongs to the owning component.
type Store interface {
	// Get returns value for the key or ErrKeyNotFound
	Get(ctx context.Context, key string) ([]byte, error)

	// Put stores value for the key
	Put(ctx context.Context, key string, value []byte) error

	// Delete removes the key
	Delete(ctx context.Context, key string) error

	// Update runs fn in a read-write transaction.
	// Used for read-modify-write cycles that must not interleave.
	Update(ctx context.Context, fn func(tx Tx) error) error

	// View runs fn in a read-only transaction
	View(ctx context.Context, fn func(tx Tx) error) error

	// Close releases underlying resources
	Close() error
}
