package boltdb

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
	berrors "go.etcd.io/bbolt/errors"

	"github.com/iudanet/homekeeper/internal/client/storage"
)

// openTimeout сколько ждать блокировку файла, если база открыта другим процессом
const openTimeout = time.Second

// bucketData единственный bucket, ключи разделяются префиксами
var bucketData = []byte("homekeeper")

// Storage represents BoltDB storage implementation for client
type Storage struct {
	db *bbolt.DB
}

// Compile-time check that Storage implements storage.Store
var _ storage.Store = (*Storage)(nil)

// New creates a new BoltDB storage instance
// dbPath is the path to the BoltDB database file
func New(ctx context.Context, dbPath string) (*Storage, error) {
	// Открываем BoltDB
	db, err := bbolt.Open(dbPath, 0600, &bbolt.Options{Timeout: openTimeout})
	if err != nil {
		return nil, fmt.Errorf("failed to open boltdb: %w", err)
	}

	s := &Storage{db: db}

	// Инициализируем bucket
	if err := s.initBuckets(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize buckets: %w", err)
	}

	return s, nil
}

// Close closes the database connection
func (s *Storage) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Get returns value for the key
func (s *Storage) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.View(ctx, func(tx storage.Tx) error {
		v, err := tx.Get(key)
		value = v
		return err
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}

// Put stores value for the key
func (s *Storage) Put(ctx context.Context, key string, value []byte) error {
	return s.Update(ctx, func(tx storage.Tx) error {
		return tx.Put(key, value)
	})
}

// Delete removes the key
func (s *Storage) Delete(ctx context.Context, key string) error {
	return s.Update(ctx, func(tx storage.Tx) error {
		return tx.Delete(key)
	})
}

// Update runs fn inside bbolt read-write transaction
func (s *Storage) Update(ctx context.Context, fn func(tx storage.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := s.db.Update(func(btx *bbolt.Tx) error {
		bucket := btx.Bucket(bucketData)
		if bucket == nil {
			return fmt.Errorf("data bucket not found")
		}
		return fn(&tx{bucket: bucket})
	})
	return mapError(err)
}

// View runs fn inside bbolt read-only transaction
func (s *Storage) View(ctx context.Context, fn func(tx storage.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := s.db.View(func(btx *bbolt.Tx) error {
		bucket := btx.Bucket(bucketData)
		if bucket == nil {
			return fmt.Errorf("data bucket not found")
		}
		return fn(&tx{bucket: bucket, readOnly: true})
	})
	return mapError(err)
}

// initBuckets создает необходимые buckets если они не существуют
func (s *Storage) initBuckets() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketData); err != nil {
			return fmt.Errorf("failed to create data bucket: %w", err)
		}
		return nil
	})
}

type tx struct {
	bucket   *bbolt.Bucket
	readOnly bool
}

func (t *tx) Get(key string) ([]byte, error) {
	v := t.bucket.Get([]byte(key))
	if v == nil {
		return nil, storage.ErrKeyNotFound
	}
	// значение валидно только внутри транзакции
	return bytes.Clone(v), nil
}

func (t *tx) Put(key string, value []byte) error {
	if t.readOnly {
		return berrors.ErrTxNotWritable
	}
	if err := t.bucket.Put([]byte(key), value); err != nil {
		return fmt.Errorf("failed to put %s: %w", key, err)
	}
	return nil
}

func (t *tx) Delete(key string) error {
	if t.readOnly {
		return berrors.ErrTxNotWritable
	}
	if err := t.bucket.Delete([]byte(key)); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

func mapError(err error) error {
	if errors.Is(err, berrors.ErrDatabaseNotOpen) {
		return storage.ErrStorageClosed
	}
	return err
}
