// Package memory provides an in-memory storage.Store used in tests and
// for ephemeral clients.
package memory

import (
	"bytes"
	"context"
	"maps"
	"sync"

	"github.com/iudanet/homekeeper/internal/client/storage"
)

// Storage хранит значения в map под мьютексом.
type Storage struct {
	data   map[string][]byte
	mu     sync.RWMutex
	closed bool
}

var _ storage.Store = (*Storage)(nil)

// New creates empty in-memory storage
func New() *Storage {
	return &Storage{data: make(map[string][]byte)}
}

func (s *Storage) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.View(ctx, func(tx storage.Tx) error {
		v, err := tx.Get(key)
		value = v
		return err
	})
	return value, err
}

func (s *Storage) Put(ctx context.Context, key string, value []byte) error {
	return s.Update(ctx, func(tx storage.Tx) error {
		return tx.Put(key, value)
	})
}

func (s *Storage) Delete(ctx context.Context, key string) error {
	return s.Update(ctx, func(tx storage.Tx) error {
		return tx.Delete(key)
	})
}

// Update применяет изменения к копии данных и заменяет оригинал только при успехе.
func (s *Storage) Update(ctx context.Context, fn func(tx storage.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return storage.ErrStorageClosed
	}

	t := &tx{data: maps.Clone(s.data)}
	if err := fn(t); err != nil {
		return err
	}
	s.data = t.data
	return nil
}

func (s *Storage) View(ctx context.Context, fn func(tx storage.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return storage.ErrStorageClosed
	}
	return fn(&tx{data: s.data, readOnly: true})
}

func (s *Storage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	return nil
}

type tx struct {
	data     map[string][]byte
	readOnly bool
}

func (t *tx) Get(key string) ([]byte, error) {
	v, ok := t.data[key]
	if !ok {
		return nil, storage.ErrKeyNotFound
	}
	return bytes.Clone(v), nil
}

func (t *tx) Put(key string, value []byte) error {
	if t.readOnly {
		return errReadOnly
	}
	t.data[key] = bytes.Clone(value)
	return nil
}

func (t *tx) Delete(key string) error {
	if t.readOnly {
		return errReadOnly
	}
	delete(t.data, key)
	return nil
}
