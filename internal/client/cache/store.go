// Package cache implements the versioned, staleness-aware local read cache.
package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/iudanet/homekeeper/internal/client/storage"
	"github.com/iudanet/homekeeper/internal/crdt"
	"github.com/iudanet/homekeeper/internal/models"
)

// Thresholds пороги свежести кэша.
// age < Fresh: fresh; Fresh <= age < Expire: stale; age >= Expire: expired.
type Thresholds struct {
	Fresh  time.Duration
	Expire time.Duration
}

// DefaultThresholds значения по умолчанию
var DefaultThresholds = Thresholds{
	Fresh:  5 * time.Minute,
	Expire: 24 * time.Hour,
}

// Source откуда получены данные чтения
type Source string

const (
	SourceCache   Source = "cache"
	SourceNetwork Source = "network"
	SourceEmpty   Source = "empty"
)

// ReadResult результат чтения кэша
type ReadResult struct {
	LastSyncedAt time.Time
	Entities     []models.Record
	Staleness    models.Staleness
	Status       models.ReadStatus
	Source       Source
}

// Store кэш записей по типам сущностей
type Store struct {
	store      storage.Store
	fetcher    Fetcher
	online     OnlineChecker
	notifier   *Notifier
	logger     *slog.Logger
	now        func() time.Time
	group      singleflight.Group
	refreshes  sync.WaitGroup
	thresholds Thresholds
}

// New creates cache store
func New(store storage.Store, fetcher Fetcher, online OnlineChecker, thresholds Thresholds, logger *slog.Logger) *Store {
	return &Store{
		store:      store,
		fetcher:    fetcher,
		online:     online,
		notifier:   NewNotifier(),
		logger:     logger,
		now:        time.Now,
		thresholds: thresholds,
	}
}

// Subscribe подписывает на изменения кэша типа сущности
func (s *Store) Subscribe(entityType models.EntityType) (<-chan ChangeEvent, func()) {
	return s.notifier.Subscribe(entityType)
}

// Read возвращает записи типа согласно свежести кэша и результату чтения.
func (s *Store) Read(ctx context.Context, entityType models.EntityType) (*ReadResult, error) {
	meta, err := s.Metadata(ctx, entityType)
	if err != nil {
		return nil, err
	}
	arr, status, err := s.readArray(ctx, entityType)
	if err != nil {
		return nil, err
	}

	result := &ReadResult{
		Staleness: s.staleness(meta),
		Status:    status,
		Source:    SourceCache,
	}
	if meta != nil {
		result.LastSyncedAt = meta.LastSyncedAt
	}

	switch status {
	case models.ReadStatusCorrupt:
		// поврежденный массив: пусто, затем загрузка
		return s.readThrough(ctx, entityType, result, nil, true)

	case models.ReadStatusFutureVersion:
		// данные более новой версии не перезаписываются
		return s.readThrough(ctx, entityType, result, arr.Entities, false)
	}

	switch result.Staleness {
	case models.StalenessMissing:
		// без метаданных в массиве могут быть только локальные изменения
		return s.readThrough(ctx, entityType, result, arr.Entities, true)

	case models.StalenessFresh:
		result.Entities = arr.Entities

	case models.StalenessStale:
		result.Entities = arr.Entities
		if s.online.IsOnline(ctx) {
			s.refreshInBackground(ctx, entityType)
		}

	case models.StalenessExpired:
		return s.readThrough(ctx, entityType, result, arr.Entities, true)
	}

	return result, nil
}

// readThrough блокирующе загружает данные, если сеть доступна.
// При неудаче возвращается fallback (локальные данные или пусто).
func (s *Store) readThrough(ctx context.Context, entityType models.EntityType, result *ReadResult, fallback []models.Record, persist bool) (*ReadResult, error) {
	result.Entities = fallback
	if result.Entities == nil {
		result.Source = SourceEmpty
	}

	if !s.online.IsOnline(ctx) {
		return result, nil
	}

	var records []models.Record
	var err error
	if persist {
		records, err = s.Refresh(ctx, entityType)
	} else {
		records, err = s.fetcher.Fetch(ctx, entityType)
	}
	if err != nil {
		s.logger.Warn("Cache read-through failed, serving local data",
			"entity_type", entityType,
			"status", result.Status,
			"error", err)
		return result, nil
	}

	result.Entities = records
	result.Source = SourceNetwork
	if persist {
		result.LastSyncedAt = s.now().UTC()
		result.Staleness = models.StalenessFresh
	}
	return result, nil
}

// Refresh загружает записи с сервера и заменяет ими кэш.
// Несинхронизированные локальные записи (без серверного id) и локальные
// копии новее серверных (LWW по updatedAt) сохраняются.
// Параллельные обновления одного типа объединяются.
func (s *Store) Refresh(ctx context.Context, entityType models.EntityType) ([]models.Record, error) {
	v, err, _ := s.group.Do(string(entityType), func() (any, error) {
		remote, err := s.fetcher.Fetch(ctx, entityType)
		if err != nil {
			return nil, err
		}

		var merged []models.Record
		err = s.mutate(ctx, entityType, ReasonReplace, func(local []models.Record) ([]models.Record, error) {
			merged = mergeRefresh(local, remote)
			return merged, nil
		})
		if errors.Is(err, ErrFutureVersion) {
			// не перезаписываем данные более новой версии
			return remote, nil
		}
		if err != nil {
			return nil, err
		}
		return merged, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]models.Record), nil
}

// RefreshAll обновляет кэш всех типов параллельно
func (s *Store) RefreshAll(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, et := range models.EntityTypes {
		g.Go(func() error {
			if _, err := s.Refresh(gctx, et); err != nil {
				return fmt.Errorf("refresh %s: %w", et.Plural(), err)
			}
			return nil
		})
	}
	return g.Wait()
}

// Wait ждет завершения фоновых обновлений
func (s *Store) Wait() {
	s.refreshes.Wait()
}

func (s *Store) refreshInBackground(ctx context.Context, entityType models.EntityType) {
	s.refreshes.Add(1)
	go func() {
		defer s.refreshes.Done()

		bgCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Minute)
		defer cancel()

		if _, err := s.Refresh(bgCtx, entityType); err != nil {
			s.logger.Warn("Background cache refresh failed", "entity_type", entityType, "error", err)
		}
	}()
}

// Replace заменяет все записи типа (данные с сервера) и обновляет lastSyncedAt
func (s *Store) Replace(ctx context.Context, entityType models.EntityType, records []models.Record) error {
	return s.mutate(ctx, entityType, ReasonReplace, func([]models.Record) ([]models.Record, error) {
		return records, nil
	})
}

// Upsert записывает одну запись. Tombstone удаляет запись из кэша.
// Запись сопоставляется по серверному id или localId.
func (s *Store) Upsert(ctx context.Context, entityType models.EntityType, record models.Record) error {
	return s.write(ctx, entityType, ReasonUpsert, func(local []models.Record) ([]models.Record, error) {
		result := make([]models.Record, 0, len(local)+1)
		replaced := false
		for _, r := range local {
			if !sameEntity(r, record) {
				result = append(result, r)
				continue
			}
			replaced = true
			if models.IsDeleted(record) {
				continue
			}
			next := record.Clone()
			if next.LocalID() == "" && r.LocalID() != "" {
				next[models.FieldLocalID] = r.LocalID()
			}
			result = append(result, next)
		}
		if !replaced && !models.IsDeleted(record) {
			result = append(result, record.Clone())
		}
		return result, nil
	})
}

// Remove удаляет запись по серверному id или localId
func (s *Store) Remove(ctx context.Context, entityType models.EntityType, key string) error {
	return s.write(ctx, entityType, ReasonRemove, func(local []models.Record) ([]models.Record, error) {
		result := local[:0]
		for _, r := range local {
			if r.ID() == key || r.LocalID() == key {
				continue
			}
			result = append(result, r)
		}
		return result, nil
	})
}

// Invalidate помечает кэш типа устаревшим: следующее чтение при наличии
// сети загрузит данные заново, без сети вернет локальные данные.
func (s *Store) Invalidate(ctx context.Context, entityType models.EntityType) error {
	err := s.store.Update(ctx, func(tx storage.Tx) error {
		return putJSON(tx, storage.CacheMetaKey(entityType), models.CacheMetadata{Version: models.CacheSchemaVersion})
	})
	if err != nil {
		return fmt.Errorf("failed to invalidate %s cache: %w", entityType, err)
	}
	s.notifier.Publish(ChangeEvent{EntityType: entityType, Reason: ReasonInvalidate})
	return nil
}

// Find ищет запись по серверному id или localId только в локальном кэше,
// без учета свежести и без обращения к сети. Возвращает nil, если записи нет.
func (s *Store) Find(ctx context.Context, entityType models.EntityType, key string) (models.Record, error) {
	arr, status, err := s.readArray(ctx, entityType)
	if err != nil {
		return nil, err
	}
	if status == models.ReadStatusCorrupt {
		return nil, nil
	}
	for _, r := range arr.Entities {
		if r.ID() == key || r.LocalID() == key {
			return r.Clone(), nil
		}
	}
	return nil, nil
}

// Metadata возвращает метаданные кэша или nil, если их нет
func (s *Store) Metadata(ctx context.Context, entityType models.EntityType) (*models.CacheMetadata, error) {
	data, err := s.store.Get(ctx, storage.CacheMetaKey(entityType))
	if errors.Is(err, storage.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cache metadata: %w", err)
	}

	var meta models.CacheMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		s.logger.Warn("Corrupt cache metadata ignored", "entity_type", entityType, "error", err)
		return nil, nil
	}
	return &meta, nil
}

func (s *Store) staleness(meta *models.CacheMetadata) models.Staleness {
	if meta == nil {
		return models.StalenessMissing
	}
	if meta.LastSyncedAt.IsZero() {
		return models.StalenessExpired
	}
	age := s.now().Sub(meta.LastSyncedAt)
	switch {
	case age < s.thresholds.Fresh:
		return models.StalenessFresh
	case age < s.thresholds.Expire:
		return models.StalenessStale
	default:
		return models.StalenessExpired
	}
}

// readArray читает массив кэша и определяет статус чтения.
// Массив версии 1 мигрируется, и нормализованная форма с текущей
// версией записывается обратно.
func (s *Store) readArray(ctx context.Context, entityType models.EntityType) (*models.VersionedCacheArray, models.ReadStatus, error) {
	key := storage.CacheKey(entityType)

	data, err := s.store.Get(ctx, key)
	if errors.Is(err, storage.ErrKeyNotFound) {
		return &models.VersionedCacheArray{Version: models.CacheSchemaVersion}, models.ReadStatusOK, nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to read cache: %w", err)
	}

	arr, err := models.DecodeCacheArray(data)
	if err != nil {
		s.logger.Warn("Corrupt cache array", "entity_type", entityType, "error", err)
		return &models.VersionedCacheArray{}, models.ReadStatusCorrupt, nil
	}

	switch {
	case arr.Version > models.CacheSchemaVersion:
		return arr, models.ReadStatusFutureVersion, nil
	case arr.Version == models.CacheSchemaVersion:
		return arr, models.ReadStatusOK, nil
	}

	// версия меняется всегда, поэтому массив записывается и без изменений в записях
	changed := migrate(arr)
	err = s.store.Update(ctx, func(tx storage.Tx) error {
		current, err := tx.Get(key)
		if err != nil || !bytes.Equal(current, data) {
			// массив изменился после чтения, миграция повторится при следующем чтении
			return nil
		}
		return putJSON(tx, key, arr)
	})
	if err != nil {
		s.logger.Warn("Failed to write back migrated cache", "entity_type", entityType, "error", err)
	} else {
		s.logger.Debug("Cache migrated", "entity_type", entityType, "timestamps_changed", changed)
	}
	return arr, models.ReadStatusMigrated, nil
}

// mutate изменяет массив и обновляет lastSyncedAt (данные с сервера).
func (s *Store) mutate(ctx context.Context, entityType models.EntityType, reason string, fn func([]models.Record) ([]models.Record, error)) error {
	return s.apply(ctx, entityType, reason, true, fn)
}

// write изменяет массив без изменения lastSyncedAt (локальные изменения).
func (s *Store) write(ctx context.Context, entityType models.EntityType, reason string, fn func([]models.Record) ([]models.Record, error)) error {
	return s.apply(ctx, entityType, reason, false, fn)
}

func (s *Store) apply(ctx context.Context, entityType models.EntityType, reason string, synced bool, fn func([]models.Record) ([]models.Record, error)) error {
	key := storage.CacheKey(entityType)
	metaKey := storage.CacheMetaKey(entityType)

	err := s.store.Update(ctx, func(tx storage.Tx) error {
		arr := &models.VersionedCacheArray{Version: models.CacheSchemaVersion}

		data, err := tx.Get(key)
		switch {
		case errors.Is(err, storage.ErrKeyNotFound):
		case err != nil:
			return err
		default:
			decoded, decodeErr := models.DecodeCacheArray(data)
			if decodeErr != nil {
				// поврежденный массив заменяется
				break
			}
			if decoded.Version > models.CacheSchemaVersion {
				return ErrFutureVersion
			}
			if decoded.Version < models.CacheSchemaVersion {
				migrate(decoded)
			}
			arr = decoded
		}

		entities, err := fn(arr.Entities)
		if err != nil {
			return err
		}
		arr.Entities = entities
		arr.Version = models.CacheSchemaVersion
		if err := putJSON(tx, key, arr); err != nil {
			return err
		}

		if synced {
			meta := models.CacheMetadata{LastSyncedAt: s.now().UTC(), Version: models.CacheSchemaVersion}
			return putJSON(tx, metaKey, meta)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to update %s cache: %w", entityType, err)
	}

	s.notifier.Publish(ChangeEvent{EntityType: entityType, Reason: reason})
	return nil
}

// mergeRefresh берет записи сервера (кроме удаленных), переносит на них
// localId из кэша и сохраняет локальные записи без серверного id.
// Если локальная копия новее серверной по updatedAt (оптимистичное
// изменение еще в очереди), остается локальная копия.
func mergeRefresh(local, remote []models.Record) []models.Record {
	byID := make(map[string]models.Record, len(local))
	for _, r := range local {
		if r.ID() != "" {
			byID[r.ID()] = r
		}
	}

	result := make([]models.Record, 0, len(remote)+len(local))
	for _, r := range remote {
		if models.IsDeleted(r) {
			continue
		}
		cached, ok := byID[r.ID()]
		if ok && crdt.DetermineWinner(cached, r) == crdt.SideLocal {
			result = append(result, cached)
			continue
		}
		next := r.Clone()
		if ok && next.LocalID() == "" && cached.LocalID() != "" {
			next[models.FieldLocalID] = cached.LocalID()
		}
		result = append(result, next)
	}
	for _, r := range local {
		if r.ID() == "" && r.LocalID() != "" {
			result = append(result, r)
		}
	}
	return result
}

func sameEntity(a, b models.Record) bool {
	if a.ID() != "" && a.ID() == b.ID() {
		return true
	}
	return a.LocalID() != "" && a.LocalID() == b.LocalID()
}

func putJSON(tx storage.Tx, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	return tx.Put(key, data)
}
