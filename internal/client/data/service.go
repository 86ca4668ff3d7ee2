// Package data applies household mutations locally: every change goes to
// the write queue and the cache at once, the network is never awaited.
package data

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/iudanet/homekeeper/internal/client/cache"
	"github.com/iudanet/homekeeper/internal/crdt"
	"github.com/iudanet/homekeeper/internal/models"
)

//go:generate moq -out service_mock.go . Service

// Service определяет интерфейс для клиентского data сервиса
type Service interface {
	AddList(ctx context.Context, list *models.ShoppingList) (models.Record, error)
	AddItem(ctx context.Context, item *models.ShoppingItem) (models.Record, error)
	AddRecipe(ctx context.Context, recipe *models.Recipe) (models.Record, error)
	AddChore(ctx context.Context, chore *models.Chore) (models.Record, error)

	// Update применяет изменения полей к существующей записи
	Update(ctx context.Context, entityType models.EntityType, key string, changes map[string]any) (models.Record, error)

	// Delete превращает запись в tombstone
	Delete(ctx context.Context, entityType models.EntityType, key string) error

	// Get ищет запись в локальном кэше по id или localId
	Get(ctx context.Context, entityType models.EntityType, key string) (models.Record, error)

	// List читает записи типа с учетом свежести кэша
	List(ctx context.Context, entityType models.EntityType) (*cache.ReadResult, error)
}

// Queue принимает локальные изменения для отправки
type Queue interface {
	Enqueue(ctx context.Context, entityType models.EntityType, action models.WriteAction, target models.WriteTarget) (*models.QueuedWrite, error)
}

// Cache локальный кэш записей
type Cache interface {
	Read(ctx context.Context, entityType models.EntityType) (*cache.ReadResult, error)
	Find(ctx context.Context, entityType models.EntityType, key string) (models.Record, error)
	Upsert(ctx context.Context, entityType models.EntityType, record models.Record) error
}

// Waker будит обработчик синхронизации
type Waker interface {
	Wake()
}

// protectedFields не меняются через Update
var protectedFields = map[string]bool{
	models.FieldID:        true,
	models.FieldLocalID:   true,
	models.FieldCreatedAt: true,
	models.FieldUpdatedAt: true,
	models.FieldDeletedAt: true,
}

// service handles client-side household mutations
type service struct {
	queue  Queue
	cache  Cache
	waker  Waker
	clock  *crdt.Clock
	logger *slog.Logger
}

// NewService creates a new data service. waker может быть nil,
// если фоновая синхронизация не запущена.
func NewService(q Queue, c Cache, waker Waker, clock *crdt.Clock, logger *slog.Logger) Service {
	return &service{
		queue:  q,
		cache:  c,
		waker:  waker,
		clock:  clock,
		logger: logger,
	}
}

// AddList creates a shopping list
func (s *service) AddList(ctx context.Context, list *models.ShoppingList) (models.Record, error) {
	if strings.TrimSpace(list.Name) == "" {
		return nil, models.ErrEmptyName
	}
	return s.create(ctx, models.EntityTypeList, list)
}

// AddItem adds an item to a shopping list
func (s *service) AddItem(ctx context.Context, item *models.ShoppingItem) (models.Record, error) {
	if strings.TrimSpace(item.Name) == "" {
		return nil, models.ErrEmptyName
	}
	if item.ListID == "" {
		return nil, ErrEmptyListID
	}
	return s.create(ctx, models.EntityTypeItem, item)
}

// AddRecipe creates a recipe
func (s *service) AddRecipe(ctx context.Context, recipe *models.Recipe) (models.Record, error) {
	if strings.TrimSpace(recipe.Name) == "" {
		return nil, models.ErrEmptyName
	}
	return s.create(ctx, models.EntityTypeRecipe, recipe)
}

// AddChore creates a chore
func (s *service) AddChore(ctx context.Context, chore *models.Chore) (models.Record, error) {
	if strings.TrimSpace(chore.Name) == "" {
		return nil, models.ErrEmptyName
	}
	return s.create(ctx, models.EntityTypeChore, chore)
}

func (s *service) create(ctx context.Context, entityType models.EntityType, entity any) (models.Record, error) {
	record, err := models.ToRecord(entity)
	if err != nil {
		return nil, err
	}

	localID := record.LocalID()
	if localID == "" {
		localID = uuid.New().String()
	}

	now := models.FormatTimestamp(s.clock.Tick())
	record[models.FieldLocalID] = localID
	record[models.FieldCreatedAt] = now
	record[models.FieldUpdatedAt] = now
	delete(record, models.FieldDeletedAt)
	delete(record, models.FieldID)

	if err := s.commit(ctx, entityType, models.ActionCreate, record); err != nil {
		return nil, err
	}
	return record, nil
}

// Update applies field changes on top of the cached record
func (s *service) Update(ctx context.Context, entityType models.EntityType, key string, changes map[string]any) (models.Record, error) {
	record, err := s.Get(ctx, entityType, key)
	if err != nil {
		return nil, err
	}

	for k, v := range changes {
		if protectedFields[k] {
			continue
		}
		record[k] = v
	}
	record[models.FieldUpdatedAt] = models.FormatTimestamp(s.clock.Tick())

	if err := s.commit(ctx, entityType, models.ActionUpdate, record); err != nil {
		return nil, err
	}
	return record, nil
}

// Delete marks the record deleted; the tombstone is synced, the cache drops it
func (s *service) Delete(ctx context.Context, entityType models.EntityType, key string) error {
	record, err := s.Get(ctx, entityType, key)
	if err != nil {
		return err
	}

	now := models.FormatTimestamp(s.clock.Tick())
	record[models.FieldUpdatedAt] = now
	record[models.FieldDeletedAt] = now

	return s.commit(ctx, entityType, models.ActionDelete, record)
}

// Get looks up a live record in the local cache
func (s *service) Get(ctx context.Context, entityType models.EntityType, key string) (models.Record, error) {
	if !entityType.Valid() {
		return nil, fmt.Errorf("%w: %q", models.ErrUnknownEntityType, entityType)
	}
	if key == "" {
		return nil, ErrEmptyKey
	}

	record, err := s.cache.Find(ctx, entityType, key)
	if err != nil {
		return nil, fmt.Errorf("failed to read cache: %w", err)
	}
	if record == nil || models.IsDeleted(record) {
		return nil, fmt.Errorf("%w: %s %s", ErrNotFound, entityType, key)
	}
	return record, nil
}

// List reads records of one type
func (s *service) List(ctx context.Context, entityType models.EntityType) (*cache.ReadResult, error) {
	if !entityType.Valid() {
		return nil, fmt.Errorf("%w: %q", models.ErrUnknownEntityType, entityType)
	}
	return s.cache.Read(ctx, entityType)
}

// commit ставит изменение в очередь и сразу отражает его в кэше.
// Очередь первична: если запись в кэш не удалась, изменение все равно
// будет отправлено и вернется при следующем обновлении кэша.
func (s *service) commit(ctx context.Context, entityType models.EntityType, action models.WriteAction, record models.Record) error {
	localID := record.LocalID()
	if localID == "" {
		// запись пришла с сервера без localId, используем серверный id
		localID = record.ID()
		record[models.FieldLocalID] = localID
	}

	w, err := s.queue.Enqueue(ctx, entityType, action, models.WriteTarget{
		Payload: record,
		LocalID: localID,
		ID:      record.ID(),
	})
	if err != nil {
		return fmt.Errorf("failed to queue %s: %w", entityType, err)
	}

	if err := s.cache.Upsert(ctx, entityType, record); err != nil {
		s.logger.Warn("Failed to apply local change to cache",
			"entity_type", entityType,
			"local_id", localID,
			"error", err)
	}

	s.logger.Debug("Local change recorded",
		"operation_id", w.OperationID,
		"entity_type", entityType,
		"action", action)

	if s.waker != nil {
		s.waker.Wake()
	}
	return nil
}
