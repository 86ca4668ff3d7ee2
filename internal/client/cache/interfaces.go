package cache

import (
	"context"

	"github.com/iudanet/homekeeper/internal/models"
)

//go:generate moq -out fetcher_mock.go . Fetcher
//go:generate moq -out online_mock.go . OnlineChecker

// Fetcher загружает актуальные записи одного типа с сервера
type Fetcher interface {
	Fetch(ctx context.Context, entityType models.EntityType) ([]models.Record, error)
}

// OnlineChecker сообщает, доступна ли сеть
type OnlineChecker interface {
	IsOnline(ctx context.Context) bool
}
