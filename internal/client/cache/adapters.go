package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/iudanet/homekeeper/internal/client/api"
	"github.com/iudanet/homekeeper/internal/client/auth"
	"github.com/iudanet/homekeeper/internal/models"
)

// RemoteFetcher загружает записи через API сервера
type RemoteFetcher struct {
	client api.SyncClient
	creds  auth.CredentialProvider
}

var _ Fetcher = (*RemoteFetcher)(nil)

// NewRemoteFetcher creates fetcher backed by the sync API
func NewRemoteFetcher(client api.SyncClient, creds auth.CredentialProvider) *RemoteFetcher {
	return &RemoteFetcher{client: client, creds: creds}
}

// Fetch загружает все записи типа
func (f *RemoteFetcher) Fetch(ctx context.Context, entityType models.EntityType) ([]models.Record, error) {
	token, err := f.creds.AccessToken(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := f.client.FetchEntities(ctx, token, string(entityType))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", entityType.Plural(), err)
	}

	records := make([]models.Record, 0, len(resp.Entities))
	for _, e := range resp.Entities {
		records = append(records, models.Record(e))
	}
	return records, nil
}

// HealthChecker считает сервер доступным, если отвечает health endpoint
type HealthChecker struct {
	client  api.SyncClient
	timeout time.Duration
}

var _ OnlineChecker = (*HealthChecker)(nil)

// NewHealthChecker creates connectivity probe
func NewHealthChecker(client api.SyncClient, timeout time.Duration) *HealthChecker {
	return &HealthChecker{client: client, timeout: timeout}
}

// IsOnline проверяет доступность сервера
func (h *HealthChecker) IsOnline(ctx context.Context) bool {
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}
	return h.client.Health(ctx) == nil
}
