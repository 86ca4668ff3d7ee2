package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/homekeeper/internal/client/api"
	"github.com/iudanet/homekeeper/internal/client/auth"
	"github.com/iudanet/homekeeper/internal/models"
	pkgapi "github.com/iudanet/homekeeper/pkg/api"
)

func TestRemoteFetcher(t *testing.T) {
	client := &api.SyncClientMock{
		FetchEntitiesFunc: func(ctx context.Context, token, entityType string) (*pkgapi.EntitiesResponse, error) {
			assert.Equal(t, "tok", token)
			assert.Equal(t, "recipe", entityType)
			return &pkgapi.EntitiesResponse{Entities: []map[string]any{{"id": "r-1", "name": "Soup"}}}, nil
		},
	}
	creds := &auth.CredentialProviderMock{
		AccessTokenFunc: func(ctx context.Context) (string, error) { return "tok", nil },
	}

	records, err := NewRemoteFetcher(client, creds).Fetch(context.Background(), models.EntityTypeRecipe)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "r-1", records[0].ID())
}

func TestRemoteFetcher_NotSignedIn(t *testing.T) {
	client := &api.SyncClientMock{}
	creds := &auth.CredentialProviderMock{
		AccessTokenFunc: func(ctx context.Context) (string, error) { return "", auth.ErrNotSignedIn },
	}

	_, err := NewRemoteFetcher(client, creds).Fetch(context.Background(), models.EntityTypeRecipe)
	assert.ErrorIs(t, err, auth.ErrNotSignedIn)
	assert.Empty(t, client.FetchEntitiesCalls())
}

func TestHealthChecker(t *testing.T) {
	healthy := true
	client := &api.SyncClientMock{
		HealthFunc: func(ctx context.Context) error {
			_, hasDeadline := ctx.Deadline()
			assert.True(t, hasDeadline)
			if healthy {
				return nil
			}
			return errors.New("down")
		},
	}
	checker := NewHealthChecker(client, time.Second)

	assert.True(t, checker.IsOnline(context.Background()))
	healthy = false
	assert.False(t, checker.IsOnline(context.Background()))
}
