package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/homekeeper/internal/models"
	"github.com/iudanet/homekeeper/internal/server/storage"
)

func TestEntity_GetNotFound(t *testing.T) {
	s := setupTestStorage(t)

	_, err := s.GetEntity(context.Background(), "user1", models.EntityTypeItem, "missing")
	assert.ErrorIs(t, err, storage.ErrEntityNotFound)
}

func TestEntity_ListByUserAndType(t *testing.T) {
	ctx := context.Background()
	s := setupTestStorage(t)

	records := []struct {
		record     models.Record
		userID     string
		entityType models.EntityType
	}{
		{userID: "user1", entityType: models.EntityTypeChore, record: models.Record{"id": "c2", "name": "Dishes"}},
		{userID: "user1", entityType: models.EntityTypeChore, record: models.Record{"id": "c1", "name": "Laundry", "deletedAt": "2024-03-01T12:00:00.000Z"}},
		{userID: "user1", entityType: models.EntityTypeRecipe, record: models.Record{"id": "r1", "name": "Soup"}},
		{userID: "user2", entityType: models.EntityTypeChore, record: models.Record{"id": "c3", "name": "Trash"}},
	}

	for i, r := range records {
		key := newLedgerKey(r.userID)
		key.EntityType = r.entityType
		commit(t, s, key, r.record, testTime.Add(time.Duration(i)*time.Second))
	}

	got, err := s.ListEntities(ctx, "user1", models.EntityTypeChore)
	require.NoError(t, err)
	require.Len(t, got, 2, "tombstones are listed")
	assert.Equal(t, "c2", got[0].ID(), "ordered by modification time")
	assert.Equal(t, "c1", got[1].ID())
	assert.True(t, models.IsDeleted(got[1]))

	var deleted int
	require.NoError(t, s.DB().QueryRow(`SELECT deleted FROM entities WHERE id = 'c1'`).Scan(&deleted))
	assert.Equal(t, 1, deleted)

	got, err = s.ListEntities(ctx, "user2", models.EntityTypeRecipe)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestEntity_CommitReplacesRecord(t *testing.T) {
	ctx := context.Background()
	s := setupTestStorage(t)

	commit(t, s, newLedgerKey("user1"), models.Record{"id": "l1", "name": "Old", "store": "Market"}, testTime)
	commit(t, s, newLedgerKey("user1"), models.Record{"id": "l1", "name": "New"}, testTime.Add(time.Minute))

	got, err := s.GetEntity(ctx, "user1", models.EntityTypeList, "l1")
	require.NoError(t, err)
	assert.Equal(t, models.Record{"id": "l1", "name": "New"}, got, "record is replaced as a whole")

	list, err := s.ListEntities(ctx, "user1", models.EntityTypeList)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
