package cli

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/homekeeper/internal/client/queue"
	"github.com/iudanet/homekeeper/internal/models"
)

func TestCli_runQueueList(t *testing.T) {
	mockIO, out := newTestIO()
	q := &QueueManagerMock{
		AllFunc: func(ctx context.Context) ([]*models.QueuedWrite, error) {
			return []*models.QueuedWrite{
				{
					OperationID: "op-1",
					EntityType:  models.EntityTypeItem,
					Action:      models.ActionCreate,
					Status:      models.WriteStatusPending,
					Target:      models.WriteTarget{LocalID: "l1"},
				},
				{
					OperationID: "op-2",
					EntityType:  models.EntityTypeChore,
					Action:      models.ActionUpdate,
					Status:      models.WriteStatusFailedPermanent,
					Attempts:    5,
					LastError:   "server error (500)",
					Target:      models.WriteTarget{LocalID: "l2", ID: "srv-2"},
				},
			}, nil
		},
		QuarantinedFunc: func(ctx context.Context) ([]queue.QuarantinedEntry, error) {
			return []queue.QuarantinedEntry{{Reason: "bad json"}}, nil
		},
	}

	require.NoError(t, newTestCli(mockIO, nil, nil, q, nil).runQueueList(context.Background()))

	assert.Contains(t, out.String(), "OPERATION")
	assert.Regexp(t, `op-1\s+item\s+create\s+l1\s+pending\s+0`, out.String())
	assert.Regexp(t, `op-2\s+chore\s+update\s+srv-2\s+failed_permanent\s+5\s+server error \(500\)`, out.String())
	assert.Contains(t, out.String(), "1 damaged entries")
}

func TestCli_runQueueList_Empty(t *testing.T) {
	mockIO, out := newTestIO()
	q := &QueueManagerMock{
		AllFunc:         func(ctx context.Context) ([]*models.QueuedWrite, error) { return nil, nil },
		QuarantinedFunc: func(ctx context.Context) ([]queue.QuarantinedEntry, error) { return nil, nil },
	}

	require.NoError(t, newTestCli(mockIO, nil, nil, q, nil).runQueueList(context.Background()))
	assert.Equal(t, "Queue is empty.\n", out.String())
}

func TestCli_runQueueRetry(t *testing.T) {
	tests := []struct {
		retryErr error
		name     string
		want     string
		ids      []string
		retried  int
	}{
		{name: "all failed", retried: 2, want: "2 write(s) returned"},
		{name: "selected", ids: []string{"op-2"}, retried: 1, want: "1 write(s) returned"},
		{name: "nothing failed", retried: 0, want: "No failed writes"},
		{name: "storage error", retryErr: errors.New("db closed")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockIO, out := newTestIO()
			q := &QueueManagerMock{
				RetryFunc: func(ctx context.Context, operationIDs ...string) (int, error) {
					return tt.retried, tt.retryErr
				},
			}

			err := newTestCli(mockIO, nil, nil, q, nil).runQueueRetry(context.Background(), tt.ids)
			if tt.retryErr != nil {
				assert.ErrorIs(t, err, tt.retryErr)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, out.String(), tt.want)
			assert.Equal(t, tt.ids, q.RetryCalls()[0].OperationIDs)
		})
	}
}
