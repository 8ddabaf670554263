package deletionlog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatguard/internal/chat/models"
)

func TestInMemoryStore(t *testing.T) {
	ctx := context.Background()
	jan := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store := NewInMemory()
	for i, reason := range []string{models.DeletionReasonInactive, models.DeletionReasonInactive, "user_request"} {
		require.NoError(t, store.Append(ctx, &models.DeletionLog{
			ID:        string(rune('a' + i)),
			ChatID:    "c",
			Reason:    reason,
			CreatedAt: jan.Add(time.Duration(i) * 24 * time.Hour),
		}))
	}
	require.NoError(t, store.Append(ctx, &models.DeletionLog{ID: "z", Reason: "user_request", CreatedAt: jan.AddDate(0, 2, 0)}))

	counts, err := store.CountByReason(ctx, jan, jan.AddDate(0, 1, 0))
	require.NoError(t, err)
	assert.Equal(t, map[string]int{models.DeletionReasonInactive: 2, "user_request": 1}, counts)

	recent, err := store.ListRecent(ctx, jan, jan.AddDate(0, 1, 0), 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "c", recent[0].ID)
	assert.Equal(t, "b", recent[1].ID)
}
