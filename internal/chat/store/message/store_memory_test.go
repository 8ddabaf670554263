package message

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatguard/internal/chat/models"
	id "chatguard/pkg/domain"
)

func TestSoftDeleteBatch(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	store := NewInMemory()
	for i := range 5 {
		require.NoError(t, store.Create(ctx, &models.Message{
			ID:      id.MessageID(fmt.Sprintf("m%02d", i)),
			ChatID:  "c1",
			Content: fmt.Sprintf("hello %d", i),
		}))
	}
	require.NoError(t, store.Create(ctx, &models.Message{ID: "x01", ChatID: "c2", Content: "other"}))

	n, cursor, err := store.SoftDeleteBatch(ctx, "c1", "", 2, at)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, id.MessageID("m01"), cursor)

	n, cursor, err = store.SoftDeleteBatch(ctx, "c1", cursor, 10, at)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, id.MessageID("m04"), cursor)

	n, cursor, err = store.SoftDeleteBatch(ctx, "c1", cursor, 10, at)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, id.MessageID("m04"), cursor)

	msgs, err := store.ListByChat(ctx, "c1")
	require.NoError(t, err)
	for i, m := range msgs {
		assert.True(t, m.Deleted)
		assert.Equal(t, fmt.Sprintf("hello %d", i), m.OriginalContent)
	}
	other, err := store.ListByChat(ctx, "c2")
	require.NoError(t, err)
	assert.False(t, other[0].Deleted)
}
