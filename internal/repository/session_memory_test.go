package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/futig/parallel-universe/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSession struct {
	name string
}

func TestSessionStore(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore[*fakeSession](0)

	require.NoError(t, store.Create(ctx, "a", &fakeSession{name: "first"}))
	assert.Error(t, store.Create(ctx, "a", &fakeSession{name: "dup"}))

	got, err := store.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "first", got.name)
	assert.Equal(t, 1, store.Count())

	require.NoError(t, store.Touch(ctx, "a"))
	require.NoError(t, store.Delete(ctx, "a"))

	_, err = store.Get(ctx, "a")
	assert.ErrorIs(t, err, entity.ErrSessionNotFound)
	assert.ErrorIs(t, store.Delete(ctx, "a"), entity.ErrSessionNotFound)
	assert.ErrorIs(t, store.Touch(ctx, "a"), entity.ErrSessionNotFound)
}

func TestSessionStore_Expiration(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore[*fakeSession](20 * time.Millisecond)

	require.NoError(t, store.Create(ctx, "a", &fakeSession{}))

	assert.Eventually(t, func() bool {
		_, err := store.Get(ctx, "a")
		return err != nil
	}, time.Second, 5*time.Millisecond)
}

func TestSessionStore_TouchDoesNotResurrectDeleted(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore[*fakeSession](time.Hour)

	for i := range 200 {
		id := fmt.Sprintf("session-%d", i)
		require.NoError(t, store.Create(ctx, id, &fakeSession{name: id}))

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			for range 20 {
				_ = store.Touch(ctx, id)
			}
		}()
		go func() {
			defer wg.Done()
			_ = store.Delete(ctx, id)
		}()
		wg.Wait()

		_, err := store.Get(ctx, id)
		require.ErrorIs(t, err, entity.ErrSessionNotFound, "session %s came back after delete", id)
	}
	assert.Zero(t, store.Count())
}
