package store_test

import (
	"context"
	"strconv"
	"sync"
	"testing"

	"github.com/advdv/rawhttp/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryInsertAssignsSequentialIDs(t *testing.T) {
	ctx := context.Background()
	db := store.NewMemory()

	first, err := db.Insert(ctx, store.Item{"name": "a"})
	require.NoError(t, err)
	second, err := db.Insert(ctx, store.Item{"name": "b", "id": "ignored"})
	require.NoError(t, err)

	assert.Equal(t, "1", first.ID())
	assert.Equal(t, "2", second.ID())
	assert.Equal(t, "b", second["name"])
}

func TestMemoryAllKeepsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	db := store.NewMemory()

	all, err := db.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
	assert.NotNil(t, all)

	for i := range 12 {
		_, err := db.Insert(ctx, store.Item{"n": i})
		require.NoError(t, err)
	}

	all, err = db.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 12)

	for i, it := range all {
		assert.Equal(t, strconv.Itoa(i+1), it.ID())
		assert.Equal(t, i, it["n"])
	}
}

func TestMemoryGet(t *testing.T) {
	ctx := context.Background()
	db := store.NewMemory()

	_, err := db.Get(ctx, "1")
	require.ErrorIs(t, err, store.ErrNotFound)

	created, err := db.Insert(ctx, store.Item{"name": "x"})
	require.NoError(t, err)

	got, err := db.Get(ctx, created.ID())
	require.NoError(t, err)
	assert.Equal(t, created, got)

	// returned items are copies
	got["name"] = "changed"
	again, err := db.Get(ctx, created.ID())
	require.NoError(t, err)
	assert.Equal(t, "x", again["name"])
}

func TestMemoryUpdate(t *testing.T) {
	ctx := context.Background()
	db := store.NewMemory()

	_, err := db.Update(ctx, "7", store.Item{"a": 1})
	require.ErrorIs(t, err, store.ErrNotFound)

	created, err := db.Insert(ctx, store.Item{"a": 1})
	require.NoError(t, err)

	updated, err := db.Update(ctx, created.ID(), store.Item{"b": 2, "id": "other"})
	require.NoError(t, err)
	assert.Equal(t, store.Item{"b": 2, "id": created.ID()}, updated)

	// repeating the same update leaves the same state
	again, err := db.Update(ctx, created.ID(), store.Item{"b": 2, "id": "other"})
	require.NoError(t, err)
	assert.Equal(t, updated, again)

	all, err := db.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, []store.Item{updated}, all)
}

func TestMemoryInsertSkipsTakenIDs(t *testing.T) {
	ctx := context.Background()

	ids := []string{"a", "a", "b"}
	db := store.NewMemory(store.WithIDFunc(func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}))

	first, err := db.Insert(ctx, store.Item{})
	require.NoError(t, err)
	second, err := db.Insert(ctx, store.Item{})
	require.NoError(t, err)

	assert.Equal(t, "a", first.ID())
	assert.Equal(t, "b", second.ID())
}

func TestMemoryConcurrentInserts(t *testing.T) {
	ctx := context.Background()
	db := store.NewMemory()

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := db.Insert(ctx, store.Item{"k": "v"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	all, err := db.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 50)

	seen := map[string]bool{}
	for _, it := range all {
		assert.False(t, seen[it.ID()], "duplicate id %s", it.ID())
		seen[it.ID()] = true
	}
}

func TestNewIDFunc(t *testing.T) {
	seq, err := store.NewIDFunc("sequential")
	require.NoError(t, err)
	assert.Equal(t, "1", seq())
	assert.Equal(t, "2", seq())

	uu, err := store.NewIDFunc("uuid")
	require.NoError(t, err)
	assert.Len(t, uu(), 36)
	assert.NotEqual(t, uu(), uu())

	_, err = store.NewIDFunc("random")
	require.EqualError(t, err, `unsupported id scheme: "random" (supported: sequential, uuid)`)
}
