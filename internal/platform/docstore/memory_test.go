package docstore

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_CRUD(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	first, err := s.Push(ctx, "species", map[string]any{"family": "Felidae"})
	require.NoError(t, err)
	second, err := s.Push(ctx, "species", map[string]any{"family": "Ursidae"})
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	t.Run("lists in insertion order", func(t *testing.T) {
		docs, err := s.List(ctx, "species")
		require.NoError(t, err)
		require.Len(t, docs, 2)
		assert.Equal(t, first, docs[0].ID)
		assert.Equal(t, second, docs[1].ID)
	})

	t.Run("update merges top level keys", func(t *testing.T) {
		require.NoError(t, s.Update(ctx, "species", first, map[string]any{"habitat": "Rainforest"}))
		doc, err := s.Get(ctx, "species", first)
		require.NoError(t, err)
		assert.Equal(t, "Felidae", doc.Data["family"])
		assert.Equal(t, "Rainforest", doc.Data["habitat"])
	})

	t.Run("missing documents", func(t *testing.T) {
		_, err := s.Get(ctx, "species", "nope")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.ErrorIs(t, s.Update(ctx, "species", "nope", map[string]any{}), ErrNotFound)
		assert.ErrorIs(t, s.Remove(ctx, "species", "nope"), ErrNotFound)
		assert.ErrorIs(t, s.Mutate(ctx, "other", "nope", nil), ErrNotFound)
	})

	t.Run("remove keeps order of the rest", func(t *testing.T) {
		third, err := s.Push(ctx, "species", map[string]any{"family": "Canidae"})
		require.NoError(t, err)
		require.NoError(t, s.Remove(ctx, "species", second))

		docs, err := s.List(ctx, "species")
		require.NoError(t, err)
		require.Len(t, docs, 2)
		assert.Equal(t, first, docs[0].ID)
		assert.Equal(t, third, docs[1].ID)
	})

	t.Run("empty collection", func(t *testing.T) {
		docs, err := s.List(ctx, "users")
		require.NoError(t, err)
		assert.Empty(t, docs)
	})
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	id, err := s.Push(ctx, "species", map[string]any{"images": []any{map[string]any{"id": "a"}}})
	require.NoError(t, err)

	doc, err := s.Get(ctx, "species", id)
	require.NoError(t, err)
	doc.Data["images"].([]any)[0].(map[string]any)["id"] = "changed"

	again, err := s.Get(ctx, "species", id)
	require.NoError(t, err)
	assert.Equal(t, "a", again.Data["images"].([]any)[0].(map[string]any)["id"])
}

func TestMemoryStore_Mutate(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	id, err := s.Push(ctx, "species", map[string]any{"count": 0})
	require.NoError(t, err)

	t.Run("concurrent increments are not lost", func(t *testing.T) {
		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_ = s.Mutate(ctx, "species", id, func(cur map[string]any) (map[string]any, error) {
					cur["count"] = cur["count"].(int) + 1
					return cur, nil
				})
			}()
		}
		wg.Wait()

		doc, err := s.Get(ctx, "species", id)
		require.NoError(t, err)
		assert.Equal(t, 50, doc.Data["count"])
	})

	t.Run("error aborts the write", func(t *testing.T) {
		boom := errors.New("boom")
		err := s.Mutate(ctx, "species", id, func(cur map[string]any) (map[string]any, error) {
			cur["count"] = -1
			return nil, boom
		})
		assert.ErrorIs(t, err, boom)

		doc, err := s.Get(ctx, "species", id)
		require.NoError(t, err)
		assert.Equal(t, 50, doc.Data["count"])
	})
}

func TestNodeDocuments(t *testing.T) {
	t.Run("object keyed by push id", func(t *testing.T) {
		docs := nodeDocuments(map[string]any{
			"-Nb2": map[string]any{"nombre_cientifico": "B"},
			"-Na1": map[string]any{"nombre_cientifico": "A"},
			"bad":  "scalar",
		})
		require.Len(t, docs, 2)
		assert.Equal(t, "-Na1", docs[0].ID)
		assert.Equal(t, "-Nb2", docs[1].ID)
	})

	t.Run("array with holes", func(t *testing.T) {
		docs := nodeDocuments([]any{nil, map[string]any{"x": 1.0}, map[string]any{"x": 2.0}})
		require.Len(t, docs, 2)
		assert.Equal(t, "1", docs[0].ID)
		assert.Equal(t, "2", docs[1].ID)
	})

	t.Run("empty node", func(t *testing.T) {
		assert.Empty(t, nodeDocuments(nil))
	})
}
