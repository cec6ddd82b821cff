package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terraverde/terraverde-api/internal/apperror"
	"github.com/terraverde/terraverde-api/internal/platform/docstore"
	"github.com/terraverde/terraverde-api/internal/species/domain"
)

type failingStore struct {
	*docstore.MemoryStore
	err error
}

func (f failingStore) List(context.Context, string) ([]docstore.Document, error) {
	return nil, f.err
}

func TestSpeciesRepository(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemoryStore()
	repo := NewSpeciesRepository(store, "species")
	now := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)

	jaguar := domain.Species{
		ScientificName: "Panthera onca",
		CommonName:     "Jaguar",
		Family:         "Felidae",
		Active:         true,
		RegisteredAt:   now,
		UpdatedAt:      now,
		Images:         []domain.Image{},
		Comments:       []domain.Comment{},
	}

	created, err := repo.Create(ctx, jaguar)
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	t.Run("get", func(t *testing.T) {
		got, err := repo.Get(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "Jaguar", got.CommonName)
		assert.Equal(t, domain.StatusNotEvaluated, got.ConservationStatus)
	})

	t.Run("legacy documents are normalized on list", func(t *testing.T) {
		store.Put("species", "legacy", map[string]any{"nombre_cientifico": "Tremarctos ornatus", "familia": "Ursidae"})
		all, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, "Tremarctos ornatus", all[1].ScientificName)
		assert.Equal(t, "Ursidae", all[1].Family)
	})

	t.Run("save merges", func(t *testing.T) {
		got, err := repo.Get(ctx, created.ID)
		require.NoError(t, err)
		got.Habitat = "Rainforest"
		saved, err := repo.Save(ctx, got)
		require.NoError(t, err)
		assert.Equal(t, "Rainforest", saved.Habitat)

		again, err := repo.Get(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "Rainforest", again.Habitat)
	})

	t.Run("append comment", func(t *testing.T) {
		later := now.Add(time.Hour)
		s, err := repo.AppendComment(ctx, created.ID, domain.Comment{ID: "c1", Text: "hi", Author: "Ana", Date: later}, later)
		require.NoError(t, err)
		assert.Equal(t, 1, s.CommentCount)
		assert.Equal(t, later, s.UpdatedAt)

		stored, err := repo.Get(ctx, created.ID)
		require.NoError(t, err)
		require.Len(t, stored.Comments, 1)
		assert.Equal(t, "hi", stored.Comments[0].Text)
		assert.Equal(t, now, stored.RegisteredAt)
	})

	t.Run("not found maps to apperror", func(t *testing.T) {
		_, err := repo.Get(ctx, "missing")
		assert.ErrorIs(t, err, apperror.ErrNotFound)
		assert.ErrorIs(t, repo.Delete(ctx, "missing"), apperror.ErrNotFound)
		_, err = repo.AppendComment(ctx, "missing", domain.Comment{}, now)
		assert.ErrorIs(t, err, apperror.ErrNotFound)
		_, err = repo.Save(ctx, domain.Species{ID: "missing"})
		assert.ErrorIs(t, err, apperror.ErrNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, created.ID))
		_, err := repo.Get(ctx, created.ID)
		assert.ErrorIs(t, err, apperror.ErrNotFound)
	})
}

func TestSave_KeepsCommentsAppendedAfterLoad(t *testing.T) {
	ctx := context.Background()
	repo := NewSpeciesRepository(docstore.NewMemoryStore(), "species")
	now := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)

	created, err := repo.Create(ctx, domain.Species{ScientificName: "Panthera onca", Family: "Felidae", RegisteredAt: now})
	require.NoError(t, err)

	loaded, err := repo.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Empty(t, loaded.Comments)

	_, err = repo.AppendComment(ctx, created.ID, domain.Comment{ID: "c1", Text: "seen at dusk", Author: "Ana", Date: now}, now)
	require.NoError(t, err)

	loaded.Habitat = "Rainforest"
	saved, err := repo.Save(ctx, loaded)
	require.NoError(t, err)
	require.Len(t, saved.Comments, 1)
	assert.Equal(t, 1, saved.CommentCount)

	stored, err := repo.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Rainforest", stored.Habitat)
	require.Len(t, stored.Comments, 1)
	assert.Equal(t, "c1", stored.Comments[0].ID)
	assert.Equal(t, 1, stored.CommentCount)
}

func TestSpeciesRepository_UpstreamFailure(t *testing.T) {
	repo := NewSpeciesRepository(failingStore{docstore.NewMemoryStore(), errors.New("unavailable")}, "species")
	_, err := repo.List(context.Background())
	assert.ErrorIs(t, err, apperror.ErrUpstream)
}
