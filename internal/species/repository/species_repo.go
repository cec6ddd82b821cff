package repository

import (
	"context"
	"errors"
	"time"

	"github.com/terraverde/terraverde-api/internal/apperror"
	"github.com/terraverde/terraverde-api/internal/platform/docstore"
	"github.com/terraverde/terraverde-api/internal/species/domain"
	"github.com/terraverde/terraverde-api/internal/species/normalize"
)

// SpeciesRepository stores species documents in one collection of the
// document store and shapes them through the normalizer.
type SpeciesRepository struct {
	store      docstore.Store
	collection string
}

func NewSpeciesRepository(store docstore.Store, collection string) *SpeciesRepository {
	return &SpeciesRepository{store: store, collection: collection}
}

func (r *SpeciesRepository) mapErr(op, id string, err error) error {
	if errors.Is(err, docstore.ErrNotFound) {
		return apperror.NotFound("species %s not found", id)
	}
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		return err
	}
	return apperror.Upstream(op, err)
}

// List returns every stored species in storage order.
func (r *SpeciesRepository) List(ctx context.Context) ([]domain.Species, error) {
	docs, err := r.store.List(ctx, r.collection)
	if err != nil {
		return nil, apperror.Upstream("failed to list species", err)
	}
	out := make([]domain.Species, 0, len(docs))
	for _, d := range docs {
		out = append(out, normalize.FromStorage(d.ID, d.Data))
	}
	return out, nil
}

func (r *SpeciesRepository) Get(ctx context.Context, id string) (domain.Species, error) {
	doc, err := r.store.Get(ctx, r.collection, id)
	if err != nil {
		return domain.Species{}, r.mapErr("failed to load species", id, err)
	}
	return normalize.FromStorage(doc.ID, doc.Data), nil
}

// Create stores s under a generated id and returns it with the id set.
func (r *SpeciesRepository) Create(ctx context.Context, s domain.Species) (domain.Species, error) {
	id, err := r.store.Push(ctx, r.collection, normalize.ToStorage(s))
	if err != nil {
		return domain.Species{}, apperror.Upstream("failed to create species", err)
	}
	s.ID = id
	return s, nil
}

// Save writes s over the stored document inside a read-modify-write. The
// comment list and count always come from the stored body, so comments
// appended since s was loaded survive. The saved species is returned.
func (r *SpeciesRepository) Save(ctx context.Context, s domain.Species) (domain.Species, error) {
	var saved domain.Species
	err := r.store.Mutate(ctx, r.collection, s.ID, func(cur map[string]any) (map[string]any, error) {
		stored := normalize.FromStorage(s.ID, cur)
		s.Comments = stored.Comments
		s.CommentCount = stored.CommentCount
		saved = s
		return normalize.ToStorage(s), nil
	})
	if err != nil {
		return domain.Species{}, r.mapErr("failed to update species", s.ID, err)
	}
	return saved, nil
}

func (r *SpeciesRepository) Delete(ctx context.Context, id string) error {
	if err := r.store.Remove(ctx, r.collection, id); err != nil {
		return r.mapErr("failed to delete species", id, err)
	}
	return nil
}

// AppendComment adds c inside a single read-modify-write so concurrent
// appends are not lost. The stored body is rewritten in canonical form.
func (r *SpeciesRepository) AppendComment(ctx context.Context, id string, c domain.Comment, now time.Time) (domain.Species, error) {
	var updated domain.Species
	err := r.store.Mutate(ctx, r.collection, id, func(cur map[string]any) (map[string]any, error) {
		s := normalize.FromStorage(id, cur)
		s.Comments = append(s.Comments, c)
		s.CommentCount = len(s.Comments)
		s.UpdatedAt = now
		updated = s
		return normalize.ToStorage(s), nil
	})
	if err != nil {
		return domain.Species{}, r.mapErr("failed to add comment", id, err)
	}
	return updated, nil
}
