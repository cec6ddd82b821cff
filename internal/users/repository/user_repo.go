package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/terraverde/terraverde-api/internal/apperror"
	"github.com/terraverde/terraverde-api/internal/platform/docstore"
	"github.com/terraverde/terraverde-api/internal/users/domain"
)

type UserRepository struct {
	store      docstore.Store
	collection string
}

func NewUserRepository(store docstore.Store, collection string) *UserRepository {
	return &UserRepository{store: store, collection: collection}
}

func (r *UserRepository) mapErr(op, id string, err error) error {
	if errors.Is(err, docstore.ErrNotFound) {
		return &apperror.Error{Kind: apperror.ErrNotFound, Msg: "user " + id + " not found", Err: domain.ErrUserNotFound}
	}
	return apperror.Upstream(op, err)
}

func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	docs, err := r.store.List(ctx, r.collection)
	if err != nil {
		return nil, apperror.Upstream("failed to list users", err)
	}
	return usersFrom(docs), nil
}

func (r *UserRepository) Get(ctx context.Context, id string) (domain.User, error) {
	doc, err := r.store.Get(ctx, r.collection, id)
	if err != nil {
		return domain.User{}, r.mapErr("failed to load user", id, err)
	}
	return fromStorage(doc.ID, doc.Data), nil
}

// FindByEmail scans the collection and compares addresses case-insensitively
// through the same key chain reads use, so legacy "correo" records and
// mixed-case addresses written by other clients are found too.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) ([]domain.User, error) {
	docs, err := r.store.List(ctx, r.collection)
	if err != nil {
		return nil, apperror.Upstream("failed to query users by email", err)
	}
	want := strings.TrimSpace(email)
	var out []domain.User
	for _, d := range docs {
		if u := fromStorage(d.ID, d.Data); u.Email != "" && strings.EqualFold(u.Email, want) {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *UserRepository) Create(ctx context.Context, u domain.User) (domain.User, error) {
	id, err := r.store.Push(ctx, r.collection, toStorage(u))
	if err != nil {
		return domain.User{}, apperror.Upstream("failed to create user", err)
	}
	u.ID = id
	return u, nil
}

func (r *UserRepository) Save(ctx context.Context, u domain.User) error {
	if err := r.store.Update(ctx, r.collection, u.ID, toStorage(u)); err != nil {
		return r.mapErr("failed to update user", u.ID, err)
	}
	return nil
}

func usersFrom(docs []docstore.Document) []domain.User {
	out := make([]domain.User, 0, len(docs))
	for _, d := range docs {
		out = append(out, fromStorage(d.ID, d.Data))
	}
	return out
}
