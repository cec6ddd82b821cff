// Package docstore is the persistence gateway: a collection/document API
// implemented over Cloud Firestore, the Firebase Realtime Database and an
// in-process map.
package docstore

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("document not found")

type Document struct {
	ID   string
	Data map[string]any
}

// MutateFunc receives the current document body and returns its replacement.
// Returning an error aborts the write.
type MutateFunc func(current map[string]any) (map[string]any, error)

type Store interface {
	Name() string
	Ping(ctx context.Context) error

	// List returns every document of the collection in storage order.
	List(ctx context.Context, collection string) ([]Document, error)
	// Get returns ErrNotFound when the document does not exist.
	Get(ctx context.Context, collection, id string) (Document, error)
	// Push inserts data under a generated key and returns that key.
	Push(ctx context.Context, collection string, data map[string]any) (string, error)
	// Update merges data into an existing document.
	Update(ctx context.Context, collection, id string, data map[string]any) error
	// Mutate performs an atomic read-modify-write of one document.
	Mutate(ctx context.Context, collection, id string, fn MutateFunc) error
	Remove(ctx context.Context, collection, id string) error
}
