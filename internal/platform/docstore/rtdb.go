package docstore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"firebase.google.com/go/v4/db"
)

// RTDBStore maps collections onto top-level Realtime Database nodes. Push keys
// are chronological, so key order is insertion order.
type RTDBStore struct {
	client *db.Client
}

func NewRTDBStore(client *db.Client) *RTDBStore {
	return &RTDBStore{client: client}
}

func (s *RTDBStore) Name() string { return "rtdb" }

func (s *RTDBStore) Ping(ctx context.Context) error {
	var v any
	if err := s.client.NewRef("_health").Get(ctx, &v); err != nil {
		return fmt.Errorf("rtdb ping: %w", err)
	}
	return nil
}

func (s *RTDBStore) List(ctx context.Context, collection string) ([]Document, error) {
	var raw any
	if err := s.client.NewRef(collection).Get(ctx, &raw); err != nil {
		return nil, fmt.Errorf("rtdb get %s: %w", collection, err)
	}
	return nodeDocuments(raw), nil
}

// nodeDocuments flattens a collection node. Nodes whose children have
// sequential integer keys come back from the REST API as JSON arrays.
func nodeDocuments(raw any) []Document {
	out := make([]Document, 0)
	switch node := raw.(type) {
	case map[string]any:
		keys := make([]string, 0, len(node))
		for k := range node {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if data, ok := node[k].(map[string]any); ok {
				out = append(out, Document{ID: k, Data: data})
			}
		}
	case []any:
		for i, item := range node {
			if data, ok := item.(map[string]any); ok {
				out = append(out, Document{ID: strconv.Itoa(i), Data: data})
			}
		}
	}
	return out
}

func (s *RTDBStore) Get(ctx context.Context, collection, id string) (Document, error) {
	var data map[string]any
	if err := s.client.NewRef(collection).Child(id).Get(ctx, &data); err != nil {
		return Document{}, fmt.Errorf("rtdb get %s/%s: %w", collection, id, err)
	}
	if data == nil {
		return Document{}, ErrNotFound
	}
	return Document{ID: id, Data: data}, nil
}

func (s *RTDBStore) Push(ctx context.Context, collection string, data map[string]any) (string, error) {
	ref, err := s.client.NewRef(collection).Push(ctx, data)
	if err != nil {
		return "", fmt.Errorf("rtdb push %s: %w", collection, err)
	}
	return ref.Key, nil
}

func (s *RTDBStore) Update(ctx context.Context, collection, id string, data map[string]any) error {
	return s.Mutate(ctx, collection, id, func(cur map[string]any) (map[string]any, error) {
		for k, v := range data {
			cur[k] = v
		}
		return cur, nil
	})
}

func (s *RTDBStore) Mutate(ctx context.Context, collection, id string, fn MutateFunc) error {
	missing := false
	err := s.client.NewRef(collection).Child(id).Transaction(ctx, func(node db.TransactionNode) (interface{}, error) {
		var cur map[string]any
		if err := node.Unmarshal(&cur); err != nil {
			return nil, err
		}
		if cur == nil {
			missing = true
			return nil, ErrNotFound
		}
		missing = false
		return fn(cur)
	})
	if missing || errors.Is(err, ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("rtdb transaction %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *RTDBStore) Remove(ctx context.Context, collection, id string) error {
	ref := s.client.NewRef(collection).Child(id)
	var data map[string]any
	if err := ref.Get(ctx, &data); err != nil {
		return fmt.Errorf("rtdb get %s/%s: %w", collection, id, err)
	}
	if data == nil {
		return ErrNotFound
	}
	if err := ref.Delete(ctx); err != nil {
		return fmt.Errorf("rtdb delete %s/%s: %w", collection, id, err)
	}
	return nil
}
