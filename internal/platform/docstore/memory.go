package docstore

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

type memCollection struct {
	order []string
	docs  map[string]map[string]any
}

// MemoryStore keeps documents in process. Collections preserve insertion order.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]*memCollection
	newID       func() string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: make(map[string]*memCollection),
		newID:       uuid.NewString,
	}
}

func (m *MemoryStore) Name() string { return "memory" }

func (m *MemoryStore) Ping(ctx context.Context) error { return ctx.Err() }

func (m *MemoryStore) collection(name string) *memCollection {
	col, ok := m.collections[name]
	if !ok {
		col = &memCollection{docs: make(map[string]map[string]any)}
		m.collections[name] = col
	}
	return col
}

func (m *MemoryStore) List(ctx context.Context, collection string) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	col, ok := m.collections[collection]
	if !ok {
		return []Document{}, nil
	}
	out := make([]Document, 0, len(col.order))
	for _, id := range col.order {
		out = append(out, Document{ID: id, Data: cloneMap(col.docs[id])})
	}
	return out, nil
}

func (m *MemoryStore) Get(ctx context.Context, collection, id string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	col, ok := m.collections[collection]
	if !ok {
		return Document{}, ErrNotFound
	}
	data, ok := col.docs[id]
	if !ok {
		return Document{}, ErrNotFound
	}
	return Document{ID: id, Data: cloneMap(data)}, nil
}

func (m *MemoryStore) Push(ctx context.Context, collection string, data map[string]any) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	col := m.collection(collection)
	id := m.newID()
	col.order = append(col.order, id)
	col.docs[id] = cloneMap(data)
	return id, nil
}

// Put stores data under a caller chosen id, replacing any previous body.
// It exists for seeding fixtures and legacy records.
func (m *MemoryStore) Put(collection, id string, data map[string]any) {
	m.mu.Lock()
	defer m.mu.Unlock()

	col := m.collection(collection)
	if _, ok := col.docs[id]; !ok {
		col.order = append(col.order, id)
	}
	col.docs[id] = cloneMap(data)
}

func (m *MemoryStore) Update(ctx context.Context, collection, id string, data map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	col, ok := m.collections[collection]
	if !ok {
		return ErrNotFound
	}
	cur, ok := col.docs[id]
	if !ok {
		return ErrNotFound
	}
	for k, v := range data {
		cur[k] = cloneValue(v)
	}
	return nil
}

func (m *MemoryStore) Mutate(ctx context.Context, collection, id string, fn MutateFunc) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	col, ok := m.collections[collection]
	if !ok {
		return ErrNotFound
	}
	cur, ok := col.docs[id]
	if !ok {
		return ErrNotFound
	}
	next, err := fn(cloneMap(cur))
	if err != nil {
		return err
	}
	col.docs[id] = cloneMap(next)
	return nil
}

func (m *MemoryStore) Remove(ctx context.Context, collection, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	col, ok := m.collections[collection]
	if !ok {
		return ErrNotFound
	}
	if _, ok := col.docs[id]; !ok {
		return ErrNotFound
	}
	delete(col.docs, id)
	for i, key := range col.order {
		if key == id {
			col.order = append(col.order[:i], col.order[i+1:]...)
			break
		}
	}
	return nil
}

func cloneMap(in map[string]any) map[string]any {
	if in == nil {
		return map[string]any{}
	}
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneMap(t)
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = cloneValue(item)
		}
		return out
	case []map[string]any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = cloneMap(item)
		}
		return out
	default:
		return v
	}
}
