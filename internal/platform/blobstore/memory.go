package blobstore

import (
	"context"
	"fmt"
	"io"
	"sync"
)

const memoryBaseURL = "memory://blobs"

// MemoryStore keeps blobs in process. Test hooks can force upload or delete
// failures.
type MemoryStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	deleted []string

	FailUpload func(name string) error
	FailDelete func(url string) error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string][]byte)}
}

func (m *MemoryStore) Name() string { return "memory" }

func (m *MemoryStore) Upload(ctx context.Context, name, contentType string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if m.FailUpload != nil {
		if err := m.FailUpload(name); err != nil {
			return "", err
		}
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read upload %s: %w", name, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[name] = data
	return memoryBaseURL + "/" + name, nil
}

func (m *MemoryStore) DeleteByURL(ctx context.Context, publicURL string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	m.deleted = append(m.deleted, publicURL)
	m.mu.Unlock()

	if m.FailDelete != nil {
		if err := m.FailDelete(publicURL); err != nil {
			return err
		}
	}
	name, ok := objectName(memoryBaseURL, publicURL)
	if !ok {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, name)
	return nil
}

// Deleted lists every URL DeleteByURL was called with, in call order.
func (m *MemoryStore) Deleted() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.deleted...)
}

// Objects returns the names currently stored.
func (m *MemoryStore) Objects() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.objects))
	for name := range m.objects {
		out = append(out, name)
	}
	return out
}
