package documentstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/AashishRichhariya/openleaf/internal/domain/models"
)

// MemoryBackend keeps documents in process memory. It backs the "memory"
// store mode for local development and is the fake used throughout tests.
type MemoryBackend struct {
	mu   sync.RWMutex
	docs map[string]models.Document
}

// NewMemory creates an empty in-memory backend.
func NewMemory() *MemoryBackend {
	return &MemoryBackend{docs: make(map[string]models.Document)}
}

func memoryKey(slug string, version int) string {
	return fmt.Sprintf("%s#%d", slug, version)
}

// Get implements Backend.
func (m *MemoryBackend) Get(_ context.Context, slug string, version int) (*models.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	doc, ok := m.docs[memoryKey(slug, version)]
	if !ok {
		return nil, nil
	}
	doc.Content = cloneRaw(doc.Content)
	return &doc, nil
}

// Put implements Backend.
func (m *MemoryBackend) Put(_ context.Context, doc models.Document) error {
	doc.Content = cloneRaw(nullToNil(doc.Content))
	m.mu.Lock()
	m.docs[memoryKey(doc.Slug, doc.Version)] = doc
	m.mu.Unlock()
	return nil
}

// Patch implements Backend.
func (m *MemoryBackend) Patch(_ context.Context, slug string, version int, p Patch) (*models.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := memoryKey(slug, version)
	doc, ok := m.docs[key]
	if !ok {
		return nil, ErrNotFound
	}
	p.apply(&doc)
	doc.Content = nullToNil(doc.Content)
	m.docs[key] = doc

	out := doc
	out.Content = cloneRaw(doc.Content)
	return &out, nil
}

// Ping implements Backend.
func (m *MemoryBackend) Ping(context.Context) error {
	return nil
}

// Len returns the number of stored rows.
func (m *MemoryBackend) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.docs)
}
