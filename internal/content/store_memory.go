package content

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps everything in process. Used by the CLI and in tests.
type MemoryStore struct {
	mu        sync.Mutex
	libraries map[string]int64
	contents  map[int64]Content
	nodes     map[int64]Node
	seq       int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		libraries: map[string]int64{},
		contents:  map[int64]Content{},
		nodes:     map[int64]Node{},
	}
}

func (m *MemoryStore) next() int64 {
	m.seq++
	return m.seq
}

func (m *MemoryStore) LibraryID(_ context.Context, machineName string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.libraries[machineName]
	if !ok {
		return 0, ErrLibraryNotFound
	}
	return id, nil
}

func (m *MemoryStore) EnsureLibrary(_ context.Context, machineName, _ string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id, ok := m.libraries[machineName]; ok {
		return id, nil
	}
	id := m.next()
	m.libraries[machineName] = id
	return id, nil
}

func (m *MemoryStore) CreateContent(_ context.Context, c Content) (Content, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c.ID = m.next()
	c.CreatedAt = time.Now().Unix()
	m.contents[c.ID] = c
	return c, nil
}

func (m *MemoryStore) GetContent(_ context.Context, id int64) (Content, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.contents[id]
	if !ok {
		return Content{}, ErrNotFound
	}
	return c, nil
}

func (m *MemoryStore) CreateNode(_ context.Context, n Node) (Node, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n.ID = m.next()
	n.CreatedAt = time.Now().Unix()
	m.nodes[n.ID] = n
	return n, nil
}

func (m *MemoryStore) CreateContentWithNode(_ context.Context, c Content, n Node) (Content, Node, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().Unix()
	c.ID = m.next()
	c.CreatedAt = now
	n.ID = m.next()
	n.FieldH5P = c.ID
	n.CreatedAt = now
	m.contents[c.ID] = c
	m.nodes[n.ID] = n
	return c, n, nil
}

func (m *MemoryStore) GetNode(_ context.Context, id int64) (Node, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.nodes[id]
	if !ok {
		return Node{}, ErrNotFound
	}
	return n, nil
}
