package services

import (
	"sync"

	"github.com/portfolio/backend/internal/storage"
)

// memoryCollection is a mutex-guarded id map, optionally mirrored to a JSON
// file after every write. Callers hold mu while touching docs.
type memoryCollection[T any] struct {
	mu    sync.RWMutex
	docs  map[string]*T
	store *storage.JSONStore
}

// newMemoryCollection loads dataDir/filename when dataDir is set. An empty
// dataDir keeps the collection in memory only.
func newMemoryCollection[T any](dataDir, filename string) (*memoryCollection[T], error) {
	c := &memoryCollection[T]{docs: make(map[string]*T)}
	if dataDir == "" {
		return c, nil
	}

	store, err := storage.NewJSONStore(dataDir, filename)
	if err != nil {
		return nil, err
	}
	if err := store.Load(&c.docs); err != nil {
		return nil, err
	}
	if c.docs == nil {
		c.docs = make(map[string]*T)
	}
	c.store = store
	return c, nil
}

// persistLocked writes the snapshot. mu must be held.
func (c *memoryCollection[T]) persistLocked() error {
	if c.store == nil {
		return nil
	}
	return c.store.Save(c.docs)
}

func (c *memoryCollection[T]) reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.docs = make(map[string]*T)
	if c.store == nil {
		return nil
	}
	return c.store.Remove()
}

// values returns copies of every document.
func (c *memoryCollection[T]) values() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]T, 0, len(c.docs))
	for _, doc := range c.docs {
		out = append(out, *doc)
	}
	return out
}

func (c *memoryCollection[T]) get(id string) (*T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	doc, ok := c.docs[id]
	if !ok {
		return nil, false
	}
	cp := *doc
	return &cp, true
}

// remove deletes id and persists. It reports whether the id existed.
func (c *memoryCollection[T]) remove(id string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.docs[id]; !ok {
		return false, nil
	}
	delete(c.docs, id)
	return true, c.persistLocked()
}
