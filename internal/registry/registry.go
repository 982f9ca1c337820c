package registry

import (
	"sync"

	"quickscan/internal/model"
)

// Registry is the in-memory index from file id to storage metadata. It is
// the single source of truth for which files exist; the bytes themselves
// belong to the file's storage backend. State is lost on restart.
type Registry struct {
	mu    sync.RWMutex
	files map[string]model.StoredFile
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{files: make(map[string]model.StoredFile)}
}

// Put inserts or replaces the entry for the file's id.
func (r *Registry) Put(f model.StoredFile) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.files[f.ID] = f
}

// Get returns the entry for id, if present.
func (r *Registry) Get(id string) (model.StoredFile, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.files[id]
	return f, ok
}

// List returns a snapshot of all entries. Ordering is not specified.
func (r *Registry) List() []model.StoredFile {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.StoredFile, 0, len(r.files))
	for _, f := range r.files {
		out = append(out, f)
	}
	return out
}

// Remove deletes the entry for id. Removing an absent id is a no-op.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.files, id)
}

// Len reports the number of registered files.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.files)
}
