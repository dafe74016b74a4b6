package register

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/multierr"
)

// Registry holds the live workflows keyed by session id. Sessions cannot be
// externalized: each one owns a live database handle.
type Registry struct {
	mu        sync.RWMutex
	workflows map[uuid.UUID]*Workflow
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{workflows: make(map[uuid.UUID]*Workflow)}
}

// Put stores the workflow and wires its eviction back to the registry, so a
// terminated session disappears without a separate bookkeeping call.
func (r *Registry) Put(w *Workflow) {
	if w == nil {
		return
	}
	r.mu.Lock()
	r.workflows[w.SessionID()] = w
	r.mu.Unlock()

	w.setOnEvict(r.Remove)
}

// Get returns the workflow for the session id, if it is still live.
func (r *Registry) Get(id uuid.UUID) (*Workflow, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	w, ok := r.workflows[id]
	return w, ok
}

// Remove drops the workflow from the registry.
func (r *Registry) Remove(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.workflows, id)
}

// Len reports the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.workflows)
}

// CloseAll logs every live session out. Used on shutdown.
func (r *Registry) CloseAll(ctx context.Context) error {
	r.mu.RLock()
	workflows := make([]*Workflow, 0, len(r.workflows))
	for _, w := range r.workflows {
		workflows = append(workflows, w)
	}
	r.mu.RUnlock()

	var err error
	for _, w := range workflows {
		err = multierr.Append(err, w.Logout(ctx))
	}
	return err
}
