package pipeline

import (
	"context"
	"sync"
	"time"

	"scriptflow/internal/domain"
)

type runHandle struct {
	cancel  context.CancelFunc
	started time.Time
}

// Registry enforces the one-active-batch-per-user rule and owns the
// cancellation signal for each run. Cancellation is cooperative: the batch
// observes it at loop boundaries only.
type Registry struct {
	mu     sync.Mutex
	active map[string]*runHandle
}

// NewRegistry creates an empty run registry.
func NewRegistry() *Registry {
	return &Registry{active: make(map[string]*runHandle)}
}

// Begin registers a run for the user and returns its cancellable context.
// A second concurrent batch for the same user is rejected, never queued.
func (r *Registry) Begin(parent context.Context, userID string) (context.Context, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.active[userID]; ok {
		return nil, domain.ErrAlreadyRunning
	}
	ctx, cancel := context.WithCancel(parent)
	r.active[userID] = &runHandle{cancel: cancel, started: time.Now()}
	return ctx, nil
}

// Finish removes the user's run. Safe to call after Stop.
func (r *Registry) Finish(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if h, ok := r.active[userID]; ok {
		h.cancel()
		delete(r.active, userID)
	}
}

// Stop cancels the user's run context. The run stays registered until the
// batch goroutine observes the cancellation and calls Finish.
func (r *Registry) Stop(userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.active[userID]
	if !ok {
		return domain.ErrNotRunning
	}
	h.cancel()
	return nil
}

// Running reports whether the user has an active batch.
func (r *Registry) Running(userID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.active[userID]
	return ok
}
