// File: services/page_registry.go
package services

import (
	"context"
	"sync"
	"time"

	"mergington-activities/logger"
)

// PageFactory builds a page for a new session ID.
type PageFactory func(id string) *Page

// PageRegistry tracks one page per browser session.
type PageRegistry struct {
	mu      sync.Mutex
	pages   map[string]*Page
	factory PageFactory
	now     func() time.Time
}

// NewPageRegistry creates an empty registry.
func NewPageRegistry(factory PageFactory) *PageRegistry {
	return &PageRegistry{
		pages:   make(map[string]*Page),
		factory: factory,
		now:     time.Now,
	}
}

// Get returns the page for id, creating it on first use, and marks it active.
func (r *PageRegistry) Get(id string) *Page {
	r.mu.Lock()
	page, exists := r.pages[id]
	if !exists {
		page = r.factory(id)
		r.pages[id] = page
		logger.Debug.Printf("[PageRegistry.Get] Created page %s", id)
	}
	r.mu.Unlock()

	page.Touch(r.now())
	return page
}

// Lookup returns an existing page without creating one.
func (r *PageRegistry) Lookup(id string) (*Page, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	page, ok := r.pages[id]
	return page, ok
}

// Len returns the number of tracked pages.
func (r *PageRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pages)
}

// CleanupInactive drops pages idle for longer than timeout and returns how many went.
func (r *PageRegistry) CleanupInactive(timeout time.Duration) int {
	now := r.now()

	r.mu.Lock()
	var stale []*Page
	for id, page := range r.pages {
		if now.Sub(page.LastSeen()) > timeout {
			stale = append(stale, page)
			delete(r.pages, id)
		}
	}
	r.mu.Unlock()

	for _, page := range stale {
		logger.Info.Printf("[PageRegistry.CleanupInactive] Removing inactive page=%s (timeout=%v)", page.ID, timeout)
		page.Close()
	}
	return len(stale)
}

// RunCleanup calls CleanupInactive every interval until ctx is done.
func (r *PageRegistry) RunCleanup(ctx context.Context, timeout, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.CleanupInactive(timeout)
		}
	}
}
