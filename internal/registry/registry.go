package registry

import (
	"sync"

	"github.com/migramap/migramap/internal/classify"
	"github.com/migramap/migramap/internal/model"
)

// Store is the shared page registry plus the visited set. Both are keyed by
// the normalized URL form, so the same resource linked with different query
// strings or trailing slashes resolves to a single entry regardless of which
// discovery phase saw it first.
//
// Every check-then-add is performed under one mutex acquisition, so two
// tasks racing to claim the same URL cannot both win.
type Store struct {
	mu      sync.Mutex
	pages   map[string]*model.PageRecord
	visited map[string]struct{}
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		pages:   make(map[string]*model.PageRecord),
		visited: make(map[string]struct{}),
	}
}

// Visit atomically marks a URL as dispatched for fetching. It returns true
// if this caller claimed the URL, false if it was already visited.
func (s *Store) Visit(pageURL string) bool {
	key := classify.Normalize(pageURL)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.visited[key]; ok {
		return false
	}
	s.visited[key] = struct{}{}
	return true
}

// Visited reports whether a URL has been dispatched already.
func (s *Store) Visited(pageURL string) bool {
	key := classify.Normalize(pageURL)
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.visited[key]
	return ok
}

// Put atomically registers a record under its normalized URL. It returns
// true if the record was added, false if the URL was already mapped (the
// existing record is kept; records are never replaced).
func (s *Store) Put(rec *model.PageRecord) bool {
	key := classify.Normalize(rec.URL)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.pages[key]; ok {
		return false
	}
	s.pages[key] = rec
	return true
}

// Mapped reports whether a URL already has a registered record.
func (s *Store) Mapped(pageURL string) bool {
	key := classify.Normalize(pageURL)
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.pages[key]
	return ok
}

// Get returns the record for a URL, or nil.
func (s *Store) Get(pageURL string) *model.PageRecord {
	key := classify.Normalize(pageURL)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pages[key]
}

// Len returns the number of registered pages.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pages)
}

// AtCapacity reports whether the registry reached the soft page cap.
// A non-positive cap means unlimited. In-flight tasks are allowed to finish
// even after the cap is hit; callers check this before dispatching new work.
func (s *Store) AtCapacity(maxPages int) bool {
	if maxPages <= 0 {
		return false
	}
	return s.Len() >= maxPages
}

// Records returns a snapshot of all registered records. The slice is fresh,
// but the records themselves are shared; callers must only read them after
// the crawl has completed.
func (s *Store) Records() []*model.PageRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	records := make([]*model.PageRecord, 0, len(s.pages))
	for _, rec := range s.pages {
		records = append(records, rec)
	}
	return records
}
