package moves

import (
	"sync"
	"time"

	"github.com/maypok86/otter"
	"github.com/nerdwave-nick/pokeview/internal/metrics"
	"github.com/nerdwave-nick/pokeview/internal/pokeapi"
)

// Store keeps one Page per record id. Pages not opened or looked up for the
// idle duration, or pushed out by capacity, are dropped and start over on
// the next Open.
type Store struct {
	parallelism int
	metrics     *metrics.Metrics

	mu    sync.Mutex
	pages otter.Cache[int, *Page]
}

func NewStore(capacity int, idle time.Duration, parallelism int, m *metrics.Metrics) (*Store, error) {
	pages, err := otter.MustBuilder[int, *Page](capacity).
		WithTTL(idle).
		Build()
	if err != nil {
		return nil, err
	}
	return &Store{parallelism: parallelism, metrics: m, pages: pages}, nil
}

// Open returns the page of recordID, creating it from refs when absent.
func (s *Store) Open(recordID int, refs []pokeapi.MoveRef) *Page {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.touch(recordID); ok {
		return p
	}
	p := NewPage(recordID, refs)
	p.Parallelism = s.parallelism
	p.Metrics = s.metrics
	s.pages.Set(recordID, p)
	return p
}

// Lookup returns the page of recordID if one is open.
func (s *Store) Lookup(recordID int) (*Page, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.touch(recordID)
}

// touch rewrites a live entry so its expiry counts from now; otter's ttl is
// measured from the last write.
func (s *Store) touch(recordID int) (*Page, bool) {
	p, ok := s.pages.Get(recordID)
	if ok {
		s.pages.Set(recordID, p)
	}
	return p, ok
}

// Drop forgets the page of recordID.
func (s *Store) Drop(recordID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pages.Delete(recordID)
}

func (s *Store) Close() {
	s.pages.Close()
}
