// Package stores caches the server-owned collections (jobs, applications).
// The cache is never the source of truth: every mutation round-trips through
// the core backend, and local state only changes from the server's answer.
package stores

import (
	"net/url"
	"sync"
)

// cacheState carries the flags both entity stores share. The generation
// counter lets a List response that was superseded by a newer request get
// discarded instead of clobbering fresher data.
type cacheState struct {
	mu      sync.Mutex
	loading bool
	lastErr error
	gen     uint64
}

// Loading reports whether a List is in flight.
func (s *cacheState) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the error recorded by the most recent failed action, cleared by
// the next successful List.
func (s *cacheState) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// beginList bumps the generation and raises the loading flag.
func (s *cacheState) beginList() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.loading = true
	return s.gen
}

func encodeFilters(filters map[string]string) string {
	if len(filters) == 0 {
		return ""
	}
	values := url.Values{}
	for k, v := range filters {
		if v != "" {
			values.Set(k, v)
		}
	}
	if len(values) == 0 {
		return ""
	}
	return "?" + values.Encode()
}
