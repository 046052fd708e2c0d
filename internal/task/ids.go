package task

import (
	"sync"
	"time"
)

// IDSource hands out task ids. Ids are millisecond timestamps, bumped
// forward when two tasks land in the same millisecond so they never repeat.
type IDSource struct {
	mu   sync.Mutex
	now  func() time.Time
	last int64
}

// NewIDSource builds a source driven by clock. A nil clock uses time.Now.
func NewIDSource(clock func() time.Time) *IDSource {
	if clock == nil {
		clock = time.Now
	}
	return &IDSource{now: clock}
}

// Next returns an id strictly greater than every id handed out or observed.
func (s *IDSource) Next() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.now().UnixMilli()
	if id <= s.last {
		id = s.last + 1
	}
	s.last = id
	return id
}

// Observe records an id that already exists (for example one restored from
// a snapshot) so later ids sort after it.
func (s *IDSource) Observe(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id > s.last {
		s.last = id
	}
}
