package server

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/bikebuilder/pkg/builder"
)

// entry guards one session. The mutex makes each request's mutation and the
// plan it returns a single atomic step.
type entry struct {
	mu      sync.Mutex
	session *builder.Session
	touched time.Time
}

type registry struct {
	mu      sync.RWMutex
	entries map[string]*entry
	now     func() time.Time
}

func newRegistry() *registry {
	return &registry{entries: make(map[string]*entry), now: time.Now}
}

func (r *registry) add(s *builder.Session) string {
	id := uuid.NewString()
	r.mu.Lock()
	r.entries[id] = &entry{session: s, touched: r.now()}
	r.mu.Unlock()
	return id
}

func (r *registry) get(id string) (*entry, bool) {
	r.mu.RLock()
	e, ok := r.entries[id]
	r.mu.RUnlock()
	return e, ok
}

func (r *registry) remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[id]; !ok {
		return false
	}
	delete(r.entries, id)
	return true
}

func (r *registry) len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// with runs fn holding the session lock and marks the session as used.
func (r *registry) with(id string, fn func(*builder.Session) error) (bool, error) {
	e, ok := r.get(id)
	if !ok {
		return false, nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.touched = r.now()
	return true, fn(e.session)
}

// expire drops sessions unused for longer than idle and returns how many.
func (r *registry) expire(idle time.Duration) int {
	cutoff := r.now().Add(-idle)
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, e := range r.entries {
		e.mu.Lock()
		stale := e.touched.Before(cutoff)
		e.mu.Unlock()
		if stale {
			delete(r.entries, id)
			n++
		}
	}
	return n
}
