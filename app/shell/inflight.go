package shell

import (
	"sync"
	"time"
)

// inflight registers ids of requests being executed to reject a second request with the same id
// before the first one is answered. Thread safe.
type inflight struct {
	lock   sync.Mutex
	active map[int64]time.Time
}

func newInflight() *inflight {
	return &inflight{active: make(map[int64]time.Time)}
}

// add registers id, false if already registered
func (f *inflight) add(id int64) bool {
	f.lock.Lock()
	defer f.lock.Unlock()
	if _, found := f.active[id]; found {
		return false
	}
	f.active[id] = time.Now()
	return true
}

// remove unregisters id and returns how long it was active
func (f *inflight) remove(id int64) time.Duration {
	f.lock.Lock()
	defer f.lock.Unlock()
	started, found := f.active[id]
	if !found {
		return 0
	}
	delete(f.active, id)
	return time.Since(started)
}

func (f *inflight) len() int {
	f.lock.Lock()
	defer f.lock.Unlock()
	return len(f.active)
}
