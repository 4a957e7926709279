package allocation

import "sync"

// unitLocks serializes scan-then-write sequences per hardware unit.
// Without it two concurrent creates for the same unit could both pass
// the overlap scan and double-book the interval.
type unitLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newUnitLocks() *unitLocks {
	return &unitLocks{locks: map[string]*sync.Mutex{}}
}

func (u *unitLocks) lock(key string) func() {
	u.mu.Lock()
	lock, ok := u.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		u.locks[key] = lock
	}
	u.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
