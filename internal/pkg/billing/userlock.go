package billing

import "sync"

// userLocks serializes billing mutations per user. Checkout's
// check-then-create window and the checkout-completed webhook both run under
// the owning user's lock, so concurrent requests from the same user cannot
// both pass the single-active-subscription check.
type userLocks struct {
	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

// sharedUserLocks is the process-wide lock table. Every Service uses it, so
// the serialization holds even when callers construct a Service per request.
var sharedUserLocks = newUserLocks()

func newUserLocks() *userLocks {
	return &userLocks{locks: make(map[uint]*sync.Mutex)}
}

func (l *userLocks) lock(userID uint) {
	l.mu.Lock()
	m, ok := l.locks[userID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[userID] = m
	}
	l.mu.Unlock()
	m.Lock()
}

func (l *userLocks) unlock(userID uint) {
	l.mu.Lock()
	m := l.locks[userID]
	l.mu.Unlock()
	if m != nil {
		m.Unlock()
	}
}
