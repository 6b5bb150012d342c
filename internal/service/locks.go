package service

import "sync"

// userLocks serializes rehearsal read-modify-write cycles per user.
// Telegram delivers one update at a time per chat most of the time, but a
// fast double-tap can still race a slow persistence write; without this
// lock the history could gain duplicate or lose items.
type userLocks struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func newUserLocks() *userLocks {
	return &userLocks{locks: make(map[int64]*sync.Mutex)}
}

// lock acquires the mutex of one user and returns its release func.
func (l *userLocks) lock(userID int64) func() {
	l.mu.Lock()
	m, ok := l.locks[userID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[userID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
