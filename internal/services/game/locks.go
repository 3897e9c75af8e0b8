package game

import "sync"

// keyedMutex serializes operations per key. The controller holds a
// game's lock for the full read-validate-mutate-persist span of one
// operation, so concurrent attempts on the same game re-validate their
// preconditions after the winner commits instead of losing updates.
//
// Entries live for the process lifetime; they are one bare mutex per
// key ever locked.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the mutex for key and returns its unlock func
func (k *keyedMutex) Lock(key string) func() {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()

	m.Lock()
	return m.Unlock
}
