package repository

import "sync"

// KeyMutex serialises mutations per storage key. The store itself offers no
// transactions, so every aggregate read-modify-write must hold the key's
// mutex for the full read/modify/write cycle to stay serialisable within
// this process. One instance is shared by all repositories so that
// cross-repository writes to the same key (order creation clearing the
// cart) contend on the same lock.
type KeyMutex struct {
	mutexes sync.Map // key -> *sync.Mutex
}

// NewKeyMutex creates an empty key mutex set.
func NewKeyMutex() *KeyMutex {
	return &KeyMutex{}
}

// Lock acquires the mutex for key and returns the matching unlock.
func (m *KeyMutex) Lock(key string) func() {
	v, _ := m.mutexes.LoadOrStore(key, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
