package localstore

import (
	"sync"

	"github.com/edutrack/edutrack/core/session"
)

// MemoryStore is an ephemeral session.Storage for tests and
// don't-remember-me runs.
type MemoryStore struct {
	mu         sync.RWMutex
	sess       *session.Session
	remembered string
}

var _ session.Storage = (*MemoryStore)(nil) // interface compliance check

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (ms *MemoryStore) ReadSession() (session.Session, bool, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	if ms.sess == nil {
		return session.Session{}, false, nil
	}
	return *ms.sess, true, nil
}

func (ms *MemoryStore) WriteSession(sess session.Session) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.sess = &sess
	return nil
}

func (ms *MemoryStore) ClearSession() error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.sess = nil
	return nil
}

func (ms *MemoryStore) ReadRemembered() (string, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	return ms.remembered, nil
}

func (ms *MemoryStore) WriteRemembered(name string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.remembered = name
	return nil
}

func (ms *MemoryStore) ClearRemembered() error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.remembered = ""
	return nil
}
