package session

import (
	"fmt"
	"sync"
	"time"
)

// Manager tracks the live contexts of a process. The cache and retrieval
// index may be shared between sessions; each context belongs to one session
// only, and the manager enforces that separation.
type Manager struct {
	mu       sync.RWMutex
	contexts map[string]*Context
	seq      uint64
}

func NewManager() *Manager {
	return &Manager{contexts: make(map[string]*Context)}
}

// Open creates a fresh context for a new session and returns its ID.
func (m *Manager) Open(language string) (string, *Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// The sequence keeps IDs distinct even when two sessions open within
	// the same clock tick.
	m.seq++
	id := fmt.Sprintf("session-%d-%d", time.Now().UnixNano(), m.seq)
	ctx := NewContext(language)
	m.contexts[id] = ctx
	return id, ctx
}

// Get returns the context for a session, or nil if the session is unknown.
func (m *Manager) Get(sessionID string) *Context {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.contexts[sessionID]
}

// Close discards a session's context.
func (m *Manager) Close(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.contexts, sessionID)
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.contexts)
}
