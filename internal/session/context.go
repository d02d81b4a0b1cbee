// Package session tracks per-session conversational state: the active
// display language and an append-only history of question/answer turns.
package session

import (
	"sync"
	"time"
)

// Turn is one recorded question/response exchange.
type Turn struct {
	Question   string
	Translated string
	Intent     string
	Result     any
	At         time.Time
}

// Context accumulates the turns of a single session. It is owned by exactly
// one session and must not be shared across sessions; the cache and retrieval
// index are the shared components, not this.
type Context struct {
	mu       sync.RWMutex
	language string
	history  []Turn
}

// NewContext creates an empty context for the given display language.
func NewContext(language string) *Context {
	if language == "" {
		language = "en"
	}
	return &Context{language: language}
}

// AddEntry appends a turn. Existing turns are never removed or reordered.
func (c *Context) AddEntry(question, translated, intent string, result any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.history = append(c.history, Turn{
		Question:   question,
		Translated: translated,
		Intent:     intent,
		Result:     result,
		At:         time.Now(),
	})
}

// History returns a copy of the recorded turns, oldest first. Mutating the
// returned slice does not affect the context.
func (c *Context) History() []Turn {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Turn, len(c.history))
	copy(out, c.history)
	return out
}

// Len returns the number of recorded turns.
func (c *Context) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.history)
}

// Language returns the active display language.
func (c *Context) Language() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.language
}

// SetLanguage switches the display language and starts a new conversational
// thread: the history is reset because prior turns are not assumed
// language-consistent with downstream translation.
func (c *Context) SetLanguage(language string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if language == c.language {
		return
	}
	c.language = language
	c.history = nil
}
