package storage

import (
	"encoding/json"
	"sync"

	"github.com/goliatone/go-appstate/internal/hydrate"
)

// Memory is the session-scope adapter: payloads live for the process lifetime
// and vanish with it. Values are stored as serialized JSON so loads observe
// the same round-trip behavior as the durable scope.
type Memory struct {
	mu      sync.RWMutex
	records map[string][]byte
	logger  Logger
}

// MemoryOption configures a Memory adapter.
type MemoryOption func(*Memory)

// MemoryWithLogger wires a failure logger into the adapter.
func MemoryWithLogger(logger Logger) MemoryOption {
	return func(m *Memory) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewMemory constructs an empty session-scope adapter.
func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{
		records: map[string][]byte{},
		logger:  noopLogger{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	return m
}

// Save serializes value under key. Serialization failures are logged and the
// previous payload, if any, is kept.
func (m *Memory) Save(key string, value any) {
	payload, err := json.Marshal(value)
	if err != nil {
		m.logger.LogStorage(Event{Op: OpSave, Scope: "session", Key: key, Err: err})
		return
	}
	m.mu.Lock()
	m.records[key] = payload
	m.mu.Unlock()
}

// Load decodes the payload under key into out; missing or corrupt payloads
// leave out untouched.
func (m *Memory) Load(key string, out any) bool {
	m.mu.RLock()
	payload, ok := m.records[key]
	m.mu.RUnlock()
	if !ok {
		return true
	}
	if err := hydrate.Strict(payload, out); err != nil {
		m.logger.LogStorage(Event{Op: OpLoad, Scope: "session", Key: key, Err: err})
		return true
	}
	return false
}

// Remove deletes key idempotently.
func (m *Memory) Remove(key string) {
	m.mu.Lock()
	delete(m.records, key)
	m.mu.Unlock()
}
