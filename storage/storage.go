// Package storage provides the key-value persistence adapters backing the
// state stores. Adapters serialize values to JSON and never surface
// serialization or I/O failures to callers: a failed save means the mutation
// had no durable effect, a corrupt payload degrades to the caller's default.
package storage

// Adapter is the uniform contract over one persistence scope. The session
// scope (Memory) lasts for the process, the durable scope (File) survives
// restarts; the contract is identical either way.
type Adapter interface {
	// Save serializes value under key. Failures are logged, not returned.
	Save(key string, value any)
	// Load deserializes the payload stored under key into out, which must be
	// a non-nil pointer pre-filled with the caller's default. On a missing
	// key or corrupt payload out is left untouched and usedDefault is true.
	Load(key string, out any) (usedDefault bool)
	// Remove deletes key. Removing an absent key is a no-op.
	Remove(key string)
}

// Op identifies the adapter operation an Event refers to.
type Op string

const (
	OpSave   Op = "save"
	OpLoad   Op = "load"
	OpRemove Op = "remove"
)

// Event describes a storage failure for logging.
type Event struct {
	Op    Op
	Scope string
	Key   string
	Err   error
}

// Logger records storage failures.
type Logger interface {
	LogStorage(Event)
}

// LoggerFunc adapts a function to Logger.
type LoggerFunc func(Event)

// LogStorage implements Logger.
func (f LoggerFunc) LogStorage(event Event) {
	if f != nil {
		f(event)
	}
}

type noopLogger struct{}

func (noopLogger) LogStorage(Event) {}
