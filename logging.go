package appstate

// Store log operations.
const (
	OpHydrate = "hydrate"
	OpNotify  = "notify"
)

// LogEvent describes a store-level incident for logging.
type LogEvent struct {
	Object string
	Op     string
	Err    error
}

// StoreLogger records store events.
type StoreLogger interface {
	LogStore(LogEvent)
}

// StoreLoggerFunc adapts a function to StoreLogger.
type StoreLoggerFunc func(LogEvent)

// LogStore implements StoreLogger.
func (f StoreLoggerFunc) LogStore(event LogEvent) {
	if f != nil {
		f(event)
	}
}

type noopStoreLogger struct{}

func (noopStoreLogger) LogStore(LogEvent) {}
