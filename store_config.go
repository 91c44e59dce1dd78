package appstate

import (
	"github.com/goliatone/go-appstate/pkg/activity"
	"github.com/goliatone/go-appstate/storage"
)

// StoreOption configures a Store at construction time.
type StoreOption[T any] func(*storeConfig[T])

type storeConfig[T any] struct {
	name    string
	adapter storage.Adapter
	key     string
	hooks   activity.Hooks
	logger  StoreLogger
}

// WithName labels the store for log and activity events.
func WithName[T any](name string) StoreOption[T] {
	return func(cfg *storeConfig[T]) {
		if name != "" {
			cfg.name = name
		}
	}
}

// WithStorage binds the store to adapter under key: hydrate at construction,
// persist after every mutation.
func WithStorage[T any](adapter storage.Adapter, key string) StoreOption[T] {
	return func(cfg *storeConfig[T]) {
		cfg.adapter = adapter
		cfg.key = key
	}
}

// WithActivityHooks attaches hooks notified with a generic state.updated
// event after each mutation. Hook failures are logged, never propagated to
// the mutating caller.
func WithActivityHooks[T any](hooks activity.Hooks) StoreOption[T] {
	return func(cfg *storeConfig[T]) {
		cfg.hooks = cloneHooks(hooks)
	}
}

// WithLogger attaches a logger for hydration fallbacks and hook failures.
func WithLogger[T any](logger StoreLogger) StoreOption[T] {
	return func(cfg *storeConfig[T]) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

func applyStoreOptions[T any](opts []StoreOption[T]) storeConfig[T] {
	cfg := storeConfig[T]{
		name:   "state",
		logger: noopStoreLogger{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

func cloneHooks(hooks activity.Hooks) activity.Hooks {
	if len(hooks) == 0 {
		return nil
	}
	normalized := make([]activity.ActivityHook, 0, len(hooks))
	for _, hook := range hooks {
		if hook == nil {
			continue
		}
		normalized = append(normalized, hook)
	}
	if len(normalized) == 0 {
		return nil
	}
	return activity.Hooks(normalized)
}
