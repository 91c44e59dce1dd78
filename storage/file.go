package storage

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-appstate/internal/hydrate"
)

// File is the durable-scope adapter: one JSON file per key under a directory,
// surviving process restarts. It holds tokens, table-visibility preferences,
// and language selection.
type File struct {
	dir    string
	logger Logger
}

// FileOption configures a File adapter.
type FileOption func(*File)

// FileWithLogger wires a failure logger into the adapter.
func FileWithLogger(logger Logger) FileOption {
	return func(f *File) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// NewFile constructs a durable adapter rooted at dir, creating it if needed.
// Directory creation failures are reported through the logger; subsequent
// saves will keep failing and keep being logged, loads fall back to defaults.
func NewFile(dir string, opts ...FileOption) *File {
	f := &File{
		dir:    dir,
		logger: noopLogger{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		f.logger.LogStorage(Event{Op: OpSave, Scope: "durable", Key: "", Err: err})
	}
	return f
}

// Save serializes value to <dir>/<key>.json via a temp-file rename so a crash
// mid-write never leaves a truncated payload behind.
func (f *File) Save(key string, value any) {
	payload, err := json.Marshal(value)
	if err != nil {
		f.logger.LogStorage(Event{Op: OpSave, Scope: "durable", Key: key, Err: err})
		return
	}

	path := f.path(key)
	tmp, err := os.CreateTemp(f.dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		f.logger.LogStorage(Event{Op: OpSave, Scope: "durable", Key: key, Err: err})
		return
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		f.logger.LogStorage(Event{Op: OpSave, Scope: "durable", Key: key, Err: err})
		return
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		f.logger.LogStorage(Event{Op: OpSave, Scope: "durable", Key: key, Err: err})
		return
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		f.logger.LogStorage(Event{Op: OpSave, Scope: "durable", Key: key, Err: err})
	}
}

// Load decodes <dir>/<key>.json into out; missing files and corrupt payloads
// leave out untouched.
func (f *File) Load(key string, out any) bool {
	payload, err := os.ReadFile(f.path(key))
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			f.logger.LogStorage(Event{Op: OpLoad, Scope: "durable", Key: key, Err: err})
		}
		return true
	}
	if err := hydrate.Strict(payload, out); err != nil {
		f.logger.LogStorage(Event{Op: OpLoad, Scope: "durable", Key: key, Err: err})
		return true
	}
	return false
}

// Remove deletes the file for key; an absent file is not an error.
func (f *File) Remove(key string) {
	if err := os.Remove(f.path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		f.logger.LogStorage(Event{Op: OpRemove, Scope: "durable", Key: key, Err: err})
	}
}

func (f *File) path(key string) string {
	return filepath.Join(f.dir, sanitizeKey(key)+".json")
}

// sanitizeKey keeps keys usable as file names without letting a caller walk
// out of the adapter directory.
func sanitizeKey(key string) string {
	replacer := strings.NewReplacer("/", "_", "\\", "_", "..", "_")
	cleaned := replacer.Replace(key)
	if cleaned == "" {
		return "_"
	}
	return cleaned
}
