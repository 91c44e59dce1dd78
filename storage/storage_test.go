package storage_test

import (
	"testing"

	"github.com/goliatone/go-appstate/storage"
)

type snapshot struct {
	Name  string   `json:"name"`
	Items []string `json:"items"`
}

func TestMemorySaveLoadRoundTrip(t *testing.T) {
	adapter := storage.NewMemory()
	saved := snapshot{Name: "cart", Items: []string{"a", "b"}}
	adapter.Save("cart", saved)

	loaded := snapshot{Name: "default"}
	usedDefault := adapter.Load("cart", &loaded)
	if usedDefault {
		t.Fatalf("expected stored payload, got default")
	}
	if loaded.Name != "cart" || len(loaded.Items) != 2 {
		t.Fatalf("round-trip mismatch: %+v", loaded)
	}
}

func TestMemoryLoadMissingKeyKeepsDefault(t *testing.T) {
	adapter := storage.NewMemory()
	loaded := snapshot{Name: "default"}
	if !adapter.Load("absent", &loaded) {
		t.Fatalf("expected usedDefault for absent key")
	}
	if loaded.Name != "default" {
		t.Fatalf("expected default untouched, got %+v", loaded)
	}
}

func TestMemorySaveUnserializableKeepsPrevious(t *testing.T) {
	var events []storage.Event
	adapter := storage.NewMemory(storage.MemoryWithLogger(storage.LoggerFunc(func(e storage.Event) {
		events = append(events, e)
	})))

	adapter.Save("cart", snapshot{Name: "first"})
	adapter.Save("cart", func() {}) // not JSON-serializable

	if len(events) != 1 || events[0].Op != storage.OpSave {
		t.Fatalf("expected one save failure event, got %+v", events)
	}

	loaded := snapshot{}
	if adapter.Load("cart", &loaded) {
		t.Fatalf("expected previous payload to survive failed save")
	}
	if loaded.Name != "first" {
		t.Fatalf("expected first payload, got %+v", loaded)
	}
}

func TestMemoryRemoveIdempotent(t *testing.T) {
	adapter := storage.NewMemory()
	adapter.Save("cart", snapshot{Name: "x"})
	adapter.Remove("cart")
	adapter.Remove("cart")

	loaded := snapshot{Name: "default"}
	if !adapter.Load("cart", &loaded) {
		t.Fatalf("expected default after remove")
	}
}
