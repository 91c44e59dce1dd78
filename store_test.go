package appstate_test

import (
	"sync"
	"testing"
	"time"

	appstate "github.com/goliatone/go-appstate"
	"github.com/goliatone/go-appstate/pkg/activity"
	"github.com/goliatone/go-appstate/storage"
)

type counter struct {
	Value int `json:"value"`
}

func TestStoreGetReturnsSnapshot(t *testing.T) {
	store := appstate.New(counter{Value: 1})
	if got := store.Get(); got.Value != 1 {
		t.Fatalf("expected initial snapshot, got %+v", got)
	}
}

func TestStoreUpdateNotifiesSynchronously(t *testing.T) {
	store := appstate.New(counter{})

	var seen []int
	store.Subscribe(func(c counter) {
		seen = append(seen, c.Value)
		// A subscriber reading immediately must observe the new state.
		if got := store.Get(); got.Value != c.Value {
			t.Fatalf("subscriber read stale state: got %d want %d", got.Value, c.Value)
		}
	})

	store.Update(func(c counter) counter {
		c.Value++
		return c
	})
	store.Set(counter{Value: 7})

	if len(seen) != 2 || seen[0] != 1 || seen[1] != 7 {
		t.Fatalf("unexpected notification sequence: %v", seen)
	}
}

func TestStoreCancelStopsNotifications(t *testing.T) {
	store := appstate.New(counter{})

	var calls int
	cancel := store.Subscribe(func(counter) { calls++ })
	store.Set(counter{Value: 1})
	cancel()
	cancel() // idempotent
	store.Set(counter{Value: 2})

	if calls != 1 {
		t.Fatalf("expected 1 notification, got %d", calls)
	}
}

func TestStoresAreIndependent(t *testing.T) {
	a := appstate.New(counter{})
	b := appstate.New(counter{})

	var aCalls, bCalls int
	a.Subscribe(func(counter) { aCalls++ })
	b.Subscribe(func(counter) { bCalls++ })

	a.Set(counter{Value: 1})

	if aCalls != 1 || bCalls != 0 {
		t.Fatalf("expected isolated notification, got a=%d b=%d", aCalls, bCalls)
	}
}

func TestStoreHydratesFromStorage(t *testing.T) {
	adapter := storage.NewMemory()
	adapter.Save("counter", counter{Value: 42})

	store := appstate.New(counter{Value: 1}, appstate.WithStorage[counter](adapter, "counter"))
	if got := store.Get(); got.Value != 42 {
		t.Fatalf("expected hydrated value, got %+v", got)
	}
	if store.UsedDefault() {
		t.Fatalf("expected hydration from snapshot")
	}
}

func TestStoreHydrationFallsBackToInitial(t *testing.T) {
	var events []appstate.LogEvent
	store := appstate.New(counter{Value: 5},
		appstate.WithStorage[counter](storage.NewMemory(), "counter"),
		appstate.WithName[counter]("counter"),
		appstate.WithLogger[counter](appstate.StoreLoggerFunc(func(e appstate.LogEvent) {
			events = append(events, e)
		})),
	)

	if got := store.Get(); got.Value != 5 {
		t.Fatalf("expected initial default, got %+v", got)
	}
	if !store.UsedDefault() {
		t.Fatalf("expected default fallback to be reported")
	}
	if len(events) != 1 || events[0].Op != appstate.OpHydrate {
		t.Fatalf("expected hydrate log event, got %+v", events)
	}
}

func TestStorePersistsAfterEveryMutation(t *testing.T) {
	adapter := storage.NewMemory()
	store := appstate.New(counter{}, appstate.WithStorage[counter](adapter, "counter"))

	store.Set(counter{Value: 3})

	reloaded := appstate.New(counter{}, appstate.WithStorage[counter](adapter, "counter"))
	if got := reloaded.Get(); got.Value != 3 {
		t.Fatalf("expected persisted value, got %+v", got)
	}
}

func TestStoreEmitsActivityEvents(t *testing.T) {
	capture := &activity.CaptureHook{}
	store := appstate.New(counter{},
		appstate.WithName[counter]("counter"),
		appstate.WithActivityHooks[counter](activity.Hooks{capture}),
	)

	store.Set(counter{Value: 9})

	if len(capture.Events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(capture.Events))
	}
	event := capture.Events[0]
	if event.Verb != "counter.updated" || event.ObjectID != "counter" {
		t.Fatalf("unexpected event: %+v", event)
	}
}

func TestStoreSerializesConcurrentNotifications(t *testing.T) {
	store := appstate.New(counter{})

	var mu sync.Mutex
	var seen []int
	second := make(chan struct{})

	store.Subscribe(func(c counter) {
		if c.Value == 1 {
			go func() {
				store.Set(counter{Value: 2})
				close(second)
			}()
			// Give the concurrent mutation every chance to interleave; its
			// notification must still land after this one completes.
			time.Sleep(50 * time.Millisecond)
		}
		mu.Lock()
		seen = append(seen, c.Value)
		mu.Unlock()
	})

	store.Set(counter{Value: 1})
	<-second

	mu.Lock()
	defer mu.Unlock()
	if len(seen) != 2 || seen[0] != 1 || seen[1] != 2 {
		t.Fatalf("expected notifications in mutation order, got %v", seen)
	}
	if got := store.Get(); got.Value != 2 {
		t.Fatalf("expected final value 2, got %+v", got)
	}
}

func TestStoreUpdateReturnsNewValue(t *testing.T) {
	store := appstate.New(counter{Value: 2})
	got := store.Update(func(c counter) counter {
		c.Value *= 2
		return c
	})
	if got.Value != 4 {
		t.Fatalf("expected 4, got %+v", got)
	}
}
