package activity

import (
	"context"
	"errors"
	"testing"
)

func TestNormalizeEventTrimsClonesAndDefaults(t *testing.T) {
	meta := map[string]any{"k": "v"}
	evt := Event{
		Verb:       " cart.updated ",
		ActorID:    " actor ",
		BusinessID: " biz ",
		ObjectType: " cart ",
		ObjectID:   " 42 ",
		Channel:    " appstate ",
		Metadata:   meta,
	}

	got := NormalizeEvent(evt)

	if got.Verb != "cart.updated" || got.ObjectType != "cart" || got.ObjectID != "42" {
		t.Fatalf("unexpected normalized fields: %+v", got)
	}
	if got.ActorID != "actor" || got.BusinessID != "biz" || got.Channel != "appstate" {
		t.Fatalf("unexpected trimming: %+v", got)
	}
	if got.OccurredAt.IsZero() {
		t.Fatalf("expected OccurredAt to be set")
	}
	if got.Metadata["k"] != "v" {
		t.Fatalf("expected metadata value preserved: %+v", got.Metadata)
	}
	got.Metadata["k"] = "changed"
	if evt.Metadata["k"] != "v" {
		t.Fatalf("expected original metadata untouched: %+v", evt.Metadata)
	}
}

func TestHooksNotifyShortCircuitsMissingRequired(t *testing.T) {
	hooks := Hooks{&CaptureHook{}}
	err := hooks.Notify(context.Background(), Event{})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	capture := hooks[0].(*CaptureHook)
	if len(capture.Events) != 0 {
		t.Fatalf("expected no events captured, got %d", len(capture.Events))
	}
}

func TestHooksNotifyFanOutAndJoinErrors(t *testing.T) {
	capture := &CaptureHook{}
	var ctxSeen bool
	errBoom := errors.New("boom")
	hooks := Hooks{
		HookFunc(func(ctx context.Context, event Event) error {
			if ctx != nil {
				ctxSeen = true
			}
			return nil
		}),
		nil,
		capture,
		HookFunc(func(context.Context, Event) error { return errBoom }),
	}

	err := hooks.Notify(nil, Event{Verb: "cart.updated", ObjectType: "cart", ObjectID: "cart"})
	if !errors.Is(err, errBoom) {
		t.Fatalf("expected joined error containing boom, got %v", err)
	}
	if !ctxSeen {
		t.Fatalf("expected background context substituted for nil")
	}
	if len(capture.Events) != 1 {
		t.Fatalf("expected capture to record 1 event, got %d", len(capture.Events))
	}
}

func TestEmitterAppliesDefaultChannel(t *testing.T) {
	capture := &CaptureHook{}
	emitter := NewEmitter(Hooks{capture}, Config{Enabled: true})

	if err := emitter.Emit(context.Background(), Event{
		Verb:       "selection.toggled",
		ObjectType: "selection",
		ObjectID:   "selection",
	}); err != nil {
		t.Fatalf("emit: %v", err)
	}
	if len(capture.Events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(capture.Events))
	}
	if capture.Events[0].Channel != "appstate" {
		t.Fatalf("expected default channel, got %q", capture.Events[0].Channel)
	}
}

func TestEmitterDisabledIsNoop(t *testing.T) {
	capture := &CaptureHook{}
	emitter := NewEmitter(Hooks{capture}, Config{Enabled: false})

	if err := emitter.Emit(context.Background(), Event{
		Verb:       "cart.updated",
		ObjectType: "cart",
		ObjectID:   "cart",
	}); err != nil {
		t.Fatalf("emit: %v", err)
	}
	if len(capture.Events) != 0 {
		t.Fatalf("expected no events, got %d", len(capture.Events))
	}
}
