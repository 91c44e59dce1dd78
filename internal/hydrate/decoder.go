package hydrate

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
)

// Context carries identifiers tied to a persisted payload.
type Context struct {
	Key   string
	Scope string
}

// PreHook lets callers rewrite the raw payload before decoding, e.g. to
// migrate a legacy snapshot shape.
type PreHook func(Context, []byte) ([]byte, error)

// PostHook lets callers adjust or validate the hydrated value after decoding.
type PostHook[T any] func(Context, *T) error

// DecoderOption configures a Decoder instance.
type DecoderOption[T any] func(*Decoder[T])

// Decoder converts persisted JSON payloads into strongly typed values.
type Decoder[T any] struct {
	preHooks     []PreHook
	postHooks    []PostHook[T]
	configureDec []func(*json.Decoder)
}

// WithPreHook applies hook prior to decoding.
func WithPreHook[T any](hook PreHook) DecoderOption[T] {
	return func(d *Decoder[T]) {
		d.preHooks = append(d.preHooks, hook)
	}
}

// WithPostHook applies hook after decoding completes.
func WithPostHook[T any](hook PostHook[T]) DecoderOption[T] {
	return func(d *Decoder[T]) {
		d.postHooks = append(d.postHooks, hook)
	}
}

// WithDecoderConfig allows callers to configure the json.Decoder directly.
func WithDecoderConfig[T any](configure func(*json.Decoder)) DecoderOption[T] {
	return func(d *Decoder[T]) {
		if configure != nil {
			d.configureDec = append(d.configureDec, configure)
		}
	}
}

func NewDecoder[T any](opts ...DecoderOption[T]) *Decoder[T] {
	d := &Decoder[T]{}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// Decode converts payload into a value of T applying configured hooks.
func (d *Decoder[T]) Decode(ctx Context, payload []byte) (T, error) {
	var zero T

	if len(payload) == 0 {
		return zero, fmt.Errorf("hydrate: payload is empty for key %q", ctx.Key)
	}

	current := payload
	for _, hook := range d.preHooks {
		if hook == nil {
			continue
		}
		next, err := hook(ctx, current)
		if err != nil {
			return zero, fmt.Errorf("hydrate: pre-hook for key %q failed: %w", ctx.Key, err)
		}
		if next != nil {
			current = next
		}
	}

	var result T
	decoder := json.NewDecoder(bytes.NewReader(current))
	for _, configure := range d.configureDec {
		if configure != nil {
			configure(decoder)
		}
	}
	if err := decoder.Decode(&result); err != nil {
		return zero, fmt.Errorf("hydrate: decode key %q: %w", ctx.Key, err)
	}

	for _, hook := range d.postHooks {
		if hook == nil {
			continue
		}
		if err := hook(ctx, &result); err != nil {
			return zero, fmt.Errorf("hydrate: post-hook for key %q failed: %w", ctx.Key, err)
		}
	}

	return result, nil
}

// Strict decodes payload into out all-or-nothing: out is only written when the
// whole payload parses, so a corrupt snapshot never leaves a half-filled value.
// out must be a non-nil pointer.
func Strict(payload []byte, out any) error {
	if len(payload) == 0 {
		return fmt.Errorf("hydrate: payload is empty")
	}
	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("hydrate: out must be a non-nil pointer, got %T", out)
	}

	scratch := reflect.New(rv.Type().Elem())
	if err := json.Unmarshal(payload, scratch.Interface()); err != nil {
		return fmt.Errorf("hydrate: decode: %w", err)
	}
	rv.Elem().Set(scratch.Elem())
	return nil
}
