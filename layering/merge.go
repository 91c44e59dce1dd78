// Package layering implements the partial-update merge used by the domain
// state modules: a partial value overlays a base value field by field, with
// provided (non-zero) fields winning wholesale.
package layering

import "reflect"

// MergePartial overlays partial onto base and returns the merged value. The
// merge is shallow: each exported struct field set on partial replaces the
// base field entirely — slices and maps are swapped out, never unioned or
// merged element-wise. Zero-valued partial fields keep the base value, which
// means a partial update cannot reset a field to its zero value; callers that
// need that semantics replace the whole value instead.
func MergePartial[T any](base, partial T) T {
	baseValue := reflect.ValueOf(base)
	partialValue := reflect.ValueOf(partial)

	if baseValue.Kind() != reflect.Struct {
		if !partialValue.IsValid() || partialValue.IsZero() {
			return base
		}
		return partial
	}

	merged := reflect.New(baseValue.Type()).Elem()
	merged.Set(baseValue)
	for i := 0; i < baseValue.NumField(); i++ {
		field := merged.Field(i)
		if !field.CanSet() {
			continue
		}
		overlay := partialValue.Field(i)
		if overlay.IsZero() {
			continue
		}
		field.Set(cloneValue(overlay))
	}
	return merged.Interface().(T)
}

// cloneValue copies slices and maps so the merged value does not alias the
// partial's backing storage.
func cloneValue(value reflect.Value) reflect.Value {
	switch value.Kind() {
	case reflect.Slice:
		if value.IsNil() {
			return value
		}
		clone := reflect.MakeSlice(value.Type(), value.Len(), value.Len())
		reflect.Copy(clone, value)
		return clone
	case reflect.Map:
		if value.IsNil() {
			return value
		}
		clone := reflect.MakeMapWithSize(value.Type(), value.Len())
		iter := value.MapRange()
		for iter.Next() {
			clone.SetMapIndex(iter.Key(), iter.Value())
		}
		return clone
	default:
		return value
	}
}
