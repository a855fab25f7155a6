package types

import (
	"bytes"
	"encoding/json"
)

// Optional tracks whether a JSON field was present, explicitly null, or set.
// Set is true for both null and a value; Null tells them apart.
type Optional[T any] struct {
	Set   bool
	Null  bool
	Value T
}

// Some builds a present, non-null Optional.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: v}
}

// UnmarshalJSON implements json.Unmarshaler. It is only invoked when the key exists.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Null = true
		var zero T
		o.Value = zero
		return nil
	}
	o.Null = false
	return json.Unmarshal(data, &o.Value)
}

// MarshalJSON renders absent and null fields as null.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Set || o.Null {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// Get returns the value, falling back when absent or null.
func (o Optional[T]) Get(fallback T) T {
	if !o.Set || o.Null {
		return fallback
	}
	return o.Value
}
