package models

import (
	"encoding/json"
)

// Optional distinguishes a JSON field that was absent from one sent as null.
// Set is true whenever the key appeared; Null is true when its value was null.
type Optional[T any] struct {
	Set   bool
	Null  bool
	Value T
}

// Some returns a supplied, non-null Optional
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: v}
}

// Null returns a supplied Optional holding null
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true, Null: true}
}

// UnmarshalJSON records presence; encoding/json calls it for an explicit null too.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Null = true
		var zero T
		o.Value = zero
		return nil
	}
	o.Null = false
	return json.Unmarshal(data, &o.Value)
}

// MarshalJSON writes null for absent or null values
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Set || o.Null {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// Ptr returns nil for a null value and a pointer to the value otherwise
func (o Optional[T]) Ptr() *T {
	if o.Null {
		return nil
	}
	v := o.Value
	return &v
}

// HasValue reports whether the field was supplied with a non-null value
func (o Optional[T]) HasValue() bool {
	return o.Set && !o.Null
}

// SQLValue returns the value to bind as a statement parameter: nil for null.
func (o Optional[T]) SQLValue() interface{} {
	if o.Null {
		return nil
	}
	return o.Value
}
