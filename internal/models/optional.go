package models

import "encoding/json"

// Optional holds a value that may be unavailable.
//
// The zero value is unavailable with a nil reason.
type Optional[T any] struct {
	value     T
	available bool
	reason    error
}

// Present wraps a loaded value.
func Present[T any](v T) Optional[T] {
	return Optional[T]{value: v, available: true}
}

// Absent records that a value could not be loaded and why.
func Absent[T any](reason error) Optional[T] {
	return Optional[T]{reason: reason}
}

// Ok reports whether the value was loaded.
func (o Optional[T]) Ok() bool { return o.available }

// Get returns the value and whether it was loaded.
func (o Optional[T]) Get() (T, bool) { return o.value, o.available }

// Value returns the loaded value, or the zero value of T.
func (o Optional[T]) Value() T { return o.value }

// Reason returns the error that made the value unavailable.
func (o Optional[T]) Reason() error { return o.reason }

// MarshalJSON encodes the value, or null when unavailable.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.available {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}
