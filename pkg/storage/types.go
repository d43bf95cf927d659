package storage

import (
	"reflect"
)

// TypeTag identifies a key or value type at runtime.
// Tags compare with ==; two tags are equal only for the identical type,
// never for an interface the type happens to implement.
type TypeTag struct {
	t reflect.Type
}

// TypeOf returns the tag for T.
func TypeOf[T any]() TypeTag {
	return TypeTag{t: reflect.TypeFor[T]()}
}

// TagOf returns the tag for a reflect.Type.
func TagOf(t reflect.Type) TypeTag {
	return TypeTag{t: t}
}

// Type returns the underlying reflect.Type, nil for the zero tag.
func (t TypeTag) Type() reflect.Type {
	return t.t
}

// IsZero reports whether the tag names no type.
func (t TypeTag) IsZero() bool {
	return t.t == nil
}

func (t TypeTag) String() string {
	if t.t == nil {
		return "<none>"
	}
	return t.t.String()
}
